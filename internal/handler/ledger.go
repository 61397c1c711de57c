package handler

import (
	"net/http"
	"strconv"

	"martpos/internal/apierror"
	"martpos/internal/dto"
	"martpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LedgerHandler struct{ svc service.LedgerService }

func NewLedgerHandler(svc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// List godoc
// @Summary      Read the stock ledger
// @Description  Paginated, newest first. Filters by product, batch number, movement type and date range.
// @Tags         ledger
// @Param        product_id    query string false "Product UUID"
// @Param        batch_number  query string false "Batch number"
// @Param        movement_type query string false "purchase|sale|adjustment|expired|damage"
// @Param        from          query string false "YYYY-MM-DD"
// @Param        to            query string false "YYYY-MM-DD (inclusive)"
// @Success      200 {object} dto.LedgerListResponse
// @Router       /v1/ledger [get]
func (h *LedgerHandler) List(c *gin.Context) {
	var q dto.LedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByProduct serves GET /v1/products/:id/ledger.
func (h *LedgerHandler) ListByProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	resp, err := h.svc.ListByProduct(c.Request.Context(), id, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
