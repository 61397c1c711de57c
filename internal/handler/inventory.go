package handler

import (
	"net/http"
	"time"

	"martpos/internal/apierror"
	"martpos/internal/dto"
	"martpos/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	consumption service.ConsumptionService
	sweeper     service.ExpirySweeper
	products    service.ProductService
	clock       service.Clock
}

func NewInventoryHandler(
	consumption service.ConsumptionService,
	sweeper service.ExpirySweeper,
	products service.ProductService,
	clock service.Clock,
) *InventoryHandler {
	if clock == nil {
		clock = service.SystemClock()
	}
	return &InventoryHandler{consumption: consumption, sweeper: sweeper, products: products, clock: clock}
}

// Consume godoc
// @Summary      Consume stock FIFO
// @Description  Satisfies the requested quantity from the product's oldest eligible batches, all-or-nothing, and reports blended cost/revenue.
// @Tags         inventory
// @Param        request body dto.ConsumeRequest true "Consumption"
// @Success      200 {object} dto.ConsumptionResult
// @Failure      422 {object} apierror.APIError "insufficient stock"
// @Failure      409 {object} apierror.APIError "concurrent mutation, retry"
// @Router       /v1/inventory/consume [post]
func (h *InventoryHandler) Consume(c *gin.Context) {
	var req dto.ConsumeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.consumption.Consume(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExpirySweep triggers a sweep manually. The cron runs the same path on a
// schedule; this endpoint exists for ops and backfills.
func (h *InventoryHandler) ExpirySweep(c *gin.Context) {
	asOf := h.clock.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("as_of must be YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}
	report, err := h.sweeper.Sweep(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Alerts lists products at or below their minimum stock.
func (h *InventoryHandler) Alerts(c *gin.Context) {
	resp, err := h.products.GetAlerts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
