package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"martpos/internal/dto"
	"martpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const priceCacheTTL = time.Hour

// PriceCheckHandler answers the scanner lookup at the till. Responses are
// cached in Redis; product updates and deactivations evict the entry.
type PriceCheckHandler struct {
	svc service.ProductService
	rdb *redis.Client
}

func NewPriceCheckHandler(svc service.ProductService, rdb *redis.Client) *PriceCheckHandler {
	return &PriceCheckHandler{svc: svc, rdb: rdb}
}

// Check godoc
// @Summary      Price lookup by barcode
// @Tags         price
// @Param        barcode path string true "Product barcode"
// @Success      200 {object} dto.PriceCheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/price/{barcode} [get]
func (h *PriceCheckHandler) Check(c *gin.Context) {
	barcode := c.Param("barcode")
	key := service.PriceCacheKeyPrefix + barcode

	if h.rdb != nil {
		if cached, err := h.rdb.Get(c.Request.Context(), key).Result(); err == nil {
			var resp dto.PriceCheckResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	p, err := h.svc.GetByBarcode(c.Request.Context(), barcode)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp := dto.PriceCheckResponse{
		Barcode:      p.Barcode,
		Name:         p.Name,
		SellingPrice: p.SellingPrice,
		Unit:         p.Unit,
		InStock:      p.CurrentStock > 0,
	}

	if h.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := h.rdb.Set(c.Request.Context(), key, raw, priceCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("failed to cache price")
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
