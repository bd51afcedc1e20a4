// internal/handler/currency_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
	"github.com/vanhieuhoaiphu/currency-converter/internal/service"
)

type CurrencyHandler struct {
	service *service.ExchangeService
	logger  *zap.Logger
}

func NewCurrencyHandler(service *service.ExchangeService, logger *zap.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		service: service,
		logger:  logger,
	}
}

// ConvertCurrency runs a one-off conversion. It is not debounced.
func (h *CurrencyHandler) ConvertCurrency(c *gin.Context) {
	var req models.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.Convert(&req)
	if result.Status != models.StatusOK {
		h.logger.Debug("conversion produced no value",
			zap.Float64("base_price", req.BasePrice),
			zap.Float64("target_price", req.TargetPrice),
			zap.String("status", string(result.Status)))
	}

	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) GetPrices(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Prices())
}

func (h *CurrencyHandler) GetSupportedCurrencies(c *gin.Context) {
	currencies := h.service.GetSupportedCurrencies()
	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}
