// internal/handler/router.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/metrics"
	"github.com/vanhieuhoaiphu/currency-converter/internal/service"
	"github.com/vanhieuhoaiphu/currency-converter/pkg/middleware"
)

type RouterConfig struct {
	WSSendBuffer   int
	MetricsHandler http.Handler
}

func NewRouter(svc *service.ExchangeService, m *metrics.ConverterMetrics, cfg RouterConfig, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	router.SetHTMLTemplate(LoadTemplates())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if svc.Store().Loading() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	pageHandler := NewPageHandler(svc)
	wsHandler := NewWSHandler(svc, m, cfg.WSSendBuffer, log)
	currencyHandler := NewCurrencyHandler(svc, log)

	router.GET("/", pageHandler.Index)
	router.GET(wsPath, wsHandler.HandleConnection)

	v1 := router.Group("/api/v1")
	{
		currency := v1.Group("/currency")
		{
			currency.POST("/convert", currencyHandler.ConvertCurrency)
			currency.GET("/prices", currencyHandler.GetPrices)
			currency.GET("/supported", currencyHandler.GetSupportedCurrencies)
		}
	}

	return router
}
