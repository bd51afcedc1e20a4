// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/config"
	"github.com/vanhieuhoaiphu/currency-converter/internal/handler"
	"github.com/vanhieuhoaiphu/currency-converter/internal/metrics"
	"github.com/vanhieuhoaiphu/currency-converter/internal/service"
	"github.com/vanhieuhoaiphu/currency-converter/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("currency-converter", cfg.IsDevelopment())
	defer log.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.NewConverterMetrics(prometheus.DefaultRegisterer)

	// Initialize price store
	fetcher := service.NewPriceFetcher(cfg.Prices.URL, cfg.Prices.FetchTimeout)
	store := service.NewPriceStore(fetcher, m, log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go store.Load(ctx)

	// Initialize services
	exchangeService := service.NewExchangeService(store, service.ExchangeConfig{
		DebounceDelay: cfg.Converter.DebounceDelay,
		Formatter: service.Formatter{
			Precision: cfg.Converter.DisplayPrecision,
			Thousand:  cfg.Converter.ThousandSeparator,
			Decimal:   cfg.Converter.DecimalSeparator,
		},
	}, m, log)

	// Setup router
	router := handler.NewRouter(exchangeService, m, handler.RouterConfig{
		WSSendBuffer:   cfg.Server.WSSendBuffer,
		MetricsHandler: promhttp.Handler(),
	}, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting currency converter",
			zap.String("port", cfg.Server.Port),
			zap.String("prices_url", cfg.Prices.URL),
			zap.Duration("debounce_delay", cfg.Converter.DebounceDelay))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()
	exchangeService.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
