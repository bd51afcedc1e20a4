// internal/service/exchange_service.go
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/clock"
	"github.com/vanhieuhoaiphu/currency-converter/internal/metrics"
	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
)

type ExchangeConfig struct {
	DebounceDelay time.Duration
	Formatter     Formatter
	Clock         clock.Clock
}

// ExchangeService ties the price store to converter sessions and serves
// stateless conversions.
type ExchangeService struct {
	store    *PriceStore
	registry *SessionRegistry
	cfg      ExchangeConfig
	metrics  *metrics.ConverterMetrics
	logger   *zap.Logger

	closing      chan struct{}
	shutdownOnce sync.Once
}

func NewExchangeService(store *PriceStore, cfg ExchangeConfig, m *metrics.ConverterMetrics, logger *zap.Logger) *ExchangeService {
	if cfg.Formatter == (Formatter{}) {
		cfg.Formatter = DefaultFormatter()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}

	return &ExchangeService{
		store:    store,
		registry: NewSessionRegistry(m, logger),
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
		closing:  make(chan struct{}),
	}
}

func (s *ExchangeService) Store() *PriceStore {
	return s.store
}

// Convert derives a conversion without any session state or debouncing.
func (s *ExchangeService) Convert(req *models.ConversionRequest) *models.ConversionResponse {
	raw := string(req.Amount)
	conv := Convert(req.BasePrice, req.TargetPrice, raw)
	s.metrics.ConversionsTotal.WithLabelValues(string(conv.Status)).Inc()

	return &models.ConversionResponse{
		BasePrice:   req.BasePrice,
		TargetPrice: req.TargetPrice,
		Amount:      raw,
		Converted:   conv.Value,
		Display:     s.cfg.Formatter.Format(conv.Value),
		Status:      conv.Status,
	}
}

// Prices reports the store state for the presentation layer.
func (s *ExchangeService) Prices() models.PricesResponse {
	resp := models.PricesResponse{
		Loading: s.store.Loading(),
		Prices:  s.store.Entries(),
	}
	if !resp.Loading {
		if err := s.store.Result().Err; err != nil {
			resp.Error = err.Error()
		}
	}
	return resp
}

// GetSupportedCurrencies returns the currency codes present in the price list
func (s *ExchangeService) GetSupportedCurrencies() []string {
	return s.store.Currencies()
}

// OpenSession creates and registers a session publishing to pub. The
// selection defaults come from the store as it is at call time.
func (s *ExchangeService) OpenSession(pub Publisher) *Session {
	sess := NewSession(uuid.NewString(), s.store.Defaults(), pub, SessionConfig{
		Delay:     s.cfg.DebounceDelay,
		Clock:     s.cfg.Clock,
		Formatter: s.cfg.Formatter,
	}, s.metrics, s.logger)

	s.registry.Add(sess)
	s.logger.Debug("session opened",
		zap.String("session_id", sess.ID()),
		zap.Int("active", s.registry.Count()))
	return sess
}

func (s *ExchangeService) CloseSession(id string) {
	s.registry.Remove(id)
}

func (s *ExchangeService) ActiveSessions() int {
	return s.registry.Count()
}

// Closing is closed when Shutdown starts. Connection handlers watch it
// to hang up on their clients.
func (s *ExchangeService) Closing() <-chan struct{} {
	return s.closing
}

// Shutdown signals Closing and closes every open session. It is safe to
// call more than once.
func (s *ExchangeService) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.closing)
	})
	s.registry.CloseAll()
}
