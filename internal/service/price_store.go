// internal/service/price_store.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/metrics"
	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
)

// PriceStore holds the price list fetched once at startup. It never
// refreshes; a failed fetch leaves it empty for the life of the process.
type PriceStore struct {
	fetcher Fetcher
	metrics *metrics.ConverterMetrics
	logger  *zap.Logger

	once   sync.Once
	done   chan struct{}
	mu     sync.RWMutex
	result FetchResult
}

func NewPriceStore(fetcher Fetcher, m *metrics.ConverterMetrics, logger *zap.Logger) *PriceStore {
	return &PriceStore{
		fetcher: fetcher,
		metrics: m,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Load runs the fetch on the first call and returns its result. Later
// calls block until the first one finishes and return the same result.
func (s *PriceStore) Load(ctx context.Context) FetchResult {
	s.once.Do(func() {
		start := time.Now()
		result := s.fetcher.Fetch(ctx)
		s.metrics.PriceFetchDuration.Observe(time.Since(start).Seconds())

		s.mu.Lock()
		s.result = result
		s.mu.Unlock()

		if result.OK() {
			s.metrics.PriceFetchTotal.WithLabelValues("success").Inc()
			s.metrics.PricesLoaded.Set(float64(len(result.Entries)))
			s.logger.Info("price list loaded",
				zap.Int("entries", len(result.Entries)),
				zap.Duration("took", time.Since(start)))
		} else {
			s.metrics.PriceFetchTotal.WithLabelValues(fetchOutcome(result.Err)).Inc()
			s.logger.Warn("price list unavailable, continuing with an empty form",
				zap.Error(result.Err))
		}

		close(s.done)
	})

	<-s.done
	return s.Result()
}

// Done is closed once loading has completed, successfully or not.
func (s *PriceStore) Done() <-chan struct{} {
	return s.done
}

func (s *PriceStore) Loading() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *PriceStore) Result() FetchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Entries returns a copy of the loaded price list.
func (s *PriceStore) Entries() []models.PriceEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PriceEntry, len(s.result.Entries))
	copy(out, s.result.Entries)
	return out
}

// Defaults is the initial selection: the first entry's price for both
// sides, or zero when nothing was loaded.
func (s *PriceStore) Defaults() models.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.result.Entries) == 0 {
		return models.Selection{}
	}
	first := s.result.Entries[0].Price
	return models.Selection{BasePrice: first, TargetPrice: first}
}

// Currencies lists each currency code once, in feed order.
func (s *PriceStore) Currencies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.result.Entries))
	out := make([]string, 0, len(s.result.Entries))
	for _, e := range s.result.Entries {
		if seen[e.Currency] {
			continue
		}
		seen[e.Currency] = true
		out = append(out, e.Currency)
	}
	return out
}

func fetchOutcome(err error) string {
	switch {
	case errors.Is(err, ErrFetchStatus):
		return "status"
	case errors.Is(err, ErrFetchDecode):
		return "decode"
	case errors.Is(err, ErrFetchEmpty):
		return "empty"
	default:
		return "network"
	}
}
