// internal/service/session.go
package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/clock"
	"github.com/vanhieuhoaiphu/currency-converter/internal/debounce"
	"github.com/vanhieuhoaiphu/currency-converter/internal/metrics"
	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
)

// Publisher receives every recomputed conversion of a session. Publish is
// called with the session lock held, so it must not block and must not
// call back into the session.
type Publisher interface {
	Publish(update models.Update)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(models.Update)

func (f PublisherFunc) Publish(update models.Update) {
	f(update)
}

type SessionConfig struct {
	Delay     time.Duration
	Clock     clock.Clock
	Formatter Formatter
}

// SessionState is a point-in-time view of a session.
type SessionState struct {
	ID              string           `json:"id"`
	Selection       models.Selection `json:"selection"`
	RawAmount       string           `json:"raw_amount"`
	DebouncedAmount string           `json:"debounced_amount"`
	Pending         bool             `json:"pending"`
	Last            models.Update    `json:"last"`
}

// Session is the state behind one converter form: the two selected prices,
// the raw amount as typed, and its debounced counterpart. Selection changes
// recompute immediately; amount changes recompute only once the debouncer
// settles.
type Session struct {
	id        string
	publisher Publisher
	formatter Formatter
	metrics   *metrics.ConverterMetrics
	logger    *zap.Logger

	mu        sync.Mutex
	selection models.Selection
	rawAmount string
	amount    *debounce.Debouncer[string]
	seq       uint64
	last      models.Update
	closed    bool
}

// NewSession starts a session whose selection defaults to defaults.
func NewSession(id string, defaults models.Selection, publisher Publisher, cfg SessionConfig, m *metrics.ConverterMetrics, logger *zap.Logger) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Formatter == (Formatter{}) {
		cfg.Formatter = DefaultFormatter()
	}

	s := &Session{
		id:        id,
		publisher: publisher,
		formatter: cfg.Formatter,
		metrics:   m,
		logger:    logger.With(zap.String("session_id", id)),
		selection: defaults,
	}
	s.amount = debounce.New("", cfg.Delay, s.onAmountSettled,
		debounce.WithClock(cfg.Clock),
		debounce.WithDropHook(m.DebounceDroppedTotal.Inc),
	)
	s.last = s.buildUpdate(Convert(defaults.BasePrice, defaults.TargetPrice, ""), "")

	return s
}

func (s *Session) ID() string {
	return s.id
}

// SelectBase sets the base price. The value is not checked against the
// price list.
func (s *Session) SelectBase(price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.selection.BasePrice = price
	s.recomputeLocked()
}

// SelectTarget sets the target price. The value is not checked against
// the price list.
func (s *Session) SelectTarget(price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.selection.TargetPrice = price
	s.recomputeLocked()
}

// InputAmount records the raw amount text and feeds the debouncer.
func (s *Session) InputAmount(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.rawAmount = raw
	s.amount.Set(raw)
}

func (s *Session) onAmountSettled(string) {
	s.metrics.DebounceSettledTotal.Inc()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.recomputeLocked()
}

// Last returns the most recent conversion.
func (s *Session) Last() models.Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionState{
		ID:              s.id,
		Selection:       s.selection,
		RawAmount:       s.rawAmount,
		DebouncedAmount: s.amount.Value(),
		Pending:         s.amount.Pending(),
		Last:            s.last,
	}
}

// Close tears the session down. A pending amount is discarded and nothing
// is published afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.amount.Stop()
	s.logger.Debug("session closed")
}

func (s *Session) recomputeLocked() {
	amount := s.amount.Value()
	conv := Convert(s.selection.BasePrice, s.selection.TargetPrice, amount)

	s.seq++
	s.last = s.buildUpdate(conv, amount)
	s.metrics.ConversionsTotal.WithLabelValues(string(conv.Status)).Inc()

	s.logger.Debug("conversion recomputed",
		zap.Uint64("seq", s.last.Seq),
		zap.Float64("base_price", s.selection.BasePrice),
		zap.Float64("target_price", s.selection.TargetPrice),
		zap.String("amount", amount),
		zap.String("status", string(conv.Status)))

	if s.publisher != nil {
		s.publisher.Publish(s.last)
	}
}

func (s *Session) buildUpdate(conv models.Conversion, amount string) models.Update {
	return models.Update{
		Seq:         s.seq,
		BasePrice:   s.selection.BasePrice,
		TargetPrice: s.selection.TargetPrice,
		Amount:      amount,
		Converted:   conv.Value,
		Display:     s.formatter.Format(conv.Value),
		Status:      conv.Status,
	}
}
