package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/clock"
	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
)

func newTestExchangeService(t *testing.T, result FetchResult) (*ExchangeService, *clock.Manual) {
	t.Helper()
	m := newTestMetrics()
	c := clock.NewManual(time.Time{})
	store := NewPriceStore(&stubFetcher{result: result}, m, zap.NewNop())
	svc := NewExchangeService(store, ExchangeConfig{DebounceDelay: testDelay, Clock: c}, m, zap.NewNop())
	t.Cleanup(svc.Shutdown)
	return svc, c
}

func TestExchangeService_Convert(t *testing.T) {
	svc, _ := newTestExchangeService(t, FetchResult{Entries: usdEur})

	resp := svc.Convert(&models.ConversionRequest{BasePrice: 1, TargetPrice: 0.9, Amount: "100"})

	assert.Equal(t, ratio(1, 0.9, 100), resp.Converted)
	assert.Equal(t, "111.111", resp.Display)
	assert.Equal(t, models.StatusOK, resp.Status)
	assert.Equal(t, "100", resp.Amount)

	resp = svc.Convert(&models.ConversionRequest{BasePrice: 1, TargetPrice: 0, Amount: "50"})
	assert.Equal(t, float64(0), resp.Converted)
	assert.Equal(t, models.StatusDegenerateRate, resp.Status)
}

func TestExchangeService_PricesWhileLoadingAndAfter(t *testing.T) {
	svc, _ := newTestExchangeService(t, FetchResult{Entries: usdEur})

	before := svc.Prices()
	assert.True(t, before.Loading)
	assert.Empty(t, before.Prices)

	svc.Store().Load(context.Background())

	after := svc.Prices()
	assert.False(t, after.Loading)
	assert.Equal(t, usdEur, after.Prices)
	assert.Empty(t, after.Error)
	assert.Equal(t, []string{"USD", "EUR"}, svc.GetSupportedCurrencies())
}

func TestExchangeService_PricesAfterFailure(t *testing.T) {
	svc, _ := newTestExchangeService(t, FetchResult{Err: ErrFetchEmpty})
	svc.Store().Load(context.Background())

	resp := svc.Prices()
	assert.False(t, resp.Loading)
	assert.Empty(t, resp.Prices)
	assert.Equal(t, ErrFetchEmpty.Error(), resp.Error)
}

func TestExchangeService_SessionLifecycle(t *testing.T) {
	svc, c := newTestExchangeService(t, FetchResult{Entries: usdEur})
	svc.Store().Load(context.Background())

	pub := &recordingPublisher{}
	sess := svc.OpenSession(pub)
	require.NotEmpty(t, sess.ID())
	assert.Equal(t, 1, svc.ActiveSessions())

	state := sess.Snapshot()
	assert.Equal(t, models.Selection{BasePrice: 1, TargetPrice: 1}, state.Selection)

	sess.SelectTarget(0.9)
	sess.InputAmount("100")
	c.Advance(testDelay)
	require.Len(t, pub.all(), 2)

	svc.CloseSession(sess.ID())
	assert.Equal(t, 0, svc.ActiveSessions())

	sess.InputAmount("5")
	c.Advance(testDelay)
	assert.Len(t, pub.all(), 2)
}

func TestExchangeService_ShutdownClosesSessions(t *testing.T) {
	svc, c := newTestExchangeService(t, FetchResult{Entries: usdEur})
	svc.Store().Load(context.Background())

	pubs := []*recordingPublisher{{}, {}, {}}
	for _, p := range pubs {
		svc.OpenSession(p).InputAmount("1")
	}
	assert.Equal(t, 3, svc.ActiveSessions())
	assert.Equal(t, float64(3), testutil.ToFloat64(svc.metrics.ActiveSessions))

	svc.Shutdown()
	c.Advance(time.Second)

	assert.Equal(t, 0, svc.ActiveSessions())
	assert.Equal(t, float64(0), testutil.ToFloat64(svc.metrics.ActiveSessions))
	for _, p := range pubs {
		assert.Empty(t, p.all())
	}
}

func TestExchangeService_ShutdownSignalsClosing(t *testing.T) {
	svc, _ := newTestExchangeService(t, FetchResult{Entries: usdEur})

	select {
	case <-svc.Closing():
		t.Fatal("Closing() closed before Shutdown")
	default:
	}

	svc.Shutdown()
	assert.NotPanics(t, svc.Shutdown)

	select {
	case <-svc.Closing():
	default:
		t.Fatal("Closing() not closed after Shutdown")
	}
}

func TestSessionRegistry_RemoveUnknown(t *testing.T) {
	r := NewSessionRegistry(newTestMetrics(), zap.NewNop())
	assert.NotPanics(t, func() { r.Remove("missing") })

	_, ok := r.Get("missing")
	assert.False(t, ok)
}
