package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	testhelpers "github.com/polkiloo/orderdesk/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func defaultOptions() Options {
	return Options{
		DefaultUnit:     "pièces",
		DefaultCurrency: "MAD",
		RenewalFloor:    DefaultRenewalFloor,
		IncompleteCap:   DefaultIncompleteCap,
		PhoneRegion:     "MA",
	}
}

// tickingClock returns strictly increasing instants.
type tickingClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{cur: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type metricsRecorder struct {
	mu          sync.Mutex
	outcomes    map[string]int
	resolutions map[string]int
	renewals    int
}

func newMetricsRecorder() *metricsRecorder {
	return &metricsRecorder{outcomes: map[string]int{}, resolutions: map[string]int{}}
}

func (m *metricsRecorder) ObserveReconcile(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *metricsRecorder) ObserveResolution(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions[method]++
}

func (m *metricsRecorder) ObserveRenewal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renewals++
}

func newTestReconciler(t *testing.T, store *testhelpers.MemoryStore, cache SeenCache) (*Reconciler, *metricsRecorder) {
	t.Helper()
	clock := newTickingClock()
	store.SetClock(clock.Now)
	metrics := newMetricsRecorder()
	r := NewReconciler(store, cache, metrics, defaultOptions(), discardLogger())
	r.now = clock.Now
	var seq int
	var mu sync.Mutex
	r.newNumber = func(at time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("CMD-%s-%08d", at.Format("20060102"), seq)
	}
	return r, metrics
}

func withTx(t *testing.T, store repository.Transactor, fn func(repository.Tx) error) {
	t.Helper()
	if err := store.WithinTransaction(context.Background(), fn); err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

func seedOrder(store *testhelpers.MemoryStore, clientID int64, status model.OrderStatus, qty float64, created time.Time) model.Order {
	return store.SeedOrder(model.Order{
		Number:      fmt.Sprintf("CMD-SEED-%d-%d", clientID, created.Unix()),
		ClientID:    clientID,
		ProductType: model.ProductFlatBottomSachet,
		Description: "sachets fond plat",
		Quantity:    ptr(qty),
		Unit:        "pièces",
		UnitPrice:   ptr(0.15),
		TotalPrice:  ptr(qty * 0.15),
		Currency:    "MAD",
		Channel:     model.ChannelWhatsApp,
		MessageID:   fmt.Sprintf("seed-%d-%d", clientID, created.Unix()),
		Status:      status,
		Confidence:  80,
		CreatedAt:   created,
	})
}
