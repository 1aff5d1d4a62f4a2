package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

// MemoryStore is an in-memory repository.Store. Transactions are serialized
// and roll back by restoring a snapshot.
type MemoryStore struct {
	mu    sync.Mutex
	state memState
	now   func() time.Time

	// InsertOrderFn, when set, runs before an order insert and may fail it.
	InsertOrderFn func(*model.Order) error
	// Locks records advisory lock keys taken inside transactions.
	Locks []string
}

type memState struct {
	clients  []model.Client
	products []model.Product
	orders   []model.Order
	events   []model.Event
	reviews  []model.ReviewItem
	audit    []model.AuditEntry
	claims   map[int64]time.Time
	nextID   int64
	sequence int64
}

func (s memState) clone() memState {
	out := s
	out.clients = make([]model.Client, len(s.clients))
	for i, c := range s.clients {
		c.Identities = append([]model.ContactIdentity(nil), c.Identities...)
		out.clients[i] = c
	}
	out.products = append([]model.Product(nil), s.products...)
	out.orders = append([]model.Order(nil), s.orders...)
	out.events = append([]model.Event(nil), s.events...)
	out.reviews = append([]model.ReviewItem(nil), s.reviews...)
	out.audit = append([]model.AuditEntry(nil), s.audit...)
	out.claims = make(map[int64]time.Time, len(s.claims))
	for seq, at := range s.claims {
		out.claims[seq] = at
	}
	return out
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SetClock overrides the time source used for created_at values.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// WithinTransaction implements repository.Transactor.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memTx{memFactory{store: s, inTx: true}}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) Clients() repository.ClientRepository   { return memClients{s.factory()} }
func (s *MemoryStore) Products() repository.ProductRepository { return memProducts{s.factory()} }
func (s *MemoryStore) Orders() repository.OrderRepository     { return memOrders{s.factory()} }
func (s *MemoryStore) Events() repository.EventRepository     { return memEvents{s.factory()} }
func (s *MemoryStore) Reviews() repository.ReviewRepository   { return memReviews{s.factory()} }
func (s *MemoryStore) Audit() repository.AuditRepository      { return memAudit{s.factory()} }

func (s *MemoryStore) factory() memFactory { return memFactory{store: s} }

// OrderCount returns the number of stored orders.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.orders)
}

// ClientCount returns the number of stored clients.
func (s *MemoryStore) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.clients)
}

// EventsSnapshot returns a copy of the outbox.
func (s *MemoryStore) EventsSnapshot() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.state.events...)
}

// ReviewsSnapshot returns a copy of the review queue.
func (s *MemoryStore) ReviewsSnapshot() []model.ReviewItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ReviewItem(nil), s.state.reviews...)
}

// AuditSnapshot returns a copy of the audit trail.
func (s *MemoryStore) AuditSnapshot() []model.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AuditEntry(nil), s.state.audit...)
}

// SeedOrder stores o as-is, assigning an id when missing.
func (s *MemoryStore) SeedOrder(o model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.id()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	s.state.orders = append(s.state.orders, o)
	return o
}

// SeedClient stores c as-is, assigning an id when missing.
func (s *MemoryStore) SeedClient(c model.Client) model.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.state.clients = append(s.state.clients, c)
	return c
}

func (s *MemoryStore) id() int64 {
	s.state.nextID++
	return s.state.nextID
}

type memFactory struct {
	store *MemoryStore
	inTx  bool
}

func (f memFactory) do(fn func(st *memState)) {
	if !f.inTx {
		f.store.mu.Lock()
		defer f.store.mu.Unlock()
	}
	fn(&f.store.state)
}

type memTx struct {
	memFactory
}

func (t *memTx) Clients() repository.ClientRepository   { return memClients{t.memFactory} }
func (t *memTx) Products() repository.ProductRepository { return memProducts{t.memFactory} }
func (t *memTx) Orders() repository.OrderRepository     { return memOrders{t.memFactory} }
func (t *memTx) Events() repository.EventRepository     { return memEvents{t.memFactory} }
func (t *memTx) Reviews() repository.ReviewRepository   { return memReviews{t.memFactory} }
func (t *memTx) Audit() repository.AuditRepository      { return memAudit{t.memFactory} }

func (t *memTx) Lock(ctx context.Context, key string) error {
	t.store.Locks = append(t.store.Locks, key)
	return ctx.Err()
}

type memClients struct{ memFactory }

func (r memClients) GetByID(_ context.Context, id int64) (*model.Client, error) {
	var out *model.Client
	r.do(func(st *memState) {
		for i := range st.clients {
			if st.clients[i].ID == id {
				c := st.clients[i]
				out = &c
			}
		}
	})
	if out == nil {
		return nil, domainErrors.ErrNotFound
	}
	return out, nil
}

func (r memClients) GetByNameKey(_ context.Context, key string) (*model.Client, error) {
	var out *model.Client
	r.do(func(st *memState) {
		for i := range st.clients {
			if st.clients[i].NameKey == key {
				c := st.clients[i]
				out = &c
			}
		}
	})
	if out == nil {
		return nil, domainErrors.ErrNotFound
	}
	return out, nil
}

func (r memClients) ListByIdentity(_ context.Context, value string) ([]model.Client, error) {
	var out []model.Client
	r.do(func(st *memState) {
		for _, c := range st.clients {
			for _, id := range c.Identities {
				if id.Value == value {
					out = append(out, c)
					break
				}
			}
		}
	})
	return out, nil
}

func (r memClients) Create(_ context.Context, c model.Client) (*model.Client, bool, error) {
	var (
		out     model.Client
		created bool
	)
	r.do(func(st *memState) {
		for _, existing := range st.clients {
			if existing.NameKey == c.NameKey {
				out = existing
				return
			}
		}
		c.ID = r.store.id()
		c.CreatedAt = r.store.now()
		st.clients = append(st.clients, c)
		out = c
		created = true
	})
	return &out, created, nil
}

func (r memClients) AddIdentity(_ context.Context, clientID int64, identity model.ContactIdentity) error {
	err := domainErrors.ErrNotFound
	r.do(func(st *memState) {
		for i := range st.clients {
			if st.clients[i].ID != clientID {
				continue
			}
			err = nil
			for _, known := range st.clients[i].Identities {
				if known.Value == identity.Value {
					return
				}
			}
			st.clients[i].Identities = append(st.clients[i].Identities, identity)
		}
	})
	return err
}

func (r memClients) List(_ context.Context) ([]model.Client, error) {
	var out []model.Client
	r.do(func(st *memState) {
		out = append(out, st.clients...)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memProducts struct{ memFactory }

func (r memProducts) Ensure(_ context.Context, p model.Product) (*model.Product, error) {
	var out model.Product
	r.do(func(st *memState) {
		for _, existing := range st.products {
			if existing.Type == p.Type {
				out = existing
				return
			}
		}
		p.ID = r.store.id()
		p.CreatedAt = r.store.now()
		st.products = append(st.products, p)
		out = p
	})
	return &out, nil
}

func (r memProducts) List(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	r.do(func(st *memState) {
		out = append(out, st.products...)
	})
	return out, nil
}

type memOrders struct{ memFactory }

func (r memOrders) Insert(_ context.Context, o *model.Order) error {
	var err error
	r.do(func(st *memState) {
		if r.store.InsertOrderFn != nil {
			if err = r.store.InsertOrderFn(o); err != nil {
				return
			}
		}
		for _, existing := range st.orders {
			if existing.MessageID == o.MessageID || existing.Number == o.Number {
				err = domainErrors.ErrPersistenceConflict
				return
			}
		}
		o.ID = r.store.id()
		o.CreatedAt = r.store.now()
		o.UpdatedAt = o.CreatedAt
		st.orders = append(st.orders, *o)
	})
	return err
}

func (r memOrders) find(pred func(model.Order) bool) (*model.Order, error) {
	var out *model.Order
	r.do(func(st *memState) {
		for i := range st.orders {
			if pred(st.orders[i]) {
				o := st.orders[i]
				out = &o
				return
			}
		}
	})
	if out == nil {
		return nil, domainErrors.ErrNotFound
	}
	return out, nil
}

func (r memOrders) GetByID(_ context.Context, id int64) (*model.Order, error) {
	return r.find(func(o model.Order) bool { return o.ID == id })
}

func (r memOrders) GetByMessageID(_ context.Context, messageID string) (*model.Order, error) {
	return r.find(func(o model.Order) bool { return o.MessageID == messageID })
}

func (r memOrders) LatestForClient(_ context.Context, clientID int64) (*model.Order, error) {
	var out *model.Order
	r.do(func(st *memState) {
		for i := range st.orders {
			o := st.orders[i]
			if o.ClientID != clientID || o.Status == model.OrderStatusRejected {
				continue
			}
			if out == nil || o.CreatedAt.After(out.CreatedAt) || (o.CreatedAt.Equal(out.CreatedAt) && o.ID > out.ID) {
				out = &o
			}
		}
	})
	if out == nil {
		return nil, domainErrors.ErrNotFound
	}
	return out, nil
}

func (r memOrders) List(_ context.Context, f model.OrderFilter) ([]model.Order, error) {
	var out []model.Order
	r.do(func(st *memState) {
		for _, o := range st.orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.ClientID != 0 && o.ClientID != f.ClientID {
				continue
			}
			out = append(out, o)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memOrders) Transition(_ context.Context, d model.Decision) (*model.Order, error) {
	var (
		out *model.Order
		err = domainErrors.ErrNotFound
	)
	r.do(func(st *memState) {
		for i := range st.orders {
			o := &st.orders[i]
			if o.ID != d.OrderID {
				continue
			}
			if !model.CanTransition(o.Status, d.Status) {
				err = domainErrors.ErrInvalidTransition
				return
			}
			at := d.At
			o.Status = d.Status
			o.ValidatedBy = d.Validator
			o.ValidatedAt = &at
			o.RejectionReason = d.Reason
			o.UpdatedAt = at
			cp := *o
			out = &cp
			err = nil
			return
		}
	})
	return out, err
}

func (r memOrders) CountByClient(_ context.Context, clientID int64) (int64, error) {
	var n int64
	r.do(func(st *memState) {
		for _, o := range st.orders {
			if o.ClientID == clientID {
				n++
			}
		}
	})
	return n, nil
}

func (r memOrders) Stats(_ context.Context) (*model.Stats, error) {
	var s model.Stats
	r.do(func(st *memState) {
		for _, o := range st.orders {
			s.Total++
			switch o.Status {
			case model.OrderStatusPending:
				s.Pending++
			case model.OrderStatusValidated:
				s.Validated++
			case model.OrderStatusRejected:
				s.Rejected++
			}
		}
		s.Clients = int64(len(st.clients))
	})
	return &s, nil
}

type memEvents struct{ memFactory }

func (r memEvents) Append(_ context.Context, e model.Event) (int64, error) {
	r.do(func(st *memState) {
		st.sequence++
		e.Seq = st.sequence
		e.CreatedAt = r.store.now()
		st.events = append(st.events, e)
	})
	return e.Seq, nil
}

func (r memEvents) ListAfter(_ context.Context, after int64, limit int) ([]model.Event, error) {
	var out []model.Event
	r.do(func(st *memState) {
		for _, e := range st.events {
			if e.Seq > after {
				out = append(out, e)
			}
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

func (r memEvents) ClaimPending(_ context.Context, limit, maxAttempts int, lease time.Duration) ([]model.Event, error) {
	var out []model.Event
	r.do(func(st *memState) {
		now := r.store.now()
		if st.claims == nil {
			st.claims = make(map[int64]time.Time)
		}
		for _, e := range st.events {
			if limit > 0 && len(out) == limit {
				return
			}
			if e.DispatchedAt != nil || e.Attempts >= maxAttempts {
				continue
			}
			if at, ok := st.claims[e.Seq]; ok && now.Sub(at) < lease {
				continue
			}
			st.claims[e.Seq] = now
			out = append(out, e)
		}
	})
	return out, nil
}

func (r memEvents) MarkDispatched(_ context.Context, seq int64) error {
	return r.update(seq, func(e *model.Event) {
		at := r.store.now()
		e.DispatchedAt = &at
	})
}

func (r memEvents) MarkFailed(_ context.Context, seq int64, reason string) error {
	return r.update(seq, func(e *model.Event) {
		e.Attempts++
		e.LastError = reason
	})
}

func (r memEvents) update(seq int64, fn func(*model.Event)) error {
	err := domainErrors.ErrNotFound
	r.do(func(st *memState) {
		for i := range st.events {
			if st.events[i].Seq == seq {
				fn(&st.events[i])
				delete(st.claims, seq)
				err = nil
				return
			}
		}
	})
	return err
}

type memReviews struct{ memFactory }

func (r memReviews) Enqueue(_ context.Context, item model.ReviewItem) error {
	r.do(func(st *memState) {
		for _, existing := range st.reviews {
			if existing.MessageID == item.MessageID {
				return
			}
		}
		item.ID = r.store.id()
		item.CreatedAt = r.store.now()
		st.reviews = append(st.reviews, item)
	})
	return nil
}

func (r memReviews) List(_ context.Context, limit int) ([]model.ReviewItem, error) {
	var out []model.ReviewItem
	r.do(func(st *memState) {
		for i := len(st.reviews) - 1; i >= 0; i-- {
			out = append(out, st.reviews[i])
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

type memAudit struct{ memFactory }

func (r memAudit) Record(_ context.Context, entry model.AuditEntry) error {
	r.do(func(st *memState) {
		entry.CreatedAt = r.store.now()
		st.audit = append(st.audit, entry)
	})
	return nil
}
