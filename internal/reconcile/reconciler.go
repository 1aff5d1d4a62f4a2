package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/polkiloo/orderdesk/internal/catalog"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

// Outcome classifies a reconciliation pass.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeMalformed Outcome = "malformed"
)

// Result describes what Reconcile did with a message.
type Result struct {
	Outcome        Outcome
	Order          *model.Order
	Resolution     model.ResolutionMethod
	RenewalApplied bool
	// Cause is set for malformed outcomes.
	Cause error
}

// Metrics receives reconciliation observations.
type Metrics interface {
	ObserveReconcile(outcome string, elapsed time.Duration)
	ObserveResolution(method string)
	ObserveRenewal()
}

type nopMetrics struct{}

func (nopMetrics) ObserveReconcile(string, time.Duration) {}
func (nopMetrics) ObserveResolution(string)               {}
func (nopMetrics) ObserveRenewal()                        {}

// Reconciler turns one inbound message into at most one pending order.
type Reconciler struct {
	store      repository.Store
	normalizer *Normalizer
	guard      *DuplicateGuard
	identities IdentityNormalizer
	resolver   *ClientResolver
	renewals   *RenewalDetector
	scorer     *Scorer
	validate   *validator.Validate
	metrics    Metrics
	logger     *slog.Logger

	now       func() time.Time
	newNumber func(time.Time) string
}

// Options tunes a Reconciler.
type Options struct {
	DefaultUnit     string
	DefaultCurrency string
	RenewalCues     []string
	RenewalFloor    int
	IncompleteCap   int
	PhoneRegion     string
}

// NewReconciler wires the pipeline stages over store.
func NewReconciler(store repository.Store, cache SeenCache, metrics Metrics, opts Options, logger *slog.Logger) *Reconciler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Reconciler{
		store:      store,
		normalizer: NewNormalizer(opts.DefaultUnit, opts.DefaultCurrency, NewCueMatcher(opts.RenewalCues)),
		guard:      NewDuplicateGuard(cache, logger),
		identities: NewIdentityNormalizer(opts.PhoneRegion),
		resolver:   NewClientResolver(logger),
		renewals:   NewRenewalDetector(),
		scorer:     NewScorer(opts.RenewalFloor, opts.IncompleteCap),
		validate:   validator.New(),
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		newNumber:  NewOrderNumber,
	}
}

// NewOrderNumber returns a number of the form CMD-YYYYMMDD-XXXXXXXX.
func NewOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "CMD-" + at.Format("20060102") + "-" + suffix
}

// Reconcile runs normalization, duplicate detection, client resolution,
// renewal completion and scoring, then persists the order atomically.
// Duplicates and malformed messages are reported through Result with a nil error.
func (r *Reconciler) Reconcile(ctx context.Context, msg model.InboundMessage, raw model.RawExtraction) (*Result, error) {
	start := r.now()
	res, err := r.reconcile(ctx, msg, raw)
	if res != nil {
		r.metrics.ObserveReconcile(string(res.Outcome), r.now().Sub(start))
	} else if err != nil {
		r.metrics.ObserveReconcile("error", r.now().Sub(start))
	}
	return res, err
}

func (r *Reconciler) reconcile(ctx context.Context, msg model.InboundMessage, raw model.RawExtraction) (*Result, error) {
	msg.Sender = strings.TrimSpace(msg.Sender)
	msg.MessageID = strings.TrimSpace(msg.MessageID)
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = r.now()
	}
	if err := r.validate.Struct(msg); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidMessage, err)
	}

	candidate, err := r.normalizer.Normalize(msg, raw)
	if err != nil {
		if errors.Is(err, domainErrors.ErrMalformedCandidate) || errors.Is(err, domainErrors.ErrNotPurchaseOrder) {
			return r.reportMalformed(ctx, msg, raw, err)
		}
		return nil, err
	}

	if id, dup, err := r.guard.Check(ctx, r.store.Orders(), msg.MessageID); err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	} else if dup {
		return r.duplicate(ctx, msg.MessageID, id), nil
	}

	for attempt := 0; ; attempt++ {
		res, err := r.persist(ctx, *candidate)
		switch {
		case err == nil:
			r.guard.Remember(ctx, msg.MessageID, res.Order.ID)
			r.metrics.ObserveResolution(string(res.Resolution))
			if res.RenewalApplied {
				r.metrics.ObserveRenewal()
			}
			r.logger.Info("order reconciled",
				slog.String("message_id", msg.MessageID),
				slog.String("channel", string(msg.Channel)),
				slog.Int64("order_id", res.Order.ID),
				slog.Int64("client_id", res.Order.ClientID),
				slog.String("resolution", string(res.Resolution)),
				slog.Bool("renewal", res.RenewalApplied),
				slog.Int("confidence", res.Order.Confidence),
			)
			return res, nil
		case errors.Is(err, domainErrors.ErrDuplicate):
			return res, nil
		case errors.Is(err, domainErrors.ErrMalformedCandidate):
			return r.reportMalformed(ctx, msg, raw, err)
		case !errors.Is(err, domainErrors.ErrPersistenceConflict):
			return nil, fmt.Errorf("reconcile %s: %w", msg.MessageID, err)
		}

		id, dup, gerr := r.guard.Check(ctx, r.store.Orders(), msg.MessageID)
		if gerr != nil {
			return nil, fmt.Errorf("duplicate check: %w", gerr)
		}
		if dup {
			return r.duplicate(ctx, msg.MessageID, id), nil
		}
		if attempt >= 1 {
			return nil, fmt.Errorf("reconcile %s: %w", msg.MessageID, err)
		}
		r.logger.Warn("persistence conflict, retrying", slog.String("message_id", msg.MessageID))
	}
}

// persist runs one transactional attempt. c is a copy so that a retry starts
// from the normalized candidate again.
func (r *Reconciler) persist(ctx context.Context, c model.Candidate) (*Result, error) {
	msg := c.Message
	var res *Result

	err := r.store.WithinTransaction(ctx, func(tx repository.Tx) error {
		if err := tx.Lock(ctx, "message:"+msg.MessageID); err != nil {
			return fmt.Errorf("lock message: %w", err)
		}
		existing, err := tx.Orders().GetByMessageID(ctx, msg.MessageID)
		if err == nil {
			res = &Result{Outcome: OutcomeDuplicate, Order: existing}
			return domainErrors.ErrDuplicate
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return err
		}

		identity := r.identities.Normalize(msg.Channel, msg.Sender)
		resolution, err := r.resolver.Resolve(ctx, tx, c.ClientName, identity)
		if err != nil {
			return err
		}

		applied, err := r.renewals.Apply(ctx, tx, &c, resolution.Client.ID)
		if err != nil {
			return err
		}
		if !c.Usable() {
			return fmt.Errorf("%w: renewal without usable history", domainErrors.ErrMalformedCandidate)
		}

		order := r.buildOrder(&c, resolution.Client, applied)
		if product, ok := catalog.Product(c.ProductType); ok {
			stored, err := tx.Products().Ensure(ctx, product)
			if err != nil {
				return fmt.Errorf("ensure product: %w", err)
			}
			order.ProductID = &stored.ID
		}

		if err := tx.Orders().Insert(ctx, order); err != nil {
			return err
		}
		event, err := model.NewOrderEvent(model.EventOrderCreated, order)
		if err != nil {
			return fmt.Errorf("build order event: %w", err)
		}
		if _, err := tx.Events().Append(ctx, event); err != nil {
			return fmt.Errorf("append order event: %w", err)
		}
		audit := model.AuditEntry{
			Action:   model.AuditOrderCreated,
			Entity:   "order",
			EntityID: order.ID,
			Details:  fmt.Sprintf("%s from %s message %s", order.Number, msg.Channel, msg.MessageID),
			Actor:    "reconciler",
		}
		if err := tx.Audit().Record(ctx, audit); err != nil {
			return fmt.Errorf("audit order: %w", err)
		}

		res = &Result{
			Outcome:        OutcomeCreated,
			Order:          order,
			Resolution:     resolution.Method,
			RenewalApplied: applied,
		}
		return nil
	})
	return res, err
}

func (r *Reconciler) buildOrder(c *model.Candidate, client *model.Client, historyApplied bool) *model.Order {
	msg := c.Message
	now := r.now()
	order := &model.Order{
		Number:        r.newNumber(now),
		ClientID:      client.ID,
		ClientName:    client.Name,
		ProductType:   c.ProductType,
		Description:   c.Description,
		Quantity:      c.Quantity,
		Unit:          c.Unit,
		UnitPrice:     c.UnitPrice,
		TotalPrice:    c.TotalPrice,
		Currency:      c.Currency,
		RequestedDate: c.RequestedDate,
		DeliveryDate:  c.DeliveryDate,
		Reference:     c.Reference,
		Notes:         c.Notes,
		ArticleCode:   catalog.SuggestArticleCode(c.Description),
		Channel:       msg.Channel,
		MessageID:     msg.MessageID,
		Sender:        msg.Sender,
		Subject:       msg.Subject,
		Status:        model.OrderStatusPending,
	}
	if historyApplied && c.History != nil {
		id := c.History.ID
		order.RenewedFromID = &id
	}
	order.Confidence = r.scorer.Score(c.Confidence, historyApplied, order.HasProduct() && order.HasQuantity())
	return order
}

func (r *Reconciler) duplicate(ctx context.Context, messageID string, orderID int64) *Result {
	order, err := r.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		r.logger.Debug("load duplicate order failed", slog.Int64("order_id", orderID), slog.String("error", err.Error()))
		order = &model.Order{ID: orderID, MessageID: messageID}
	}
	r.logger.Info("duplicate message ignored", slog.String("message_id", messageID), slog.Int64("order_id", orderID))
	return &Result{Outcome: OutcomeDuplicate, Order: order}
}

func (r *Reconciler) reportMalformed(ctx context.Context, msg model.InboundMessage, raw model.RawExtraction, cause error) (*Result, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		payload = []byte("null")
	}
	item := model.ReviewItem{
		Channel:   msg.Channel,
		MessageID: msg.MessageID,
		Sender:    msg.Sender,
		Subject:   msg.Subject,
		Reason:    cause.Error(),
		Raw:       payload,
	}
	if err := r.store.Reviews().Enqueue(ctx, item); err != nil {
		return nil, fmt.Errorf("enqueue review: %w", err)
	}
	r.logger.Warn("message sent to review queue",
		slog.String("message_id", msg.MessageID),
		slog.String("channel", string(msg.Channel)),
		slog.String("reason", cause.Error()),
	)
	return &Result{Outcome: OutcomeMalformed, Cause: cause}, nil
}
