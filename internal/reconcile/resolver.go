package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/pkg/textnorm"
)

const placeholderPrefix = "channel client "

// ClientResolver maps an extracted name and a sender identity to a client.
// A shared phone number or mailbox never merges two named businesses.
type ClientResolver struct {
	logger *slog.Logger
}

// NewClientResolver constructs ClientResolver.
func NewClientResolver(logger *slog.Logger) *ClientResolver {
	return &ClientResolver{logger: logger}
}

// NameKey is the case and diacritic insensitive form of a client name.
func NameKey(name string) string {
	return textnorm.Fold(name)
}

// PlaceholderName labels a synthetic client for identity.
func PlaceholderName(identity model.ContactIdentity) string {
	return placeholderPrefix + identity.Value
}

// Resolve finds or creates the client inside tx and records identity on it.
func (r *ClientResolver) Resolve(ctx context.Context, tx repository.Tx, name string, identity model.ContactIdentity) (*model.Resolution, error) {
	name = strings.Join(strings.Fields(name), " ")

	var (
		res *model.Resolution
		err error
	)
	if key := NameKey(name); key != "" {
		res, err = r.byName(ctx, tx, name, key)
	} else {
		res, err = r.byIdentity(ctx, tx, identity)
	}
	if err != nil {
		return nil, err
	}

	if identity.Value != "" {
		if err := tx.Clients().AddIdentity(ctx, res.Client.ID, identity); err != nil {
			return nil, fmt.Errorf("record client identity: %w", err)
		}
	}
	if res.Created {
		entry := model.AuditEntry{
			Action:   model.AuditClientCreated,
			Entity:   "client",
			EntityID: res.Client.ID,
			Details:  fmt.Sprintf("%s via %s (%s)", res.Client.Name, identity.Value, res.Method),
			Actor:    "reconciler",
		}
		if err := tx.Audit().Record(ctx, entry); err != nil {
			return nil, fmt.Errorf("audit client: %w", err)
		}
	}
	return res, nil
}

func (r *ClientResolver) byName(ctx context.Context, tx repository.Tx, name, key string) (*model.Resolution, error) {
	if err := tx.Lock(ctx, "client-name:"+key); err != nil {
		return nil, fmt.Errorf("lock client name: %w", err)
	}
	existing, err := tx.Clients().GetByNameKey(ctx, key)
	if err == nil {
		return &model.Resolution{Client: existing, Method: model.ResolvedByName}, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, fmt.Errorf("find client by name: %w", err)
	}
	return r.create(ctx, tx, model.Client{Name: name, NameKey: key}, model.ResolvedCreated)
}

func (r *ClientResolver) byIdentity(ctx context.Context, tx repository.Tx, identity model.ContactIdentity) (*model.Resolution, error) {
	if err := tx.Lock(ctx, "client-identity:"+identity.Value); err != nil {
		return nil, fmt.Errorf("lock client identity: %w", err)
	}
	holders, err := tx.Clients().ListByIdentity(ctx, identity.Value)
	if err != nil {
		return nil, fmt.Errorf("find clients by identity: %w", err)
	}

	named := make([]model.Client, 0, len(holders))
	for _, c := range holders {
		if !c.Placeholder {
			named = append(named, c)
		}
	}
	if len(named) == 1 {
		c := named[0]
		return &model.Resolution{Client: &c, Method: model.ResolvedByIdentity}, nil
	}

	method := model.ResolvedPlaceholder
	if len(named) > 1 {
		method = model.ResolvedAmbiguous
		r.logger.Warn("sender identity shared by several clients",
			slog.String("identity", identity.Value),
			slog.Int("clients", len(named)),
			slog.String("error", domainErrors.ErrResolutionAmbiguous.Error()),
		)
	}

	placeholder := PlaceholderName(identity)
	key := NameKey(placeholder)
	existing, err := tx.Clients().GetByNameKey(ctx, key)
	if err == nil {
		return &model.Resolution{Client: existing, Method: method}, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, fmt.Errorf("find placeholder client: %w", err)
	}
	return r.create(ctx, tx, model.Client{Name: placeholder, NameKey: key, Placeholder: true}, method)
}

func (r *ClientResolver) create(ctx context.Context, tx repository.Tx, c model.Client, method model.ResolutionMethod) (*model.Resolution, error) {
	created, isNew, err := tx.Clients().Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	if !isNew && method == model.ResolvedCreated {
		method = model.ResolvedByName
	}
	return &model.Resolution{Client: created, Method: method, Created: isNew}, nil
}
