package reconcile

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/pkg/textnorm"
)

// DefaultRenewalCues are the built-in renewal phrases.
var DefaultRenewalCues = []string{
	// French
	"comme d'habitude",
	"comme d'hab",
	"comme la dernière fois",
	"comme la derniere commande",
	"même commande",
	"la même chose",
	"renouveler",
	"renouvellement",
	"relance",
	// Darija, Latin script
	"kif dima",
	"bhal dima",
	"kif l3ada",
	"bhal l3ada",
	"nafs l7aja",
	"nafs l commande",
	// Darija and Arabic script
	"كيف ديما",
	"بحال ديما",
	"نفس الطلب",
	"نفس الشي",
	"كالعادة",
	// English
	"same as always",
	"same as last time",
	"same order",
	"renew",
	"reorder",
}

// CueMatcher tests free text against renewal phrases.
type CueMatcher struct {
	cues []string
}

// NewCueMatcher builds a matcher from the built-in cues plus extra.
func NewCueMatcher(extra []string) *CueMatcher {
	seen := make(map[string]struct{})
	m := &CueMatcher{}
	for _, cue := range append(append([]string{}, DefaultRenewalCues...), extra...) {
		folded := textnorm.Fold(cue)
		if folded == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		m.cues = append(m.cues, cue)
	}
	return m
}

// Match reports whether any of texts contains a renewal cue.
func (m *CueMatcher) Match(texts ...string) bool {
	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, cue := range m.cues {
			if textnorm.ContainsPhrase(text, cue) {
				return true
			}
		}
	}
	return false
}

// RenewalDetector completes renewal candidates from the client's order history.
type RenewalDetector struct{}

// NewRenewalDetector constructs RenewalDetector.
func NewRenewalDetector() *RenewalDetector {
	return &RenewalDetector{}
}

// Apply overlays the latest order of clientID onto c when c is a renewal and
// reports whether any field was taken from it. History reads are serialized
// per client through an advisory lock.
func (d *RenewalDetector) Apply(ctx context.Context, tx repository.Tx, c *model.Candidate, clientID int64) (bool, error) {
	if !c.IsRenewal {
		return false, nil
	}
	if err := tx.Lock(ctx, fmt.Sprintf("client:%d", clientID)); err != nil {
		return false, fmt.Errorf("lock client history: %w", err)
	}
	history, err := tx.Orders().LatestForClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load client history: %w", err)
	}
	return Overlay(c, history), nil
}

// Overlay fills the fields absent from c with those of history and reports
// whether it filled any. Values present in c are never replaced. c.History
// is set only when history contributed a field.
func Overlay(c *model.Candidate, history *model.Order) bool {
	filled := false

	if !c.HasProduct() && (history.ProductType != "" || history.Description != "") {
		c.ProductType = history.ProductType
		c.Description = history.Description
		filled = true
	}

	quantityFromHistory := false
	if !c.HasQuantity() && history.Quantity != nil {
		q := *history.Quantity
		c.Quantity = &q
		c.QuantityUnparsable = false
		quantityFromHistory = true
		if c.UnitDefaulted && history.Unit != "" {
			c.Unit = history.Unit
			c.UnitDefaulted = false
		}
	}

	priceFromHistory := false
	if c.UnitPrice == nil && history.UnitPrice != nil {
		p := *history.UnitPrice
		c.UnitPrice = &p
		priceFromHistory = true
		if c.CurrencyDefaulted && history.Currency != "" {
			c.Currency = history.Currency
			c.CurrencyDefaulted = false
		}
	}

	if c.TotalPrice == nil && quantityFromHistory && priceFromHistory && history.TotalPrice != nil {
		t := *history.TotalPrice
		c.TotalPrice = &t
	}

	filled = filled || quantityFromHistory || priceFromHistory
	if filled {
		c.History = history
	}
	return filled
}
