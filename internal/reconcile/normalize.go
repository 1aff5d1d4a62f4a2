package reconcile

import (
	"fmt"
	"strings"

	"github.com/polkiloo/orderdesk/internal/catalog"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Normalizer turns untyped oracle output into a canonical candidate.
type Normalizer struct {
	defaultUnit     string
	defaultCurrency string
	cues            *CueMatcher
}

// NewNormalizer constructs Normalizer.
func NewNormalizer(defaultUnit, defaultCurrency string, cues *CueMatcher) *Normalizer {
	if cues == nil {
		cues = NewCueMatcher(nil)
	}
	return &Normalizer{
		defaultUnit:     defaultUnit,
		defaultCurrency: strings.ToUpper(defaultCurrency),
		cues:            cues,
	}
}

// Normalize validates and coerces raw for msg. It fails with
// ErrNotPurchaseOrder or ErrMalformedCandidate when nothing can be ordered.
func (n *Normalizer) Normalize(msg model.InboundMessage, raw model.RawExtraction) (*model.Candidate, error) {
	c := &model.Candidate{
		Message:       msg,
		ClientName:    stringField(raw, keysClientName),
		Description:   stringField(raw, keysDescription),
		Unit:          stringField(raw, keysUnit),
		Currency:      strings.ToUpper(stringField(raw, keysCurrency)),
		RequestedDate: dateField(raw, keysRequested),
		DeliveryDate:  dateField(raw, keysDelivery),
		Reference:     stringField(raw, keysReference),
		Notes:         stringField(raw, keysNotes),
		Confidence:    confidenceField(raw),
	}

	typeText := stringField(raw, keysProductType)
	if t, ok := catalog.Match(typeText); ok {
		c.ProductType = t
	} else if t, ok := catalog.Match(c.Description); ok {
		c.ProductType = t
	}
	if c.Description == "" {
		c.Description = typeText
	}

	if q, ok, present := numberField(raw, keysQuantity); ok && q > 0 {
		c.Quantity = &q
	} else if present && (!ok || q < 0) {
		c.QuantityUnparsable = true
	}
	if p, ok, _ := numberField(raw, keysUnitPrice); ok && p >= 0 {
		c.UnitPrice = &p
	}
	if p, ok, _ := numberField(raw, keysTotalPrice); ok && p >= 0 {
		c.TotalPrice = &p
	}

	if c.Unit == "" {
		c.Unit = n.defaultUnit
		c.UnitDefaulted = true
	}
	if c.Currency == "" {
		c.Currency = n.defaultCurrency
		c.CurrencyDefaulted = true
	}
	if c.RequestedDate == nil && !msg.ReceivedAt.IsZero() {
		received := msg.ReceivedAt
		c.RequestedDate = &received
	}

	c.IsRenewal = n.cues.Match(msg.Subject, msg.Text, c.Notes)

	if isOrder, present := boolField(raw, keysIsOrder); present && !isOrder && !c.IsRenewal {
		return nil, domainErrors.ErrNotPurchaseOrder
	}
	if !c.Usable() && !c.IsRenewal {
		return nil, fmt.Errorf("%w: no product or quantity", domainErrors.ErrMalformedCandidate)
	}
	return c, nil
}
