package model

import "time"

// Candidate is the canonical shape of one extraction, valid for a single
// reconciliation pass only.
type Candidate struct {
	Message InboundMessage

	ClientName         string
	ProductType        ProductType
	Description        string
	Quantity           *float64
	QuantityUnparsable bool
	Unit               string
	UnitDefaulted      bool
	UnitPrice          *float64
	TotalPrice         *float64
	Currency           string
	CurrencyDefaulted  bool
	RequestedDate      *time.Time
	DeliveryDate       *time.Time
	Reference          string
	Notes              string
	Confidence         int

	IsRenewal bool
	History   *Order
}

// HasProduct reports whether a catalog type or description was extracted.
func (c *Candidate) HasProduct() bool {
	return c.ProductType != "" || c.Description != ""
}

// HasQuantity reports whether a positive quantity was extracted.
func (c *Candidate) HasQuantity() bool {
	return c.Quantity != nil && *c.Quantity > 0
}

// Usable reports whether the candidate carries enough signal to become an order.
func (c *Candidate) Usable() bool {
	return c.HasProduct() || c.HasQuantity()
}
