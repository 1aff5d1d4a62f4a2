package model

import "time"

// OrderStatus describes validation lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusValidated OrderStatus = "validated"
	OrderStatusRejected  OrderStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusValidated, OrderStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusValidated || s == OrderStatusRejected
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to OrderStatus) bool {
	return from == OrderStatusPending && to.Terminal()
}

// Order is a reconciled purchase order awaiting or past human validation.
type Order struct {
	ID            int64
	Number        string
	ClientID      int64
	ClientName    string
	ProductID     *int64
	ProductType   ProductType
	Description   string
	Quantity      *float64
	Unit          string
	UnitPrice     *float64
	TotalPrice    *float64
	Currency      string
	RequestedDate *time.Time
	DeliveryDate  *time.Time
	Reference     string
	Notes         string
	ArticleCode   string
	Channel       Channel
	MessageID     string
	Sender        string
	Subject       string
	Confidence    int
	Status        OrderStatus
	RenewedFromID *int64

	ValidatedBy     string
	ValidatedAt     *time.Time
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasProduct reports whether the order carries any product signal.
func (o *Order) HasProduct() bool {
	return o.ProductType != "" || o.Description != ""
}

// HasQuantity reports whether a positive quantity is known.
func (o *Order) HasQuantity() bool {
	return o.Quantity != nil && *o.Quantity > 0
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status   OrderStatus
	ClientID int64
	Limit    int
}

// Decision captures a validator action on a pending order.
type Decision struct {
	OrderID   int64
	Status    OrderStatus
	Validator string
	Reason    string
	At        time.Time
}
