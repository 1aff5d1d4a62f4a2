package model

import (
	"encoding/json"
	"time"
)

// EventKind names an outbox event.
type EventKind string

const (
	EventOrderCreated   EventKind = "order.created"
	EventOrderValidated EventKind = "order.validated"
	EventOrderRejected  EventKind = "order.rejected"
)

// Event is an outbox record written in the same transaction as the change it describes.
type Event struct {
	Seq          int64
	Kind         EventKind
	OrderID      int64
	Payload      json.RawMessage
	Attempts     int
	LastError    string
	DispatchedAt *time.Time
	CreatedAt    time.Time
}

// OrderEventPayload is the JSON body carried by order events.
type OrderEventPayload struct {
	Number      string      `json:"number"`
	ClientID    int64       `json:"client_id"`
	ClientName  string      `json:"client_name,omitempty"`
	Channel     Channel     `json:"channel"`
	Sender      string      `json:"sender"`
	Status      OrderStatus `json:"status"`
	ProductType ProductType `json:"product_type,omitempty"`
	Description string      `json:"description,omitempty"`
	Quantity    *float64    `json:"quantity,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	Confidence  int         `json:"confidence"`
	Validator   string      `json:"validator,omitempty"`
	Reason      string      `json:"reason,omitempty"`
}

// NewOrderEvent builds an outbox event describing the current state of o.
func NewOrderEvent(kind EventKind, o *Order) (Event, error) {
	payload := OrderEventPayload{
		Number:     o.Number,
		ClientID:   o.ClientID,
		ClientName: o.ClientName,
		Channel:    o.Channel,
		Sender:     o.Sender,
		Status:     o.Status,
		Confidence: o.Confidence,
		Validator:  o.ValidatedBy,
		Reason:     o.RejectionReason,
	}
	if kind != EventOrderRejected {
		payload.ProductType = o.ProductType
		payload.Description = o.Description
		payload.Quantity = o.Quantity
		payload.Unit = o.Unit
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, OrderID: o.ID, Payload: raw}, nil
}
