package dto

import (
	"encoding/json"
	"time"
)

// IdentityResponse is a contact identity of a client.
type IdentityResponse struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Placeholder bool               `json:"placeholder"`
	Address     string             `json:"address,omitempty"`
	Identities  []IdentityResponse `json:"identities"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ProductResponse represents a catalog product.
type ProductResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// StatsResponse summarizes order volumes.
type StatsResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Validated int64 `json:"validated"`
	Rejected  int64 `json:"rejected"`
	Clients   int64 `json:"clients"`
}

// AlertResponse points at a pending order that deserves attention.
type AlertResponse struct {
	Kind       string `json:"kind"`
	OrderID    int64  `json:"order_id"`
	Number     string `json:"number"`
	ClientName string `json:"client_name,omitempty"`
	Message    string `json:"message"`
}

// ReviewItemResponse is a message waiting in the operator review queue.
type ReviewItemResponse struct {
	ID        int64           `json:"id"`
	Channel   string          `json:"channel"`
	MessageID string          `json:"message_id"`
	Sender    string          `json:"sender"`
	Subject   string          `json:"subject,omitempty"`
	Reason    string          `json:"reason"`
	Raw       json.RawMessage `json:"raw,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventResponse is an outbox event polled by the dashboard.
type EventResponse struct {
	Seq          int64           `json:"seq"`
	Kind         string          `json:"kind"`
	OrderID      int64           `json:"order_id"`
	Payload      json.RawMessage `json:"payload"`
	DispatchedAt *time.Time      `json:"dispatched_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
