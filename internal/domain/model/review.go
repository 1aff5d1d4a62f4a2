package model

import (
	"encoding/json"
	"time"
)

// ReviewItem is an inbound message an operator has to look at by hand.
type ReviewItem struct {
	ID        int64
	Channel   Channel
	MessageID string
	Sender    string
	Subject   string
	Reason    string
	Raw       json.RawMessage
	CreatedAt time.Time
}

// AuditEntry is a row of the audit trail.
type AuditEntry struct {
	Action    string
	Entity    string
	EntityID  int64
	Details   string
	Actor     string
	CreatedAt time.Time
}

const (
	AuditClientCreated  = "client_created"
	AuditOrderCreated   = "order_created"
	AuditOrderValidated = "order_validated"
	AuditOrderRejected  = "order_rejected"
)
