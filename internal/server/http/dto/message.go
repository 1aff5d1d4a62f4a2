package dto

import "time"

// MessageRequest is an inbound message handed over by a transport adapter.
// Extraction is optional. When absent the extraction oracle is asked.
type MessageRequest struct {
	Channel    string         `json:"channel" binding:"required,oneof=email whatsapp"`
	Sender     string         `json:"sender" binding:"required"`
	MessageID  string         `json:"message_id" binding:"required"`
	Subject    string         `json:"subject"`
	Text       string         `json:"text"`
	MediaRef   string         `json:"media_ref"`
	ReceivedAt *time.Time     `json:"received_at"`
	Extraction map[string]any `json:"extraction"`
}

// IngestResponse reports what reconciliation did with a message.
type IngestResponse struct {
	Outcome        string         `json:"outcome"`
	Order          *OrderResponse `json:"order,omitempty"`
	Resolution     string         `json:"resolution,omitempty"`
	RenewalApplied bool           `json:"renewal_applied"`
	Reason         string         `json:"reason,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
