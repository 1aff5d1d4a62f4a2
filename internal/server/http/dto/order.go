package dto

import "time"

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID              int64      `json:"id"`
	Number          string     `json:"number"`
	ClientID        int64      `json:"client_id"`
	ClientName      string     `json:"client_name,omitempty"`
	ProductType     string     `json:"product_type,omitempty"`
	Description     string     `json:"description,omitempty"`
	Quantity        *float64   `json:"quantity,omitempty"`
	Unit            string     `json:"unit,omitempty"`
	UnitPrice       *float64   `json:"unit_price,omitempty"`
	TotalPrice      *float64   `json:"total_price,omitempty"`
	Currency        string     `json:"currency,omitempty"`
	RequestedDate   *time.Time `json:"requested_date,omitempty"`
	DeliveryDate    *time.Time `json:"delivery_date,omitempty"`
	Reference       string     `json:"reference,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ArticleCode     string     `json:"article_code,omitempty"`
	Channel         string     `json:"channel"`
	MessageID       string     `json:"message_id"`
	Sender          string     `json:"sender"`
	Subject         string     `json:"subject,omitempty"`
	Confidence      int        `json:"confidence"`
	Status          string     `json:"status"`
	RenewedFromID   *int64     `json:"renewed_from_id,omitempty"`
	ValidatedBy     string     `json:"validated_by,omitempty"`
	ValidatedAt     *time.Time `json:"validated_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ValidateRequest is the body of POST /api/orders/:id/validate.
type ValidateRequest struct {
	ValidatedBy string `json:"validated_by"`
}

// RejectRequest is the body of POST /api/orders/:id/reject.
type RejectRequest struct {
	ValidatedBy string `json:"validated_by"`
	Reason      string `json:"reason"`
}
