package model

import "time"

// Channel is the transport a message arrived on.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// InboundMessage is what transport adapters hand to the reconciler.
type InboundMessage struct {
	Channel    Channel   `validate:"required,oneof=email whatsapp"`
	Sender     string    `validate:"required,max=320"`
	MessageID  string    `validate:"required,max=255"`
	Subject    string    `validate:"max=998"`
	Text       string
	MediaRef   string
	ReceivedAt time.Time
}

// RawExtraction is the untyped field map produced by the extraction oracle.
type RawExtraction map[string]any
