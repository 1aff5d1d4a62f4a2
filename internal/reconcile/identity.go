package reconcile

import (
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

const DefaultPhoneRegion = "MA"

// IdentityNormalizer canonicalizes channel sender identities.
type IdentityNormalizer struct {
	region string
}

// NewIdentityNormalizer constructs IdentityNormalizer for a default phone region.
func NewIdentityNormalizer(region string) IdentityNormalizer {
	if region == "" {
		region = DefaultPhoneRegion
	}
	return IdentityNormalizer{region: strings.ToUpper(region)}
}

// Normalize maps a raw sender to a contact identity.
func (n IdentityNormalizer) Normalize(channel model.Channel, sender string) model.ContactIdentity {
	trimmed := strings.TrimSpace(sender)
	if channel == model.ChannelWhatsApp || !strings.Contains(trimmed, "@") {
		return model.ContactIdentity{Kind: model.IdentityPhone, Value: n.phone(trimmed)}
	}
	return model.ContactIdentity{Kind: model.IdentityEmail, Value: email(trimmed)}
}

func (n IdentityNormalizer) phone(raw string) string {
	if len(raw) >= len("whatsapp:") && strings.EqualFold(raw[:len("whatsapp:")], "whatsapp:") {
		raw = strings.TrimSpace(raw[len("whatsapp:"):])
	}
	if raw == "" {
		return raw
	}
	number, err := phonenumbers.Parse(raw, n.region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func email(raw string) string {
	if addr, err := mail.ParseAddress(raw); err == nil {
		return strings.ToLower(addr.Address)
	}
	return strings.ToLower(raw)
}
