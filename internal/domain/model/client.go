package model

import "time"

// IdentityKind distinguishes contact identity types.
type IdentityKind string

const (
	IdentityEmail IdentityKind = "email"
	IdentityPhone IdentityKind = "phone"
)

// ContactIdentity is a normalized email address or phone number.
type ContactIdentity struct {
	Kind  IdentityKind
	Value string
}

// Client is a business placing orders. Several clients may share one identity.
type Client struct {
	ID          int64
	Name        string
	NameKey     string
	Placeholder bool
	Address     string
	Identities  []ContactIdentity
	CreatedAt   time.Time
}

// ResolutionMethod records how the resolver picked a client.
type ResolutionMethod string

const (
	ResolvedByName      ResolutionMethod = "name"
	ResolvedByIdentity  ResolutionMethod = "identity"
	ResolvedCreated     ResolutionMethod = "created"
	ResolvedPlaceholder ResolutionMethod = "placeholder"
	ResolvedAmbiguous   ResolutionMethod = "ambiguous"
)

// Resolution is the outcome of client resolution.
type Resolution struct {
	Client  *Client
	Method  ResolutionMethod
	Created bool
}
