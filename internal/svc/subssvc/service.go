package subssvc

import (
	"context"
	"time"
)

// Service answers marketplace subscription questions for the billing flow.
// Every call assumes the marketplace role first, the temporary credentials
// are never reused across calls.
type Service interface {
	ResolveSubscription(ctx context.Context, input InputResolveSubscription) (out OutResolveSubscription, err error)
	CheckEntitlements(ctx context.Context, input InputCheckEntitlements) (out OutCheckEntitlements, err error)
}

type Entitlement struct {
	CustomerIdentifier string
	Dimension          string
	ExpirationDate     time.Time
}

// InputResolveSubscription carries the registration token the marketplace
// posts to the fulfillment URL on a new subscription.
type InputResolveSubscription struct {
	RegistrationToken string `validate:"required"`
}

type OutResolveSubscription struct {
	CustomerIdentifier string
	ProductCode        string
}

type InputCheckEntitlements struct {
	ProductCode        string `validate:"required"`
	CustomerIdentifier string `validate:"-"` // narrows the result to one customer when set
}

type OutCheckEntitlements struct {
	Entitled     bool
	Entitlements []Entitlement
}
