package cloudacctsvc

import (
	"context"
	"time"
)

// Service manages API keys handed to cloud accounts so their agents can
// authenticate against this API.
type Service interface {
	CreateKey(ctx context.Context, input InputCreateKey) (out OutCreateKey, err error)
	GetKey(ctx context.Context, input InputGetKey) (out OutGetKey, err error)
	DelKey(ctx context.Context, input InputDelKey) (out OutDelKey, err error)
}

type APIKey struct {
	ID             string
	CloudAccountID string
	APIKey         string
	CreatedAt      time.Time
}

type InputCreateKey struct {
	CloudAccountID string `validate:"required"`
	APIKey         string `validate:"-"` // generated when empty
}

type OutCreateKey struct {
	APIKey APIKey
}

type InputGetKey struct {
	CloudAccountID string `validate:"required"`
}

type OutGetKey struct {
	APIKey APIKey
}

type InputDelKey struct {
	CloudAccountID string `validate:"required"`
}

type OutDelKey struct {
	Success bool
}
