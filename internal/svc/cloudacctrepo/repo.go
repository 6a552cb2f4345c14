package cloudacctrepo

import (
	"context"
	"errors"
	"time"
)

var (
	ErrValidation = errors.New("validation error")
)

// APIKey mirrors one row of the cloud_account_api_key table.
type APIKey struct {
	ID             string    `json:"id" db:"id" validate:"-"` // uuid primary key, generated by the database
	CloudAccountID string    `json:"cloud_account_id" db:"cloud_account_id" validate:"required"`
	APIKey         string    `json:"api_key" db:"api_key" validate:"required"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" validate:"-"`
}

// Repo is cloud account API key repository service
type Repo interface {
	Create(ctx context.Context, in InputCreate) (out OutCreate, err error)
	GetByAccountID(ctx context.Context, in InputGetByAccountID) (out OutGetByAccountID, err error)
	DelByAccountID(ctx context.Context, in InputDelByAccountID) (out OutDelByAccountID, err error)
}

type InputCreate struct {
	APIKey APIKey `validate:"required"`
}

type OutCreate struct {
	APIKey APIKey
}

type InputGetByAccountID struct {
	CloudAccountID string `validate:"required"`
}

type OutGetByAccountID struct {
	APIKey APIKey
}

type InputDelByAccountID struct {
	CloudAccountID string `validate:"required"`
}

type OutDelByAccountID struct {
	Success bool
}
