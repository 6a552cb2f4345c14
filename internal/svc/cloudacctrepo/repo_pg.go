package cloudacctrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

const (
	sqlCreateAPIKey = `
		INSERT INTO cloud_account_api_key (cloud_account_id, api_key)
		VALUES ($1, $2)
		RETURNING *;
`

	sqlGetAPIKeyByAccountID = `SELECT * FROM cloud_account_api_key WHERE cloud_account_id = $1 LIMIT 1;`
	sqlDeleteAPIKey         = `DELETE FROM cloud_account_api_key WHERE cloud_account_id = $1 RETURNING *;`
)

type RepoPostgresConfig struct {
	Connection *sqlx.DB `validate:"required"`
}

type RepoPostgres struct {
	Config RepoPostgresConfig
}

var _ Repo = (*RepoPostgres)(nil)

// Postgres return repo interface which implements using PgSQL
func Postgres(conf RepoPostgresConfig) (service *RepoPostgres, err error) {
	err = validator.Validate(conf)
	if err != nil {
		return nil, err
	}

	service = &RepoPostgres{
		Config: conf,
	}
	return
}

func (p *RepoPostgres) Create(ctx context.Context, in InputCreate) (out OutCreate, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	inserted := APIKey{}
	err = p.Config.Connection.GetContext(ctx, &inserted, sqlCreateAPIKey,
		in.APIKey.CloudAccountID, in.APIKey.APIKey,
	)
	if err != nil {
		return
	}

	out = OutCreate{
		APIKey: inserted,
	}
	return
}

func (p *RepoPostgres) GetByAccountID(ctx context.Context, in InputGetByAccountID) (out OutGetByAccountID, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	keyData := APIKey{}
	err = p.Config.Connection.GetContext(ctx, &keyData, sqlGetAPIKeyByAccountID, in.CloudAccountID)
	if err != nil {
		return
	}

	out = OutGetByAccountID{
		APIKey: keyData,
	}
	return
}

func (p *RepoPostgres) DelByAccountID(ctx context.Context, in InputDelByAccountID) (out OutDelByAccountID, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	keyData := APIKey{}
	err = p.Config.Connection.GetContext(ctx, &keyData, sqlDeleteAPIKey, in.CloudAccountID)
	if errors.Is(err, sql.ErrNoRows) {
		out = OutDelByAccountID{
			Success: false,
		}

		err = nil // discard error
		return
	}

	if err != nil {
		return
	}

	out = OutDelByAccountID{
		Success: keyData.CloudAccountID == in.CloudAccountID,
	}
	return
}
