package notebookrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

const (
	sqlCreateNotebook = `
		INSERT INTO notebook_servers (id, cluster_name, partition_name, name, owner_email, server_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *;
`

	sqlCountNotebooks = `SELECT COUNT(*) as total FROM notebook_servers WHERE cluster_name = $1;`

	sqlUpdateNotebookStatus = `
		UPDATE notebook_servers SET status = $3, updated_at = now()
		WHERE cluster_name = $1 AND name = $2
		RETURNING *;
`

	sqlDeleteNotebook = `DELETE FROM notebook_servers WHERE cluster_name = $1 AND name = $2 RETURNING *;`
)

var sortableColumns = map[string]struct{}{
	"name":           {},
	"partition_name": {},
	"owner_email":    {},
	"status":         {},
	"created_at":     {},
	"updated_at":     {},
}

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

	nb := in.NotebookServer
	inserted := NotebookServer{}
	err = p.Config.Connection.GetContext(ctx, &inserted, sqlCreateNotebook,
		nb.ID, nb.ClusterName, nb.PartitionName, nb.Name, nb.OwnerEmail, nb.ServerURL, nb.Status,
	)
	if err != nil {
		return
	}

	out = OutCreate{
		NotebookServer: inserted,
	}
	return
}

func (p *RepoPostgres) List(ctx context.Context, in InputList) (out OutList, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	orderBy := "name"
	if in.SortBy != "" {
		if _, ok := sortableColumns[in.SortBy]; !ok {
			err = fmt.Errorf("%w: column '%s' is not sortable", ErrValidation, in.SortBy)
			return
		}

		orderBy = in.SortBy
	}

	count := struct {
		Total int64 `db:"total"`
	}{}
	err = p.Config.Connection.GetContext(ctx, &count, sqlCountNotebooks, in.ClusterName)
	if err != nil {
		err = fmt.Errorf("cannot count list of notebook servers: %w", err)
		return
	}

	if count.Total <= 0 {
		return
	}

	notebooks := make([]NotebookServer, 0)
	query := fmt.Sprintf(
		`SELECT * FROM notebook_servers WHERE cluster_name = $1 ORDER BY %s ASC LIMIT $2 OFFSET $3;`,
		orderBy,
	)
	err = p.Config.Connection.SelectContext(ctx, &notebooks, query, in.ClusterName, in.Limit, in.Offset)
	if err != nil {
		err = fmt.Errorf("cannot get list of notebook servers: %w", err)
		return
	}

	out = OutList{
		Total:           count.Total,
		NotebookServers: notebooks,
	}
	return
}

func (p *RepoPostgres) UpdateStatus(ctx context.Context, in InputUpdateStatus) (out OutUpdateStatus, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	updated := NotebookServer{}
	err = p.Config.Connection.GetContext(ctx, &updated, sqlUpdateNotebookStatus, in.ClusterName, in.Name, in.Status)
	if err != nil {
		return
	}

	out = OutUpdateStatus{
		NotebookServer: updated,
	}
	return
}

func (p *RepoPostgres) DelByName(ctx context.Context, in InputDelByName) (out OutDelByName, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	deleted := NotebookServer{}
	err = p.Config.Connection.GetContext(ctx, &deleted, sqlDeleteNotebook, in.ClusterName, in.Name)
	if errors.Is(err, sql.ErrNoRows) {
		out = OutDelByName{
			Success: false,
		}

		err = nil // discard error
		return
	}

	if err != nil {
		return
	}

	out = OutDelByName{
		Success: deleted.Name == in.Name,
	}
	return
}
