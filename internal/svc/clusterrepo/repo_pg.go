package clusterrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/vantagecompute/vantage-api/pkg/tracer"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	sqlCreateCluster = `
		INSERT INTO cluster (name, client_id, description, owner_email, status, provider, creation_parameters, cloud_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *;
`

	sqlCreatePartition = `
		INSERT INTO cluster_partitions (id, cluster_name, name, node_count, config)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *;
`

	sqlGetClusterByName = `SELECT * FROM cluster WHERE name = $1 LIMIT 1;`
	sqlCountClusters    = `SELECT COUNT(*) as total FROM cluster;`

	sqlUpdateClusterStatus = `UPDATE cluster SET status = $2, updated_at = now() WHERE name = $1 RETURNING *;`

	// delete cascades into cluster_partitions, notebook_servers,
	// queue_info and all_queue_info via the schema foreign keys
	sqlDeleteCluster = `DELETE FROM cluster WHERE name = $1 RETURNING *;`

	sqlListPartitions = `SELECT * FROM cluster_partitions WHERE cluster_name = $1 ORDER BY name ASC;`
)

// sortableColumns guards the ORDER BY interpolation. Callers already run the
// sort field through the sortfield checker, this is the second fence.
var sortableColumns = map[string]struct{}{
	"name":        {},
	"client_id":   {},
	"owner_email": {},
	"status":      {},
	"provider":    {},
	"created_at":  {},
	"updated_at":  {},
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

// Create inserts the cluster and its partitions in one transaction, so a
// half-created cluster never becomes visible.
func (p *RepoPostgres) Create(ctx context.Context, in InputCreate) (out OutCreate, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	cluster := in.Cluster
	cluster.ClientID = strings.TrimSpace(strings.ToLower(cluster.ClientID))
	if len(cluster.CreationParameters) == 0 {
		cluster.CreationParameters = []byte(`{}`)
	}

	tx, err := p.Config.Connection.BeginTxx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("begin tx error: %w", err)
		return
	}

	defer func() {
		if err != nil {
			if _err := tx.Rollback(); _err != nil {
				err = fmt.Errorf("%w: rollback error: %s", err, _err)
			}
		}
	}()

	insertedCluster := Cluster{}
	err = tx.GetContext(ctx, &insertedCluster, sqlCreateCluster,
		cluster.Name, cluster.ClientID, cluster.Description, cluster.OwnerEmail,
		cluster.Status, cluster.Provider, cluster.CreationParameters, cluster.CloudAccountID,
	)
	if err != nil {
		return
	}

	insertedPartitions := make([]Partition, 0, len(in.Partitions))
	for _, partition := range in.Partitions {
		partition.ClusterName = insertedCluster.Name
		if len(partition.Config) == 0 {
			partition.Config = []byte(`{}`)
		}

		insertedPartition := Partition{}
		err = tx.GetContext(ctx, &insertedPartition, sqlCreatePartition,
			partition.ID, partition.ClusterName, partition.Name, partition.NodeCount, partition.Config,
		)
		if err != nil {
			err = fmt.Errorf("insert partition '%s' error: %w", partition.Name, err)
			return
		}

		insertedPartitions = append(insertedPartitions, insertedPartition)
	}

	err = tx.Commit()
	if err != nil {
		err = fmt.Errorf("commit tx error: %w", err)
		return
	}

	out = OutCreate{
		Cluster:    insertedCluster,
		Partitions: insertedPartitions,
	}
	return
}

func (p *RepoPostgres) GetByName(ctx context.Context, in InputGetByName) (out OutGetByName, err error) {
	var span trace.Span
	ctx, span = tracer.StartSpan(ctx, "clusterrepo.GetByName")
	defer span.End()

	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	clusterData := Cluster{}
	err = p.Config.Connection.GetContext(ctx, &clusterData, sqlGetClusterByName, in.Name)
	if err != nil {
		return
	}

	out = OutGetByName{
		Cluster: clusterData,
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
	err = p.Config.Connection.GetContext(ctx, &count, sqlCountClusters)
	if err != nil {
		err = fmt.Errorf("cannot count list of clusters: %w", err)
		return
	}

	if count.Total <= 0 {
		return
	}

	clusterData := make([]Cluster, 0)
	query := fmt.Sprintf(`SELECT * FROM cluster ORDER BY %s ASC LIMIT $1 OFFSET $2;`, orderBy)
	err = p.Config.Connection.SelectContext(ctx, &clusterData, query, in.Limit, in.Offset)
	if err != nil {
		err = fmt.Errorf("cannot get list of clusters: %w", err)
		return
	}

	out = OutList{
		Total:    count.Total,
		Clusters: clusterData,
	}
	return
}

func (p *RepoPostgres) UpdateStatus(ctx context.Context, in InputUpdateStatus) (out OutUpdateStatus, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	clusterData := Cluster{}
	err = p.Config.Connection.GetContext(ctx, &clusterData, sqlUpdateClusterStatus, in.Name, in.Status)
	if err != nil {
		return
	}

	out = OutUpdateStatus{
		Cluster: clusterData,
	}
	return
}

func (p *RepoPostgres) DelByName(ctx context.Context, in InputDelByName) (out OutDelByName, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	clusterData := Cluster{}
	err = p.Config.Connection.GetContext(ctx, &clusterData, sqlDeleteCluster, in.Name)
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
		Success: clusterData.Name == in.Name,
	}
	return
}

func (p *RepoPostgres) ListPartitions(ctx context.Context, in InputListPartitions) (out OutListPartitions, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	partitions := make([]Partition, 0)
	err = p.Config.Connection.SelectContext(ctx, &partitions, sqlListPartitions, in.ClusterName)
	if err != nil {
		err = fmt.Errorf("cannot get partitions of cluster '%s': %w", in.ClusterName, err)
		return
	}

	out = OutListPartitions{
		Partitions: partitions,
	}
	return
}
