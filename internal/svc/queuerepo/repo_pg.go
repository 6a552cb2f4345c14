package queuerepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

const (
	sqlUpsertQueue = `
		INSERT INTO queue_info (id, cluster_name, name, info, updated_at) VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (cluster_name, name)
		DO UPDATE SET
			info = EXCLUDED.info,
			updated_at = now()
		RETURNING *;
`

	sqlUpsertAllQueues = `
		INSERT INTO all_queue_info (id, cluster_name, info, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (cluster_name)
		DO UPDATE SET
			info = EXCLUDED.info,
			updated_at = now()
		RETURNING *;
`

	sqlListQueues   = `SELECT * FROM queue_info WHERE cluster_name = $1 ORDER BY name ASC;`
	sqlGetAllQueues = `SELECT * FROM all_queue_info WHERE cluster_name = $1 LIMIT 1;`
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

func (p *RepoPostgres) UpsertQueue(ctx context.Context, in InputUpsertQueue) (out OutUpsertQueue, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	queue := in.QueueInfo
	if len(queue.Info) == 0 {
		queue.Info = []byte(`{}`)
	}

	upserted := QueueInfo{}
	err = p.Config.Connection.GetContext(ctx, &upserted, sqlUpsertQueue,
		queue.ID, queue.ClusterName, queue.Name, queue.Info,
	)
	if err != nil {
		return
	}

	out = OutUpsertQueue{
		QueueInfo: upserted,
	}
	return
}

func (p *RepoPostgres) UpsertAllQueues(ctx context.Context, in InputUpsertAllQueues) (out OutUpsertAllQueues, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	all := in.AllQueueInfo
	if len(all.Info) == 0 {
		all.Info = []byte(`{}`)
	}

	upserted := AllQueueInfo{}
	err = p.Config.Connection.GetContext(ctx, &upserted, sqlUpsertAllQueues,
		all.ID, all.ClusterName, all.Info,
	)
	if err != nil {
		return
	}

	out = OutUpsertAllQueues{
		AllQueueInfo: upserted,
	}
	return
}

func (p *RepoPostgres) ListQueues(ctx context.Context, in InputListQueues) (out OutListQueues, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	queues := make([]QueueInfo, 0)
	err = p.Config.Connection.SelectContext(ctx, &queues, sqlListQueues, in.ClusterName)
	if err != nil {
		err = fmt.Errorf("cannot get queues of cluster '%s': %w", in.ClusterName, err)
		return
	}

	out = OutListQueues{
		Queues: queues,
	}
	return
}

func (p *RepoPostgres) GetAllQueues(ctx context.Context, in InputGetAllQueues) (out OutGetAllQueues, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	all := AllQueueInfo{}
	err = p.Config.Connection.GetContext(ctx, &all, sqlGetAllQueues, in.ClusterName)
	if err != nil {
		return
	}

	out = OutGetAllQueues{
		AllQueueInfo: all,
	}
	return
}
