package queuerepo

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx/types"
)

var (
	ErrValidation = errors.New("validation error")
)

// QueueInfo mirrors one row of the queue_info table: the last reported
// state of a single scheduler queue on a cluster.
type QueueInfo struct {
	ID          int64          `json:"id" db:"id" validate:"required"` // primary key
	ClusterName string         `json:"cluster_name" db:"cluster_name" validate:"required"`
	Name        string         `json:"name" db:"name" validate:"required"`
	Info        types.JSONText `json:"info" db:"info" validate:"-"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at" validate:"-"`
}

// AllQueueInfo mirrors the all_queue_info table: the whole-cluster queue
// report blob, one row per cluster.
type AllQueueInfo struct {
	ID          int64          `json:"id" db:"id" validate:"required"` // primary key
	ClusterName string         `json:"cluster_name" db:"cluster_name" validate:"required"`
	Info        types.JSONText `json:"info" db:"info" validate:"-"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at" validate:"-"`
}

// Repo is queue report repository service
type Repo interface {
	UpsertQueue(ctx context.Context, in InputUpsertQueue) (out OutUpsertQueue, err error)
	UpsertAllQueues(ctx context.Context, in InputUpsertAllQueues) (out OutUpsertAllQueues, err error)
	ListQueues(ctx context.Context, in InputListQueues) (out OutListQueues, err error)
	GetAllQueues(ctx context.Context, in InputGetAllQueues) (out OutGetAllQueues, err error)
}

type InputUpsertQueue struct {
	QueueInfo QueueInfo `validate:"required"`
}

type OutUpsertQueue struct {
	QueueInfo QueueInfo
}

type InputUpsertAllQueues struct {
	AllQueueInfo AllQueueInfo `validate:"required"`
}

type OutUpsertAllQueues struct {
	AllQueueInfo AllQueueInfo
}

type InputListQueues struct {
	ClusterName string `validate:"required"`
}

type OutListQueues struct {
	Queues []QueueInfo
}

type InputGetAllQueues struct {
	ClusterName string `validate:"required"`
}

type OutGetAllQueues struct {
	AllQueueInfo AllQueueInfo
}
