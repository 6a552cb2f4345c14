package queuesvc

import (
	"context"
	"encoding/json"
	"time"
)

// Service ingests scheduler queue reports pushed by cluster agents and
// serves the last known state back.
type Service interface {
	IngestReport(ctx context.Context, input InputIngestReport) (out OutIngestReport, err error)
	GetQueues(ctx context.Context, input InputGetQueues) (out OutGetQueues, err error)
}

// QueueReport is the per-queue slice of an agent report.
type QueueReport struct {
	Name string          `validate:"required"`
	Info json.RawMessage `validate:"-"`
}

type Queue struct {
	Name      string
	Info      json.RawMessage
	UpdatedAt time.Time
}

type InputIngestReport struct {
	ClusterName string          `validate:"required"`
	Queues      []QueueReport   `validate:"dive"`
	AllInfo     json.RawMessage `validate:"-"` // whole-report blob stored per cluster
}

type OutIngestReport struct {
	Accepted int
}

type InputGetQueues struct {
	ClusterName string `validate:"required"`
}

type OutGetQueues struct {
	Queues  []Queue
	AllInfo json.RawMessage
}
