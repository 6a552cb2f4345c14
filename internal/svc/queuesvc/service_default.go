package queuesvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/vantagecompute/vantage-api/internal/svc/clusterrepo"
	"github.com/vantagecompute/vantage-api/internal/svc/queuerepo"
	"github.com/vantagecompute/vantage-api/pkg/tracer"
	"github.com/vantagecompute/vantage-api/pkg/uid"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/vantagecompute/vantage-api/pkg/worker"
	"go.opentelemetry.io/otel/trace"
)

type DefaultServiceConfig struct {
	UIDGen      uid.UID          `validate:"required"`
	ClusterRepo clusterrepo.Repo `validate:"required"`
	QueueRepo   queuerepo.Repo   `validate:"required"`
	Workers     worker.Service   `validate:"required"`
}

type DefaultService struct {
	Config DefaultServiceConfig
}

var _ Service = (*DefaultService)(nil)

func New(dep DefaultServiceConfig) (*DefaultService, error) {
	if err := validator.Validate(dep); err != nil {
		return nil, err
	}

	return &DefaultService{
		Config: dep,
	}, nil
}

// IngestReport upserts every queue row of an agent report through the worker
// pool, then stores the whole-report blob. The call returns after all rows
// landed, a partial failure surfaces as one combined error.
func (d *DefaultService) IngestReport(ctx context.Context, input InputIngestReport) (out OutIngestReport, err error) {
	var span trace.Span
	ctx, span = tracer.StartSpan(ctx, "queuesvc.IngestReport")
	defer span.End()

	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	// unknown cluster is a client error, not a silent drop
	_, err = d.Config.ClusterRepo.GetByName(ctx, clusterrepo.InputGetByName{
		Name: input.ClusterName,
	})
	if err != nil {
		err = fmt.Errorf("not found cluster name '%s': %w", input.ClusterName, err)
		return
	}

	report := &upsertJobReport{
		Lock: &sync.Mutex{},
	}

	wg := &sync.WaitGroup{}
	for _, q := range input.Queues {
		var nextID uint64
		nextID, err = d.Config.UIDGen.NextID()
		if err != nil {
			// rows queued before the failure must land before the caller
			// sees the error, otherwise they keep writing in the background
			wg.Wait()
			err = fmt.Errorf("cannot get next id: %w", err)
			return
		}

		wg.Add(1)
		d.Config.Workers.AddJob(&upsertQueueJob{
			JobID: nextID,
			Ctx:   ctx,
			Repo:  d.Config.QueueRepo,
			Input: queuerepo.InputUpsertQueue{
				QueueInfo: queuerepo.QueueInfo{
					ID:          int64(nextID),
					ClusterName: input.ClusterName,
					Name:        q.Name,
					Info:        []byte(q.Info),
				},
			},
			Wg:     wg,
			Report: report,
		})
	}

	wg.Wait()

	if report.Err != nil {
		err = fmt.Errorf("queue report for cluster '%s' partially failed: %w", input.ClusterName, report.Err)
		return
	}

	allID, err := d.Config.UIDGen.NextID()
	if err != nil {
		err = fmt.Errorf("cannot get next id: %w", err)
		return
	}

	_, err = d.Config.QueueRepo.UpsertAllQueues(ctx, queuerepo.InputUpsertAllQueues{
		AllQueueInfo: queuerepo.AllQueueInfo{
			ID:          int64(allID),
			ClusterName: input.ClusterName,
			Info:        []byte(input.AllInfo),
		},
	})
	if err != nil {
		err = fmt.Errorf("store whole queue report for cluster '%s' error: %w", input.ClusterName, err)
		return
	}

	out = OutIngestReport{
		Accepted: len(input.Queues),
	}
	return
}

func (d *DefaultService) GetQueues(ctx context.Context, input InputGetQueues) (out OutGetQueues, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	outList, err := d.Config.QueueRepo.ListQueues(ctx, queuerepo.InputListQueues{
		ClusterName: input.ClusterName,
	})
	if err != nil {
		err = fmt.Errorf("list queues of cluster '%s' error: %w", input.ClusterName, err)
		return
	}

	queues := make([]Queue, 0)
	for _, q := range outList.Queues {
		queues = append(queues, Queue{
			Name:      q.Name,
			Info:      json.RawMessage(q.Info),
			UpdatedAt: q.UpdatedAt,
		})
	}

	out = OutGetQueues{
		Queues: queues,
	}

	outAll, err := d.Config.QueueRepo.GetAllQueues(ctx, queuerepo.InputGetAllQueues{
		ClusterName: input.ClusterName,
	})
	if errors.Is(err, sql.ErrNoRows) {
		// no report landed yet, still a valid answer
		err = nil
		return
	}

	if err != nil {
		err = fmt.Errorf("get whole queue report of cluster '%s' error: %w", input.ClusterName, err)
		return
	}

	out.AllInfo = json.RawMessage(outAll.AllQueueInfo.Info)
	return
}
