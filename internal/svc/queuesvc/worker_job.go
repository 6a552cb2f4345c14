package queuesvc

import (
	"context"
	"sync"

	"github.com/vantagecompute/vantage-api/internal/svc/queuerepo"
	"go.uber.org/multierr"
)

// upsertJobReport collects failures across the fanned-out queue upserts.
// Guarded by Lock, read by the caller after Wg returns.
type upsertJobReport struct {
	Lock sync.Locker
	Err  error
}

func (r *upsertJobReport) append(err error) {
	r.Lock.Lock()
	defer r.Lock.Unlock()
	r.Err = multierr.Append(r.Err, err)
}

// upsertQueueJob is one queue row upsert running on the shared worker pool.
type upsertQueueJob struct {
	JobID  uint64
	Ctx    context.Context
	Repo   queuerepo.Repo
	Input  queuerepo.InputUpsertQueue
	Wg     *sync.WaitGroup
	Report *upsertJobReport
}

func (j *upsertQueueJob) ID() uint64 {
	return j.JobID
}

func (j *upsertQueueJob) Context() context.Context {
	return j.Ctx
}

func (j *upsertQueueJob) PreExecute() error {
	return nil
}

func (j *upsertQueueJob) Execute() error {
	_, err := j.Repo.UpsertQueue(j.Ctx, j.Input)
	return err
}

func (j *upsertQueueJob) PostExecute(err error) {
	if err != nil {
		j.Report.append(err)
	}

	j.Wg.Done()
}
