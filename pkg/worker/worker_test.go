package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vantagecompute/vantage-api/pkg/worker"
)

// reportJob mimics the agent queue report ingestion job.
type reportJob struct {
	id         uint64
	preExecErr error
	execErr    error
}

func (s *reportJob) ID() uint64 {
	return s.id
}

func (s *reportJob) Context() context.Context {
	return context.Background()
}

func (s *reportJob) PreExecute() error {
	return s.preExecErr
}

func (s *reportJob) Execute() error {
	time.Sleep(100 * time.Millisecond)
	return s.execErr
}

func (s *reportJob) PostExecute(err error) {
	return
}

func TestNewWorker(t *testing.T) {
	t.Run("worker lower than 1", func(t *testing.T) {
		t.Parallel()

		dispatcher := worker.NewWorker(0, 100)
		defer dispatcher.Done()
		dispatcher.AddJob(&reportJob{id: 1})
	})

	t.Run("max job lower than 1", func(t *testing.T) {
		t.Parallel()

		dispatcher := worker.NewWorker(4, 0)
		defer dispatcher.Done()
		dispatcher.AddJob(&reportJob{id: 1})
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		dispatcher := worker.NewWorker(4, 100)
		defer dispatcher.Done()

		for i := 0; i < 100; i++ {
			id := uint64(i)
			dispatcher.AddJob(&reportJob{id: id})
		}
	})

	t.Run("job is nil", func(t *testing.T) {
		t.Parallel()

		dispatcher := worker.NewWorker(4, 100)
		defer dispatcher.Done()

		for i := 0; i < 100; i++ {
			dispatcher.AddJob(nil)
		}
	})

	t.Run("pre execute is error", func(t *testing.T) {
		t.Parallel()

		dispatcher := worker.NewWorker(4, 100)
		defer dispatcher.Done()

		for i := 0; i < 100; i++ {
			id := uint64(i)
			dispatcher.AddJob(&reportJob{id: id, preExecErr: errors.New("queue payload decode failed")})
		}
	})

	t.Run("execute is error", func(t *testing.T) {
		t.Parallel()

		dispatcher := worker.NewWorker(4, 100)
		defer dispatcher.Done()

		for i := 0; i < 100; i++ {
			id := uint64(i)
			dispatcher.AddJob(&reportJob{id: id, execErr: errors.New("queue upsert failed")})
		}
	})
}

func BenchmarkNewWorker(b *testing.B) {
	dispatcher := worker.NewWorker(8, 100)
	defer dispatcher.Done()

	for i := 0; i < b.N; i++ {
		id := uint64(i)
		dispatcher.AddJob(&reportJob{id: id})
	}
}
