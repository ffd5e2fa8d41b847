// Package training records the history of model training attempts.
package training

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/helixml/salary/domain/regression"
	"github.com/helixml/salary/domain/repository"
)

// Status is the outcome of a training run.
type Status string

// Status values.
const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one attempt to train the model from a dataset file.
type Run struct {
	id         uuid.UUID
	dataFile   string
	status     Status
	trainRows  int
	testRows   int
	metrics    regression.Metrics
	errMessage string
	startedAt  time.Time
	finishedAt time.Time
}

// StartRun creates a run for dataFile with a fresh ID.
func StartRun(dataFile string, startedAt time.Time) Run {
	return Run{id: uuid.New(), dataFile: dataFile, startedAt: startedAt}
}

// ReconstructRun rebuilds a Run from persistence.
func ReconstructRun(
	id uuid.UUID,
	dataFile string,
	status Status,
	trainRows, testRows int,
	metrics regression.Metrics,
	errMessage string,
	startedAt, finishedAt time.Time,
) Run {
	return Run{
		id:         id,
		dataFile:   dataFile,
		status:     status,
		trainRows:  trainRows,
		testRows:   testRows,
		metrics:    metrics,
		errMessage: errMessage,
		startedAt:  startedAt,
		finishedAt: finishedAt,
	}
}

// Succeed returns the run marked as succeeded.
func (r Run) Succeed(trainRows, testRows int, metrics regression.Metrics, at time.Time) Run {
	r.status = StatusSucceeded
	r.trainRows = trainRows
	r.testRows = testRows
	r.metrics = metrics
	r.finishedAt = at
	return r
}

// Fail returns the run marked as failed with err.
func (r Run) Fail(err error, at time.Time) Run {
	r.status = StatusFailed
	r.errMessage = err.Error()
	r.finishedAt = at
	return r
}

// ID returns the run ID.
func (r Run) ID() uuid.UUID { return r.id }

// DataFile returns the dataset path the run trained on.
func (r Run) DataFile() string { return r.dataFile }

// Status returns the outcome.
func (r Run) Status() Status { return r.status }

// TrainRows returns the training partition size.
func (r Run) TrainRows() int { return r.trainRows }

// TestRows returns the evaluation partition size.
func (r Run) TestRows() int { return r.testRows }

// Metrics returns the evaluation metrics of a successful run.
func (r Run) Metrics() regression.Metrics { return r.metrics }

// Error returns the failure message of a failed run.
func (r Run) Error() string { return r.errMessage }

// StartedAt returns when the run began.
func (r Run) StartedAt() time.Time { return r.startedAt }

// FinishedAt returns when the run ended.
func (r Run) FinishedAt() time.Time { return r.finishedAt }

// Duration returns how long the run took.
func (r Run) Duration() time.Duration { return r.finishedAt.Sub(r.startedAt) }

// RunStore persists training runs.
type RunStore interface {
	Save(ctx context.Context, run Run) error
	Find(ctx context.Context, options ...repository.Option) ([]Run, error)
}

// WithStatus filters runs by status.
func WithStatus(s Status) repository.Option {
	return repository.WithCondition("status", string(s))
}

// WithNewestFirst orders runs by start time, newest first.
func WithNewestFirst() repository.Option {
	return repository.WithOrderDesc("started_at")
}
