package training

import (
	"errors"
	"testing"
	"time"

	"github.com/helixml/salary/domain/regression"
	"github.com/helixml/salary/domain/repository"
	"github.com/stretchr/testify/assert"
)

func TestRun_Succeed(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	run := StartRun("jobs.csv", start)

	done := run.Succeed(4, 1, regression.Metrics{MSE: 4, RMSE: 2, R2: 0.5}, start.Add(3*time.Second))

	assert.NotEqual(t, run.ID().String(), "")
	assert.Equal(t, run.ID(), done.ID())
	assert.Equal(t, StatusSucceeded, done.Status())
	assert.Equal(t, 4, done.TrainRows())
	assert.Equal(t, 1, done.TestRows())
	assert.Equal(t, 2.0, done.Metrics().RMSE)
	assert.Equal(t, 3*time.Second, done.Duration())
	assert.Empty(t, done.Error())
	assert.Equal(t, Status(""), run.Status(), "original run is unchanged")
}

func TestRun_Fail(t *testing.T) {
	run := StartRun("jobs.csv", time.Now()).Fail(errors.New("missing column"), time.Now())

	assert.Equal(t, StatusFailed, run.Status())
	assert.Equal(t, "missing column", run.Error())
}

func TestStartRun_UniqueIDs(t *testing.T) {
	a := StartRun("a.csv", time.Now())
	b := StartRun("a.csv", time.Now())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestOptions(t *testing.T) {
	q := repository.Build(WithStatus(StatusFailed), WithNewestFirst())

	assert.Equal(t, "status", q.Conditions()[0].Field())
	assert.Equal(t, "failed", q.Conditions()[0].Value())
	assert.Equal(t, "started_at", q.Orders()[0].Field())
	assert.False(t, q.Orders()[0].Ascending())
}
