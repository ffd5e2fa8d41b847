// Package model defines the trained salary model artifact.
package model

import (
	"errors"
	"time"

	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/domain/regression"
)

// ErrNotTrained is returned when a prediction is requested before any model
// has been trained or loaded.
var ErrNotTrained = errors.New("model not trained")

// Artifact is a fitted forest together with the encoders its codes came
// from. The two are only valid as a pair and are persisted as one unit.
type Artifact struct {
	forest    *regression.Forest
	encoders  feature.Encoders
	metrics   regression.Metrics
	trainedAt time.Time
	trainRows int
	testRows  int
}

// NewArtifact creates an Artifact from a fitted forest and its encoders.
func NewArtifact(
	forest *regression.Forest,
	encoders feature.Encoders,
	metrics regression.Metrics,
	trainedAt time.Time,
	trainRows, testRows int,
) (*Artifact, error) {
	if forest == nil || !forest.Fitted() {
		return nil, ErrNotTrained
	}
	return &Artifact{
		forest:    forest,
		encoders:  encoders,
		metrics:   metrics,
		trainedAt: trainedAt,
		trainRows: trainRows,
		testRows:  testRows,
	}, nil
}

// Forest returns the fitted forest.
func (a *Artifact) Forest() *regression.Forest { return a.forest }

// Encoders returns the encoders fit alongside the forest.
func (a *Artifact) Encoders() feature.Encoders { return a.encoders }

// Metrics returns the held-out evaluation recorded at training time.
func (a *Artifact) Metrics() regression.Metrics { return a.metrics }

// TrainedAt returns when the artifact was produced.
func (a *Artifact) TrainedAt() time.Time { return a.trainedAt }

// TrainRows returns the size of the training partition.
func (a *Artifact) TrainRows() int { return a.trainRows }

// TestRows returns the size of the evaluation partition.
func (a *Artifact) TestRows() int { return a.testRows }

// Predict estimates the salary for one posting.
func (a *Artifact) Predict(p feature.Posting, policy feature.UnseenPolicy) (float64, error) {
	v, err := a.encoders.Transform(p, policy)
	if err != nil {
		return 0, err
	}
	out, err := a.forest.Predict([][]float64{v.Row()})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}
