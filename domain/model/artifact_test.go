package model

import (
	"context"
	"testing"
	"time"

	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/domain/regression"
	"github.com/helixml/salary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedArtifact(t *testing.T) *Artifact {
	t.Helper()
	postings := []feature.Posting{
		feature.NewPosting(5, feature.EducationBachelor, "London", "Engineer"),
		feature.NewPosting(2, feature.EducationPhD, "Leeds", "Scientist"),
		feature.NewPosting(9, feature.EducationMaster, "London", "Manager"),
	}
	enc, vectors := feature.FitEncoders(postings)
	x := make([][]float64, len(vectors))
	for i, v := range vectors {
		x[i] = v.Row()
	}

	params := regression.DefaultParams()
	params.Trees = 5
	forest, err := regression.NewForest(params)
	require.NoError(t, err)
	require.NoError(t, forest.Fit(context.Background(), x, []float64{90000, 70000, 120000}, 2))

	a, err := NewArtifact(forest, enc, regression.Metrics{MSE: 1}, time.Unix(0, 0), 3, 0)
	require.NoError(t, err)
	return a
}

func TestNewArtifact_RequiresFittedForest(t *testing.T) {
	_, err := NewArtifact(nil, feature.Encoders{}, regression.Metrics{}, time.Now(), 0, 0)
	assert.ErrorIs(t, err, ErrNotTrained)

	unfitted, err := regression.NewForest(regression.DefaultParams())
	require.NoError(t, err)
	_, err = NewArtifact(unfitted, feature.Encoders{}, regression.Metrics{}, time.Now(), 0, 0)
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestArtifact_Predict(t *testing.T) {
	a := trainedArtifact(t)

	got, err := a.Predict(feature.NewPosting(5, feature.EducationBachelor, "London", "Engineer"), feature.RejectUnseen)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, 70000.0)
	assert.LessOrEqual(t, got, 120000.0)
	assert.Equal(t, 3, a.TrainRows())
	assert.Equal(t, 1.0, a.Metrics().MSE)
}

func TestArtifact_PredictUnseenPolicy(t *testing.T) {
	a := trainedArtifact(t)
	p := feature.NewPosting(5, feature.EducationBachelor, "Paris", "Engineer")

	_, err := a.Predict(p, feature.FallbackToUnknown)
	assert.NoError(t, err)

	_, err = a.Predict(p, feature.RejectUnseen)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
