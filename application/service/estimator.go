package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/domain/model"
	"github.com/helixml/salary/domain/regression"
	"github.com/helixml/salary/domain/repository"
	"github.com/helixml/salary/domain/training"
	"github.com/helixml/salary/infrastructure/dataset"
	"github.com/helixml/salary/internal/config"
	"github.com/helixml/salary/internal/domain"
)

// ArtifactStore persists the trained model.
type ArtifactStore interface {
	Save(ctx context.Context, a *model.Artifact) error
	Load(ctx context.Context) (*model.Artifact, bool, error)
}

// DatasetLoader reads labelled postings from a dataset file.
type DatasetLoader interface {
	Load(ctx context.Context, path string) ([]dataset.Row, error)
}

// Prediction is the estimate for one posting.
type Prediction struct {
	salary  float64
	posting feature.Posting
}

// NewPrediction creates a Prediction.
func NewPrediction(salary float64, posting feature.Posting) Prediction {
	return Prediction{salary: salary, posting: posting}
}

// Salary returns the estimated salary.
func (p Prediction) Salary() float64 { return p.salary }

// Posting returns the normalised features the estimate was made from.
func (p Prediction) Posting() feature.Posting { return p.posting }

// Estimator trains and serves the salary model. Predictions read the current
// artifact without locking; training runs one at a time and replaces the
// artifact only after it has been saved.
type Estimator struct {
	artifacts ArtifactStore
	loader    DatasetLoader
	resolver  dataset.Resolver
	runs      training.RunStore
	forest    config.ForestConfig
	policy    feature.UnseenPolicy
	logger    *slog.Logger
	now       func() time.Time

	current atomic.Pointer[model.Artifact]
	mu      sync.Mutex
}

// EstimatorOption configures an Estimator.
type EstimatorOption func(*Estimator)

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) EstimatorOption {
	return func(e *Estimator) { e.now = now }
}

// WithUnseenPolicy sets how unseen categories are handled at prediction time.
func WithUnseenPolicy(p feature.UnseenPolicy) EstimatorOption {
	return func(e *Estimator) { e.policy = p }
}

// NewEstimator creates a new Estimator.
func NewEstimator(
	artifacts ArtifactStore,
	loader DatasetLoader,
	resolver dataset.Resolver,
	runs training.RunStore,
	forest config.ForestConfig,
	logger *slog.Logger,
	opts ...EstimatorOption,
) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Estimator{
		artifacts: artifacts,
		loader:    loader,
		resolver:  resolver,
		runs:      runs,
		forest:    forest,
		policy:    feature.FallbackToUnknown,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore loads a previously saved artifact, if any.
func (e *Estimator) Restore(ctx context.Context) error {
	a, found, err := e.artifacts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if !found {
		e.logger.Info("no trained model found, predictions disabled until /train is called")
		return nil
	}
	e.current.Store(a)
	e.logger.Info("model loaded",
		slog.Time("trained_at", a.TrainedAt()),
		slog.Int("trees", len(a.Forest().Trees())),
		slog.Float64("r2", a.Metrics().R2),
	)
	return nil
}

// Model returns the artifact currently used for predictions.
func (e *Estimator) Model() (*model.Artifact, error) {
	a := e.current.Load()
	if a == nil {
		return nil, domain.NotFoundf("No model loaded")
	}
	return a, nil
}

// Trained reports whether a model is available.
func (e *Estimator) Trained() bool { return e.current.Load() != nil }

// Predict estimates the salary for a posting.
func (e *Estimator) Predict(p feature.Posting) (Prediction, error) {
	a := e.current.Load()
	if a == nil {
		return Prediction{}, domain.Internal(model.ErrNotTrained, "prediction failed")
	}
	salary, err := a.Predict(p, e.policy)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return Prediction{}, err
		}
		return Prediction{}, domain.Internal(err, "prediction failed")
	}
	return Prediction{salary: salary, posting: p}, nil
}

// Train fits a new model from the dataset at dataFile and makes it current.
// The attempt is recorded as a training run whatever the outcome. On failure
// the previous model stays in place.
func (e *Estimator) Train(ctx context.Context, dataFile string) (training.Run, error) {
	resolved, err := e.resolver.Resolve(dataFile)
	if err != nil {
		return training.Run{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	run := training.StartRun(dataFile, e.now())
	e.logger.Info("training started", slog.String("run_id", run.ID().String()), slog.String("data_file", resolved))

	a, err := e.fit(ctx, resolved)
	if err == nil {
		err = e.artifacts.Save(ctx, a)
	}
	if err != nil {
		run = run.Fail(err, e.now())
		e.record(ctx, run)
		e.logger.Error("training failed", slog.String("run_id", run.ID().String()), slog.Any("error", err))
		return run, domain.Internal(err, "training failed")
	}

	e.current.Store(a)
	run = run.Succeed(a.TrainRows(), a.TestRows(), a.Metrics(), e.now())
	e.record(ctx, run)
	e.logger.Info("training finished",
		slog.String("run_id", run.ID().String()),
		slog.Int("train_rows", run.TrainRows()),
		slog.Int("test_rows", run.TestRows()),
		slog.Float64("rmse", run.Metrics().RMSE),
		slog.Float64("r2", run.Metrics().R2),
		slog.Duration("duration", run.Duration()),
	)
	return run, nil
}

func (e *Estimator) fit(ctx context.Context, path string) (*model.Artifact, error) {
	rows, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	postings := make([]feature.Posting, len(rows))
	for i, r := range rows {
		postings[i] = r.Posting
	}
	encoders, vectors := feature.FitEncoders(postings)
	matrix := make([][]float64, len(vectors))
	for i, v := range vectors {
		matrix[i] = v.Row()
	}

	trainIdx, testIdx, err := dataset.Split(len(rows), dataset.DefaultTestFraction, e.forest.Seed())
	if err != nil {
		return nil, err
	}
	xTrain, yTrain := dataset.Matrix(rows, matrix, trainIdx)
	xTest, yTest := dataset.Matrix(rows, matrix, testIdx)

	params := regression.DefaultParams()
	params.Trees = e.forest.Trees()
	params.MaxDepth = e.forest.MaxDepth()
	params.Seed = e.forest.Seed()

	forest, err := regression.NewForest(params)
	if err != nil {
		return nil, err
	}
	if err := forest.Fit(ctx, xTrain, yTrain, e.forest.Workers()); err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}
	metrics, err := forest.Evaluate(xTest, yTest)
	if err != nil {
		return nil, fmt.Errorf("evaluate forest: %w", err)
	}

	return model.NewArtifact(forest, encoders, metrics, e.now(), len(trainIdx), len(testIdx))
}

func (e *Estimator) record(ctx context.Context, run training.Run) {
	if e.runs == nil {
		return
	}
	if err := e.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		e.logger.Warn("failed to record training run", slog.String("run_id", run.ID().String()), slog.Any("error", err))
	}
}

// Runs returns up to limit training runs, newest first, skipping offset.
func (e *Estimator) Runs(ctx context.Context, limit, offset int) ([]training.Run, error) {
	if e.runs == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = config.DefaultRunsLimit
	}
	runs, err := e.runs.Find(ctx,
		training.WithNewestFirst(),
		repository.WithLimit(limit),
		repository.WithOffset(offset),
	)
	if err != nil {
		return nil, fmt.Errorf("find training runs: %w", err)
	}
	return runs, nil
}
