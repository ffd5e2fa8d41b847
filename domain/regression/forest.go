package regression

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned when fitting on an empty or inconsistent dataset.
var ErrNoData = errors.New("no training data")

// Params are the forest hyperparameters. They are fixed at construction so
// a fit is reproducible.
type Params struct {
	Trees           int    `json:"n_estimators"`
	MaxDepth        int    `json:"max_depth"`
	MinSamplesSplit int    `json:"min_samples_split"`
	MinSamplesLeaf  int    `json:"min_samples_leaf"`
	Seed            uint64 `json:"random_state"`
}

// DefaultParams returns 100 trees of depth at most 10 seeded with 42.
func DefaultParams() Params {
	return Params{
		Trees:           100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

func (p Params) validate() error {
	if p.Trees < 1 {
		return fmt.Errorf("n_estimators must be positive, got %d", p.Trees)
	}
	if p.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", p.MaxDepth)
	}
	if p.MinSamplesSplit < 2 {
		return fmt.Errorf("min_samples_split must be at least 2, got %d", p.MinSamplesSplit)
	}
	if p.MinSamplesLeaf < 1 {
		return fmt.Errorf("min_samples_leaf must be positive, got %d", p.MinSamplesLeaf)
	}
	return nil
}

// Forest is a bagged ensemble of regression trees. A zero Forest is unfitted.
type Forest struct {
	params Params
	width  int
	trees  []Tree
}

// NewForest returns an unfitted forest.
func NewForest(params Params) (*Forest, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Forest{params: params}, nil
}

// RestoreForest rebuilds a fitted forest from persisted trees.
func RestoreForest(params Params, width int, trees [][]Node) (*Forest, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("restore forest: no trees")
	}
	f := &Forest{params: params, width: width, trees: make([]Tree, len(trees))}
	for i, nodes := range trees {
		t, err := NewTree(nodes, width)
		if err != nil {
			return nil, fmt.Errorf("restore forest: tree %d: %w", i, err)
		}
		f.trees[i] = t
	}
	return f, nil
}

// Params returns the hyperparameters.
func (f *Forest) Params() Params { return f.params }

// Width returns the number of features per row.
func (f *Forest) Width() int { return f.width }

// Trees returns the fitted trees.
func (f *Forest) Trees() []Tree {
	return append([]Tree(nil), f.trees...)
}

// Fitted reports whether Fit has completed.
func (f *Forest) Fitted() bool { return len(f.trees) > 0 }

// Fit trains the forest on rows x and targets y, growing up to workers trees
// at once. Tree i draws its bootstrap sample from a generator seeded with
// (Seed, i), so the result does not depend on scheduling.
func (f *Forest) Fit(ctx context.Context, x [][]float64, y []float64, workers int) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("%w: %d rows, %d targets", ErrNoData, len(x), len(y))
	}
	width := len(x[0])
	for i, row := range x {
		if len(row) != width || width == 0 {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d has a non-finite feature", i)
			}
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("row %d has a non-finite target", i)
		}
	}
	if workers < 1 {
		workers = 1
	}

	trees := make([]Tree, f.params.Trees)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(f.params.Seed, uint64(i)))
			b := &treeBuilder{
				x:        x,
				y:        y,
				maxDepth: f.params.MaxDepth,
				minSplit: f.params.MinSamplesSplit,
				minLeaf:  f.params.MinSamplesLeaf,
			}
			trees[i] = b.build(bootstrap(rng, len(x)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fit forest: %w", err)
	}

	f.width = width
	f.trees = trees
	return nil
}

func bootstrap(rng *rand.Rand, n int) []int {
	sample := make([]int, n)
	for i := range sample {
		sample[i] = rng.IntN(n)
	}
	return sample
}

// Predict returns the mean of every tree's prediction for each row.
func (f *Forest) Predict(x [][]float64) ([]float64, error) {
	if !f.Fitted() {
		return nil, errors.New("forest is not fitted")
	}
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != f.width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), f.width)
		}
		var sum float64
		for _, t := range f.trees {
			sum += t.Predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

// Evaluate predicts x and scores the predictions against y.
func (f *Forest) Evaluate(x [][]float64, y []float64) (Metrics, error) {
	pred, err := f.Predict(x)
	if err != nil {
		return Metrics{}, err
	}
	return Score(pred, y)
}
