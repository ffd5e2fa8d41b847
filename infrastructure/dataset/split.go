package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultTestFraction is the share of rows held out for evaluation.
const DefaultTestFraction = 0.2

// Split shuffles the row indices 0..n-1 with a seeded generator and holds
// out ceil(testFraction*n) of them for evaluation. Both partitions are
// non-empty and the result depends only on n, testFraction and seed.
func Split(n int, testFraction float64, seed uint64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 rows to split, got %d", ErrDataset, n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("%w: test fraction %v must be between 0 and 1", ErrDataset, testFraction)
	}

	nTest := int(math.Ceil(testFraction * float64(n)))
	nTest = max(1, min(nTest, n-1))

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	return order[nTest:], order[:nTest], nil
}

// Matrix gathers the feature rows and salaries at index.
func Matrix(rows []Row, vectors [][]float64, index []int) ([][]float64, []float64) {
	x := make([][]float64, len(index))
	y := make([]float64, len(index))
	for k, i := range index {
		x[k] = vectors[i]
		y[k] = rows[i].Salary
	}
	return x, y
}
