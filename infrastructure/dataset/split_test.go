package dataset_test

import (
	"slices"
	"testing"

	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/infrastructure/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Sizes(t *testing.T) {
	tests := []struct {
		n, train, test int
	}{
		{2, 1, 1},
		{5, 4, 1},
		{6, 4, 2},
		{10, 8, 2},
		{11, 8, 3},
	}
	for _, tt := range tests {
		train, test, err := dataset.Split(tt.n, dataset.DefaultTestFraction, 42)
		require.NoError(t, err)
		assert.Len(t, train, tt.train, "n=%d", tt.n)
		assert.Len(t, test, tt.test, "n=%d", tt.n)

		all := slices.Concat(train, test)
		slices.Sort(all)
		for i, v := range all {
			assert.Equal(t, i, v, "every row appears exactly once")
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	train1, test1, err := dataset.Split(50, 0.2, 42)
	require.NoError(t, err)
	train2, test2, err := dataset.Split(50, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)

	_, test3, err := dataset.Split(50, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, test1, test3)
}

func TestSplit_Errors(t *testing.T) {
	_, _, err := dataset.Split(1, 0.2, 42)
	assert.ErrorIs(t, err, dataset.ErrDataset)

	_, _, err = dataset.Split(0, 0.2, 42)
	assert.ErrorIs(t, err, dataset.ErrDataset)

	_, _, err = dataset.Split(10, 1, 42)
	assert.ErrorIs(t, err, dataset.ErrDataset)
}

func TestMatrix(t *testing.T) {
	rows := []dataset.Row{
		{Posting: feature.NewPosting(1, "", "", ""), Salary: 10},
		{Posting: feature.NewPosting(2, "", "", ""), Salary: 20},
		{Posting: feature.NewPosting(3, "", "", ""), Salary: 30},
	}
	vectors := [][]float64{{1, 0, 0, 0}, {2, 0, 0, 0}, {3, 0, 0, 0}}

	x, y := dataset.Matrix(rows, vectors, []int{2, 0})
	assert.Equal(t, [][]float64{{3, 0, 0, 0}, {1, 0, 0, 0}}, x)
	assert.Equal(t, []float64{30, 10}, y)
}
