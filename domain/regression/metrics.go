package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics summarises how well predictions match held-out targets.
type Metrics struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Score computes mean squared error, its root, and the coefficient of
// determination. When the targets have no variance R² is 1 for a perfect fit
// and 0 otherwise, so the result is always finite.
func Score(pred, actual []float64) (Metrics, error) {
	if len(pred) == 0 || len(pred) != len(actual) {
		return Metrics{}, fmt.Errorf("score: %d predictions for %d targets", len(pred), len(actual))
	}

	residuals := make([]float64, len(pred))
	floats.SubTo(residuals, actual, pred)
	sse := floats.Dot(residuals, residuals)
	mse := sse / float64(len(pred))

	mean := stat.Mean(actual, nil)
	var sst float64
	for _, v := range actual {
		sst += (v - mean) * (v - mean)
	}

	var r2 float64
	switch {
	case sst > 0:
		r2 = stat.RSquaredFrom(pred, actual, nil)
	case sse == 0:
		r2 = 1
	}

	return Metrics{MSE: mse, RMSE: math.Sqrt(mse), R2: r2}, nil
}
