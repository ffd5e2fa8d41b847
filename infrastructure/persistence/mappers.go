package persistence

import (
	"github.com/google/uuid"
	"github.com/helixml/salary/domain/regression"
	"github.com/helixml/salary/domain/training"
)

// TrainingRunMapper maps between training.Run and TrainingRunModel.
type TrainingRunMapper struct{}

// ToDomain converts a TrainingRunModel to a training.Run. A malformed ID
// maps to uuid.Nil.
func (m TrainingRunMapper) ToDomain(e TrainingRunModel) training.Run {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		id = uuid.Nil
	}
	return training.ReconstructRun(
		id,
		e.DataFile,
		training.Status(e.Status),
		e.TrainRows,
		e.TestRows,
		regression.Metrics{MSE: e.MSE, RMSE: e.RMSE, R2: e.R2},
		e.Error,
		e.StartedAt,
		e.FinishedAt,
	)
}

// ToModel converts a training.Run to a TrainingRunModel.
func (m TrainingRunMapper) ToModel(r training.Run) TrainingRunModel {
	metrics := r.Metrics()
	return TrainingRunModel{
		ID:         r.ID().String(),
		DataFile:   r.DataFile(),
		Status:     string(r.Status()),
		TrainRows:  r.TrainRows(),
		TestRows:   r.TestRows(),
		MSE:        metrics.MSE,
		RMSE:       metrics.RMSE,
		R2:         metrics.R2,
		Error:      r.Error(),
		StartedAt:  r.StartedAt(),
		FinishedAt: r.FinishedAt(),
	}
}
