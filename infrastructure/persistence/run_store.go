package persistence

import (
	"github.com/helixml/salary/domain/training"
	"github.com/helixml/salary/internal/database"
)

// RunStore implements training.RunStore using GORM.
type RunStore struct {
	database.Repository[training.Run, TrainingRunModel]
}

// NewRunStore creates a new RunStore.
func NewRunStore(db database.Database) RunStore {
	return RunStore{
		Repository: database.NewRepository[training.Run, TrainingRunModel](db, TrainingRunMapper{}, "training run"),
	}
}

var _ training.RunStore = RunStore{}
