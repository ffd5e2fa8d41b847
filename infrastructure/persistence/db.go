// Package persistence provides database and file storage implementations.
package persistence

import (
	"context"
	"time"

	"github.com/helixml/salary/internal/database"
)

// TrainingRunModel is the database row for a training run.
type TrainingRunModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	DataFile   string    `gorm:"not null"`
	Status     string    `gorm:"size:16;index"`
	TrainRows  int
	TestRows   int
	MSE        float64
	RMSE       float64
	R2         float64
	Error      string
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time
}

// TableName returns the table name for TrainingRunModel.
func (TrainingRunModel) TableName() string { return "training_runs" }

// AutoMigrate creates or updates every table the service uses.
func AutoMigrate(ctx context.Context, db database.Database) error {
	return db.Session(ctx).AutoMigrate(&TrainingRunModel{})
}
