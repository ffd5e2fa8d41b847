// Package dto defines the JSON bodies of the v1 HTTP API.
package dto

import "time"

// LookupResponse is the static lookup result.
type LookupResponse struct {
	Role   string `json:"role"`
	Salary string `json:"salary"`
}

// Features are the posting attributes a prediction was made from.
type Features struct {
	Experience float64 `json:"experience"`
	Education  string  `json:"education"`
	Location   string  `json:"location"`
	Title      string  `json:"title"`
}

// PredictResponse is the trained-model estimate for a posting.
type PredictResponse struct {
	BoardName       string   `json:"board_name"`
	PostingID       string   `json:"postingid"`
	PredictedSalary string   `json:"predicted_salary"`
	Features        Features `json:"features"`
}

// TrainRequest names the dataset to train on.
type TrainRequest struct {
	DataFile string `json:"data_file"`
}

// Metrics are held-out evaluation scores.
type Metrics struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// TrainResponse reports a successful training run.
type TrainResponse struct {
	Message   string  `json:"message"`
	Metrics   Metrics `json:"metrics"`
	RunID     string  `json:"run_id"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
}

// TrainingRun is one entry of the training history.
type TrainingRun struct {
	ID         string    `json:"id"`
	DataFile   string    `json:"data_file"`
	Status     string    `json:"status"`
	TrainRows  int       `json:"train_rows"`
	TestRows   int       `json:"test_rows"`
	Metrics    *Metrics  `json:"metrics,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
}

// TrainingRunsResponse lists training runs, newest first.
type TrainingRunsResponse struct {
	Data []TrainingRun `json:"data"`
}

// Hyperparameters of the loaded forest.
type Hyperparameters struct {
	Trees           int    `json:"n_estimators"`
	MaxDepth        int    `json:"max_depth"`
	MinSamplesSplit int    `json:"min_samples_split"`
	MinSamplesLeaf  int    `json:"min_samples_leaf"`
	Seed            uint64 `json:"random_state"`
}

// Vocabulary sizes per categorical column, including Unknown.
type Vocabulary struct {
	Education int `json:"education"`
	Location  int `json:"location"`
	Title     int `json:"title"`
}

// ModelResponse summarises the model serving predictions.
type ModelResponse struct {
	TrainedAt       time.Time       `json:"trained_at"`
	Hyperparameters Hyperparameters `json:"hyperparameters"`
	Vocabulary      Vocabulary      `json:"vocabulary"`
	Metrics         Metrics         `json:"metrics"`
	TrainRows       int             `json:"train_rows"`
	TestRows        int             `json:"test_rows"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status        string `json:"status"`
	ModelLoaded   bool   `json:"model_loaded"`
	SampleRecords int    `json:"sample_records"`
}

// InfoResponse describes the service at the root path.
type InfoResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}
