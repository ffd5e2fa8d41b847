package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/salary"
	"github.com/helixml/salary/domain/regression"
	"github.com/helixml/salary/domain/training"
	"github.com/helixml/salary/infrastructure/api/middleware"
	"github.com/helixml/salary/infrastructure/api/v1/dto"
	"github.com/helixml/salary/internal/domain"
)

// TrainRouter handles model training endpoints.
type TrainRouter struct {
	client *salary.Client
	logger *slog.Logger
}

// NewTrainRouter creates a new TrainRouter.
func NewTrainRouter(client *salary.Client) *TrainRouter {
	return &TrainRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for /train.
func (r *TrainRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Train)
	router.Get("/runs", r.ListRuns)

	return router
}

// Train handles POST /train.
//
//	@Summary		Train the salary model
//	@Description	Loads the dataset, fits the forest, evaluates it on a held-out split and replaces the served model
//	@Tags			model
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.TrainRequest	true	"Dataset to train on"
//	@Success		200		{object}	dto.TrainResponse
//	@Failure		400		{object}	middleware.ErrorResponse
//	@Failure		401		{object}	middleware.ErrorResponse
//	@Failure		500		{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/train [post]
func (r *TrainRouter) Train(w http.ResponseWriter, req *http.Request) {
	var body dto.TrainRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if strings.TrimSpace(body.DataFile) == "" {
		middleware.WriteError(w, req, domain.Validationf("Missing required field: data_file"), r.logger)
		return
	}

	run, err := r.client.Estimator.Train(req.Context(), body.DataFile)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.TrainResponse{
		Message:   "Model trained successfully",
		Metrics:   metricsDTO(run.Metrics()),
		RunID:     run.ID().String(),
		TrainRows: run.TrainRows(),
		TestRows:  run.TestRows(),
	})
}

// ListRuns handles GET /train/runs.
//
//	@Summary		List training runs
//	@Tags			model
//	@Produce		json
//	@Param			page		query		int	false	"Page number (default: 1)"
//	@Param			page_size	query		int	false	"Results per page (default: 20, max: 100)"
//	@Param			limit		query		int	false	"Alias for page_size"
//	@Success		200			{object}	dto.TrainingRunsResponse
//	@Router			/train/runs [get]
func (r *TrainRouter) ListRuns(w http.ResponseWriter, req *http.Request) {
	page := ParsePagination(req)

	runs, err := r.client.Estimator.Runs(req.Context(), page.Limit(), page.Offset())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.TrainingRun, 0, len(runs))
	for _, run := range runs {
		data = append(data, runDTO(run))
	}
	middleware.WriteJSON(w, http.StatusOK, dto.TrainingRunsResponse{Data: data})
}

func metricsDTO(m regression.Metrics) dto.Metrics {
	return dto.Metrics{MSE: m.MSE, RMSE: m.RMSE, R2: m.R2}
}

func runDTO(run training.Run) dto.TrainingRun {
	out := dto.TrainingRun{
		ID:         run.ID().String(),
		DataFile:   run.DataFile(),
		Status:     string(run.Status()),
		TrainRows:  run.TrainRows(),
		TestRows:   run.TestRows(),
		Error:      run.Error(),
		StartedAt:  run.StartedAt(),
		FinishedAt: run.FinishedAt(),
		DurationMS: run.Duration().Milliseconds(),
	}
	if run.Status() == training.StatusSucceeded {
		m := metricsDTO(run.Metrics())
		out.Metrics = &m
	}
	return out
}
