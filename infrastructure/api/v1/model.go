package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/salary"
	"github.com/helixml/salary/infrastructure/api/middleware"
	"github.com/helixml/salary/infrastructure/api/v1/dto"
)

// ModelRouter describes the model currently serving predictions.
type ModelRouter struct {
	client *salary.Client
	logger *slog.Logger
}

// NewModelRouter creates a new ModelRouter.
func NewModelRouter(client *salary.Client) *ModelRouter {
	return &ModelRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for /model.
func (r *ModelRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.Get)
	return router
}

// Get handles GET /model.
//
//	@Summary		Describe the loaded model
//	@Tags			model
//	@Produce		json
//	@Success		200	{object}	dto.ModelResponse
//	@Failure		404	{object}	middleware.ErrorResponse
//	@Router			/model [get]
func (r *ModelRouter) Get(w http.ResponseWriter, req *http.Request) {
	a, err := r.client.Estimator.Model()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	params := a.Forest().Params()
	enc := a.Encoders()
	middleware.WriteJSON(w, http.StatusOK, dto.ModelResponse{
		TrainedAt: a.TrainedAt(),
		Hyperparameters: dto.Hyperparameters{
			Trees:           params.Trees,
			MaxDepth:        params.MaxDepth,
			MinSamplesSplit: params.MinSamplesSplit,
			MinSamplesLeaf:  params.MinSamplesLeaf,
			Seed:            params.Seed,
		},
		Vocabulary: dto.Vocabulary{
			Education: enc.Education().Size(),
			Location:  enc.Location().Size(),
			Title:     enc.Title().Size(),
		},
		Metrics:   metricsDTO(a.Metrics()),
		TrainRows: a.TrainRows(),
		TestRows:  a.TestRows(),
	})
}
