package v1

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/salary"
	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/infrastructure/api/middleware"
	"github.com/helixml/salary/infrastructure/api/v1/dto"
	"github.com/helixml/salary/internal/currency"
	"github.com/helixml/salary/internal/domain"
)

// requiredPostingFields lists the prediction body fields in report order.
var requiredPostingFields = []string{"experience", "education", "location", "title"}

// PredictRouter handles salary lookup and prediction endpoints.
type PredictRouter struct {
	client *salary.Client
	logger *slog.Logger
}

// NewPredictRouter creates a new PredictRouter.
func NewPredictRouter(client *salary.Client) *PredictRouter {
	return &PredictRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for /predict/salary.
func (r *PredictRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{board_name}/{postingid}", r.Lookup)
	router.Post("/{board_name}/{postingid}", r.Predict)

	return router
}

// Lookup handles GET /predict/salary/{board_name}/{postingid}.
//
//	@Summary		Look up a recorded salary
//	@Tags			salary
//	@Produce		json
//	@Param			board_name	path		string	true	"Job board"
//	@Param			postingid	path		string	true	"Posting ID"
//	@Success		200			{object}	dto.LookupResponse
//	@Failure		404			{object}	middleware.ErrorResponse
//	@Router			/predict/salary/{board_name}/{postingid} [get]
func (r *PredictRouter) Lookup(w http.ResponseWriter, req *http.Request) {
	record, err := r.client.Lookup.Find(chi.URLParam(req, "board_name"), chi.URLParam(req, "postingid"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.LookupResponse{
		Role:   record.Role(),
		Salary: record.Salary(),
	})
}

// Predict handles POST /predict/salary/{board_name}/{postingid}.
//
//	@Summary		Estimate a salary with the trained model
//	@Tags			salary
//	@Accept			json
//	@Produce		json
//	@Param			board_name	path		string			true	"Job board"
//	@Param			postingid	path		string			true	"Posting ID"
//	@Param			body		body		dto.Features	true	"Posting features"
//	@Success		200			{object}	dto.PredictResponse
//	@Failure		400			{object}	middleware.ErrorResponse
//	@Failure		500			{object}	middleware.ErrorResponse
//	@Router			/predict/salary/{board_name}/{postingid} [post]
func (r *PredictRouter) Predict(w http.ResponseWriter, req *http.Request) {
	posting, err := decodePosting(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	prediction, err := r.client.Estimator.Predict(posting)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	p := prediction.Posting()
	middleware.WriteJSON(w, http.StatusOK, dto.PredictResponse{
		BoardName:       chi.URLParam(req, "board_name"),
		PostingID:       chi.URLParam(req, "postingid"),
		PredictedSalary: currency.Format(prediction.Salary()),
		Features: dto.Features{
			Experience: p.Experience(),
			Education:  p.Education(),
			Location:   p.Location(),
			Title:      p.Title(),
		},
	})
}

// decodePosting reads a prediction body. Absent and null fields are both
// reported as missing.
func decodePosting(req *http.Request) (feature.Posting, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return feature.Posting{}, err
	}

	var missing []string
	for _, name := range requiredPostingFields {
		raw, ok := body[name]
		if !ok || string(raw) == "null" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return feature.Posting{}, domain.Validationf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	var experience float64
	if err := json.Unmarshal(body["experience"], &experience); err != nil ||
		experience < 0 || math.IsInf(experience, 0) {
		return feature.Posting{}, domain.Validationf("experience must be a non-negative number")
	}

	text := make(map[string]string, 3)
	for _, name := range requiredPostingFields[1:] {
		var s string
		if err := json.Unmarshal(body[name], &s); err != nil {
			return feature.Posting{}, domain.Validationf("%s must be a string", name)
		}
		text[name] = s
	}

	return feature.NewPosting(experience, text["education"], text["location"], text["title"]), nil
}
