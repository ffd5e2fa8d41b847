package v1

import (
	"net/http"

	"github.com/helixml/salary"
	"github.com/helixml/salary/infrastructure/api/middleware"
	"github.com/helixml/salary/infrastructure/api/v1/dto"
)

// Health handles GET /health and GET /healthz.
//
//	@Summary		Liveness check
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	dto.HealthResponse
//	@Router			/health [get]
func Health(client *salary.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, dto.HealthResponse{
			Status:        "ok",
			ModelLoaded:   client.Estimator.Trained(),
			SampleRecords: client.Lookup.Len(),
		})
	}
}

// Info handles GET / with a short description of the service.
func Info(version string) http.HandlerFunc {
	body := dto.InfoResponse{
		Name:    "salary",
		Version: version,
		Endpoints: []string{
			"GET /predict/salary/{board_name}/{postingid}",
			"POST /predict/salary/{board_name}/{postingid}",
			"POST /train",
			"GET /train/runs",
			"GET /model",
			"GET /health",
			"GET /docs",
			"/mcp",
		},
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, body)
	}
}
