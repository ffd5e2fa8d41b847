package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/helixml/salary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(404, "resource not found", nil)

	assert.Equal(t, 404, err.Code())
	assert.Equal(t, "resource not found", err.Message())
	assert.Equal(t, "api error 404: resource not found", err.Error())
}

func TestAPIError_WithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewAPIError(500, "internal error", cause)

	assert.Equal(t, "api error 500: internal error: underlying error", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestAuthenticationError(t *testing.T) {
	err := NewAuthenticationError("invalid token")

	assert.Equal(t, "authentication failed: invalid token", err.Error())
	assert.ErrorIs(t, err, ErrAuthentication)

	wrapped := fmt.Errorf("request failed: %w", err)
	var target *AuthenticationError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "invalid token", target.Reason())
}

func writeError(t *testing.T, err error) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), err, nil)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body.Message
}

func TestWriteError_Classification(t *testing.T) {
	var v map[string]any
	syntaxErr := json.NewDecoder(strings.NewReader("{bad")).Decode(&v)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", domain.Validationf("Missing required fields: title"), 400, "Missing required fields: title"},
		{"wrapped validation", fmt.Errorf("handler: %w", domain.Validationf("bad")), 400, "handler: bad"},
		{"not found", domain.NotFoundf("Posting not found"), 404, "Posting not found"},
		{"internal", domain.Internal(errors.New("disk full"), "training failed"), 500, "training failed: disk full"},
		{"plain error", errors.New("boom"), 500, "boom"},
		{"json syntax", syntaxErr, 400, "Invalid JSON body"},
		{"empty body", emptyBodyErr(), 400, "Invalid JSON body"},
		{"api error", NewAPIError(http.StatusConflict, "busy", nil), 409, "busy"},
		{"auth", NewAuthenticationError("Invalid API key"), 401, "Invalid API key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := writeError(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func emptyBodyErr() error {
	var v any
	return json.NewDecoder(strings.NewReader("")).Decode(&v)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, w.Body.String())

	w = httptest.NewRecorder()
	MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"message":"Method not allowed"}`, w.Body.String())
}
