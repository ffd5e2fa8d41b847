package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/helixml/salary/application/service"
	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/domain/model"
	"github.com/helixml/salary/domain/regression"
	"github.com/helixml/salary/domain/sample"
	"github.com/helixml/salary/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeEstimator predicts a fixed salary, or fails when no artifact is set.
type fakeEstimator struct {
	salary   float64
	artifact *model.Artifact
}

func (f *fakeEstimator) Predict(p feature.Posting) (service.Prediction, error) {
	if f.artifact == nil {
		return service.Prediction{}, domain.Internal(model.ErrNotTrained, "prediction failed")
	}
	return service.NewPrediction(f.salary, p), nil
}

func (f *fakeEstimator) Model() (*model.Artifact, error) {
	if f.artifact == nil {
		return nil, domain.NotFoundf("No model loaded")
	}
	return f.artifact, nil
}

// sendMessage marshals a JSON-RPC request, sends it through HandleMessage,
// and returns the JSONRPCResponse.
func sendMessage(t *testing.T, srv *Server, method string, id int, params map[string]any) mcp.JSONRPCResponse {
	t.Helper()

	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	result := srv.MCPServer().HandleMessage(context.Background(), raw)

	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T: %+v", result, result)
	}
	return resp
}

// resultJSON re-marshals the Result field through JSON into dst.
func resultJSON(t *testing.T, resp mcp.JSONRPCResponse, dst any) {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("unmarshal result into %T: %v", dst, err)
	}
}

func textFromContent(t *testing.T, result mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	b, err := json.Marshal(result.Content[0])
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	var tc struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &tc); err != nil {
		t.Fatalf("unmarshal text content: %v", err)
	}
	return tc.Text
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) mcp.CallToolResult {
	t.Helper()
	resp := sendMessage(t, srv, "tools/call", 2, map[string]any{
		"name":      name,
		"arguments": args,
	})
	var result mcp.CallToolResult
	resultJSON(t, resp, &result)
	return result
}

func testArtifact(t *testing.T) *model.Artifact {
	t.Helper()
	postings := []feature.Posting{
		feature.NewPosting(5, feature.EducationBachelor, "London", "Engineer"),
		feature.NewPosting(1, feature.Unknown, "Leeds", "Analyst"),
	}
	enc, vectors := feature.FitEncoders(postings)
	x := make([][]float64, len(vectors))
	for i, v := range vectors {
		x[i] = v.Row()
	}
	params := regression.DefaultParams()
	params.Trees = 3
	forest, err := regression.NewForest(params)
	if err != nil {
		t.Fatalf("new forest: %v", err)
	}
	if err := forest.Fit(context.Background(), x, []float64{80000, 30000}, 1); err != nil {
		t.Fatalf("fit: %v", err)
	}
	a, err := model.NewArtifact(forest, enc, regression.Metrics{MSE: 4, RMSE: 2, R2: 0.5},
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), 2, 1)
	if err != nil {
		t.Fatalf("new artifact: %v", err)
	}
	return a
}

func testServer(estimator *fakeEstimator) *Server {
	lookup := service.NewLookup(sample.NewStore([]sample.Record{
		sample.NewRecord("cohere", "e3cb621a-75b8-467c-803c-4325fb0c1301", "Software Engineer", "$100,000"),
	}))
	return NewServer(lookup, estimator, "0.1.0-test", nil)
}

func initializeParams() map[string]any {
	return map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "0.0.1",
		},
	}
}

func TestServer_Initialize(t *testing.T) {
	srv := testServer(&fakeEstimator{})
	resp := sendMessage(t, srv, "initialize", 1, initializeParams())

	var result mcp.InitializeResult
	resultJSON(t, resp, &result)

	if result.ServerInfo.Name != "salary" {
		t.Errorf("expected server name salary, got %s", result.ServerInfo.Name)
	}
	if result.ServerInfo.Version != "0.1.0-test" {
		t.Errorf("expected version 0.1.0-test, got %s", result.ServerInfo.Version)
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability to be present")
	}
}

func TestServer_ListTools(t *testing.T) {
	srv := testServer(&fakeEstimator{})
	sendMessage(t, srv, "initialize", 1, initializeParams())

	resp := sendMessage(t, srv, "tools/list", 2, nil)

	var result mcp.ListToolsResult
	resultJSON(t, resp, &result)

	tools := map[string]mcp.Tool{}
	for _, tool := range result.Tools {
		tools[tool.Name] = tool
	}
	if len(tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools))
	}

	predict, ok := tools["predict_salary"]
	if !ok {
		t.Fatal("missing tool: predict_salary")
	}
	for _, param := range []string{"experience", "education", "location", "title"} {
		if _, ok := predict.InputSchema.Properties[param]; !ok {
			t.Errorf("predict_salary missing %s parameter", param)
		}
	}
	for _, name := range []string{"lookup_salary", "model_info"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing tool: %s", name)
		}
	}
}

func TestServer_LookupSalary(t *testing.T) {
	srv := testServer(&fakeEstimator{})

	result := callTool(t, srv, "lookup_salary", map[string]any{
		"board_name": "cohere",
		"postingid":  "e3cb621a-75b8-467c-803c-4325fb0c1301",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var body struct {
		Role   string `json:"role"`
		Salary string `json:"salary"`
	}
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &body); err != nil {
		t.Fatalf("unmarshal tool output: %v", err)
	}
	if body.Role != "Software Engineer" || body.Salary != "$100,000" {
		t.Errorf("unexpected lookup result: %+v", body)
	}
}

func TestServer_LookupSalary_NotFound(t *testing.T) {
	srv := testServer(&fakeEstimator{})

	result := callTool(t, srv, "lookup_salary", map[string]any{
		"board_name": "cohere",
		"postingid":  "missing",
	})
	if !result.IsError {
		t.Fatal("expected error response")
	}
	if text := textFromContent(t, result); text != "Posting not found" {
		t.Errorf("expected 'Posting not found', got %q", text)
	}
}

func TestServer_LookupSalary_MissingArgument(t *testing.T) {
	srv := testServer(&fakeEstimator{})

	result := callTool(t, srv, "lookup_salary", map[string]any{"board_name": "cohere"})
	if !result.IsError {
		t.Fatal("expected error response")
	}
	if text := textFromContent(t, result); text != "postingid is required" {
		t.Errorf("unexpected error text %q", text)
	}
}

func TestServer_PredictSalary(t *testing.T) {
	srv := testServer(&fakeEstimator{salary: 52340.75, artifact: testArtifact(t)})

	result := callTool(t, srv, "predict_salary", map[string]any{
		"experience": 5,
		"education":  "Bachelors",
		"location":   "London",
		"title":      "Engineer",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var body struct {
		PredictedSalary string  `json:"predicted_salary"`
		Value           float64 `json:"value"`
	}
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &body); err != nil {
		t.Fatalf("unmarshal tool output: %v", err)
	}
	if body.PredictedSalary != "$52,340.75" {
		t.Errorf("expected $52,340.75, got %s", body.PredictedSalary)
	}
	if body.Value != 52340.75 {
		t.Errorf("expected value 52340.75, got %v", body.Value)
	}
}

func TestServer_PredictSalary_Invalid(t *testing.T) {
	srv := testServer(&fakeEstimator{salary: 1, artifact: testArtifact(t)})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "negative experience",
			args: map[string]any{"experience": -1, "education": "PhD", "location": "Leeds", "title": "Analyst"},
			want: "experience must be a non-negative number",
		},
		{
			name: "missing title",
			args: map[string]any{"experience": 2, "education": "PhD", "location": "Leeds"},
			want: "title is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, srv, "predict_salary", tt.args)
			if !result.IsError {
				t.Fatal("expected error response")
			}
			if text := textFromContent(t, result); text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, text)
			}
		})
	}
}

func TestServer_PredictSalary_NotTrained(t *testing.T) {
	srv := testServer(&fakeEstimator{})

	result := callTool(t, srv, "predict_salary", map[string]any{
		"experience": 1, "education": "PhD", "location": "Leeds", "title": "Analyst",
	})
	if !result.IsError {
		t.Fatal("expected error response")
	}
	if text := textFromContent(t, result); !strings.HasPrefix(text, "prediction failed") {
		t.Errorf("unexpected error text %q", text)
	}
}

func TestServer_ModelInfo(t *testing.T) {
	t.Run("no model", func(t *testing.T) {
		result := callTool(t, testServer(&fakeEstimator{}), "model_info", map[string]any{})
		if !result.IsError {
			t.Fatal("expected error response")
		}
		if text := textFromContent(t, result); text != "No model loaded" {
			t.Errorf("expected 'No model loaded', got %q", text)
		}
	})

	t.Run("trained", func(t *testing.T) {
		result := callTool(t, testServer(&fakeEstimator{artifact: testArtifact(t)}), "model_info", map[string]any{})
		if result.IsError {
			t.Fatalf("expected success, got error: %s", textFromContent(t, result))
		}

		var body struct {
			Trees     int     `json:"trees"`
			TrainedAt string  `json:"trained_at"`
			TrainRows int     `json:"train_rows"`
			R2        float64 `json:"r2"`
		}
		if err := json.Unmarshal([]byte(textFromContent(t, result)), &body); err != nil {
			t.Fatalf("unmarshal tool output: %v", err)
		}
		if body.Trees != 3 || body.TrainRows != 2 || body.R2 != 0.5 {
			t.Errorf("unexpected model info: %+v", body)
		}
		if body.TrainedAt != "2026-01-02T03:04:05Z" {
			t.Errorf("unexpected trained_at %s", body.TrainedAt)
		}
	})
}

// Ensure fakes satisfy interfaces at compile time.
var (
	_ SalaryLookup    = (*service.Lookup)(nil)
	_ SalaryEstimator = (*fakeEstimator)(nil)
	_ SalaryEstimator = (*service.Estimator)(nil)
)
