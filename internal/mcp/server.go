// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/helixml/salary/application/service"
	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/domain/model"
	"github.com/helixml/salary/domain/sample"
	"github.com/helixml/salary/internal/currency"
	"github.com/helixml/salary/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SalaryLookup finds recorded salaries for postings.
type SalaryLookup interface {
	Find(boardName, postingID string) (sample.Record, error)
}

// SalaryEstimator predicts salaries with the trained model.
type SalaryEstimator interface {
	Predict(p feature.Posting) (service.Prediction, error)
	Model() (*model.Artifact, error)
}

// Server wraps the MCP server with salary tools.
type Server struct {
	mcpServer *server.MCPServer
	lookup    SalaryLookup
	estimator SalaryEstimator
	version   string
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(lookup SalaryLookup, estimator SalaryEstimator, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{
		lookup:    lookup,
		estimator: estimator,
		version:   version,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"salary",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	lookupTool := mcp.NewTool("lookup_salary",
		mcp.WithDescription("Look up the recorded salary for a job posting"),
		mcp.WithString("board_name",
			mcp.Required(),
			mcp.Description("Job board the posting was published on"),
		),
		mcp.WithString("postingid",
			mcp.Required(),
			mcp.Description("Posting identifier on the job board"),
		),
	)
	mcpServer.AddTool(lookupTool, s.handleLookup)

	predictTool := mcp.NewTool("predict_salary",
		mcp.WithDescription("Estimate a salary from posting features using the trained model"),
		mcp.WithNumber("experience",
			mcp.Required(),
			mcp.Description("Years of experience required"),
		),
		mcp.WithString("education",
			mcp.Required(),
			mcp.Description("Education level, e.g. Bachelors"),
		),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("Normalized job location"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Job title"),
		),
	)
	mcpServer.AddTool(predictTool, s.handlePredict)

	modelTool := mcp.NewTool("model_info",
		mcp.WithDescription("Describe the model currently serving predictions"),
	)
	mcpServer.AddTool(modelTool, s.handleModelInfo)
}

func (s *Server) handleLookup(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	board, err := request.RequireString("board_name")
	if err != nil {
		return mcp.NewToolResultError("board_name is required"), nil
	}
	posting, err := request.RequireString("postingid")
	if err != nil {
		return mcp.NewToolResultError("postingid is required"), nil
	}

	record, err := s.lookup.Find(board, posting)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(struct {
		Role   string `json:"role"`
		Salary string `json:"salary"`
	}{record.Role(), record.Salary()})
}

func (s *Server) handlePredict(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	experience, err := request.RequireFloat("experience")
	if err != nil || experience < 0 {
		return mcp.NewToolResultError("experience must be a non-negative number"), nil
	}
	text := make(map[string]string, 3)
	for _, name := range []string{"education", "location", "title"} {
		v, err := request.RequireString(name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s is required", name)), nil
		}
		text[name] = v
	}

	prediction, err := s.estimator.Predict(feature.NewPosting(experience, text["education"], text["location"], text["title"]))
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.logger.Error("mcp prediction failed", slog.Any("error", err))
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(struct {
		PredictedSalary string  `json:"predicted_salary"`
		Value           float64 `json:"value"`
	}{currency.Format(prediction.Salary()), prediction.Salary()})
}

func (s *Server) handleModelInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := s.estimator.Model()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	m := a.Metrics()
	return jsonResult(struct {
		Trees     int     `json:"trees"`
		TrainedAt string  `json:"trained_at"`
		TrainRows int     `json:"train_rows"`
		TestRows  int     `json:"test_rows"`
		MSE       float64 `json:"mse"`
		RMSE      float64 `json:"rmse"`
		R2        float64 `json:"r2"`
	}{
		Trees:     a.Forest().Params().Trees,
		TrainedAt: a.TrainedAt().UTC().Format(time.RFC3339),
		TrainRows: a.TrainRows(),
		TestRows:  a.TestRows(),
		MSE:       m.MSE,
		RMSE:      m.RMSE,
		R2:        m.R2,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Version returns the version advertised to clients.
func (s *Server) Version() string {
	return s.version
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
