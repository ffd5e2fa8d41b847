// Package salary provides a library for estimating job posting salaries.
//
// Two estimators coexist: a static lookup against a bundled sample dataset
// keyed by board and posting ID, and a random forest trained from a CSV or
// ZIP dataset of job descriptions.
//
// Basic usage:
//
//	client, err := salary.New(salary.WithDataDir(".salary"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	run, err := client.Estimator.Train(ctx, "postings.csv")
//	pred, err := client.Estimator.Predict(feature.NewPosting(5, "PhD", "London", "Data Scientist"))
package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/helixml/salary/application/service"
	"github.com/helixml/salary/domain/feature"
	"github.com/helixml/salary/domain/sample"
	"github.com/helixml/salary/infrastructure/dataset"
	"github.com/helixml/salary/infrastructure/persistence"
	"github.com/helixml/salary/infrastructure/sampledata"
	"github.com/helixml/salary/internal/config"
	"github.com/helixml/salary/internal/database"
)

// Client is the main entry point for the salary library.
//
// Access services via struct fields:
//
//	client.Lookup.Find("cohere", "e3cb621a-...")
//	client.Estimator.Predict(posting)
type Client struct {
	Lookup    *service.Lookup
	Estimator *service.Estimator

	db      database.Database
	cfg     config.AppConfig
	logger  *slog.Logger
	closed  atomic.Bool
	closeMu sync.Mutex
}

// New creates a new Client with the given options. A previously trained
// model is loaded if one exists at the configured path.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	app := cfg.app

	if _, err := config.PrepareDataDir(app.DataDir()); err != nil {
		return nil, err
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, app.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := persistence.AutoMigrate(ctx, db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	var store sample.Store
	if cfg.store != nil {
		store = *cfg.store
	} else {
		store = sampledata.Load(app.SampleDataPath(), logger)
	}

	estimator := service.NewEstimator(
		persistence.NewArtifactStore(app.ModelPath()),
		dataset.NewLoader(logger),
		dataset.NewResolver(app.DatasetDir()),
		persistence.NewRunStore(db),
		app.Forest(),
		logger,
		service.WithUnseenPolicy(unseenPolicy(app.UnseenPolicy())),
	)
	if err := estimator.Restore(ctx); err != nil {
		logger.Warn("ignoring unreadable model, retrain to replace it",
			slog.String("path", app.ModelPath()), slog.Any("error", err))
	}

	return &Client{
		Lookup:    service.NewLookup(store),
		Estimator: estimator,
		db:        db,
		cfg:       app,
		logger:    logger,
	}, nil
}

func unseenPolicy(p config.UnseenPolicy) feature.UnseenPolicy {
	if p == config.UnseenReject {
		return feature.RejectUnseen
	}
	return feature.FallbackToUnknown
}

// Close releases the database connection.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return service.ErrClientClosed
	}

	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("salary client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Config returns the configuration the client was built with.
func (c *Client) Config() config.AppConfig {
	return c.cfg
}

// APIKeys returns the keys accepted by write-protected endpoints.
func (c *Client) APIKeys() []string {
	return c.cfg.APIKeys()
}
