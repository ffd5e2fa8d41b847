package salary

import (
	"log/slog"
	"path/filepath"

	"github.com/helixml/salary/domain/sample"
	"github.com/helixml/salary/internal/config"
)

type clientConfig struct {
	app    config.AppConfig
	logger *slog.Logger
	store  *sample.Store
}

func newClientConfig() *clientConfig {
	return &clientConfig{app: config.NewAppConfig()}
}

// Option configures the client.
type Option func(*clientConfig)

// WithConfig replaces the whole application configuration. Options applied
// after it still take effect.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.app = cfg
	}
}

// WithSQLite stores training history in a SQLite database at path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL("sqlite:///" + filepath.Clean(path)))
	}
}

// WithPostgres stores training history in PostgreSQL.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL(dsn))
	}
}

// WithDataDir sets the data directory. The default database and model paths
// live under it.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDataDir(dir))
	}
}

// WithModelPath sets where the trained model is saved and loaded.
func WithModelPath(path string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithModelPath(path))
	}
}

// WithSampleDataPath sets the sample dataset file for static lookups.
func WithSampleDataPath(path string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithSampleDataPath(path))
	}
}

// WithSampleStore uses records directly instead of loading a file.
func WithSampleStore(store sample.Store) Option {
	return func(c *clientConfig) {
		c.store = &store
	}
}

// WithDatasetDir restricts relative training paths to dir.
func WithDatasetDir(dir string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDatasetDir(dir))
	}
}

// WithUnseenPolicy sets how categories unseen at training time are handled.
func WithUnseenPolicy(p config.UnseenPolicy) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithUnseenPolicy(p))
	}
}

// WithForest sets the forest hyperparameters.
func WithForest(f config.ForestConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithForestConfig(f))
	}
}

// WithAPIKeys sets the keys accepted by write-protected endpoints.
func WithAPIKeys(keys ...string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithAPIKeys(keys))
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
