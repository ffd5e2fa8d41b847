// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Default configuration values.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
	DefaultLogLevel       = "INFO"
	DefaultModelSubdir    = "models"
	DefaultModelFile      = "salary_predictor.json"
	DefaultSampleDataFile = "sample_data.json"
	DefaultDBFile         = "salary.db"
	DefaultForestTrees    = 100
	DefaultForestMaxDepth = 10
	DefaultForestSeed     = 42
	DefaultTrainWorkers   = 4
	DefaultRunsLimit      = 20
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// UnseenPolicy decides what happens to a category the encoders were not fit on.
type UnseenPolicy string

// UnseenPolicy values.
const (
	// UnseenFallback encodes unseen values as "Unknown".
	UnseenFallback UnseenPolicy = "fallback"
	// UnseenReject fails the prediction with a validation error.
	UnseenReject UnseenPolicy = "reject"
)

// ForestConfig holds random forest hyperparameters.
type ForestConfig struct {
	trees    int
	maxDepth int
	seed     uint64
	workers  int
}

// NewForestConfig creates a ForestConfig with defaults.
func NewForestConfig() ForestConfig {
	return ForestConfig{
		trees:    DefaultForestTrees,
		maxDepth: DefaultForestMaxDepth,
		seed:     DefaultForestSeed,
		workers:  DefaultTrainWorkers,
	}
}

// Trees returns the number of trees.
func (f ForestConfig) Trees() int { return f.trees }

// MaxDepth returns the maximum tree depth.
func (f ForestConfig) MaxDepth() int { return f.maxDepth }

// Seed returns the random seed used for bootstrapping and splitting.
func (f ForestConfig) Seed() uint64 { return f.seed }

// Workers returns how many trees are fit concurrently.
func (f ForestConfig) Workers() int { return f.workers }

// WithTrees returns a new config with the specified tree count.
func (f ForestConfig) WithTrees(n int) ForestConfig {
	if n > 0 {
		f.trees = n
	}
	return f
}

// WithMaxDepth returns a new config with the specified depth.
func (f ForestConfig) WithMaxDepth(n int) ForestConfig {
	if n > 0 {
		f.maxDepth = n
	}
	return f
}

// WithSeed returns a new config with the specified seed.
func (f ForestConfig) WithSeed(seed uint64) ForestConfig {
	f.seed = seed
	return f
}

// WithWorkers returns a new config with the specified worker count.
func (f ForestConfig) WithWorkers(n int) ForestConfig {
	if n > 0 {
		f.workers = n
	}
	return f
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host           string
	port           int
	dataDir        string
	dbURL          string
	logLevel       string
	logFormat      LogFormat
	apiKeys        []string
	sampleDataPath string
	modelPath      string
	datasetDir     string
	unseenPolicy   UnseenPolicy
	forest         ForestConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".salary"
	}
	return filepath.Join(home, ".salary")
}

// DefaultModelPath returns the default model artifact path for a data directory.
func DefaultModelPath(dataDir string) string {
	return filepath.Join(dataDir, DefaultModelSubdir, DefaultModelFile)
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:         DefaultHost,
		port:         DefaultPort,
		dataDir:      dataDir,
		dbURL:        "sqlite:///" + filepath.Join(dataDir, DefaultDBFile),
		logLevel:     DefaultLogLevel,
		logFormat:    LogFormatPretty,
		apiKeys:      []string{},
		unseenPolicy: UnseenFallback,
		forest:       NewForestConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// SampleDataPath returns the sample dataset path. Empty means the
// bundled dataset is used.
func (c AppConfig) SampleDataPath() string { return c.sampleDataPath }

// ModelPath returns where the trained model artifact lives.
func (c AppConfig) ModelPath() string {
	if c.modelPath != "" {
		return c.modelPath
	}
	return DefaultModelPath(c.dataDir)
}

// DatasetDir returns the directory relative training paths resolve against.
func (c AppConfig) DatasetDir() string { return c.datasetDir }

// UnseenPolicy returns the unseen-category policy.
func (c AppConfig) UnseenPolicy() UnseenPolicy { return c.unseenPolicy }

// Forest returns the forest hyperparameters.
func (c AppConfig) Forest() ForestConfig { return c.forest }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		// Keep the default database next to the data when it was not overridden.
		if c.dbURL == "" || strings.HasSuffix(c.dbURL, DefaultDBFile) {
			c.dbURL = "sqlite:///" + filepath.Join(dir, DefaultDBFile)
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithSampleDataPath sets the sample dataset path.
func WithSampleDataPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.sampleDataPath = path }
}

// WithModelPath sets the model artifact path.
func WithModelPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.modelPath = path }
}

// WithDatasetDir sets the base directory for training datasets.
func WithDatasetDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.datasetDir = dir }
}

// WithUnseenPolicy sets the unseen-category policy.
func WithUnseenPolicy(p UnseenPolicy) AppConfigOption {
	return func(c *AppConfig) { c.unseenPolicy = p }
}

// WithForestConfig sets the forest hyperparameters.
func WithForestConfig(f ForestConfig) AppConfigOption {
	return func(c *AppConfig) { c.forest = f }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// API keys are shown as a count.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("model_path", c.ModelPath()),
		slog.String("sample_data", c.sampleDataLabel()),
		slog.String("dataset_dir", c.datasetDir),
		slog.String("unseen_policy", string(c.unseenPolicy)),
		slog.Int("forest_trees", c.forest.trees),
		slog.Int("forest_max_depth", c.forest.maxDepth),
		slog.Int("api_keys_count", len(c.apiKeys)),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

func (c AppConfig) sampleDataLabel() string {
	if c.sampleDataPath == "" {
		return "(bundled)"
	}
	return c.sampleDataPath
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

// ParseUnseenPolicy parses an unseen-category policy name.
func ParseUnseenPolicy(s string) (UnseenPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(UnseenFallback):
		return UnseenFallback, nil
	case string(UnseenReject):
		return UnseenReject, nil
	default:
		return "", fmt.Errorf("unknown unseen category policy %q", s)
	}
}
