package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.salary
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL for training history.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/salary.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of keys allowed to train.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// SampleDataPath points at a JSON or YAML sample dataset.
	// Env: SAMPLE_DATA_PATH (default: bundled dataset)
	SampleDataPath string `envconfig:"SAMPLE_DATA_PATH"`

	// ModelPath is the trained model artifact location.
	// Env: MODEL_PATH
	// Default: {data_dir}/models/salary_predictor.json
	ModelPath string `envconfig:"MODEL_PATH"`

	// DatasetDir is where relative training paths are looked up.
	// Env: DATASET_DIR
	DatasetDir string `envconfig:"DATASET_DIR"`

	// UnseenCategoryPolicy is fallback or reject.
	// Env: UNSEEN_CATEGORY_POLICY (default: fallback)
	UnseenCategoryPolicy string `envconfig:"UNSEEN_CATEGORY_POLICY" default:"fallback"`

	// Forest configures the regressor.
	Forest ForestEnv `envconfig:"FOREST"`

	// TrainWorkers is the number of trees fit concurrently.
	// Env: TRAIN_WORKERS (default: 4)
	TrainWorkers int `envconfig:"TRAIN_WORKERS" default:"4"`
}

// ForestEnv holds environment configuration for the random forest.
type ForestEnv struct {
	// Trees is the number of trees.
	// Env: FOREST_TREES (default: 100)
	Trees int `envconfig:"TREES" default:"100"`

	// MaxDepth is the maximum depth of each tree.
	// Env: FOREST_MAX_DEPTH (default: 10)
	MaxDepth int `envconfig:"MAX_DEPTH" default:"10"`

	// Seed seeds bootstrapping and the train/test split.
	// Env: FOREST_SEED (default: 42)
	Seed uint64 `envconfig:"SEED" default:"42"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "SALARY" would require SALARY_DATA_DIR instead of DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = applyOption(cfg, WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	if e.SampleDataPath != "" {
		cfg = applyOption(cfg, WithSampleDataPath(e.SampleDataPath))
	}
	if e.ModelPath != "" {
		cfg = applyOption(cfg, WithModelPath(e.ModelPath))
	}
	if e.DatasetDir != "" {
		cfg = applyOption(cfg, WithDatasetDir(e.DatasetDir))
	}

	policy, err := ParseUnseenPolicy(e.UnseenCategoryPolicy)
	if err != nil {
		return AppConfig{}, err
	}
	cfg = applyOption(cfg, WithUnseenPolicy(policy))

	forest := NewForestConfig().
		WithTrees(e.Forest.Trees).
		WithMaxDepth(e.Forest.MaxDepth).
		WithSeed(e.Forest.Seed).
		WithWorkers(e.TrainWorkers)
	cfg = applyOption(cfg, WithForestConfig(forest))

	return cfg, nil
}

func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
