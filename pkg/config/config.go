package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	xutil "CollegeROI/pkg/util"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Model accuracy constants fixed at training time.
const (
	DefaultModelRMSE     = 9247.17
	DefaultModelRSquared = 0.5706
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            bool          `yaml:"cors"`
	} `yaml:"server"`
	Log struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		Output    string `yaml:"output"`
		Collector struct {
			Enabled        bool          `yaml:"enabled"`
			Topic          string        `yaml:"topic"`
			Interval       time.Duration `yaml:"interval"`
			CountThreshold int           `yaml:"count_threshold"`
		} `yaml:"collector"`
	} `yaml:"log"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled"`
		Path          string        `yaml:"path"`
		SlowThreshold time.Duration `yaml:"slow_threshold"`
	} `yaml:"metrics"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled"`
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"rate_limit"`
	ROI struct {
		AnnualRate    float64 `yaml:"annual_rate"`
		LoanYears     int     `yaml:"loan_years"`
		HorizonYears  int     `yaml:"horizon_years"`
		ModelRMSE     float64 `yaml:"model_rmse"`
		ModelRSquared float64 `yaml:"model_r_squared"`
	} `yaml:"roi"`
	Costs struct {
		Path        string `yaml:"path"`
		NameColumn  string `yaml:"name_column"`
		PriceColumn string `yaml:"price_column"`
	} `yaml:"costs"`
	Estimator struct {
		Backend    string        `yaml:"backend"` // http | artifact
		ServiceURL string        `yaml:"service_url"`
		ModelPath  string        `yaml:"model_path"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"estimator"`
	Cache struct {
		Type          string        `yaml:"type"` // none | memory | redis | layered
		TTL           time.Duration `yaml:"ttl"`
		MemoryMaxSize int           `yaml:"memory_max_size"`
		Redis         struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			Prefix       string        `yaml:"prefix"`
			PoolSize     int           `yaml:"pool_size"`
			MinIdleConns int           `yaml:"min_idle_conns"`
			PoolTimeout  time.Duration `yaml:"pool_timeout"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Narrative struct {
		Enabled         bool          `yaml:"enabled"`
		Provider        string        `yaml:"provider"` // template | gemini | openai
		Model           string        `yaml:"model"`
		APIKey          string        `yaml:"api_key"`
		APIURL          string        `yaml:"api_url"`
		MaxTokens       int           `yaml:"max_tokens"`
		Timeout         time.Duration `yaml:"timeout"`
		FallbackOnError bool          `yaml:"fallback_on_error"`
		CacheTTL        time.Duration `yaml:"cache_ttl"`
	} `yaml:"narrative"`
	Recorder struct {
		Backend string        `yaml:"backend"` // none | clickhouse | kafka | sqlite | postgres
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"recorder"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		Table            string        `yaml:"table"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Postgres struct {
		URL      string `yaml:"url"`
		MaxConns int32  `yaml:"max_conns"`
	} `yaml:"postgres"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.ApplyDefaults()
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is read first when present.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ROI_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = xutil.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("MODEL_SERVICE_URL"); v != "" {
		c.Estimator.ServiceURL = v
	}
	if v := os.Getenv("COST_DATASET_PATH"); v != "" {
		c.Costs.Path = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Narrative.Provider == "gemini" {
		c.Narrative.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Narrative.Provider == "openai" {
		c.Narrative.APIKey = v
	}
	if v := os.Getenv("RECORDER_BACKEND"); v != "" {
		c.Recorder.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Host = host
		if ok {
			c.Cache.Redis.Port = xutil.ParseIntDefault(port, c.Cache.Redis.Port)
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.URL = v
	}
}

// ApplyDefaults fills zero-valued settings.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Log.Collector.Interval == 0 {
		c.Log.Collector.Interval = 30 * time.Second
	}
	if c.Log.Collector.CountThreshold == 0 {
		c.Log.Collector.CountThreshold = 100
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 10
	}
	if c.RateLimit.RefillPerSec == 0 {
		c.RateLimit.RefillPerSec = 2
	}
	if c.ROI.AnnualRate == 0 {
		c.ROI.AnnualRate = 0.105
	}
	if c.ROI.LoanYears == 0 {
		c.ROI.LoanYears = 10
	}
	if c.ROI.HorizonYears == 0 {
		c.ROI.HorizonYears = 10
	}
	if c.ROI.ModelRMSE == 0 {
		c.ROI.ModelRMSE = DefaultModelRMSE
	}
	if c.ROI.ModelRSquared == 0 {
		c.ROI.ModelRSquared = DefaultModelRSquared
	}
	if c.Costs.NameColumn == "" {
		c.Costs.NameColumn = "INSTNM"
	}
	if c.Costs.PriceColumn == "" {
		c.Costs.PriceColumn = "COMBINED_NET_PRICE"
	}
	if c.Estimator.Backend == "" {
		c.Estimator.Backend = "http"
	}
	if c.Estimator.Timeout == 0 {
		c.Estimator.Timeout = 5 * time.Second
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "none"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Cache.MemoryMaxSize == 0 {
		c.Cache.MemoryMaxSize = 1000
	}
	if c.Cache.Redis.Host == "" {
		c.Cache.Redis.Host = "localhost"
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "collegeroi"
	}
	if c.Cache.Redis.PoolSize == 0 {
		c.Cache.Redis.PoolSize = 10
	}
	if c.Cache.Redis.MinIdleConns == 0 {
		c.Cache.Redis.MinIdleConns = 2
	}
	if c.Cache.Redis.PoolTimeout == 0 {
		c.Cache.Redis.PoolTimeout = 30 * time.Second
	}
	if c.Narrative.Provider == "" {
		c.Narrative.Provider = "template"
	}
	if c.Narrative.MaxTokens == 0 {
		c.Narrative.MaxTokens = 400
	}
	if c.Narrative.Timeout == 0 {
		c.Narrative.Timeout = 30 * time.Second
	}
	if c.Narrative.CacheTTL == 0 {
		c.Narrative.CacheTTL = 10 * time.Minute
	}
	if c.Recorder.Backend == "" {
		c.Recorder.Backend = "none"
	}
	if c.Recorder.Timeout == 0 {
		c.Recorder.Timeout = 2 * time.Second
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "roi.predictions"
	}
	if c.ClickHouse.Database == "" {
		c.ClickHouse.Database = "collegeroi"
	}
	if c.ClickHouse.Table == "" {
		c.ClickHouse.Table = "roi_predictions"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "data/predictions.db"
	}
	if c.Postgres.MaxConns == 0 {
		c.Postgres.MaxConns = 5
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Estimator.Backend {
	case "http":
		if c.Estimator.ServiceURL == "" {
			return fmt.Errorf("estimator.service_url is required for the http backend")
		}
	case "artifact":
		if c.Estimator.ModelPath == "" {
			return fmt.Errorf("estimator.model_path is required for the artifact backend")
		}
	default:
		return fmt.Errorf("estimator.backend must be 'http' or 'artifact', got '%s'", c.Estimator.Backend)
	}
	if c.Costs.Path == "" {
		return fmt.Errorf("costs.path is required")
	}
	switch c.Cache.Type {
	case "none", "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.type must be one of none, memory, redis, layered, got '%s'", c.Cache.Type)
	}
	switch c.Narrative.Provider {
	case "template", "gemini", "openai":
	default:
		return fmt.Errorf("narrative.provider must be one of template, gemini, openai, got '%s'", c.Narrative.Provider)
	}
	switch c.Recorder.Backend {
	case "none", "clickhouse", "sqlite", "postgres":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty for the kafka recorder")
		}
	default:
		return fmt.Errorf("recorder.backend must be one of none, clickhouse, kafka, sqlite, postgres, got '%s'", c.Recorder.Backend)
	}
	if c.Log.Collector.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("log.collector requires kafka.brokers")
	}
	if c.ROI.AnnualRate < 0 {
		return fmt.Errorf("roi.annual_rate cannot be negative")
	}
	if c.ROI.LoanYears <= 0 || c.ROI.HorizonYears <= 0 {
		return fmt.Errorf("roi.loan_years and roi.horizon_years must be positive")
	}
	return nil
}
