package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Training  TrainingConfig  `mapstructure:"training"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	External  ExternalConfig  `mapstructure:"external"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	StreamName string `mapstructure:"stream_name"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ScoringConfig tunes the local risk model
type ScoringConfig struct {
	// Score above this (0-100) is classified as a scam
	ScamThreshold float64 `mapstructure:"scam_threshold"`
	// Predictions above this confidence are auto-labeled as training examples
	AutoLabelConfidence float64 `mapstructure:"auto_label_confidence"`
}

// TrainingConfig tunes the weight adaptation procedure
type TrainingConfig struct {
	BatchThreshold int     `mapstructure:"batch_threshold"`
	WindowSize     int     `mapstructure:"window_size"`
	LearningRate   float64 `mapstructure:"learning_rate"`
}

// AlertsConfig tunes the trend alert monitor
type AlertsConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	ActiveWindow  time.Duration `mapstructure:"active_window"`
	RecencyWindow time.Duration `mapstructure:"recency_window"`
	MaxRetained   int           `mapstructure:"max_retained"`
}

// ExternalConfig configures the external classifier integration
type ExternalConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
	// Weight given to the external score when blending; local gets 1-weight
	BlendWeight float64 `mapstructure:"blend_weight"`
}

// SnapshotConfig tunes the write-behind persistence of weights and trends
type SnapshotConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/fraudlens")
	}

	v.SetEnvPrefix("FRAUDLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("database.enabled", "FRAUDLENS_DATABASE_ENABLED")
	v.BindEnv("database.host", "FRAUDLENS_DATABASE_HOST")
	v.BindEnv("database.port", "FRAUDLENS_DATABASE_PORT")
	v.BindEnv("database.user", "FRAUDLENS_DATABASE_USER")
	v.BindEnv("database.password", "FRAUDLENS_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "FRAUDLENS_DATABASE_DBNAME")
	v.BindEnv("redis.enabled", "FRAUDLENS_REDIS_ENABLED")
	v.BindEnv("redis.host", "FRAUDLENS_REDIS_HOST")
	v.BindEnv("redis.port", "FRAUDLENS_REDIS_PORT")
	v.BindEnv("redis.password", "FRAUDLENS_REDIS_PASSWORD")
	v.BindEnv("nats.enabled", "FRAUDLENS_NATS_ENABLED")
	v.BindEnv("nats.url", "FRAUDLENS_NATS_URL")
	v.BindEnv("external.api_key", "FRAUDLENS_EXTERNAL_API_KEY")
	v.BindEnv("app.environment", "FRAUDLENS_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing config file is fine when no explicit path was given;
		// env vars and defaults carry the configuration.
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

// Default returns a configuration usable without a config file
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.HTTPPort = 8080
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Scoring.ScamThreshold == 0 {
		c.Scoring.ScamThreshold = 50
	}
	if c.Scoring.AutoLabelConfidence == 0 {
		c.Scoring.AutoLabelConfidence = 0.6
	}
	if c.Training.BatchThreshold == 0 {
		c.Training.BatchThreshold = 10
	}
	if c.Training.WindowSize == 0 {
		c.Training.WindowSize = 50
	}
	if c.Training.LearningRate == 0 {
		c.Training.LearningRate = 0.01
	}
	if c.Alerts.CheckInterval == 0 {
		c.Alerts.CheckInterval = 5 * time.Minute
	}
	if c.Alerts.ActiveWindow == 0 {
		c.Alerts.ActiveWindow = 24 * time.Hour
	}
	if c.Alerts.RecencyWindow == 0 {
		c.Alerts.RecencyWindow = time.Hour
	}
	if c.Alerts.MaxRetained == 0 {
		c.Alerts.MaxRetained = 50
	}
	if c.External.Timeout == 0 {
		c.External.Timeout = 5 * time.Second
	}
	if c.External.BlendWeight == 0 {
		c.External.BlendWeight = 0.7
	}
	if c.Snapshot.Interval == 0 {
		c.Snapshot.Interval = 10 * time.Minute
	}
}
