package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort      = errors.New("invalid server port")
	ErrMissingTEIRoot    = errors.New("tei root directory must be set")
	ErrMissingOutputDir  = errors.New("output directory must be set")
	ErrInvalidCiteDepth  = errors.New("max citation depth must be positive")
	ErrInvalidTaskTTL    = errors.New("task ttl must be positive")
	ErrInvalidCacheSize  = errors.New("document cache size must be positive")
)

const maxPort = 65535

// Config holds all configuration for the citetrail server and CLI.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	TEI      TEIConfig      `mapstructure:"tei"`
	Domain   DomainConfig   `mapstructure:"domain"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Task     TaskConfig     `mapstructure:"task"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP-surface configuration for the "serve" command.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	Port         int           `mapstructure:"port"`
	Enabled      bool          `mapstructure:"enabled"`
}

// TEIConfig locates the per-request source document and output artefacts.
type TEIConfig struct {
	// RootDir holds "<work_id>.xml" source documents.
	RootDir string `mapstructure:"root_dir"`
	// OutputDir receives the four per-request output artefacts.
	OutputDir string `mapstructure:"output_dir"`
	// MaxCiteDepth bounds the resolver's citetrail descent, matching
	// workconfig.WorkConfig.MaxCiteDepth's role as a per-request guard.
	MaxCiteDepth int `mapstructure:"max_cite_depth"`
	// LabelsPath, if set, overrides workconfig.DefaultCitationLabels with
	// a project-specific YAML citation-label table.
	LabelsPath string `mapstructure:"labels_path"`
}

// DomainConfig carries the external URL bases the renderer needs to
// resolve cross-work refs and page-image links.
type DomainConfig struct {
	IDServerBaseURL string `mapstructure:"id_server_base_url"`
	IIIFBaseURL     string `mapstructure:"iiif_base_url"`
}

// CacheConfig controls the parsed-document cache shared across requests.
type CacheConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
	Enabled      bool  `mapstructure:"enabled"`
}

// TaskConfig controls the async task-status store's eviction sweeper.
type TaskConfig struct {
	TTL            time.Duration `mapstructure:"ttl"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// LoadConfig loads configuration from file and environment variables.
// configPath, if empty, searches the working directory and "./config" and
// "/etc/citetrail" for a "config.yaml".
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/citetrail")
	}

	viperCfg.SetEnvPrefix("CITETRAIL")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("server.enabled", false)
	viperCfg.SetDefault("server.port", DefaultServerPort)
	viperCfg.SetDefault("server.host", DefaultServerHost)
	viperCfg.SetDefault("server.read_timeout", "30s")
	viperCfg.SetDefault("server.write_timeout", "30s")
	viperCfg.SetDefault("server.idle_timeout", "60s")

	viperCfg.SetDefault("tei.root_dir", DefaultTEIRoot)
	viperCfg.SetDefault("tei.output_dir", DefaultOutputDir)
	viperCfg.SetDefault("tei.max_cite_depth", 32)
	viperCfg.SetDefault("tei.labels_path", DefaultLabelsPath)

	viperCfg.SetDefault("domain.id_server_base_url", DefaultIDServerBaseURL)
	viperCfg.SetDefault("domain.iiif_base_url", DefaultIIIFBaseURL)

	viperCfg.SetDefault("cache.enabled", true)
	viperCfg.SetDefault("cache.max_size_bytes", DefaultDocCacheMaxSizeBytes)

	viperCfg.SetDefault("task.ttl", fmt.Sprintf("%ds", DefaultTaskTTLSeconds))
	viperCfg.SetDefault("task.sweep_interval", fmt.Sprintf("%ds", DefaultTaskSweepInterval))

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)
	viperCfg.SetDefault("logging.output", "stdout")
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port)
	}

	if cfg.TEI.RootDir == "" {
		return ErrMissingTEIRoot
	}

	if cfg.TEI.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if cfg.TEI.MaxCiteDepth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCiteDepth, cfg.TEI.MaxCiteDepth)
	}

	if cfg.Task.TTL <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTaskTTL, cfg.Task.TTL)
	}

	if cfg.Cache.Enabled && cfg.Cache.MaxSizeBytes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, cfg.Cache.MaxSizeBytes)
	}

	return nil
}
