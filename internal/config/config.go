// Package config loads harness settings from YAML.
package config

import (
	"os"
	"strings"

	"xmltrip/internal/dialect"
	"xmltrip/internal/fixture"
	"xmltrip/internal/runinfo"

	"gopkg.in/yaml.v3"
)

// Config captures all runtime options for a harness run.
type Config struct {
	Dialect string             `yaml:"dialect"`
	Fixture int                `yaml:"fixture"`
	Logging Logging            `yaml:"logging"`
	Report  ReportConfig       `yaml:"report"`
	Storage StorageConfig      `yaml:"storage"`
	RunInfo *runinfo.BasicInfo `yaml:"-"`
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose bool   `yaml:"verbose"`
	Color   bool   `yaml:"color"`
	LogFile string `yaml:"log_file"`
}

// ReportConfig controls run artifacts. Nothing is written when OutputDir is empty.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
	Archive   bool   `yaml:"archive"`
}

// Enabled reports whether run artifacts should be written.
func (r ReportConfig) Enabled() bool {
	return strings.TrimSpace(r.OutputDir) != ""
}

// StorageConfig holds external storage settings.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (AWS and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file. An empty path yields defaults.
func Load(path string) (Config, error) {
	cfg := defaultConfig()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	normalizeConfig(&cfg)
	cfg.RunInfo = runinfo.FromEnv()
	return cfg, nil
}

func normalizeConfig(cfg *Config) {
	cfg.Dialect = strings.ToLower(strings.TrimSpace(cfg.Dialect))
	if cfg.Dialect == "" {
		cfg.Dialect = dialect.Default
	}
	if cfg.Fixture == 0 {
		cfg.Fixture = int(fixture.Default)
	}
	cfg.Logging.LogFile = strings.TrimSpace(cfg.Logging.LogFile)
	cfg.Report.OutputDir = strings.TrimSpace(cfg.Report.OutputDir)
	cfg.Storage.S3.Prefix = strings.Trim(cfg.Storage.S3.Prefix, "/")
	cfg.Storage.GCS.Prefix = strings.Trim(cfg.Storage.GCS.Prefix, "/")
}

func defaultConfig() Config {
	return Config{
		Dialect: dialect.Default,
		Fixture: int(fixture.Default),
		Logging: Logging{
			Verbose: true,
			Color:   true,
		},
		Report: ReportConfig{
			Archive: true,
		},
	}
}
