package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config describes the application level configuration loaded from json.
type Config struct {
	Sonarr        ArrConfig       `json:"sonarr"`
	Radarr        ArrConfig       `json:"radarr"`
	ProtectedDirs []string        `json:"protected_dirs"`
	Thresholds    Thresholds      `json:"thresholds"`
	// StrictMediaType disables the permissive bias of media type matching:
	// with it set, a folder whose type cannot be classified is treated as a
	// mismatch instead of a match.
	StrictMediaType bool           `json:"strict_media_type"`
	Database        DatabaseConfig `json:"database"`
	Docker          DockerConfig   `json:"docker"`
	S3              *S3Config      `json:"s3,omitempty"`
}

// ArrConfig holds the connection options for one metadata manager. PgDSN is
// an optional direct postgres connection used when no API key is available.
type ArrConfig struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key"`
	PgDSN  string `json:"pg_dsn"`
}

// Thresholds are the tunable risk limits of the assessment pipeline.
type Thresholds struct {
	SizeRatio     float64 `json:"size_ratio"`
	CountRatio    float64 `json:"count_ratio"`
	LargeDirBytes int64   `json:"large_dir_bytes"`
}

// DatabaseConfig locates the local audit database.
type DatabaseConfig struct {
	File string `json:"file"`
}

// DockerConfig optionally pins the compose file used for volume mapping.
type DockerConfig struct {
	ComposePath string `json:"compose_path"`
	EnvPath     string `json:"env_path"`
}

// S3Config holds the options for the optional off-box session manifests.
type S3Config struct {
	Host            string `json:"host"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
	ForcePathStyle  bool   `json:"force_path_style"`
}

// LoadFirst tries to load configuration from the given paths, returning the
// first successfully decoded configuration. If none of the paths contain a
// readable config, an error is returned.
func LoadFirst(paths ...string) (*Config, error) {
	var lastErr error
	for _, path := range paths {
		if path == "" {
			continue
		}
		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("config not found in paths: %v", paths)
	}
	return nil, lastErr
}

// Load reads configuration from a single json file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration with every field at its default value,
// used when no config file exists (the managers then run with limited
// functionality, like the API-key-less mode of the lookup step).
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Sonarr.URL == "" {
		c.Sonarr.URL = "http://localhost:8989"
	}
	if c.Radarr.URL == "" {
		c.Radarr.URL = "http://localhost:7878"
	}
	if len(c.ProtectedDirs) == 0 {
		c.ProtectedDirs = []string{"/media/Movies", "/media/TV", "/media/Television"}
	}
	if c.Thresholds.SizeRatio == 0 {
		c.Thresholds.SizeRatio = 3.0
	}
	if c.Thresholds.CountRatio == 0 {
		c.Thresholds.CountRatio = 2.0
	}
	if c.Thresholds.LargeDirBytes == 0 {
		c.Thresholds.LargeDirBytes = 100_000_000_000
	}
	if c.Database.File == "" {
		c.Database.File = "mediadup.db"
	}
}

// Validate performs basic validation of the configuration.
func (c *Config) Validate() error {
	if c.Thresholds.SizeRatio < 1 {
		return errors.New("config.thresholds.size_ratio must be >= 1")
	}
	if c.Thresholds.CountRatio < 1 {
		return errors.New("config.thresholds.count_ratio must be >= 1")
	}
	if c.Thresholds.LargeDirBytes < 0 {
		return errors.New("config.thresholds.large_dir_bytes must not be negative")
	}
	if c.S3 != nil {
		if c.S3.Host == "" {
			return errors.New("config.s3.host must be set")
		}
		if c.S3.Bucket == "" {
			return errors.New("config.s3.bucket must be set")
		}
	}
	return nil
}
