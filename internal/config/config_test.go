package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"sonarr": {"api_key": "abc"}}`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8989", cfg.Sonarr.URL)
	assert.Equal(t, "abc", cfg.Sonarr.APIKey)
	assert.Equal(t, "http://localhost:7878", cfg.Radarr.URL)
	assert.Equal(t, 3.0, cfg.Thresholds.SizeRatio)
	assert.Equal(t, 2.0, cfg.Thresholds.CountRatio)
	assert.Equal(t, int64(100_000_000_000), cfg.Thresholds.LargeDirBytes)
	assert.Contains(t, cfg.ProtectedDirs, "/media/Movies")
	assert.False(t, cfg.StrictMediaType)
	assert.Equal(t, "mediadup.db", cfg.Database.File)
	assert.Nil(t, cfg.S3)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"protected_dirs": ["/srv/media/Movies"],
		"thresholds": {"size_ratio": 5, "large_dir_bytes": 50000000000},
		"strict_media_type": true
	}`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"/srv/media/Movies"}, cfg.ProtectedDirs)
	assert.Equal(t, 5.0, cfg.Thresholds.SizeRatio)
	assert.Equal(t, int64(50_000_000_000), cfg.Thresholds.LargeDirBytes)
	assert.True(t, cfg.StrictMediaType)
}

func TestLoadRejectsBadThresholds(t *testing.T) {
	path := writeConfig(t, `{"thresholds": {"size_ratio": 0.5}}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsIncompleteS3(t *testing.T) {
	path := writeConfig(t, `{"s3": {"host": "http://minio:9000"}}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFirstFallsThroughMissing(t *testing.T) {
	path := writeConfig(t, `{}`)
	cfg, err := LoadFirst(filepath.Join(t.TempDir(), "absent.json"), path)
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFirstAllMissing(t *testing.T) {
	_, err := LoadFirst(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
