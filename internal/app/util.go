package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/xxxsen/mediadup/internal/compose"
	"github.com/xxxsen/mediadup/internal/config"
	"github.com/xxxsen/mediadup/internal/storage"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

var defaultConfigPaths = []string{
	"./config.json",
	"/etc/mediadup/config.json",
}

// stdin is buffered once so consecutive prompts in one session do not lose
// input read ahead by a previous prompt.
var stdinReader = bufio.NewReader(os.Stdin)

func loadConfig(ctx context.Context, explicit string) *config.Config {
	paths := defaultConfigPaths
	if strings.TrimSpace(explicit) != "" {
		paths = append([]string{explicit}, paths...)
	}
	cfg, err := config.LoadFirst(paths...)
	if err != nil {
		logutil.GetLogger(ctx).Debug("no config file found, using defaults", zap.Error(err))
		return config.Default()
	}
	return cfg
}

// askYesNo prompts on stdout and reads a single line answer from stdin. Any
// read failure counts as a decline.
func askYesNo(ctx context.Context, prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// parseSizeFlag turns a human readable size ("700MB", "1.5GiB") into bytes.
// An empty value maps to def.
func parseSizeFlag(value string, def int64) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size %q out of range", value)
	}
	return int64(n), nil
}

func sessionManifestKey(sessionID string) string {
	return fmt.Sprintf("sessions/%s.json", sessionID)
}

// resolveStore returns the global storage client, building one from config
// on first use.
func resolveStore(ctx context.Context, s3cfg *config.S3Config) (storage.Client, error) {
	if store := storage.DefaultClient(); store != nil {
		return store, nil
	}
	if s3cfg == nil {
		return nil, errors.New("s3 is not configured")
	}
	client, err := storage.NewS3Client(ctx, *s3cfg)
	if err != nil {
		return nil, err
	}
	storage.SetDefaultClient(client)
	return client, nil
}

// fetchSessionManifest reads back the manifest clean mirrored for one
// session.
func fetchSessionManifest(ctx context.Context, s3cfg *config.S3Config, sessionID string) ([]byte, error) {
	store, err := resolveStore(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	return store.FetchManifest(ctx, sessionManifestKey(sessionID))
}

// loadComposeMappings resolves the compose file from config or well known
// locations and returns its volume mappings. Missing compose is not an error,
// path translation just becomes the identity.
func loadComposeMappings(ctx context.Context, cfg *config.Config) []compose.Mapping {
	logger := logutil.GetLogger(ctx)

	composePath := cfg.Docker.ComposePath
	if composePath == "" {
		found, ok := compose.FindComposeFile()
		if !ok {
			logger.Debug("no docker compose file found, skipping path translation")
			return nil
		}
		composePath = found
	}

	mappings, err := compose.LoadMappings(composePath, cfg.Docker.EnvPath)
	if err != nil {
		logger.Warn("load compose mappings failed",
			zap.String("compose", composePath),
			zap.Error(err),
		)
		return nil
	}
	logger.Debug("compose mappings loaded",
		zap.String("compose", composePath),
		zap.Int("mappings", len(mappings)),
	)
	return mappings
}
