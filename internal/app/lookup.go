package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/xxxsen/mediadup/internal/arr"
	"github.com/xxxsen/mediadup/internal/arrdb"
	"github.com/xxxsen/mediadup/internal/compose"
	"github.com/xxxsen/mediadup/internal/config"
	"github.com/xxxsen/mediadup/internal/report"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// LookupCommand asks Sonarr and Radarr which duplicate folder is the official
// one and rewrites the report with the resolved canonical paths.
type LookupCommand struct {
	reportPath string
	out        string
	cfgPath    string
}

func NewLookupCommand() *LookupCommand { return &LookupCommand{} }

func (c *LookupCommand) Name() string { return "lookup" }

func (c *LookupCommand) Desc() string {
	return "通过 Sonarr/Radarr 识别每组重复文件夹的官方路径"
}

func (c *LookupCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.reportPath, "report", defaultReportFile, "scan 生成的报告路径")
	f.StringVar(&c.out, "out", "", "输出路径, 默认覆盖输入报告")
	f.StringVar(&c.cfgPath, "config", "", "配置文件路径")
}

func (c *LookupCommand) PreRun(ctx context.Context) error {
	if c.reportPath == "" {
		return errors.New("lookup requires --report")
	}
	if c.out == "" {
		c.out = c.reportPath
	}
	return nil
}

func (c *LookupCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)
	cfg := loadConfig(ctx, c.cfgPath)

	groups, err := report.ParseFile(c.reportPath)
	if err != nil {
		return fmt.Errorf("parse report %s: %w", c.reportPath, err)
	}
	if len(groups) == 0 {
		logger.Warn("report contains no duplicate groups", zap.String("report", c.reportPath))
		return nil
	}

	series, err := fetchRecords(ctx, cfg.Sonarr, arr.KindSeries)
	if err != nil {
		return err
	}
	movies, err := fetchRecords(ctx, cfg.Radarr, arr.KindMovie)
	if err != nil {
		return err
	}
	logger.Info("manager records fetched",
		zap.Int("series", len(series)),
		zap.Int("movies", len(movies)),
	)

	mappings := loadComposeMappings(ctx, cfg)
	translate := func(p string) string {
		return compose.TranslatePath(p, mappings)
	}
	resolver := arr.NewResolver(series, movies, translate)

	resolved := 0
	for _, group := range groups {
		match := resolver.Resolve(group.Label, group.DuplicatePaths)
		if match == nil {
			logger.Debug("no official path found", zap.String("folder", group.Label))
			continue
		}
		group.CanonicalPath = match.Path
		group.CanonicalKind = string(match.Kind)
		group.Title = match.Title
		group.MatchType = match.MatchType
		resolved++
		logger.Debug("official path resolved",
			zap.String("folder", group.Label),
			zap.String("official", match.Path),
			zap.String("match_type", match.MatchType),
		)
	}

	title := fmt.Sprintf("Duplicate Media Folder Report (%d/%d groups resolved)", resolved, len(groups))
	if err := report.WriteFile(c.out, title, groups); err != nil {
		return fmt.Errorf("write report %s: %w", c.out, err)
	}

	logger.Info("lookup completed",
		zap.Int("groups", len(groups)),
		zap.Int("resolved", resolved),
		zap.String("report", c.out),
	)
	return nil
}

func (c *LookupCommand) PostRun(ctx context.Context) error { return nil }

// fetchRecords prefers a direct postgres connection when configured and falls
// back to the manager's HTTP API. Either source missing degrades to an empty
// record set so lookup still runs with whatever is reachable.
func fetchRecords(ctx context.Context, ac config.ArrConfig, kind arr.Kind) ([]arr.Record, error) {
	logger := logutil.GetLogger(ctx)

	if ac.PgDSN != "" {
		dao, err := arrdb.Open(ac.PgDSN)
		if err != nil {
			return nil, fmt.Errorf("open %s database: %w", kind, err)
		}
		defer dao.Close()
		if kind == arr.KindSeries {
			return dao.SeriesPaths(ctx)
		}
		return dao.MoviePaths(ctx)
	}

	if ac.URL == "" {
		logger.Debug("manager not configured", zap.String("kind", string(kind)))
		return nil, nil
	}

	var client *arr.Client
	var err error
	if kind == arr.KindSeries {
		client, err = arr.NewSonarr(ac.URL, ac.APIKey)
	} else {
		client, err = arr.NewRadarr(ac.URL, ac.APIKey)
	}
	if err != nil {
		return nil, err
	}
	records, err := client.ListPaths(ctx)
	if err != nil {
		logger.Warn("manager unreachable, continuing without it",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, nil
	}
	return records, nil
}

func init() {
	RegisterRunner("lookup", func() IRunner { return NewLookupCommand() })
}
