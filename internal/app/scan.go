package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xxxsen/mediadup/internal/compose"
	"github.com/xxxsen/mediadup/internal/model"
	"github.com/xxxsen/mediadup/internal/report"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultReportFile = "duplicate_report.txt"

// ScanCommand walks the media roots and reports folders whose name shows up
// in more than one location. Canonical resolution is left to lookup.
type ScanCommand struct {
	dirs    []string
	out     string
	cfgPath string
}

func NewScanCommand() *ScanCommand { return &ScanCommand{} }

func (c *ScanCommand) Name() string { return "scan" }

func (c *ScanCommand) Desc() string {
	return "扫描媒体目录, 找出重复的媒体文件夹并生成报告"
}

func (c *ScanCommand) Init(f *pflag.FlagSet) {
	f.StringSliceVar(&c.dirs, "dir", nil, "媒体根目录, 可多次指定, 不指定时从 docker compose 自动探测")
	f.StringVar(&c.out, "out", defaultReportFile, "报告输出路径")
	f.StringVar(&c.cfgPath, "config", "", "配置文件路径")
}

func (c *ScanCommand) PreRun(ctx context.Context) error {
	if c.out == "" {
		return errors.New("scan requires --out")
	}
	return nil
}

func (c *ScanCommand) Run(ctx context.Context) error {
	logger := logutil.GetLogger(ctx)

	roots, err := c.resolveRoots(ctx)
	if err != nil {
		return err
	}
	logger.Info("scanning media roots", zap.Strings("roots", roots))

	groups, scanned, err := collectDuplicateGroups(roots)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Duplicate Media Folder Report (%d roots, %d folders scanned)", len(roots), scanned)
	if err := report.WriteFile(c.out, title, groups); err != nil {
		return fmt.Errorf("write report %s: %w", c.out, err)
	}

	logger.Info("scan completed",
		zap.Int("roots", len(roots)),
		zap.Int("folders_scanned", scanned),
		zap.Int("duplicate_groups", len(groups)),
		zap.String("report", c.out),
	)
	return nil
}

func (c *ScanCommand) PostRun(ctx context.Context) error { return nil }

func (c *ScanCommand) resolveRoots(ctx context.Context) ([]string, error) {
	if len(c.dirs) > 0 {
		return c.dirs, nil
	}

	cfg := loadConfig(ctx, c.cfgPath)
	mappings := loadComposeMappings(ctx, cfg)
	roots := compose.MediaRoots(mappings)
	if len(roots) == 0 {
		return nil, errors.New("no media roots: pass --dir or configure docker compose detection")
	}
	return roots, nil
}

// collectDuplicateGroups reads the top level folders of every root and groups
// them by case-insensitive name. Only names seen at two or more distinct
// locations become a group.
func collectDuplicateGroups(roots []string) ([]*model.DuplicateGroup, int, error) {
	type bucket struct {
		label string
		paths []string
	}
	buckets := make(map[string]*bucket)
	seen := make(map[string]struct{})
	scanned := 0

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, 0, fmt.Errorf("read media root %s: %w", root, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			scanned++
			full := filepath.Join(root, entry.Name())
			if _, ok := seen[full]; ok {
				continue
			}
			seen[full] = struct{}{}

			key := strings.ToLower(entry.Name())
			b, ok := buckets[key]
			if !ok {
				b = &bucket{label: entry.Name()}
				buckets[key] = b
			}
			b.paths = append(b.paths, full)
		}
	}

	var groups []*model.DuplicateGroup
	for _, b := range buckets {
		if len(b.paths) < 2 {
			continue
		}
		sort.Strings(b.paths)
		groups = append(groups, &model.DuplicateGroup{
			Label:          b.label,
			CanonicalPath:  model.CanonicalUnknown,
			DuplicatePaths: b.paths,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Label) < strings.ToLower(groups[j].Label)
	})
	return groups, scanned, nil
}

func init() {
	RegisterRunner("scan", func() IRunner { return NewScanCommand() })
}
