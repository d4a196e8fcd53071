package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xxxsen/mediadup/internal/config"
	appdb "github.com/xxxsen/mediadup/internal/db"
	"github.com/xxxsen/mediadup/internal/engine"
	"github.com/xxxsen/mediadup/internal/fsops"
	"github.com/xxxsen/mediadup/internal/model"
	"github.com/xxxsen/mediadup/internal/report"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// CleanCommand walks a resolved report and removes duplicate folders after
// risk assessment and confirmation. Every decision ends up in the audit
// database.
type CleanCommand struct {
	reportPath string
	cfgPath    string
	dryRun     bool
	auto       bool
	filter     string
	minSize    string
	maxSize    string
	strictType bool

	runCfg model.RunConfig
	db     *sql.DB
}

func NewCleanCommand() *CleanCommand { return &CleanCommand{} }

func (c *CleanCommand) Name() string { return "clean" }

func (c *CleanCommand) Desc() string {
	return "根据报告清理重复的媒体文件夹, 删除前做风险评估与确认"
}

func (c *CleanCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.reportPath, "report", defaultReportFile, "lookup 处理后的报告路径")
	f.StringVar(&c.cfgPath, "config", "", "配置文件路径")
	f.BoolVar(&c.dryRun, "dry-run", false, "只模拟, 不实际删除")
	f.BoolVar(&c.auto, "auto", false, "自动模式, 跳过逐条确认")
	f.StringVar(&c.filter, "filter", "", "只处理名称或官方路径包含该子串的分组")
	f.StringVar(&c.minSize, "min-size", "", "小于该大小的重复目录不处理, 如 700MB")
	f.StringVar(&c.maxSize, "max-size", "", "大于该大小的重复目录不处理, 如 500GB")
	f.BoolVar(&c.strictType, "strict-type", false, "媒体类型无法识别时按不匹配处理")
}

func (c *CleanCommand) PreRun(ctx context.Context) error {
	if c.reportPath == "" {
		return errors.New("clean requires --report")
	}

	runCfg := model.DefaultRunConfig()
	runCfg.DryRun = c.dryRun
	if c.auto {
		runCfg.Mode = model.ConfirmAutomatic
	}
	runCfg.Filter = c.filter

	var err error
	if runCfg.MinSize, err = parseSizeFlag(c.minSize, runCfg.MinSize); err != nil {
		return err
	}
	if runCfg.MaxSize, err = parseSizeFlag(c.maxSize, runCfg.MaxSize); err != nil {
		return err
	}
	if runCfg.MinSize > runCfg.MaxSize {
		return fmt.Errorf("--min-size exceeds --max-size")
	}
	c.runCfg = runCfg

	logutil.GetLogger(ctx).Info("starting clean",
		zap.String("report", c.reportPath),
		zap.Bool("dry_run", c.dryRun),
		zap.Bool("auto", c.auto),
	)
	return nil
}

func (c *CleanCommand) Run(ctx context.Context) error {
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

	runCfg := c.runCfg
	if cfg.Thresholds.SizeRatio > 0 {
		runCfg.SizeRatio = cfg.Thresholds.SizeRatio
	}
	if cfg.Thresholds.CountRatio > 0 {
		runCfg.CountRatio = cfg.Thresholds.CountRatio
	}
	if cfg.Thresholds.LargeDirBytes > 0 {
		runCfg.LargeDirBytes = cfg.Thresholds.LargeDirBytes
	}
	runCfg.StrictMediaType = c.strictType || cfg.StrictMediaType

	rules := make([]model.ProtectionRule, 0, len(cfg.ProtectedDirs))
	for _, dir := range cfg.ProtectedDirs {
		rules = append(rules, model.ProtectionRule{Root: dir})
	}

	handle, err := appdb.Open(cfg.Database.File)
	if err != nil {
		return err
	}
	c.db = handle
	if err := appdb.EnsureSchema(ctx, handle); err != nil {
		return fmt.Errorf("init audit schema: %w", err)
	}
	appdb.SetDefault(handle)
	dao, err := appdb.NewSessionDAO()
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	start := time.Now()
	logger.Info("cleanup session started",
		zap.String("session_id", sessionID),
		zap.Int("groups", len(groups)),
	)

	deps := engine.Deps{
		FS:       fsops.OS{},
		Confirm:  askYesNo,
		Recorder: newAuditRecorder(sessionID, dao),
	}
	acct, runErr := engine.RunSession(ctx, deps, groups, rules, runCfg)
	end := time.Now()

	row := appdb.SessionRow{
		SessionID:           sessionID,
		ReportFile:          c.reportPath,
		Mode:                string(runCfg.Mode),
		DryRun:              runCfg.DryRun,
		StartTime:           start.Unix(),
		EndTime:             end.Unix(),
		GroupsTotal:         int64(acct.GroupsTotal),
		GroupsSkipped:       int64(acct.GroupsSkipped),
		SizeSkipped:         int64(acct.SizeSkipped),
		Warnings:            int64(acct.Warnings),
		DuplicatesProcessed: int64(acct.DuplicatesProcessed),
		BytesReclaimed:      acct.BytesReclaimed,
		Failures:            int64(acct.Failures),
	}
	if err := dao.RecordSession(ctx, row); err != nil {
		logger.Error("record session failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	fmt.Print(engine.RenderSummary(acct, runCfg))

	c.uploadManifest(ctx, cfg.S3, sessionID, row)

	if runErr != nil {
		return runErr
	}
	logger.Info("cleanup session finished",
		zap.String("session_id", sessionID),
		zap.Int("duplicates_processed", acct.DuplicatesProcessed),
		zap.Int64("bytes_reclaimed", acct.BytesReclaimed),
	)
	return nil
}

func (c *CleanCommand) PostRun(ctx context.Context) error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// uploadManifest mirrors the final session row to object storage when
// configured. Failures are logged, never fatal: the local audit row is the
// source of truth.
func (c *CleanCommand) uploadManifest(ctx context.Context, s3cfg *config.S3Config, sessionID string, row appdb.SessionRow) {
	if s3cfg == nil {
		return
	}
	logger := logutil.GetLogger(ctx)

	store, err := resolveStore(ctx, s3cfg)
	if err != nil {
		logger.Warn("init s3 client failed", zap.Error(err))
		return
	}

	body, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		logger.Warn("marshal session manifest failed", zap.Error(err))
		return
	}
	key := sessionManifestKey(sessionID)
	if err := store.UploadManifest(ctx, key, body); err != nil {
		logger.Warn("upload session manifest failed", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Info("session manifest uploaded", zap.String("key", key))
}

// newAuditRecorder writes every session event to the log and persists group
// skips and terminal transitions to the audit database.
func newAuditRecorder(sessionID string, dao *appdb.SessionDAO) engine.Recorder {
	return engine.RecorderFunc(func(ctx context.Context, ev engine.Event) {
		logger := logutil.GetLogger(ctx).With(zap.String("session_id", sessionID))

		switch ev.Type {
		case engine.EventGroupStarted:
			logger.Info("processing group", zap.String("folder", ev.Group))
		case engine.EventGroupSkipped:
			logger.Info("group skipped",
				zap.String("folder", ev.Group),
				zap.String("reason", ev.Reason),
			)
		case engine.EventAssessed:
			for _, flag := range ev.Flags {
				logger.Warn("risk flag",
					zap.String("folder", ev.Group),
					zap.String("path", ev.Path),
					zap.String("kind", flag.Kind.String()),
					zap.String("reason", flag.Reason),
				)
			}
		case engine.EventTransition:
			logger.Info("path transition",
				zap.String("folder", ev.Group),
				zap.String("path", ev.Path),
				zap.String("state", ev.State.String()),
				zap.String("reason", ev.Reason),
				zap.Int64("bytes", ev.Bytes),
			)
		case engine.EventSessionEnded:
			logger.Info("session ended", zap.String("reason", ev.Reason))
			return
		}

		if ev.Type != engine.EventTransition && ev.Type != engine.EventGroupSkipped {
			return
		}
		state := ev.State.String()
		if ev.Type == engine.EventGroupSkipped {
			state = "group-skipped"
		}
		err := dao.RecordEvent(ctx, appdb.EventRow{
			SessionID:  sessionID,
			GroupLabel: ev.Group,
			Path:       ev.Path,
			State:      state,
			Reason:     ev.Reason,
			Bytes:      ev.Bytes,
			CreateTime: ev.Time.Unix(),
		})
		if err != nil {
			logger.Error("record audit event failed", zap.Error(err))
		}
	})
}

func init() {
	RegisterRunner("clean", func() IRunner { return NewCleanCommand() })
}
