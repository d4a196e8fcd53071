package app

import (
	"context"
	"fmt"
	"time"

	appdb "github.com/xxxsen/mediadup/internal/db"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

// HistoryCommand lists past cleanup sessions from the audit database, the
// full event trail of one session, or the manifest clean mirrored to object
// storage.
type HistoryCommand struct {
	cfgPath  string
	limit    int
	session  string
	manifest string
}

func NewHistoryCommand() *HistoryCommand { return &HistoryCommand{} }

func (c *HistoryCommand) Name() string { return "history" }

func (c *HistoryCommand) Desc() string {
	return "查看历史清理会话及单个会话的明细"
}

func (c *HistoryCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.cfgPath, "config", "", "配置文件路径")
	f.IntVar(&c.limit, "limit", 20, "最多列出的会话数")
	f.StringVar(&c.session, "session", "", "只展示该会话的明细")
	f.StringVar(&c.manifest, "manifest", "", "从对象存储拉取该会话的 manifest 并打印")
}

func (c *HistoryCommand) PreRun(ctx context.Context) error { return nil }

func (c *HistoryCommand) Run(ctx context.Context) error {
	cfg := loadConfig(ctx, c.cfgPath)

	if c.manifest != "" {
		body, err := fetchSessionManifest(ctx, cfg.S3, c.manifest)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", body)
		return nil
	}

	handle, err := appdb.Open(cfg.Database.File)
	if err != nil {
		return err
	}
	defer handle.Close()
	if err := appdb.EnsureSchema(ctx, handle); err != nil {
		return err
	}
	appdb.SetDefault(handle)
	dao, err := appdb.NewSessionDAO()
	if err != nil {
		return err
	}

	if c.session != "" {
		return c.printEvents(ctx, dao)
	}
	return c.printSessions(ctx, dao)
}

func (c *HistoryCommand) PostRun(ctx context.Context) error { return nil }

func (c *HistoryCommand) printSessions(ctx context.Context, dao *appdb.SessionDAO) error {
	rows, err := dao.ListSessions(ctx, appdb.ListOptions{Limit: c.limit})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no cleanup sessions recorded")
		return nil
	}

	for _, row := range rows {
		mode := row.Mode
		if row.DryRun {
			mode += ", dry-run"
		}
		fmt.Printf("%s  %s  (%s)\n",
			time.Unix(row.StartTime, 0).Format("2006-01-02 15:04:05"),
			row.SessionID,
			mode,
		)
		fmt.Printf("    report: %s\n", row.ReportFile)
		fmt.Printf("    groups: %d total, %d skipped, %d warnings\n",
			row.GroupsTotal, row.GroupsSkipped, row.Warnings)
		fmt.Printf("    removed: %d duplicates, %s reclaimed, %d failures\n",
			row.DuplicatesProcessed, humanize.IBytes(uint64(row.BytesReclaimed)), row.Failures)
	}
	return nil
}

func (c *HistoryCommand) printEvents(ctx context.Context, dao *appdb.SessionDAO) error {
	events, err := dao.ListEvents(ctx, c.session)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("no events recorded for session %s\n", c.session)
		return nil
	}

	for _, ev := range events {
		line := fmt.Sprintf("%s  %-18s %s",
			time.Unix(ev.CreateTime, 0).Format("15:04:05"),
			ev.State,
			ev.Path,
		)
		if ev.Path == "" {
			line = fmt.Sprintf("%s  %-18s %s",
				time.Unix(ev.CreateTime, 0).Format("15:04:05"),
				ev.State,
				ev.GroupLabel,
			)
		}
		if ev.Bytes > 0 {
			line += fmt.Sprintf(" (%s)", humanize.IBytes(uint64(ev.Bytes)))
		}
		if ev.Reason != "" {
			line += " - " + ev.Reason
		}
		fmt.Println(line)
	}
	return nil
}

func init() {
	RegisterRunner("history", func() IRunner { return NewHistoryCommand() })
}
