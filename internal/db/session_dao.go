package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/didi/gendry/builder"
)

const (
	sessionTableName = "cleanup_session_tab"
	eventTableName   = "cleanup_event_tab"
)

// SessionRow is one recorded cleanup session.
type SessionRow struct {
	SessionID           string
	ReportFile          string
	Mode                string
	DryRun              bool
	StartTime           int64
	EndTime             int64
	GroupsTotal         int64
	GroupsSkipped       int64
	SizeSkipped         int64
	Warnings            int64
	DuplicatesProcessed int64
	BytesReclaimed      int64
	Failures            int64
}

// EventRow is one recorded path transition or group skip.
type EventRow struct {
	SessionID  string
	GroupLabel string
	Path       string
	State      string
	Reason     string
	Bytes      int64
	CreateTime int64
}

// ListOptions narrow the history listing.
type ListOptions struct {
	Limit   int
	DryRun  *bool
	Session string
}

// SessionDAO persists sessions and their event streams for auditing.
type SessionDAO struct {
	db *sql.DB
}

// NewSessionDAO builds a DAO using the globally configured database.
func NewSessionDAO() (*SessionDAO, error) {
	db := Default()
	if db == nil {
		return nil, errors.New("audit database not initialised")
	}
	return &SessionDAO{db: db}, nil
}

// NewSessionDAOWith builds a DAO over an explicit handle, mainly for tests.
func NewSessionDAOWith(db *sql.DB) *SessionDAO {
	return &SessionDAO{db: db}
}

// RecordSession inserts the final row of one session.
func (dao *SessionDAO) RecordSession(ctx context.Context, row SessionRow) error {
	dryRun := 0
	if row.DryRun {
		dryRun = 1
	}
	payload := []map[string]interface{}{{
		"session_id":           row.SessionID,
		"report_file":          row.ReportFile,
		"mode":                 row.Mode,
		"dry_run":              dryRun,
		"start_time":           row.StartTime,
		"end_time":             row.EndTime,
		"groups_total":         row.GroupsTotal,
		"groups_skipped":       row.GroupsSkipped,
		"size_skipped":         row.SizeSkipped,
		"warnings":             row.Warnings,
		"duplicates_processed": row.DuplicatesProcessed,
		"bytes_reclaimed":      row.BytesReclaimed,
		"failures":             row.Failures,
	}}
	insertSQL, args, err := builder.BuildInsert(sessionTableName, payload)
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// RecordEvent appends one event to a session's audit trail.
func (dao *SessionDAO) RecordEvent(ctx context.Context, row EventRow) error {
	if row.CreateTime == 0 {
		row.CreateTime = time.Now().Unix()
	}
	payload := []map[string]interface{}{{
		"session_id":  row.SessionID,
		"group_label": row.GroupLabel,
		"path":        row.Path,
		"state":       row.State,
		"reason":      row.Reason,
		"bytes":       row.Bytes,
		"create_time": row.CreateTime,
	}}
	insertSQL, args, err := builder.BuildInsert(eventTableName, payload)
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListSessions returns recorded sessions, newest first.
func (dao *SessionDAO) ListSessions(ctx context.Context, opt ListOptions) ([]SessionRow, error) {
	where := map[string]interface{}{
		"_orderby": "start_time desc",
	}
	if opt.Limit > 0 {
		where["_limit"] = []uint{0, uint(opt.Limit)}
	}
	if opt.DryRun != nil {
		dryRun := 0
		if *opt.DryRun {
			dryRun = 1
		}
		where["dry_run"] = dryRun
	}
	if opt.Session != "" {
		where["session_id"] = opt.Session
	}

	fields := []string{
		"session_id", "report_file", "mode", "dry_run", "start_time", "end_time",
		"groups_total", "groups_skipped", "size_skipped", "warnings",
		"duplicates_processed", "bytes_reclaimed", "failures",
	}
	query, args, err := builder.BuildSelect(sessionTableName, where, fields)
	if err != nil {
		return nil, err
	}

	rows, err := dao.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var result []SessionRow
	for rows.Next() {
		var row SessionRow
		var dryRun int
		if err := rows.Scan(
			&row.SessionID, &row.ReportFile, &row.Mode, &dryRun, &row.StartTime, &row.EndTime,
			&row.GroupsTotal, &row.GroupsSkipped, &row.SizeSkipped, &row.Warnings,
			&row.DuplicatesProcessed, &row.BytesReclaimed, &row.Failures,
		); err != nil {
			return nil, err
		}
		row.DryRun = dryRun != 0
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListEvents returns the audit trail of one session in insertion order.
func (dao *SessionDAO) ListEvents(ctx context.Context, sessionID string) ([]EventRow, error) {
	where := map[string]interface{}{
		"session_id": sessionID,
		"_orderby":   "id asc",
	}
	fields := []string{"session_id", "group_label", "path", "state", "reason", "bytes", "create_time"}
	query, args, err := builder.BuildSelect(eventTableName, where, fields)
	if err != nil {
		return nil, err
	}

	rows, err := dao.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var result []EventRow
	for rows.Next() {
		var row EventRow
		if err := rows.Scan(&row.SessionID, &row.GroupLabel, &row.Path, &row.State, &row.Reason, &row.Bytes, &row.CreateTime); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
