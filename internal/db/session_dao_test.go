package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupTestDAO(t *testing.T) *SessionDAO {
	file := filepath.Join(t.TempDir(), "audit.db")
	handle, err := Open(file)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })
	assert.NoError(t, EnsureSchema(context.Background(), handle))
	return NewSessionDAOWith(handle)
}

func TestRecordAndListSessions(t *testing.T) {
	dao := setupTestDAO(t)
	ctx := context.Background()

	err := dao.RecordSession(ctx, SessionRow{
		SessionID:           "s-1",
		ReportFile:          "/tmp/report.txt",
		Mode:                "interactive",
		DryRun:              true,
		StartTime:           100,
		EndTime:             130,
		GroupsTotal:         4,
		GroupsSkipped:       1,
		SizeSkipped:         2,
		Warnings:            1,
		DuplicatesProcessed: 3,
		BytesReclaimed:      4096,
	})
	assert.NoError(t, err)
	err = dao.RecordSession(ctx, SessionRow{
		SessionID:  "s-2",
		ReportFile: "/tmp/report.txt",
		Mode:       "automatic",
		StartTime:  200,
		EndTime:    210,
		Failures:   1,
	})
	assert.NoError(t, err)

	rows, err := dao.ListSessions(ctx, ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "s-2", rows[0].SessionID)
	assert.Equal(t, "s-1", rows[1].SessionID)
	assert.True(t, rows[1].DryRun)
	assert.Equal(t, int64(4096), rows[1].BytesReclaimed)

	rows, err = dao.ListSessions(ctx, ListOptions{Limit: 1})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "s-2", rows[0].SessionID)

	dry := true
	rows, err = dao.ListSessions(ctx, ListOptions{DryRun: &dry})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "s-1", rows[0].SessionID)
}

func TestRecordAndListEvents(t *testing.T) {
	dao := setupTestDAO(t)
	ctx := context.Background()

	events := []EventRow{
		{SessionID: "s-1", GroupLabel: "Show A", Path: "/media/TV/Show A", State: "deleted", Bytes: 1024, CreateTime: 10},
		{SessionID: "s-1", GroupLabel: "Show B", Path: "/media/TV/Show B", State: "skipped_filter", Reason: "name filter", CreateTime: 11},
		{SessionID: "s-2", GroupLabel: "Show C", Path: "/media/TV/Show C", State: "failed", Reason: "permission denied", CreateTime: 12},
	}
	for _, ev := range events {
		assert.NoError(t, dao.RecordEvent(ctx, ev))
	}

	got, err := dao.ListEvents(ctx, "s-1")
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Show A", got[0].GroupLabel)
	assert.Equal(t, "deleted", got[0].State)
	assert.Equal(t, int64(1024), got[0].Bytes)
	assert.Equal(t, "skipped_filter", got[1].State)

	got, err = dao.ListEvents(ctx, "s-3")
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewSessionDAOUsesDefault(t *testing.T) {
	SetDefault(nil)
	_, err := NewSessionDAO()
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "audit.db")
	handle, err := Open(file)
	assert.NoError(t, err)
	t.Cleanup(func() {
		SetDefault(nil)
		_ = handle.Close()
	})
	assert.NoError(t, EnsureSchema(context.Background(), handle))
	SetDefault(handle)

	dao, err := NewSessionDAO()
	assert.NoError(t, err)
	assert.NoError(t, dao.RecordSession(context.Background(), SessionRow{SessionID: "s-1", Mode: "automatic"}))
	rows, err := dao.ListSessions(context.Background(), ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRecordEventDefaultsCreateTime(t *testing.T) {
	dao := setupTestDAO(t)
	ctx := context.Background()

	assert.NoError(t, dao.RecordEvent(ctx, EventRow{SessionID: "s-1", GroupLabel: "g", Path: "/p", State: "deleted"}))
	got, err := dao.ListEvents(ctx, "s-1")
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NotZero(t, got[0].CreateTime)
}
