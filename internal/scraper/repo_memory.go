package scraper

import (
	"context"
	"sort"
	"sync"

	"causelist-backend/internal/causelist"
)

// MemoryRepo is an in-memory implementation of Repo for dev mode and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	cases []causelist.Case
	logs  []RunLog
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// SaveCourtCases stores one court's batch atomically.
func (r *MemoryRepo) SaveCourtCases(ctx context.Context, cases []causelist.Case) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases = append(r.cases, cases...)
	return len(cases), nil
}

// RecordLog appends a run-log entry.
func (r *MemoryRepo) RecordLog(ctx context.Context, entry RunLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
	return nil
}

// LatestLog returns the most recent run-log entry.
func (r *MemoryRepo) LatestLog(ctx context.Context) (RunLog, error) {
	if err := ctx.Err(); err != nil {
		return RunLog{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.logs) == 0 {
		return RunLog{}, ErrNoRuns
	}
	return r.logs[len(r.logs)-1], nil
}

// ListLogs returns run-log entries, most recent first.
func (r *MemoryRepo) ListLogs(ctx context.Context, limit int) ([]RunLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	logs := make([]RunLog, len(r.logs))
	copy(logs, r.logs)
	r.mu.RUnlock()

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	if limit < len(logs) {
		logs = logs[:limit]
	}
	return logs, nil
}

// CountCases returns the total number of stored cases.
func (r *MemoryRepo) CountCases(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cases), nil
}

// Cases returns a copy of all stored cases. Test helper.
func (r *MemoryRepo) Cases() []causelist.Case {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]causelist.Case, len(r.cases))
	copy(out, r.cases)
	return out
}

var _ Repo = (*MemoryRepo)(nil)
