package scraper

import (
	"context"

	"causelist-backend/internal/causelist"
)

// Repo defines persistence for sanitized cases and run metadata.
//
// SaveCourtCases commits one court's batch as a single transaction, so a
// failing court rolls back only its own batch and never another court's.
type Repo interface {
	SaveCourtCases(ctx context.Context, cases []causelist.Case) (int, error)
	RecordLog(ctx context.Context, entry RunLog) error
	LatestLog(ctx context.Context) (RunLog, error)
	ListLogs(ctx context.Context, limit int) ([]RunLog, error)
	CountCases(ctx context.Context) (int, error)
}
