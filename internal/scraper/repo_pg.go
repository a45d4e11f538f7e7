package scraper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"causelist-backend/internal/causelist"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// SaveCourtCases inserts one court's batch inside a single transaction.
func (r *PGRepo) SaveCourtCases(ctx context.Context, cases []causelist.Case) (int, error) {
	if len(cases) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", ErrStorageUnavailable, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const query = `
INSERT INTO causes (
    id,
    sr_no,
    court_number,
    case_number,
    case_type,
    petitioner,
    respondent,
    advocate,
    hearing_date,
    raw_text,
    is_hrce,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	for _, c := range cases {
		if _, err = tx.ExecContext(
			ctx,
			query,
			c.ID,
			c.SrNo,
			c.CourtNumber,
			c.CaseNumber,
			c.CaseType,
			c.Petitioner,
			c.Respondent,
			c.Advocate,
			c.HearingDate,
			c.RawText,
			c.IsHRCE,
			c.CreatedAt,
		); err != nil {
			return 0, fmt.Errorf("insert case %s: %w", c.CaseNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrStorageUnavailable, err)
	}
	return len(cases), nil
}

// RecordLog inserts a terminal run-log row.
func (r *PGRepo) RecordLog(ctx context.Context, entry RunLog) error {
	const query = `
INSERT INTO scraper_logs (id, status, records_extracted, error_message, run_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	var errMsg sql.NullString
	if entry.ErrorMessage != "" {
		errMsg = sql.NullString{String: entry.ErrorMessage, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Status,
		entry.RecordsExtracted,
		errMsg,
		entry.RunDate,
		entry.CreatedAt,
	)
	return err
}

// LatestLog returns the most recent run-log row.
func (r *PGRepo) LatestLog(ctx context.Context) (RunLog, error) {
	const query = `
SELECT id, status, records_extracted, error_message, run_date, created_at
FROM scraper_logs
ORDER BY created_at DESC
LIMIT 1`
	entry, err := scanLog(r.DB.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunLog{}, ErrNoRuns
		}
		return RunLog{}, err
	}
	return entry, nil
}

// ListLogs returns run-log rows, most recent first.
func (r *PGRepo) ListLogs(ctx context.Context, limit int) ([]RunLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	const query = `
SELECT id, status, records_extracted, error_message, run_date, created_at
FROM scraper_logs
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunLog
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// CountCases returns the total number of persisted cases.
func (r *PGRepo) CountCases(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM causes`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (RunLog, error) {
	var entry RunLog
	var errMsg sql.NullString
	if err := row.Scan(
		&entry.ID,
		&entry.Status,
		&entry.RecordsExtracted,
		&errMsg,
		&entry.RunDate,
		&entry.CreatedAt,
	); err != nil {
		return RunLog{}, err
	}
	if errMsg.Valid {
		entry.ErrorMessage = errMsg.String
	}
	return entry, nil
}

var _ Repo = (*PGRepo)(nil)
