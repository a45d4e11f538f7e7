package scraper

import "errors"

var (
	// ErrAlreadyRunning rejects a trigger while another run is active.
	ErrAlreadyRunning = errors.New("a scraper run is already in progress")

	// ErrInvalidDate rejects a trigger with a missing or unparseable date.
	ErrInvalidDate = errors.New("invalid or missing target date")

	// ErrNoRuns is returned by LatestLog when no run has ever been recorded.
	ErrNoRuns = errors.New("no runs recorded")

	// ErrStorageUnavailable wraps connection-level persistence failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
