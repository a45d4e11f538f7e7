package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"causelist-backend/internal/causelist"
	"causelist-backend/internal/shared/metrics"
	"causelist-backend/internal/shared/storage/object"
	"causelist-backend/internal/shared/telemetry"
)

// Fetcher retrieves cause-list data from the upstream source.
type Fetcher interface {
	FetchCauseList(ctx context.Context, date time.Time) (causelist.Document, error)
	AvailableDates(ctx context.Context) ([]string, error)
	FetchPDF(ctx context.Context, date time.Time) ([]byte, error)
}

// Service coordinates scraper runs: it fetches the cause list once per run,
// iterates the requested courts sequentially, persists per court, updates
// live progress, and honors stop requests at court boundaries. At most one
// run executes at a time.
type Service struct {
	Repo        Repo
	Fetcher     Fetcher
	Progress    *Progress
	Archive     object.Store // optional raw-payload archive
	PDFFallback bool
}

// NewService constructs a Service with a fresh Progress.
func NewService(repo Repo, fetcher Fetcher) *Service {
	return &Service{
		Repo:     repo,
		Fetcher:  fetcher,
		Progress: NewProgress(),
	}
}

// Discover determines which courts in [start, end] have cause lists for the
// date. No cases are persisted. Rejects with ErrAlreadyRunning while another
// run is active.
func (s *Service) Discover(ctx context.Context, date time.Time, start, end int) (DiscoverSummary, error) {
	if date.IsZero() {
		return DiscoverSummary{}, ErrInvalidDate
	}
	if start < 1 {
		start = 1
	}
	if end < start {
		end = start
	}

	if err := s.Progress.Start(); err != nil {
		return DiscoverSummary{}, err
	}
	defer s.Progress.Finish()

	dateStr := date.Format("2006-01-02")
	s.log("Starting court discovery for " + dateStr + "...")

	doc, err := s.fetchDocument(ctx, date)
	if err != nil {
		s.log("Failed to fetch data: " + err.Error())
		return DiscoverSummary{}, err
	}
	s.log(fmt.Sprintf("Successfully fetched %d records. Analyzing courts...", len(doc.Entries)))

	summary := DiscoverSummary{
		Date:               dateStr,
		TotalCourtsChecked: end - start + 1,
	}

	for n := start; n <= end; n++ {
		if s.Progress.StopRequested() {
			s.log("Discovery stopped by user request.")
			break
		}

		entries := causelist.FilterCourt(doc, strconv.Itoa(n))
		if len(entries) == 0 {
			continue
		}

		courtID := fmt.Sprintf("%02d", n)
		summary.Courts = append(summary.Courts, CourtSummary{
			CourtNumber: courtID,
			CourtName:   "COURT NO. " + courtID,
			Judge:       causelist.Judge(entries[0]),
			HasData:     true,
		})
	}

	summary.CourtsWithData = len(summary.Courts)
	s.log(fmt.Sprintf("Discovery complete. Found %d active courts.", summary.CourtsWithData))
	return summary, nil
}

// FetchCourts persists sanitized cases for the requested courts, in the
// order supplied. The upstream document is fetched exactly once; each
// court's batch commits independently, so one court's failure never rolls
// back another's. A terminal RunLog row is always written once the fetch
// itself has succeeded.
func (s *Service) FetchCourts(ctx context.Context, date time.Time, courts []string) (FetchSummary, error) {
	if date.IsZero() {
		return FetchSummary{}, ErrInvalidDate
	}

	if err := s.Progress.Start(); err != nil {
		return FetchSummary{}, err
	}
	defer s.Progress.Finish()

	metrics.IncRunStarted()
	runStart := time.Now()
	defer func() {
		metrics.ObserveRunDurationMs(float64(time.Since(runStart).Milliseconds()))
	}()

	dateStr := date.Format("2006-01-02")
	s.log(fmt.Sprintf("Starting data fetch for %d courts on %s...", len(courts), dateStr))

	doc, err := s.fetchDocument(ctx, date)
	if err != nil {
		s.log("Fetch failed: " + err.Error())
		metrics.IncRunOutcome(string(StatusFailure))
		s.recordLog(ctx, RunLog{
			Status:       StatusFailure,
			ErrorMessage: err.Error(),
			RunDate:      date,
		})
		return FetchSummary{}, err
	}
	s.log(fmt.Sprintf("Successfully fetched %d records from upstream", len(doc.Entries)))

	s.archiveRaw(ctx, doc)

	summary := FetchSummary{Status: StatusSuccess}
	stopped := false
	failed := 0

	for _, court := range courts {
		if s.Progress.StopRequested() {
			s.log("Scraper stopped by user request.")
			stopped = true
			break
		}

		court = strings.TrimSpace(court)
		if court == "" {
			continue
		}

		entries := causelist.FilterCourt(doc, court)
		var cases []causelist.Case
		now := time.Now().UTC()
		for _, e := range entries {
			for _, c := range causelist.CasesFromEntry(e, date) {
				c.ID = uuid.NewString()
				c.CreatedAt = now
				cases = append(cases, c)
			}
		}

		if len(cases) == 0 {
			s.log("Court " + court + ": no cases found")
			summary.CourtsProcessed++
			summary.Results = append(summary.Results, CourtResult{
				CourtNumber: court,
				Success:     true,
			})
			continue
		}

		saved, err := s.Repo.SaveCourtCases(ctx, cases)
		if err != nil {
			failed++
			s.log(fmt.Sprintf("Court %s ERROR: %v", court, err))
			summary.Results = append(summary.Results, CourtResult{
				CourtNumber: court,
				Error:       err.Error(),
			})
			continue
		}

		summary.TotalCasesSaved += saved
		summary.CourtsProcessed++
		summary.Results = append(summary.Results, CourtResult{
			CourtNumber: court,
			Success:     true,
			CasesSaved:  saved,
		})
		s.log(fmt.Sprintf("Court %s: saved %d cases", court, saved))
	}

	errorMessage := ""
	switch {
	case stopped:
		summary.Status = StatusStopped
		errorMessage = "Stopped by user"
	case failed > 0:
		summary.Status = StatusPartial
		errorMessage = fmt.Sprintf("%d of %d courts failed", failed, len(courts))
	}

	metrics.IncRunOutcome(string(summary.Status))
	metrics.AddCasesSaved(summary.TotalCasesSaved)

	s.recordLog(ctx, RunLog{
		Status:           summary.Status,
		RecordsExtracted: summary.TotalCasesSaved,
		ErrorMessage:     errorMessage,
		RunDate:          date,
	})

	s.log(fmt.Sprintf("Data fetch complete. Total cases saved: %d", summary.TotalCasesSaved))
	return summary, nil
}

// Stop requests cancellation of the active run. The run halts after the
// court it is currently processing; committed courts stay committed. Reports
// whether a run was active.
func (s *Service) Stop() bool {
	if !s.Progress.RequestStop() {
		return false
	}
	s.log("Stop requested by user...")
	return true
}

// LiveProgress returns the current progress snapshot for pollers.
func (s *Service) LiveProgress() Snapshot {
	return s.Progress.Snapshot()
}

// Status materializes the run-status view from the latest run log and the
// total persisted case count.
func (s *Service) Status(ctx context.Context) (StatusSnapshot, error) {
	latest, err := s.Repo.LatestLog(ctx)
	if err != nil {
		if errors.Is(err, ErrNoRuns) {
			return StatusSnapshot{Status: "never_run"}, nil
		}
		return StatusSnapshot{}, err
	}

	total, err := s.Repo.CountCases(ctx)
	if err != nil {
		return StatusSnapshot{}, err
	}

	lastRun := latest.CreatedAt
	return StatusSnapshot{
		Status:              string(latest.Status),
		LastRun:             &lastRun,
		LastStatus:          string(latest.Status),
		TotalRecords:        total,
		LastExtractionCount: latest.RecordsExtracted,
	}, nil
}

// Logs returns run logs, most recent first.
func (s *Service) Logs(ctx context.Context, limit int) ([]RunLog, error) {
	return s.Repo.ListLogs(ctx, limit)
}

// AvailableDates returns the dates published by the upstream source.
func (s *Service) AvailableDates(ctx context.Context) ([]string, error) {
	return s.Fetcher.AvailableDates(ctx)
}

// fetchDocument retrieves the cause list, optionally falling back to the
// published PDF when the JSON endpoint has no records.
func (s *Service) fetchDocument(ctx context.Context, date time.Time) (causelist.Document, error) {
	doc, err := s.Fetcher.FetchCauseList(ctx, date)
	if err != nil {
		return causelist.Document{}, err
	}
	if len(doc.Entries) > 0 || !s.PDFFallback {
		return doc, nil
	}

	s.log("JSON endpoint returned 0 records; trying PDF fallback...")
	data, err := s.Fetcher.FetchPDF(ctx, date)
	if err != nil {
		s.log("PDF fallback unavailable: " + err.Error())
		return doc, nil
	}
	pdfDoc, err := causelist.ParsePDF(data, date)
	if err != nil {
		s.log("PDF fallback unparseable: " + err.Error())
		return doc, nil
	}
	s.log(fmt.Sprintf("Parsed %d entries from PDF fallback", len(pdfDoc.Entries)))
	return pdfDoc, nil
}

// archiveRaw stores the raw upstream payload for auditability. Best effort;
// failures become a log line, never a run failure.
func (s *Service) archiveRaw(ctx context.Context, doc causelist.Document) {
	if s.Archive == nil || len(doc.Raw) == 0 {
		return
	}
	key := "causelists/" + doc.Date + ".json"
	if _, err := s.Archive.Save(ctx, key, "application/json", bytes.NewReader(doc.Raw)); err != nil {
		s.log("Archive failed: " + err.Error())
		return
	}
	s.log("Archived raw payload to " + key)
}

func (s *Service) recordLog(ctx context.Context, entry RunLog) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	if err := s.Repo.RecordLog(ctx, entry); err != nil {
		s.log("Failed to record run log: " + err.Error())
	}
}

func (s *Service) log(line string) {
	s.Progress.Append(line)
	telemetry.Info("scraper.log", map[string]any{"line": line})
}
