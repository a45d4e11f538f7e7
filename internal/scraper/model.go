package scraper

import "time"

// Status is the terminal outcome of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailure Status = "failure"
	StatusStopped Status = "stopped"
)

// RunLog is the persistent record of one fetch run. Terminal fields are set
// at run end and never mutated afterwards.
type RunLog struct {
	ID               string    `json:"id"`
	Status           Status    `json:"status"`
	RecordsExtracted int       `json:"records_extracted"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	RunDate          time.Time `json:"run_date"`
	CreatedAt        time.Time `json:"created_at"`
}

// StatusSnapshot is a materialized view over run history for status queries.
type StatusSnapshot struct {
	Status              string     `json:"status"`
	LastRun             *time.Time `json:"last_run"`
	LastStatus          string     `json:"last_status,omitempty"`
	TotalRecords        int        `json:"total_records"`
	LastExtractionCount int        `json:"last_extraction_count"`
}

// CourtSummary describes one court discovered to have a cause list.
type CourtSummary struct {
	CourtNumber string `json:"court_number"`
	CourtName   string `json:"court_name"`
	Judge       string `json:"judge"`
	URL         string `json:"url"`
	HasData     bool   `json:"has_data"`
}

// DiscoverSummary is the result of a discovery run. Courts holds only the
// courts that have data for the date.
type DiscoverSummary struct {
	Date               string         `json:"date"`
	TotalCourtsChecked int            `json:"total_courts_checked"`
	CourtsWithData     int            `json:"courts_with_data"`
	Courts             []CourtSummary `json:"courts"`
}

// CourtResult records the per-court outcome of a fetch run.
type CourtResult struct {
	CourtNumber string `json:"court_number"`
	Success     bool   `json:"success"`
	CasesSaved  int    `json:"cases_saved"`
	Error       string `json:"error,omitempty"`
}

// FetchSummary is the result of a fetch run. CourtsProcessed counts only
// courts whose persistence succeeded.
type FetchSummary struct {
	TotalCasesSaved int           `json:"total_cases_saved"`
	CourtsProcessed int           `json:"courts_processed"`
	Status          Status        `json:"status"`
	Results         []CourtResult `json:"results"`
}
