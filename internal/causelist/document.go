package causelist

import "time"

// Entry is one raw record from the upstream cause-list payload. Field values
// arrive with inconsistent types (strings, numbers, lists, nulls), so they
// stay untyped until sanitized.
type Entry map[string]any

// Text returns the sanitized string value for a field.
func (e Entry) Text(key string) string {
	return Text(e[key])
}

// Connected returns the connected ("extra") case entries attached to a main
// entry, if any.
func (e Entry) Connected() []Entry {
	raw, ok := e["extra"].([]any)
	if !ok {
		return nil
	}
	var out []Entry
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Entry(m))
		}
	}
	return out
}

// Document is the full cause list fetched for one date. It is immutable once
// fetched and owned by the run that fetched it; it is never persisted.
type Document struct {
	Date    string
	Entries []Entry
	Raw     []byte
}

// Case is a sanitized cause-list record ready for persistence. All text
// fields are storage-safe and never mutated after insert.
type Case struct {
	ID          string
	SrNo        string
	CourtNumber string
	CaseNumber  string
	CaseType    string
	Petitioner  string
	Respondent  string
	Advocate    string
	HearingDate time.Time
	RawText     string
	IsHRCE      bool
	CreatedAt   time.Time
}
