package causelist

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Patterns for the PDF cause-list layout. Case numbers look like
// "W.P/12345/2025" with an optional sub-type segment.
var (
	pdfCourtPattern     = regexp.MustCompile(`COURT\s+NO\.\s+(\d+\s*[a-zA-Z]?)`)
	pdfMainCasePattern  = regexp.MustCompile(`^(\d+)\s+([A-Z]+(?:[/ ][A-Za-z0-9]+)?)[/ ](\d+)/(\d+)\s+(.*)`)
	pdfConnCasePattern  = regexp.MustCompile(`^\s*(?:AND)?\s*([A-Z]+(?:[/ ][A-Za-z0-9]+)?)[/ ](\d+)/(\d+)\s+(.*)`)
	pdfAdvocatePattern  = regexp.MustCompile(`\s+(M/S\.|Mr\.|Ms\.|Mrs\.|Dr\.|Adv\.)`)
	pdfVersusPattern    = regexp.MustCompile(`(?i)\bVS\b`)
	pdfLeadingDashes    = regexp.MustCompile(`^-+\s*`)
	pdfDoubleSpace      = regexp.MustCompile(`\s{2,}`)
)

// ParsePDF extracts cause-list entries from the published PDF for a date.
// It is the fallback source when the JSON endpoint returns no records. The
// returned entries use the same field names as the JSON payload so the
// sanitizer handles both identically.
func ParsePDF(data []byte, date time.Time) (Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var entries []Entry
	currentCourt := ""

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		lines := strings.Split(text, "\n")
		for _, line := range lines {
			if m := pdfCourtPattern.FindStringSubmatch(line); m != nil {
				currentCourt = "COURT NO. " + strings.TrimSpace(m[1])
			}
		}

		currentSrNo := ""
		for i := 0; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				continue
			}

			var caseType, caseNo, caseYr, rest string
			if m := pdfMainCasePattern.FindStringSubmatch(line); m != nil {
				currentSrNo = m[1]
				caseType, caseNo, caseYr, rest = m[2], m[3], m[4], m[5]
			} else if m := pdfConnCasePattern.FindStringSubmatch(line); m != nil && currentSrNo != "" {
				caseType, caseNo, caseYr, rest = m[1], m[2], m[3], m[4]
			} else {
				continue
			}

			petitioner, advocate := splitPetitionerAdvocate(rest)
			respondent := lookAheadRespondent(lines, i)

			entries = append(entries, Entry{
				"courtno":   currentCourt,
				"serial_no": currentSrNo,
				"mcasetype": strings.ReplaceAll(caseType, " ", "/"),
				"mcaseno":   caseNo,
				"mcaseyr":   caseYr,
				"pname":     petitioner,
				"rname":     respondent,
				"mpadv":     advocate,
			})
		}
	}

	return Document{
		Date:    date.Format("2006-01-02"),
		Entries: entries,
		Raw:     data,
	}, nil
}

// splitPetitionerAdvocate separates the party name from counsel on a case
// line, keying off common advocate honorifics with a double-space fallback.
func splitPetitionerAdvocate(rest string) (string, string) {
	if loc := pdfAdvocatePattern.FindStringIndex(rest); loc != nil {
		petitioner := strings.TrimSpace(rest[:loc[0]])
		advocate := strings.TrimSpace(rest[loc[0]:])
		return petitioner, advocate
	}
	parts := pdfDoubleSpace.Split(rest, 2)
	petitioner := strings.TrimSpace(parts[0])
	advocate := ""
	if len(parts) > 1 {
		advocate = strings.TrimSpace(parts[1])
	}
	return petitioner, advocate
}

// lookAheadRespondent scans the lines after a case line for the "VS"
// separator and the respondent that follows it, stopping at the next case.
func lookAheadRespondent(lines []string, caseIdx int) string {
	foundVS := false
	for j := 1; j <= 5 && caseIdx+j < len(lines); j++ {
		next := strings.TrimSpace(lines[caseIdx+j])
		if pdfMainCasePattern.MatchString(next) || pdfConnCasePattern.MatchString(next) {
			break
		}

		if pdfVersusPattern.MatchString(next) {
			foundVS = true
			parts := pdfVersusPattern.Split(next, 2)
			if len(parts) > 1 {
				respondent := pdfLeadingDashes.ReplaceAllString(strings.TrimSpace(parts[1]), "")
				if len(respondent) > 3 {
					return respondent
				}
			}
			continue
		}

		if foundVS && next != "" {
			return next
		}
	}
	return ""
}
