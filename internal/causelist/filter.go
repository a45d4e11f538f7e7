package causelist

import (
	"regexp"
	"strconv"
	"strings"
)

// specialCourts are hearing units identified by name rather than number.
var specialCourts = []string{
	"VIDEO CONFERENCING",
}

var courtNumberPattern = regexp.MustCompile(`(\d+)`)

// FilterCourt returns the entries belonging to the given court. It is a pure
// function over the in-memory document; an empty result means the court has
// no cases for the date, which is a valid outcome, not an error.
//
// Numeric identifiers are compared as integers so that court "1" never
// matches "COURT NO. 11". Special courts ("VIDEO CONFERENCING") match by
// name.
func FilterCourt(doc Document, court string) []Entry {
	target := strings.TrimSpace(court)
	if target == "" {
		return nil
	}

	targetID, hasTargetID := extractCourtID(target)
	targetName := strings.ToUpper(target)

	var out []Entry
	for _, e := range doc.Entries {
		entryCourt := e.Text("courtno")
		if entryCourt == "" {
			continue
		}

		entryID, hasEntryID := extractCourtID(entryCourt)

		switch {
		case hasTargetID && hasEntryID:
			if targetID == entryID {
				out = append(out, e)
			}
		case !hasTargetID:
			if strings.Contains(strings.ToUpper(entryCourt), targetName) {
				out = append(out, e)
			}
		}
	}
	return out
}

// extractCourtID pulls the numeric identifier out of a court label. Special
// courts carry no numeric identifier even when their names contain digits.
func extractCourtID(court string) (int, bool) {
	upper := strings.ToUpper(court)
	for _, special := range specialCourts {
		if strings.Contains(upper, special) {
			return 0, false
		}
	}
	m := courtNumberPattern.FindString(court)
	if m == "" {
		return 0, false
	}
	id, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return id, true
}
