package causelist

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// hrceKeywords flag cases involving Hindu Religious and Charitable
// Endowments bodies. Matching is case-insensitive.
var hrceKeywords = []string{
	"HRCE",
	"HINDU RELIGIOUS",
	"CHARITABLE ENDOWMENTS",
	"TEMPLE",
	"DEVASTHANAM",
	"DEVASWOM",
	"MUTT",
	"RELIGIOUS TRUST",
	"DHARMADA",
	"ARULMIGU",
}

// Text coerces an arbitrary upstream value into a storage-safe string. It is
// total (never fails) and idempotent: nil and missing values become "",
// lists are joined with ", ", numbers are stringified, and all strings are
// trimmed, stripped of control characters, and have inner whitespace
// collapsed.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return cleanString(val)
	case []any:
		var parts []string
		for _, item := range val {
			if cleaned := Text(item); cleaned != "" {
				parts = append(parts, cleaned)
			}
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	default:
		return cleanString(strings.TrimSpace(stringify(val)))
	}
}

func stringify(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// cleanString strips control characters and invalid UTF-8, then collapses
// runs of whitespace into single spaces.
func cleanString(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// CaseNumber builds the canonical case number from its parts, skipping empty
// segments: "WP" + "12345" + "2025" -> "WP/12345/2025".
func CaseNumber(caseType, number, year string) string {
	var parts []string
	for _, p := range []string{caseType, number, year} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// DetectHRCE reports whether the text references an HRCE-related party.
func DetectHRCE(text string) bool {
	if text == "" {
		return false
	}
	upper := strings.ToUpper(text)
	for _, kw := range hrceKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// Judge extracts a presentable judge name from an entry, dropping honorific
// prefixes the upstream embeds.
func Judge(e Entry) string {
	name := e.Text("judge1")
	if name == "" {
		return "Unknown"
	}
	name = strings.ReplaceAll(name, "The Honourable", "")
	name = strings.ReplaceAll(name, "Mr.Justice", "")
	name = strings.ReplaceAll(name, "Mrs.Justice", "")
	return strings.TrimSpace(strings.Join(strings.Fields(name), " "))
}

// CasesFromEntry sanitizes one upstream entry into Case records: the main
// case plus any connected cases. It never fails; malformed fields coerce to
// empty strings. ID and CreatedAt are left for the caller to assign.
func CasesFromEntry(e Entry, hearingDate time.Time) []Case {
	courtNumber := e.Text("courtno")
	srNo := e.Text("serial_no")

	caseType := e.Text("mcasetype")
	caseNumber := CaseNumber(caseType, e.Text("mcaseno"), e.Text("mcaseyr"))
	petitioner := e.Text("pname")
	respondent := e.Text("rname")
	advocate := e.Text("mpadv")
	rawText := Text(srNo + " " + caseNumber + " " + petitioner + " vs " + respondent)

	cases := []Case{{
		SrNo:        srNo,
		CourtNumber: courtNumber,
		CaseNumber:  caseNumber,
		CaseType:    caseType,
		Petitioner:  petitioner,
		Respondent:  respondent,
		Advocate:    advocate,
		HearingDate: hearingDate,
		RawText:     rawText,
		IsHRCE:      DetectHRCE(petitioner) || DetectHRCE(respondent) || DetectHRCE(rawText),
	}}

	for _, extra := range e.Connected() {
		exType := extra.Text("excasetype")
		exNumber := CaseNumber(exType, extra.Text("excaseno"), extra.Text("excaseyr"))
		exPetitioner := extra.Text("expname")
		exRespondent := extra.Text("exrname")
		exRaw := Text("Connected: " + exNumber + " " + exPetitioner + " vs " + exRespondent)

		cases = append(cases, Case{
			SrNo:        srNo,
			CourtNumber: courtNumber,
			CaseNumber:  exNumber,
			CaseType:    exType,
			Petitioner:  exPetitioner,
			Respondent:  exRespondent,
			Advocate:    extra.Text("expadv"),
			HearingDate: hearingDate,
			RawText:     exRaw,
			IsHRCE:      DetectHRCE(exPetitioner) || DetectHRCE(exRespondent) || DetectHRCE(exRaw),
		})
	}

	return cases
}
