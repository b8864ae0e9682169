// Package timeutil normalizes the heterogeneous date/time strings found
// in Wildlife Insights exports to ISO-8601 UTC instants.
package timeutil

import (
	"strings"
	"time"

	// Conversions must resolve IANA zones even on hosts without a
	// system zoneinfo database.
	_ "time/tzdata"
)

// ISOFormat is the canonical output layout: second precision, UTC, literal Z.
const ISOFormat = "2006-01-02T15:04:05Z"

// Day-first layouts are tried before anything else: WI field teams in
// Latin America record dates as DD/MM/YYYY, and "15/01/2024" must never
// be rejected just because 15 is not a month.
var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006",
	"02-01-2006",
}

// General layouts cover ISO-ish and month-first exports. Layouts that
// carry a zone offset keep it; the rest are treated as naive local time.
var generalLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006",
}

var zonedLayouts = map[string]bool{
	time.RFC3339: true,
}

// ToISOUTC parses value, localizes naive timestamps with the IANA zone
// tzHint, and returns the instant as "YYYY-MM-DDTHH:MM:SSZ". The second
// return is false when the value is empty or unparsable; callers treat
// that as a null, never as an error here. Required-field checks
// downstream decide whether a missing timestamp is fatal.
//
// Nonexistent local times (DST spring-forward gaps) resolve by forward
// normalization. If tzHint itself cannot be loaded, the naive value is
// taken as already UTC.
func ToISOUTC(value, tzHint string) (string, bool) {
	s := strings.TrimSpace(value)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return "", false
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return localize(t, tzHint), true
		}
	}
	for _, layout := range generalLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if zonedLayouts[layout] {
			return t.UTC().Format(ISOFormat), true
		}
		return localize(t, tzHint), true
	}
	return "", false
}

// localize reinterprets the wall-clock fields of t in the hinted zone and
// converts to UTC. time.Date normalizes instants that fall into a DST gap
// by shifting them forward.
func localize(t time.Time, tzHint string) string {
	loc, err := time.LoadLocation(tzHint)
	if err != nil || tzHint == "" {
		loc = time.UTC
	}
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	return local.UTC().Format(ISOFormat)
}
