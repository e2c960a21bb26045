// ABOUTME: Date normalization for the heterogeneous formats found in RSS/Atom feeds
// ABOUTME: Tries email-header dates first (with or without a zone), then ISO-8601 variants

package time

import (
	"net/mail"
	"strings"
	"time"
)

// obsZones maps the RFC 2822 obsolete zone names that net/mail reads as +0000
var obsZones = map[string]string{
	"UT":  "+0000",
	"EST": "-0500",
	"EDT": "-0400",
	"CST": "-0600",
	"CDT": "-0500",
	"MST": "-0700",
	"MDT": "-0600",
	"PST": "-0800",
	"PDT": "-0700",
}

// zonelessMailLayouts cover RFC 2822 dates that omit the zone; they read as UTC
var zonelessMailLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04",
	"2 Jan 2006 15:04",
}

// isoLayouts are tried in order after RFC 2822 parsing fails.
// Fractional seconds are accepted by time.Parse without being named in a layout.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// zuluLayout parses a timestamp whose trailing Z was rewritten to +0000
const zuluLayout = "2006-01-02T15:04:05-0700"

// Normalize parses a feed date string into a UTC instant.
// It reports false when no known format matches; it never panics.
func Normalize(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := mail.ParseDate(numericZone(s)); err == nil {
		return t.UTC(), true
	}

	for _, layout := range zonelessMailLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	if strings.HasSuffix(s, "Z") {
		if t, err := time.Parse(zuluLayout, strings.TrimSuffix(s, "Z")+"+0000"); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range isoLayouts {
		// time.Parse treats zoneless input as UTC
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}


// numericZone rewrites a trailing obsolete zone name to its numeric offset
func numericZone(s string) string {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return s
	}
	if offset, ok := obsZones[strings.ToUpper(s[i+1:])]; ok {
		return s[:i+1] + offset
	}
	return s
}
