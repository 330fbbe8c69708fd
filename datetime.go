package main

import (
	"regexp"
	"strings"
	"time"
)

// canonicalDatetimeLayout is the text form MySQL accepts for TIMESTAMP(6).
const canonicalDatetimeLayout = "2006-01-02 15:04:05.000000"

var (
	monotonicSuffixRe = regexp.MustCompile(`\s+m=[+\-]\d+(?:\.\d+)?$`)
	// ±HH:MM / ±HHMM (optionally with seconds) or Z, then an optional zone name.
	utcOffsetRe = regexp.MustCompile(`^(.*?)(?:\s?(?:[+\-]\d{2}:?\d{2}(?::?\d{2}(?:\.\d+)?)?|Z))(?:\s+[A-Za-z_]+)?$`)
	// Bare ±HH is only an offset when it directly follows a time of day;
	// otherwise "2024-01-05" would lose its day.
	shortOffsetRe = regexp.MustCompile(`^(.*\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?)\s?[+\-]\d{2}(?:\s+[A-Za-z_]+)?$`)
	dateOnlyRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
)

// normalizeDatetime rewrites a textual timestamp into "YYYY-MM-DD HH:MM:SS.ffffff".
// Any UTC offset or zone name is discarded without conversion. The boolean
// is false for blank input; unrecognized shapes are returned as-is for the
// target engine to accept or reject.
func normalizeDatetime(value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}

	cleaned := strings.TrimSpace(monotonicSuffixRe.ReplaceAllString(value, ""))

	part := cleaned
	if m := utcOffsetRe.FindStringSubmatch(cleaned); m != nil {
		part = strings.TrimSpace(m[1])
	} else if m := shortOffsetRe.FindStringSubmatch(cleaned); m != nil {
		part = strings.TrimSpace(m[1])
	} else if strings.HasSuffix(cleaned, "Z") {
		part = strings.TrimSpace(strings.TrimSuffix(cleaned, "Z"))
	}

	part = strings.ReplaceAll(part, "T", " ")

	if base, frac, ok := strings.Cut(part, "."); ok {
		return base + "." + sixDigitFraction(frac), true
	}
	switch {
	case dateOnlyRe.MatchString(part):
		return part + " 00:00:00.000000", true
	case dateTimeRe.MatchString(part):
		return part + ".000000", true
	}
	return part, true
}

// sixDigitFraction keeps the ASCII digits of frac, truncated or right-padded to six.
func sixDigitFraction(frac string) string {
	var b strings.Builder
	for i := 0; i < len(frac) && b.Len() < 6; i++ {
		if frac[i] >= '0' && frac[i] <= '9' {
			b.WriteByte(frac[i])
		}
	}
	for b.Len() < 6 {
		b.WriteByte('0')
	}
	return b.String()
}

// formatDatetime renders a driver-decoded time as naive wall clock, matching
// what normalizeDatetime does with textual offsets.
func formatDatetime(t time.Time) string {
	return t.Format(canonicalDatetimeLayout)
}
