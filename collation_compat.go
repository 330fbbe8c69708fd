package main

import (
	"fmt"
	"strings"
)

// checkCharsetCollation rejects a collation that does not belong to the
// configured character set, e.g. charset=utf8mb4 with collation=latin1_bin.
func checkCharsetCollation(charset, collation string) error {
	cs := strings.ToLower(charset)
	co := strings.ToLower(collation)
	if co == cs+"_bin" || strings.HasPrefix(co, cs+"_") {
		return nil
	}
	// utf8 is an alias of utf8mb3 and accepts either collation prefix.
	if (cs == "utf8" && strings.HasPrefix(co, "utf8mb3_")) || (cs == "utf8mb3" && strings.HasPrefix(co, "utf8_")) {
		return nil
	}
	return fmt.Errorf("target.collation %q does not belong to target.charset %q", collation, charset)
}

// collectCharsetWarnings reports charset choices that can silently lose data
// when copying SQLite text, which is always UTF-8 with full 4-byte range.
func collectCharsetWarnings(charset, collation string) []string {
	var warnings []string
	switch strings.ToLower(charset) {
	case "utf8", "utf8mb3":
		warnings = append(warnings, fmt.Sprintf(
			"charset %s stores at most 3 bytes per character; 4-byte characters (emoji, some CJK) will be rejected, consider utf8mb4",
			charset))
	case "utf8mb4":
	default:
		warnings = append(warnings, fmt.Sprintf(
			"charset %s is not a Unicode charset; non-representable SQLite text will fail to insert", charset))
	}
	if strings.HasSuffix(strings.ToLower(collation), "_ci") {
		warnings = append(warnings, fmt.Sprintf(
			"collation %s is case-insensitive; SQLite compares text case-sensitively by default, so primary keys differing only by case will collide",
			collation))
	}
	return warnings
}
