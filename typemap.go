package main

import (
	"fmt"
	"strings"
)

// MySQL type names produced by the type translator.
const (
	typeBoolean       = "TINYINT(1)"
	typeAutoIncrement = "BIGINT AUTO_INCREMENT"
	typeBigint        = "BIGINT"
	typeDouble        = "DOUBLE"
	typeLongtext      = "LONGTEXT"
	typeLongblob      = "LONGBLOB"
	typeTimestamp     = "TIMESTAMP(6)"
	typeJSON          = "JSON"
	typeUUID          = "CHAR(36)"
)

// warnFunc receives non-fatal translation warnings.
type warnFunc func(format string, args ...any)

// BooleanOverrides is the read-only set of (table, column) pairs forced to
// TINYINT(1) regardless of their declared SQLite type.
type BooleanOverrides struct {
	cols map[string]map[string]struct{}
}

func newBooleanOverrides(byTable map[string][]string) BooleanOverrides {
	cols := make(map[string]map[string]struct{}, len(byTable))
	for table, names := range byTable {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
		}
		cols[table] = set
	}
	return BooleanOverrides{cols: cols}
}

// Has reports whether table.column is registered as boolean.
func (b BooleanOverrides) Has(table, column string) bool {
	_, ok := b.cols[table][column]
	return ok
}

// TranslateOptions carries the static configuration consulted by the
// translators. It is built once at startup and never mutated.
type TranslateOptions struct {
	Booleans       BooleanOverrides
	ColumnTypes    map[string]string // "table.column" -> MySQL type
	JSONAsLongtext bool
	Binary16AsUUID bool
}

func translateOptionsFromConfig(cfg *MigrationConfig) TranslateOptions {
	return TranslateOptions{
		Booleans:       newBooleanOverrides(cfg.BooleanColumns),
		ColumnTypes:    cfg.ColumnTypes,
		JSONAsLongtext: cfg.TypeMapping.JSONAsLongtext,
		Binary16AsUUID: cfg.TypeMapping.Binary16AsUUID,
	}
}

// baseType strips a parameter list from an upper-cased declared type,
// e.g. "VARCHAR(255)" -> "VARCHAR".
func baseType(declared string) string {
	dt := strings.TrimSpace(declared)
	if idx := strings.IndexByte(dt, '('); idx >= 0 {
		dt = dt[:idx]
	}
	return strings.Join(strings.Fields(dt), " ")
}

// mapColumnType returns the MySQL type for a SQLite column.
func mapColumnType(col ColumnSchema, table string, opts TranslateOptions, warn warnFunc) string {
	declared := strings.ToUpper(strings.TrimSpace(col.Type))
	if declared == "" {
		declared = "TEXT"
	}
	base := baseType(declared)

	if opts.Booleans.Has(table, col.Name) || base == "BOOL" || base == "BOOLEAN" {
		return typeBoolean
	}
	if t, ok := opts.ColumnTypes[table+"."+col.Name]; ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}

	isInt := strings.Contains(declared, "INT")
	switch {
	case isInt && strings.EqualFold(col.Name, "id") && col.PKOrdinal > 0:
		return typeAutoIncrement
	case isInt:
		return typeBigint
	}

	switch base {
	case "REAL", "FLOAT", "DOUBLE", "DOUBLE PRECISION":
		return typeDouble
	case "TEXT":
		return typeLongtext
	case "BLOB":
		return typeLongblob
	case "DATETIME", "TIMESTAMP":
		return typeTimestamp
	case "JSON":
		if opts.JSONAsLongtext {
			return typeLongtext
		}
		return typeJSON
	case "UUID":
		return typeUUID
	}

	warn("unhandled SQLite type %q for %s.%s, defaulting to %s", col.Type, table, col.Name, typeLongtext)
	return typeLongtext
}

// isAutoIncrementType reports whether a MySQL type string carries AUTO_INCREMENT.
func isAutoIncrementType(mysqlType string) bool {
	return strings.Contains(strings.ToUpper(mysqlType), "AUTO_INCREMENT")
}

// timestampPrecision returns the "(n)" suffix of a temporal type, or "".
func timestampPrecision(mysqlType string) string {
	open := strings.IndexByte(mysqlType, '(')
	end := strings.IndexByte(mysqlType, ')')
	if open < 0 || end <= open+1 {
		return ""
	}
	var n int
	if _, err := fmt.Sscanf(mysqlType[open+1:end], "%d", &n); err != nil {
		return ""
	}
	return fmt.Sprintf("(%d)", n)
}
