package main

import (
	"strings"
	"testing"
)

func discardWarnings(string, ...any) {}

func TestMapColumnType(t *testing.T) {
	opts := TranslateOptions{
		Booleans: newBooleanOverrides(map[string][]string{
			"files":    {"is_symbolic"},
			"entities": {"reference_count"},
		}),
		ColumnTypes: map[string]string{"users.email": "VARCHAR(255)"},
	}

	tests := []struct {
		name  string
		table string
		col   ColumnSchema
		want  string
	}{
		{"override on text column", "files", ColumnSchema{Name: "is_symbolic", Type: "TEXT"}, "TINYINT(1)"},
		{"override on integer column", "entities", ColumnSchema{Name: "reference_count", Type: "INTEGER"}, "TINYINT(1)"},
		{"override beats id pk", "entities", ColumnSchema{Name: "reference_count", Type: "INTEGER", PKOrdinal: 1}, "TINYINT(1)"},
		{"override is per table", "other", ColumnSchema{Name: "is_symbolic", Type: "TEXT"}, "LONGTEXT"},
		{"BOOL", "t", ColumnSchema{Name: "active", Type: "BOOL"}, "TINYINT(1)"},
		{"boolean lowercase", "t", ColumnSchema{Name: "active", Type: "boolean"}, "TINYINT(1)"},
		{"column_types override", "users", ColumnSchema{Name: "email", Type: "TEXT"}, "VARCHAR(255)"},
		{"INTEGER id pk", "t", ColumnSchema{Name: "id", Type: "INTEGER", PKOrdinal: 1}, "BIGINT AUTO_INCREMENT"},
		{"ID uppercase pk", "t", ColumnSchema{Name: "ID", Type: "int", PKOrdinal: 1}, "BIGINT AUTO_INCREMENT"},
		{"id not pk", "t", ColumnSchema{Name: "id", Type: "INTEGER"}, "BIGINT"},
		{"integer pk not named id", "t", ColumnSchema{Name: "user_id", Type: "INTEGER", PKOrdinal: 1}, "BIGINT"},
		{"BIGINT", "t", ColumnSchema{Name: "n", Type: "BIGINT"}, "BIGINT"},
		{"INT substring", "t", ColumnSchema{Name: "n", Type: "UNSIGNED BIG INT"}, "BIGINT"},
		{"POINT contains INT", "t", ColumnSchema{Name: "p", Type: "POINT"}, "BIGINT"},
		{"REAL", "t", ColumnSchema{Name: "r", Type: "REAL"}, "DOUBLE"},
		{"FLOAT", "t", ColumnSchema{Name: "r", Type: "float"}, "DOUBLE"},
		{"DOUBLE", "t", ColumnSchema{Name: "r", Type: "DOUBLE"}, "DOUBLE"},
		{"TEXT", "t", ColumnSchema{Name: "s", Type: "TEXT"}, "LONGTEXT"},
		{"untyped", "t", ColumnSchema{Name: "s", Type: ""}, "LONGTEXT"},
		{"BLOB", "t", ColumnSchema{Name: "b", Type: "BLOB"}, "LONGBLOB"},
		{"DATETIME", "t", ColumnSchema{Name: "d", Type: "DATETIME"}, "TIMESTAMP(6)"},
		{"TIMESTAMP", "t", ColumnSchema{Name: "d", Type: "timestamp"}, "TIMESTAMP(6)"},
		{"JSON", "t", ColumnSchema{Name: "j", Type: "JSON"}, "JSON"},
		{"UUID", "t", ColumnSchema{Name: "u", Type: "UUID"}, "CHAR(36)"},
		{"unknown VARCHAR", "t", ColumnSchema{Name: "v", Type: "VARCHAR(255)"}, "LONGTEXT"},
		{"unknown DATE", "t", ColumnSchema{Name: "d", Type: "DATE"}, "LONGTEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapColumnType(tt.col, tt.table, opts, discardWarnings)
			if got != tt.want {
				t.Errorf("mapColumnType(%q %q) = %q, want %q", tt.col.Name, tt.col.Type, got, tt.want)
			}
		})
	}
}

func TestMapColumnType_JSONAsLongtext(t *testing.T) {
	opts := TranslateOptions{JSONAsLongtext: true}
	got := mapColumnType(ColumnSchema{Name: "j", Type: "JSON"}, "t", opts, discardWarnings)
	if got != "LONGTEXT" {
		t.Errorf("mapColumnType(JSON, json_as_longtext) = %q, want LONGTEXT", got)
	}
}

func TestMapColumnType_UnknownWarns(t *testing.T) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, format)
	}

	got := mapColumnType(ColumnSchema{Name: "shape", Type: "GEOMETRY"}, "maps", TranslateOptions{}, warn)
	if got != "LONGTEXT" {
		t.Fatalf("mapColumnType(GEOMETRY) = %q, want LONGTEXT", got)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unhandled SQLite type") {
		t.Fatalf("warnings = %v, want one unhandled-type warning", warnings)
	}

	warnings = nil
	mapColumnType(ColumnSchema{Name: "s", Type: "TEXT"}, "maps", TranslateOptions{}, warn)
	if len(warnings) != 0 {
		t.Fatalf("known type should not warn, got %v", warnings)
	}
}

func TestMapColumnType_Deterministic(t *testing.T) {
	col := ColumnSchema{Name: "id", Type: "INTEGER", PKOrdinal: 1}
	first := mapColumnType(col, "t", TranslateOptions{}, discardWarnings)
	for i := 0; i < 10; i++ {
		if got := mapColumnType(col, "t", TranslateOptions{}, discardWarnings); got != first {
			t.Fatalf("mapColumnType not deterministic: %q vs %q", got, first)
		}
	}
}

func TestBooleanOverrides(t *testing.T) {
	b := newBooleanOverrides(map[string][]string{"metadata": {"is_public"}})
	if !b.Has("metadata", "is_public") {
		t.Error("Has(metadata, is_public) = false, want true")
	}
	if b.Has("metadata", "is_private") {
		t.Error("Has(metadata, is_private) = true, want false")
	}
	if b.Has("files", "is_public") {
		t.Error("Has(files, is_public) = true, want false")
	}

	var zero BooleanOverrides
	if zero.Has("any", "col") {
		t.Error("zero BooleanOverrides should match nothing")
	}
}

func TestTimestampPrecision(t *testing.T) {
	tests := []struct{ in, want string }{
		{"TIMESTAMP(6)", "(6)"},
		{"DATETIME(3)", "(3)"},
		{"TIMESTAMP", ""},
		{"DATETIME()", ""},
	}
	for _, tt := range tests {
		if got := timestampPrecision(tt.in); got != tt.want {
			t.Errorf("timestampPrecision(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
