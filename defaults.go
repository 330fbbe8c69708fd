package main

import (
	"math"
	"strconv"
	"strings"
)

// noLiteralDefaultTypes cannot carry a literal DEFAULT other than NULL in MySQL.
var noLiteralDefaultTypes = map[string]bool{
	"TEXT": true, "TINYTEXT": true, "MEDIUMTEXT": true, "LONGTEXT": true,
	"BLOB": true, "TINYBLOB": true, "MEDIUMBLOB": true, "LONGBLOB": true,
	"JSON": true,
}

var numericTypePrefixes = []string{
	"BIGINT", "INT", "SMALLINT", "MEDIUMINT", "TINYINT",
	"DOUBLE", "FLOAT", "DECIMAL", "NUMERIC",
}

// sourceDefault returns the raw default text, treating an absent default and
// a literal NULL the same way.
func sourceDefault(col ColumnSchema) (string, bool) {
	if col.Default == nil {
		return "", false
	}
	raw := strings.TrimSpace(*col.Default)
	if strings.EqualFold(raw, "NULL") {
		return "", false
	}
	return raw, true
}

// mapColumnDefault translates a SQLite default expression for a column whose
// MySQL type has already been resolved.
func mapColumnDefault(col ColumnSchema, mysqlType, table string, warn warnFunc) DefaultClause {
	upperType := strings.ToUpper(strings.TrimSpace(mysqlType))
	raw, hasDefault := sourceDefault(col)

	if isAutoIncrementType(upperType) {
		return omitDefault()
	}

	if noLiteralDefaultTypes[upperType] || strings.Contains(upperType, "GEOMETRY") {
		if hasDefault {
			warn("MySQL type %s for %s.%s cannot have literal default %s, omitting DEFAULT clause",
				mysqlType, table, col.Name, raw)
			return omitDefault()
		}
		return nullableDefault(col)
	}

	if upperType == typeBoolean {
		if hasDefault {
			switch strings.ToLower(strings.Trim(raw, "'")) {
			case "1", "true":
				return literalDefault("1")
			case "0", "false":
				return literalDefault("0")
			}
			warn("boolean default %s for %s.%s not recognized, omitting", raw, table, col.Name)
		}
		return nullableDefault(col)
	}

	if !hasDefault {
		return nullableDefault(col)
	}

	if hasAnyPrefix(upperType, numericTypePrefixes) {
		num := strings.Trim(raw, `'"`)
		if f, err := strconv.ParseFloat(num, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return literalDefault(num)
		}
		warn("could not parse default %s as number for %s.%s", raw, table, col.Name)
		return omitDefault()
	}

	if strings.HasPrefix(upperType, "CHAR") || strings.HasPrefix(upperType, "VARCHAR") {
		return literalDefault(mysqlLiteral(sqliteStringValue(raw)))
	}

	if strings.HasPrefix(upperType, "TIMESTAMP") || strings.HasPrefix(upperType, "DATETIME") {
		switch strings.ToUpper(strings.Trim(raw, "'")) {
		case "CURRENT_TIMESTAMP", "NOW()":
			return literalDefault("CURRENT_TIMESTAMP" + timestampPrecision(mysqlType))
		}
		if dt, ok := normalizeDatetime(unquoteOnce(raw)); ok {
			return literalDefault(mysqlLiteral(dt))
		}
		warn("could not normalize datetime default %s for %s.%s", raw, table, col.Name)
		return omitDefault()
	}

	warn("default %s for MySQL type %s on %s.%s (NOT NULL: %t) not translated",
		raw, mysqlType, table, col.Name, col.NotNull)
	return omitDefault()
}

// nullableDefault is DEFAULT NULL for nullable columns and no clause otherwise.
func nullableDefault(col ColumnSchema) DefaultClause {
	if col.NotNull {
		return omitDefault()
	}
	return nullDefault()
}

// unquoteOnce strips one layer of surrounding single quotes.
func unquoteOnce(s string) string {
	if len(s) > 1 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// sqliteStringValue returns the text of a quoted SQLite string literal with
// its '' escapes undone. Unquoted input is returned unchanged.
func sqliteStringValue(raw string) string {
	if inner := unquoteOnce(raw); len(inner) != len(raw) {
		return strings.ReplaceAll(inner, "''", "'")
	}
	return raw
}

// mysqlLiteral single-quotes s, doubling embedded quotes.
func mysqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
