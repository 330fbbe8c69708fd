package main

import (
	"fmt"
	"slices"
	"strings"
)

// planTable resolves every column of a source table to its MySQL definition.
// Warnings raised by the translators are collected on the plan.
func planTable(src SourceTable, opts TranslateOptions) *TablePlan {
	plan := &TablePlan{Name: src.Name}
	warn := func(format string, args ...any) {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(format, args...))
	}

	type pkCol struct {
		name    string
		ordinal int
		pos     int
	}
	var pkCols []pkCol

	for i, col := range src.Columns {
		mysqlType := mapColumnType(col, src.Name, opts, warn)
		tc := TargetColumn{Name: col.Name, Type: mysqlType}

		if isAutoIncrementType(mysqlType) {
			plan.AutoIncrementColumn = col.Name
			tc.Default = omitDefault()
		} else {
			tc.NotNull = col.NotNull
			tc.Default = mapColumnDefault(col, mysqlType, src.Name, warn)
		}
		plan.Columns = append(plan.Columns, tc)

		if col.PKOrdinal > 0 {
			pkCols = append(pkCols, pkCol{name: col.Name, ordinal: col.PKOrdinal, pos: i})
		}
	}

	slices.SortStableFunc(pkCols, func(a, b pkCol) int {
		if a.ordinal != b.ordinal {
			return a.ordinal - b.ordinal
		}
		return a.pos - b.pos
	})
	for _, pc := range pkCols {
		plan.PrimaryKey = append(plan.PrimaryKey, pc.name)
	}

	return plan
}

// mysqlIdent quotes a MySQL identifier with backticks.
func mysqlIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// sqliteIdent quotes a SQLite identifier with double quotes.
func sqliteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quotedColumnList joins column names with MySQL quoting.
func quotedColumnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = mysqlIdent(c)
	}
	return strings.Join(quoted, ", ")
}
