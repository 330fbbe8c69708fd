package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQL error numbers called out in insert diagnostics.
const (
	errTruncatedWrongValueForField = 1366 // ER_TRUNCATED_WRONG_VALUE_FOR_FIELD
	errTruncatedWrongValue         = 1292 // ER_TRUNCATED_WRONG_VALUE
	errDataTooLong                 = 1406 // ER_DATA_TOO_LONG
)

// rowIterator is the subset of *sql.Rows used while copying.
type rowIterator interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// targetTx is the subset of *sql.Tx used while copying.
type targetTx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}

// targetConn is the dedicated MySQL connection the whole run executes on.
type targetConn interface {
	targetExecutor
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// migrateTables recreates and fills every selected table, one at a time, and
// returns the plans of the tables that completed.
func migrateTables(ctx context.Context, src *sourceDB, conn targetConn, cfg *MigrationConfig, opts TranslateOptions) ([]*TablePlan, error) {
	names, err := src.listTables(ctx)
	if err != nil {
		return nil, err
	}
	names, err = selectTables(names, cfg.Tables)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		log.Printf("no user tables found in SQLite dump")
		return nil, nil
	}
	log.Printf("found %d tables: %s", len(names), strings.Join(names, ", "))

	var migrated []*TablePlan
	for _, name := range names {
		log.Printf("table %s", mysqlIdent(name))

		st, err := src.introspectTable(ctx, name)
		if err != nil {
			return migrated, err
		}
		if len(st.Columns) == 0 {
			log.Printf("  WARN: could not get schema for %s, skipping", name)
			continue
		}

		plan := planTable(st, opts)
		for _, w := range plan.Warnings {
			log.Printf("  WARN: %s", w)
		}

		log.Printf("  dropping and creating %s", mysqlIdent(name))
		if err := recreateTable(ctx, conn, plan, cfg.Target.Charset, cfg.Target.Collation); err != nil {
			return migrated, err
		}

		if !cfg.SchemaOnly {
			if err := migrateTableData(ctx, src, conn, plan, opts, cfg.Progress); err != nil {
				return migrated, err
			}
		}
		migrated = append(migrated, plan)
	}
	return migrated, nil
}

// selectTables applies the optional tables filter, keeping its order.
func selectTables(available, wanted []string) ([]string, error) {
	if len(wanted) == 0 {
		return available, nil
	}
	var missing []string
	for _, w := range wanted {
		if !slices.Contains(available, w) {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("tables not found in dump: %s", strings.Join(missing, ", "))
	}
	return wanted, nil
}

// migrateTableData copies all rows of one table inside a single transaction.
func migrateTableData(ctx context.Context, src *sourceDB, conn targetConn, plan *TablePlan, opts TranslateOptions, showProgress bool) error {
	total, err := src.countRows(ctx, plan.Name)
	if err != nil {
		return err
	}

	rows, err := src.selectRows(ctx, plan)
	if err != nil {
		return err
	}
	defer rows.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", plan.Name, err)
	}

	warn := func(format string, args ...any) {
		log.Printf("    WARN: "+format, args...)
	}
	progress := newRowProgress(plan.Name, total, showProgress)
	n, err := copyRows(ctx, tx, rows, plan, newRowCoercer(plan, opts, warn), progress)
	elapsed := progress.Finish()
	if err != nil {
		return err
	}
	log.Printf("  transferred %d rows for %s in %s", n, mysqlIdent(plan.Name), elapsed.Round(time.Millisecond))
	return nil
}

// copyRows inserts every row from rows into the plan's table and commits.
// Any failure rolls the transaction back.
func copyRows(ctx context.Context, tx targetTx, rows rowIterator, plan *TablePlan, coercer *rowCoercer, progress *rowProgress) (int64, error) {
	insertSQL := generateInsert(plan)
	colNames := plan.ColumnNames()

	values := make([]any, len(colNames))
	dest := make([]any, len(colNames))
	for i := range values {
		dest[i] = &values[i]
	}

	var n int64
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			tx.Rollback()
			return n, fmt.Errorf("scan row from %s: %w", plan.Name, err)
		}
		original := slices.Clone(values)
		coercer.coerce(values)

		if _, err := tx.ExecContext(ctx, insertSQL, values...); err != nil {
			logInsertFailure(plan, insertSQL, colNames, values, original, err)
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("    rollback failed: %v", rbErr)
			}
			return n, fmt.Errorf("insert into %s: %w", plan.Name, err)
		}
		n++
		progress.Add(1)
	}
	if err := rows.Err(); err != nil {
		tx.Rollback()
		return n, fmt.Errorf("read rows from %s: %w", plan.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("commit %s: %w", plan.Name, err)
	}
	return n, nil
}

// generateInsert returns the parameterized INSERT for a planned table.
func generateInsert(plan *TablePlan) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(plan.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		mysqlIdent(plan.Name), quotedColumnList(plan.ColumnNames()), placeholders)
}

func logInsertFailure(plan *TablePlan, insertSQL string, colNames []string, bound, original []any, err error) {
	log.Printf("ERROR inserting row into %s", mysqlIdent(plan.Name))
	log.Printf("  SQL template: %s", insertSQL)
	log.Printf("  bound values (%d): %v", len(bound), bound)
	log.Printf("  original SQLite values (%d): %v", len(original), original)
	log.Printf("  columns (%d): %v", len(colNames), colNames)
	if hint := insertErrorHint(err); hint != "" {
		log.Printf("  hint: %s", hint)
	}
}

// insertErrorHint classifies MySQL errors that usually mean a value did not
// survive coercion.
func insertErrorHint(err error) string {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return ""
	}
	switch me.Number {
	case errTruncatedWrongValueForField:
		return fmt.Sprintf("MySQL error %d: likely a data type mismatch or encoding issue for a specific field", me.Number)
	case errTruncatedWrongValue:
		return fmt.Sprintf("MySQL error %d: a value (often a datetime) is not in a format the column accepts", me.Number)
	case errDataTooLong:
		return fmt.Sprintf("MySQL error %d: a value exceeds the column length", me.Number)
	}
	return fmt.Sprintf("MySQL error %d", me.Number)
}
