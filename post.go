package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// rowScanner is satisfied by *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

// identityQuerier runs the statements needed by the AUTO_INCREMENT fix-up.
type identityQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) rowScanner
}

// connQuerier adapts *sql.Conn to identityQuerier.
type connQuerier struct {
	conn *sql.Conn
}

func (c connQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

func (c connQuerier) QueryRowContext(ctx context.Context, query string, args ...any) rowScanner {
	return c.conn.QueryRowContext(ctx, query, args...)
}

// resetAutoIncrements moves each table's AUTO_INCREMENT counter one past the
// largest identity value copied into it, so rows inserted with explicit ids
// never collide with future inserts.
func resetAutoIncrements(ctx context.Context, q identityQuerier, plans []*TablePlan) error {
	var n int
	for _, plan := range plans {
		if !plan.HasAutoIncrement() {
			continue
		}
		next, err := resetAutoIncrement(ctx, q, plan.Name, plan.AutoIncrementColumn)
		if err != nil {
			return err
		}
		log.Printf("  AUTO_INCREMENT for %s set to %d", mysqlIdent(plan.Name), next)
		n++
	}
	if n == 0 {
		log.Printf("  no AUTO_INCREMENT tables to reset")
	}
	return nil
}

func resetAutoIncrement(ctx context.Context, q identityQuerier, table, column string) (int64, error) {
	var maxID int64
	query := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", mysqlIdent(column), mysqlIdent(table))
	if err := q.QueryRowContext(ctx, query).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("max identity of %s: %w", table, err)
	}

	next := maxID + 1
	alter := fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = %d", mysqlIdent(table), next)
	if _, err := q.ExecContext(ctx, alter); err != nil {
		return 0, fmt.Errorf("set AUTO_INCREMENT for %s: %w\nSQL: %s", table, err, alter)
	}
	return next, nil
}
