package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// generateCreateTable produces the CREATE TABLE statement for a planned table.
func generateCreateTable(plan *TablePlan, charset, collation string) string {
	defs := make([]string, 0, len(plan.Columns)+1)
	for _, col := range plan.Columns {
		defs = append(defs, columnDefinition(col))
	}
	if len(plan.PrimaryKey) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quotedColumnList(plan.PrimaryKey)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n  ", mysqlIdent(plan.Name))
	b.WriteString(strings.Join(defs, ",\n  "))
	fmt.Fprintf(&b, "\n) ENGINE=InnoDB CHARACTER SET=%s COLLATE=%s", charset, collation)
	return b.String()
}

// columnDefinition renders one column. AUTO_INCREMENT columns never carry
// NOT NULL or DEFAULT; MySQL implies both.
func columnDefinition(col TargetColumn) string {
	def := fmt.Sprintf("%s %s", mysqlIdent(col.Name), col.Type)
	if isAutoIncrementType(col.Type) {
		return def
	}
	if col.NotNull {
		def += " NOT NULL"
	}
	switch col.Default.Kind {
	case DefaultNull:
		if !col.NotNull {
			def += " DEFAULT NULL"
		}
	case DefaultLiteral:
		def += " DEFAULT " + col.Default.Text
	}
	return def
}

func generateDropTable(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", mysqlIdent(table))
}

// targetExecutor is the subset of *sql.Conn / *sql.Tx used for DDL.
type targetExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// recreateTable drops any existing table (best effort, with foreign key checks
// suspended) and creates it from the plan.
func recreateTable(ctx context.Context, exec targetExecutor, plan *TablePlan, charset, collation string) error {
	dropTableBestEffort(ctx, exec, plan.Name)

	ddl := generateCreateTable(plan, charset, collation)
	if _, err := exec.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w\nDDL: %s", plan.Name, err, ddl)
	}
	return nil
}

func dropTableBestEffort(ctx context.Context, exec targetExecutor, table string) {
	if _, err := exec.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=0"); err != nil {
		log.Printf("    WARN: could not disable foreign key checks: %v", err)
	}
	defer func() {
		if _, err := exec.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=1"); err != nil {
			log.Printf("    WARN: could not re-enable foreign key checks: %v", err)
		}
	}()
	if _, err := exec.ExecContext(ctx, generateDropTable(table)); err != nil {
		log.Printf("    WARN: could not drop table %s (may not exist): %v", mysqlIdent(table), err)
	}
}
