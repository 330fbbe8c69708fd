package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// sourceDB is a disposable SQLite database populated from a script dump.
type sourceDB struct {
	db   *sql.DB
	path string
}

// checkDumpFile fails when the dump is missing or not a regular file.
func checkDumpFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("SQLite dump file %q not found", path)
	}
	if err != nil {
		return fmt.Errorf("stat dump file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("SQLite dump file %q is a directory", path)
	}
	return nil
}

// loadSourceDump executes the dump script into a fresh temporary SQLite file
// and returns a read-only handle on it. Close removes the temporary file.
func loadSourceDump(ctx context.Context, dumpPath string) (*sourceDB, error) {
	script, err := readDump(dumpPath)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "myferry-*.sqlite")
	if err != nil {
		return nil, fmt.Errorf("create temporary SQLite database: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	src := &sourceDB{path: path}

	if err := execDumpScript(ctx, path, script); err != nil {
		src.Close()
		return nil, err
	}

	uri, err := sqliteURI(path, true)
	if err != nil {
		src.Close()
		return nil, err
	}
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	src.db = db
	return src, nil
}

// readDump reads the dump as UTF-8 text, replacing invalid byte sequences.
func readDump(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(unicode.UTF8.NewDecoder().Reader(f))
	if err != nil {
		return "", fmt.Errorf("read dump: %w", err)
	}
	return string(data), nil
}

func execDumpScript(ctx context.Context, path, script string) error {
	uri, err := sqliteURI(path, false)
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("load dump into SQLite: %w", err)
	}
	return nil
}

// Close releases the connection and removes the temporary database file.
func (s *sourceDB) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove temporary SQLite database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// sqliteURI turns a file path into a SQLite URI, read-only when requested.
func sqliteURI(path string, readOnly bool) (string, error) {
	if path == "" || path == ":memory:" || strings.Contains(path, "mode=memory") {
		return "", fmt.Errorf("in-memory SQLite databases are not supported (each sql.Open gets a separate DB)")
	}
	u := url.URL{Scheme: "file", Opaque: path}
	if readOnly {
		u.RawQuery = url.Values{"mode": {"ro"}}.Encode()
	}
	return u.String(), nil
}

// --- Schema introspection ---

// listTables returns user tables in catalog order, skipping sqlite_ internals.
func (s *sourceDB) listTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// introspectTable reads the column list of a table via PRAGMA table_info.
func (s *sourceDB) introspectTable(ctx context.Context, name string) (SourceTable, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", sqliteIdent(name)))
	if err != nil {
		return SourceTable{}, fmt.Errorf("introspect columns for %s: %w", name, err)
	}
	defer rows.Close()

	table := SourceTable{Name: name}
	for rows.Next() {
		var cid, notnull, pk int
		var colName string
		var colType, dflt sql.NullString
		if err := rows.Scan(&cid, &colName, &colType, &notnull, &dflt, &pk); err != nil {
			return SourceTable{}, err
		}
		col := ColumnSchema{
			Name:       colName,
			Type:       colType.String,
			NotNull:    notnull == 1,
			PKOrdinal:  pk,
			OrdinalPos: cid + 1,
		}
		if dflt.Valid {
			col.Default = &dflt.String
		}
		table.Columns = append(table.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return SourceTable{}, err
	}
	return table, nil
}

// introspectSourceObjects discovers views, triggers, and explicit indexes,
// none of which are recreated in MySQL.
func (s *sourceDB) introspectSourceObjects(ctx context.Context) (*SourceObjects, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT type, name FROM sqlite_master WHERE type IN ('view','trigger','index') AND sql IS NOT NULL ORDER BY type, name")
	if err != nil {
		return nil, fmt.Errorf("introspect source objects: %w", err)
	}
	defer rows.Close()

	objs := &SourceObjects{}
	for rows.Next() {
		var typ, name string
		if err := rows.Scan(&typ, &name); err != nil {
			return nil, err
		}
		switch typ {
		case "view":
			objs.Views = append(objs.Views, name)
		case "trigger":
			objs.Triggers = append(objs.Triggers, name)
		case "index":
			objs.Indexes = append(objs.Indexes, name)
		}
	}
	return objs, rows.Err()
}

// countRows returns the number of rows in a table.
func (s *sourceDB) countRows(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", sqliteIdent(table))).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows in %s: %w", table, err)
	}
	return n, nil
}

// selectRows streams every row of a table with columns in plan order.
func (s *sourceDB) selectRows(ctx context.Context, plan *TablePlan) (*sql.Rows, error) {
	cols := make([]string, len(plan.Columns))
	for i, c := range plan.Columns {
		cols[i] = sqliteIdent(c.Name)
	}
	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), sqliteIdent(plan.Name))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select rows from %s: %w", plan.Name, err)
	}
	return rows, nil
}
