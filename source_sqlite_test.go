package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const testDump = `PRAGMA foreign_keys=OFF;
BEGIN TRANSACTION;
CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, active BOOLEAN DEFAULT 1, created DATETIME DEFAULT CURRENT_TIMESTAMP);
INSERT INTO users VALUES(5,'Alice',1,'2024-03-01 12:00:00');
INSERT INTO users VALUES(6,'O''Brien',0,NULL);
CREATE TABLE files (path TEXT NOT NULL, owner INTEGER NOT NULL, is_symbolic INTEGER DEFAULT 0, PRIMARY KEY (owner, path));
INSERT INTO files VALUES('/a',5,1);
CREATE INDEX idx_files_owner ON files(owner);
CREATE VIEW active_users AS SELECT * FROM users WHERE active = 1;
CREATE TRIGGER users_touch AFTER UPDATE ON users BEGIN UPDATE users SET created = CURRENT_TIMESTAMP WHERE id = NEW.id; END;
COMMIT;
`

func loadTestDump(t *testing.T, dump string) *sourceDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.sql")
	if err := os.WriteFile(path, []byte(dump), 0644); err != nil {
		t.Fatal(err)
	}
	src, err := loadSourceDump(context.Background(), path)
	if err != nil {
		t.Fatalf("loadSourceDump: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestLoadSourceDump(t *testing.T) {
	ctx := context.Background()
	src := loadTestDump(t, testDump)

	tables, err := src.listTables(ctx)
	if err != nil {
		t.Fatalf("listTables: %v", err)
	}
	if want := []string{"users", "files"}; !reflect.DeepEqual(tables, want) {
		t.Errorf("listTables = %v, want %v", tables, want)
	}

	users, err := src.introspectTable(ctx, "users")
	if err != nil {
		t.Fatalf("introspectTable: %v", err)
	}
	if len(users.Columns) != 4 {
		t.Fatalf("users columns = %+v", users.Columns)
	}
	id := users.Columns[0]
	if id.Name != "id" || id.Type != "INTEGER" || id.PKOrdinal != 1 || id.Default != nil {
		t.Errorf("id column = %+v", id)
	}
	name := users.Columns[1]
	if !name.NotNull || name.OrdinalPos != 2 {
		t.Errorf("name column = %+v", name)
	}
	if d := users.Columns[2].Default; d == nil || *d != "1" {
		t.Errorf("active default = %v, want 1", d)
	}
	if d := users.Columns[3].Default; d == nil || *d != "CURRENT_TIMESTAMP" {
		t.Errorf("created default = %v, want CURRENT_TIMESTAMP", d)
	}

	n, err := src.countRows(ctx, "users")
	if err != nil || n != 2 {
		t.Errorf("countRows(users) = %d, %v; want 2", n, err)
	}
}

func TestLoadSourceDump_PlanAndRows(t *testing.T) {
	ctx := context.Background()
	src := loadTestDump(t, testDump)

	st, err := src.introspectTable(ctx, "users")
	if err != nil {
		t.Fatal(err)
	}
	plan := planTable(st, TranslateOptions{})
	want := "CREATE TABLE `users` (\n" +
		"  `id` BIGINT AUTO_INCREMENT,\n" +
		"  `name` LONGTEXT NOT NULL,\n" +
		"  `active` TINYINT(1) DEFAULT 1,\n" +
		"  `created` TIMESTAMP(6) DEFAULT CURRENT_TIMESTAMP(6),\n" +
		"  PRIMARY KEY (`id`)\n" +
		") ENGINE=InnoDB CHARACTER SET=utf8mb4 COLLATE=utf8mb4_bin"
	if got := generateCreateTable(plan, "utf8mb4", "utf8mb4_bin"); got != want {
		t.Errorf("generateCreateTable =\n%s\nwant\n%s", got, want)
	}

	rows, err := src.selectRows(ctx, plan)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	tx := &fakeTx{}
	n, err := copyRows(ctx, tx, rows, plan, newRowCoercer(plan, TranslateOptions{}, discardWarnings), nil)
	if err != nil || n != 2 {
		t.Fatalf("copyRows = %d, %v", n, err)
	}
	wantRows := [][]any{
		{int64(5), "Alice", int64(1), "2024-03-01 12:00:00.000000"},
		{int64(6), "O'Brien", int64(0), nil},
	}
	if !reflect.DeepEqual(tx.inserts, wantRows) {
		t.Errorf("inserts = %#v, want %#v", tx.inserts, wantRows)
	}
}

func TestLoadSourceDump_CompositeKey(t *testing.T) {
	src := loadTestDump(t, testDump)
	st, err := src.introspectTable(context.Background(), "files")
	if err != nil {
		t.Fatal(err)
	}
	opts := TranslateOptions{Booleans: newBooleanOverrides(map[string][]string{"files": {"is_symbolic"}})}
	plan := planTable(st, opts)

	if want := []string{"owner", "path"}; !reflect.DeepEqual(plan.PrimaryKey, want) {
		t.Errorf("PrimaryKey = %v, want %v", plan.PrimaryKey, want)
	}
	if plan.Columns[2].Type != "TINYINT(1)" || plan.Columns[2].Default != literalDefault("0") {
		t.Errorf("is_symbolic = %+v", plan.Columns[2])
	}
}

func TestIntrospectSourceObjects(t *testing.T) {
	src := loadTestDump(t, testDump)
	objs, err := src.introspectSourceObjects(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := &SourceObjects{
		Views:    []string{"active_users"},
		Triggers: []string{"users_touch"},
		Indexes:  []string{"idx_files_owner"},
	}
	if !reflect.DeepEqual(objs, want) {
		t.Errorf("introspectSourceObjects = %+v, want %+v", objs, want)
	}
}

func TestLoadSourceDump_InvalidUTF8(t *testing.T) {
	dump := "CREATE TABLE notes (body TEXT);\nINSERT INTO notes VALUES('a\xffb');\n"
	src := loadTestDump(t, dump)

	var body string
	if err := src.db.QueryRow("SELECT body FROM notes").Scan(&body); err != nil {
		t.Fatal(err)
	}
	if body != "a�b" {
		t.Errorf("body = %q, want replacement character", body)
	}
}

func TestLoadSourceDump_BadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql")
	if err := os.WriteFile(path, []byte("CREATE TABLE broken (;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := loadSourceDump(context.Background(), path)
	if err == nil || !strings.Contains(err.Error(), "load dump into SQLite") {
		t.Fatalf("error = %v, want load failure", err)
	}
}

func TestSourceDBClose_RemovesTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql")
	if err := os.WriteFile(path, []byte(testDump), 0644); err != nil {
		t.Fatal(err)
	}
	src, err := loadSourceDump(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	tmp := src.path
	if _, err := os.Stat(tmp); err != nil {
		t.Fatalf("temporary database missing before Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(tmp); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temporary database still present after Close: %v", err)
	}
}

func TestCheckDumpFile(t *testing.T) {
	dir := t.TempDir()
	if err := checkDumpFile(filepath.Join(dir, "missing.sql")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("missing file error = %v", err)
	}
	if err := checkDumpFile(dir); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("directory error = %v", err)
	}
	path := filepath.Join(dir, "dump.sql")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := checkDumpFile(path); err != nil {
		t.Errorf("existing file error = %v", err)
	}
}

func TestSQLiteURI(t *testing.T) {
	got, err := sqliteURI("/tmp/x.sqlite", true)
	if err != nil || got != "file:/tmp/x.sqlite?mode=ro" {
		t.Errorf("sqliteURI(ro) = %q, %v", got, err)
	}
	got, err = sqliteURI("/tmp/x.sqlite", false)
	if err != nil || got != "file:/tmp/x.sqlite" {
		t.Errorf("sqliteURI(rw) = %q, %v", got, err)
	}
	for _, p := range []string{"", ":memory:", "file::memory:?mode=memory"} {
		if _, err := sqliteURI(p, true); err == nil {
			t.Errorf("sqliteURI(%q) should be rejected", p)
		}
	}
}
