package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// MigrationConfig holds the full TOML-driven migration configuration.
type MigrationConfig struct {
	Dump               string              `toml:"dump"`
	SchemaOnly         bool                `toml:"schema_only"`
	ResetAutoIncrement bool                `toml:"reset_auto_increment"`
	Progress           bool                `toml:"progress"`
	Tables             []string            `toml:"tables"`
	Target             TargetConfig        `toml:"target"`
	BooleanColumns     map[string][]string `toml:"boolean_columns"` // table -> columns stored as TINYINT(1)
	ColumnTypes        map[string]string   `toml:"column_types"`    // "table.column" -> MySQL type
	TypeMapping        TypeMappingConfig   `toml:"type_mapping"`
	Hooks              HooksConfig         `toml:"hooks"`

	// configDir is the directory containing the TOML file, used to resolve relative paths.
	configDir string
}

// TargetConfig describes the MySQL connection. DSN, when set, takes precedence
// over the individual fields except Charset and Collation, which also drive DDL.
type TargetConfig struct {
	DSN       string `toml:"dsn"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	Database  string `toml:"database"`
	Charset   string `toml:"charset"`
	Collation string `toml:"collation"`
}

type HooksConfig struct {
	BeforeTables []string `toml:"before_tables"`
	AfterAll     []string `toml:"after_all"`
}

// TypeMappingConfig controls optional type coercions.
type TypeMappingConfig struct {
	JSONAsLongtext bool `toml:"json_as_longtext"`
	Binary16AsUUID bool `toml:"binary16_as_uuid"`
}

// loadConfig reads a TOML config file and returns a MigrationConfig with defaults applied.
func loadConfig(path string) (*MigrationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := MigrationConfig{
		ResetAutoIncrement: true,
		Progress:           true,
		Target: TargetConfig{
			Host:      "127.0.0.1",
			Port:      3306,
			Charset:   "utf8mb4",
			Collation: "utf8mb4_unicode_ci",
		},
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	cfg.Dump = strings.TrimSpace(cfg.Dump)
	if cfg.Dump == "" {
		return nil, fmt.Errorf("dump is required")
	}

	t := &cfg.Target
	t.Charset = strings.TrimSpace(t.Charset)
	t.Collation = strings.TrimSpace(t.Collation)
	if t.Charset == "" || t.Collation == "" {
		return nil, fmt.Errorf("target.charset and target.collation must not be empty")
	}
	if err := checkCharsetCollation(t.Charset, t.Collation); err != nil {
		return nil, err
	}
	if t.DSN == "" {
		if strings.TrimSpace(t.Database) == "" {
			return nil, fmt.Errorf("target.database is required (or set target.dsn)")
		}
		if t.Host == "" {
			return nil, fmt.Errorf("target.host is required")
		}
		if t.Port <= 0 || t.Port > 65535 {
			return nil, fmt.Errorf("target.port must be between 1 and 65535")
		}
	}

	for key, typ := range cfg.ColumnTypes {
		table, column, ok := strings.Cut(key, ".")
		if !ok || table == "" || column == "" {
			return nil, fmt.Errorf("column_types key %q must be of the form table.column", key)
		}
		if strings.TrimSpace(typ) == "" {
			return nil, fmt.Errorf("column_types.%q must not be empty", key)
		}
	}

	return &cfg, nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *MigrationConfig) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}

// dumpPath returns the resolved path of the SQLite dump file.
func (c *MigrationConfig) dumpPath() string {
	return c.resolvePath(c.Dump)
}
