package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "myferry [config.toml]",
	Short:         "SQLite dump to MySQL migration tool",
	Args:          cobra.MaximumNArgs(1),
	RunE:          runMigration,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = versionString()
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to migration TOML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("migration aborted: %v", err)
		os.Exit(1)
	}
}

func runMigration(cmd *cobra.Command, args []string) error {
	// Resolve config path: positional arg takes precedence over --config flag
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}
	if cfgPath == "" {
		return fmt.Errorf("config file required: myferry <config.toml> or myferry --config <config.toml>")
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := checkDumpFile(cfg.dumpPath()); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	log.Printf("myferry %s: SQLite dump → MySQL migration", versionString())
	log.Printf(
		"config: dump=%s schema_only=%t reset_auto_increment=%t boolean_columns=%d column_types=%d json_as_longtext=%t binary16_as_uuid=%t",
		cfg.dumpPath(),
		cfg.SchemaOnly,
		cfg.ResetAutoIncrement,
		len(cfg.BooleanColumns),
		len(cfg.ColumnTypes),
		cfg.TypeMapping.JSONAsLongtext,
		cfg.TypeMapping.Binary16AsUUID,
	)
	for _, w := range collectCharsetWarnings(cfg.Target.Charset, cfg.Target.Collation) {
		log.Printf("  WARN: %s", w)
	}

	// 1. Load the dump into a disposable SQLite database
	log.Printf("loading SQLite dump into temporary database...")
	src, err := loadSourceDump(ctx, cfg.dumpPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Printf("WARN: %v", err)
			return
		}
		log.Printf("temporary SQLite database removed")
	}()
	log.Printf("SQLite dump loaded")

	objs, err := src.introspectSourceObjects(ctx)
	if err != nil {
		return err
	}
	for _, w := range sourceObjectWarnings(objs) {
		log.Printf("  WARN: %s", w)
	}

	// 2. Connect to MySQL on one dedicated connection
	dsn, err := targetDSN(cfg.Target)
	if err != nil {
		return err
	}
	log.Printf("connecting to MySQL database %s...", describeTarget(dsn))
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire mysql connection: %w", err)
	}
	defer conn.Close()

	database := databaseName(dsn)

	// 3. before_tables hooks
	if err := loadAndExecSQLFiles(ctx, conn, cfg, database, cfg.Hooks.BeforeTables, "before_tables"); err != nil {
		return fmt.Errorf("before_tables hooks: %w", err)
	}

	// 4. Recreate and copy tables, one transaction per table
	opts := translateOptionsFromConfig(cfg)
	plans, err := migrateTables(ctx, src, conn, cfg, opts)
	if err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}

	// 5. AUTO_INCREMENT fix-up
	if cfg.ResetAutoIncrement && !cfg.SchemaOnly {
		log.Printf("resetting AUTO_INCREMENT counters...")
		if err := resetAutoIncrements(ctx, connQuerier{conn: conn}, plans); err != nil {
			return fmt.Errorf("reset auto_increment: %w", err)
		}
	}

	// 6. after_all hooks
	if err := loadAndExecSQLFiles(ctx, conn, cfg, database, cfg.Hooks.AfterAll, "after_all"); err != nil {
		return fmt.Errorf("after_all hooks: %w", err)
	}

	log.Printf("migration completed: %d tables in %s", len(plans), time.Since(start).Round(time.Millisecond))
	return nil
}

// databaseName extracts the database name from a DSN produced by targetDSN.
func databaseName(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return ""
	}
	return cfg.DBName
}
