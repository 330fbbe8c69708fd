package main

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// targetDSN builds the go-sql-driver DSN for the configured MySQL target.
// Charset and collation are always applied so the session matches the DDL.
func targetDSN(t TargetConfig) (string, error) {
	var cfg *mysql.Config
	if t.DSN != "" {
		parsed, err := mysql.ParseDSN(t.DSN)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		if parsed.DBName == "" {
			return "", fmt.Errorf("target.dsn must name a database")
		}
		cfg = parsed
	} else {
		params := url.Values{}
		params.Set("charset", t.Charset)
		params.Set("collation", t.Collation)
		addr := net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
		parsed, err := mysql.ParseDSN(fmt.Sprintf("tcp(%s)/%s?%s", addr, t.Database, params.Encode()))
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		parsed.User = t.User
		parsed.Passwd = t.Password
		cfg = parsed
	}

	cfg.Collation = t.Collation
	cfg.InterpolateParams = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// describeTarget returns a loggable host/database description without credentials.
func describeTarget(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	return fmt.Sprintf("%s on %s", cfg.DBName, cfg.Addr)
}
