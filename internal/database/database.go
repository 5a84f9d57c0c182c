// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/metrics"
)

// defaultQueryTimeout applies when the config does not set one.
const defaultQueryTimeout = 10 * time.Second

// DB wraps the DuckDB connection pool.
type DB struct {
	conn         *sql.DB
	cfg          *config.DatabaseConfig
	queryTimeout time.Duration
	now          func() time.Time
}

// New opens the database at cfg.Path (":memory:" for an in-process database)
// and creates the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	if cfg.Path != ":memory:" && cfg.Path != "" {
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, threads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, unavailable("open", err)
	}

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	db := &DB{conn: conn, cfg: cfg, queryTimeout: timeout, now: time.Now}
	db.configureConnectionPool(threads)

	if err := db.InitSchema(context.Background()); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", threads).Str("max_memory", maxMemory).Msg("Database ready")
	return db, nil
}

// configureConnectionPool sizes the pool from the thread count.
func (db *DB) configureConnectionPool(threads int) {
	db.conn.SetMaxOpenConns(threads)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Ping checks that the database answers.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	if err := db.conn.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// queryContext bounds ctx by the configured query timeout.
func (db *DB) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

// observe records a query metric and returns err unchanged.
func observe(operation, table string, start time.Time, err error) error {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
	return err
}
