// Package sqlite archives generated plans in SQLite.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/fightcamp/internal/errors"
)

//go:embed schema.sql
var schemaDefinition string

const (
	optimizedDriver = "sqlite3optimized"
	maxReadConns    = 10
	optimizeEvery   = time.Hour
)

// Database holds a single-connection writer and a pool of readers on the same file.
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase opens the archive at url, migrates it to the embedded schema and starts the periodic optimizer,
// which stops when ctx is done. url is a file path or ":memory:".
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		return nil, errors.Join(errors.Wrap(err, "migrate"), db.Close())
	}
	go db.optimize(ctx)
	return db, nil
}

//nolint:gochecknoglobals // the driver can only be registered once per process.
var registerDriver sync.Once

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	// In-memory databases need a unique name and a shared cache so both pools see the same data.
	memory := ""
	if strings.Contains(url, ":memory:") {
		url = rand.Text()
		memory = "&mode=memory&cache=shared"
	}
	common := strings.Join([]string{
		"_loc=auto",
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	}, "&")
	readDSN := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s%s", url, common, memory)
	writeDSN := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s%s", url, common, memory)

	registerDriver.Do(func() {
		sql.Register(optimizedDriver, &sqlite3.SQLiteDriver{
			Extensions: nil,
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if _, err := conn.Exec("PRAGMA temp_store = memory; PRAGMA mmap_size = 30000000000;", nil); err != nil {
					return errors.Wrap(err, "exec connection pragmas")
				}
				return nil
			},
		})
	})

	readWrite, err := sql.Open(optimizedDriver, writeDSN)
	if err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}
	readWrite.SetMaxOpenConns(1)
	readWrite.SetMaxIdleConns(1)
	readWrite.SetConnMaxIdleTime(time.Hour)
	// sql.DB is lazy; the ping creates the file before the read-only pool opens it.
	if err = readWrite.PingContext(ctx); err != nil {
		return nil, errors.Join(errors.Wrap(err, "ping read-write database"), readWrite.Close())
	}

	readOnly, err := sql.Open(optimizedDriver, readDSN)
	if err != nil {
		return nil, errors.Join(errors.Wrap(err, "open read-only database"), readWrite.Close())
	}
	readOnly.SetMaxOpenConns(maxReadConns)
	readOnly.SetMaxIdleConns(maxReadConns)
	readOnly.SetConnMaxIdleTime(time.Hour)

	logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String("dsn", writeDSN))
	return &Database{ReadWrite: readWrite, ReadOnly: readOnly, logger: logger}, nil
}

// optimize runs PRAGMA optimize now and then hourly. See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) optimize(ctx context.Context) {
	pragma := "PRAGMA optimize = 0x10002;"
	for {
		start := time.Now()
		if _, err := db.ReadWrite.ExecContext(ctx, pragma); err != nil {
			if ctx.Err() != nil {
				return
			}
			db.logger.LogAttrs(ctx, slog.LevelError, "optimize database",
				errors.SlogError(errors.Wrap(err, "exec optimize")))
		} else {
			db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database",
				slog.Duration("duration", time.Since(start)))
		}
		pragma = "PRAGMA optimize;"
		select {
		case <-ctx.Done():
			return
		case <-time.After(optimizeEvery):
		}
	}
}

// Close closes both pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
