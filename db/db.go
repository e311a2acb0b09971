// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps *sql.DB with the active driver so that queries written with ?
// placeholders work against both SQLite and PostgreSQL.
type DB struct {
	sql    *sql.DB
	driver string
}

// Open connects to the database for the given driver ("sqlite" or "postgres")
// and applies driver-specific settings.
func Open(driver, url string) (*DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// A single connection serializes writers and avoids SQLITE_BUSY;
		// it also keeps :memory: databases alive across queries.
		conn.SetMaxOpenConns(1)
		for _, pragma := range []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA busy_timeout = 5000",
		} {
			if _, err := conn.Exec(pragma); err != nil {
				conn.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	return &DB{sql: conn, driver: driver}, nil
}

// Driver returns the active driver name.
func (d *DB) Driver() string { return d.driver }

// Ping verifies the connection.
func (d *DB) Ping() error { return d.sql.Ping() }

// Close closes the underlying connection pool.
func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.sql.Exec(Rebind(d.driver, query), args...)
}

func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return d.sql.Query(Rebind(d.driver, query), args...)
}

func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.sql.QueryRow(Rebind(d.driver, query), args...)
}

// InsertID executes an INSERT and returns the generated id, bridging
// PostgreSQL's RETURNING clause and SQLite's LastInsertId.
func (d *DB) InsertID(query string, args ...any) (int64, error) {
	return insertID(d.sql, d.driver, query, args...)
}

// Begin starts a transaction carrying the same placeholder handling.
func (d *DB) Begin() (*Tx, error) {
	tx, err := d.sql.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, driver: d.driver}, nil
}

// Tx wraps *sql.Tx with the active driver.
type Tx struct {
	tx     *sql.Tx
	driver string
}

func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	return t.tx.Exec(Rebind(t.driver, query), args...)
}

func (t *Tx) Query(query string, args ...any) (*sql.Rows, error) {
	return t.tx.Query(Rebind(t.driver, query), args...)
}

func (t *Tx) QueryRow(query string, args ...any) *sql.Row {
	return t.tx.QueryRow(Rebind(t.driver, query), args...)
}

func (t *Tx) InsertID(query string, args ...any) (int64, error) {
	return insertID(t.tx, t.driver, query, args...)
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func insertID(e execer, driver, query string, args ...any) (int64, error) {
	if driver == DriverPostgres {
		var id int64
		err := e.QueryRow(Rebind(driver, query)+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := e.Exec(Rebind(driver, query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Rebind converts ? placeholders to $1..$N for PostgreSQL. Queries never
// contain literal question marks, so a plain scan is enough.
func Rebind(driver, query string) string {
	if driver != DriverPostgres || !strings.ContainsRune(query, '?') {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique or primary key constraint
// violation from either driver. The check-then-insert sequences in the token
// and ledger packages rely on this to detect lost races.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		code := sqErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
