// Package store persists combined annotation tables in DuckDB, so runs
// can be queried later without re-hitting the VEP API.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/varona/internal/table"
)

// Columns is the persisted schema, matching the combined pipeline table.
var Columns = []string{
	"contig", "pos", "ref", "alt",
	"sequence_depth", "max_variant_reads", "variant_read_pct", "maf",
	"type", "effect", "gene_name", "gene_id", "transcript_id",
}

// Store manages a DuckDB connection holding annotation results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates the annotations table if it doesn't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS varona_annotations (
		contig VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		sequence_depth BIGINT,
		max_variant_reads BIGINT,
		variant_read_pct DOUBLE,
		maf DOUBLE,
		type VARCHAR,
		effect VARCHAR,
		gene_name VARCHAR,
		gene_id VARCHAR,
		transcript_id VARCHAR
	)`)
	return err
}

// WriteTable appends every row of a combined annotation table using
// the DuckDB Appender API.
func (s *Store) WriteTable(ctx context.Context, tbl *table.Table) error {
	if err := checkSchema(tbl); err != nil {
		return err
	}
	if tbl.NumRows() == 0 {
		return nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "varona_annotations")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i := 0; i < tbl.NumRows(); i++ {
		row := tbl.Row(i)
		cells := make([]driver.Value, len(Columns))
		for j, col := range Columns {
			cells[j] = appendValue(row[col])
		}
		if err := appender.AppendRow(cells...); err != nil {
			return fmt.Errorf("append row %d: %w", i, err)
		}
	}

	return appender.Flush()
}

// CountRows returns the number of persisted annotation rows.
func (s *Store) CountRows() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM varona_annotations").Scan(&n)
	return n, err
}

// Clear removes all persisted annotation rows.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM varona_annotations")
	return err
}

func checkSchema(tbl *table.Table) error {
	cols := tbl.Columns()
	if len(cols) != len(Columns) {
		return fmt.Errorf("table has %d columns, store expects %d", len(cols), len(Columns))
	}
	for i, col := range Columns {
		if cols[i] != col {
			return fmt.Errorf("table column %d is %q, store expects %q", i, cols[i], col)
		}
	}
	return nil
}

// appendValue coerces table cells into appender-compatible values.
// BIGINT columns take int64, so plain ints are widened.
func appendValue(v interface{}) driver.Value {
	switch x := v.(type) {
	case int:
		return int64(x)
	default:
		return x
	}
}
