// Package storage persists derived scaling factors in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/modforge/uprez/internal/derive"
	"github.com/modforge/uprez/internal/guitext"
)

// Store is the scaling-factor store. Derivation passes are the only writer;
// scaling passes only read, so no cross-process locking is needed beyond
// SQLite's own.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if missing) the store at path and ensures the schema
// exists.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		file_id INTEGER NOT NULL,
		FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE,
		UNIQUE (name, file_id)
	);

	CREATE TABLE IF NOT EXISTS original_values (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL,
		value REAL NOT NULL,
		FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS scaling_factors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL,
		resolution TEXT NOT NULL,
		mean REAL,
		median REAL,
		std_dev REAL,
		min REAL,
		max REAL,
		FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE,
		UNIQUE (property_id, resolution)
	);

	CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);
	CREATE INDEX IF NOT EXISTS idx_properties_file_id ON properties(file_id);
	CREATE INDEX IF NOT EXISTS idx_original_values_property_id ON original_values(property_id);
	CREATE INDEX IF NOT EXISTS idx_scaling_factors_resolution ON scaling_factors(resolution);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveDerivation stores a derivation pass for one file in a single
// transaction: the file row, one property row per observed property, every
// raw numeric occurrence, and one factor row per (property, resolution).
// Re-derivation replaces the factor rows.
func (s *Store) SaveDerivation(ctx context.Context, path string, values *guitext.ValueSet, factors map[string]map[string]derive.Stats) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	fileID, err := findOrCreateFile(ctx, tx, path)
	if err != nil {
		return err
	}

	for _, prop := range values.Properties() {
		propID, err := findOrCreateProperty(ctx, tx, prop, fileID)
		if err != nil {
			return err
		}

		for _, v := range values.Values(prop) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO original_values (property_id, value) VALUES (?, ?)`, propID, v); err != nil {
				return fmt.Errorf("failed to save original value: %w", err)
			}
		}

		for resolution, stats := range factors {
			st, ok := stats[prop]
			if !ok {
				continue
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO scaling_factors (property_id, resolution, mean, median, std_dev, min, max)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(property_id, resolution) DO UPDATE SET
					mean = excluded.mean,
					median = excluded.median,
					std_dev = excluded.std_dev,
					min = excluded.min,
					max = excluded.max
			`, propID, resolution, st.Mean, st.Median, st.StdDev, st.Min, st.Max)
			if err != nil {
				return fmt.Errorf("failed to save scaling factor: %w", err)
			}
		}
	}

	return tx.Commit()
}

// MeanFactors returns the mean scaling factor per property for a file at the
// given resolution. An unknown path falls back to the per-property average
// across all files. Properties whose statistics are NULL are omitted, so
// they are not scaled.
func (s *Store) MeanFactors(ctx context.Context, path, resolution string) (guitext.FactorMap, error) {
	factors, err := s.queryFactors(ctx, `
		SELECT p.name, sf.mean
		FROM scaling_factors sf
		JOIN properties p ON p.id = sf.property_id
		JOIN files f ON f.id = p.file_id
		WHERE f.path = ? AND sf.resolution = ? AND sf.mean IS NOT NULL
	`, path, resolution)
	if err != nil {
		return nil, err
	}
	if len(factors) > 0 {
		return factors, nil
	}
	return s.queryFactors(ctx, `
		SELECT p.name, AVG(sf.mean)
		FROM scaling_factors sf
		JOIN properties p ON p.id = sf.property_id
		WHERE sf.resolution = ? AND sf.mean IS NOT NULL
		GROUP BY p.name
	`, resolution)
}

func (s *Store) queryFactors(ctx context.Context, query string, args ...any) (guitext.FactorMap, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scaling factors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	factors := make(guitext.FactorMap)
	for rows.Next() {
		var name string
		var mean float64
		if err := rows.Scan(&name, &mean); err != nil {
			return nil, fmt.Errorf("failed to scan scaling factor: %w", err)
		}
		factors[name] = mean
	}
	return factors, rows.Err()
}

// FactorRecord is one stored scaling-factor row joined with its file and
// property, as listed by the factors command.
type FactorRecord struct {
	FilePath   string
	Property   string
	Resolution string
	Stats      derive.Stats
}

// ListFactors returns every stored factor row for a resolution, ordered by
// file path and property name.
func (s *Store) ListFactors(ctx context.Context, resolution string) ([]FactorRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.path, p.name, sf.resolution, sf.mean, sf.median, sf.std_dev, sf.min, sf.max
		FROM scaling_factors sf
		JOIN properties p ON p.id = sf.property_id
		JOIN files f ON f.id = p.file_id
		WHERE sf.resolution = ?
		ORDER BY f.path, p.name
	`, resolution)
	if err != nil {
		return nil, fmt.Errorf("failed to list scaling factors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []FactorRecord
	for rows.Next() {
		var r FactorRecord
		if err := rows.Scan(&r.FilePath, &r.Property, &r.Resolution,
			&r.Stats.Mean, &r.Stats.Median, &r.Stats.StdDev, &r.Stats.Min, &r.Stats.Max); err != nil {
			return nil, fmt.Errorf("failed to scan scaling factor: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func findOrCreateFile(ctx context.Context, tx *sql.Tx, path string) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO files (filename, path) VALUES (?, ?) ON CONFLICT(path) DO NOTHING`,
		filepath.Base(path), path); err != nil {
		return 0, fmt.Errorf("failed to save file record: %w", err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM files WHERE path = ?`, path).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to load file record: %w", err)
	}
	return id, nil
}

func findOrCreateProperty(ctx context.Context, tx *sql.Tx, name string, fileID int64) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO properties (name, file_id) VALUES (?, ?) ON CONFLICT(name, file_id) DO NOTHING`,
		name, fileID); err != nil {
		return 0, fmt.Errorf("failed to save property record: %w", err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM properties WHERE name = ? AND file_id = ?`, name, fileID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to load property record: %w", err)
	}
	return id, nil
}
