// Package store persists sync snapshots to a local SQLite database so
// exports can be regenerated without re-hitting the API.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/maraisdata/seatmap/internal/site"
)

// Run is one recorded sync of the directory API.
type Run struct {
	ID            string
	Region        string
	Category      int
	ListedCount   int
	MatchedCount  int
	FailedDetails int
	CreatedAt     time.Time
}

// Store persists runs and their site snapshots.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and configures WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	region         TEXT NOT NULL,
	category       INTEGER NOT NULL,
	listed_count   INTEGER NOT NULL,
	matched_count  INTEGER NOT NULL,
	failed_details INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sites (
	run_id               TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position             INTEGER NOT NULL,
	site_id              INTEGER NOT NULL,
	slug                 TEXT NOT NULL,
	name                 TEXT NOT NULL,
	street               TEXT,
	city                 TEXT,
	postal_code          TEXT,
	region               TEXT,
	latitude             REAL,
	longitude            REAL,
	seats                INTEGER,
	occupancy            INTEGER,
	estimated_distance_m REAL,
	url                  TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_sites_run_id ON sites(run_id);
`

// Migrate applies the schema. Idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a run and its site snapshot in one transaction and
// returns the run with its generated ID and timestamp filled in.
func (s *Store) SaveRun(ctx context.Context, run Run, sites []site.Site) (*Run, error) {
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "store: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, region, category, listed_count, matched_count, failed_details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Region, run.Category, run.ListedCount, run.MatchedCount, run.FailedDetails, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sites (run_id, position, site_id, slug, name, street, city, postal_code, region,
		                    latitude, longitude, seats, occupancy, estimated_distance_m, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, eris.Wrap(err, "store: prepare site insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, st := range sites {
		_, err = stmt.ExecContext(ctx,
			run.ID, i, st.ID, st.Slug, st.Name, st.Street, st.City, st.PostalCode, st.Region,
			nullFloat(st.Latitude), nullFloat(st.Longitude), nullInt(st.Seats), nullInt(st.Occupancy),
			nullFloat(st.EstimatedDistanceM), st.URL(),
		)
		if err != nil {
			return nil, eris.Wrapf(err, "store: insert site %s", st.Slug)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "store: commit")
	}
	return &run, nil
}

// LatestRun returns the most recent run, or nil when the store is empty.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, region, category, listed_count, matched_count, failed_details, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: latest run")
	}
	return run, nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, region, category, listed_count, matched_count, failed_details, created_at
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("store: run %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get run %s", id)
	}
	return run, nil
}

// ListRuns returns up to limit runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, region, category, listed_count, matched_count, failed_details, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: runs iteration")
	}
	return runs, nil
}

// SitesForRun returns the site snapshot of a run in stored order.
func (s *Store) SitesForRun(ctx context.Context, runID string) ([]site.Site, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT site_id, slug, name, street, city, postal_code, region,
		        latitude, longitude, seats, occupancy, estimated_distance_m, url
		 FROM sites WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "store: sites for run %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var sites []site.Site
	for rows.Next() {
		var (
			st                  site.Site
			street, city        sql.NullString
			postal, region, url sql.NullString
			lat, lon, dist      sql.NullFloat64
			seats, occupancy    sql.NullInt64
		)
		err := rows.Scan(&st.ID, &st.Slug, &st.Name, &street, &city, &postal, &region,
			&lat, &lon, &seats, &occupancy, &dist, &url)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan site")
		}
		st.Street = street.String
		st.City = city.String
		st.PostalCode = postal.String
		st.Region = region.String
		st.DetailURL = url.String
		st.Latitude = floatPtr(lat)
		st.Longitude = floatPtr(lon)
		st.EstimatedDistanceM = floatPtr(dist)
		st.Seats = intPtr(seats)
		st.Occupancy = intPtr(occupancy)
		sites = append(sites, st)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: sites iteration")
	}
	return sites, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Region, &run.Category, &run.ListedCount,
		&run.MatchedCount, &run.FailedDetails, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
