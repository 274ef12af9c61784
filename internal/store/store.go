// Package store keeps a history of finished runs in SQLite.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lukaszgryglicki/mcml/internal/log"
	"github.com/lukaszgryglicki/mcml/internal/mcml"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var logger = log.New("store")

// createdLayout is fixed width so created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	ErrNotFound  = errors.New("run not found")
	ErrAmbiguous = errors.New("run id prefix matches more than one run")
)

// RunRecord is one stored run: its RAT scalars and the effective config.
type RunRecord struct {
	ID            string
	Name          string
	Created       time.Time
	Photons       int
	Seed          uint64
	Workers       int
	Elapsed       time.Duration
	RSpecular     float64
	Rd            float64
	RdUnscattered float64
	Absorbed      float64
	Tt            float64
	TtUnscattered float64
	ConfigYAML    string
}

// NewRecord builds a record for a finished run with a fresh id.
func NewRecord(o *mcml.Outcome) (RunRecord, error) {
	var buf bytes.Buffer
	if err := (&mcml.FileConfig{Runs: []mcml.RunSpec{o.Spec}}).EncodeYAML(&buf); err != nil {
		return RunRecord{}, fmt.Errorf("encoding run config: %w", err)
	}
	s := o.Summary
	return RunRecord{
		ID:            uuid.NewString(),
		Name:          o.Spec.Name(),
		Created:       time.Now().UTC(),
		Photons:       o.Stats.Photons,
		Seed:          o.Spec.Seed,
		Workers:       o.Stats.Workers,
		Elapsed:       o.Stats.Elapsed,
		RSpecular:     s.RSpecular,
		Rd:            s.Rd,
		RdUnscattered: s.RdUnscattered,
		Absorbed:      s.A,
		Tt:            s.Tt,
		TtUnscattered: s.TtUnscattered,
		ConfigYAML:    buf.String(),
	}, nil
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it to the latest
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	// m is not closed: that would close the shared connection.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Version returns the applied schema version.
func (s *Store) Version() (uint, error) {
	var v uint
	err := s.db.QueryRow(`SELECT version FROM schema_migrations LIMIT 1`).Scan(&v)
	return v, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts r. An empty ID is replaced with a new uuid.
func (s *Store) SaveRun(ctx context.Context, r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Created.IsZero() {
		r.Created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, created_at, photons, seed, workers, elapsed_s,
			r_specular, rd, rd_unscattered, absorbed, tt, tt_unscattered, config_yaml)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Created.UTC().Format(createdLayout), r.Photons, int64(r.Seed), r.Workers,
		r.Elapsed.Seconds(), r.RSpecular, r.Rd, r.RdUnscattered, r.Absorbed, r.Tt, r.TtUnscattered,
		r.ConfigYAML)
	if err != nil {
		return "", fmt.Errorf("failed to save run %s: %w", r.Name, err)
	}
	logger.Infof("Stored run %s as %s", r.Name, r.ID)
	return r.ID, nil
}

const selectRuns = `
	SELECT id, name, created_at, photons, seed, workers, elapsed_s,
		r_specular, rd, rd_unscattered, absorbed, tt, tt_unscattered, config_yaml
	FROM runs`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var (
		r       RunRecord
		created string
		seed    int64
		elapsed float64
	)
	err := sc.Scan(&r.ID, &r.Name, &created, &r.Photons, &seed, &r.Workers, &elapsed,
		&r.RSpecular, &r.Rd, &r.RdUnscattered, &r.Absorbed, &r.Tt, &r.TtUnscattered, &r.ConfigYAML)
	if err != nil {
		return r, err
	}
	if r.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return r, fmt.Errorf("run %s: bad created_at %q: %w", r.ID, created, err)
	}
	r.Seed = uint64(seed)
	r.Elapsed = time.Duration(elapsed * float64(time.Second))
	return r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	q := selectRuns + ` ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns the run with the given id or unique id prefix.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns+` WHERE id = ? OR id LIKE ? ORDER BY id LIMIT 2`, id, id+"%")
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	defer rows.Close()

	var found []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return RunRecord{}, err
		}
		if r.ID == id {
			return r, nil
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return RunRecord{}, err
	}
	switch len(found) {
	case 0:
		return RunRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return RunRecord{}, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logger.Infof("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }
