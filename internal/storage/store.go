package storage

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/phasekit/lorenzlab/internal/lorenz"
	"github.com/phasekit/lorenzlab/internal/phase"
	"github.com/phasekit/lorenzlab/internal/sim"
)

// Store keeps run metadata in a SQLite catalog and trajectory data in
// per-run CSV files under baseDir.
type Store struct {
	baseDir string
	db      *sql.DB
}

// RunMeta describes one saved run.
type RunMeta struct {
	ID           string             `json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	Integrator   string             `json:"integrator"`
	Params       lorenz.Params      `json:"params"`
	Initial      phase.State        `json:"initial"`
	Dt           float64            `json:"dt"`
	Steps        int                `json:"steps"`
	FinitePoints int                `json:"finite_points"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Open creates baseDir if needed and opens the run catalog inside it.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(baseDir, "catalog.db"))
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		integrator TEXT NOT NULL,
		sigma DOUBLE,
		rho DOUBLE,
		beta DOUBLE,
		x0 DOUBLE,
		y0 DOUBLE,
		z0 DOUBLE,
		dt DOUBLE NOT NULL,
		steps BIGINT NOT NULL,
		finite_points BIGINT NOT NULL,
		metrics TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{baseDir: baseDir, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save catalogs a finished run and writes its trajectory to
// <id>/states.csv. The trajectory must be three-dimensional.
func (s *Store) Save(integrator string, p lorenz.Params, dt float64, result *sim.Result) (*RunMeta, error) {
	tr := result.Trajectory
	if tr.Dim() != 3 {
		return nil, fmt.Errorf("%w: trajectory has dimension %d, store wants 3", phase.ErrDimension, tr.Dim())
	}

	meta := &RunMeta{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Integrator: integrator,
		Params:     p,
		Initial:    tr.Initial().Clone(),
		Dt:         dt,
		Steps:      tr.Len() - 1,
		Metrics:    result.Metrics,
	}
	meta.FinitePoints = tr.Len()
	if idx := tr.FirstNonFinite(); idx >= 0 {
		meta.FinitePoints = idx
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("creating run dir: %w", err)
	}
	if err := s.writeStatesCSV(filepath.Join(runDir, "states.csv"), tr); err != nil {
		os.RemoveAll(runDir)
		return nil, err
	}

	metricsJSON, err := json.Marshal(result.Metrics)
	if err != nil {
		os.RemoveAll(runDir)
		return nil, fmt.Errorf("encoding metrics: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO runs (id, created_at, integrator, sigma, rho, beta, x0, y0, z0, dt, steps, finite_points, metrics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.CreatedAt.Format(time.RFC3339Nano), meta.Integrator,
		meta.Params.Sigma, meta.Params.Rho, meta.Params.Beta,
		meta.Initial[0], meta.Initial[1], meta.Initial[2],
		meta.Dt, meta.Steps, meta.FinitePoints, string(metricsJSON),
	)
	if err != nil {
		os.RemoveAll(runDir)
		return nil, fmt.Errorf("cataloging run: %w", err)
	}

	return meta, nil
}

// List returns all cataloged runs, newest first.
func (s *Store) List() ([]*RunMeta, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, integrator, sigma, rho, beta, x0, y0, z0, dt, steps, finite_points, metrics
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var metas []*RunMeta
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Load fetches one run's metadata by full id.
func (s *Store) Load(id string) (*RunMeta, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, integrator, sigma, rho, beta, x0, y0, z0, dt, steps, finite_points, metrics
		 FROM runs WHERE id = ?`, id)

	meta, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return meta, err
}

// Resolve expands an id prefix to the unique full id it matches.
func (s *Store) Resolve(prefix string) (string, error) {
	rows, err := s.db.Query(`SELECT id FROM runs WHERE id LIKE ?`, prefix+"%")
	if err != nil {
		return "", fmt.Errorf("resolving run id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("no run matches %q", prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("ambiguous run id %q matches %d runs", prefix, len(ids))
	}
}

// LoadTrajectory reads a saved run's states back from disk.
func (s *Store) LoadTrajectory(id string) (*phase.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, "states.csv"))
	if err != nil {
		return nil, fmt.Errorf("opening trajectory: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading trajectory: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("trajectory file for %s is empty", id)
	}

	dim := len(records[0]) - 1
	tr := &phase.Trajectory{
		States: make([]phase.State, 0, len(records)-1),
		Times:  make([]float64, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		if len(rec) != dim+1 {
			return nil, fmt.Errorf("trajectory row has %d fields, want %d", len(rec), dim+1)
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing time %q: %w", rec[0], err)
		}
		x := make(phase.State, dim)
		for j := 0; j < dim; j++ {
			x[j], err = strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing component %q: %w", rec[j+1], err)
			}
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, x)
	}
	return tr, nil
}

// Delete removes a run from the catalog and its data from disk.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return os.RemoveAll(filepath.Join(s.baseDir, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (*RunMeta, error) {
	var meta RunMeta
	var created, metricsJSON string
	var x0, y0, z0 float64

	err := r.Scan(&meta.ID, &created, &meta.Integrator,
		&meta.Params.Sigma, &meta.Params.Rho, &meta.Params.Beta,
		&x0, &y0, &z0, &meta.Dt, &meta.Steps, &meta.FinitePoints, &metricsJSON)
	if err != nil {
		return nil, err
	}

	meta.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parsing run timestamp: %w", err)
	}
	meta.Initial = phase.State{x0, y0, z0}
	if metricsJSON != "" {
		if err := json.Unmarshal([]byte(metricsJSON), &meta.Metrics); err != nil {
			return nil, fmt.Errorf("decoding metrics: %w", err)
		}
	}
	return &meta, nil
}

func (s *Store) writeStatesCSV(path string, tr *phase.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trajectory file: %w", err)
	}
	defer f.Close()

	return ExportCSV(f, tr)
}
