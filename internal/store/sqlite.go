package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/worktime/internal/domain"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no run matches an ID
var ErrNotFound = errors.New("run not found")

// Store keeps the history of calculated reports
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a report and returns the saved run
func (s *Store) SaveRun(source string, report *domain.Report) (*domain.Run, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = s.db.Exec(
		"INSERT INTO runs (id, source, available_hours, grand_total, report, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, source, report.AvailableHours, report.GrandTotal, string(data), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return &domain.Run{
		ID:        id,
		Source:    source,
		Report:    report,
		CreatedAt: now,
	}, nil
}

// GetRun retrieves a run by its full ID
func (s *Store) GetRun(id string) (*domain.Run, error) {
	row := s.db.QueryRow(
		"SELECT id, source, report, created_at FROM runs WHERE id = ?",
		id,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// FindRun retrieves the most recent run whose ID starts with prefix
func (s *Store) FindRun(prefix string) (*domain.Run, error) {
	if prefix == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRow(
		"SELECT id, source, report, created_at FROM runs WHERE substr(id, 1, ?) = ? ORDER BY created_at DESC LIMIT 1",
		len(prefix), prefix,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find run %s: %w", prefix, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	return run, nil
}

// ListRuns returns recent runs with pagination
func (s *Store) ListRuns(limit, offset int) ([]domain.Run, error) {
	rows, err := s.db.Query(
		"SELECT id, source, report, created_at FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*domain.Run, error) {
	var (
		run  domain.Run
		data string
	)
	if err := sc.Scan(&run.ID, &run.Source, &data, &run.CreatedAt); err != nil {
		return nil, err
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", run.ID, err)
	}
	run.Report = &report
	return &run, nil
}
