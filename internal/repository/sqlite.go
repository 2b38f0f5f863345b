package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nattapong-dev/tor-analyzer/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tor_material_history (
	seq             INTEGER PRIMARY KEY AUTOINCREMENT,
	id              TEXT NOT NULL,
	tor_analysis_id TEXT NOT NULL,
	item_name       TEXT NOT NULL,
	brand_model     TEXT NOT NULL DEFAULT '',
	quantity        TEXT NOT NULL DEFAULT '',
	unit            TEXT NOT NULL DEFAULT '',
	tor_page        TEXT NOT NULL DEFAULT '',
	spec_details    TEXT NOT NULL DEFAULT '',
	agency_name     TEXT NOT NULL DEFAULT '',
	project_id      TEXT NOT NULL DEFAULT '',
	document_id     TEXT NOT NULL DEFAULT '',
	created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tmh_analysis ON tor_material_history (tor_analysis_id);
`

// SQLiteRepository is a file-backed MaterialRepository for local, single-user
// runs where no Postgres is configured.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteRepository opens (and bootstraps) a SQLite history store at path.
// An empty path defaults to ~/.tor-analyzer/history.db.
func NewSQLiteRepository(path string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".tor-analyzer", "history.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &SQLiteRepository{db: db, path: path, logger: logger}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error { return r.db.Close() }

// Path returns the database file path.
func (r *SQLiteRepository) Path() string { return r.path }

func (r *SQLiteRepository) SaveSpecifications(ctx context.Context, torAnalysisID string, opts SaveOptions, specs []entity.MaterialSpec) (int, error) {
	valid := filterValidSpecs(specs)
	if dropped := len(specs) - len(valid); dropped > 0 {
		r.logger.Warn("materials.save.invalid_rows_dropped",
			"tor_analysis_id", torAnalysisID, "dropped", dropped)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tor_material_history
			(id, tor_analysis_id, item_name, brand_model, quantity, unit,
			 tor_page, spec_details, agency_name, project_id, document_id, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, s := range valid {
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), torAnalysisID, s.ItemName, s.BrandModel, s.Quantity, s.Unit,
			s.TORPage, s.SpecDetails, opts.AgencyName, opts.ProjectID, opts.DocumentID, now,
		); err != nil {
			return 0, fmt.Errorf("insert spec %q: %w", s.ItemName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	r.logger.Info("materials.save.ok",
		"tor_analysis_id", torAnalysisID, "rows", len(valid))
	return len(valid), nil
}

func (r *SQLiteRepository) GetByAnalysisID(ctx context.Context, torAnalysisID string, limit int) ([]entity.StoredMaterialSpec, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tor_analysis_id, item_name, brand_model, quantity, unit,
		       tor_page, spec_details, agency_name, project_id, document_id, created_at
		FROM tor_material_history
		WHERE tor_analysis_id = ?
		ORDER BY seq
		LIMIT ?`,
		torAnalysisID, lookupLimit(limit),
	)
	if err != nil {
		r.logger.Error("materials.get.query_failed", "tor_analysis_id", torAnalysisID, "error", err)
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	return scanSQLiteSpecs(rows)
}

func (r *SQLiteRepository) SearchByItemName(ctx context.Context, itemName, agencyName string, limit int) ([]entity.StoredMaterialSpec, error) {
	query := `
		SELECT tor_analysis_id, item_name, brand_model, quantity, unit,
		       tor_page, spec_details, agency_name, project_id, document_id, created_at
		FROM tor_material_history
		WHERE lower(item_name) LIKE '%' || lower(?) || '%'`
	args := []any{itemName}
	if agencyName != "" {
		query += ` AND agency_name = ?`
		args = append(args, agencyName)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, searchLimit(limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("materials.search.query_failed", "item_name", itemName, "error", err)
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	return scanSQLiteSpecs(rows)
}

func scanSQLiteSpecs(rows *sql.Rows) ([]entity.StoredMaterialSpec, error) {
	out := make([]entity.StoredMaterialSpec, 0)
	for rows.Next() {
		var s entity.StoredMaterialSpec
		var createdAt string
		if err := rows.Scan(
			&s.TORAnalysisID, &s.ItemName, &s.BrandModel, &s.Quantity, &s.Unit,
			&s.TORPage, &s.SpecDetails, &s.AgencyName, &s.ProjectID, &s.DocumentID, &createdAt,
		); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			s.CreatedAt = t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
