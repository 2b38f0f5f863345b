package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nattapong-dev/tor-analyzer/internal/entity"
)

// postgresSchema bootstraps the history table. seq preserves insertion order
// within and across analyses.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS tor_material_history (
	seq             BIGSERIAL PRIMARY KEY,
	id              UUID        NOT NULL,
	tor_analysis_id TEXT        NOT NULL,
	item_name       TEXT        NOT NULL,
	brand_model     TEXT        NOT NULL DEFAULT '',
	quantity        TEXT        NOT NULL DEFAULT '',
	unit            TEXT        NOT NULL DEFAULT '',
	tor_page        TEXT        NOT NULL DEFAULT '',
	spec_details    TEXT        NOT NULL DEFAULT '',
	agency_name     TEXT        NOT NULL DEFAULT '',
	project_id      TEXT        NOT NULL DEFAULT '',
	document_id     TEXT        NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tmh_analysis ON tor_material_history (tor_analysis_id);
CREATE INDEX IF NOT EXISTS idx_tmh_item_name ON tor_material_history (lower(item_name));
`

type postgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRepository returns a MaterialRepository backed by Postgres,
// creating the history table if it does not exist.
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) (MaterialRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &postgresRepository{pool: pool, logger: logger}, nil
}

func (r *postgresRepository) SaveSpecifications(ctx context.Context, torAnalysisID string, opts SaveOptions, specs []entity.MaterialSpec) (int, error) {
	valid := filterValidSpecs(specs)
	if dropped := len(specs) - len(valid); dropped > 0 {
		r.logger.Warn("materials.save.invalid_rows_dropped",
			"tor_analysis_id", torAnalysisID, "dropped", dropped)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	// one transaction per batch: the caller sees aggregate success or failure
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, s := range valid {
		_, err := tx.Exec(ctx, `
			INSERT INTO tor_material_history
				(id, tor_analysis_id, item_name, brand_model, quantity, unit,
				 tor_page, spec_details, agency_name, project_id, document_id, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			uuid.New(), torAnalysisID, s.ItemName, s.BrandModel, s.Quantity, s.Unit,
			s.TORPage, s.SpecDetails, opts.AgencyName, opts.ProjectID, opts.DocumentID, now,
		)
		if err != nil {
			return 0, fmt.Errorf("insert spec %q: %w", s.ItemName, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	r.logger.Info("materials.save.ok",
		"tor_analysis_id", torAnalysisID, "rows", len(valid))
	return len(valid), nil
}

func (r *postgresRepository) GetByAnalysisID(ctx context.Context, torAnalysisID string, limit int) ([]entity.StoredMaterialSpec, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tor_analysis_id, item_name, brand_model, quantity, unit,
		       tor_page, spec_details, agency_name, project_id, document_id, created_at
		FROM tor_material_history
		WHERE tor_analysis_id = $1
		ORDER BY seq
		LIMIT $2`,
		torAnalysisID, lookupLimit(limit),
	)
	if err != nil {
		r.logger.Error("materials.get.query_failed", "tor_analysis_id", torAnalysisID, "error", err)
		return nil, err
	}
	defer rows.Close()
	return scanStoredSpecs(rows)
}

func (r *postgresRepository) SearchByItemName(ctx context.Context, itemName, agencyName string, limit int) ([]entity.StoredMaterialSpec, error) {
	query := `
		SELECT tor_analysis_id, item_name, brand_model, quantity, unit,
		       tor_page, spec_details, agency_name, project_id, document_id, created_at
		FROM tor_material_history
		WHERE item_name ILIKE '%' || $1 || '%'`
	args := []any{itemName}
	if agencyName != "" {
		query += ` AND agency_name = $2`
		args = append(args, agencyName)
	}
	query += fmt.Sprintf(` ORDER BY seq DESC LIMIT %d`, searchLimit(limit))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("materials.search.query_failed", "item_name", itemName, "error", err)
		return nil, err
	}
	defer rows.Close()
	return scanStoredSpecs(rows)
}

func scanStoredSpecs(rows pgx.Rows) ([]entity.StoredMaterialSpec, error) {
	out := make([]entity.StoredMaterialSpec, 0)
	for rows.Next() {
		var s entity.StoredMaterialSpec
		if err := rows.Scan(
			&s.TORAnalysisID, &s.ItemName, &s.BrandModel, &s.Quantity, &s.Unit,
			&s.TORPage, &s.SpecDetails, &s.AgencyName, &s.ProjectID, &s.DocumentID, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
