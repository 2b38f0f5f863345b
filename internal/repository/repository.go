// Package repository persists extracted material specifications and serves the
// historical lookup paths. All implementations are insert-only: rows are never
// updated in place, so concurrent analyses never contend.
package repository

import (
	"context"
	"strings"

	"github.com/nattapong-dev/tor-analyzer/internal/entity"
)

const (
	// DefaultLookupLimit caps GetByAnalysisID when the caller passes no limit.
	DefaultLookupLimit = 100
	// DefaultSearchLimit caps SearchByItemName when the caller passes no limit.
	DefaultSearchLimit = 10
)

// SaveOptions carries optional context stored alongside each spec row.
type SaveOptions struct {
	AgencyName string
	ProjectID  string
	DocumentID string
}

// MaterialRepository stores and retrieves material specification line items
// keyed by the analysis run that produced them.
type MaterialRepository interface {
	// SaveSpecifications writes the batch for one analysis id as a unit and
	// returns the number of rows written. Specs with an empty item name are
	// dropped before writing, never fatal to the batch. Duplicate item names
	// under one analysis are allowed.
	SaveSpecifications(ctx context.Context, torAnalysisID string, opts SaveOptions, specs []entity.MaterialSpec) (int, error)

	// GetByAnalysisID returns the stored specs for one analysis in insertion
	// order. Zero matches yields an empty slice, never an error.
	GetByAnalysisID(ctx context.Context, torAnalysisID string, limit int) ([]entity.StoredMaterialSpec, error)

	// SearchByItemName returns specs whose item name contains itemName
	// (case-insensitive), optionally filtered by agency, most recent first.
	SearchByItemName(ctx context.Context, itemName, agencyName string, limit int) ([]entity.StoredMaterialSpec, error)
}

// filterValidSpecs drops rows with an empty item name.
func filterValidSpecs(specs []entity.MaterialSpec) []entity.MaterialSpec {
	out := make([]entity.MaterialSpec, 0, len(specs))
	for _, s := range specs {
		if strings.TrimSpace(s.ItemName) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func lookupLimit(limit int) int {
	if limit <= 0 {
		return DefaultLookupLimit
	}
	return limit
}

func searchLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	return limit
}
