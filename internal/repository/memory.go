package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nattapong-dev/tor-analyzer/internal/entity"
)

// MemoryRepository is an in-process MaterialRepository. It backs tests and
// credential-less CLI runs where nothing should touch disk.
type MemoryRepository struct {
	mu   sync.Mutex
	rows []entity.StoredMaterialSpec
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) SaveSpecifications(_ context.Context, torAnalysisID string, opts SaveOptions, specs []entity.MaterialSpec) (int, error) {
	valid := filterValidSpecs(specs)
	if len(valid) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range valid {
		r.rows = append(r.rows, entity.StoredMaterialSpec{
			MaterialSpec:  s,
			TORAnalysisID: torAnalysisID,
			AgencyName:    opts.AgencyName,
			ProjectID:     opts.ProjectID,
			DocumentID:    opts.DocumentID,
			CreatedAt:     now,
		})
	}
	return len(valid), nil
}

func (r *MemoryRepository) GetByAnalysisID(_ context.Context, torAnalysisID string, limit int) ([]entity.StoredMaterialSpec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.StoredMaterialSpec, 0)
	for _, row := range r.rows {
		if row.TORAnalysisID != torAnalysisID {
			continue
		}
		out = append(out, row)
		if len(out) == lookupLimit(limit) {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepository) SearchByItemName(_ context.Context, itemName, agencyName string, limit int) ([]entity.StoredMaterialSpec, error) {
	needle := strings.ToLower(itemName)

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.StoredMaterialSpec, 0)
	// walk newest-first: rows are appended in insertion order
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := r.rows[i]
		if !strings.Contains(strings.ToLower(row.ItemName), needle) {
			continue
		}
		if agencyName != "" && row.AgencyName != agencyName {
			continue
		}
		out = append(out, row)
		if len(out) == searchLimit(limit) {
			break
		}
	}
	return out, nil
}
