package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nattapong-dev/tor-analyzer/internal/entity"
)

func seedSpecs(t *testing.T, r *MemoryRepository, torAnalysisID string, opts SaveOptions, specs ...entity.MaterialSpec) int {
	t.Helper()
	n, err := r.SaveSpecifications(context.Background(), torAnalysisID, opts, specs)
	require.NoError(t, err)
	return n
}

func TestSaveAndGetByAnalysisID(t *testing.T) {
	repo := NewMemoryRepository()
	n := seedSpecs(t, repo, "tor_123", SaveOptions{AgencyName: "กรมทางหลวง"},
		entity.MaterialSpec{ItemName: "สายไฟ", Quantity: "10", Unit: "ม้วน", TORPage: "12"},
		entity.MaterialSpec{ItemName: "ท่อ PVC", Quantity: "20", Unit: "เส้น"},
	)
	assert.Equal(t, 2, n)

	rows, err := repo.GetByAnalysisID(context.Background(), "tor_123", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "สายไฟ", rows[0].ItemName)
	assert.Equal(t, "ม้วน", rows[0].Unit)
	assert.Equal(t, "12", rows[0].TORPage)
	assert.Equal(t, "กรมทางหลวง", rows[0].AgencyName)
	assert.Equal(t, "tor_123", rows[0].TORAnalysisID)
	assert.False(t, rows[0].CreatedAt.IsZero())

	other, err := repo.GetByAnalysisID(context.Background(), "tor_999", 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSaveDropsRowsWithoutItemName(t *testing.T) {
	repo := NewMemoryRepository()
	n := seedSpecs(t, repo, "tor_123", SaveOptions{},
		entity.MaterialSpec{ItemName: "สายไฟ"},
		entity.MaterialSpec{ItemName: "   "},
		entity.MaterialSpec{ItemName: ""},
	)
	assert.Equal(t, 1, n)

	rows, err := repo.GetByAnalysisID(context.Background(), "tor_123", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "สายไฟ", rows[0].ItemName)
}

func TestSaveAllInvalidIsNoop(t *testing.T) {
	repo := NewMemoryRepository()
	n := seedSpecs(t, repo, "tor_123", SaveOptions{},
		entity.MaterialSpec{ItemName: ""},
	)
	assert.Equal(t, 0, n)

	rows, err := repo.GetByAnalysisID(context.Background(), "tor_123", 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearchByItemNameSubstring(t *testing.T) {
	repo := NewMemoryRepository()
	seedSpecs(t, repo, "tor_1", SaveOptions{AgencyName: "กรมชลประทาน"},
		entity.MaterialSpec{ItemName: "สายไฟ THW 2.5"},
	)
	seedSpecs(t, repo, "tor_2", SaveOptions{AgencyName: "กรมทางหลวง"},
		entity.MaterialSpec{ItemName: "สายไฟ VCT"},
		entity.MaterialSpec{ItemName: "ท่อ PVC"},
	)

	rows, err := repo.SearchByItemName(context.Background(), "สายไฟ", "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// newest first
	assert.Equal(t, "สายไฟ VCT", rows[0].ItemName)
	assert.Equal(t, "สายไฟ THW 2.5", rows[1].ItemName)
}

func TestSearchCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository()
	seedSpecs(t, repo, "tor_1", SaveOptions{},
		entity.MaterialSpec{ItemName: "Pipe PVC Class 8.5"},
	)

	rows, err := repo.SearchByItemName(context.Background(), "pvc", "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSearchScopedToAgency(t *testing.T) {
	repo := NewMemoryRepository()
	seedSpecs(t, repo, "tor_1", SaveOptions{AgencyName: "กรมชลประทาน"},
		entity.MaterialSpec{ItemName: "สายไฟ"},
	)
	seedSpecs(t, repo, "tor_2", SaveOptions{AgencyName: "กรมทางหลวง"},
		entity.MaterialSpec{ItemName: "สายไฟ"},
	)

	rows, err := repo.SearchByItemName(context.Background(), "สายไฟ", "กรมทางหลวง", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "tor_2", rows[0].TORAnalysisID)
}

func TestSearchHonorsLimit(t *testing.T) {
	repo := NewMemoryRepository()
	specs := make([]entity.MaterialSpec, 15)
	for i := range specs {
		specs[i] = entity.MaterialSpec{ItemName: "ท่อ PVC"}
	}
	seedSpecs(t, repo, "tor_1", SaveOptions{}, specs...)

	rows, err := repo.SearchByItemName(context.Background(), "PVC", "", 0)
	require.NoError(t, err)
	assert.Len(t, rows, DefaultSearchLimit)

	rows, err = repo.SearchByItemName(context.Background(), "PVC", "", 3)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGetHonorsLimit(t *testing.T) {
	repo := NewMemoryRepository()
	specs := make([]entity.MaterialSpec, 5)
	for i := range specs {
		specs[i] = entity.MaterialSpec{ItemName: "สายไฟ"}
	}
	seedSpecs(t, repo, "tor_1", SaveOptions{}, specs...)

	rows, err := repo.GetByAnalysisID(context.Background(), "tor_1", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
