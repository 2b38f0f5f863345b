package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nattapong-dev/tor-analyzer/internal/entity"
	"github.com/nattapong-dev/tor-analyzer/internal/repository"
)

func TestExportMaterialSpecsXLSX(t *testing.T) {
	repo := repository.NewMemoryRepository()
	_, err := repo.SaveSpecifications(context.Background(), "tor_123",
		repository.SaveOptions{AgencyName: "กรมทางหลวง"},
		[]entity.MaterialSpec{
			{ItemName: "สายไฟ THW", BrandModel: "Yazaki", Quantity: "10", Unit: "ม้วน", TORPage: "12"},
			{ItemName: "ท่อ PVC", Quantity: "20", Unit: "เส้น"},
		})
	require.NoError(t, err)

	svc := NewService(repo, nil)
	out, err := svc.ExportMaterialSpecsXLSX(context.Background(), "tor_123")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	// The bytes must open back up as a workbook with the rows in order.
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Material Specifications"
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Item Name", rows[0][0])
	assert.Equal(t, "Agency", rows[0][6])

	assert.Equal(t, "สายไฟ THW", rows[1][0])
	assert.Equal(t, "Yazaki", rows[1][1])
	assert.Equal(t, "10", rows[1][2])
	assert.Equal(t, "กรมทางหลวง", rows[1][6])

	assert.Equal(t, "ท่อ PVC", rows[2][0])
}

func TestExportEmptyAnalysisStillProducesWorkbook(t *testing.T) {
	svc := NewService(repository.NewMemoryRepository(), nil)

	out, err := svc.ExportMaterialSpecsXLSX(context.Background(), "tor_missing")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Material Specifications")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
}
