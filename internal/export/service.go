// Package export produces XLSX workbooks from stored material specifications,
// for handing analysis results to estimators and back-office tooling.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nattapong-dev/tor-analyzer/internal/repository"
)

// Service is a tiny façade over the material repository that produces XLSX
// bytes for exports.
type Service struct {
	materials repository.MaterialRepository
	logger    *slog.Logger
}

func NewService(materials repository.MaterialRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{materials: materials, logger: logger}
}

// ExportMaterialSpecsXLSX returns an XLSX workbook (as bytes) listing every
// stored material spec for one analysis run, in insertion order.
func (s *Service) ExportMaterialSpecsXLSX(ctx context.Context, torAnalysisID string) ([]byte, error) {
	start := time.Now()

	specs, err := s.materials.GetByAnalysisID(ctx, torAnalysisID, 0)
	if err != nil {
		return nil, fmt.Errorf("query specs: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Material Specifications"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Item Name",
		"Brand/Model",
		"Quantity",
		"Unit",
		"TOR Page",
		"Spec Details",
		"Agency",
		"Extracted At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, spec := range specs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, spec.ItemName)
		write(2, spec.BrandModel)
		write(3, spec.Quantity)
		write(4, spec.Unit)
		write(5, spec.TORPage)
		write(6, truncate(spec.SpecDetails, 140))
		write(7, spec.AgencyName)
		if !spec.CreatedAt.IsZero() {
			write(8, spec.CreatedAt.Format("2006-01-02"))
		}

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 32) // item
	_ = f.SetColWidth(sheet, "B", "B", 20) // brand/model
	_ = f.SetColWidth(sheet, "C", "D", 10) // quantity/unit
	_ = f.SetColWidth(sheet, "F", "F", 48) // details
	_ = f.SetColWidth(sheet, "G", "G", 24) // agency

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"tor_analysis_id", torAnalysisID,
		"rows", len(specs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
