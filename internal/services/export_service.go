package services

import (
	"context"
	"fmt"
	"io"

	"construction_inventory_backend/internal/models"
	"construction_inventory_backend/internal/repositories"

	"github.com/xuri/excelize/v2"
)

const materialsSheet = "Materials"

var materialExportHeader = []interface{}{
	"id",
	"name",
	"category",
	"unit",
	"price_per_unit",
	"current_quantity",
	"minimum_stock_level",
	"stock_value",
	"low_stock",
	"notes",
}

// ExportService renders the catalog as a spreadsheet.
type ExportService interface {
	ExportMaterials(ctx context.Context, filter models.MaterialFilter, w io.Writer) (int, error)
}

type exportService struct {
	materialRepo repositories.MaterialRepository
}

// NewExportService creates a new instance of ExportService.
func NewExportService(materialRepo repositories.MaterialRepository) ExportService {
	return &exportService{materialRepo: materialRepo}
}

// ExportMaterials writes an XLSX workbook to w and returns the number of material rows.
func (s *exportService) ExportMaterials(ctx context.Context, filter models.MaterialFilter, w io.Writer) (int, error) {
	materials, err := s.materialRepo.ListAllMaterials(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to load materials for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, materialsSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(materialsSheet, "A1", &materialExportHeader); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i, m := range materials {
		category, unit := "", ""
		if m.Category != nil {
			category = m.Category.Name
		}
		if m.UnitOfMeasure != nil {
			unit = m.UnitOfMeasure.Abbreviation
		}
		row := []interface{}{
			m.ID,
			m.Name,
			category,
			unit,
			m.PricePerUnit.InexactFloat64(),
			m.CurrentQuantity.InexactFloat64(),
			m.MinimumStockLevel.InexactFloat64(),
			m.StockValue().Round(2).InexactFloat64(),
			m.IsLowStock(),
			m.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(materialsSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(materials), nil
}
