package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"construction_inventory_backend/internal/models"

	"github.com/shopspring/decimal"
)

// MaterialRepository defines the database operations of the material catalog.
type MaterialRepository interface {
	CreateMaterial(ctx context.Context, executor SQLExecutor, material *models.ConstructionMaterial) error
	GetMaterialByID(ctx context.Context, executor SQLExecutor, id int64) (*models.ConstructionMaterial, error)
	LockMaterial(ctx context.Context, executor SQLExecutor, id int64) (*models.ConstructionMaterial, error)
	ListMaterials(ctx context.Context, filter models.MaterialFilter, page, pageSize int) ([]models.ConstructionMaterial, int, error)
	ListAllMaterials(ctx context.Context, filter models.MaterialFilter) ([]models.ConstructionMaterial, error)
	UpdateMaterial(ctx context.Context, executor SQLExecutor, material *models.ConstructionMaterial) error
	DeleteMaterial(ctx context.Context, executor SQLExecutor, id int64) error
	GetPrice(ctx context.Context, id int64) (decimal.Decimal, error)
}

type materialRepository struct {
	db *sql.DB
}

// NewMaterialRepository creates a new instance of MaterialRepository.
func NewMaterialRepository(db *sql.DB) MaterialRepository {
	return &materialRepository{db: db}
}

const materialSelect = `SELECT
	    m.id, m.name, m.category_id, m.unit_of_measure_id, m.price_per_unit,
	    m.current_quantity, m.minimum_stock_level, m.notes, m.created_by, m.created_at, m.updated_at,
	    c.name, c.description, u.name, u.abbreviation`

const materialFrom = `
	  FROM construction_materials m
	  JOIN material_categories c ON m.category_id = c.id
	  JOIN units_of_measure u ON m.unit_of_measure_id = u.id`

// scanMaterial reads one row produced by materialSelect, plus any extra destinations.
func scanMaterial(s scanner, extra ...interface{}) (models.ConstructionMaterial, error) {
	var m models.ConstructionMaterial
	var createdBy sql.NullInt64
	cat := &models.MaterialCategory{}
	unit := &models.UnitOfMeasure{}

	dest := []interface{}{
		&m.ID, &m.Name, &m.CategoryID, &m.UnitOfMeasureID, &m.PricePerUnit,
		&m.CurrentQuantity, &m.MinimumStockLevel, &m.Notes, &createdBy, &m.CreatedAt, &m.UpdatedAt,
		&cat.Name, &cat.Description, &unit.Name, &unit.Abbreviation,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return m, err
	}
	if createdBy.Valid {
		m.CreatedBy = &createdBy.Int64
	}
	cat.ID = m.CategoryID
	unit.ID = m.UnitOfMeasureID
	m.Category = cat
	m.UnitOfMeasure = unit
	return m, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (r *materialRepository) CreateMaterial(ctx context.Context, executor SQLExecutor, material *models.ConstructionMaterial) error {
	query := `INSERT INTO construction_materials
	          (name, category_id, unit_of_measure_id, price_per_unit, current_quantity, minimum_stock_level,
	           notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		material.Name, material.CategoryID, material.UnitOfMeasureID, material.PricePerUnit,
		material.CurrentQuantity, material.MinimumStockLevel, material.Notes,
		nullableID(material.CreatedBy), material.CreatedAt, material.UpdatedAt,
	).Scan(&material.ID)
	return classify(err, "creating material")
}

func (r *materialRepository) GetMaterialByID(ctx context.Context, executor SQLExecutor, id int64) (*models.ConstructionMaterial, error) {
	m, err := scanMaterial(executor.QueryRowContext(ctx, materialSelect+materialFrom+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, classify(err, "getting material")
	}
	return &m, nil
}

// LockMaterial takes a row lock on the material for the rest of the transaction.
// Inserting a transaction row needs a key-share lock on the same row, so
// concurrent ledger writes wait until the caller commits.
func (r *materialRepository) LockMaterial(ctx context.Context, executor SQLExecutor, id int64) (*models.ConstructionMaterial, error) {
	var m models.ConstructionMaterial
	query := `SELECT id, name FROM construction_materials WHERE id = $1 FOR UPDATE`
	if err := executor.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name); err != nil {
		return nil, classify(err, "locking material")
	}
	return &m, nil
}

func buildMaterialWhere(filter models.MaterialFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("m.category_id = $%d", argCount))
		args = append(args, *filter.CategoryID)
		argCount++
	}
	if filter.UnitID != nil {
		conditions = append(conditions, fmt.Sprintf("m.unit_of_measure_id = $%d", argCount))
		args = append(args, *filter.UnitID)
		argCount++
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		conditions = append(conditions, fmt.Sprintf("(m.name ILIKE $%d OR m.notes ILIKE $%d)", argCount, argCount))
		args = append(args, likePattern(s))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *materialRepository) ListMaterials(ctx context.Context, filter models.MaterialFilter, page, pageSize int) ([]models.ConstructionMaterial, int, error) {
	where, args := buildMaterialWhere(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(materialSelect)
	queryBuilder.WriteString(", COUNT(*) OVER() AS total_count")
	queryBuilder.WriteString(materialFrom)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY m.name, m.id")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, classify(err, "listing materials")
	}
	defer rows.Close()

	materials := []models.ConstructionMaterial{}
	totalCount := 0
	for rows.Next() {
		m, err := scanMaterial(rows, &totalCount)
		if err != nil {
			return nil, 0, classify(err, "scanning material")
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err, "iterating materials")
	}
	if len(materials) == 0 && page > 1 {
		// Past the last page the window count is unavailable; ask directly.
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+materialFrom+where, args[:len(args)-2]...).Scan(&totalCount); err != nil {
			return nil, 0, classify(err, "counting materials")
		}
	}
	return materials, totalCount, nil
}

func (r *materialRepository) ListAllMaterials(ctx context.Context, filter models.MaterialFilter) ([]models.ConstructionMaterial, error) {
	where, args := buildMaterialWhere(filter)
	rows, err := r.db.QueryContext(ctx, materialSelect+materialFrom+where+" ORDER BY m.name, m.id", args...)
	if err != nil {
		return nil, classify(err, "listing all materials")
	}
	defer rows.Close()

	materials := []models.ConstructionMaterial{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, classify(err, "scanning material")
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterating materials")
	}
	return materials, nil
}

func (r *materialRepository) UpdateMaterial(ctx context.Context, executor SQLExecutor, material *models.ConstructionMaterial) error {
	query := `UPDATE construction_materials SET
	          name = $1, category_id = $2, unit_of_measure_id = $3, price_per_unit = $4,
	          current_quantity = $5, minimum_stock_level = $6, notes = $7, updated_at = $8
	          WHERE id = $9`
	res, err := executor.ExecContext(ctx, query,
		material.Name, material.CategoryID, material.UnitOfMeasureID, material.PricePerUnit,
		material.CurrentQuantity, material.MinimumStockLevel, material.Notes, material.UpdatedAt,
		material.ID,
	)
	if err != nil {
		return classify(err, "updating material")
	}
	return expectOneRow(res, "updating material")
}

func (r *materialRepository) DeleteMaterial(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM construction_materials WHERE id = $1`, id)
	if err != nil {
		return classify(err, "deleting material")
	}
	return expectOneRow(res, "deleting material")
}

func (r *materialRepository) GetPrice(ctx context.Context, id int64) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT price_per_unit FROM construction_materials WHERE id = $1`, id).Scan(&price)
	if err != nil {
		return decimal.Zero, classify(err, "getting material price")
	}
	return price, nil
}
