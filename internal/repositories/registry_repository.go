package repositories

import (
	"context"
	"database/sql"
	"strings"

	"construction_inventory_backend/internal/models"
)

// CategoryRepository persists material categories.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, executor SQLExecutor, category *models.MaterialCategory) error
	GetCategoryByID(ctx context.Context, executor SQLExecutor, id int64) (*models.MaterialCategory, error)
	ListCategories(ctx context.Context, search string) ([]models.MaterialCategory, error)
	UpdateCategory(ctx context.Context, executor SQLExecutor, category *models.MaterialCategory) error
	DeleteCategory(ctx context.Context, executor SQLExecutor, id int64) error
}

// UnitRepository persists units of measure.
type UnitRepository interface {
	CreateUnit(ctx context.Context, executor SQLExecutor, unit *models.UnitOfMeasure) error
	GetUnitByID(ctx context.Context, executor SQLExecutor, id int64) (*models.UnitOfMeasure, error)
	ListUnits(ctx context.Context, search string) ([]models.UnitOfMeasure, error)
	UpdateUnit(ctx context.Context, executor SQLExecutor, unit *models.UnitOfMeasure) error
	DeleteUnit(ctx context.Context, executor SQLExecutor, id int64) error
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, executor SQLExecutor, category *models.MaterialCategory) error {
	query := `INSERT INTO material_categories (name, description) VALUES ($1, $2) RETURNING id`
	err := executor.QueryRowContext(ctx, query, category.Name, category.Description).Scan(&category.ID)
	return classify(err, "creating category")
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, executor SQLExecutor, id int64) (*models.MaterialCategory, error) {
	var cat models.MaterialCategory
	query := `SELECT id, name, description FROM material_categories WHERE id = $1`
	if err := executor.QueryRowContext(ctx, query, id).Scan(&cat.ID, &cat.Name, &cat.Description); err != nil {
		return nil, classify(err, "getting category")
	}
	return &cat, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context, search string) ([]models.MaterialCategory, error) {
	query := `SELECT id, name, description FROM material_categories`
	var args []interface{}
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, likePattern(s))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "listing categories")
	}
	defer rows.Close()

	categories := []models.MaterialCategory{}
	for rows.Next() {
		var cat models.MaterialCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description); err != nil {
			return nil, classify(err, "scanning category")
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterating categories")
	}
	return categories, nil
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, executor SQLExecutor, category *models.MaterialCategory) error {
	query := `UPDATE material_categories SET name = $1, description = $2 WHERE id = $3`
	res, err := executor.ExecContext(ctx, query, category.Name, category.Description, category.ID)
	if err != nil {
		return classify(err, "updating category")
	}
	return expectOneRow(res, "updating category")
}

// DeleteCategory relies on ON DELETE RESTRICT: a referenced category yields ErrForeignKeyViolation.
func (r *categoryRepository) DeleteCategory(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM material_categories WHERE id = $1`, id)
	if err != nil {
		return classify(err, "deleting category")
	}
	return expectOneRow(res, "deleting category")
}

type unitRepository struct {
	db *sql.DB
}

// NewUnitRepository creates a new instance of UnitRepository.
func NewUnitRepository(db *sql.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) CreateUnit(ctx context.Context, executor SQLExecutor, unit *models.UnitOfMeasure) error {
	query := `INSERT INTO units_of_measure (name, abbreviation) VALUES ($1, $2) RETURNING id`
	err := executor.QueryRowContext(ctx, query, unit.Name, unit.Abbreviation).Scan(&unit.ID)
	return classify(err, "creating unit")
}

func (r *unitRepository) GetUnitByID(ctx context.Context, executor SQLExecutor, id int64) (*models.UnitOfMeasure, error) {
	var u models.UnitOfMeasure
	query := `SELECT id, name, abbreviation FROM units_of_measure WHERE id = $1`
	if err := executor.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Abbreviation); err != nil {
		return nil, classify(err, "getting unit")
	}
	return &u, nil
}

func (r *unitRepository) ListUnits(ctx context.Context, search string) ([]models.UnitOfMeasure, error) {
	query := `SELECT id, name, abbreviation FROM units_of_measure`
	var args []interface{}
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE name ILIKE $1 OR abbreviation ILIKE $1`
		args = append(args, likePattern(s))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "listing units")
	}
	defer rows.Close()

	units := []models.UnitOfMeasure{}
	for rows.Next() {
		var u models.UnitOfMeasure
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation); err != nil {
			return nil, classify(err, "scanning unit")
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterating units")
	}
	return units, nil
}

func (r *unitRepository) UpdateUnit(ctx context.Context, executor SQLExecutor, unit *models.UnitOfMeasure) error {
	query := `UPDATE units_of_measure SET name = $1, abbreviation = $2 WHERE id = $3`
	res, err := executor.ExecContext(ctx, query, unit.Name, unit.Abbreviation, unit.ID)
	if err != nil {
		return classify(err, "updating unit")
	}
	return expectOneRow(res, "updating unit")
}

func (r *unitRepository) DeleteUnit(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM units_of_measure WHERE id = $1`, id)
	if err != nil {
		return classify(err, "deleting unit")
	}
	return expectOneRow(res, "deleting unit")
}
