package repositories

import (
	"context"
	"database/sql"

	"construction_inventory_backend/internal/models"

	"github.com/shopspring/decimal"
)

// DashboardRepository holds the aggregate read queries behind the dashboard.
type DashboardRepository interface {
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
	CountMaterials(ctx context.Context) (int, error)
	LowStockItems(ctx context.Context) ([]models.ConstructionMaterial, error)
}

type dashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a new instance of DashboardRepository.
func NewDashboardRepository(db *sql.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// TotalInventoryValue is zero, never NULL, for an empty catalog.
func (r *dashboardRepository) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(price_per_unit * current_quantity), 0) FROM construction_materials`
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, classify(err, "summing inventory value")
	}
	return total, nil
}

func (r *dashboardRepository) CountMaterials(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM construction_materials`).Scan(&n); err != nil {
		return 0, classify(err, "counting materials")
	}
	return n, nil
}

func (r *dashboardRepository) LowStockItems(ctx context.Context) ([]models.ConstructionMaterial, error) {
	query := materialSelect + materialFrom + ` WHERE m.current_quantity <= m.minimum_stock_level ORDER BY m.name, m.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(err, "listing low stock materials")
	}
	defer rows.Close()

	items := []models.ConstructionMaterial{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, classify(err, "scanning low stock material")
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterating low stock materials")
	}
	return items, nil
}
