package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConstructionMaterial is a stockable catalog item.
type ConstructionMaterial struct {
	ID                int64           `json:"id" db:"id"`
	Name              string          `json:"name" db:"name"`
	CategoryID        int64           `json:"category_id" db:"category_id"`
	UnitOfMeasureID   int64           `json:"unit_of_measure_id" db:"unit_of_measure_id"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit" db:"price_per_unit"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity" db:"current_quantity"`
	MinimumStockLevel decimal.Decimal `json:"minimum_stock_level" db:"minimum_stock_level"`
	Notes             string          `json:"notes" db:"notes"`
	CreatedBy         *int64          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`

	Category      *MaterialCategory `json:"category,omitempty"`
	UnitOfMeasure *UnitOfMeasure    `json:"unit_of_measure,omitempty"`
}

// StockValue is price_per_unit * current_quantity.
func (m ConstructionMaterial) StockValue() decimal.Decimal {
	return m.PricePerUnit.Mul(m.CurrentQuantity)
}

// IsLowStock reports whether the quantity on hand is at or below the minimum.
func (m ConstructionMaterial) IsLowStock() bool {
	return m.CurrentQuantity.LessThanOrEqual(m.MinimumStockLevel)
}

// String renders the material as "Portland Cement (bg)" when the unit is loaded.
func (m ConstructionMaterial) String() string {
	if m.UnitOfMeasure == nil {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.UnitOfMeasure.Abbreviation)
}

// MaterialFilter narrows material listings. Zero values mean "no filter".
type MaterialFilter struct {
	CategoryID *int64
	UnitID     *int64
	Search     string
}

// MaterialDetail is a material together with its latest transactions.
type MaterialDetail struct {
	ConstructionMaterial
	Transactions []MaterialTransaction `json:"transactions"`
}
