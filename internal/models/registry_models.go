package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Money and quantities travel as JSON numbers, e.g. "price_per_unit": 350.5.
	decimal.MarshalJSONWithoutQuotes = true
}

// MaterialCategory groups construction materials, e.g. "Cement" or "Steel".
type MaterialCategory struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

func (c MaterialCategory) String() string { return c.Name }

// UnitOfMeasure is the unit a material is stocked and priced in.
type UnitOfMeasure struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Abbreviation string `json:"abbreviation" db:"abbreviation"`
}

// String renders the unit as "Bag (bg)".
func (u UnitOfMeasure) String() string {
	return fmt.Sprintf("%s (%s)", u.Name, u.Abbreviation)
}
