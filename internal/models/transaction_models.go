package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of stock movement.
type TransactionType string

const (
	TransactionIn     TransactionType = "IN"
	TransactionOut    TransactionType = "OUT"
	TransactionAdjust TransactionType = "ADJUST"
)

// Valid reports whether t is one of IN, OUT or ADJUST.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIn, TransactionOut, TransactionAdjust:
		return true
	}
	return false
}

// Label is the human readable name of the type.
func (t TransactionType) Label() string {
	switch t {
	case TransactionIn:
		return "Stock In"
	case TransactionOut:
		return "Stock Out"
	case TransactionAdjust:
		return "Adjustment"
	}
	return string(t)
}

// MaterialTransaction records a stock movement against a material.
// CreatedAt is only set when the caller supplies it.
type MaterialTransaction struct {
	ID              int64           `json:"id" db:"id"`
	MaterialID      int64           `json:"material_id" db:"material_id"`
	TransactionType TransactionType `json:"transaction_type" db:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	CreatedAt       *time.Time      `json:"created_at" db:"created_at"`
	Reference       string          `json:"reference" db:"reference"`
	Notes           string          `json:"notes" db:"notes"`
	CreatedBy       *int64          `json:"created_by,omitempty" db:"created_by"`

	Material *ConstructionMaterial `json:"material,omitempty"`
}

// Amount is quantity * unit_price. It is never stored.
func (t MaterialTransaction) Amount() decimal.Decimal {
	return t.Quantity.Mul(t.UnitPrice)
}

// MarshalJSON adds the derived amount and type label to the payload.
func (t MaterialTransaction) MarshalJSON() ([]byte, error) {
	type plain MaterialTransaction
	return json.Marshal(struct {
		plain
		TypeLabel string          `json:"transaction_type_label"`
		Amount    decimal.Decimal `json:"amount"`
	}{plain(t), t.TransactionType.Label(), t.Amount()})
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	MaterialID *int64
	Type       *TransactionType
	Search     string
}
