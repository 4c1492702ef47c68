package models

import "github.com/shopspring/decimal"

// DashboardSummary is the read model rendered on the dashboard.
type DashboardSummary struct {
	MaterialCount       int                    `json:"material_count"`
	TotalInventoryValue decimal.Decimal        `json:"total_inventory_value"`
	LowStockItems       []ConstructionMaterial `json:"low_stock_items"`
	RecentTransactions  []MaterialTransaction  `json:"recent_transactions"`
}
