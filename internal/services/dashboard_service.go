package services

import (
	"context"
	"fmt"

	"construction_inventory_backend/internal/models"
	"construction_inventory_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// DefaultRecentTransactions is how many transactions the dashboard shows.
const DefaultRecentTransactions = 10

// DashboardService computes inventory aggregates fresh on every call.
type DashboardService interface {
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
	LowStockItems(ctx context.Context) ([]models.ConstructionMaterial, error)
	RecentTransactions(ctx context.Context, limit int) ([]models.MaterialTransaction, error)
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

type dashboardService struct {
	dashboardRepo   repositories.DashboardRepository
	transactionRepo repositories.TransactionRepository
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(dashboardRepo repositories.DashboardRepository, transactionRepo repositories.TransactionRepository) DashboardService {
	return &dashboardService{dashboardRepo: dashboardRepo, transactionRepo: transactionRepo}
}

func (s *dashboardService) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.dashboardRepo.TotalInventoryValue(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute inventory value: %w", err)
	}
	return total, nil
}

func (s *dashboardService) LowStockItems(ctx context.Context) ([]models.ConstructionMaterial, error) {
	items, err := s.dashboardRepo.LowStockItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return items, nil
}

func (s *dashboardService) RecentTransactions(ctx context.Context, limit int) ([]models.MaterialTransaction, error) {
	if limit <= 0 {
		limit = DefaultRecentTransactions
	}
	txs, err := s.transactionRepo.ListRecent(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return txs, nil
}

func (s *dashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	total, err := s.TotalInventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.dashboardRepo.CountMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count materials: %w", err)
	}
	lowStock, err := s.LowStockItems(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.RecentTransactions(ctx, DefaultRecentTransactions)
	if err != nil {
		return nil, err
	}
	return &models.DashboardSummary{
		MaterialCount:       count,
		TotalInventoryValue: total,
		LowStockItems:       lowStock,
		RecentTransactions:  recent,
	}, nil
}
