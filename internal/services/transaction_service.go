package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"construction_inventory_backend/internal/models"
	"construction_inventory_backend/internal/repositories"
	"construction_inventory_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// RecordTransactionRequest is the input of RecordTransaction. CreatedAt is
// stored only when supplied.
type RecordTransactionRequest struct {
	MaterialID      int64                  `json:"material_id"`
	TransactionType models.TransactionType `json:"transaction_type"`
	Quantity        *decimal.Decimal       `json:"quantity"`
	UnitPrice       *decimal.Decimal       `json:"unit_price"`
	CreatedAt       *time.Time             `json:"created_at"`
	Reference       string                 `json:"reference"`
	Notes           string                 `json:"notes"`
}

// TransactionService is the stock movement ledger.
//
// Recording a transaction does not change the material's current_quantity;
// stock levels are maintained through UpdateMaterial.
type TransactionService interface {
	RecordTransaction(ctx context.Context, req RecordTransactionRequest, actingUserID *int64) (*models.MaterialTransaction, error)
	GetTransaction(ctx context.Context, id int64) (*models.MaterialTransaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter, page, pageSize int) ([]models.MaterialTransaction, int, error)
	ListTransactionsForMaterial(ctx context.Context, materialID int64, limit int) ([]models.MaterialTransaction, error)
}

type transactionService struct {
	transactionRepo repositories.TransactionRepository
	materialRepo    repositories.MaterialRepository
	txm             repositories.TxManager
}

// NewTransactionService creates a new instance of TransactionService.
func NewTransactionService(transactionRepo repositories.TransactionRepository, materialRepo repositories.MaterialRepository, txm repositories.TxManager) TransactionService {
	return &transactionService{transactionRepo: transactionRepo, materialRepo: materialRepo, txm: txm}
}

func validateTransaction(req RecordTransactionRequest) error {
	var v validator
	v.requiredID("material_id", req.MaterialID)
	v.check(req.TransactionType.Valid(), "transaction_type", "must be one of IN, OUT, ADJUST")

	if req.Quantity == nil {
		v.add("quantity", "is required")
	} else {
		q := *req.Quantity
		switch {
		case !q.IsPositive() && req.TransactionType != models.TransactionAdjust:
			v.add("quantity", "must be positive for IN and OUT transactions")
		default:
			v.amount("quantity", q)
		}
	}
	if req.UnitPrice == nil {
		v.add("unit_price", "is required")
	} else {
		v.nonNegative("unit_price", *req.UnitPrice)
	}
	v.maxLen("reference", req.Reference, 100)
	return v.err()
}

func (s *transactionService) RecordTransaction(ctx context.Context, req RecordTransactionRequest, actingUserID *int64) (*models.MaterialTransaction, error) {
	req.TransactionType = models.TransactionType(strings.ToUpper(strings.TrimSpace(string(req.TransactionType))))
	req.Reference = strings.TrimSpace(req.Reference)
	if err := validateTransaction(req); err != nil {
		return nil, err
	}

	record := &models.MaterialTransaction{
		MaterialID:      req.MaterialID,
		TransactionType: req.TransactionType,
		Quantity:        *req.Quantity,
		UnitPrice:       *req.UnitPrice,
		CreatedAt:       req.CreatedAt,
		Reference:       req.Reference,
		Notes:           req.Notes,
		CreatedBy:       actingUserID,
	}

	err := s.txm.WithinTx(ctx, func(ex repositories.SQLExecutor) error {
		material, err := s.materialRepo.GetMaterialByID(ctx, ex, req.MaterialID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fieldError("material_id", fmt.Sprintf("material %d does not exist", req.MaterialID))
			}
			return fmt.Errorf("failed to check material: %w", err)
		}
		if err := s.transactionRepo.CreateTransaction(ctx, ex, record); err != nil {
			if errors.Is(err, repositories.ErrForeignKeyViolation) {
				return fieldError("material_id", fmt.Sprintf("material %d does not exist", req.MaterialID))
			}
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		record.Material = material
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Material transaction recorded", map[string]interface{}{
		"transaction_id": record.ID,
		"material_id":    record.MaterialID,
		"type":           string(record.TransactionType),
		"quantity":       record.Quantity.String(),
		"amount":         record.Amount().StringFixed(2),
	})
	return record, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id int64) (*models.MaterialTransaction, error) {
	tx, err := s.transactionRepo.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter models.TransactionFilter, page, pageSize int) ([]models.MaterialTransaction, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, 0, fieldError("transaction_type", "must be one of IN, OUT, ADJUST")
	}
	txs, total, err := s.transactionRepo.ListTransactions(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

func (s *transactionService) ListTransactionsForMaterial(ctx context.Context, materialID int64, limit int) ([]models.MaterialTransaction, error) {
	if limit <= 0 {
		limit = materialDetailTransactions
	}
	txs, err := s.transactionRepo.ListRecent(ctx, &materialID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list material transactions: %w", err)
	}
	return txs, nil
}
