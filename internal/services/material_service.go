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

const (
	// DefaultPageSize is used by list endpoints when page_size is absent.
	DefaultPageSize = 20
	// MaxPageSize caps client supplied page sizes.
	MaxPageSize = 100
	// materialDetailTransactions is how many transactions the material detail shows.
	materialDetailTransactions = 20
)

// --- Material DTOs ---
type CreateMaterialRequest struct {
	Name              string           `json:"name"`
	CategoryID        int64            `json:"category_id"`
	UnitOfMeasureID   int64            `json:"unit_of_measure_id"`
	PricePerUnit      *decimal.Decimal `json:"price_per_unit"`
	CurrentQuantity   *decimal.Decimal `json:"current_quantity"`
	MinimumStockLevel *decimal.Decimal `json:"minimum_stock_level"`
	Notes             string           `json:"notes"`
}

type UpdateMaterialRequest struct {
	Name              *string          `json:"name"`
	CategoryID        *int64           `json:"category_id"`
	UnitOfMeasureID   *int64           `json:"unit_of_measure_id"`
	PricePerUnit      *decimal.Decimal `json:"price_per_unit"`
	CurrentQuantity   *decimal.Decimal `json:"current_quantity"`
	MinimumStockLevel *decimal.Decimal `json:"minimum_stock_level"`
	Notes             *string          `json:"notes"`
}

// MaterialService manages the material catalog.
type MaterialService interface {
	CreateMaterial(ctx context.Context, req CreateMaterialRequest, actingUserID *int64) (*models.ConstructionMaterial, error)
	GetMaterial(ctx context.Context, id int64) (*models.MaterialDetail, error)
	ListMaterials(ctx context.Context, filter models.MaterialFilter, page, pageSize int) ([]models.ConstructionMaterial, int, error)
	UpdateMaterial(ctx context.Context, id int64, req UpdateMaterialRequest) (*models.ConstructionMaterial, error)
	DeleteMaterial(ctx context.Context, id int64) error
	GetPrice(ctx context.Context, id int64) float64
}

type materialService struct {
	materialRepo    repositories.MaterialRepository
	categoryRepo    repositories.CategoryRepository
	unitRepo        repositories.UnitRepository
	transactionRepo repositories.TransactionRepository
	txm             repositories.TxManager
	now             func() time.Time
}

// NewMaterialService creates a new instance of MaterialService.
func NewMaterialService(
	materialRepo repositories.MaterialRepository,
	categoryRepo repositories.CategoryRepository,
	unitRepo repositories.UnitRepository,
	transactionRepo repositories.TransactionRepository,
	txm repositories.TxManager,
) MaterialService {
	return &materialService{
		materialRepo:    materialRepo,
		categoryRepo:    categoryRepo,
		unitRepo:        unitRepo,
		transactionRepo: transactionRepo,
		txm:             txm,
		now:             time.Now,
	}
}

// validateMaterial is the explicit validation pass shared by create and update.
func validateMaterial(m *models.ConstructionMaterial) error {
	var v validator
	v.name("name", m.Name, 100)
	v.requiredID("category_id", m.CategoryID)
	v.requiredID("unit_of_measure_id", m.UnitOfMeasureID)
	v.nonNegative("price_per_unit", m.PricePerUnit)
	v.nonNegative("current_quantity", m.CurrentQuantity)
	v.nonNegative("minimum_stock_level", m.MinimumStockLevel)
	return v.err()
}

// checkReferences reports dangling category/unit ids as validation errors.
func (s *materialService) checkReferences(ctx context.Context, ex repositories.SQLExecutor, m *models.ConstructionMaterial) error {
	var v validator
	if _, err := s.categoryRepo.GetCategoryByID(ctx, ex, m.CategoryID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to check category: %w", err)
		}
		v.add("category_id", fmt.Sprintf("category %d does not exist", m.CategoryID))
	}
	if _, err := s.unitRepo.GetUnitByID(ctx, ex, m.UnitOfMeasureID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to check unit of measure: %w", err)
		}
		v.add("unit_of_measure_id", fmt.Sprintf("unit of measure %d does not exist", m.UnitOfMeasureID))
	}
	return v.err()
}

// storeWriteError maps constraint errors raised by the store during a material write.
func storeWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrForeignKeyViolation):
		return fieldError(referenceField(repositories.ConstraintName(err)), "references a record that does not exist")
	case errors.Is(err, repositories.ErrCheckViolation):
		return fieldError("material", "violates a stored constraint: "+repositories.ConstraintName(err))
	case errors.Is(err, repositories.ErrNotFound):
		return ErrMaterialNotFound
	}
	return fmt.Errorf("failed to %s material: %w", op, err)
}

func referenceField(constraint string) string {
	switch {
	case strings.Contains(constraint, "category"):
		return "category_id"
	case strings.Contains(constraint, "unit"):
		return "unit_of_measure_id"
	}
	return "reference"
}

func (s *materialService) CreateMaterial(ctx context.Context, req CreateMaterialRequest, actingUserID *int64) (*models.ConstructionMaterial, error) {
	material := &models.ConstructionMaterial{
		Name:            strings.TrimSpace(req.Name),
		CategoryID:      req.CategoryID,
		UnitOfMeasureID: req.UnitOfMeasureID,
		Notes:           req.Notes,
		CreatedBy:       actingUserID,
	}
	if req.PricePerUnit == nil {
		return nil, fieldError("price_per_unit", "is required")
	}
	material.PricePerUnit = *req.PricePerUnit
	if req.CurrentQuantity != nil {
		material.CurrentQuantity = *req.CurrentQuantity
	}
	if req.MinimumStockLevel != nil {
		material.MinimumStockLevel = *req.MinimumStockLevel
	}
	if err := validateMaterial(material); err != nil {
		return nil, err
	}

	var created *models.ConstructionMaterial
	err := s.txm.WithinTx(ctx, func(ex repositories.SQLExecutor) error {
		if err := s.checkReferences(ctx, ex, material); err != nil {
			return err
		}
		now := s.now()
		material.CreatedAt = now
		material.UpdatedAt = now
		if err := s.materialRepo.CreateMaterial(ctx, ex, material); err != nil {
			return storeWriteError(err, "create")
		}
		loaded, err := s.materialRepo.GetMaterialByID(ctx, ex, material.ID)
		if err != nil {
			return fmt.Errorf("failed to reload created material: %w", err)
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Material created", map[string]interface{}{"material_id": created.ID, "name": created.Name})
	return created, nil
}

func (s *materialService) GetMaterial(ctx context.Context, id int64) (*models.MaterialDetail, error) {
	material, err := s.materialRepo.GetMaterialByID(ctx, s.txm.DB(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	transactions, err := s.transactionRepo.ListRecent(ctx, &id, materialDetailTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to get material transactions: %w", err)
	}
	return &models.MaterialDetail{ConstructionMaterial: *material, Transactions: transactions}, nil
}

func (s *materialService) ListMaterials(ctx context.Context, filter models.MaterialFilter, page, pageSize int) ([]models.ConstructionMaterial, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	materials, total, err := s.materialRepo.ListMaterials(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, total, nil
}

func (s *materialService) UpdateMaterial(ctx context.Context, id int64, req UpdateMaterialRequest) (*models.ConstructionMaterial, error) {
	var updated *models.ConstructionMaterial
	err := s.txm.WithinTx(ctx, func(ex repositories.SQLExecutor) error {
		material, err := s.materialRepo.GetMaterialByID(ctx, ex, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrMaterialNotFound
			}
			return fmt.Errorf("failed to find material for update: %w", err)
		}

		refsChanged := false
		if req.Name != nil {
			material.Name = strings.TrimSpace(*req.Name)
		}
		if req.CategoryID != nil && *req.CategoryID != material.CategoryID {
			material.CategoryID = *req.CategoryID
			refsChanged = true
		}
		if req.UnitOfMeasureID != nil && *req.UnitOfMeasureID != material.UnitOfMeasureID {
			material.UnitOfMeasureID = *req.UnitOfMeasureID
			refsChanged = true
		}
		if req.PricePerUnit != nil {
			material.PricePerUnit = *req.PricePerUnit
		}
		if req.CurrentQuantity != nil {
			material.CurrentQuantity = *req.CurrentQuantity
		}
		if req.MinimumStockLevel != nil {
			material.MinimumStockLevel = *req.MinimumStockLevel
		}
		if req.Notes != nil {
			material.Notes = *req.Notes
		}

		if err := validateMaterial(material); err != nil {
			return err
		}
		if refsChanged {
			if err := s.checkReferences(ctx, ex, material); err != nil {
				return err
			}
		}

		material.UpdatedAt = s.now()
		if err := s.materialRepo.UpdateMaterial(ctx, ex, material); err != nil {
			return storeWriteError(err, "update")
		}
		loaded, err := s.materialRepo.GetMaterialByID(ctx, ex, id)
		if err != nil {
			return fmt.Errorf("failed to reload updated material: %w", err)
		}
		updated = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteMaterial refuses with *DependencyExistsError while transactions reference the
// material. The count and the delete share one transaction holding a row lock on the
// material, so a concurrent RecordTransaction cannot slip in between.
func (s *materialService) DeleteMaterial(ctx context.Context, id int64) error {
	return s.txm.WithinTx(ctx, func(ex repositories.SQLExecutor) error {
		material, err := s.materialRepo.LockMaterial(ctx, ex, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrMaterialNotFound
			}
			return fmt.Errorf("failed to find material for deletion: %w", err)
		}

		count, err := s.transactionRepo.CountForMaterial(ctx, ex, id)
		if err != nil {
			return fmt.Errorf("failed to count material transactions: %w", err)
		}
		if count > 0 {
			return &DependencyExistsError{MaterialID: id, MaterialName: material.Name, Count: count}
		}

		if err := s.materialRepo.DeleteMaterial(ctx, ex, id); err != nil {
			return storeWriteError(err, "delete")
		}
		utils.LogInfo("Material deleted", map[string]interface{}{"material_id": id, "name": material.Name})
		return nil
	})
}

// GetPrice backs the price lookup used by the transaction form. Any failure,
// including an unknown id, yields 0 instead of an error.
func (s *materialService) GetPrice(ctx context.Context, id int64) float64 {
	if id <= 0 {
		return 0
	}
	price, err := s.materialRepo.GetPrice(ctx, id)
	if err != nil {
		utils.LogDebug("Price lookup failed, answering 0", map[string]interface{}{"material_id": id, "error": err.Error()})
		return 0
	}
	return price.InexactFloat64()
}
