package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"construction_inventory_backend/internal/models"
	"construction_inventory_backend/internal/repositories"
)

// --- Registry DTOs ---
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateUnitRequest struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type UpdateUnitRequest struct {
	Name         *string `json:"name"`
	Abbreviation *string `json:"abbreviation"`
}

// RegistryService manages the reference data materials point at: categories and units.
type RegistryService interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*models.MaterialCategory, error)
	GetCategory(ctx context.Context, id int64) (*models.MaterialCategory, error)
	ListCategories(ctx context.Context, search string) ([]models.MaterialCategory, error)
	UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*models.MaterialCategory, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateUnit(ctx context.Context, req CreateUnitRequest) (*models.UnitOfMeasure, error)
	GetUnit(ctx context.Context, id int64) (*models.UnitOfMeasure, error)
	ListUnits(ctx context.Context, search string) ([]models.UnitOfMeasure, error)
	UpdateUnit(ctx context.Context, id int64, req UpdateUnitRequest) (*models.UnitOfMeasure, error)
	DeleteUnit(ctx context.Context, id int64) error
}

type registryService struct {
	categoryRepo repositories.CategoryRepository
	unitRepo     repositories.UnitRepository
	txm          repositories.TxManager
}

// NewRegistryService creates a new instance of RegistryService.
func NewRegistryService(categoryRepo repositories.CategoryRepository, unitRepo repositories.UnitRepository, txm repositories.TxManager) RegistryService {
	return &registryService{categoryRepo: categoryRepo, unitRepo: unitRepo, txm: txm}
}

func validateCategory(c *models.MaterialCategory) error {
	var v validator
	v.name("name", c.Name, 100)
	return v.err()
}

func validateUnit(u *models.UnitOfMeasure) error {
	var v validator
	v.name("name", u.Name, 50)
	v.name("abbreviation", u.Abbreviation, 10)
	return v.err()
}

// uniquenessError maps a duplicate-key error to ErrUniquenessViolation naming the clashing field.
// Uniqueness is decided by the store's constraint; there is no racy pre-check.
func uniquenessError(err error, entity string, values map[string]string) error {
	if !errors.Is(err, repositories.ErrDuplicateKey) {
		return nil
	}
	constraint := repositories.ConstraintName(err)
	for field, value := range values {
		if strings.Contains(constraint, "_"+field+"_") {
			return fmt.Errorf("%w: %s with %s %q already exists", ErrUniquenessViolation, entity, field, value)
		}
	}
	return fmt.Errorf("%w: %s already exists", ErrUniquenessViolation, entity)
}

func (s *registryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*models.MaterialCategory, error) {
	category := &models.MaterialCategory{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.CreateCategory(ctx, s.txm.DB(), category); err != nil {
		if uerr := uniquenessError(err, "category", map[string]string{"name": category.Name}); uerr != nil {
			return nil, uerr
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *registryService) GetCategory(ctx context.Context, id int64) (*models.MaterialCategory, error) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, s.txm.DB(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *registryService) ListCategories(ctx context.Context, search string) ([]models.MaterialCategory, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *registryService) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*models.MaterialCategory, error) {
	var updated *models.MaterialCategory
	err := s.txm.WithinTx(ctx, func(ex repositories.SQLExecutor) error {
		category, err := s.categoryRepo.GetCategoryByID(ctx, ex, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to find category for update: %w", err)
		}
		if req.Name != nil {
			category.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			category.Description = *req.Description
		}
		if err := validateCategory(category); err != nil {
			return err
		}
		if err := s.categoryRepo.UpdateCategory(ctx, ex, category); err != nil {
			if uerr := uniquenessError(err, "category", map[string]string{"name": category.Name}); uerr != nil {
				return uerr
			}
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to update category: %w", err)
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *registryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.categoryRepo.DeleteCategory(ctx, s.txm.DB(), id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repositories.ErrForeignKeyViolation):
		return fmt.Errorf("%w: category %d is still used by materials", ErrReferentialIntegrity, id)
	default:
		return fmt.Errorf("failed to delete category: %w", err)
	}
}

func (s *registryService) CreateUnit(ctx context.Context, req CreateUnitRequest) (*models.UnitOfMeasure, error) {
	unit := &models.UnitOfMeasure{
		Name:         strings.TrimSpace(req.Name),
		Abbreviation: strings.TrimSpace(req.Abbreviation),
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	if err := s.unitRepo.CreateUnit(ctx, s.txm.DB(), unit); err != nil {
		if uerr := uniquenessError(err, "unit", map[string]string{"name": unit.Name, "abbreviation": unit.Abbreviation}); uerr != nil {
			return nil, uerr
		}
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return unit, nil
}

func (s *registryService) GetUnit(ctx context.Context, id int64) (*models.UnitOfMeasure, error) {
	unit, err := s.unitRepo.GetUnitByID(ctx, s.txm.DB(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return unit, nil
}

func (s *registryService) ListUnits(ctx context.Context, search string) ([]models.UnitOfMeasure, error) {
	units, err := s.unitRepo.ListUnits(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

func (s *registryService) UpdateUnit(ctx context.Context, id int64, req UpdateUnitRequest) (*models.UnitOfMeasure, error) {
	var updated *models.UnitOfMeasure
	err := s.txm.WithinTx(ctx, func(ex repositories.SQLExecutor) error {
		unit, err := s.unitRepo.GetUnitByID(ctx, ex, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUnitNotFound
			}
			return fmt.Errorf("failed to find unit for update: %w", err)
		}
		if req.Name != nil {
			unit.Name = strings.TrimSpace(*req.Name)
		}
		if req.Abbreviation != nil {
			unit.Abbreviation = strings.TrimSpace(*req.Abbreviation)
		}
		if err := validateUnit(unit); err != nil {
			return err
		}
		if err := s.unitRepo.UpdateUnit(ctx, ex, unit); err != nil {
			if uerr := uniquenessError(err, "unit", map[string]string{"name": unit.Name, "abbreviation": unit.Abbreviation}); uerr != nil {
				return uerr
			}
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUnitNotFound
			}
			return fmt.Errorf("failed to update unit: %w", err)
		}
		updated = unit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *registryService) DeleteUnit(ctx context.Context, id int64) error {
	err := s.unitRepo.DeleteUnit(ctx, s.txm.DB(), id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrUnitNotFound
	case errors.Is(err, repositories.ErrForeignKeyViolation):
		return fmt.Errorf("%w: unit %d is still used by materials", ErrReferentialIntegrity, id)
	default:
		return fmt.Errorf("failed to delete unit: %w", err)
	}
}
