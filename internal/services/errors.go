package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every entity specific not-found error.
	ErrNotFound            = errors.New("not found")
	ErrCategoryNotFound    = fmt.Errorf("material category %w", ErrNotFound)
	ErrUnitNotFound        = fmt.Errorf("unit of measure %w", ErrNotFound)
	ErrMaterialNotFound    = fmt.Errorf("material %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("material transaction %w", ErrNotFound)

	// ErrUniquenessViolation: duplicate category name, unit name or abbreviation.
	ErrUniquenessViolation = errors.New("uniqueness violation")

	// ErrReferentialIntegrity: deleting a category or unit still referenced by materials.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrDependencyExists is matched by *DependencyExistsError.
	ErrDependencyExists = errors.New("dependent records exist")
)

// DependencyExistsError is returned when a material cannot be deleted because
// transactions still reference it. It is a warning for the caller, who is
// expected to send the user back to the material.
type DependencyExistsError struct {
	MaterialID   int64
	MaterialName string
	Count        int
}

func (e *DependencyExistsError) Error() string {
	return fmt.Sprintf("cannot delete material %q because it has %d related transaction(s); delete the transactions first",
		e.MaterialName, e.Count)
}

func (e *DependencyExistsError) Is(target error) bool {
	return target == ErrDependencyExists
}
