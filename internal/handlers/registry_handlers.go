package handlers

import (
	"net/http"

	"construction_inventory_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// RegistryHandler serves material categories and units of measure.
type RegistryHandler struct {
	registryService services.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(rs services.RegistryService) *RegistryHandler {
	return &RegistryHandler{registryService: rs}
}

// --- Material Categories ---

// CreateCategory handles creation of a new material category.
func (h *RegistryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.registryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create category.")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategories lists categories ordered by name, optionally filtered by ?search=.
func (h *RegistryHandler) GetCategories(c *gin.Context) {
	categories, err := h.registryService.ListCategories(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch categories.")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryByID handles fetching a single category.
func (h *RegistryHandler) GetCategoryByID(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	category, err := h.registryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch category.")
		return
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategory handles a partial update of a category.
func (h *RegistryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	var req services.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.registryService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update category.")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory refuses with 409 while materials still use the category.
func (h *RegistryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	if err := h.registryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete category.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Units of Measure ---

// CreateUnit handles creation of a new unit of measure.
func (h *RegistryHandler) CreateUnit(c *gin.Context) {
	var req services.CreateUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	unit, err := h.registryService.CreateUnit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create unit.")
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (h *RegistryHandler) GetUnits(c *gin.Context) {
	units, err := h.registryService.ListUnits(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch units.")
		return
	}
	c.JSON(http.StatusOK, units)
}

func (h *RegistryHandler) GetUnitByID(c *gin.Context) {
	id, ok := pathID(c, "unit")
	if !ok {
		return
	}
	unit, err := h.registryService.GetUnit(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch unit.")
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *RegistryHandler) UpdateUnit(c *gin.Context) {
	id, ok := pathID(c, "unit")
	if !ok {
		return
	}
	var req services.UpdateUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	unit, err := h.registryService.UpdateUnit(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update unit.")
		return
	}
	c.JSON(http.StatusOK, unit)
}

func (h *RegistryHandler) DeleteUnit(c *gin.Context) {
	id, ok := pathID(c, "unit")
	if !ok {
		return
	}
	if err := h.registryService.DeleteUnit(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete unit.")
		return
	}
	c.Status(http.StatusNoContent)
}
