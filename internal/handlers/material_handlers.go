package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"construction_inventory_backend/internal/models"
	"construction_inventory_backend/internal/services"
	"construction_inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaterialHandler serves the material catalog.
type MaterialHandler struct {
	materialService    services.MaterialService
	transactionService services.TransactionService
	exportService      services.ExportService
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(ms services.MaterialService, ts services.TransactionService, es services.ExportService) *MaterialHandler {
	return &MaterialHandler{materialService: ms, transactionService: ts, exportService: es}
}

// materialFilter reads category_id, unit_id and search from the query string.
func materialFilter(c *gin.Context) (models.MaterialFilter, bool) {
	var filter models.MaterialFilter
	var ok bool
	if filter.CategoryID, ok = queryID(c, "category_id"); !ok {
		return filter, false
	}
	if filter.UnitID, ok = queryID(c, "unit_id"); !ok {
		return filter, false
	}
	filter.Search = c.Query("search")
	return filter, true
}

// CreateMaterial handles creation of a material, stamping the acting user.
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req services.CreateMaterialRequest
	if !bindJSON(c, &req) {
		return
	}
	material, err := h.materialService.CreateMaterial(c.Request.Context(), req, actingUserID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to create material.")
		return
	}
	c.JSON(http.StatusCreated, material)
}

// GetMaterials lists materials ordered by name, one page at a time.
func (h *MaterialHandler) GetMaterials(c *gin.Context) {
	filter, ok := materialFilter(c)
	if !ok {
		return
	}
	page, pageSize := utils.ParsePagination(c.Query("page"), c.Query("page_size"), services.DefaultPageSize, services.MaxPageSize)

	materials, total, err := h.materialService.ListMaterials(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch materials.")
		return
	}
	c.JSON(http.StatusOK, PageResponse{Items: materials, Total: total, Page: page, PageSize: pageSize})
}

// GetMaterialByID returns the material with its most recent transactions.
func (h *MaterialHandler) GetMaterialByID(c *gin.Context) {
	id, ok := pathID(c, "material")
	if !ok {
		return
	}
	detail, err := h.materialService.GetMaterial(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch material.")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	id, ok := pathID(c, "material")
	if !ok {
		return
	}
	var req services.UpdateMaterialRequest
	if !bindJSON(c, &req) {
		return
	}
	material, err := h.materialService.UpdateMaterial(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update material.")
		return
	}
	c.JSON(http.StatusOK, material)
}

// DeleteMaterial deletes a material without transactions. When transactions
// exist the client is sent back to the material with a warning.
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	id, ok := pathID(c, "material")
	if !ok {
		return
	}
	err := h.materialService.DeleteMaterial(c.Request.Context(), id)
	var dep *services.DependencyExistsError
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.As(err, &dep):
		utils.LogWarn("Material delete refused", map[string]interface{}{"material_id": id, "transactions": dep.Count})
		c.Header("Location", fmt.Sprintf("/api/v1/materials/%d", id))
		c.JSON(http.StatusSeeOther, gin.H{
			"warning":           dep.Error(),
			"code":              utils.ErrCodeDependencyExists,
			"material_id":       dep.MaterialID,
			"transaction_count": dep.Count,
		})
	default:
		respondServiceError(c, err, "Failed to delete material.")
	}
}

// GetMaterialPrice always answers 200; unknown materials price at 0.
func (h *MaterialHandler) GetMaterialPrice(c *gin.Context) {
	id, _ := utils.StrToInt64(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"price": h.materialService.GetPrice(c.Request.Context(), id)})
}

// GetMaterialTransactions lists the newest transactions of one material.
func (h *MaterialHandler) GetMaterialTransactions(c *gin.Context) {
	id, ok := pathID(c, "material")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit > services.MaxPageSize {
		limit = services.MaxPageSize
	}
	txs, err := h.transactionService.ListTransactionsForMaterial(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch material transactions.")
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ExportMaterials streams the filtered catalog as an XLSX workbook.
func (h *MaterialHandler) ExportMaterials(c *gin.Context) {
	filter, ok := materialFilter(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	n, err := h.exportService.ExportMaterials(c.Request.Context(), filter, &buf)
	if err != nil {
		respondServiceError(c, err, "Failed to export materials.")
		return
	}
	utils.LogInfo("Materials exported", map[string]interface{}{"rows": n})
	c.Header("Content-Disposition", `attachment; filename="materials.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
