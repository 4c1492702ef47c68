package handlers

import (
	"net/http"
	"strings"

	"construction_inventory_backend/internal/models"
	"construction_inventory_backend/internal/services"
	"construction_inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves the stock movement ledger.
type TransactionHandler struct {
	transactionService services.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ts services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: ts}
}

// CreateTransaction records a stock movement for the acting user.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req services.RecordTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.transactionService.RecordTransaction(c.Request.Context(), req, actingUserID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to record transaction.")
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// GetTransactions lists transactions newest first.
// Filters: material_id, transaction_type, search.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var filter models.TransactionFilter
	var ok bool
	if filter.MaterialID, ok = queryID(c, "material_id"); !ok {
		return
	}
	if raw := strings.TrimSpace(c.Query("transaction_type")); raw != "" {
		t := models.TransactionType(strings.ToUpper(raw))
		filter.Type = &t
	}
	filter.Search = c.Query("search")
	page, pageSize := utils.ParsePagination(c.Query("page"), c.Query("page_size"), services.DefaultPageSize, services.MaxPageSize)

	txs, total, err := h.transactionService.ListTransactions(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch transactions.")
		return
	}
	c.JSON(http.StatusOK, PageResponse{Items: txs, Total: total, Page: page, PageSize: pageSize})
}

func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}
	tx, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch transaction.")
		return
	}
	c.JSON(http.StatusOK, tx)
}
