package handlers

import (
	"errors"
	"net/http"

	"construction_inventory_backend/internal/services"
	"construction_inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PageResponse wraps one page of a listing.
type PageResponse struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// respondServiceError translates a service error into the API error envelope.
// message is the client facing summary used for unexpected failures.
func respondServiceError(c *gin.Context, err error, message string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed", verr.Error()),
			"fields": verr.Fields,
		})
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	case errors.Is(err, services.ErrUniquenessViolation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrReferentialIntegrity):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeInUse, err.Error(), ""))
	case errors.Is(err, services.ErrDependencyExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeDependencyExists, err.Error(), ""))
	default:
		utils.LogError(err, message)
		utils.RespondInternal(c, message)
	}
}

// bindJSON binds the request body and answers 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return false
	}
	return true
}

// pathID reads the :id parameter.
func pathID(c *gin.Context, what string) (int64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+what+" ID", err.Error()))
		return 0, false
	}
	return id, true
}

// queryID reads an optional positive id from the query string.
func queryID(c *gin.Context, key string) (*int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := utils.ParseID(raw)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+key, err.Error()))
		return nil, false
	}
	return &id, true
}

// actingUserID returns the authenticated user id set by AuthMiddleware, if any.
func actingUserID(c *gin.Context) *int64 {
	raw, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := raw.(int64)
	if !ok {
		return nil
	}
	return &id
}
