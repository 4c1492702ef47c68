package router

import (
	"construction_inventory_backend/internal/handlers"
	"construction_inventory_backend/internal/middleware"
	"construction_inventory_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		dashboardRoutes.GET("", dashboardHandler.GetSummary)
		dashboardRoutes.GET("/low-stock", dashboardHandler.GetLowStock)
	}
}

// SetupCategoryRoutes sets up the material category routes. Writes are Admin only.
func SetupCategoryRoutes(authenticatedGroup *gin.RouterGroup, registryHandler *handlers.RegistryHandler) {
	categoryRoutes := authenticatedGroup.Group("/categories")
	{
		categoryRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff), registryHandler.GetCategories)
		categoryRoutes.GET("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff), registryHandler.GetCategoryByID)

		adminRoutes := categoryRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		adminRoutes.POST("", registryHandler.CreateCategory)
		adminRoutes.PUT("/:id", registryHandler.UpdateCategory)
		adminRoutes.DELETE("/:id", registryHandler.DeleteCategory)
	}
}

// SetupUnitRoutes sets up the unit of measure routes. Writes are Admin only.
func SetupUnitRoutes(authenticatedGroup *gin.RouterGroup, registryHandler *handlers.RegistryHandler) {
	unitRoutes := authenticatedGroup.Group("/units")
	{
		unitRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff), registryHandler.GetUnits)
		unitRoutes.GET("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff), registryHandler.GetUnitByID)

		adminRoutes := unitRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		adminRoutes.POST("", registryHandler.CreateUnit)
		adminRoutes.PUT("/:id", registryHandler.UpdateUnit)
		adminRoutes.DELETE("/:id", registryHandler.DeleteUnit)
	}
}

// SetupMaterialRoutes sets up the material catalog routes.
func SetupMaterialRoutes(authenticatedGroup *gin.RouterGroup, materialHandler *handlers.MaterialHandler) {
	materialRoutes := authenticatedGroup.Group("/materials")
	materialRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		materialRoutes.POST("", materialHandler.CreateMaterial)
		materialRoutes.GET("", materialHandler.GetMaterials)
		materialRoutes.GET("/export", materialHandler.ExportMaterials)
		materialRoutes.GET("/:id", materialHandler.GetMaterialByID)
		materialRoutes.PUT("/:id", materialHandler.UpdateMaterial)
		materialRoutes.DELETE("/:id", materialHandler.DeleteMaterial)
		materialRoutes.GET("/:id/price", materialHandler.GetMaterialPrice)
		materialRoutes.GET("/:id/transactions", materialHandler.GetMaterialTransactions)
	}
}

// SetupTransactionRoutes sets up the transaction ledger routes. There is no update or delete.
func SetupTransactionRoutes(authenticatedGroup *gin.RouterGroup, transactionHandler *handlers.TransactionHandler) {
	transactionRoutes := authenticatedGroup.Group("/transactions")
	transactionRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		transactionRoutes.POST("", transactionHandler.CreateTransaction)
		transactionRoutes.GET("", transactionHandler.GetTransactions)
		transactionRoutes.GET("/:id", transactionHandler.GetTransactionByID)
	}
}
