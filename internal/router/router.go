package router

import (
	"database/sql"

	"construction_inventory_backend/internal/handlers"
	"construction_inventory_backend/internal/middleware"
	"construction_inventory_backend/internal/repositories"
	"construction_inventory_backend/internal/services"
	"construction_inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, tokens *utils.TokenIssuer) {
	// Initialize Repositories
	txm := repositories.NewTxManager(db)
	authRepo := repositories.NewAuthRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	unitRepo := repositories.NewUnitRepository(db)
	materialRepo := repositories.NewMaterialRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, txm, tokens)
	registryService := services.NewRegistryService(categoryRepo, unitRepo, txm)
	materialService := services.NewMaterialService(materialRepo, categoryRepo, unitRepo, transactionRepo, txm)
	transactionService := services.NewTransactionService(transactionRepo, materialRepo, txm)
	dashboardService := services.NewDashboardService(dashboardRepo, transactionRepo)
	exportService := services.NewExportService(materialRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	registryHandler := handlers.NewRegistryHandler(registryService)
	materialHandler := handlers.NewMaterialHandler(materialService, transactionService, exportService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupDashboardRoutes(authenticated, dashboardHandler)
		SetupCategoryRoutes(authenticated, registryHandler)
		SetupUnitRoutes(authenticated, registryHandler)
		SetupMaterialRoutes(authenticated, materialHandler)
		SetupTransactionRoutes(authenticated, transactionHandler)
	}
}

// SetupPublicAuthRoutes registers the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
