package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/audit"
	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	Ledger      *stock.LedgerUseCase
	History     *stock.HistoryUseCase
	Audit       *audit.Service
	ReportUC    *usecase.ReportUseCase
	ExportUC    *usecase.ExportUseCase
	JWTSecret   string
	FrontendURL string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	adminOnly := RequireRole(entity.RoleAdmin)
	adminOrStaff := RequireRole(entity.RoleAdmin, entity.RoleStaff)
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth: registro/login/OAuth son públicos; register-staff y me requieren token.
	// Las rutas fijas van antes de /:provider.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.FrontendURL, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register-staff", requireAuth, adminOnly, authHandler.RegisterStaff)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Get("/:provider", authHandler.OAuthRedirect)
	authGroup.Get("/:provider/callback", authHandler.OAuthCallback)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", requireAuth)

	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Delete("/:id", userHandler.Delete)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Patch("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/out-of-stock", productHandler.OutOfStock)
	products.Get("/expiration-stats", productHandler.ExpirationStats)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", adminOrStaff, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, deps.History)
	stockGroup.Post("/move", adminOrStaff, stockHandler.Move)
	stockGroup.Get("/history", adminOnly, stockHandler.History)

	auditHandler := NewAuditHandler(deps.Audit)
	protected.Get("/audit-logs", adminOnly, auditHandler.List)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/low-stock/pdf", reportHandler.LowStockPDF)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/distribution", reportHandler.Distribution)
	reports.Get("/inventory-value", reportHandler.InventoryValue)

	exports := protected.Group("/exports", adminOnly)
	exportHandler := NewExportHandler(deps.ExportUC)
	exports.Get("/products", exportHandler.Products)
	exports.Get("/history", exportHandler.History)
	exports.Get("/stock-history", exportHandler.StockHistory)
}
