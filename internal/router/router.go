package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/handler"
	"indentflow/internal/middleware"
	"indentflow/internal/service"
)

// Handlers bundles the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	File          *handler.FileHandler
	Tenant        *handler.TenantHandler
	User          *handler.UserHandler
	Health        *handler.HealthHandler
	Indent        *handler.IndentHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Lift          *handler.LiftHandler
	Vendor        *handler.VendorHandler
	Master        *handler.MasterHandler
	Stats         *handler.StatsHandler
	WS            *handler.WSHandler
}

// Setup configures the Gin engine with all routes and middleware. Stage level
// permissions are enforced by the services; RequireRole guards only the
// administrative surfaces.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Realtime events authenticate through the query string.
	v1.GET("/ws", middleware.QueryTokenAuth(authSvc), middleware.TenantGuard(), h.WS.Events)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.Use(middleware.TenantGuard())

	protected.GET("/auth/me", h.Auth.Me)

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", h.File.Upload)
	files.GET("", h.File.List)
	files.GET("/:id", h.File.GetByID)
	files.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.File.Delete)

	// Indents
	indents := protected.Group("/indents")
	indents.POST("", h.Indent.Create)
	indents.GET("", h.Indent.List)
	indents.GET("/anomalies", h.Indent.Anomalies)
	indents.GET("/export", h.Indent.Export)
	indents.POST("/import", middleware.RequireRole(domain.RoleAdmin), h.Indent.Import)
	indents.GET("/:id", h.Indent.GetByID)
	indents.GET("/:id/history", h.Indent.History)
	indents.GET("/:id/lifts", h.Lift.ListByIndent)
	indents.POST("/:id/approve", h.Indent.Approve)
	indents.POST("/:id/rate", h.Indent.UpdateRate)
	indents.POST("/:id/three-party", h.Indent.ApproveThreeParty)
	indents.POST("/:id/store-issue", h.Indent.IssueFromStore)

	// Purchase orders
	pos := protected.Group("/purchase-orders")
	pos.POST("", h.PurchaseOrder.Create)
	pos.GET("", h.PurchaseOrder.List)
	pos.GET("/:id", h.PurchaseOrder.GetByID)
	pos.GET("/:id/download", h.PurchaseOrder.Download)
	pos.POST("/:id/pdf", middleware.RequireRole(domain.RoleAdmin, domain.RolePurchaser), h.PurchaseOrder.RegeneratePDF)

	// Lifts
	lifts := protected.Group("/lifts")
	lifts.POST("", h.Lift.Create)
	lifts.GET("", h.Lift.List)
	lifts.GET("/anomalies", h.Lift.Anomalies)
	lifts.GET("/export", h.Lift.Export)
	lifts.GET("/:id", h.Lift.GetByID)
	lifts.GET("/:id/history", h.Lift.History)
	lifts.POST("/:id/store-in", h.Lift.StoreIn)
	lifts.POST("/:id/bill-check", h.Lift.CheckBill)
	lifts.POST("/:id/tally", h.Lift.EnterTally)
	lifts.POST("/:id/correction", h.Lift.CorrectTally)

	// Master data
	vendors := protected.Group("/vendors")
	vendors.GET("", h.Vendor.List)
	vendors.GET("/:id", h.Vendor.GetByID)
	vendors.POST("", h.Vendor.Create)
	vendors.PUT("/:id", h.Vendor.Update)
	vendors.DELETE("/:id", h.Vendor.Delete)

	masters := protected.Group("/masters")
	masters.GET("", h.Master.List)
	masters.POST("", h.Master.Add)
	masters.DELETE("/:id", h.Master.Delete)

	protected.GET("/stats/dashboard", h.Stats.GetDashboard)

	// User management (tenant-scoped)
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), h.User.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.User.Delete)

	// Admin routes - tenant management
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/tenants", h.Tenant.Create)
	admin.GET("/tenants", h.Tenant.List)
	admin.GET("/tenants/:id", h.Tenant.GetByID)
	admin.PUT("/tenants/:id", h.Tenant.Update)
	admin.DELETE("/tenants/:id", h.Tenant.Delete)

	return r
}
