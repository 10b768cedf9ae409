package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/handler"
	"brokerdocs/internal/middleware"
	"brokerdocs/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	catalogH *handler.CatalogHandler,
	txnH *handler.TransactionHandler,
	submissionH *handler.SubmissionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Staff registration (admin only)
	protected.POST("/auth/register", middleware.RequireRole(domain.RoleAdmin), authH.Register)

	// Catalog: document types (admin-managed reference data)
	docTypes := protected.Group("/document-types")
	docTypes.POST("", middleware.RequireRole(domain.RoleAdmin), catalogH.CreateDocumentType)
	docTypes.GET("", catalogH.ListDocumentTypes)
	docTypes.GET("/:id", catalogH.GetDocumentType)
	docTypes.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), catalogH.UpdateDocumentType)

	// Catalog: scenarios and their rule sets
	scenarios := protected.Group("/scenarios")
	scenarios.POST("", middleware.RequireRole(domain.RoleAdmin), catalogH.CreateScenario)
	scenarios.GET("", catalogH.ListScenarios)
	scenarios.GET("/:id", catalogH.GetScenario)
	scenarios.POST("/:id/rules", middleware.RequireRole(domain.RoleAdmin), catalogH.AddScenarioRule)
	scenarios.GET("/:id/rules", catalogH.ListScenarioRules)

	// Transactions, co-owners, requirement resolution
	txns := protected.Group("/transactions")
	txns.POST("", txnH.Create)
	txns.GET("", txnH.List)
	txns.GET("/:id", txnH.Get)
	txns.PUT("/:id", txnH.Update)
	txns.POST("/:id/resolve", txnH.Resolve)
	txns.GET("/:id/checklist", txnH.Checklist)
	txns.GET("/:id/submissions", submissionH.ListByTransaction)
	txns.POST("/:id/co-owners", txnH.AddCoOwner)
	txns.GET("/:id/co-owners", txnH.ListCoOwners)
	txns.PUT("/:id/co-owners/:coOwnerID", txnH.UpdateCoOwner)
	txns.DELETE("/:id/co-owners/:coOwnerID", txnH.RemoveCoOwner)

	// Submission lifecycle
	subs := protected.Group("/submissions")
	subs.GET("/:id", submissionH.Get)
	subs.POST("/:id/request", submissionH.MarkRequested)
	subs.POST("/:id/receive", submissionH.MarkReceived)
	subs.POST("/:id/validate", middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer), submissionH.Validate)
	subs.POST("/:id/reject", middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer), submissionH.Reject)
	subs.POST("/:id/renew", submissionH.Renew)
	subs.GET("/:id/reviews", submissionH.ListReviews)
	subs.POST("/:id/notes", submissionH.AddNote)
	subs.GET("/:id/notes", submissionH.ListNotes)
	subs.POST("/:id/file", submissionH.UploadFile)
	subs.GET("/:id/analysis", submissionH.GetAnalysis)

	// Notes and files addressed directly
	protected.DELETE("/notes/:noteID", submissionH.DeleteNote)
	protected.GET("/files/:fileID/url", submissionH.GetFileURL)

	return r
}
