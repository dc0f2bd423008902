package router

import (
	"tracksuite/internal/config"
	"tracksuite/internal/handler"
	"tracksuite/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	api.Use(middleware.AuditMiddleware(db))

	accountHandler := handler.NewAccountHandler(db)
	api.GET("/accounts", accountHandler.ListAccounts)
	api.POST("/accounts", accountHandler.CreateAccount)
	api.GET("/accounts/:id", accountHandler.GetAccount)
	api.PUT("/accounts/:id", accountHandler.UpdateAccount)
	api.DELETE("/accounts/:id", accountHandler.DeleteAccount)

	txHandler := handler.NewTransactionHandler(db, cfg.App.PageSize)
	api.GET("/transactions", txHandler.ListTransactions)
	api.POST("/transactions", txHandler.CreateTransaction)
	api.GET("/transactions/:id", txHandler.GetTransaction)
	api.PUT("/transactions/:id", txHandler.UpdateTransaction)
	api.DELETE("/transactions/:id", txHandler.DeleteTransaction)

	categoryHandler := handler.NewCategoryHandler(db)
	api.GET("/categories", categoryHandler.ListCategories)
	api.POST("/categories", categoryHandler.CreateCategory)
	api.PUT("/categories/:id", categoryHandler.UpdateCategory)
	api.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	projectionHandler := handler.NewProjectionHandler(db, cfg.Projection.MaxWindowDays)
	api.GET("/projections", projectionHandler.GetProjection)

	summaryHandler := handler.NewSummaryHandler(db)
	api.GET("/summary", summaryHandler.GetSummary)

	return r
}
