package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-editor/config"
	"github.com/ikkim/variant-editor/internal/app/controller"
	"github.com/ikkim/variant-editor/internal/metrics"
	"github.com/ikkim/variant-editor/internal/middleware"
)

type Router struct {
	sessionController *controller.SessionController
	editorController  *controller.EditorController
	exportController  *controller.ExportController
	streamController  *controller.StreamController
	config            *config.Config
}

func NewRouter(
	sessionController *controller.SessionController,
	editorController *controller.EditorController,
	exportController *controller.ExportController,
	streamController *controller.StreamController,
	cfg *config.Config,
) *Router {
	return &Router{
		sessionController: sessionController,
		editorController:  editorController,
		exportController:  exportController,
		streamController:  streamController,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	metrics.Register()

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Variant editor API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", r.sessionController.CreateSession)
			sessions.GET("/:id", r.sessionController.GetSession)
			sessions.DELETE("/:id", r.sessionController.DeleteSession)
			sessions.GET("/:id/ws", r.streamController.Subscribe)
		}

		options := sessions.Group("/:id/options")
		{
			options.POST("", r.editorController.AddOption)
			options.POST("/import", r.editorController.ImportOptions)
			options.DELETE("/:optionId", r.editorController.DeleteOption)
			options.PUT("/:optionId/name", r.editorController.RenameOption)
			options.POST("/:optionId/values", r.editorController.AddValue)
			options.PUT("/:optionId/values/:index", r.editorController.UpdateValue)
			options.DELETE("/:optionId/values/:index", r.editorController.DeleteValue)
		}

		sessions.PUT("/:id/variants/:variantId/:field", r.editorController.UpdateVariantField)

		view := sessions.Group("/:id/view")
		{
			view.PUT("/group-by", r.editorController.SetGroupBy)
			view.PUT("/search", r.editorController.SetSearchTerm)
			view.POST("/selection/:variantId", r.editorController.ToggleSelection)
			view.POST("/selection-all", r.editorController.ToggleSelectAll)
			view.POST("/group-selection", r.editorController.ToggleGroupSelection)
			view.POST("/expansion", r.editorController.ToggleGroupExpansion)
			view.POST("/collapse-all", r.editorController.CollapseAll)
			view.POST("/expand-all", r.editorController.ExpandAll)
		}

		sessions.GET("/:id/export.xlsx", r.exportController.DownloadXLSX)
		sessions.POST("/:id/export/s3", r.exportController.UploadXLSX)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
