// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/api/handlers"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/service"
)

type Services struct {
	OpnameService *service.OpnameService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.OpnameService != nil {
		h := handlers.NewOpnameHandler(services.OpnameService)

		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("", h.ListProducts)
			productGroup.POST("", h.CreateProduct)
			productGroup.POST("/import", h.ImportProducts)
			productGroup.GET("/:id", h.GetProduct)
			productGroup.PATCH("/:id", h.UpdateProduct)
			productGroup.DELETE("/:id", h.DeleteProduct)
			productGroup.GET("/:id/action-plan", h.GetActionPlan)
		}

		analysisGroup := apiGroup.Group("/analysis")
		{
			analysisGroup.GET("", h.GetAnalysis)
			analysisGroup.GET("/urgency", h.GetUrgency)
			analysisGroup.GET("/recommendations", h.GetRecommendations)
			analysisGroup.GET("/summary", h.GetSummary)
			analysisGroup.GET("/report", h.GetLatestReport)
		}

		exportGroup := apiGroup.Group("/export")
		{
			exportGroup.GET("", h.ExportWorkbook)
			exportGroup.POST("/publish", h.PublishExport)
			exportGroup.GET("/published", h.ListPublished)
		}

		apiGroup.GET("/template", h.DownloadTemplate)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
