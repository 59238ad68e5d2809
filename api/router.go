// api/router.go
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-schemas/api/handlers"
	"github.com/Annany2002/nebula-schemas/api/middleware"
	"github.com/Annany2002/nebula-schemas/config"
	"github.com/Annany2002/nebula-schemas/internal/dispatch"
	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/Annany2002/nebula-schemas/internal/metrics"
)

var customLog = logger.NewLogger()

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(db *sql.DB, cfg *config.Config) *gin.Engine {
	router := gin.Default() // Includes Logger and Recovery
	// Wrong method on a known path answers 405 instead of 404.
	router.HandleMethodNotAllowed = true

	tmpl, err := LoadTemplates()
	if err != nil {
		customLog.Fatalf("Failed to parse page templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)

	m := metrics.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics(m))
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	if cfg.RateLimit > 0 {
		router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)))
	}
	// It should run after basic middleware like Logger/Recovery
	// but before the routing happens, so it wraps the handlers.
	router.Use(middleware.ErrorHandler())

	schemaHandler := handlers.NewSchemaHandler(db, cfg, dispatch.New(db, m))

	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.GET("/", schemaHandler.ListSchemas)
	router.POST("/delete/:id/", schemaHandler.DeleteSchema)

	router.GET("/create_schema/", schemaHandler.RedirectHome)
	router.POST("/create_schema/", schemaHandler.EditSchema)
	router.GET("/schema/:id/", schemaHandler.RedirectHome)
	router.POST("/schema/:id/", schemaHandler.EditSchema)

	return router
}
