package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/portfolio-showcase/portfolio-api/docs"
	"github.com/portfolio-showcase/portfolio-api/internal/config"
	"github.com/portfolio-showcase/portfolio-api/internal/middleware"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/handler"
	"github.com/portfolio-showcase/portfolio-api/internal/telemetry"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// formOverhead is room for the text fields and multipart framing.
const formOverhead = 1 << 20

type RouterDeps struct {
	Config         *config.Config
	Log            *zap.Logger
	Metrics        *telemetry.Metrics
	ProjectHandler *handler.ProjectHandler
	FileHandler    *handler.FileHandler
	HealthHandler  *handler.HealthHandler
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range cfg.Cors.AllowOrigins {
		if o == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	cc.AllowOrigins = cfg.Cors.AllowOrigins
	return cc
}

// maxUploadBody is the largest multipart body the upload limits allow.
func maxUploadBody(cfg *config.Config) int64 {
	files := int64(cfg.Upload.MaxMainImages + cfg.Upload.MaxOtherImages)
	return files*cfg.Upload.MaxFileSizeBytes + formOverhead
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = 8 << 20

	if telemetry.TracingEnabled(d.Config) {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}
	r.Use(middleware.ZapLogger(d.Log, d.Metrics))
	r.Use(cors.New(corsConfig(d.Config)))

	r.GET("/health", d.HealthHandler.Health)

	if d.Config.Metrics.Enabled && d.Metrics != nil {
		r.GET(d.Config.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	uploads := r.Group(d.Config.Storage.URLPrefix)
	{
		uploads.GET("/*filename", d.FileHandler.ServeFile)
		uploads.HEAD("/*filename", d.FileHandler.ServeFile)
	}

	api := r.Group("/api")
	{
		projects := api.Group("/projects")
		limit := middleware.BodyLimit(maxUploadBody(d.Config))

		projects.GET("", d.ProjectHandler.ListProjects)
		projects.POST("", limit, d.ProjectHandler.CreateProject)
		projects.GET("/:id", d.ProjectHandler.GetProject)
		projects.PUT("/:id", limit, d.ProjectHandler.UpdateProject)
		projects.DELETE("/:id", d.ProjectHandler.DeleteProject)
	}
	return r
}
