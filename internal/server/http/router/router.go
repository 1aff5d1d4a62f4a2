package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/metrics"
	"github.com/polkiloo/orderdesk/internal/server/http/handlers"
	"github.com/polkiloo/orderdesk/internal/server/http/middleware"
)

// Params collects router dependencies.
type Params struct {
	fx.In

	Facade  handlers.OrderDeskFacade
	Health  handlers.HealthChecker
	Metrics *metrics.Recorder
	Config  *config.Config
	Logger  *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.Metrics(p.Metrics))
	engine.Use(middleware.DecompressRequest(middleware.DefaultBodyLimit))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	messageHandler := handlers.NewMessageHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade)
	dashboardHandler := handlers.NewDashboardHandler(p.Facade)
	ingestLimiter := middleware.NewRateLimiter(p.Config.IngestRPS, p.Config.IngestBurst, middleware.KeyByIP())

	engine.GET("/healthz", handlers.Health(p.Health))
	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))

	api := engine.Group("/api")
	api.POST("/messages", ingestLimiter.Handler(), messageHandler.Ingest)

	api.GET("/orders", orderHandler.List)
	api.GET("/orders/:id", orderHandler.Get)
	api.POST("/orders/:id/validate", orderHandler.Validate)
	api.POST("/orders/:id/reject", orderHandler.Reject)

	api.GET("/clients", dashboardHandler.Clients)
	api.GET("/products", dashboardHandler.Products)
	api.GET("/stats", dashboardHandler.Stats)
	api.GET("/alerts", dashboardHandler.Alerts)
	api.GET("/review-queue", dashboardHandler.ReviewQueue)
	api.GET("/events", dashboardHandler.Events)

	return engine
}
