package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront-admin/internal/agent"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/events"
	"storefront-admin/internal/insights"
	"storefront-admin/internal/llm"
	"storefront-admin/internal/service/dashboard"
	productsvc "storefront-admin/internal/service/product"
)

type ProductService interface {
	Create(ctx context.Context) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, q string, lowStock bool, limit, offset int) (domain.Page[domain.Product], error)
	Edit(ctx context.Context, id, field string, raw []byte) (*domain.Product, error)
	Publish(ctx context.Context, id string) (*domain.Product, error)
	Discard(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AddImages(ctx context.Context, id string, uploads []productsvc.Upload) (*domain.Product, error)
}

type OrderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, q, status string, limit, offset int) (domain.Page[domain.Order], error)
	Edit(ctx context.Context, id, field string, raw []byte) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	Publish(ctx context.Context, id string) (*domain.Order, error)
	Discard(ctx context.Context, id string) (*domain.Order, error)
}

type DashboardService interface {
	Summary(ctx context.Context) (*dashboard.Summary, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// EventSource hands out filtered document change subscriptions.
type EventSource interface {
	Subscribe(f events.Filter) (<-chan domain.ChangeEvent, func())
}

// ChatAgent answers a conversation over a UI message stream.
type ChatAgent interface {
	Run(ctx context.Context, userID string, history []llm.Message, out *agent.UIStream) error
}

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, bool)
}

type InsightsService interface {
	Generate(ctx context.Context) (*insights.Response, error)
}

// Deps are the services behind the routes. Chat may be nil when no LLM is
// configured; the chat route then answers 503.
type Deps struct {
	ProductSvc   ProductService
	OrderSvc     OrderService
	DashboardSvc DashboardService
	CategorySvc  CategoryService
	Events       EventSource
	Chat         ChatAgent
	Sessions     SessionResolver
	InsightsSvc  InsightsService

	AdminAPIKey string
	CORSOrigins []string
	// AssetsDir is served under /assets when set.
	AssetsDir string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.OrderSvc == nil || deps.DashboardSvc == nil || deps.CategorySvc == nil {
		return nil, errors.New("httpserver: admin services are required")
	}
	if deps.Events == nil || deps.InsightsSvc == nil {
		return nil, errors.New("httpserver: events and insights are required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  deps.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", adminKeyHeader},
			ExposeHeaders: []string{agent.StreamHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.AssetsDir != "" {
		router.Static("/assets", deps.AssetsDir)
	}

	api := router.Group("/api")
	api.POST("/chat", chatHandler(deps.Chat, deps.Sessions, logger))
	api.GET("/admin/insights", adminMiddleware(deps.AdminAPIKey), insightsHandler(deps.InsightsSvc, logger))

	admin := router.Group("/admin", adminMiddleware(deps.AdminAPIKey))
	registerProductRoutes(admin, deps.ProductSvc, logger)
	registerOrderRoutes(admin, deps.OrderSvc, logger)
	admin.GET("/dashboard", dashboardHandler(deps.DashboardSvc, logger))
	admin.GET("/categories", categoriesHandler(deps.CategorySvc, logger))
	admin.GET("/events", eventsHandler(deps.Events, logger))

	return router, nil
}
