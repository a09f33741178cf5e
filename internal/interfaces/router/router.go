package router

import (
	"context"
	"net/http"

	analyticssvc "agrowaste-backend/internal/application/analytics"
	healthsvc "agrowaste-backend/internal/application/health"
	listsvc "agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/application/search"
	"agrowaste-backend/internal/config"
	"agrowaste-backend/internal/infrastructure/cache"
	"agrowaste-backend/internal/infrastructure/database"
	analyticshandler "agrowaste-backend/internal/interfaces/handlers/analytics"
	healthhandler "agrowaste-backend/internal/interfaces/handlers/health"
	listhandler "agrowaste-backend/internal/interfaces/handlers/listings"
	"agrowaste-backend/internal/metrics"
	"agrowaste-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) PingContext(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Deps lets callers supply already-open connections. Nil fields are opened
// from config; a nil Store falls back to GORM when a database is configured
// and to an empty in-memory store otherwise.
type Deps struct {
	DB    *gorm.DB
	Rdb   *redis.Client
	Store listsvc.Store
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var deps Deps
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		deps.DB = db
	}
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		deps.Rdb = redis.NewClient(opt)
	}
	app := New(cfg, deps)
	return app, deps.DB, deps.Rdb, nil
}

// New wires services and routes over deps.
func New(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HealthMarker(deps.Rdb))

	store := deps.Store
	if store == nil {
		if deps.DB != nil {
			store = &listsvc.GormStore{DB: deps.DB}
		} else {
			log.Warn().Msg("no database configured, serving an empty in-memory store")
			store = listsvc.NewMemoryStore()
		}
	}

	reg := metrics.NewRegistry()
	as := &analyticssvc.Service{
		Store:   store,
		Impact:  cfg.ImpactModel(),
		Metrics: reg,
		Timeout: cfg.QueryTimeout,
	}
	ls := &listsvc.Service{Store: store, Timeout: cfg.QueryTimeout}
	if deps.Rdb != nil && cfg.AnalyticsCacheTTL > 0 {
		c := cache.New(deps.Rdb, cfg.AnalyticsCacheTTL)
		as.Cache = c
		ls.Invalidator = c
	}
	se := &search.Engine{
		Store:         store,
		Metrics:       reg,
		Timeout:       cfg.QueryTimeout,
		DefaultRadius: cfg.SearchDefaultRadiusM,
	}

	collector := &healthsvc.Collector{Rdb: deps.Rdb}
	if deps.DB != nil {
		collector.DB = &gormDBPinger{db: deps.DB}
	}
	hh := &healthhandler.Handlers{Collector: collector, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/metrics", adaptor.HTTPHandler(reg.Handler()))

	api := app.Group("/api/v1")

	lh := &listhandler.Handlers{Service: ls, Engine: se}
	lg := api.Group("/listings")
	lg.Get("/search", lh.Search)
	lg.Get("/producer/:producerId", lh.ListByProducer)
	lg.Get("/:id", lh.Get)
	lg.Post("/", lh.Create)

	ah := &analyticshandler.Handlers{Service: as}
	ag := api.Group("/analytics")
	ag.Get("/stats", ah.Stats)
	ag.Get("/monthly", ah.Monthly)
	ag.Get("/environmental-impact", ah.EnvironmentalImpact)
	ag.Get("/map", ah.Map)
	ag.Get("/locations", ah.Locations)
	ag.Get("/dashboard", ah.Dashboard)
	ag.Post("/estimate", ah.Estimate)

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
