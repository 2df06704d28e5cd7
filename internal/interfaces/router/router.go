package router

import (
	"context"
	"fmt"
	"time"

	healthsvc "botsales-backend/internal/application/health"
	listsvc "botsales-backend/internal/application/listings"
	"botsales-backend/internal/application/messaging"
	newssvc "botsales-backend/internal/application/news"
	"botsales-backend/internal/application/savedsearch"
	"botsales-backend/internal/application/search"
	"botsales-backend/internal/application/store"
	usersvc "botsales-backend/internal/application/user"
	"botsales-backend/internal/config"
	"botsales-backend/internal/infrastructure/database"
	"botsales-backend/internal/infrastructure/events"
	"botsales-backend/internal/infrastructure/mailer"
	"botsales-backend/internal/infrastructure/seed"
	authhandler "botsales-backend/internal/interfaces/handlers/auth"
	convhandler "botsales-backend/internal/interfaces/handlers/conversations"
	favhandler "botsales-backend/internal/interfaces/handlers/favorites"
	healthhandler "botsales-backend/internal/interfaces/handlers/health"
	listhandler "botsales-backend/internal/interfaces/handlers/listings"
	newshandler "botsales-backend/internal/interfaces/handlers/news"
	sshandler "botsales-backend/internal/interfaces/handlers/savedsearches"
	userhandler "botsales-backend/internal/interfaces/handlers/user"
	"botsales-backend/internal/middleware"
	"botsales-backend/internal/platform/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateApp wires the marketplace. The catalogue is loaded once from DATABASE_URL,
// SEED_FILE or the bundled demo seed, in that order of preference.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)

	data, db, err := loadCatalogue(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	st := store.New()
	if err := st.Seed(data.Users, data.Listings); err != nil {
		return nil, nil, nil, fmt.Errorf("seed catalogue: %w", err)
	}
	engine := search.NewEngine(st)
	listings := listsvc.NewService(st, cfg.RecentListingsLimit)
	users := &usersvc.Service{Store: st}
	index := messaging.NewIndex(messaging.WithListings(st))
	registry := savedsearch.NewRegistry()
	feed := newssvc.NewFeed(data.Articles)
	mm := metrics.NewMetricsManager()

	var notifiers savedsearch.Notifiers
	var probes []healthsvc.Probe
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		if publisher, err = events.Connect(cfg.NatsURL); err != nil {
			log.Warn().Err(err).Msg("Continuing without event publishing")
			publisher = nil
		} else {
			notifiers = append(notifiers, publisher)
			probes = append(probes, publisher)
		}
	}
	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, mailer.New(cfg.SMTP))
	}
	if db != nil {
		probes = append(probes, healthsvc.ProbeFunc{Label: "database", Fn: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}})
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.NewErrorHandler(rdb),
		EnableTrustedProxyCheck: true,
	})
	if publisher != nil {
		app.Hooks().OnShutdown(func() error {
			publisher.Close()
			return nil
		})
	}

	sessions := middleware.NewSessionStore(rdb, middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(sessions.Middleware())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(mm.Middleware())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		Probes:         probes,
		HealthAdminKey: cfg.HealthAdminKey,
		Catalogue: func() healthsvc.CatalogueStats {
			all := st.Listings()
			stats := healthsvc.CatalogueStats{Listings: len(all), Users: len(st.Users())}
			for _, l := range all {
				if l.IsActive() {
					stats.ActiveListings++
				}
			}
			return stats
		},
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/metrics", mm.Handler())

	api := app.Group("/api/v1")
	auth := middleware.RequireAuth()

	ah := &authhandler.Handlers{Users: users, Sessions: sessions}
	api.Post("/auth/login", ah.Login)
	api.Get("/auth/me", ah.Me)
	api.Delete("/auth/logout", ah.Logout)

	uh := &userhandler.Handlers{Service: users, ListingService: listings, Sessions: sessions}
	api.Post("/users/register", uh.Register)
	api.Patch("/users/me", auth, uh.UpdateMe)
	api.Get("/users/:id", uh.Get)
	api.Get("/users/:id/listings", uh.Listings)

	lh := &listhandler.Handlers{
		Service: listings,
		Engine:  engine,
		Alerts:  &savedsearch.Dispatcher{Registry: registry, Notifier: notifiers, Users: st},
		Metrics: mm,
	}
	ch := &convhandler.Handlers{Index: index, Metrics: mm}
	if publisher != nil {
		lh.Events = publisher
		ch.Events = publisher
	}
	lg := api.Group("/listings")
	lg.Get("/search", lh.Search)
	lg.Get("/count", lh.Count)
	lg.Get("/suggestions", lh.Suggestions)
	lg.Get("/featured", lh.Featured)
	lg.Get("/recent", lh.Recent)
	lg.Get("/:id", lh.Get)
	lg.Post("/", auth, lh.Create)
	lg.Patch("/:id", auth, lh.Update)
	lg.Patch("/:id/status", auth, lh.ChangeStatus)
	lg.Delete("/:id", auth, lh.Delete)

	fh := &favhandler.Handlers{Service: listings}
	fg := api.Group("/favorites", auth)
	fg.Get("/", fh.List)
	fg.Post("/:listing_id/toggle", fh.Toggle)

	cg := api.Group("/conversations", auth)
	cg.Post("/", ch.Start)
	cg.Get("/", ch.List)
	cg.Get("/unread-count", ch.UnreadCount)
	cg.Get("/:id/messages", ch.Messages)
	cg.Post("/:id/messages", ch.Send)
	cg.Post("/:id/read", ch.MarkRead)

	sh := &sshandler.Handlers{Registry: registry, Search: engine}
	sg := api.Group("/saved-searches", auth)
	sg.Get("/", sh.List)
	sg.Post("/", sh.Create)
	sg.Delete("/:id", sh.Delete)
	sg.Patch("/:id/alerts", sh.ToggleAlerts)
	sg.Get("/:id/results", sh.Results)

	nh := &newshandler.Handlers{Feed: feed}
	api.Get("/news", nh.List)
	api.Post("/news/classify", nh.Classify)

	log.Info().
		Int("listings", len(data.Listings)).
		Int("users", len(data.Users)).
		Int("articles", len(data.Articles)).
		Int("notifiers", len(notifiers)).
		Msg("Marketplace ready")
	return app, db, rdb, nil
}

func loadCatalogue(cfg *config.Config) (seed.Data, *gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.SeedFile != "" {
			data, err := seed.LoadFile(cfg.SeedFile)
			return data, nil, err
		}
		data, err := seed.Default()
		return data, nil, err
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return seed.Data{}, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return seed.Data{}, nil, fmt.Errorf("migrate: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, err := database.Load(ctx, db)
	if err != nil {
		return seed.Data{}, nil, err
	}
	if len(data.Listings) > 0 || len(data.Users) > 0 {
		return data, db, nil
	}

	// empty database: import the seed so the next start reads it back
	initial, err := seed.Default()
	if cfg.SeedFile != "" {
		initial, err = seed.LoadFile(cfg.SeedFile)
	}
	if err != nil {
		return seed.Data{}, nil, err
	}
	if err := database.Save(ctx, db, initial); err != nil {
		return seed.Data{}, nil, err
	}
	log.Info().Int("listings", len(initial.Listings)).Msg("Imported seed into empty database")
	data, err = database.Load(ctx, db)
	return data, db, err
}
