package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gridpulse/energy-optimizer/api/handlers"
	"github.com/gridpulse/energy-optimizer/api/middleware"
	"github.com/gridpulse/energy-optimizer/api/websocket"
	_ "github.com/gridpulse/energy-optimizer/docs"
	"github.com/gridpulse/energy-optimizer/internal/auth"
	"github.com/gridpulse/energy-optimizer/internal/impact"
	"github.com/gridpulse/energy-optimizer/internal/metrics"
	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/internal/simulator"
	"github.com/gridpulse/energy-optimizer/internal/windows"
	"github.com/gridpulse/energy-optimizer/pkg/cache"
	"github.com/gridpulse/energy-optimizer/pkg/config"
	"github.com/gridpulse/energy-optimizer/pkg/database"
	"github.com/gridpulse/energy-optimizer/pkg/database/queries"
)

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	db          *database.DB
	snapshots   cache.Service
	authService *auth.Service
	scorer      *windows.Scorer
	providers   handlers.ProviderFactory
	manager     handlers.BuildingManager
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
}

func NewServer(cfg *config.Config, db *database.DB, snapshots cache.Service, scorer *windows.Scorer, manager handlers.BuildingManager, providers handlers.ProviderFactory) *Server {
	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	jwtDuration := cfg.API.JWTDuration
	if jwtDuration == 0 {
		jwtDuration = 24 * time.Hour
	}
	authService := auth.NewService(cfg.API.JWTSecret, jwtDuration)
	wsHub := websocket.NewHub(&cfg.WebSocket)

	s := &Server{
		router:      router,
		config:      cfg,
		db:          db,
		snapshots:   snapshots,
		authService: authService,
		scorer:      scorer,
		providers:   providers,
		manager:     manager,
		wsHub:       wsHub,
	}

	s.setupMiddleware()
	s.setupRoutes()

	go wsHub.Run()

	if manager != nil {
		s.wsBridge = websocket.NewEventBridge(wsHub, manager.SubscribeAllEvents())
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(s.corsConfig()))
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())

	rateLimiter := middleware.NewRateLimiter(s.config.API.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))
}

func (s *Server) corsConfig() middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(s.config.API.CORS.AllowedOrigins) > 0 {
		cfg.AllowOrigins = s.config.API.CORS.AllowedOrigins
	}
	if len(s.config.API.CORS.AllowedMethods) > 0 {
		cfg.AllowMethods = s.config.API.CORS.AllowedMethods
	}
	if len(s.config.API.CORS.AllowedHeaders) > 0 {
		cfg.AllowHeaders = s.config.API.CORS.AllowedHeaders
	}
	return cfg
}

func (s *Server) setupRoutes() {
	userRepo := queries.NewUserRepository(s.db.DB)
	buildingRepo := queries.NewBuildingRepository(s.db.DB)
	runRepo := queries.NewRunRepository(s.db.DB)
	eventRepo := queries.NewEventRepository(s.db.DB)

	var healthFeed provider.ForecastProvider
	if s.providers != nil {
		healthFeed, _ = s.providers("")
	}

	healthHandler := handlers.NewHealthHandler(s.db, healthFeed)
	authHandler := handlers.NewAuthHandler(userRepo, s.authService)
	buildingHandler := handlers.NewBuildingHandler(buildingRepo, s.manager, s.providers)
	runHandler := handlers.NewRunHandler(runRepo, eventRepo, s.snapshots, &s.config.API)
	windowHandler := handlers.NewWindowHandler(s.scorer, s.providers, s.config.Engine)
	impactHandler := handlers.NewImpactHandler(
		buildingRepo,
		simulator.New(simulator.Config{
			SetpointC: s.config.Simulator.SetpointC,
			Seed:      s.config.Simulator.Seed,
		}),
		impact.New(impact.DefaultPolicy()),
		s.providers,
	)

	// Public routes
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	if s.config.Prometheus.Enabled {
		s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth routes
	authGroup := s.router.Group("/auth")
	authGroup.Use(middleware.AuthRateLimiter())
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// WebSocket route
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	// Protected routes
	protected := s.router.Group("/")
	protected.Use(middleware.JWTAuth(s.authService))
	{
		// Buildings
		protected.GET("/buildings", buildingHandler.List)
		protected.POST("/buildings", buildingHandler.Create)
		protected.GET("/buildings/:id", buildingHandler.Get)
		protected.PUT("/buildings/:id", buildingHandler.Update)
		protected.DELETE("/buildings/:id", buildingHandler.Delete)
		protected.GET("/buildings/:id/status", buildingHandler.GetStatus)
		protected.POST("/buildings/:id/start", buildingHandler.Start)
		protected.POST("/buildings/:id/stop", buildingHandler.Stop)
		protected.POST("/buildings/:id/run", buildingHandler.RunNow)
		protected.POST("/buildings/:id/impact", impactHandler.SimulateImpact)

		// Account
		protected.GET("/auth/me", authHandler.Me)

		// Runs
		protected.GET("/buildings/:id/runs", runHandler.GetRuns)
		protected.GET("/buildings/:id/runs/latest", runHandler.GetLatestRun)
		protected.GET("/buildings/:id/savings", runHandler.GetSavings)

		// Events
		protected.GET("/buildings/:id/events", runHandler.GetEvents)
		protected.GET("/events/recent", runHandler.GetRecentEvents)

		// Windows
		protected.GET("/regions/:region/windows", windowHandler.GetWindows)
		protected.GET("/regions/:region/windows/sustained", windowHandler.GetSustained)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
