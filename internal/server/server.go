// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/api"
	"github.com/agrisense/farmwatch/api/middleware"
	"github.com/agrisense/farmwatch/internal/config"
	"github.com/agrisense/farmwatch/internal/database"
	"github.com/agrisense/farmwatch/internal/farmservice"
	"github.com/agrisense/farmwatch/internal/monitoring"
	"github.com/agrisense/farmwatch/internal/repository/postgres"
	"github.com/agrisense/farmwatch/internal/repository/redisstate"
	"github.com/agrisense/farmwatch/internal/repository/timescale"
	"github.com/agrisense/farmwatch/internal/simulator"
)

// Server represents our HTTP server
type Server struct {
	config      *config.Config
	srv         *http.Server
	farmservice *farmservice.FarmService
	monitoring  *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	svc, err := initializeFarmService(s.config)
	if err != nil {
		return err
	}
	s.farmservice = svc
	s.monitoring = monitoring.NewService()

	// Set up cleanup event handlers
	s.setupCleanupHandlers()

	// Setup routes
	router := api.NewRouter(s.farmservice, middleware.AuthConfig{
		JWTSecret: s.config.Auth.JWTSecret,
	})
	router.SetHealthCheck(s.handleHealth())

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	s.srv.Handler = handlers.RecoveryHandler()(cors(router))

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	// Stop simulation loops first so no new writes race the drain.
	s.farmservice.Simulator.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handleHealth returns a simple health check handler
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupCleanupHandlers() {
	// Handle sensor deletion events
	s.farmservice.Cleanup.OnCleanup("sensor.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Sensor %s and all associated readings deleted", id)
		s.monitoring.RecordEvent("sensor_deletion", map[string]string{
			"sensor_id": id,
		})
	})

	// Handle farm deletion events
	s.farmservice.Cleanup.OnCleanup("farm.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Farm %s and all associated data deleted", id)
		s.monitoring.RecordEvent("farm_deletion", map[string]string{
			"farm_id": id,
		})
	})

	// Handle readings deletion events
	s.farmservice.Cleanup.OnCleanup("farm.readings_deleted", func(id string) {
		nuts.L.Infof("[Cleanup] All readings for farm %s deleted", id)
		s.monitoring.RecordEvent("readings_deletion", map[string]string{
			"farm_id": id,
		})
	})
}

// initializeFarmService creates and configures the farm service
func initializeFarmService(cfg *config.Config) (*farmservice.FarmService, error) {
	// Initialize database connections
	tsdb := initTimescaleDB(cfg.Database.TimescaleDB)
	appDB := initAppDB(cfg.Database.AppDB)

	if err := postgres.InitSchema(appDB); err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize app schema: %v", err)
	}

	// Initialize repositories
	farms := postgres.NewFarmRepository(appDB)
	zones := postgres.NewZoneRepository(appDB)
	sensors := postgres.NewSensorRepository(appDB)

	readings, err := timescale.NewReadingRepository(tsdb)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize reading repository: %v", err)
	}

	simState, err := redisstate.NewSimulatorStateRepository(cfg.Redis)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to redis: %v", err)
	}

	sim := simulator.NewScheduler(sensors, readings, simState, simulator.Options{
		TickInterval:     cfg.Simulator.TickInterval,
		WriteConcurrency: cfg.Simulator.WriteConcurrency,
	})

	svc := farmservice.New(farms, zones, sensors, readings, sim, farmservice.Options{
		LatestWindow: cfg.Simulator.LatestWindow,
	})
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	return svc, nil
}

func initTimescaleDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewTimescaleDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to TimescaleDB: %v", err)
	}
	db := wrappedDB.GetDB()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping TimescaleDB: %v", err)
	}
	return wrappedDB
}

func initAppDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to AppDB: %v", err)
	}
	db := wrappedDB.GetDB()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping AppDB: %v", err)
	}
	return wrappedDB
}
