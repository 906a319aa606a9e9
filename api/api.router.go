package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agrisense/farmwatch/api/middleware"
	"github.com/agrisense/farmwatch/api/resources"
	"github.com/agrisense/farmwatch/internal/farmservice"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.AuthMiddleware
	resources *resources.Resources
}

func NewRouter(svc *farmservice.FarmService, authConfig middleware.AuthConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAuthMiddleware(authConfig),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes. Reading ingestion is deliberately open: edge devices
	// and the backfill tool authenticate at the network layer, not here.
	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)
	api.HandleFunc("/readings", r.resources.Readings.AddReading).Methods(http.MethodPost)
	api.HandleFunc("/readings/bulk", r.resources.Readings.AddReadingsBulk).Methods(http.MethodPost)
	api.HandleFunc("/sensors/public/active", r.resources.Sensors.ActiveSensors).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	// Readings
	protected.HandleFunc("/readings/latest", r.resources.Readings.LatestReadings).Methods(http.MethodGet)
	protected.HandleFunc("/readings/zone-aggregated", r.resources.Readings.ZoneAggregated).Methods(http.MethodGet)
	protected.HandleFunc("/readings/farm-aggregated", r.resources.Readings.FarmAggregated).Methods(http.MethodGet)

	// Simulator
	protected.HandleFunc("/sensorSimulator/status", r.resources.Simulator.Status).Methods(http.MethodGet)
	protected.HandleFunc("/sensorSimulator/start/{farmId}", r.resources.Simulator.Start).Methods(http.MethodPost)
	protected.HandleFunc("/sensorSimulator/stop/{farmId}", r.resources.Simulator.Stop).Methods(http.MethodPost)
}

// SetHealthCheck sets the health check handler
func (r *Router) SetHealthCheck(h func(w http.ResponseWriter, req *http.Request)) {
	r.resources.SetHealthCheck(h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
