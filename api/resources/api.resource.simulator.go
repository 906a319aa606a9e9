// FilePath: api/resources/api.resource.simulator.go
package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/api/middleware"
	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/farmservice"
)

// SimulatorHandlers encapsulates the simulation scheduler HTTP handlers
type SimulatorHandlers struct {
	farmservice *farmservice.FarmService
}

// @Summary Get simulator status
// @Description List every farm the caller belongs to with its simulation run state
// @Tags simulator
// @Produce json
// @Success 200 {array} models.FarmSimulatorStatus
// @Failure 401 {object} errors.APIError
// @Router /sensorSimulator/status [get]
// @Security BearerAuth
func (h *SimulatorHandlers) Status(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, errors.NewAuthError("no authenticated user", nil).WithRequestID(requestID))
		return
	}

	statuses, err := h.farmservice.SimulatorStatus(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, statuses)
}

// @Summary Start simulation for a farm
// @Description Start generating readings for all active sensors of a farm. Admin only.
// @Tags simulator
// @Produce json
// @Param farmId path string true "Farm ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /sensorSimulator/start/{farmId} [post]
// @Security BearerAuth
func (h *SimulatorHandlers) Start(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	farmID := vars["farmId"]
	requestID := nuts.NID("req", 12)

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, errors.NewAuthError("no authenticated user", nil).WithRequestID(requestID))
		return
	}

	if err := h.farmservice.StartSimulator(r.Context(), user.ID, farmID); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "simulation started"})
}

// @Summary Stop simulation for a farm
// @Description Stop the running simulation for a farm. Admin only.
// @Tags simulator
// @Produce json
// @Param farmId path string true "Farm ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /sensorSimulator/stop/{farmId} [post]
// @Security BearerAuth
func (h *SimulatorHandlers) Stop(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	farmID := vars["farmId"]
	requestID := nuts.NID("req", 12)

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, errors.NewAuthError("no authenticated user", nil).WithRequestID(requestID))
		return
	}

	if err := h.farmservice.StopSimulator(r.Context(), user.ID, farmID); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "simulation stopped"})
}
