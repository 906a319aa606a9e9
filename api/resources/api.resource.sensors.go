// FilePath: api/resources/api.resource.sensors.go
package resources

import (
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/internal/farmservice"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	farmservice *farmservice.FarmService
}

// @Summary List active sensors
// @Description Get a trimmed public directory of all active sensors, used by backfill tooling
// @Tags sensors
// @Produce json
// @Success 200 {array} farmservice.PublicSensor
// @Router /sensors/public/active [get]
func (h *SensorHandlers) ActiveSensors(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	sensors, err := h.farmservice.ActiveSensors(r.Context())
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, sensors)
}
