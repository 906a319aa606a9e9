// FilePath: api/resources/api.resource.readings.go
package resources

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/api/middleware"
	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/farmservice"
	"github.com/agrisense/farmwatch/internal/models"
)

// ReadingHandlers encapsulates the reading-related HTTP handlers
type ReadingHandlers struct {
	farmservice *farmservice.FarmService
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// readingPayload is the wire shape of a submitted reading. Value is a
// pointer so a missing field is distinguishable from an explicit zero.
type readingPayload struct {
	SensorObjectID string   `json:"sensor_object_id"`
	DataType       string   `json:"data_type"`
	Value          *float64 `json:"value"`
	Timestamp      string   `json:"timestamp"`
}

func (p readingPayload) complete() bool {
	return p.SensorObjectID != "" && p.DataType != "" && p.Value != nil && p.Timestamp != ""
}

func (p readingPayload) toReading() (*models.Reading, error) {
	reading := &models.Reading{
		SensorID: p.SensorObjectID,
		DataType: models.DataType(p.DataType),
	}
	if p.Value != nil {
		reading.Value = *p.Value
	}
	if p.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			return nil, errors.NewValidationError("invalid timestamp, expected RFC3339", err)
		}
		reading.Timestamp = ts
	}
	return reading, nil
}

// @Summary Record a sensor reading
// @Description Record a single reading for a sensor
// @Tags readings
// @Accept json
// @Produce json
// @Param reading body readingPayload true "Reading details"
// @Success 201 {object} models.Reading
// @Failure 400 {object} errors.APIError
// @Router /readings [post]
func (h *ReadingHandlers) AddReading(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var payload readingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if payload.Value == nil {
		respondWithError(w, errors.NewValidationError("value is required", nil).WithRequestID(requestID))
		return
	}

	reading, err := payload.toReading()
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}
	if err := h.farmservice.AddReading(r.Context(), reading); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, reading)
}

// @Summary Record sensor readings in bulk
// @Description Record a batch of readings, typically from a backfill job
// @Tags readings
// @Accept json
// @Produce json
// @Param readings body []readingPayload true "Array of readings"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.APIError
// @Router /readings/bulk [post]
func (h *ReadingHandlers) AddReadingsBulk(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var payloads []readingPayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if len(payloads) == 0 {
		respondWithError(w, errors.NewValidationError("readings array must not be empty", nil).WithRequestID(requestID))
		return
	}

	// Bulk submissions must be fully specified up front, including the
	// timestamp. Malformed rows reject the whole batch.
	readings := make([]*models.Reading, 0, len(payloads))
	for _, payload := range payloads {
		if !payload.complete() {
			respondWithError(w, errors.NewValidationError("each reading requires sensor_object_id, data_type, value and timestamp", nil).WithRequestID(requestID))
			return
		}
		reading, err := payload.toReading()
		if err != nil {
			respondWithServiceError(w, err, requestID)
			return
		}
		readings = append(readings, reading)
	}

	inserted, err := h.farmservice.AddReadingsBulk(r.Context(), readings)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "readings recorded",
		"inserted": inserted,
	})
}

// @Summary Get latest readings
// @Description Get the most recent reading per sensor and data type across the caller's farms
// @Tags readings
// @Produce json
// @Param sensorId query string false "Sensor ID"
// @Param sensorName query string false "Sensor name substring"
// @Param farmId query string false "Farm ID"
// @Param farmName query string false "Farm name substring"
// @Param zoneId query string false "Zone ID"
// @Param zoneName query string false "Zone name substring"
// @Param dataType query []string false "Data types"
// @Success 200 {array} models.Reading
// @Failure 401 {object} errors.APIError
// @Router /readings/latest [get]
// @Security BearerAuth
func (h *ReadingHandlers) LatestReadings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, errors.NewAuthError("no authenticated user", nil).WithRequestID(requestID))
		return
	}

	var filters models.ReadingFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	readings, err := h.farmservice.LatestReadings(r.Context(), user.ID, filters)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

// @Summary Get zone-aggregated readings
// @Description Get time-bucketed averages for one data type across a zone
// @Tags readings
// @Produce json
// @Param zoneObjectId query string true "Zone ID"
// @Param dataType query string true "Data type"
// @Param interval query string true "Bucket interval (minute, hour, day)"
// @Param startTime query string false "Start time (RFC3339)"
// @Param endTime query string false "End time (RFC3339)"
// @Success 200 {array} models.AggregateBucket
// @Failure 400 {object} errors.APIError
// @Failure 403 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /readings/zone-aggregated [get]
// @Security BearerAuth
func (h *ReadingHandlers) ZoneAggregated(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, errors.NewAuthError("no authenticated user", nil).WithRequestID(requestID))
		return
	}

	query, err := parseAggregateQuery(r)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	buckets, err := h.farmservice.ZoneAggregated(r.Context(), user.ID, r.URL.Query().Get("zoneObjectId"), query)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, buckets)
}

// @Summary Get farm-aggregated readings
// @Description Get time-bucketed averages for one data type across a farm
// @Tags readings
// @Produce json
// @Param farmObjectId query string true "Farm ID"
// @Param dataType query string true "Data type"
// @Param interval query string true "Bucket interval (minute, hour, day)"
// @Param startTime query string false "Start time (RFC3339)"
// @Param endTime query string false "End time (RFC3339)"
// @Success 200 {array} models.AggregateBucket
// @Failure 400 {object} errors.APIError
// @Failure 403 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /readings/farm-aggregated [get]
// @Security BearerAuth
func (h *ReadingHandlers) FarmAggregated(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, errors.NewAuthError("no authenticated user", nil).WithRequestID(requestID))
		return
	}

	query, err := parseAggregateQuery(r)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	buckets, err := h.farmservice.FarmAggregated(r.Context(), user.ID, r.URL.Query().Get("farmObjectId"), query)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, buckets)
}

// Helper functions

func parseAggregateQuery(r *http.Request) (farmservice.AggregateQuery, error) {
	values := r.URL.Query()
	query := farmservice.AggregateQuery{
		DataType: values.Get("dataType"),
		Interval: values.Get("interval"),
	}

	if startStr := values.Get("startTime"); startStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return query, errors.NewValidationError("invalid startTime, expected RFC3339", err)
		}
		query.Start = &start
	}
	if endStr := values.Get("endTime"); endStr != "" {
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return query, errors.NewValidationError("invalid endTime, expected RFC3339", err)
		}
		query.End = &end
	}

	return query, nil
}
