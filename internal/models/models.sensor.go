// FilePath: internal/models/models.sensor.go
package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/agrisense/farmwatch/internal/errors"
)

// DataType is one of the fixed set of environmental measurements a sensor
// can emit.
type DataType string

const (
	SoilMoisture     DataType = "soilMoisture"
	SoilTemperature  DataType = "soilTemperature"
	AirTemperature   DataType = "airTemperature"
	RelativeHumidity DataType = "relativeHumidity"
	LightIntensity   DataType = "lightIntensity"
	WindSpeed        DataType = "windSpeed"
)

// AllDataTypes lists every supported data type; the simulator registers one
// timer per entry.
func AllDataTypes() []DataType {
	return []DataType{
		SoilMoisture,
		SoilTemperature,
		AirTemperature,
		RelativeHumidity,
		LightIntensity,
		WindSpeed,
	}
}

// IsValidDataType reports whether t names a supported data type.
func IsValidDataType(t DataType) bool {
	switch t {
	case SoilMoisture, SoilTemperature, AirTemperature,
		RelativeHumidity, LightIntensity, WindSpeed:
		return true
	}
	return false
}

// Sensor is a logical data source tagged with one or more data types,
// located in a zone of a farm.
type Sensor struct {
	ID         string         `json:"id" db:"id"`
	SensorID   string         `json:"sensor_id" db:"sensor_id"`
	SensorName string         `json:"sensor_name" db:"sensor_name"`
	DataTypes  pq.StringArray `json:"data_types" db:"data_types"`
	IsActive   bool           `json:"is_active" db:"is_active"`
	FarmID     string         `json:"farm_object_id" db:"farm_object_id"`
	ZoneID     string         `json:"zone_object_id" db:"zone_object_id"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// Validate enforces the directory invariants. It runs on create and on
// update.
func (s *Sensor) Validate() error {
	if s.SensorName == "" {
		return errors.NewValidationError("sensor name is required", nil)
	}
	if len(s.DataTypes) == 0 {
		return errors.NewValidationError("sensor requires at least one data type", nil)
	}
	for _, t := range s.DataTypes {
		if !IsValidDataType(DataType(t)) {
			return errors.NewValidationError("unknown data type: "+t, nil)
		}
	}
	if s.IsActive && (s.FarmID == "" || s.ZoneID == "") {
		return errors.NewValidationError("active sensors must have both a farm and a zone", nil)
	}
	return nil
}

// HasDataType reports whether the sensor is tagged with t.
func (s *Sensor) HasDataType(t DataType) bool {
	for _, dt := range s.DataTypes {
		if DataType(dt) == t {
			return true
		}
	}
	return false
}
