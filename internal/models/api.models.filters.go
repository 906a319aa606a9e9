// FilePath: internal/models/api.models.filters.go
package models

// ReadingFilters defines the query-string filters accepted by the latest
// readings endpoint. Decoded with gorilla/schema. All text filters are
// case-insensitive literal substring matches.
type ReadingFilters struct {
	SensorID   string   `schema:"sensorId"`
	SensorName string   `schema:"sensorName"`
	FarmID     string   `schema:"farmId"`
	FarmName   string   `schema:"farmName"`
	ZoneID     string   `schema:"zoneId"`
	ZoneName   string   `schema:"zoneName"`
	DataTypes  []string `schema:"dataType"`
}

// SensorScope is the fully resolved sensor search constraint produced by
// the access filter builder and consumed by the sensor directory.
type SensorScope struct {
	FarmIDs     []string
	ZoneIDs     []string
	SensorID    string
	SensorName  string
	DataTypes   []DataType
	ActiveOnly  *bool
}
