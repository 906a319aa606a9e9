// FilePath: internal/models/models.zone.go
package models

import "time"

// Zone is a subdivision of a farm.
type Zone struct {
	ID          string    `json:"id" db:"id"`
	ZoneID      string    `json:"zone_id" db:"zone_id"`
	ZoneName    string    `json:"zone_name" db:"zone_name"`
	Description string    `json:"description" db:"description"`
	FarmID      string    `json:"farm_object_id" db:"farm_object_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
