// FilePath: internal/farmservice/farmservice.access.go
package farmservice

import (
	"context"

	"github.com/agrisense/farmwatch/internal/models"
)

// resolveSensorIDs turns the caller's free-text filters plus their farm
// memberships into the authorized set of sensor ids to search over. The
// membership intersection is applied unconditionally: a caller never sees
// another tenant's sensors even when they guess an exact foreign farm or
// zone name. An empty set at any stage short-circuits without further
// store calls.
func (s *FarmService) resolveSensorIDs(ctx context.Context, userID string, filters models.ReadingFilters) ([]string, error) {
	scope := models.SensorScope{
		SensorID:   filters.SensorID,
		SensorName: filters.SensorName,
	}

	if filters.FarmID != "" || filters.FarmName != "" {
		farmIDs, err := s.Farms.FindIDsByPattern(ctx, filters.FarmID, filters.FarmName)
		if err != nil {
			return nil, err
		}
		if len(farmIDs) == 0 {
			return nil, nil
		}
		scope.FarmIDs = farmIDs
	}

	if filters.ZoneID != "" || filters.ZoneName != "" {
		zoneIDs, err := s.Zones.FindIDsByPattern(ctx, filters.ZoneID, filters.ZoneName)
		if err != nil {
			return nil, err
		}
		if len(zoneIDs) == 0 {
			return nil, nil
		}
		scope.ZoneIDs = zoneIDs
	}

	memberships, err := s.Farms.MembershipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	authorized := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		authorized[m.FarmID] = true
	}

	if len(scope.FarmIDs) > 0 {
		intersected := scope.FarmIDs[:0]
		for _, id := range scope.FarmIDs {
			if authorized[id] {
				intersected = append(intersected, id)
			}
		}
		if len(intersected) == 0 {
			return nil, nil
		}
		scope.FarmIDs = intersected
	} else {
		for _, m := range memberships {
			scope.FarmIDs = append(scope.FarmIDs, m.FarmID)
		}
	}

	sensors, err := s.Sensors.ListByScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(sensors))
	for i, sensor := range sensors {
		ids[i] = sensor.ID
	}
	return ids, nil
}
