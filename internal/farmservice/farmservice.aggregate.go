// FilePath: internal/farmservice/farmservice.aggregate.go
package farmservice

import (
	"context"
	"time"

	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

// AggregateQuery is a historical aggregation request for a single farm or
// zone. Unlike filtered search, the farm/zone reference is a direct lookup:
// an unknown id is not-found and a foreign farm is an authorization error,
// never a silently empty result.
type AggregateQuery struct {
	DataType string
	Interval string
	Start    *time.Time
	End      *time.Time
}

func (q AggregateQuery) validate() (models.DataType, models.Interval, error) {
	if q.DataType == "" {
		return "", "", errors.NewValidationError("dataType is required", nil)
	}
	dataType := models.DataType(q.DataType)
	if !models.IsValidDataType(dataType) {
		return "", "", errors.NewValidationError("unknown data type: "+q.DataType, nil)
	}
	if q.Interval == "" {
		return "", "", errors.NewValidationError("interval is required", nil)
	}
	interval, err := models.ParseInterval(q.Interval)
	if err != nil {
		return "", "", err
	}
	return dataType, interval, nil
}

// ZoneAggregated computes bucketed averages over one zone. Any farm member
// may read; admin is only required for write/config operations.
func (s *FarmService) ZoneAggregated(ctx context.Context, userID, zoneObjectID string, query AggregateQuery) ([]models.AggregateBucket, error) {
	if zoneObjectID == "" {
		return nil, errors.NewValidationError("zoneObjectId is required", nil)
	}
	dataType, interval, err := query.validate()
	if err != nil {
		return nil, err
	}

	zone, err := s.Zones.Get(ctx, zoneObjectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, zone.FarmID, userID); err != nil {
		return nil, err
	}

	return s.aggregateScope(ctx, models.SensorScope{
		ZoneIDs:   []string{zone.ID},
		DataTypes: []models.DataType{dataType},
	}, dataType, interval, query)
}

// FarmAggregated computes bucketed averages over one farm.
func (s *FarmService) FarmAggregated(ctx context.Context, userID, farmObjectID string, query AggregateQuery) ([]models.AggregateBucket, error) {
	if farmObjectID == "" {
		return nil, errors.NewValidationError("farmObjectId is required", nil)
	}
	dataType, interval, err := query.validate()
	if err != nil {
		return nil, err
	}

	farm, err := s.Farms.Get(ctx, farmObjectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, farm.ID, userID); err != nil {
		return nil, err
	}

	return s.aggregateScope(ctx, models.SensorScope{
		FarmIDs:   []string{farm.ID},
		DataTypes: []models.DataType{dataType},
	}, dataType, interval, query)
}

// aggregateScope resolves the sensors carrying the data type in the scope
// and delegates to the store, keyed on the source-sensor attribution so
// results stay stable when sensors later move zones.
func (s *FarmService) aggregateScope(ctx context.Context, scope models.SensorScope, dataType models.DataType, interval models.Interval, query AggregateQuery) ([]models.AggregateBucket, error) {
	sensors, err := s.Sensors.ListByScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(sensors) == 0 {
		return []models.AggregateBucket{}, nil
	}

	sourceIDs := make([]string, len(sensors))
	for i, sensor := range sensors {
		sourceIDs[i] = sensor.ID
	}

	return s.Readings.BucketedAverages(ctx, sourceIDs, dataType, interval, query.Start, query.End)
}

// requireMember checks the caller holds any role in the farm.
func (s *FarmService) requireMember(ctx context.Context, farmID, userID string) error {
	members, err := s.Farms.Members(ctx, farmID)
	if err != nil {
		return err
	}
	if !models.HasMember(members, userID) {
		return errors.NewAuthorizationError("you do not have access to this farm", nil)
	}
	return nil
}

// requireAdmin checks the caller holds the admin role in the farm.
func (s *FarmService) requireAdmin(ctx context.Context, farmID, userID string) error {
	members, err := s.Farms.Members(ctx, farmID)
	if err != nil {
		return err
	}
	if !models.HasAdmin(members, userID) {
		return errors.NewAuthorizationError("only farm admins may do this", nil)
	}
	return nil
}
