// FilePath: internal/farmservice/fakes_test.go
package farmservice

import (
	"context"
	"strings"
	"time"

	"github.com/agrisense/farmwatch/internal/database"
	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
	"github.com/agrisense/farmwatch/internal/simulator"
)

// In-memory repository fakes. They mirror the store semantics the service
// relies on (substring matching, active filtering) closely enough that the
// service tests read like integration tests without a database.

type fakeFarms struct {
	farms       []*models.Farm
	members     map[string][]models.FarmMember
	memberships map[string][]models.FarmMember

	findCalls       int
	membershipCalls int
}

func (f *fakeFarms) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }

func (f *fakeFarms) Create(ctx context.Context, farm *models.Farm, members []models.FarmMember) error {
	f.farms = append(f.farms, farm)
	for _, m := range members {
		f.members[farm.ID] = append(f.members[farm.ID], m)
		f.memberships[m.UserID] = append(f.memberships[m.UserID], m)
	}
	return nil
}

func (f *fakeFarms) Get(ctx context.Context, id string) (*models.Farm, error) {
	for _, farm := range f.farms {
		if farm.ID == id {
			return farm, nil
		}
	}
	return nil, errors.NewNotFoundError("farm not found", nil)
}

func (f *fakeFarms) Delete(ctx context.Context, id string, tx database.Transaction) error {
	return nil
}

func (f *fakeFarms) FindIDsByPattern(ctx context.Context, idPattern, namePattern string) ([]string, error) {
	f.findCalls++
	var ids []string
	for _, farm := range f.farms {
		if matchPattern(farm.FarmID, idPattern) && matchPattern(farm.FarmName, namePattern) {
			ids = append(ids, farm.ID)
		}
	}
	return ids, nil
}

func (f *fakeFarms) Members(ctx context.Context, farmID string) ([]models.FarmMember, error) {
	return f.members[farmID], nil
}

func (f *fakeFarms) MembershipsForUser(ctx context.Context, userID string) ([]models.FarmMember, error) {
	f.membershipCalls++
	return f.memberships[userID], nil
}

func (f *fakeFarms) ListForUser(ctx context.Context, userID string) ([]*models.Farm, error) {
	var result []*models.Farm
	for _, farm := range f.farms {
		for _, m := range f.memberships[userID] {
			if m.FarmID == farm.ID {
				result = append(result, farm)
			}
		}
	}
	return result, nil
}

type fakeZones struct {
	zones []*models.Zone

	findCalls int
}

func (f *fakeZones) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }

func (f *fakeZones) Create(ctx context.Context, zone *models.Zone) error {
	f.zones = append(f.zones, zone)
	return nil
}

func (f *fakeZones) Get(ctx context.Context, id string) (*models.Zone, error) {
	for _, zone := range f.zones {
		if zone.ID == id {
			return zone, nil
		}
	}
	return nil, errors.NewNotFoundError("zone not found", nil)
}

func (f *fakeZones) DeleteByFarm(ctx context.Context, farmID string, tx database.Transaction) error {
	return nil
}

func (f *fakeZones) FindIDsByPattern(ctx context.Context, idPattern, namePattern string) ([]string, error) {
	f.findCalls++
	var ids []string
	for _, zone := range f.zones {
		if matchPattern(zone.ZoneID, idPattern) && matchPattern(zone.ZoneName, namePattern) {
			ids = append(ids, zone.ID)
		}
	}
	return ids, nil
}

type fakeSensors struct {
	sensors []*models.Sensor

	listCalls int
	lastScope models.SensorScope
}

func (f *fakeSensors) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }

func (f *fakeSensors) Create(ctx context.Context, sensor *models.Sensor) error {
	if err := sensor.Validate(); err != nil {
		return err
	}
	f.sensors = append(f.sensors, sensor)
	return nil
}

func (f *fakeSensors) Get(ctx context.Context, id string) (*models.Sensor, error) {
	for _, sensor := range f.sensors {
		if sensor.ID == id {
			return sensor, nil
		}
	}
	return nil, errors.NewNotFoundError("sensor not found", nil)
}

func (f *fakeSensors) Update(ctx context.Context, sensor *models.Sensor) error {
	return sensor.Validate()
}

func (f *fakeSensors) Delete(ctx context.Context, id string, tx database.Transaction) error {
	return nil
}

func (f *fakeSensors) ListByScope(ctx context.Context, scope models.SensorScope) ([]*models.Sensor, error) {
	f.listCalls++
	f.lastScope = scope

	var result []*models.Sensor
	for _, sensor := range f.sensors {
		if len(scope.FarmIDs) > 0 && !contains(scope.FarmIDs, sensor.FarmID) {
			continue
		}
		if len(scope.ZoneIDs) > 0 && !contains(scope.ZoneIDs, sensor.ZoneID) {
			continue
		}
		if !matchPattern(sensor.SensorID, scope.SensorID) {
			continue
		}
		if !matchPattern(sensor.SensorName, scope.SensorName) {
			continue
		}
		if len(scope.DataTypes) > 0 {
			any := false
			for _, t := range scope.DataTypes {
				if sensor.HasDataType(t) {
					any = true
				}
			}
			if !any {
				continue
			}
		}
		if scope.ActiveOnly != nil && *scope.ActiveOnly != sensor.IsActive {
			continue
		}
		result = append(result, sensor)
	}
	return result, nil
}

func (f *fakeSensors) ListActive(ctx context.Context) ([]*models.Sensor, error) {
	var result []*models.Sensor
	for _, sensor := range f.sensors {
		if sensor.IsActive {
			result = append(result, sensor)
		}
	}
	return result, nil
}

func (f *fakeSensors) ActiveIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	active := make(map[string]bool)
	for _, sensor := range f.sensors {
		if sensor.IsActive && contains(ids, sensor.ID) {
			active[sensor.ID] = true
		}
	}
	return active, nil
}

type fakeReadings struct {
	inserted []*models.Reading
	failIDs  map[string]bool

	latest  []*models.Reading
	buckets []models.AggregateBucket

	lastSensorIDs []string
	lastDataTypes []models.DataType
	lastSince     time.Time
	lastSourceIDs []string
	lastAggType   models.DataType
	lastInterval  models.Interval
	latestCalls   int
	bucketCalls   int
}

func (f *fakeReadings) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }

func (f *fakeReadings) InsertReading(ctx context.Context, reading *models.Reading) error {
	if f.failIDs[reading.SensorID] {
		return errors.NewDatabaseError("insert failed", nil)
	}
	f.inserted = append(f.inserted, reading)
	return nil
}

func (f *fakeReadings) InsertReadings(ctx context.Context, readings []*models.Reading) (int, error) {
	count := 0
	for _, reading := range readings {
		if err := f.InsertReading(ctx, reading); err == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeReadings) LatestPerGroup(ctx context.Context, sensorIDs []string, dataTypes []models.DataType, since time.Time) ([]*models.Reading, error) {
	f.latestCalls++
	f.lastSensorIDs = sensorIDs
	f.lastDataTypes = dataTypes
	f.lastSince = since
	if f.latest != nil {
		return f.latest, nil
	}

	var scoped []*models.Reading
	for _, reading := range f.inserted {
		if !contains(sensorIDs, reading.SensorID) {
			continue
		}
		if len(dataTypes) > 0 && !containsType(dataTypes, reading.DataType) {
			continue
		}
		scoped = append(scoped, reading)
	}
	return models.LatestReadingPerGroup(scoped, since), nil
}

func (f *fakeReadings) BucketedAverages(ctx context.Context, sourceSensorIDs []string, dataType models.DataType, interval models.Interval, start, end *time.Time) ([]models.AggregateBucket, error) {
	f.bucketCalls++
	f.lastSourceIDs = sourceSensorIDs
	f.lastAggType = dataType
	f.lastInterval = interval
	if f.buckets != nil {
		return f.buckets, nil
	}

	var scoped []*models.Reading
	for _, reading := range f.inserted {
		if !contains(sourceSensorIDs, reading.SourceSensorID) {
			continue
		}
		if reading.DataType != dataType {
			continue
		}
		if start != nil && reading.Timestamp.Before(*start) {
			continue
		}
		if end != nil && !reading.Timestamp.Before(*end) {
			continue
		}
		scoped = append(scoped, reading)
	}
	return models.BucketAverages(scoped, interval), nil
}

func (f *fakeReadings) DeleteBySensorIDs(ctx context.Context, sensorIDs []string) error {
	return nil
}

type fakeSimState struct {
	running map[string]bool
}

func (f *fakeSimState) SetRunning(ctx context.Context, farmID string, running bool) error {
	f.running[farmID] = running
	return nil
}

func (f *fakeSimState) RunningStates(ctx context.Context, farmIDs []string) (map[string]bool, error) {
	states := make(map[string]bool, len(farmIDs))
	for _, id := range farmIDs {
		states[id] = f.running[id]
	}
	return states, nil
}

func matchPattern(value, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(pattern)))
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func containsType(types []models.DataType, dataType models.DataType) bool {
	for _, t := range types {
		if t == dataType {
			return true
		}
	}
	return false
}

type testEnv struct {
	svc      *FarmService
	farms    *fakeFarms
	zones    *fakeZones
	sensors  *fakeSensors
	readings *fakeReadings
	state    *fakeSimState
	now      time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		farms: &fakeFarms{
			members:     make(map[string][]models.FarmMember),
			memberships: make(map[string][]models.FarmMember),
		},
		zones:    &fakeZones{},
		sensors:  &fakeSensors{},
		readings: &fakeReadings{failIDs: make(map[string]bool)},
		state:    &fakeSimState{running: make(map[string]bool)},
		now:      time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}

	sim := simulator.NewScheduler(env.sensors, env.readings, env.state, simulator.Options{
		TickInterval: time.Hour,
		Now:          func() time.Time { return env.now },
	})
	env.svc = New(env.farms, env.zones, env.sensors, env.readings, sim, Options{
		LatestWindow: time.Hour,
		Now:          func() time.Time { return env.now },
	})
	return env
}

func (e *testEnv) addFarm(id, farmID, name string, members ...models.FarmMember) *models.Farm {
	farm := &models.Farm{ID: id, FarmID: farmID, FarmName: name}
	e.farms.Create(context.Background(), farm, members)
	return farm
}

func (e *testEnv) addZone(id, farmObjectID, zoneID, name string) *models.Zone {
	zone := &models.Zone{ID: id, FarmID: farmObjectID, ZoneID: zoneID, ZoneName: name}
	e.zones.Create(context.Background(), zone)
	return zone
}

func (e *testEnv) addSensor(id, farmObjectID, zoneObjectID, name string, active bool, dataTypes ...string) *models.Sensor {
	if len(dataTypes) == 0 {
		dataTypes = []string{string(models.SoilMoisture)}
	}
	sensor := &models.Sensor{
		ID:         id,
		SensorID:   id,
		SensorName: name,
		DataTypes:  dataTypes,
		IsActive:   active,
		FarmID:     farmObjectID,
		ZoneID:     zoneObjectID,
	}
	e.sensors.sensors = append(e.sensors.sensors, sensor)
	return sensor
}
