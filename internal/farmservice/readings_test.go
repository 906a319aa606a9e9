// FilePath: internal/farmservice/readings_test.go
package farmservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

func TestAddReadingValidation(t *testing.T) {
	env := newTestEnv()

	err := env.svc.AddReading(context.Background(), &models.Reading{
		DataType: models.SoilMoisture,
		Value:    42,
	})
	assert.True(t, errors.IsValidation(err))

	err = env.svc.AddReading(context.Background(), &models.Reading{
		SensorID: "s1",
		DataType: "barometricPressure",
		Value:    42,
	})
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, env.readings.inserted)
}

func TestAddReadingDefaultsTimestampAndSource(t *testing.T) {
	env := newTestEnv()

	reading := &models.Reading{
		SensorID: "s1",
		DataType: models.AirTemperature,
		Value:    21.5,
	}
	require.NoError(t, env.svc.AddReading(context.Background(), reading))

	require.Len(t, env.readings.inserted, 1)
	assert.Equal(t, env.now, reading.Timestamp)
	assert.Equal(t, "s1", reading.SourceSensorID)
}

func TestAddReadingKeepsExplicitTimestamp(t *testing.T) {
	env := newTestEnv()
	ts := env.now.Add(-48 * time.Hour)

	reading := &models.Reading{
		SensorID:  "s1",
		DataType:  models.AirTemperature,
		Value:     21.5,
		Timestamp: ts,
	}
	require.NoError(t, env.svc.AddReading(context.Background(), reading))
	assert.Equal(t, ts, reading.Timestamp)
}

func TestAddReadingsBulkEmpty(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.AddReadingsBulk(context.Background(), nil)
	assert.True(t, errors.IsValidation(err))
}

func TestAddReadingsBulkPartialFailure(t *testing.T) {
	env := newTestEnv()
	env.readings.failIDs["s2"] = true

	readings := []*models.Reading{
		{SensorID: "s1", DataType: models.SoilMoisture, Value: 40, Timestamp: env.now},
		{SensorID: "s2", DataType: models.SoilMoisture, Value: 41, Timestamp: env.now},
		{SensorID: "s3", DataType: models.SoilMoisture, Value: 42, Timestamp: env.now},
	}
	inserted, err := env.svc.AddReadingsBulk(context.Background(), readings)
	require.NoError(t, err)

	// One bad row never aborts the batch.
	assert.Equal(t, 2, inserted)
	for _, reading := range readings {
		assert.Equal(t, reading.SensorID, reading.SourceSensorID)
	}
}

func TestLatestReadingsWindow(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addSensor("s1", "farm1", "zone1", "probe", true)

	_, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{})
	require.NoError(t, err)

	assert.Equal(t, env.now.Add(-time.Hour), env.readings.lastSince)
}

func TestLatestReadingsDropsInactiveSensors(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addSensor("s1", "farm1", "zone1", "live probe", true)
	inactive := env.addSensor("s2", "farm1", "zone1", "retired probe", true)

	env.readings.latest = []*models.Reading{
		{ID: "r1", SensorID: "s1", DataType: models.SoilMoisture, Value: 40, Timestamp: env.now},
		{ID: "r2", SensorID: "s2", DataType: models.SoilMoisture, Value: 50, Timestamp: env.now},
	}

	// s2 was deactivated after its reading landed in the window.
	inactive.IsActive = false

	readings, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{})
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "r1", readings[0].ID)
}

func TestLatestReadingsNewestPerSensorAndType(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addSensor("s1", "farm1", "zone1", "probe a", true)
	env.addSensor("s2", "farm1", "zone1", "probe b", true)

	insert := func(sensorID string, dataType models.DataType, value float64, age time.Duration) {
		require.NoError(t, env.svc.AddReading(context.Background(), &models.Reading{
			SensorID:  sensorID,
			DataType:  dataType,
			Value:     value,
			Timestamp: env.now.Add(-age),
		}))
	}
	insert("s1", models.SoilMoisture, 40, 30*time.Minute)
	insert("s1", models.SoilMoisture, 55, 5*time.Minute)
	insert("s1", models.SoilMoisture, 48, 15*time.Minute)
	insert("s1", models.AirTemperature, 21, 10*time.Minute)
	insert("s2", models.SoilMoisture, 62, 20*time.Minute)
	// Older than the one-hour window, never surfaces.
	insert("s2", models.AirTemperature, 19, 2*time.Hour)

	readings, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{})
	require.NoError(t, err)
	require.Len(t, readings, 3)

	byPair := make(map[string]*models.Reading)
	for _, reading := range readings {
		key := reading.SensorID + "/" + string(reading.DataType)
		_, dup := byPair[key]
		require.False(t, dup, "pair %s returned twice", key)
		byPair[key] = reading
	}
	assert.Equal(t, 55.0, byPair["s1/soilMoisture"].Value)
	assert.Equal(t, env.now.Add(-5*time.Minute), byPair["s1/soilMoisture"].Timestamp)
	assert.Equal(t, 21.0, byPair["s1/airTemperature"].Value)
	assert.Equal(t, 62.0, byPair["s2/soilMoisture"].Value)
}

func TestLatestReadingsDataTypePassthrough(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addSensor("s1", "farm1", "zone1", "probe", true)

	_, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{
		DataTypes: []string{"soilMoisture", "windSpeed"},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.DataType{models.SoilMoisture, models.WindSpeed}, env.readings.lastDataTypes)
}
