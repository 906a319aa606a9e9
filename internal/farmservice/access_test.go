// FilePath: internal/farmservice/access_test.go
package farmservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/farmwatch/internal/models"
)

func TestLatestReadingsScopesToMemberFarms(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addFarm("farm2", "F-002", "South Valley",
		models.FarmMember{FarmID: "farm2", UserID: "user2", Role: models.RoleAdmin})
	env.addSensor("s1", "farm1", "zone1", "north probe", true)
	env.addSensor("s2", "farm2", "zone2", "south probe", true)

	_, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{})
	require.NoError(t, err)

	// The search never leaves the caller's farms even with no filters set.
	assert.Equal(t, []string{"farm1"}, env.sensors.lastScope.FarmIDs)
	assert.Equal(t, []string{"s1"}, env.readings.lastSensorIDs)
}

func TestLatestReadingsForeignFarmNameIsEmptyNotError(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addFarm("farm2", "F-002", "South Valley",
		models.FarmMember{FarmID: "farm2", UserID: "user2", Role: models.RoleAdmin})
	env.addSensor("s2", "farm2", "zone2", "south probe", true)

	// user1 guesses the exact name of a farm they do not belong to.
	readings, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{
		FarmName: "South Valley",
	})
	require.NoError(t, err)
	assert.Empty(t, readings)
	assert.NotNil(t, readings)

	// The intersection collapsed before any sensor or reading lookup.
	assert.Zero(t, env.sensors.listCalls)
	assert.Zero(t, env.readings.latestCalls)
}

func TestLatestReadingsUnknownFarmPatternShortCircuits(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})

	readings, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{
		FarmName: "no such farm",
	})
	require.NoError(t, err)
	assert.Empty(t, readings)

	// An empty farm match returns before memberships are even consulted.
	assert.Zero(t, env.farms.membershipCalls)
	assert.Zero(t, env.sensors.listCalls)
}

func TestLatestReadingsNoMemberships(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addSensor("s1", "farm1", "zone1", "north probe", true)

	readings, err := env.svc.LatestReadings(context.Background(), "stranger", models.ReadingFilters{})
	require.NoError(t, err)
	assert.Empty(t, readings)
	assert.Zero(t, env.sensors.listCalls)
}

func TestLatestReadingsZonePatternNarrowsScope(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addZone("zone1", "farm1", "Z-001", "Greenhouse A")
	env.addZone("zone2", "farm1", "Z-002", "Open Field")
	env.addSensor("s1", "farm1", "zone1", "greenhouse probe", true)
	env.addSensor("s2", "farm1", "zone2", "field probe", true)

	_, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{
		ZoneName: "greenhouse",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"zone1"}, env.sensors.lastScope.ZoneIDs)
	assert.Equal(t, []string{"s1"}, env.readings.lastSensorIDs)
}

func TestLatestReadingsSensorNameSubstringCaseInsensitive(t *testing.T) {
	env := newTestEnv()
	env.addFarm("farm1", "F-001", "North Valley",
		models.FarmMember{FarmID: "farm1", UserID: "user1", Role: models.RoleMember})
	env.addSensor("s1", "farm1", "zone1", "Greenhouse Probe 7", true)
	env.addSensor("s2", "farm1", "zone1", "Field Probe 2", true)

	_, err := env.svc.LatestReadings(context.Background(), "user1", models.ReadingFilters{
		SensorName: "GREENHOUSE",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, env.readings.lastSensorIDs)
}
