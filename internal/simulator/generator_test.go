// FilePath: internal/simulator/generator_test.go
package simulator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrisense/farmwatch/internal/models"
)

func TestGenerateValueRanges(t *testing.T) {
	ranges := map[models.DataType]struct {
		min, max float64
		whole    bool
	}{
		models.SoilMoisture:     {5, 90, true},
		models.SoilTemperature:  {5, 50, false},
		models.AirTemperature:   {-5, 50, false},
		models.RelativeHumidity: {20, 90, true},
		models.LightIntensity:   {5, 10000, true},
		models.WindSpeed:        {5, 20, false},
	}

	for dataType, bounds := range ranges {
		for i := 0; i < 500; i++ {
			v := GenerateValue(dataType)
			assert.GreaterOrEqual(t, v, bounds.min, "%s below range", dataType)
			assert.LessOrEqual(t, v, bounds.max, "%s above range", dataType)
			if bounds.whole {
				assert.Equal(t, math.Trunc(v), v, "%s should be a whole number", dataType)
			}
		}
	}
}

func TestGenerateValueUnknownType(t *testing.T) {
	assert.Zero(t, GenerateValue(models.DataType("moonPhase")))
}
