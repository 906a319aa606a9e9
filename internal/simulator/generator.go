// FilePath: internal/simulator/generator.go
package simulator

import (
	"math"
	"math/rand/v2"

	"github.com/agrisense/farmwatch/internal/models"
)

// GenerateValue produces one synthetic measurement for a data type, drawn
// from the bounded range of that type. Integer-valued types return whole
// numbers; the rest are rounded to one decimal.
func GenerateValue(dataType models.DataType) float64 {
	switch dataType {
	case models.SoilMoisture:
		return float64(rand.IntN(86) + 5) // 5..90 %
	case models.SoilTemperature:
		return round1(5 + rand.Float64()*45) // 5..50 C
	case models.AirTemperature:
		return round1(-5 + rand.Float64()*55) // -5..50 C
	case models.RelativeHumidity:
		return float64(rand.IntN(71) + 20) // 20..90 %
	case models.LightIntensity:
		return float64(rand.IntN(9996) + 5) // 5..10000 lux
	case models.WindSpeed:
		return round1(5 + rand.Float64()*15) // 5..20 m/s
	}
	return 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
