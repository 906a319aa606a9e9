// FilePath: internal/farmservice/farmservice.go
package farmservice

import (
	"time"

	"github.com/agrisense/farmwatch/internal/cleanup"
	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/repository"
	"github.com/agrisense/farmwatch/internal/simulator"
)

// FarmService contains all repositories and service-wide dependencies
type FarmService struct {
	Farms     repository.FarmRepository
	Zones     repository.ZoneRepository
	Sensors   repository.SensorRepository
	Readings  repository.ReadingRepository
	Simulator *simulator.Scheduler
	Cleanup   *cleanup.CleanupService

	latestWindow time.Duration
	now          func() time.Time
}

// Options carries service tunables.
type Options struct {
	// LatestWindow is the trailing window of the live view; readings older
	// than this never appear as "latest".
	LatestWindow time.Duration
	Now          func() time.Time
}

// New creates a new FarmService instance
func New(
	farms repository.FarmRepository,
	zones repository.ZoneRepository,
	sensors repository.SensorRepository,
	readings repository.ReadingRepository,
	sim *simulator.Scheduler,
	opts Options,
) *FarmService {
	if opts.LatestWindow <= 0 {
		opts.LatestWindow = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	svc := &FarmService{
		Farms:        farms,
		Zones:        zones,
		Sensors:      sensors,
		Readings:     readings,
		Simulator:    sim,
		latestWindow: opts.LatestWindow,
		now:          opts.Now,
	}
	svc.Cleanup = cleanup.New(farms, zones, sensors, readings)
	return svc
}

// Validate checks if all required repositories are initialized
func (s *FarmService) Validate() error {
	if s.Farms == nil {
		return ErrMissingRepository("farms")
	}
	if s.Zones == nil {
		return ErrMissingRepository("zones")
	}
	if s.Sensors == nil {
		return ErrMissingRepository("sensors")
	}
	if s.Readings == nil {
		return ErrMissingRepository("readings")
	}
	if s.Simulator == nil {
		return ErrMissingRepository("simulator")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
