// FilePath: internal/simulator/simulator.go
package simulator

import (
	"context"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
	"golang.org/x/sync/errgroup"

	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

// SensorLister resolves the sensors a tick writes for.
type SensorLister interface {
	ListByScope(ctx context.Context, scope models.SensorScope) ([]*models.Sensor, error)
}

// ReadingWriter persists generated readings.
type ReadingWriter interface {
	InsertReading(ctx context.Context, reading *models.Reading) error
}

// StateStore mirrors the running flag durably. The flag is best effort:
// a process restart loses the in-memory timers while the flag may still
// read true.
type StateStore interface {
	SetRunning(ctx context.Context, farmID string, running bool) error
	RunningStates(ctx context.Context, farmIDs []string) (map[string]bool, error)
}

// Options carries the scheduler tunables.
type Options struct {
	TickInterval     time.Duration
	WriteConcurrency int
	Now              func() time.Time
}

// Scheduler owns the per-farm recurring timers that generate synthetic
// readings. One goroutine per (farm, data type) ticks independently; the
// farm map is the in-process source of truth for what is actually running.
type Scheduler struct {
	sensors  SensorLister
	readings ReadingWriter
	state    StateStore
	opts     Options

	mu    sync.Mutex
	farms map[string]*farmRun
}

type farmRun struct {
	cancel context.CancelFunc
}

func NewScheduler(sensors SensorLister, readings ReadingWriter, state StateStore, opts Options) *Scheduler {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 10 * time.Second
	}
	if opts.WriteConcurrency <= 0 {
		opts.WriteConcurrency = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{
		sensors:  sensors,
		readings: readings,
		state:    state,
		opts:     opts,
		farms:    make(map[string]*farmRun),
	}
}

// Start registers one recurring timer per data type for the farm and
// persists the running flag. Starting a farm that is already running is a
// state error.
func (s *Scheduler) Start(ctx context.Context, farmID string) error {
	s.mu.Lock()
	if _, ok := s.farms[farmID]; ok {
		s.mu.Unlock()
		return errors.NewSchedulerStateError("simulator already running for this farm", nil)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.farms[farmID] = &farmRun{cancel: cancel}
	s.mu.Unlock()

	for _, dataType := range models.AllDataTypes() {
		go s.runLoop(runCtx, farmID, dataType)
	}

	if err := s.state.SetRunning(ctx, farmID, true); err != nil {
		nuts.L.Warnf("[Simulator] Failed to persist running flag for farm %s: %v", farmID, err)
	}

	nuts.L.Infof("[Simulator] Started simulation for farm %s (every %v)", farmID, s.opts.TickInterval)
	return nil
}

// Stop cancels all per-data-type timers for the farm and persists the
// stopped flag. A tick already in flight completes its current batch;
// cancellation only prevents future ticks.
func (s *Scheduler) Stop(ctx context.Context, farmID string) error {
	s.mu.Lock()
	run, ok := s.farms[farmID]
	if !ok {
		s.mu.Unlock()
		return errors.NewSchedulerStateError("simulator not running for this farm", nil)
	}
	delete(s.farms, farmID)
	s.mu.Unlock()

	run.cancel()

	if err := s.state.SetRunning(ctx, farmID, false); err != nil {
		nuts.L.Warnf("[Simulator] Failed to persist stopped flag for farm %s: %v", farmID, err)
	}

	nuts.L.Infof("[Simulator] Stopped simulation for farm %s", farmID)
	return nil
}

// RunningStates reports the persisted flag per farm. Status intentionally
// reads the durable mirror, not the in-memory map: only one process runs
// timers in this design.
func (s *Scheduler) RunningStates(ctx context.Context, farmIDs []string) (map[string]bool, error) {
	return s.state.RunningStates(ctx, farmIDs)
}

// StopAll cancels every running farm, for shutdown.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for farmID, run := range s.farms {
		run.cancel()
		delete(s.farms, farmID)
	}
}

func (s *Scheduler) runLoop(ctx context.Context, farmID string, dataType models.DataType) {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// The tick runs on a fresh context so an in-flight batch
			// finishes its writes even if the farm is stopped mid-tick.
			s.tick(context.Background(), farmID, dataType)
		}
	}
}

// tick writes one synthetic reading for every active sensor in the farm
// that carries dataType. All readings share the tick timestamp; writes
// fan out with bounded concurrency and fail independently.
func (s *Scheduler) tick(ctx context.Context, farmID string, dataType models.DataType) {
	active := true
	sensors, err := s.sensors.ListByScope(ctx, models.SensorScope{
		FarmIDs:    []string{farmID},
		DataTypes:  []models.DataType{dataType},
		ActiveOnly: &active,
	})
	if err != nil {
		nuts.L.Errorf("[Simulator] Failed to list sensors for farm %s: %v", farmID, err)
		return
	}
	if len(sensors) == 0 {
		return
	}

	now := s.opts.Now()
	g := &errgroup.Group{}
	g.SetLimit(s.opts.WriteConcurrency)

	for _, sensor := range sensors {
		sensor := sensor
		g.Go(func() error {
			reading := &models.Reading{
				SensorID:       sensor.ID,
				SourceSensorID: sensor.ID,
				DataType:       dataType,
				Value:          GenerateValue(dataType),
				Timestamp:      now,
			}
			if err := s.readings.InsertReading(ctx, reading); err != nil {
				// Per-write failures are independent: logged, not retried,
				// and the rest of the batch proceeds.
				nuts.L.Warnf("[Simulator] Failed to write %s reading for sensor %s: %v",
					dataType, sensor.ID, err)
			}
			return nil
		})
	}
	g.Wait()
}
