// FilePath: internal/repository/redisstate/redis.simulator_state.go
package redisstate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/internal/config"
	"github.com/agrisense/farmwatch/internal/errors"
)

// runningKey is a hash of farm id -> "1"/"0". The hash is the durable,
// best-effort mirror of the in-memory scheduler; the in-process timer map
// stays the source of truth for whether generation actually happens.
const runningKey = "farmwatch:simulator:running"

type SimulatorStateRepo struct {
	client *redis.Client
}

func NewSimulatorStateRepository(cfg config.RedisConfig) (*SimulatorStateRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("error connecting to Redis: %w", err)
	}

	nuts.L.Infof("[SimulatorState] Connected to Redis at %s:%d", cfg.Host, cfg.Port)
	return &SimulatorStateRepo{client: client}, nil
}

func (r *SimulatorStateRepo) SetRunning(ctx context.Context, farmID string, running bool) error {
	value := "0"
	if running {
		value = "1"
	}
	if err := r.client.HSet(ctx, runningKey, farmID, value).Err(); err != nil {
		return errors.NewDatabaseError("failed to persist simulator state", err)
	}
	return nil
}

func (r *SimulatorStateRepo) RunningStates(ctx context.Context, farmIDs []string) (map[string]bool, error) {
	states := make(map[string]bool, len(farmIDs))
	if len(farmIDs) == 0 {
		return states, nil
	}

	values, err := r.client.HMGet(ctx, runningKey, farmIDs...).Result()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to read simulator states", err)
	}

	for i, farmID := range farmIDs {
		states[farmID] = values[i] == "1"
	}
	return states, nil
}

func (r *SimulatorStateRepo) Close() error {
	return r.client.Close()
}
