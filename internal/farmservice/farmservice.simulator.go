// FilePath: internal/farmservice/farmservice.simulator.go
package farmservice

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/internal/models"
)

// SimulatorStatus lists the persisted running flag for every farm the
// caller belongs to, together with whether the caller administers it.
func (s *FarmService) SimulatorStatus(ctx context.Context, userID string) ([]models.FarmSimulatorStatus, error) {
	farms, err := s.Farms.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(farms) == 0 {
		return []models.FarmSimulatorStatus{}, nil
	}

	farmIDs := make([]string, len(farms))
	for i, farm := range farms {
		farmIDs[i] = farm.ID
	}

	states, err := s.Simulator.RunningStates(ctx, farmIDs)
	if err != nil {
		return nil, err
	}

	memberships, err := s.Farms.MembershipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles := make(map[string]models.MemberRole, len(memberships))
	for _, m := range memberships {
		roles[m.FarmID] = m.Role
	}

	statuses := make([]models.FarmSimulatorStatus, len(farms))
	for i, farm := range farms {
		statuses[i] = models.FarmSimulatorStatus{
			FarmObjectID: farm.ID,
			FarmName:     farm.FarmName,
			IsRunning:    states[farm.ID],
			IsAdmin:      roles[farm.ID] == models.RoleAdmin,
		}
	}
	return statuses, nil
}

// StartSimulator starts synthetic generation for a farm. Admin only.
func (s *FarmService) StartSimulator(ctx context.Context, userID, farmID string) error {
	farm, err := s.Farms.Get(ctx, farmID)
	if err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, farm.ID, userID); err != nil {
		return err
	}

	if err := s.Simulator.Start(ctx, farm.ID); err != nil {
		return err
	}
	nuts.L.Infof("[FarmService] Simulator started for farm %s by user %s", farm.ID, userID)
	return nil
}

// StopSimulator stops synthetic generation for a farm. Admin only.
func (s *FarmService) StopSimulator(ctx context.Context, userID, farmID string) error {
	farm, err := s.Farms.Get(ctx, farmID)
	if err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, farm.ID, userID); err != nil {
		return err
	}

	if err := s.Simulator.Stop(ctx, farm.ID); err != nil {
		return err
	}
	nuts.L.Infof("[FarmService] Simulator stopped for farm %s by user %s", farm.ID, userID)
	return nil
}
