// FilePath: internal/models/models.simulator.go
package models

// FarmSimulatorStatus is the per-farm simulator state reported to a user.
// IsRunning reflects the persisted flag, which is a best-effort mirror of
// the in-memory timers; only one process runs timers in this design.
type FarmSimulatorStatus struct {
	FarmObjectID string `json:"farm_object_id"`
	FarmName     string `json:"farm_name"`
	IsRunning    bool   `json:"is_running"`
	IsAdmin      bool   `json:"is_admin"`
}
