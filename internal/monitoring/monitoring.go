package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Service records operational events (simulator transitions, cascade
// deletions) with per-event counters.
type Service struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{counters: make(map[string]int64)}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.mu.Lock()
	s.counters[eventName]++
	s.mu.Unlock()

	nuts.L.Infof("[Monitoring] Event %s recorded at %v with labels: %v", eventName, time.Now(), labels)
}

// EventCount returns how often an event was recorded in this process.
func (s *Service) EventCount(eventName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[eventName]
}
