// Package schedule runs plans on recurring cron schedules. Results
// flow into the executor's bounded history like any other execution.
package schedule

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/harun/kestrel/pkg/planner"
)

// Scheduler triggers plan executions from cron expressions.
type Scheduler struct {
	executor *planner.Executor
	cron     *cron.Cron

	mu      sync.Mutex
	entries map[cron.EntryID]string
}

// New creates a scheduler bound to executor. Schedules use the
// standard five-field cron format.
func New(executor *planner.Executor) *Scheduler {
	return &Scheduler{
		executor: executor,
		cron:     cron.New(),
		entries:  make(map[cron.EntryID]string),
	}
}

// Add schedules plan to run per spec and returns the entry id.
func (s *Scheduler) Add(spec string, plan *planner.Plan) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		result := s.executor.Execute(context.Background(), plan)
		log.Info().Str("plan", result.PlanID).Bool("success", result.Success).
			Msg("Scheduled plan executed")
	})
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.entries[id] = plan.ID
	s.mu.Unlock()

	log.Info().Str("spec", spec).Str("plan", plan.ID).Msg("Plan scheduled")
	return id, nil
}

// Remove cancels a scheduled plan.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len returns the number of scheduled plans.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start begins triggering schedules in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts triggering and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
