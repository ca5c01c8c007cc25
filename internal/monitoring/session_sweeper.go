package monitoring

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionPurger drops expired sessions and reports how many went.
type SessionPurger interface {
	PurgeExpired() int
}

// SessionSweeper periodically removes expired sessions.
type SessionSweeper struct {
	sessions SessionPurger
	cron     *cron.Cron
}

// NewSessionSweeper creates a sweeper running on a standard cron spec or
// descriptor such as "@every 10m".
func NewSessionSweeper(sessions SessionPurger, schedule string) (*SessionSweeper, error) {
	s := &SessionSweeper{
		sessions: sessions,
		cron:     cron.New(),
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Run starts the background schedule.
func (s *SessionSweeper) Run() {
	log.Info().Msg("Starting session sweeper...")
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to end.
func (s *SessionSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	log.Info().Msg("Stopping session sweeper.")
}

// Sweep purges expired sessions once.
func (s *SessionSweeper) Sweep() {
	if removed := s.sessions.PurgeExpired(); removed > 0 {
		log.Info().Int("removed", removed).Msg("Purged expired sessions")
	}
}
