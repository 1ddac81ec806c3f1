package services

import (
	"context"
	"fmt"
	"time"

	"lifelog/internal/log"
)

// RolloverProcessor keeps a long-running session current by refreshing it
// on a fixed interval.
type RolloverProcessor struct {
	session  *Session
	interval time.Duration
	logger   *log.Logger
}

func NewRolloverProcessor(session *Session, interval time.Duration, logger *log.Logger) *RolloverProcessor {
	if logger == nil {
		logger = log.Discard()
	}
	return &RolloverProcessor{
		session:  session,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentStreak),
	}
}

// ProcessDue runs one refresh.
func (p *RolloverProcessor) ProcessDue(ctx context.Context) (RefreshResult, error) {
	if p.session == nil {
		return RefreshResult{}, fmt.Errorf("processor not properly initialized")
	}
	res := p.session.Refresh(ctx)
	p.logger.DebugContext(ctx, "Rollover check complete",
		"streaks_advanced", res.StreaksAdvanced,
		"habits_reset", res.HabitsReset)
	return res, nil
}

// Run refreshes every interval until ctx is cancelled. The ticker is
// stopped on return.
func (p *RolloverProcessor) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("rollover interval must be positive, got %s", p.interval)
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.InfoContext(ctx, "Rollover processor started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "Rollover processor stopped")
			return nil
		case <-ticker.C:
			if _, err := p.ProcessDue(ctx); err != nil {
				p.logger.ErrorContext(ctx, "Rollover failed", log.FieldError, err)
			}
		}
	}
}
