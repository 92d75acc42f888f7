// Package scheduler runs the weekly goal reset: every Monday at 00:00 UTC
// the weekly goal counters go back to zero. The last reset boundary is
// persisted so a daemon that was down over the rollover still resets on
// the next start.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/app/ledger"
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
)

const lastResetKey = "weekly_reset_at"

// Weekly resets weekly goals on the Monday 00:00 UTC boundary.
type Weekly struct {
	db     *sqlite.DB
	ledger *ledger.Service
	log    zerolog.Logger
}

// NewWeekly creates the weekly reset scheduler.
func NewWeekly(db *sqlite.DB, led *ledger.Service, log zerolog.Logger) *Weekly {
	return &Weekly{db: db, ledger: led, log: log}
}

// Run blocks until ctx is cancelled. Call in a goroutine.
func (w *Weekly) Run(ctx context.Context) {
	// Catch up first: the daemon may have been down over a rollover.
	if err := w.resetIfDue(time.Now()); err != nil {
		w.log.Error().Err(err).Msg("weekly goal reset failed")
	}

	for {
		wait := time.Until(nextMonday(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case now := <-timer.C:
			if err := w.resetIfDue(now); err != nil {
				w.log.Error().Err(err).Msg("weekly goal reset failed")
			}
		}
	}
}

// resetIfDue resets the goals when the current week boundary is newer than
// the persisted one. Idempotent within a week.
func (w *Weekly) resetIfDue(now time.Time) error {
	boundary := weekStart(now)

	stored, err := w.db.GetAppState(lastResetKey)
	if err != nil {
		return err
	}
	if stored != "" {
		last, err := time.Parse(time.RFC3339, stored)
		if err == nil && !last.Before(boundary) {
			return nil
		}
	}

	if _, err := w.ledger.ResetWeeklyGoals(); err != nil {
		return err
	}
	if err := w.db.SetAppState(lastResetKey, boundary.Format(time.RFC3339)); err != nil {
		return err
	}
	w.log.Info().Time("week_start", boundary).Msg("weekly goals reset")
	return nil
}

// weekStart returns the Monday 00:00 UTC that begins the week containing t.
func weekStart(t time.Time) time.Time {
	t = t.UTC().Truncate(24 * time.Hour)
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -daysSinceMonday)
}

// nextMonday returns the next Monday at 00:00 UTC after the given time.
func nextMonday(t time.Time) time.Time {
	t = t.UTC().Truncate(24 * time.Hour)
	daysUntilMonday := (8 - int(t.Weekday())) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	return t.AddDate(0, 0, daysUntilMonday)
}
