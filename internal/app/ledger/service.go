package ledger

import (
	"fmt"
	"time"

	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/metrics"
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
)

// Service owns the persisted ActivityState: load, apply, save. The state
// machine itself stays in Apply; the service only moves whole documents
// across the storage boundary and fans out side effects (XP history,
// notifications, metrics).
type Service struct {
	db     *sqlite.DB
	notify *NotificationService
}

// NewService creates a ledger service backed by db.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db, notify: NewNotificationService(db)}
}

// Current loads the persisted state, seeding goal defaults on first use.
func (s *Service) Current() (domain.ActivityState, error) {
	state, err := s.db.LoadActivity()
	if err != nil {
		return state, fmt.Errorf("load activity: %w", err)
	}
	if state.WeeklyGoals == nil {
		state.WeeklyGoals = DefaultWeeklyGoals()
	}
	if state.Level < 1 {
		state.Level = 1
	}
	return state, nil
}

// RecordActivity folds one confirmed exchange into the persisted state.
// Called only after the webhook acknowledged the exchange — a failed
// request earns nothing. Returns the new state and any badges unlocked by
// this activity.
func (s *Service) RecordActivity(now time.Time) (domain.ActivityState, []domain.BadgeDef, error) {
	state, err := s.Current()
	if err != nil {
		return state, nil, err
	}

	prevLevel := state.Level
	next, unlocked := Apply(state, now)

	if err := s.db.SaveActivity(next); err != nil {
		return next, nil, fmt.Errorf("save activity: %w", err)
	}

	if err := s.db.AppendXP(domain.XPEntry{
		Timestamp: now,
		Source:    domain.XPMessage,
		Amount:    domain.XPPerMessage,
		Balance:   next.TotalXP,
	}); err != nil {
		return next, nil, fmt.Errorf("append xp: %w", err)
	}

	for _, def := range unlocked {
		metrics.BadgeUnlocks.WithLabelValues(def.ID).Inc()
		_, _ = s.notify.Create(domain.Notification{
			Type:      domain.NotifyBadge,
			Title:     "Badge unlocked: " + def.Name,
			Body:      def.Icon + " " + def.Description,
			CreatedAt: now,
		})
	}
	if next.Level > prevLevel {
		_, _ = s.notify.Create(domain.Notification{
			Type:      domain.NotifyLevelUp,
			Title:     fmt.Sprintf("Level %d!", next.Level),
			Body:      fmt.Sprintf("You reached level %d. Keep it up!", next.Level),
			CreatedAt: now,
		})
	}

	metrics.StreakDays.Set(float64(next.CurrentStreak))
	metrics.Level.Set(float64(next.Level))
	metrics.TotalXP.Set(float64(next.TotalXP))

	return next, unlocked, nil
}

// ResetWeeklyGoals restores catalog-default goals, leaving everything else
// untouched. Triggered by the weekly scheduler; safe to call at any time.
func (s *Service) ResetWeeklyGoals() (domain.ActivityState, error) {
	state, err := s.Current()
	if err != nil {
		return state, err
	}

	next := ResetWeeklyGoals(state)
	if err := s.db.SaveActivity(next); err != nil {
		return next, fmt.Errorf("save activity: %w", err)
	}
	return next, nil
}

// History returns recent XP grants, newest first.
func (s *Service) History(limit int) ([]domain.XPEntry, error) {
	return s.db.ListXP(limit)
}

// Notifications exposes the reward notification service.
func (s *Service) Notifications() *NotificationService {
	return s.notify
}
