// Package ledger implements the activity ledger: the deterministic state
// machine that folds completed chat exchanges into streaks, XP, levels,
// badges, and weekly goals.
// Design rule: real value, not dark patterns — streaks break silently.
package ledger

import (
	"time"

	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// Weekly goal ids the transition knows how to advance. Goals with any other
// id pass through untouched.
const (
	GoalSessions = "sessions"
	GoalMessages = "messages"
	GoalStreak   = "streak"
)

// DefaultWeeklyGoals returns the catalog-default goal set with zero progress.
func DefaultWeeklyGoals() []domain.WeeklyGoal {
	return []domain.WeeklyGoal{
		{ID: GoalSessions, Name: "Chat Sessions", Target: 5},
		{ID: GoalMessages, Name: "Messages Sent", Target: 20},
		{ID: GoalStreak, Name: "Maintain Streak", Target: 7},
	}
}

// NewState returns the all-zero first-use state.
func NewState() domain.ActivityState {
	return domain.ActivityState{
		Level:       1,
		WeeklyGoals: DefaultWeeklyGoals(),
	}
}

// Apply folds one completed exchange into the state for the given calendar
// day. Pure: no clock reads, no randomness, no I/O. Returns the new state
// and the badge definitions newly satisfied by it, in catalog order.
//
// Streak rule: same day leaves the streak alone, the day after the last
// activity extends it, any larger gap (or no prior activity) resets to 1.
func Apply(state domain.ActivityState, today time.Time) (domain.ActivityState, []domain.BadgeDef) {
	day := today.Format(domain.DateFormat)
	yesterday := today.AddDate(0, 0, -1).Format(domain.DateFormat)
	isNewDay := state.LastActivityDate != day

	next := state
	next.Badges = append([]domain.Badge(nil), state.Badges...)
	next.WeeklyGoals = append([]domain.WeeklyGoal(nil), state.WeeklyGoals...)

	switch {
	case isNewDay && state.LastActivityDate == yesterday:
		next.CurrentStreak = state.CurrentStreak + 1
	case isNewDay:
		next.CurrentStreak = 1
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	if isNewDay {
		next.TotalSessions++
	}
	next.TotalMessages++
	next.TotalXP += domain.XPPerMessage
	next.Level = domain.LevelForXP(next.TotalXP)
	next.LastActivityDate = day

	for i, goal := range next.WeeklyGoals {
		switch goal.ID {
		case GoalMessages:
			next.WeeklyGoals[i].Current = clamp(goal.Current+1, goal.Target)
		case GoalSessions:
			if isNewDay {
				next.WeeklyGoals[i].Current = clamp(goal.Current+1, goal.Target)
			}
		case GoalStreak:
			// Absolute set, not an increment.
			next.WeeklyGoals[i].Current = clamp(next.CurrentStreak, goal.Target)
		}
	}

	unlocked := checkBadges(&next, today)
	return next, unlocked
}

// ResetWeeklyGoals replaces the goal set with catalog defaults, leaving
// every other field untouched. Invoked on the external weekly cadence.
func ResetWeeklyGoals(state domain.ActivityState) domain.ActivityState {
	next := state
	next.WeeklyGoals = DefaultWeeklyGoals()
	return next
}

// checkBadges appends every catalog badge whose predicate is newly satisfied
// by the state. Append-only and idempotent: already-held badges are skipped
// and never reordered.
func checkBadges(state *domain.ActivityState, now time.Time) []domain.BadgeDef {
	held := make(map[string]bool, len(state.Badges))
	for _, b := range state.Badges {
		held[b.ID] = true
	}

	var unlocked []domain.BadgeDef
	for _, def := range Catalog() {
		if held[def.ID] || !def.Predicate(*state) {
			continue
		}
		state.Badges = append(state.Badges, domain.Badge{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			UnlockedAt:  now,
		})
		unlocked = append(unlocked, def)
	}
	return unlocked
}

func clamp(v, target int) int {
	if v > target {
		return target
	}
	return v
}
