// Package domain holds the core FitCoach types.
// The activity ledger drives the reward loop: streaks, XP, levels,
// badges, and weekly goals derived from completed chat exchanges.
package domain

import (
	"fmt"
	"time"
)

// Reward constants. Level is always recomputed from XP, never stored
// independently.
const (
	XPPerMessage = 10
	XPPerLevel   = 100
)

// DateFormat is the calendar-day format used for streak arithmetic.
// Streaks work on whole days; time of day never matters.
const DateFormat = "2006-01-02"

// ActivityState is the full persisted gamification document.
// All counters are monotone; weekly goal progress is the only field that
// ever moves backwards (on the weekly reset).
type ActivityState struct {
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	LastActivityDate string `json:"last_activity_date"` // DateFormat, "" if none

	TotalXP int `json:"total_xp"`
	Level   int `json:"level"`

	Badges      []Badge      `json:"badges"` // unlock order
	WeeklyGoals []WeeklyGoal `json:"weekly_goals"`

	TotalSessions int `json:"total_sessions"`
	TotalMessages int `json:"total_messages"`
}

// LevelForXP derives the level for a given XP total.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// CurrentLevelXP returns XP accumulated within the current level.
func CurrentLevelXP(xp int) int {
	return xp % XPPerLevel
}

// XPForNextLevel returns the cumulative XP needed to reach the next level.
func XPForNextLevel(level int) int {
	return level * XPPerLevel
}

// Badge is an unlocked achievement as stored in the ledger.
type Badge struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Description string   `json:"description"`
	Icon       string    `json:"icon"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// BadgeDef defines a catalog entry with its unlock predicate.
// Predicates must be monotone over ActivityState: once true, always true.
type BadgeDef struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Icon        string                   `json:"icon"`
	Predicate   func(ActivityState) bool `json:"-"`
}

// WeeklyGoal is a clamped progress counter reset on a weekly cadence.
type WeeklyGoal struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Target  int    `json:"target"`
	Current int    `json:"current"`
}

// XPSource categorizes how XP was earned, for the XP history ledger.
type XPSource string

const (
	XPMessage XPSource = "MESSAGE"
)

// XPEntry is one append-only row of the XP history.
type XPEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    XPSource  `json:"source"`
	Amount    int       `json:"amount"`
	Balance   int       `json:"balance"` // running XP total after this grant
}

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes notifications.
type NotificationType string

const (
	NotifyBadge   NotificationType = "badge"
	NotifyLevelUp NotificationType = "level_up"
)

// Notification is a user-facing reward message.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}

// NotificationPolicy caps how often reward notifications are surfaced.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "08:00"
}

// DefaultNotificationPolicy returns the shipping policy: a handful per day,
// nothing at night, and never anything for a streak at risk.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  3,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}

// IsQuietHour reports whether t falls inside the policy's quiet window,
// which may wrap midnight (22:00–08:00).
func (p NotificationPolicy) IsQuietHour(t time.Time) bool {
	startHour, startMin := parseHHMM(p.QuietStart)
	endHour, endMin := parseHHMM(p.QuietEnd)

	mins := t.Hour()*60 + t.Minute()
	start := startHour*60 + startMin
	end := endHour*60 + endMin

	if start > end {
		return mins >= start || mins < end
	}
	return mins >= start && mins < end
}

// parseHHMM parses "HH:MM" into hour and minute.
func parseHHMM(s string) (int, int) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, 0
	}
	return h, m
}
