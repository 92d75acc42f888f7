package ledger

import "github.com/fitcoach-app/fitcoach/internal/domain"

// Catalog returns the full badge catalog in unlock-check order.
// Fixed at process start; predicates are monotone over ActivityState, so a
// badge that would unlock today also unlocks on every later evaluation.
func Catalog() []domain.BadgeDef {
	return []domain.BadgeDef{
		{
			ID: "first-chat", Name: "First Steps", Icon: "🎯",
			Description: "Started your fitness journey",
			Predicate:   func(s domain.ActivityState) bool { return s.TotalMessages >= 1 },
		},
		{
			ID: "streak-3", Name: "On Fire", Icon: "🔥",
			Description: "3 day streak",
			Predicate:   func(s domain.ActivityState) bool { return s.CurrentStreak >= 3 },
		},
		{
			ID: "streak-7", Name: "Week Warrior", Icon: "💪",
			Description: "7 day streak",
			Predicate:   func(s domain.ActivityState) bool { return s.CurrentStreak >= 7 },
		},
		{
			ID: "streak-30", Name: "Dedicated", Icon: "🏆",
			Description: "30 day streak",
			Predicate:   func(s domain.ActivityState) bool { return s.CurrentStreak >= 30 },
		},
		{
			ID: "messages-10", Name: "Conversationalist", Icon: "💬",
			Description: "Sent 10 messages",
			Predicate:   func(s domain.ActivityState) bool { return s.TotalMessages >= 10 },
		},
		{
			ID: "messages-50", Name: "Engaged", Icon: "🗣️",
			Description: "Sent 50 messages",
			Predicate:   func(s domain.ActivityState) bool { return s.TotalMessages >= 50 },
		},
		{
			ID: "level-5", Name: "Rising Star", Icon: "⭐",
			Description: "Reached level 5",
			Predicate:   func(s domain.ActivityState) bool { return s.Level >= 5 },
		},
		{
			ID: "level-10", Name: "Fitness Pro", Icon: "🌟",
			Description: "Reached level 10",
			Predicate:   func(s domain.ActivityState) bool { return s.Level >= 10 },
		},
	}
}

// BadgeByID looks up a catalog entry. Total: unknown ids return ok=false
// instead of panicking.
func BadgeByID(id string) (domain.BadgeDef, bool) {
	for _, def := range Catalog() {
		if def.ID == id {
			return def, true
		}
	}
	return domain.BadgeDef{}, false
}
