package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// Activity KV keys. The scalar half of ActivityState lives in the activity
// table; badges and goals have their own tables.
const (
	keyStreakCurrent = "streak_current"
	keyStreakLongest = "streak_longest"
	keyLastActivity  = "last_activity_date"
	keyTotalXP       = "total_xp"
	keyTotalSessions = "total_sessions"
	keyTotalMessages = "total_messages"
)

// LoadActivity reads the whole persisted ActivityState. A fresh database
// yields the zero document: no streak, level 1, catalog-default goals are
// the caller's concern (the ledger seeds them on first save).
func (d *DB) LoadActivity() (domain.ActivityState, error) {
	var state domain.ActivityState

	scalars := map[string]*int{
		keyStreakCurrent: &state.CurrentStreak,
		keyStreakLongest: &state.LongestStreak,
		keyTotalXP:       &state.TotalXP,
		keyTotalSessions: &state.TotalSessions,
		keyTotalMessages: &state.TotalMessages,
	}
	for key, dst := range scalars {
		val, err := d.getActivity(key)
		if err != nil {
			return state, fmt.Errorf("get %s: %w", key, err)
		}
		if val != "" {
			*dst, _ = strconv.Atoi(val)
		}
	}

	last, err := d.getActivity(keyLastActivity)
	if err != nil {
		return state, fmt.Errorf("get %s: %w", keyLastActivity, err)
	}
	state.LastActivityDate = last
	state.Level = domain.LevelForXP(state.TotalXP)

	state.Badges, err = d.listBadges()
	if err != nil {
		return state, fmt.Errorf("list badges: %w", err)
	}

	state.WeeklyGoals, err = d.listGoals()
	if err != nil {
		return state, fmt.Errorf("list goals: %w", err)
	}

	return state, nil
}

// SaveActivity persists the whole ActivityState in one transaction.
// Badges are insert-only (the set never shrinks); goals are rewritten.
func (d *DB) SaveActivity(state domain.ActivityState) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	pairs := map[string]string{
		keyStreakCurrent: strconv.Itoa(state.CurrentStreak),
		keyStreakLongest: strconv.Itoa(state.LongestStreak),
		keyLastActivity:  state.LastActivityDate,
		keyTotalXP:       strconv.Itoa(state.TotalXP),
		keyTotalSessions: strconv.Itoa(state.TotalSessions),
		keyTotalMessages: strconv.Itoa(state.TotalMessages),
	}
	for k, v := range pairs {
		if _, err := tx.Exec(
			`INSERT INTO activity (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, k, v,
		); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}

	for _, b := range state.Badges {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO badges (id, name, description, icon, unlocked_at)
			 VALUES (?, ?, ?, ?, ?)`,
			b.ID, b.Name, b.Description, b.Icon, b.UnlockedAt.Unix(),
		); err != nil {
			return fmt.Errorf("save badge %s: %w", b.ID, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM weekly_goals`); err != nil {
		return fmt.Errorf("clear goals: %w", err)
	}
	for i, g := range state.WeeklyGoals {
		if _, err := tx.Exec(
			`INSERT INTO weekly_goals (id, name, target, current, position)
			 VALUES (?, ?, ?, ?, ?)`,
			g.ID, g.Name, g.Target, g.Current, i,
		); err != nil {
			return fmt.Errorf("save goal %s: %w", g.ID, err)
		}
	}

	return tx.Commit()
}

func (d *DB) getActivity(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM activity WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// listBadges returns unlocked badges in unlock order.
func (d *DB) listBadges() ([]domain.Badge, error) {
	rows, err := d.db.Query(
		`SELECT id, name, description, icon, unlocked_at FROM badges ORDER BY rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		var unlocked int64
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &unlocked); err != nil {
			return nil, err
		}
		b.UnlockedAt = time.Unix(unlocked, 0).UTC()
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

func (d *DB) listGoals() ([]domain.WeeklyGoal, error) {
	rows, err := d.db.Query(
		`SELECT id, name, target, current FROM weekly_goals ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.WeeklyGoal
	for rows.Next() {
		var g domain.WeeklyGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.Target, &g.Current); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// ─── XP Ledger ──────────────────────────────────────────────────────────────

// AppendXP records one XP grant in the append-only history.
func (d *DB) AppendXP(e domain.XPEntry) error {
	_, err := d.db.Exec(
		`INSERT INTO xp_ledger (timestamp, source, amount, balance) VALUES (?, ?, ?, ?)`,
		e.Timestamp.Unix(), string(e.Source), e.Amount, e.Balance,
	)
	return err
}

// ListXP returns the most recent XP grants, newest first.
func (d *DB) ListXP(limit int) ([]domain.XPEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.Query(
		`SELECT id, timestamp, source, amount, balance
		 FROM xp_ledger ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.XPEntry
	for rows.Next() {
		var e domain.XPEntry
		var ts int64
		var src string
		if err := rows.Scan(&e.ID, &ts, &src, &e.Amount, &e.Balance); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(ts, 0).UTC()
		e.Source = domain.XPSource(src)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
