package scheduler

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/app/ledger"
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ═══════════════════════════════════════════════════════════════════════════
// Boundary Arithmetic Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestNextMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"wednesday",
			time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday",
			time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC),
			time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday rolls a full week",
			time.Date(2026, 3, 16, 0, 0, 1, 0, time.UTC),
			time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextMonday(tt.in); !got.Equal(tt.want) {
				t.Errorf("nextMonday(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	// Any moment mid-week maps back to its Monday.
	wed := time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)
	mon := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if got := weekStart(wed); !got.Equal(mon) {
		t.Errorf("weekStart(wed) = %v, want %v", got, mon)
	}
	if got := weekStart(mon.Add(time.Second)); !got.Equal(mon) {
		t.Errorf("weekStart(monday) = %v, want %v", got, mon)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Reset Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestResetIfDue_FirstRunAndIdempotence(t *testing.T) {
	db := newTestDB(t)
	led := ledger.NewService(db)
	w := NewWeekly(db, led, zerolog.Nop())

	// Earn some goal progress.
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC) // Wednesday
	if _, _, err := led.RecordActivity(now); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}

	if err := w.resetIfDue(now); err != nil {
		t.Fatalf("resetIfDue: %v", err)
	}

	state, err := led.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	for _, g := range state.WeeklyGoals {
		if g.Current != 0 {
			t.Errorf("goal %s = %d, want 0 after reset", g.ID, g.Current)
		}
	}

	// Progress within the same week survives subsequent checks.
	if _, _, err := led.RecordActivity(now.Add(time.Hour)); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if err := w.resetIfDue(now.AddDate(0, 0, 2)); err != nil { // Friday, same week
		t.Fatalf("resetIfDue: %v", err)
	}
	state, _ = led.Current()
	progressed := false
	for _, g := range state.WeeklyGoals {
		if g.Current > 0 {
			progressed = true
		}
	}
	if !progressed {
		t.Error("same-week check wiped goal progress")
	}
}

func TestResetIfDue_NewWeekResets(t *testing.T) {
	db := newTestDB(t)
	led := ledger.NewService(db)
	w := NewWeekly(db, led, zerolog.Nop())

	wed := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	if err := w.resetIfDue(wed); err != nil {
		t.Fatalf("resetIfDue: %v", err)
	}
	if _, _, err := led.RecordActivity(wed); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}

	// Next Monday morning: goals go back to zero, XP stays.
	nextMon := time.Date(2026, 3, 16, 0, 0, 5, 0, time.UTC)
	if err := w.resetIfDue(nextMon); err != nil {
		t.Fatalf("resetIfDue: %v", err)
	}

	state, err := led.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	for _, g := range state.WeeklyGoals {
		if g.Current != 0 {
			t.Errorf("goal %s = %d after week rollover, want 0", g.ID, g.Current)
		}
	}
	if state.TotalXP == 0 {
		t.Error("weekly reset wiped XP")
	}
}
