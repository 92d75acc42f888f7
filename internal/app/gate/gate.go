package gate

import (
	"sync"
	"time"

	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// Limits configures the gate. Zero values are replaced by defaults.
type Limits struct {
	MaxLength   int           // max sanitized message length in characters
	Window      time.Duration // trailing rate-limit window
	MaxRequests int           // max requests per window
}

// DefaultLimits returns the shipping limits: 2000 chars, 10 requests per
// trailing 60 seconds.
func DefaultLimits() Limits {
	return Limits{
		MaxLength:   2000,
		Window:      60 * time.Second,
		MaxRequests: 10,
	}
}

// Gate validates, sanitizes, and rate-limits outgoing chat text.
// The timestamp window is owned by the Gate value, never module-level state,
// so tests construct isolated instances. Safe for concurrent use.
type Gate struct {
	limits Limits

	mu     sync.Mutex
	stamps []time.Time
}

// New creates a Gate with the given limits.
func New(limits Limits) *Gate {
	def := DefaultLimits()
	if limits.MaxLength <= 0 {
		limits.MaxLength = def.MaxLength
	}
	if limits.Window <= 0 {
		limits.Window = def.Window
	}
	if limits.MaxRequests <= 0 {
		limits.MaxRequests = def.MaxRequests
	}
	return &Gate{limits: limits}
}

// Prepare runs the full gate for one candidate message, in order:
// rate limit, sanitize, length, content. On success the submission is
// recorded in the rate-limit window and the sanitized request returned.
// Rejections record nothing, so a blocked message costs no quota.
func (g *Gate) Prepare(raw, sessionID string, now time.Time) (domain.ChatRequest, error) {
	if err := g.checkRate(now); err != nil {
		return domain.ChatRequest{}, err
	}

	text := Sanitize(raw)

	if len(text) == 0 {
		return domain.ChatRequest{}, domain.ErrEmptyMessage
	}
	if len([]rune(text)) > g.limits.MaxLength {
		return domain.ChatRequest{}, &domain.TooLongError{Max: g.limits.MaxLength}
	}

	if containsBlocked(text) {
		return domain.ChatRequest{}, domain.ErrDisallowedContent
	}

	g.record(now)
	return domain.ChatRequest{ChatInput: text, SessionID: sessionID}, nil
}

// checkRate prunes the window relative to now and rejects when full.
// Pruning always works from now rather than assuming sorted insertion, so
// out-of-order timestamps from interleaved calls stay harmless.
func (g *Gate) checkRate(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := now.Add(-g.limits.Window)
	kept := g.stamps[:0]
	for _, ts := range g.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	g.stamps = kept

	if len(g.stamps) < g.limits.MaxRequests {
		return nil
	}

	oldest := g.stamps[0]
	for _, ts := range g.stamps[1:] {
		if ts.Before(oldest) {
			oldest = ts
		}
	}

	wait := oldest.Add(g.limits.Window).Sub(now)
	retry := int((wait + time.Second - 1) / time.Second)
	if retry < 1 {
		retry = 1
	}
	return &domain.RateLimitedError{RetryAfter: retry}
}

// record adds a successful submission to the window.
func (g *Gate) record(now time.Time) {
	g.mu.Lock()
	g.stamps = append(g.stamps, now)
	g.mu.Unlock()
}

// InWindow returns how many submissions currently count against the limit.
func (g *Gate) InWindow(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	cutoff := now.Add(-g.limits.Window)
	for _, ts := range g.stamps {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}
