// Package chat orchestrates a single coaching conversation: it runs outgoing
// text through the request gate, relays it to the coach webhook, sanitizes
// the reply, persists both sides of the exchange, and credits activity.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/app/gate"
	"github.com/fitcoach-app/fitcoach/internal/app/ledger"
	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/metrics"
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
)

const sessionKey = "chat_session_id"

// Sender is the transport that carries one exchange to the coach.
type Sender interface {
	Send(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
}

// Service is the conversation coordinator.
type Service struct {
	db     *sqlite.DB
	gate   *gate.Gate
	relay  Sender
	ledger *ledger.Service
	log    zerolog.Logger
}

// NewService wires the conversation pipeline.
func NewService(db *sqlite.DB, g *gate.Gate, relay Sender, led *ledger.Service, log zerolog.Logger) *Service {
	return &Service{db: db, gate: g, relay: relay, ledger: led, log: log}
}

// SessionID returns the current session identifier, minting and persisting
// one on first use so the webhook sees a stable id across restarts.
func (s *Service) SessionID() (string, error) {
	id, err := s.db.GetAppState(sessionKey)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = domain.NewSessionID(time.Now())
	if err := s.db.SetAppState(sessionKey, id); err != nil {
		return "", err
	}
	return id, nil
}

// Result is one completed exchange plus any rewards it unlocked.
type Result struct {
	Reply     domain.Message
	State     domain.ActivityState
	NewBadges []domain.BadgeDef
	LeveledUp bool
}

// Send runs one full exchange. Activity credit is granted only after the
// webhook reply arrives: a rejected or failed request earns nothing.
func (s *Service) Send(ctx context.Context, text string, now time.Time) (Result, error) {
	sessionID, err := s.SessionID()
	if err != nil {
		return Result{}, err
	}

	req, err := s.gate.Prepare(text, sessionID, now)
	if err != nil {
		metrics.MessagesRejected.WithLabelValues(rejectReason(err)).Inc()
		return Result{}, err
	}

	resp, err := s.relay.Send(ctx, req)
	if err != nil {
		return Result{}, err
	}

	reply := gate.SanitizeReply(resp.Output)

	userMsg := domain.Message{
		ID:        domain.NewMessageID(domain.RoleUser),
		Role:      domain.RoleUser,
		Content:   req.ChatInput,
		Timestamp: now,
	}
	assistantMsg := domain.Message{
		ID:        domain.NewMessageID(domain.RoleAssistant),
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}
	if err := s.db.InsertMessage(userMsg); err != nil {
		return Result{}, err
	}
	if err := s.db.InsertMessage(assistantMsg); err != nil {
		return Result{}, err
	}

	prevLevel := 0
	if cur, err := s.ledger.Current(); err == nil {
		prevLevel = cur.Level
	}

	state, badges, err := s.ledger.RecordActivity(now)
	if err != nil {
		// The exchange itself succeeded; report it with the credit error
		// attached so the caller can still show the reply.
		s.log.Error().Err(err).Msg("activity credit failed")
		return Result{Reply: assistantMsg}, err
	}

	metrics.MessagesSent.Inc()

	return Result{
		Reply:     assistantMsg,
		State:     state,
		NewBadges: badges,
		LeveledUp: prevLevel > 0 && state.Level > prevLevel,
	}, nil
}

// Messages returns the retained conversation history, oldest first.
func (s *Service) Messages() ([]domain.Message, error) {
	return s.db.ListMessages()
}

// Reset clears the conversation and mints a fresh session id. Streaks,
// XP, badges, and goals are deliberately untouched: resetting a chat is
// not a reason to lose progress.
func (s *Service) Reset() (string, error) {
	if err := s.db.ClearMessages(); err != nil {
		return "", err
	}
	id := domain.NewSessionID(time.Now())
	if err := s.db.SetAppState(sessionKey, id); err != nil {
		return "", err
	}
	s.log.Info().Str("session", id).Msg("conversation reset")
	return id, nil
}

func rejectReason(err error) string {
	var tooLong *domain.TooLongError
	var limited *domain.RateLimitedError
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		return "empty"
	case errors.Is(err, domain.ErrDisallowedContent):
		return "content"
	case errors.As(err, &tooLong):
		return "too_long"
	case errors.As(err, &limited):
		return "rate_limited"
	}
	return "other"
}
