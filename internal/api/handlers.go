package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fitcoach-app/fitcoach/internal/app/ledger"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply     string               `json:"reply"`
	SessionID string               `json:"sessionId"`
	Activity  domain.ActivityState `json:"activity"`
	NewBadges []badgeView          `json:"newBadges,omitempty"`
	LeveledUp bool                 `json:"leveledUp,omitempty"`
}

type badgeView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.chat.Send(r.Context(), req.Message, time.Now())
	if err != nil {
		s.writeChatError(w, err)
		return
	}

	sessionID, _ := s.chat.SessionID()

	badges := make([]badgeView, 0, len(result.NewBadges))
	for _, b := range result.NewBadges {
		badges = append(badges, badgeView{ID: b.ID, Name: b.Name, Description: b.Description, Icon: b.Icon})
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:     result.Reply.Content,
		SessionID: sessionID,
		Activity:  result.State,
		NewBadges: badges,
		LeveledUp: result.LeveledUp,
	})
}

// writeChatError maps pipeline errors onto HTTP statuses. Gate rejections
// are the client's fault; webhook trouble is upstream's.
func (s *Server) writeChatError(w http.ResponseWriter, err error) {
	var limited *domain.RateLimitedError
	var tooLong *domain.TooLongError
	var failed *domain.RequestFailedError

	switch {
	case errors.As(err, &limited):
		w.Header().Set("Retry-After", strconv.Itoa(limited.RetryAfter))
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error": map[string]interface{}{
				"message":    limited.Error(),
				"type":       "rate_limited",
				"retryAfter": limited.RetryAfter,
			},
		})
	case errors.As(err, &tooLong):
		writeError(w, http.StatusBadRequest, tooLong.Error())
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrDisallowedContent):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrWebhookNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &failed):
		writeError(w, http.StatusBadGateway, failed.Error())
	default:
		s.log.Error().Err(err).Msg("chat request failed")
		writeError(w, http.StatusBadGateway, "coach is unreachable")
	}
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.chat.Messages()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sessionID, _ := s.chat.SessionID()
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages":  msgs,
		"sessionId": sessionID,
	})
}

func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	id, err := s.chat.Reset()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": id})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	state, err := s.ledger.Current()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	state, err := s.ledger.Current()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"unlocked": state.Badges,
		"catalog":  ledger.Catalog(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := s.ledger.History(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifs, err := s.ledger.Notifications().Pending(50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifs})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.ledger.Notifications().MarkShown(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
