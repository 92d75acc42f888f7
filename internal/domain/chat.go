package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message roles. The gateway only ever produces these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat history record.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the exact wire shape sent to the coach webhook.
type ChatRequest struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

// ChatResponse is the webhook's reply.
type ChatResponse struct {
	Output    string `json:"output"`
	SessionID string `json:"sessionId"`
}

// MaxHistoryMessages caps the persisted chat history.
const MaxHistoryMessages = 50

// NewSessionID mints an opaque conversation identifier:
// session_<epochMillis>_<7 alphanumerics>.
func NewSessionID(now time.Time) string {
	suffix := uuid.New().String()
	// Strip hyphens so the suffix is purely alphanumeric.
	clean := make([]byte, 0, 7)
	for i := 0; i < len(suffix) && len(clean) < 7; i++ {
		if suffix[i] != '-' {
			clean = append(clean, suffix[i])
		}
	}
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), clean)
}

// NewMessageID mints a unique message identifier.
func NewMessageID(role string) string {
	return fmt.Sprintf("%s_%s", role, uuid.New().String())
}
