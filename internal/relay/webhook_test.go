package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/relay"
)

func request() domain.ChatRequest {
	return domain.ChatRequest{
		ChatInput: "How many rest days per week?",
		SessionID: "session_1700000000000_abc1234",
	}
}

func TestSend_Success(t *testing.T) {
	var got domain.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.ChatResponse{
			Output:    "Two rest days works well for most people.",
			SessionID: got.SessionID,
		})
	}))
	defer srv.Close()

	c := relay.New(srv.URL, 5*time.Second, zerolog.Nop())
	resp, err := c.Send(context.Background(), request())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.ChatInput != "How many rest days per week?" {
		t.Errorf("webhook saw chatInput = %q", got.ChatInput)
	}
	if resp.Output != "Two rest days works well for most people." {
		t.Errorf("Output = %q", resp.Output)
	}
	if resp.SessionID != got.SessionID {
		t.Errorf("SessionID = %q, want echo of %q", resp.SessionID, got.SessionID)
	}
}

func TestSend_WireFieldNames(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"output": "ok"})
	}))
	defer srv.Close()

	c := relay.New(srv.URL, 5*time.Second, zerolog.Nop())
	if _, err := c.Send(context.Background(), request()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if _, ok := raw["chatInput"]; !ok {
		t.Errorf("payload missing chatInput: %v", raw)
	}
	if _, ok := raw["sessionId"]; !ok {
		t.Errorf("payload missing sessionId: %v", raw)
	}
}

func TestSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := relay.New(srv.URL, 5*time.Second, zerolog.Nop())
	_, err := c.Send(context.Background(), request())

	var failed *domain.RequestFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error = %v, want RequestFailedError", err)
	}
	if failed.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", failed.StatusCode)
	}
}

func TestSend_NotConfigured(t *testing.T) {
	c := relay.New("", 5*time.Second, zerolog.Nop())

	if c.Configured() {
		t.Error("Configured() = true with empty URL")
	}
	if _, err := c.Send(context.Background(), request()); !errors.Is(err, domain.ErrWebhookNotConfigured) {
		t.Errorf("error = %v, want ErrWebhookNotConfigured", err)
	}
}

func TestSend_SingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := relay.New(srv.URL, 5*time.Second, zerolog.Nop())
	_, _ = c.Send(context.Background(), request())

	if calls != 1 {
		t.Errorf("webhook called %d times, want exactly 1", calls)
	}
}

func TestSend_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c := relay.New(srv.URL, 5*time.Second, zerolog.Nop())
	if _, err := c.Send(ctx, request()); err == nil {
		t.Error("Send with cancelled context should fail")
	}
}
