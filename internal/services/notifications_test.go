package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestWebhookNotifierPublish(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	if err := n.Publish(context.Background(), "Appointment confirmed", "see you tomorrow", "jane@example.com"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if received["recipient"] != "jane@example.com" || received["subject"] != "Appointment confirmed" {
		t.Errorf("unexpected payload: %v", received)
	}
}

func TestWebhookNotifierNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	if err := n.Publish(context.Background(), "s", "b", "r"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

type failingNotifier struct{ calls int }

func (n *failingNotifier) Publish(context.Context, string, string, string) error {
	n.calls++
	return errors.New("broker down")
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	n := &failingNotifier{}
	d := NewDispatcher(n, zerolog.Nop())

	// Dispatch never surfaces the backend error to the caller.
	d.Dispatch("subject", "body", "someone@example.com")
	d.Wait()
	if n.calls != 1 {
		t.Errorf("expected 1 publish attempt, got %d", n.calls)
	}
}

func TestDispatcherSkipsEmptyRecipient(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(n, zerolog.Nop())

	d.Dispatch("subject", "body", "")
	d.Wait()
	if len(n.all()) != 0 {
		t.Error("empty recipient must be dropped")
	}
}
