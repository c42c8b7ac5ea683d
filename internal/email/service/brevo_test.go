package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/Black1604/cloud1604-solution/internal/config"
	edomain "github.com/Black1604/cloud1604-solution/internal/email/domain"
	sdomain "github.com/Black1604/cloud1604-solution/internal/settings/domain"
)

func TestBrevo_Send(t *testing.T) {
	var gotKey string
	var gotPayload brevoEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := config.Config{BrevoAPIKey: "key-123", BrevoSender: "no-reply@company.com"}
	b := NewBrevo(mockSettings{}, cfg)
	b.endpoint = srv.URL

	err := b.Send(context.Background(), uuid.New(), edomain.Message{
		To:      "john@example.com",
		Subject: "Invoice 2024-001 - Paid Status Update",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if gotKey != "key-123" {
		t.Errorf("api-key = %q", gotKey)
	}
	if len(gotPayload.To) != 1 || gotPayload.To[0]["email"] != "john@example.com" {
		t.Errorf("recipient = %v", gotPayload.To)
	}
	if gotPayload.Sender["email"] != "no-reply@company.com" {
		t.Errorf("sender = %v", gotPayload.Sender)
	}
	if gotPayload.HTMLContent != "<p>html body</p>" {
		t.Errorf("html content = %q", gotPayload.HTMLContent)
	}
}

func TestBrevo_SendWithAttachment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statement.pdf")
	content := []byte("%PDF-1.4 fake")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	var gotPayload brevoEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := config.Config{BrevoAPIKey: "key", BrevoSender: "s@c.com"}
	b := NewBrevo(mockSettings{}, cfg)
	b.endpoint = srv.URL

	err := b.Send(context.Background(), uuid.New(), edomain.Message{
		To:   "john@example.com",
		Text: "see attached",
		Attachments: []edomain.Attachment{
			{Filename: "statement.pdf", Path: path, ContentType: "application/pdf"},
		},
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(gotPayload.Attachment) != 1 {
		t.Fatalf("attachments = %d, want 1", len(gotPayload.Attachment))
	}
	if gotPayload.Attachment[0].Name != "statement.pdf" {
		t.Errorf("attachment name = %q", gotPayload.Attachment[0].Name)
	}
	if gotPayload.Attachment[0].Content != base64.StdEncoding.EncodeToString(content) {
		t.Errorf("attachment content = %q", gotPayload.Attachment[0].Content)
	}
}

func TestBrevo_MissingAttachmentFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the API when an attachment is unreadable")
	}))
	defer srv.Close()

	cfg := config.Config{BrevoAPIKey: "key", BrevoSender: "s@c.com"}
	b := NewBrevo(mockSettings{}, cfg)
	b.endpoint = srv.URL

	err := b.Send(context.Background(), uuid.New(), edomain.Message{
		To:          "john@example.com",
		Attachments: []edomain.Attachment{{Filename: "gone.pdf", Path: "/nonexistent/gone.pdf"}},
	})
	if err == nil {
		t.Fatal("expected error for unreadable attachment")
	}
}

func TestBrevo_TenantOverrideWins(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := config.Config{BrevoAPIKey: "global-key", BrevoSender: "no-reply@company.com"}
	ms := mockSettings{vals: map[string]string{sdomain.KeyBrevoAPIKey: "tenant-key"}}
	b := NewBrevo(ms, cfg)
	b.endpoint = srv.URL

	if err := b.Send(context.Background(), uuid.New(), edomain.Message{To: "a@b.com"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if gotKey != "tenant-key" {
		t.Errorf("api-key = %q, want tenant override", gotKey)
	}
}

func TestBrevo_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := config.Config{BrevoAPIKey: "key", BrevoSender: "s@c.com"}
	b := NewBrevo(mockSettings{}, cfg)
	b.endpoint = srv.URL

	if err := b.Send(context.Background(), uuid.New(), edomain.Message{To: "a@b.com"}); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestBrevo_Unconfigured(t *testing.T) {
	b := NewBrevo(mockSettings{}, config.Config{})
	if err := b.Send(context.Background(), uuid.New(), edomain.Message{To: "a@b.com"}); err == nil {
		t.Fatal("expected error when no api key is configured")
	}
}
