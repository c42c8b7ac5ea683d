package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Black1604/cloud1604-solution/internal/config"
	edomain "github.com/Black1604/cloud1604-solution/internal/email/domain"
	sdomain "github.com/Black1604/cloud1604-solution/internal/settings/domain"
)

// Ensure Brevo implements domain.Sender
var _ edomain.Sender = (*Brevo)(nil)

type Brevo struct {
	cfg      config.Config
	settings sdomain.Service
	http     *http.Client
	endpoint string
}

func NewBrevo(settings sdomain.Service, cfg config.Config) *Brevo {
	return &Brevo{
		settings: settings,
		cfg:      cfg,
		http:     &http.Client{Timeout: 10 * time.Second},
		endpoint: "https://api.brevo.com/v3/smtp/email",
	}
}

type brevoEmail struct {
	To          []map[string]string `json:"to"`
	Sender      map[string]string   `json:"sender"`
	Subject     string              `json:"subject"`
	TextContent string              `json:"textContent"`
	HTMLContent string              `json:"htmlContent,omitempty"`
	Attachment  []brevoAttachment   `json:"attachment,omitempty"`
}

type brevoAttachment struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64
}

func (b *Brevo) Send(ctx context.Context, tenantID uuid.UUID, msg edomain.Message) error {
	apiKey, _ := b.settings.GetString(ctx, sdomain.KeyBrevoAPIKey, &tenantID, b.cfg.BrevoAPIKey)
	sender, _ := b.settings.GetString(ctx, sdomain.KeyBrevoSender, &tenantID, b.cfg.BrevoSender)
	if apiKey == "" || sender == "" {
		return fmt.Errorf("brevo not configured")
	}
	payload := brevoEmail{
		To:          []map[string]string{{"email": msg.To}},
		Sender:      map[string]string{"email": sender},
		Subject:     msg.Subject,
		TextContent: msg.Text,
		HTMLContent: msg.HTML,
	}
	for _, att := range msg.Attachments {
		data, err := os.ReadFile(att.Path)
		if err != nil {
			return fmt.Errorf("read attachment %s: %w", att.Filename, err)
		}
		payload.Attachment = append(payload.Attachment, brevoAttachment{
			Name:    att.Filename,
			Content: base64.StdEncoding.EncodeToString(data),
		})
	}
	buf, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", apiKey)
	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: %s", resp.Status)
	}
	return nil
}
