package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/Black1604/cloud1604-solution/internal/config"
	edomain "github.com/Black1604/cloud1604-solution/internal/email/domain"
	sdomain "github.com/Black1604/cloud1604-solution/internal/settings/domain"
)

// Ensure SMTP implements domain.Sender
var _ edomain.Sender = (*SMTP)(nil)

type SMTP struct {
	cfg      config.Config
	settings sdomain.Service
}

func NewSMTP(settings sdomain.Service, cfg config.Config) *SMTP {
	return &SMTP{settings: settings, cfg: cfg}
}

func (s *SMTP) Send(ctx context.Context, tenantID uuid.UUID, msg edomain.Message) error {
	host, _ := s.settings.GetString(ctx, sdomain.KeySMTPHost, &tenantID, s.cfg.SMTPHost)
	from, _ := s.settings.GetString(ctx, sdomain.KeySMTPFrom, &tenantID, s.cfg.SMTPFrom)
	username, _ := s.settings.GetString(ctx, sdomain.KeySMTPUsername, &tenantID, s.cfg.SMTPUsername)
	password, _ := s.settings.GetString(ctx, sdomain.KeySMTPPassword, &tenantID, s.cfg.SMTPPassword)
	port, _ := s.settings.GetInt(ctx, sdomain.KeySMTPPort, &tenantID, s.cfg.SMTPPort)

	raw, err := buildMIME(from, msg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return smtp.SendMail(addr, auth, from, []string{msg.To}, raw)
}

// buildMIME assembles a multipart message: multipart/alternative for the text
// and HTML bodies, wrapped in multipart/mixed when attachments are present.
func buildMIME(from string, msg edomain.Message) ([]byte, error) {
	var buf bytes.Buffer

	alt := &bytes.Buffer{}
	altWriter := multipart.NewWriter(alt)
	if err := writeBodyPart(altWriter, "text/plain; charset=utf-8", msg.Text); err != nil {
		return nil, err
	}
	if msg.HTML != "" {
		if err := writeBodyPart(altWriter, "text/html; charset=utf-8", msg.HTML); err != nil {
			return nil, err
		}
	}
	if err := altWriter.Close(); err != nil {
		return nil, err
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", altWriter.Boundary())
		buf.Write(alt.Bytes())
		return buf.Bytes(), nil
	}

	mixed := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())
	part, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("multipart/alternative; boundary=%q", altWriter.Boundary())},
	})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(alt.Bytes()); err != nil {
		return nil, err
	}
	for _, att := range msg.Attachments {
		if err := writeAttachment(mixed, att); err != nil {
			return nil, err
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBodyPart(w *multipart.Writer, contentType, body string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"8bit"},
	})
	if err != nil {
		return err
	}
	_, err = part.Write([]byte(body))
	return err
}

func writeAttachment(w *multipart.Writer, att edomain.Attachment) error {
	data, err := os.ReadFile(att.Path)
	if err != nil {
		return fmt.Errorf("read attachment %s: %w", att.Filename, err)
	}
	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {"attachment; filename=" + strconv.Quote(att.Filename)},
	})
	if err != nil {
		return err
	}
	enc := base64.StdEncoding.EncodeToString(data)
	// wrap base64 at 76 columns per RFC 2045
	for len(enc) > 0 {
		n := 76
		if len(enc) < n {
			n = len(enc)
		}
		if _, err := part.Write([]byte(enc[:n] + "\r\n")); err != nil {
			return err
		}
		enc = enc[n:]
	}
	return nil
}
