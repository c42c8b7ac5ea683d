package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service provides typed access to application/tenant settings with override.
type Service interface {
	GetString(ctx context.Context, key string, tenantID *uuid.UUID, def string) (string, error)
	GetDuration(ctx context.Context, key string, tenantID *uuid.UUID, def time.Duration) (time.Duration, error)
	GetInt(ctx context.Context, key string, tenantID *uuid.UUID, def int) (int, error)
}

// Repository abstracts storage of app settings.
type Repository interface {
	// Get returns (value, found, err) for an exact key and optional tenant.
	Get(ctx context.Context, key string, tenantID *uuid.UUID) (string, bool, error)
	// Upsert stores a key for an optional tenant.
	Upsert(ctx context.Context, key string, tenantID *uuid.UUID, value string, secret bool) error
}

// Common keys. All support tenant overrides with config defaults.
const (
	KeyEmailProvider = "email.provider" // values: smtp | brevo
	KeySMTPHost      = "email.smtp.host"
	KeySMTPPort      = "email.smtp.port"
	KeySMTPUsername  = "email.smtp.username"
	KeySMTPPassword  = "email.smtp.password"
	KeySMTPFrom      = "email.smtp.from"
	KeyBrevoAPIKey   = "email.brevo.api_key"
	KeyBrevoSender   = "email.brevo.sender"

	KeyCompanyName  = "company.name"
	KeyCompanyEmail = "company.email"
	KeyCompanyPhone = "company.phone"
	KeyCompanyLogo  = "company.logo_url"

	// Bank details rendered into payment-instruction blocks.
	KeyBankName          = "bank.name"
	KeyBankAccountName   = "bank.account_name"
	KeyBankAccountNumber = "bank.account_number"

	// Email queue pacing. Window uses a Go duration string (e.g. "1m").
	KeyQueueRateLimit  = "email.queue.rate_limit"
	KeyQueueRateWindow = "email.queue.rate_window"
)
