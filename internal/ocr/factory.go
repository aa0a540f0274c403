package ocr

import (
	"context"
	"fmt"
	"time"
)

// Config selects and configures a text-detection provider.
type Config struct {
	Provider string // "textract" (default) or "http"

	// Textract settings
	Region    string
	AccessKey string
	SecretKey string

	// HTTP provider settings
	HTTPBaseURL string
	HTTPAPIKey  string
	HTTPTimeout time.Duration
}

// NewClient creates a Client for the configured provider.
// Parameters:
//   - ctx: context for client construction.
//   - cfg: provider selection and settings.
// Returns:
//   - Client: initialized text-detection client.
//   - error: non-nil if the provider is unknown or cannot be constructed.
func NewClient(ctx context.Context, cfg *Config) (Client, error) {
	switch cfg.Provider {
	case "", "textract":
		return NewTextractClient(ctx, &TextractConfig{
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	case "http":
		return NewHTTPClient(&HTTPConfig{
			BaseURL: cfg.HTTPBaseURL,
			APIKey:  cfg.HTTPAPIKey,
			Timeout: cfg.HTTPTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown ocr provider %q", cfg.Provider)
	}
}
