package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vet-backoffice/internal/platform/httpclient"
	"vet-backoffice/internal/ports/email"
)

var ErrNotConfigured = errors.New("email api not configured")

// Config de un proveedor transaccional que recibe emails por HTTP/JSON.
type Config struct {
	BaseURL string
	APIKey  string
	// APIKeyHeader por defecto "Authorization" con prefijo Bearer.
	APIKeyHeader string
	From         string
	Timeout      time.Duration
}

type Sender struct {
	client *httpclient.Client
	from   string
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func New(cfg Config, opts ...httpclient.Option) (*Sender, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	header, value := strings.TrimSpace(cfg.APIKeyHeader), cfg.APIKey
	if header == "" {
		header, value = "Authorization", "Bearer "+cfg.APIKey
	}
	c, err := httpclient.New(cfg.BaseURL, cfg.Timeout, append([]httpclient.Option{httpclient.WithHeader(header, value)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Sender{client: c, from: cfg.From}, nil
}

func (s *Sender) Send(ctx context.Context, msg email.Message) error {
	err := s.client.DoJSON(ctx, http.MethodPost, "/emails", sendRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Body,
	}, nil)
	if err != nil {
		return fmt.Errorf("email api send to %s: %w", msg.To, err)
	}
	return nil
}

var _ email.Sender = (*Sender)(nil)
