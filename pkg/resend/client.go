// Package resend wraps the Resend SDK behind the small interface the contact
// flow needs, so tests can swap in a fake.
package resend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	resendsdk "github.com/resend/resend-go/v2"
)

// DefaultBaseURL is the public Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// SendParams are the fields of a single outbound email.
type SendParams struct {
	From    string
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is the provider's acknowledgement of an accepted email.
type SendResult struct {
	ID string
}

// Client is the subset of the Resend API used by the contact flow.
type Client interface {
	// Configured reports whether an API key is present.
	Configured() bool
	// Send submits one email for delivery.
	Send(ctx context.Context, params SendParams) (SendResult, error)
}

var (
	// ErrNotConfigured is returned when no API key has been set.
	ErrNotConfigured = errors.New("resend: not configured")
	// ErrSendFailed wraps every provider or transport failure of Send.
	ErrSendFailed = errors.New("resend: send failed")
)

// RealClient is the SDK-backed implementation of Client.
type RealClient struct {
	APIKey  string
	BaseURL string
	sdk     *resendsdk.Client
}

// NewClient creates a RealClient. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL string) *RealClient {
	apiKey = strings.TrimSpace(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	sdk := resendsdk.NewCustomClient(&http.Client{Timeout: 30 * time.Second}, apiKey)
	// The SDK resolves "emails" against BaseURL, so it needs the trailing slash.
	if u, err := url.Parse(baseURL + "/"); err == nil {
		sdk.BaseURL = u
	}
	return &RealClient{APIKey: apiKey, BaseURL: baseURL, sdk: sdk}
}

var _ Client = (*RealClient)(nil)

func (c *RealClient) Configured() bool {
	return c.APIKey != ""
}

// Send posts params to /emails. It makes exactly one attempt.
func (c *RealClient) Send(ctx context.Context, params SendParams) (SendResult, error) {
	if c.APIKey == "" {
		return SendResult{}, ErrNotConfigured
	}

	sent, err := c.sdk.Emails.SendWithContext(ctx, &resendsdk.SendEmailRequest{
		From:    params.From,
		To:      params.To,
		Subject: params.Subject,
		Html:    params.HTML,
		ReplyTo: params.ReplyTo,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if sent == nil || sent.Id == "" {
		return SendResult{}, fmt.Errorf("%w: empty id in response", ErrSendFailed)
	}
	return SendResult{ID: sent.Id}, nil
}
