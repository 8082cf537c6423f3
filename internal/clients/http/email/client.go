package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the public Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// Message is one outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// SendResult is the provider's acknowledgement.
type SendResult struct {
	ID string `json:"id"`
}

type apiError struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// Client talks to a Resend-compatible transactional email API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient instantiates the email client with sane defaults. The HTTP client is instrumented
// with otelhttp unless one is supplied.
func NewClient(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("email API key is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}, nil
}

// Send posts msg to the /emails endpoint.
func (c *Client) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("email client not configured")
	}
	if len(msg.To) == 0 {
		return nil, errors.New("email recipient is required")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode email: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call email API: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read email API response: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		var result SendResult
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &result); err != nil {
				return nil, fmt.Errorf("decode email API response: %w", err)
			}
		}
		return &result, nil
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("email API error: %s", errorMessage(payload, resp.Status))
	default:
		return nil, fmt.Errorf("email API unexpected status: %s", resp.Status)
	}
}

func errorMessage(payload []byte, fallback string) string {
	var body apiError
	if err := json.Unmarshal(payload, &body); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		return name
	}
	return fallback
}
