package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIClient delivers messages through a transactional-mail HTTP API
// (Brevo-compatible request shape).
type APIClient struct {
	endpoint   string
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

func NewAPIClient(endpoint, apiKey, fromEmail, fromName string) *APIClient {
	return &APIClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	TextContent string              `json:"textContent"`
}

func (c *APIClient) Send(ctx context.Context, msg Message) error {
	if msg.To == "" || msg.Subject == "" || msg.Body == "" {
		return errors.New("to, subject and body are required")
	}

	body, err := json.Marshal(sendRequest{
		Sender:      map[string]string{"email": c.fromEmail, "name": c.fromName},
		To:          []map[string]string{{"email": msg.To}},
		Subject:     msg.Subject,
		TextContent: msg.Body,
	})
	if err != nil {
		return fmt.Errorf("error marshalling mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating mail request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending mail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail api error: status %d", resp.StatusCode)
	}

	return nil
}
