package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vkotelev/foodline/internal/logging"
)

// Dispatcher forwards messages to the external push provider. Delivery is
// best-effort: callers log the returned error and move on, it must never
// roll back the state change that triggered it.
type Dispatcher struct {
	url        string
	serverKey  string
	httpClient *http.Client
}

func NewDispatcher(url, serverKey string) *Dispatcher {
	return &Dispatcher{
		url:       url,
		serverKey: serverKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Send delivers one message to a device token. An empty token is a logged
// no-op, not an error.
func (d *Dispatcher) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	l := logging.FromContext(ctx).With("component", "push")

	if token == "" {
		l.Info("push skipped", "reason", "no device token")
		return nil
	}

	payload, err := json.Marshal(message{To: token, Title: title, Body: body, Data: data})
	if err != nil {
		return fmt.Errorf("push: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("push: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.serverKey != "" {
		req.Header.Set("Authorization", "key="+d.serverKey)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push: provider returned status %d", resp.StatusCode)
	}

	l.Info("push delivered", "title", title)
	return nil
}
