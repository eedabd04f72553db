package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// RenewableToken is a concurrency-safe bearer token holder. It satisfies
// TokenSource, and its Refresh method is the one-shot renewal hook invoked
// after an auth-expired stream rejection.
type RenewableToken struct {
	mu    sync.RWMutex
	token string
	renew func(ctx context.Context) (string, error)
}

func NewRenewableToken(initial string, renew func(ctx context.Context) (string, error)) *RenewableToken {
	return &RenewableToken{
		token: initial,
		renew: renew,
	}
}

func (t *RenewableToken) Token() (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token, nil
}

func (t *RenewableToken) Refresh(ctx context.Context) error {
	if t.renew == nil {
		return fmt.Errorf("no renewal hook configured")
	}
	fresh, err := t.renew(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.token = fresh
	t.mu.Unlock()
	return nil
}

// FetchServiceToken exchanges the service key for a bearer token at the
// engine's auth endpoint.
func FetchServiceToken(ctx context.Context, baseURL, serviceKey string) (string, error) {
	body, err := json.Marshal(map[string]string{"service_key": serviceKey})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Token, nil
}
