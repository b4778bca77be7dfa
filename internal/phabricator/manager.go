package phabricator

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Manager hands out Conduit clients with hybrid authentication: a per-call
// API token takes precedence for user attribution, otherwise a lazily
// constructed shared client backed by the configured token is reused.
type Manager struct {
	baseURL string
	token   string
	timeout time.Duration

	mu            sync.Mutex
	defaultClient *Client
}

// NewManager creates a manager for the given Conduit endpoint. token may be
// empty if every call supplies its own.
func NewManager(baseURL, token string, timeout time.Duration) *Manager {
	return &Manager{baseURL: baseURL, token: token, timeout: timeout}
}

// Get returns a client authenticated with apiToken when provided, or the
// shared default client otherwise.
func (m *Manager) Get(apiToken string) (*Client, error) {
	if t := strings.TrimSpace(apiToken); t != "" {
		client, err := NewClient(m.baseURL, t)
		if err != nil {
			return nil, fmt.Errorf("failed to create client with provided token: %w", err)
		}
		client.SetTimeout(m.timeout)
		return client, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.defaultClient == nil {
		if strings.TrimSpace(m.token) == "" {
			return nil, fmt.Errorf("no API token provided and no default token configured; " +
				"set PHABRICATOR_TOKEN or pass api_token with the call")
		}
		client, err := NewClient(m.baseURL, m.token)
		if err != nil {
			return nil, fmt.Errorf("failed to create default client: %w", err)
		}
		client.SetTimeout(m.timeout)
		m.defaultClient = client
	}
	return m.defaultClient, nil
}
