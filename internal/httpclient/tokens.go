// ABOUTME: In-memory TokenStore used for one-shot commands and tests
package httpclient

import "sync"

// MemoryTokens keeps the token in process memory only.
type MemoryTokens struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokens(token string) *MemoryTokens {
	return &MemoryTokens{token: token}
}

func (m *MemoryTokens) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryTokens) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokens) Clear() error {
	return m.SetToken("")
}
