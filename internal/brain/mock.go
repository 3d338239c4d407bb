package brain

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Mock provides deterministic local phrasing when no completion endpoint is
// configured, and doubles as the scripted completer in tests.
type Mock struct {
	mu      sync.Mutex
	replies []string
	err     error
}

func NewMock(replies ...string) *Mock {
	return &Mock{replies: replies}
}

// Fail makes every subsequent Complete call return err.
func (m *Mock) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Mock) Complete(ctx context.Context, req Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) > 0 {
		next := m.replies[0]
		m.replies = m.replies[1:]
		return next, nil
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "Could you tell me more about your project?", nil
	}
	return fmt.Sprintf("Mock reply to: %s", firstLine(prompt)), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
