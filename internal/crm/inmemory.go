package crm

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process store for local/dev use and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	leads    []Lead
	outcomes []CallOutcome
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) InsertLead(_ context.Context, lead Lead) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	s.leads = append(s.leads, lead)
	return lead.ID, nil
}

func (s *InMemoryStore) InsertCallOutcome(_ context.Context, outcome CallOutcome) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if outcome.ID == "" {
		outcome.ID = uuid.NewString()
	}
	if outcome.CreatedAt.IsZero() {
		outcome.CreatedAt = time.Now().UTC()
	}
	s.outcomes = append(s.outcomes, outcome)
	return outcome.ID, nil
}

// Leads returns a snapshot of stored leads.
func (s *InMemoryStore) Leads() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Outcomes returns a snapshot of stored call outcomes.
func (s *InMemoryStore) Outcomes() []CallOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CallOutcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

func (s *InMemoryStore) Close() error { return nil }
