package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists leads and call outcomes in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			project_type TEXT NOT NULL DEFAULT '',
			budget TEXT NOT NULL DEFAULT '',
			timeline TEXT NOT NULL DEFAULT '',
			property_type TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT 'phone',
			qualified BOOLEAN NOT NULL DEFAULT FALSE,
			transcript TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS call_outcomes (
			id TEXT PRIMARY KEY,
			call_sid TEXT NOT NULL,
			lead_id TEXT REFERENCES leads(id),
			caller_number TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_leads_phone_created ON leads (phone, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_call_outcomes_call_sid ON call_outcomes (call_sid);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) InsertLead(ctx context.Context, lead Lead) (string, error) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO leads (id, name, phone, project_type, budget, timeline, property_type, source, qualified, transcript, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		lead.ID,
		lead.Name,
		lead.Phone,
		lead.ProjectType,
		lead.Budget,
		lead.Timeline,
		lead.PropertyType,
		lead.Source,
		lead.Qualified,
		lead.Transcript,
		lead.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert lead: %w", err)
	}
	return lead.ID, nil
}

func (s *PostgresStore) InsertCallOutcome(ctx context.Context, outcome CallOutcome) (string, error) {
	if outcome.ID == "" {
		outcome.ID = uuid.NewString()
	}
	if outcome.CreatedAt.IsZero() {
		outcome.CreatedAt = time.Now().UTC()
	}

	var leadID any
	if outcome.LeadID != "" {
		leadID = outcome.LeadID
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO call_outcomes (id, call_sid, lead_id, caller_number, turns, completed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		outcome.ID,
		outcome.CallSID,
		leadID,
		outcome.CallerNumber,
		outcome.Turns,
		outcome.Completed,
		outcome.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert call outcome: %w", err)
	}
	return outcome.ID, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
