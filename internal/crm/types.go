package crm

import (
	"context"
	"time"
)

// Lead is the client record created when an intake call closes. It is written
// at most once per call and never updated by this service; downstream CRM
// workflows own it afterwards.
type Lead struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	ProjectType  string    `json:"project_type"`
	Budget       string    `json:"budget"`
	Timeline     string    `json:"timeline"`
	PropertyType string    `json:"property_type"`
	Source       string    `json:"source"`
	Qualified    bool      `json:"qualified"`
	Transcript   string    `json:"transcript"`
	CreatedAt    time.Time `json:"created_at"`
}

// CallOutcome records how an intake call ended. LeadID is empty when the call
// produced no lead record.
type CallOutcome struct {
	ID           string    `json:"id"`
	CallSID      string    `json:"call_sid"`
	LeadID       string    `json:"lead_id,omitempty"`
	CallerNumber string    `json:"caller_number"`
	Turns        int       `json:"turns"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists leads and call outcomes.
type Store interface {
	InsertLead(ctx context.Context, lead Lead) (string, error)
	InsertCallOutcome(ctx context.Context, outcome CallOutcome) (string, error)
	Close() error
}
