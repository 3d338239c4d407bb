package crm

import (
	"context"
	"errors"
	"testing"

	"github.com/legacyprime/leadline/internal/intake"
	"github.com/legacyprime/leadline/internal/observability"
)

type failingStore struct {
	leadErr    error
	outcomeErr error
	outcomes   int
}

func (s *failingStore) InsertLead(context.Context, Lead) (string, error) {
	if s.leadErr != nil {
		return "", s.leadErr
	}
	return "lead-1", nil
}

func (s *failingStore) InsertCallOutcome(context.Context, CallOutcome) (string, error) {
	s.outcomes++
	if s.outcomeErr != nil {
		return "", s.outcomeErr
	}
	return "outcome-1", nil
}

func (s *failingStore) Close() error { return nil }

func TestRecordWritesLeadAndOutcome(t *testing.T) {
	store := NewInMemoryStore()
	rec := NewRecorder(store, 10000, observability.NewMetrics("test_record_ok"))

	slots := intake.Slots{
		Name:        "John",
		Phone:       "+15551234567",
		ProjectType: "Kitchen Remodel",
		Budget:      "$25,000",
	}
	res := rec.Record(context.Background(), "CA123", slots, "You: Hello\nCaller: Hi", 4)

	if !res.Persisted || !res.Qualified || res.LeadID == "" {
		t.Fatalf("Record() = %+v, want persisted qualified lead", res)
	}
	leads := store.Leads()
	if len(leads) != 1 {
		t.Fatalf("leads stored = %d, want 1", len(leads))
	}
	if leads[0].Source != "phone" || !leads[0].Qualified || leads[0].Name != "John" {
		t.Fatalf("lead = %+v, want qualified phone lead for John", leads[0])
	}
	outcomes := store.Outcomes()
	if len(outcomes) != 1 {
		t.Fatalf("outcomes stored = %d, want 1", len(outcomes))
	}
	if outcomes[0].LeadID != res.LeadID || outcomes[0].CallSID != "CA123" || !outcomes[0].Completed {
		t.Fatalf("outcome = %+v, want completed outcome for lead %s", outcomes[0], res.LeadID)
	}
	if outcomes[0].Turns != 4 {
		t.Fatalf("Turns = %d, want 4", outcomes[0].Turns)
	}
}

func TestRecordBelowThresholdIsUnqualified(t *testing.T) {
	store := NewInMemoryStore()
	rec := NewRecorder(store, 10000, observability.NewMetrics("test_record_unqual"))

	slots := intake.Slots{Name: "Sara", Phone: "+15550001111", Budget: "5k"}
	res := rec.Record(context.Background(), "CA456", slots, "", 3)

	if res.Qualified {
		t.Fatalf("Record() qualified a 5k budget against a $10,000 threshold")
	}
	if !res.Persisted {
		t.Fatalf("unqualified lead was not persisted")
	}
	if leads := store.Leads(); len(leads) != 1 || leads[0].Qualified {
		t.Fatalf("leads = %+v, want one unqualified lead", leads)
	}
}

func TestRecordLeadFailureSkipsOutcome(t *testing.T) {
	store := &failingStore{leadErr: errors.New("connection refused")}
	rec := NewRecorder(store, 10000, observability.NewMetrics("test_record_leadfail"))

	slots := intake.Slots{Name: "John", ProjectType: "Roofing"}
	res := rec.Record(context.Background(), "CA789", slots, "", 5)

	if res.Persisted || res.LeadID != "" {
		t.Fatalf("Record() = %+v, want nothing persisted", res)
	}
	if store.outcomes != 0 {
		t.Fatalf("outcome insert attempted %d times after lead insert failed, want 0", store.outcomes)
	}
}

func TestRecordOutcomeFailureStillReportsLead(t *testing.T) {
	store := &failingStore{outcomeErr: errors.New("timeout")}
	rec := NewRecorder(store, 10000, observability.NewMetrics("test_record_outcomefail"))

	slots := intake.Slots{Name: "John", Budget: "$50,000"}
	res := rec.Record(context.Background(), "CA999", slots, "", 5)

	if !res.Persisted || res.LeadID != "lead-1" {
		t.Fatalf("Record() = %+v, want lead persisted despite outcome failure", res)
	}
}
