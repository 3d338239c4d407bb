package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/legacyprime/leadline/internal/brain"
	"github.com/legacyprime/leadline/internal/convo"
	"github.com/legacyprime/leadline/internal/crm"
	"github.com/legacyprime/leadline/internal/observability"
)

func newTestController(namespace string, mock *brain.Mock, store *crm.InMemoryStore) *Controller {
	metrics := observability.NewMetrics(namespace)
	recorder := crm.NewRecorder(store, 10000, metrics)
	return NewController(mock, recorder, metrics, "Legacy Prime Construction")
}

func TestTurnGreetsOnFirstRequest(t *testing.T) {
	c := newTestController("test_dlg_greet", brain.NewMock(), crm.NewInMemoryStore())

	res, err := c.Turn(context.Background(), Input{CallSID: "CA1", CallerNumber: "+15551234567"})
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if res.Hangup {
		t.Fatalf("greeting turn hung up")
	}
	if len(res.Lines) != 1 || !strings.Contains(res.Lines[0], "Legacy Prime Construction") {
		t.Fatalf("Lines = %v, want company greeting", res.Lines)
	}
	if res.NextToken == "" {
		t.Fatalf("greeting turn returned no state token")
	}
	if res.State.Turn != 1 {
		t.Fatalf("Turn = %d, want 1", res.State.Turn)
	}
}

func TestTurnClosesWhenOneUtteranceCompletesSlots(t *testing.T) {
	mock := brain.NewMock("Thanks John, we'll call you back within 24 hours!")
	store := crm.NewInMemoryStore()
	c := newTestController("test_dlg_oneshot", mock, store)

	greeting, err := c.Turn(context.Background(), Input{CallSID: "CA2", CallerNumber: "+15551234567"})
	if err != nil {
		t.Fatalf("greeting Turn() error = %v", err)
	}

	res, err := c.Turn(context.Background(), Input{
		CallSID:      "CA2",
		CallerNumber: "+15551234567",
		Speech:       "Hi, my name is John, I want a kitchen remodel for about $25,000",
		StateToken:   greeting.NextToken,
	})
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if !res.Hangup {
		t.Fatalf("completed interview did not hang up")
	}
	if res.NextToken != "" {
		t.Fatalf("hangup turn returned a gather token %q", res.NextToken)
	}
	if len(res.Lines) != 2 || res.Lines[1] != "Have a great day!" {
		t.Fatalf("Lines = %v, want closing then goodbye", res.Lines)
	}

	leads := store.Leads()
	if len(leads) != 1 {
		t.Fatalf("leads = %d, want 1", len(leads))
	}
	if leads[0].Name != "John" || leads[0].ProjectType != "Kitchen Remodel" || !leads[0].Qualified {
		t.Fatalf("lead = %+v, want qualified John kitchen lead", leads[0])
	}
	if outcomes := store.Outcomes(); len(outcomes) != 1 || outcomes[0].CallSID != "CA2" {
		t.Fatalf("outcomes = %+v, want one for CA2", store.Outcomes())
	}
}

func TestTurnCollectsAcrossMultipleExchanges(t *testing.T) {
	mock := brain.NewMock(
		"Great! What's your name?",
		"Thanks Sarah, we'll be in touch within 24 hours!",
	)
	store := crm.NewInMemoryStore()
	c := newTestController("test_dlg_multiturn", mock, store)

	ctx := context.Background()
	res, err := c.Turn(ctx, Input{CallSID: "CA3", CallerNumber: "+15550001111"})
	if err != nil {
		t.Fatalf("greeting Turn() error = %v", err)
	}

	res, err = c.Turn(ctx, Input{
		CallSID: "CA3", CallerNumber: "+15550001111",
		Speech: "I need my roof replaced", StateToken: res.NextToken,
	})
	if err != nil {
		t.Fatalf("second Turn() error = %v", err)
	}
	if res.Hangup {
		t.Fatalf("interview closed before the name was collected")
	}
	if res.State.Turn != 2 {
		t.Fatalf("Turn = %d, want 2", res.State.Turn)
	}
	if res.State.Slots.ProjectType != "Roofing" {
		t.Fatalf("ProjectType = %q, want Roofing", res.State.Slots.ProjectType)
	}

	res, err = c.Turn(ctx, Input{
		CallSID: "CA3", CallerNumber: "+15550001111",
		Speech: "I'm Sarah", StateToken: res.NextToken,
	})
	if err != nil {
		t.Fatalf("third Turn() error = %v", err)
	}
	if !res.Hangup {
		t.Fatalf("name plus project did not close the interview")
	}
	if res.State.Turn != 3 {
		t.Fatalf("Turn = %d, want 3", res.State.Turn)
	}
	if len(store.Leads()) != 1 || store.Leads()[0].Name != "Sarah" {
		t.Fatalf("leads = %+v, want one lead for Sarah", store.Leads())
	}
	if store.Outcomes()[0].Turns != 3 {
		t.Fatalf("outcome turns = %d, want 3", store.Outcomes()[0].Turns)
	}
}

func TestTurnGarbledTokenRestartsInterview(t *testing.T) {
	mock := brain.NewMock("Sorry, who am I speaking with?")
	store := crm.NewInMemoryStore()
	c := newTestController("test_dlg_garble", mock, store)

	res, err := c.Turn(context.Background(), Input{
		CallSID: "CA4", CallerNumber: "+15559990000",
		Speech: "hello?", StateToken: "!!not-a-token!!",
	})
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if res.Hangup {
		t.Fatalf("garbled token dropped the call")
	}
	if res.State.Slots.Phone != "+15559990000" {
		t.Fatalf("Phone = %q, want reseeded caller number", res.State.Slots.Phone)
	}
	// History restarts from this utterance alone.
	if len(res.State.History) != 2 || res.State.History[0].Role != convo.RoleCaller {
		t.Fatalf("History = %+v, want caller utterance then new question", res.State.History)
	}
}

func TestTurnCompleterFailureSpeaksApologyAndHangsUp(t *testing.T) {
	mock := brain.NewMock()
	mock.Fail(errors.New("upstream timeout"))
	store := crm.NewInMemoryStore()
	c := newTestController("test_dlg_llmfail", mock, store)

	res, err := c.Turn(context.Background(), Input{
		CallSID: "CA5", CallerNumber: "+15551112222",
		Speech: "I'm thinking about a deck",
	})
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if !res.Hangup {
		t.Fatalf("completion failure did not hang up")
	}
	if len(res.Lines) != 1 || !strings.Contains(res.Lines[0], "technical difficulties") {
		t.Fatalf("Lines = %v, want apology", res.Lines)
	}
	// The interview never reached closing, so nothing is persisted.
	if len(store.Leads()) != 0 || len(store.Outcomes()) != 0 {
		t.Fatalf("persisted %d leads / %d outcomes, want none", len(store.Leads()), len(store.Outcomes()))
	}
}

func TestTurnClosingFailureStillRecordsLead(t *testing.T) {
	mock := brain.NewMock()
	mock.Fail(errors.New("upstream down"))
	store := crm.NewInMemoryStore()
	c := newTestController("test_dlg_closefail", mock, store)

	res, err := c.Turn(context.Background(), Input{
		CallSID: "CA6", CallerNumber: "+15553334444",
		Speech: "My name is John, I want a bathroom remodel",
	})
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if !res.Hangup {
		t.Fatalf("closing turn did not hang up")
	}
	if !strings.Contains(res.Lines[0], "technical difficulties") {
		t.Fatalf("Lines = %v, want apology when closing phrasing fails", res.Lines)
	}
	if len(store.Leads()) != 1 {
		t.Fatalf("leads = %d, want the lead recorded despite the phrasing failure", len(store.Leads()))
	}
}

func TestTurnPricingQuestionGetsBallparkAnswer(t *testing.T) {
	mock := brain.NewMock()
	store := crm.NewInMemoryStore()
	c := newTestController("test_dlg_pricing", mock, store)

	greeting, err := c.Turn(context.Background(), Input{CallSID: "CA7", CallerNumber: "+15556667777"})
	if err != nil {
		t.Fatalf("greeting Turn() error = %v", err)
	}

	res, err := c.Turn(context.Background(), Input{
		CallSID: "CA7", CallerNumber: "+15556667777",
		Speech:     "How much does a kitchen remodel cost?",
		StateToken: greeting.NextToken,
	})
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if res.Hangup {
		t.Fatalf("pricing question ended the call")
	}
	if !strings.Contains(res.Lines[0], "$15,000 to $50,000") {
		t.Fatalf("Lines = %v, want kitchen ballpark", res.Lines)
	}
	if !strings.Contains(res.Lines[0], "What's your name?") {
		t.Fatalf("Lines = %v, want pivot to the name question", res.Lines)
	}
	if res.State.Slots.ProjectType != "Kitchen Remodel" {
		t.Fatalf("ProjectType = %q, want the implied Kitchen Remodel", res.State.Slots.ProjectType)
	}
}

func TestTurnIsMonotonic(t *testing.T) {
	mock := brain.NewMock(
		"Who am I speaking with?",
		"And what project is this for?",
		"What budget do you have in mind?",
	)
	store := crm.NewInMemoryStore()
	c := newTestController("test_dlg_monotonic", mock, store)

	ctx := context.Background()
	res, err := c.Turn(ctx, Input{CallSID: "CA8", CallerNumber: "+15558889999"})
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	prev := res.State.Turn
	for _, speech := range []string{"hello", "um", "let me think"} {
		res, err = c.Turn(ctx, Input{
			CallSID: "CA8", CallerNumber: "+15558889999",
			Speech: speech, StateToken: res.NextToken,
		})
		if err != nil {
			t.Fatalf("Turn(%q) error = %v", speech, err)
		}
		if res.State.Turn != prev+1 {
			t.Fatalf("Turn went %d -> %d on %q, want +1", prev, res.State.Turn, speech)
		}
		prev = res.State.Turn
	}
}
