package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/legacyprime/leadline/internal/brain"
	"github.com/legacyprime/leadline/internal/convo"
	"github.com/legacyprime/leadline/internal/crm"
	"github.com/legacyprime/leadline/internal/intake"
	"github.com/legacyprime/leadline/internal/observability"
)

// Input is one inbound telephony turn, already parsed by the transport.
type Input struct {
	CallSID      string
	CallerNumber string
	Speech       string
	StateToken   string
}

// Result tells the transport what to say and whether to gather another
// utterance or end the call. NextToken is set only when gathering.
type Result struct {
	Lines     []string
	Hangup    bool
	NextToken string
	State     convo.State
}

// Controller is the dialogue state machine. Each call to Turn is independent:
// everything it knows about the call arrives in the state token and everything
// it decides leaves in the next one.
type Controller struct {
	completer brain.Completer
	recorder  *crm.Recorder
	metrics   *observability.Metrics

	companyName string
}

func NewController(completer brain.Completer, recorder *crm.Recorder, metrics *observability.Metrics, companyName string) *Controller {
	return &Controller{
		completer:   completer,
		recorder:    recorder,
		metrics:     metrics,
		companyName: companyName,
	}
}

// SpeechHints is the recognition vocabulary for gather verbs.
func (c *Controller) SpeechHints() string { return speechHints }

// Turn advances one call by one exchange. The returned error means the next
// state could not even be serialized; every other failure is absorbed into a
// spoken fallback so the caller never hears silence.
func (c *Controller) Turn(ctx context.Context, in Input) (Result, error) {
	state := c.restoreState(in)

	// Very first request for the call: no utterance yet, speak the greeting.
	if state.Turn == 0 && in.Speech == "" {
		greeting := greetingLine(c.companyName)
		state.Append(convo.RoleAgent, greeting)
		state.Turn = 1
		c.metrics.CallTurns.WithLabelValues("greeting").Inc()
		return c.gather(state, greeting)
	}

	if in.Speech != "" {
		state.Append(convo.RoleCaller, in.Speech)
		before := state.Slots
		state.Slots = intake.Extract(in.Speech, state.Slots)
		c.countSlotFills(before, state.Slots)
		state.Turn++
	}

	// A cost question as the opening response gets a ballpark answer before
	// the interview continues; the implied project type counts as collected.
	if in.Speech != "" && state.Turn == 2 && isPricingQuestion(in.Speech) {
		line, project := pricingAnswer(in.Speech, state.Slots.HasName())
		if state.Slots.ProjectType == "" {
			state.Slots.ProjectType = project
			c.metrics.SlotFills.WithLabelValues("project_type").Inc()
		}
		state.Append(convo.RoleAgent, line)
		c.metrics.CallTurns.WithLabelValues("pricing").Inc()
		return c.gather(state, line)
	}

	if state.Slots.Complete() {
		return c.closeCall(ctx, in.CallSID, state), nil
	}

	question, err := c.complete(ctx, state, nextQuestionPrompt(state.Slots))
	if err != nil {
		c.metrics.CallTurns.WithLabelValues("apology").Inc()
		return Result{Lines: []string{apologyLine}, Hangup: true, State: state}, nil
	}
	state.Append(convo.RoleAgent, question)
	c.metrics.CallTurns.WithLabelValues("gather").Inc()
	return c.gather(state, question)
}

// closeCall phrases the closing, then records the lead. Persistence runs
// exactly once, here, and its outcome never changes what was already decided
// to be spoken.
func (c *Controller) closeCall(ctx context.Context, callSID string, state convo.State) Result {
	lines := []string{apologyLine}
	closing, err := c.complete(ctx, state, closingPrompt(state.Slots))
	if err == nil {
		state.Append(convo.RoleAgent, closing)
		lines = []string{closing, goodbyeLine}
		c.metrics.CallTurns.WithLabelValues("closed").Inc()
	} else {
		c.metrics.CallTurns.WithLabelValues("apology").Inc()
	}

	result := c.recorder.Record(ctx, callSID, state.Slots, state.Transcript(), state.Turn)
	log.Printf("[dialogue] call %s closed: lead=%q qualified=%v persisted=%v",
		callSID, result.LeadID, result.Qualified, result.Persisted)

	return Result{Lines: lines, Hangup: true, State: state}
}

func (c *Controller) restoreState(in Input) convo.State {
	if in.StateToken == "" {
		return convo.NewState(in.CallerNumber)
	}
	state, err := convo.DecodeStrict(in.StateToken)
	if err != nil {
		// A garbled token resets the interview rather than dropping the call.
		log.Printf("[dialogue] call %s: state token rejected, starting fresh: %v", in.CallSID, err)
		c.metrics.DecodeFallbacks.Inc()
		return convo.NewState(in.CallerNumber)
	}
	return state
}

func (c *Controller) gather(state convo.State, lines ...string) (Result, error) {
	token, err := convo.Encode(state)
	if err != nil {
		return Result{}, fmt.Errorf("encode next state: %w", err)
	}
	return Result{Lines: lines, NextToken: token, State: state}, nil
}

func (c *Controller) complete(ctx context.Context, state convo.State, prompt string) (string, error) {
	start := time.Now()
	text, err := c.completer.Complete(ctx, brain.Request{
		Instructions: systemInstructions(c.companyName),
		Transcript:   state.Transcript(),
		Prompt:       prompt,
	})
	c.metrics.ObserveLLMLatency(time.Since(start))
	if err != nil {
		c.metrics.LLMErrors.WithLabelValues(llmErrorClass(err)).Inc()
		log.Printf("[dialogue] completion failed: %v", err)
		return "", err
	}
	return text, nil
}

func llmErrorClass(err error) string {
	var pe *brain.ProviderError
	switch {
	case errors.As(err, &pe):
		return pe.Class()
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func (c *Controller) countSlotFills(before, after intake.Slots) {
	if before.Name == "" && after.Name != "" {
		c.metrics.SlotFills.WithLabelValues("name").Inc()
	}
	if before.ProjectType == "" && after.ProjectType != "" {
		c.metrics.SlotFills.WithLabelValues("project_type").Inc()
	}
	if before.Budget == "" && after.Budget != "" {
		c.metrics.SlotFills.WithLabelValues("budget").Inc()
	}
	if before.Timeline == "" && after.Timeline != "" {
		c.metrics.SlotFills.WithLabelValues("timeline").Inc()
	}
	if before.PropertyType == "" && after.PropertyType != "" {
		c.metrics.SlotFills.WithLabelValues("property_type").Inc()
	}
}
