package crm

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/legacyprime/leadline/internal/intake"
	"github.com/legacyprime/leadline/internal/observability"
)

// Persistence must finish well inside the telephony gateway's webhook timeout.
const persistTimeout = 3 * time.Second

// Result reports what Record managed to write.
type Result struct {
	LeadID    string
	Qualified bool
	Persisted bool
}

// Recorder classifies a finished intake call and writes the lead and
// call-outcome records. Persistence is best effort: failures are logged and
// counted but never surfaced to the call path, so the caller's experience
// never depends on database availability.
type Recorder struct {
	store        Store
	thresholdUSD int
	metrics      *observability.Metrics
}

func NewRecorder(store Store, thresholdUSD int, metrics *observability.Metrics) *Recorder {
	return &Recorder{store: store, thresholdUSD: thresholdUSD, metrics: metrics}
}

// Record runs exactly once, at the closing transition of a call.
func (r *Recorder) Record(ctx context.Context, callSID string, slots intake.Slots, transcript string, turns int) Result {
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	amount := BudgetAmount(slots.Budget)
	qualified := amount >= r.thresholdUSD

	lead := Lead{
		Name:         slots.Name,
		Phone:        slots.Phone,
		ProjectType:  slots.ProjectType,
		Budget:       slots.Budget,
		Timeline:     slots.Timeline,
		PropertyType: slots.PropertyType,
		Source:       "phone",
		Qualified:    qualified,
		Transcript:   transcript,
	}

	leadID, err := r.store.InsertLead(ctx, lead)
	if err != nil {
		log.Printf("[crm] lead insert failed (call %s): %v", callSID, err)
		r.metrics.PersistErrors.WithLabelValues("lead").Inc()
		// No lead id means no outcome row either: never reference a lead
		// that was not written.
		return Result{Qualified: qualified}
	}
	r.metrics.LeadsRecorded.WithLabelValues(strconv.FormatBool(qualified)).Inc()

	outcome := CallOutcome{
		CallSID:      callSID,
		LeadID:       leadID,
		CallerNumber: slots.Phone,
		Turns:        turns,
		Completed:    true,
	}
	if _, err := r.store.InsertCallOutcome(ctx, outcome); err != nil {
		log.Printf("[crm] call outcome insert failed (call %s): %v", callSID, err)
		r.metrics.PersistErrors.WithLabelValues("call_outcome").Inc()
	}

	return Result{LeadID: leadID, Qualified: qualified, Persisted: true}
}
