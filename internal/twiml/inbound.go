package twiml

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Inbound is one parsed voice webhook request. Speech and StateToken are
// absent on the very first turn of a call.
type Inbound struct {
	CallSID      string
	CallerNumber string
	Speech       string
	StateToken   string
}

var ErrMissingCallSID = errors.New("missing CallSid")

// ParseInbound extracts the call identity, new speech, and echoed state token
// from a form-encoded telephony webhook.
func ParseInbound(r *http.Request) (Inbound, error) {
	if err := r.ParseForm(); err != nil {
		return Inbound{}, fmt.Errorf("parse webhook form: %w", err)
	}

	in := Inbound{
		CallSID:      strings.TrimSpace(r.PostFormValue("CallSid")),
		CallerNumber: strings.TrimSpace(r.PostFormValue("From")),
		Speech:       strings.TrimSpace(r.PostFormValue("SpeechResult")),
		StateToken:   strings.TrimSpace(r.PostFormValue("conversationState")),
	}
	if in.CallSID == "" {
		return Inbound{}, ErrMissingCallSID
	}
	return in, nil
}
