package convo

import (
	"strings"

	"github.com/legacyprime/leadline/internal/intake"
)

// Roles for transcript entries.
const (
	RoleCaller = "caller"
	RoleAgent  = "agent"
)

// Utterance is one line of the call transcript.
type Utterance struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// State is the full dialogue state for one call. It lives entirely inside the
// opaque token the telephony gateway echoes back each turn; the service keeps
// no server-side session for the call.
type State struct {
	Version int          `json:"v"`
	Turn    int          `json:"turn"`
	Slots   intake.Slots `json:"slots"`
	History []Utterance  `json:"history"`
}

// StateVersion is bumped whenever the wire shape changes. Tokens from another
// version decode to a fresh state rather than a partial one.
const StateVersion = 1

// NewState returns the initial state for a call, seeded with the caller's
// number. Phone is the one slot never re-extracted from speech.
func NewState(callerNumber string) State {
	return State{
		Version: StateVersion,
		Slots:   intake.Slots{Phone: strings.TrimSpace(callerNumber)},
	}
}

// Append records a transcript line. History is append-only; earlier entries
// are never rewritten.
func (s *State) Append(role, text string) {
	s.History = append(s.History, Utterance{Role: role, Text: text})
}

// Transcript renders the history as prompt context for the language model.
func (s State) Transcript() string {
	var b strings.Builder
	for _, u := range s.History {
		if u.Role == RoleCaller {
			b.WriteString("Caller: ")
		} else {
			b.WriteString("You: ")
		}
		b.WriteString(u.Text)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
