package convo

import (
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	state := NewState("+15551234567")
	state.Append(RoleAgent, "Thank you for calling. How can I help?")
	state.Append(RoleCaller, "My name is John")
	state.Turn = 2
	state.Slots.Name = "John"
	state.Slots.Budget = "$25,000"

	token, err := Encode(state)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := DecodeStrict(token)
	if err != nil {
		t.Fatalf("DecodeStrict() error = %v", err)
	}
	if got.Turn != 2 {
		t.Fatalf("Turn = %d, want 2", got.Turn)
	}
	if got.Slots != state.Slots {
		t.Fatalf("Slots = %+v, want %+v", got.Slots, state.Slots)
	}
	if len(got.History) != 2 || got.History[1].Role != RoleCaller {
		t.Fatalf("History = %+v, want 2 entries ending with caller", got.History)
	}
}

func TestDecodeGarbageFallsBackToFreshState(t *testing.T) {
	for _, token := range []string{
		"",
		"not base64 at all!!!",
		"aGVsbG8",                 // valid base64, not JSON
		"eyJ2Ijo5OSwidHVybiI6MX0", // wrong version
	} {
		got := Decode(token, "+15550001111")
		want := NewState("+15550001111")
		if got.Turn != want.Turn || got.Slots != want.Slots || len(got.History) != 0 {
			t.Fatalf("Decode(%q) = %+v, want fresh state %+v", token, got, want)
		}
	}
}

func TestDecodeStrictRejectsNegativeTurn(t *testing.T) {
	token, err := Encode(State{Version: StateVersion, Turn: -1})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := DecodeStrict(token); err == nil {
		t.Fatalf("DecodeStrict() accepted a negative turn")
	}
}

func TestNewStateSeedsPhone(t *testing.T) {
	state := NewState(" +15551234567 ")
	if state.Slots.Phone != "+15551234567" {
		t.Fatalf("Phone = %q, want trimmed caller number", state.Slots.Phone)
	}
	if state.Version != StateVersion {
		t.Fatalf("Version = %d, want %d", state.Version, StateVersion)
	}
}

func TestTranscriptRendersRoles(t *testing.T) {
	state := NewState("+15551234567")
	state.Append(RoleAgent, "Hello")
	state.Append(RoleCaller, "Hi, I'm John")

	want := "You: Hello\nCaller: Hi, I'm John"
	if got := state.Transcript(); got != want {
		t.Fatalf("Transcript() = %q, want %q", got, want)
	}
}
