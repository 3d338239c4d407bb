package convo

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// The token must survive being embedded as an XML attribute value and echoed
// through the telephony protocol untouched, so it is base64url with no padding.
var tokenEncoding = base64.RawURLEncoding

// Encode serializes the state to an opaque transport-safe token.
func Encode(s State) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return tokenEncoding.EncodeToString(raw), nil
}

// Decode restores a state token. A missing, truncated, or otherwise malformed
// token yields a fresh state seeded from the caller number: the caller gets a
// reset interview rather than a dropped call.
func Decode(token, callerNumber string) State {
	s, err := DecodeStrict(token)
	if err != nil {
		return NewState(callerNumber)
	}
	return s
}

// DecodeStrict surfaces the decode error so callers can count fallbacks.
func DecodeStrict(token string) (State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return State{}, fmt.Errorf("empty state token")
	}
	raw, err := tokenEncoding.DecodeString(token)
	if err != nil {
		// Tokens produced before the raw-url alphabet change may carry padding.
		raw, err = base64.StdEncoding.DecodeString(token)
		if err != nil {
			return State{}, fmt.Errorf("decode state token: %w", err)
		}
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("unmarshal state token: %w", err)
	}
	if s.Version != StateVersion {
		return State{}, fmt.Errorf("state token version %d, want %d", s.Version, StateVersion)
	}
	if s.Turn < 0 {
		return State{}, fmt.Errorf("state token has negative turn")
	}
	return s, nil
}
