// Package twiml renders the small subset of the Twilio voice markup this
// service speaks, and parses inbound voice webhooks. The protocol itself is
// treated as opaque: nothing outside this package touches its syntax.
package twiml

import (
	"encoding/xml"
	"fmt"
)

// DefaultVoice is the synthesized voice used for all spoken lines.
const DefaultVoice = "alice"

// Say speaks one line to the caller.
type Say struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

// Pause inserts silence between spoken lines.
type Pause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

// Parameter is a custom key/value echoed back verbatim on the next webhook.
// It is the sole carrier of conversation state between turns.
type Parameter struct {
	XMLName xml.Name `xml:"Parameter"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr"`
}

// Gather speaks its nested lines and collects the caller's next utterance.
type Gather struct {
	XMLName       xml.Name    `xml:"Gather"`
	Input         string      `xml:"input,attr"`
	Action        string      `xml:"action,attr"`
	Method        string      `xml:"method,attr"`
	SpeechTimeout string      `xml:"speechTimeout,attr"`
	Language      string      `xml:"language,attr,omitempty"`
	Hints         string      `xml:"hints,attr,omitempty"`
	Says          []Say       `xml:"Say"`
	Parameters    []Parameter `xml:"Parameter"`
}

// Hangup terminates the call.
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Response is one TwiML document. Verb order is significant and preserved.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// Render serializes the document with the XML declaration Twilio expects.
func (r Response) Render() (string, error) {
	body, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render twiml: %w", err)
	}
	return xml.Header + string(body), nil
}

// GatherSpeech builds a document that speaks lines and gathers the next
// utterance, carrying the state token through the protocol parameter.
func GatherSpeech(action, stateToken, hints string, lines ...string) Response {
	g := Gather{
		Input:         "speech",
		Action:        action,
		Method:        "POST",
		SpeechTimeout: "auto",
		Language:      "en-US",
		Hints:         hints,
	}
	for _, line := range lines {
		g.Says = append(g.Says, Say{Voice: DefaultVoice, Text: line})
	}
	if stateToken != "" {
		g.Parameters = append(g.Parameters, Parameter{Name: "conversationState", Value: stateToken})
	}
	return Response{Verbs: []any{g}}
}

// EndCall builds a document that speaks lines, with a short beat between
// them, and hangs up.
func EndCall(lines ...string) Response {
	var verbs []any
	for i, line := range lines {
		if i > 0 {
			verbs = append(verbs, Pause{Length: 1})
		}
		verbs = append(verbs, Say{Voice: DefaultVoice, Text: line})
	}
	verbs = append(verbs, Hangup{})
	return Response{Verbs: verbs}
}
