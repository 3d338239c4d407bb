package brain

import "context"

// Request carries everything one completion needs: fixed behavioral
// instructions plus the running call transcript and a turn-specific prompt.
type Request struct {
	Instructions string
	Transcript   string
	Prompt       string
}

// Completer produces one assistant utterance for the dialogue. Implementations
// must respect ctx cancellation and keep their own bounded timeout; the call
// path treats any error as a hard failure and speaks a fixed apology instead.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
