package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/legacyprime/leadline/internal/config"
	"github.com/legacyprime/leadline/internal/convo"
	"github.com/legacyprime/leadline/internal/dialogue"
	"github.com/legacyprime/leadline/internal/monitor"
	"github.com/legacyprime/leadline/internal/observability"
	"github.com/legacyprime/leadline/internal/policy"
	"github.com/legacyprime/leadline/internal/twiml"
)

type Controller interface {
	Turn(ctx context.Context, in dialogue.Input) (dialogue.Result, error)
	SpeechHints() string
}

// fallbackTwiML is hand-built so the unrecoverable path cannot itself fail to
// render. Even then the caller hears something before the line drops.
const fallbackTwiML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say voice="alice">We're sorry, we can't take your call right now. Please try again in a few minutes.</Say>
  <Hangup></Hangup>
</Response>`

type Server struct {
	cfg        config.Config
	controller Controller
	hub        *monitor.Hub
	metrics    *observability.Metrics
	upgrader   websocket.Upgrader
}

func New(cfg config.Config, controller Controller, hub *monitor.Hub, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:        cfg,
		controller: controller,
		hub:        hub,
		metrics:    metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same origin,
				// so other sites can't watch live call traffic.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/twilio/voice", s.handleVoice)
	r.Post("/twilio/status", s.handleStatus)
	r.Get("/v1/calls/ws", s.handleCallsWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"store_mode": s.storeMode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"store_mode": s.storeMode(),
	})
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	in, err := twiml.ParseInbound(r)
	if err != nil {
		// Cannot even identify the call. Speak a minimal apology and end it.
		log.Printf("[httpapi] unreadable voice webhook: %v", err)
		s.metrics.CallTurns.WithLabelValues("transport_fault").Inc()
		respondTwiML(w, fallbackTwiML)
		return
	}

	result, err := s.controller.Turn(r.Context(), dialogue.Input{
		CallSID:      in.CallSID,
		CallerNumber: in.CallerNumber,
		Speech:       in.Speech,
		StateToken:   in.StateToken,
	})
	if err != nil {
		log.Printf("[httpapi] call %s: turn failed: %v", in.CallSID, err)
		s.metrics.CallTurns.WithLabelValues("transport_fault").Inc()
		respondTwiML(w, fallbackTwiML)
		return
	}

	s.publishTurn(in, result)

	var doc twiml.Response
	if result.Hangup {
		doc = twiml.EndCall(result.Lines...)
	} else {
		doc = twiml.GatherSpeech(s.cfg.WebhookURL(), result.NextToken, s.controller.SpeechHints(), result.Lines...)
	}
	rendered, err := doc.Render()
	if err != nil {
		log.Printf("[httpapi] call %s: render failed: %v", in.CallSID, err)
		s.metrics.CallTurns.WithLabelValues("transport_fault").Inc()
		respondTwiML(w, fallbackTwiML)
		return
	}
	respondTwiML(w, rendered)
}

// handleStatus receives the telephony gateway's call status callbacks. They
// carry no dialogue state; they only feed the operational log.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}
	log.Printf("[httpapi] call %s status=%s duration=%ss",
		r.PostFormValue("CallSid"),
		r.PostFormValue("CallStatus"),
		r.PostFormValue("CallDuration"),
	)
	w.WriteHeader(http.StatusNoContent)
}

// publishTurn mirrors the exchange onto the live monitor feed. Caller speech
// is PII-redacted and the caller id masked before leaving the call path.
func (s *Server) publishTurn(in twiml.Inbound, result dialogue.Result) {
	caller := policy.MaskCallerNumber(in.CallerNumber)
	if in.Speech != "" {
		text, _ := policy.RedactPII(in.Speech)
		s.hub.Publish(monitor.Event{
			CallSID: in.CallSID,
			Caller:  caller,
			Turn:    result.State.Turn,
			Role:    convo.RoleCaller,
			Text:    text,
		})
	}
	for _, line := range result.Lines {
		s.hub.Publish(monitor.Event{
			CallSID: in.CallSID,
			Caller:  caller,
			Turn:    result.State.Turn,
			Role:    convo.RoleAgent,
			Text:    line,
		})
	}
}

func (s *Server) handleCallsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := s.hub.Subscribe()
	defer cancel()
	s.metrics.MonitorClients.Set(float64(s.hub.SubscriberCount()))
	defer func() {
		cancel()
		s.metrics.MonitorClients.Set(float64(s.hub.SubscriberCount()))
	}()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	// Drain reads so pings and close frames are processed.
	go func() {
		defer stop()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

func (s *Server) storeMode() string {
	if strings.TrimSpace(s.cfg.DatabaseURL) == "" {
		return "in-memory"
	}
	return "postgres"
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func respondTwiML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
