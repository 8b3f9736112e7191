package lcu

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// EventType represents LCU WebSocket event types
type EventType int

const (
	EventTypeSubscribe   EventType = 5
	EventTypeUnsubscribe EventType = 6
	EventTypeEvent       EventType = 8
)

const (
	EventChampSelectSession = "OnJsonApiEvent_lol-champ-select_v1_session"
	EventGameflowPhase      = "OnJsonApiEvent_lol-gameflow_v1_gameflow-phase"
)

// ChampSelectHandler is called when champ select state changes.
// session is nil when champ select ended.
type ChampSelectHandler func(session *ChampSelectSession, inChampSelect bool)

// GameflowPhaseHandler is called with the new gameflow phase.
type GameflowPhaseHandler func(phase string)

type eventEnvelope struct {
	EventType string          `json:"eventType"` // Create, Update, Delete
	URI       string          `json:"uri"`
	Data      json.RawMessage `json:"data"`
}

// WebSocketClient handles LCU WebSocket connection
type WebSocketClient struct {
	log    zerolog.Logger
	dialer websocket.Dialer

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
	done        chan struct{}

	champSelectHandler ChampSelectHandler
	phaseHandler       GameflowPhaseHandler
}

// NewWebSocketClient creates a new WebSocket client
func NewWebSocketClient(logger zerolog.Logger) *WebSocketClient {
	return &WebSocketClient{
		log: logger.With().Str("component", "lcu-ws").Logger(),
		dialer: websocket.Dialer{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
	}
}

// Connect dials the client's WebSocket and subscribes to champ select and
// gameflow phase events. Calling Connect on a live connection is a no-op.
func (w *WebSocketClient) Connect(ctx context.Context, creds *Credentials) error {
	return w.dial(ctx, fmt.Sprintf("wss://127.0.0.1:%s", creds.Port), creds)
}

func (w *WebSocketClient) dial(ctx context.Context, url string, creds *Credentials) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isConnected {
		return nil
	}

	header := http.Header{}
	header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("riot:"+creds.Password)))

	conn, _, err := w.dialer.DialContext(ctx, url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to LCU WebSocket: %w", err)
	}

	for _, event := range []string{EventChampSelectSession, EventGameflowPhase} {
		if err := conn.WriteJSON([]any{EventTypeSubscribe, event}); err != nil {
			conn.Close()
			return fmt.Errorf("failed to subscribe to %s: %w", event, err)
		}
	}

	w.conn = conn
	w.isConnected = true
	w.done = make(chan struct{})

	go w.listen(conn, w.done)

	return nil
}

// listen reads messages until the connection drops or Disconnect is called.
func (w *WebSocketClient) listen(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		w.mu.Lock()
		if w.conn == conn {
			w.conn = nil
			w.isConnected = false
		}
		w.mu.Unlock()
		conn.Close()
		close(done)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			w.log.Debug().Err(err).Msg("websocket read loop stopped")
			return
		}
		w.handleMessage(message)
	}
}

// handleMessage decodes a WAMP frame: [opcode, event, payload].
func (w *WebSocketClient) handleMessage(data []byte) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) < 3 {
		return
	}

	var eventType EventType
	if err := json.Unmarshal(raw[0], &eventType); err != nil || eventType != EventTypeEvent {
		return
	}

	var eventName string
	if err := json.Unmarshal(raw[1], &eventName); err != nil {
		return
	}

	var env eventEnvelope
	if err := json.Unmarshal(raw[2], &env); err != nil {
		w.log.Warn().Err(err).Str("event", eventName).Msg("malformed event payload")
		return
	}

	switch eventName {
	case EventChampSelectSession:
		w.handleChampSelectEvent(env)
	case EventGameflowPhase:
		w.handlePhaseEvent(env)
	}
}

func (w *WebSocketClient) handleChampSelectEvent(env eventEnvelope) {
	w.mu.Lock()
	handler := w.champSelectHandler
	w.mu.Unlock()
	if handler == nil {
		return
	}

	switch env.EventType {
	case "Create", "Update":
		var session ChampSelectSession
		if err := json.Unmarshal(env.Data, &session); err != nil {
			w.log.Warn().Err(err).Msg("failed to parse champ select session")
			return
		}
		handler(&session, true)
	case "Delete":
		handler(nil, false)
	}
}

func (w *WebSocketClient) handlePhaseEvent(env eventEnvelope) {
	w.mu.Lock()
	handler := w.phaseHandler
	w.mu.Unlock()
	if handler == nil {
		return
	}

	var phase string
	if err := json.Unmarshal(env.Data, &phase); err != nil {
		phase = strings.Trim(string(env.Data), `"`)
	}
	handler(phase)
}

// SetChampSelectHandler sets the callback for champ select events
func (w *WebSocketClient) SetChampSelectHandler(handler ChampSelectHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.champSelectHandler = handler
}

// SetGameflowPhaseHandler sets the callback for gameflow phase changes
func (w *WebSocketClient) SetGameflowPhaseHandler(handler GameflowPhaseHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phaseHandler = handler
}

// Disconnect closes the WebSocket connection and waits for the reader to exit.
func (w *WebSocketClient) Disconnect() {
	w.mu.Lock()
	conn, done := w.conn, w.done
	w.conn = nil
	w.isConnected = false
	w.mu.Unlock()

	if conn == nil {
		return
	}
	conn.Close()
	<-done
}

// IsConnected returns whether the WebSocket is connected
func (w *WebSocketClient) IsConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isConnected
}
