// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/lightsaber/internal/config"
	"github.com/relabs-tech/lightsaber/internal/telemetry"
)

const (
	wsSendBuffer   = 32
	wsWriteTimeout = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsMessage is what the dashboard receives on /ws.
type wsMessage struct {
	Type  string                  `json:"type"` // "frame", "flash" or "state"
	Frame *telemetry.FramePayload `json:"frame,omitempty"`
	State *telemetry.StatePayload `json:"state,omitempty"`
}

// dashboard holds what the web server knows about the saber.
type dashboard struct {
	mu       sync.RWMutex
	state    telemetry.StatePayload
	hasState bool

	history *frameHistory

	clientsMu sync.Mutex
	clients   map[chan []byte]struct{}
}

func newDashboard(historySize int) *dashboard {
	return &dashboard{
		history: newFrameHistory(historySize),
		clients: make(map[chan []byte]struct{}),
	}
}

func (d *dashboard) onFrame(p telemetry.FramePayload) {
	d.history.Push(p)
	d.broadcast(wsMessage{Type: "frame", Frame: &p})
}

func (d *dashboard) onFlash(p telemetry.FramePayload) {
	d.broadcast(wsMessage{Type: "flash", Frame: &p})
}

func (d *dashboard) onState(p telemetry.StatePayload) {
	d.mu.Lock()
	d.state = p
	d.hasState = true
	d.mu.Unlock()
	d.broadcast(wsMessage{Type: "state", State: &p})
}

// broadcast queues msg for every client; a client that is not keeping up
// misses the message.
func (d *dashboard) broadcast(msg wsMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("web: json marshal error: %v", err)
		return
	}
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()
	for ch := range d.clients {
		select {
		case ch <- payload:
		default:
		}
	}
}

func (d *dashboard) addClient() chan []byte {
	ch := make(chan []byte, wsSendBuffer)
	d.clientsMu.Lock()
	d.clients[ch] = struct{}{}
	d.clientsMu.Unlock()
	return ch
}

func (d *dashboard) removeClient(ch chan []byte) {
	d.clientsMu.Lock()
	delete(d.clients, ch)
	d.clientsMu.Unlock()
}

func (d *dashboard) clientCount() int {
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()
	return len(d.clients)
}

// handleState serves the latest blade state.
func (d *dashboard) handleState(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	st, ok := d.state, d.hasState
	d.mu.RUnlock()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, st)
}

// handleHistory serves recent frames, oldest first. ?n= limits the count.
func (d *dashboard) handleHistory(w http.ResponseWriter, r *http.Request) {
	n := 0
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			http.Error(w, fmt.Sprintf("invalid n %q", s), http.StatusBadRequest)
			return
		}
		n = v
	}
	writeJSON(w, d.history.Last(n))
}

// handleWS streams frames, flashes and state changes to one browser. The
// current state, if known, is sent first.
func (d *dashboard) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := d.addClient()
	defer d.removeClient(ch)

	d.mu.RLock()
	st, ok := d.state, d.hasState
	d.mu.RUnlock()
	if ok {
		if err := conn.WriteJSON(wsMessage{Type: "state", State: &st}); err != nil {
			return
		}
	}

	// The reader only notices the browser going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case payload := <-ch:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func (d *dashboard) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", d.handleState)
	mux.HandleFunc("/api/history", d.handleHistory)
	mux.HandleFunc("/ws", d.handleWS)
	mux.Handle("/", http.FileServer(http.Dir("web")))
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// RunWeb serves the dashboard from MQTT telemetry until ctx is done.
func RunWeb(ctx context.Context, cfg *config.Config) error {
	d := newDashboard(cfg.HistorySize)

	client, err := connectSubscriber(cfg, cfg.MQTTClientIDWeb, "web")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON(client, "web", cfg.TopicFrame, d.onFrame); err != nil {
		return err
	}
	if err := subscribeJSON(client, "web", cfg.TopicFlash, d.onFlash); err != nil {
		return err
	}
	if err := subscribeJSON(client, "web", cfg.TopicState, d.onState); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler: d.routes(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("web: shutdown error: %v", err)
		}
	}()

	log.Printf("web server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}
