package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/lightsaber/internal/telemetry"
)

func TestStateEndpoint(t *testing.T) {
	d := newDashboard(10)
	srv := httptest.NewServer(d.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status before data = %d, want 503", resp.StatusCode)
	}

	d.onState(telemetry.StatePayload{On: true, ColorName: "green", Color: [3]int{0, 255, 0}, LedCount: 60})

	resp, err = http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	var st telemetry.StatePayload
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.On || st.ColorName != "green" {
		t.Errorf("state = %+v", st)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	d := newDashboard(3)
	for i := 1; i <= 5; i++ {
		d.onFrame(telemetry.FramePayload{Seq: uint64(i)})
	}
	srv := httptest.NewServer(d.routes())
	defer srv.Close()

	tests := []struct {
		query  string
		status int
		want   []uint64
	}{
		{"", http.StatusOK, []uint64{3, 4, 5}},
		{"?n=1", http.StatusOK, []uint64{5}},
		{"?n=x", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + "/api/history" + tt.query)
		if err != nil {
			t.Fatalf("GET %s: %v", tt.query, err)
		}
		if resp.StatusCode != tt.status {
			t.Errorf("GET %q status = %d, want %d", tt.query, resp.StatusCode, tt.status)
		}
		if tt.status == http.StatusOK {
			var frames []telemetry.FramePayload
			if err := json.NewDecoder(resp.Body).Decode(&frames); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := seqs(frames); !equalSeqs(got, tt.want) {
				t.Errorf("GET %q = %v, want %v", tt.query, got, tt.want)
			}
		}
		resp.Body.Close()
	}
}

func TestWebsocketStream(t *testing.T) {
	d := newDashboard(10)
	d.onState(telemetry.StatePayload{On: false, ColorName: "red"})
	srv := httptest.NewServer(d.routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first wsMessage
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read: %v", err)
	}
	if first.Type != "state" || first.State == nil || first.State.ColorName != "red" {
		t.Fatalf("first message = %+v, want current state", first)
	}

	deadline := time.Now().Add(5 * time.Second)
	for d.clientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	var flash telemetry.FramePayload
	flash.Seq = 7
	flash.FlashActive = true
	d.onFlash(flash)

	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "flash" || msg.Frame == nil || msg.Frame.Seq != 7 || !msg.Frame.FlashActive {
		t.Errorf("message = %+v, want flash #7", msg)
	}
}
