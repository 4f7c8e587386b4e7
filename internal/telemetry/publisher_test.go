package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/lightsaber/internal/config"
	"github.com/relabs-tech/lightsaber/internal/impact"
	"github.com/relabs-tech/lightsaber/internal/imu"
	"github.com/relabs-tech/lightsaber/internal/led"
	"github.com/relabs-tech/lightsaber/internal/motion"
	"github.com/relabs-tech/lightsaber/internal/saber"
)

var (
	scaledZero  imu.ScaledSample
	metricsZero motion.Metrics
)

type doneToken struct{}

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (doneToken) Error() error { return nil }

type published struct {
	topic    string
	retained bool
	payload  []byte
}

// fakeClient records publishes; other Client methods are not used.
type fakeClient struct {
	mqtt.Client
	msgs []published
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.msgs = append(f.msgs, published{topic, retained, payload.([]byte)})
	return doneToken{}
}

func (f *fakeClient) topics() []string {
	var out []string
	for _, m := range f.msgs {
		out = append(out, m.topic)
	}
	return out
}

func TestFrameThrottleAndFlashEdge(t *testing.T) {
	cfg := config.Default()
	cfg.TelemetryInterval = 100
	fc := &fakeClient{}
	p := newPublisher(fc, cfg)

	base := time.Unix(0, 0)
	frame := func(ms int, flash bool) {
		at := base.Add(time.Duration(ms) * time.Millisecond)
		p.Frame(at, NewFramePayload(uint64(ms), at, scaledZero, metricsZero, impact.Frame{FlashActive: flash}))
	}

	frame(0, false)  // published
	frame(16, false) // throttled
	frame(33, true)  // flash edge only
	frame(50, true)  // throttled, no new edge
	frame(116, true) // published
	frame(133, false)
	frame(150, true) // new flash edge

	want := []string{
		cfg.TopicFrame,
		cfg.TopicFlash,
		cfg.TopicFrame,
		cfg.TopicFlash,
	}
	got := fc.topics()
	if len(got) != len(want) {
		t.Fatalf("topics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("publish %d on %s, want %s", i, got[i], want[i])
		}
	}
}

func TestStateIsRetained(t *testing.T) {
	fc := &fakeClient{}
	p := newPublisher(fc, config.Default())
	p.State(saber.State{IsOn: true, Color: led.Palette[4], LedCount: 60})

	if len(fc.msgs) != 1 || !fc.msgs[0].retained || fc.msgs[0].topic != "lightsaber/state" {
		t.Fatalf("msgs = %+v", fc.msgs)
	}
	var sp StatePayload
	if err := json.Unmarshal(fc.msgs[0].payload, &sp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !sp.On || sp.ColorName != "cyan" || sp.Color != [3]int{0, 255, 255} || sp.LedCount != 60 {
		t.Errorf("payload = %+v", sp)
	}
}

func TestFramePayloadIsFlat(t *testing.T) {
	p := NewFramePayload(7, time.Unix(0, 0), scaledZero, metricsZero, impact.Frame{Intensity: 42, Contact: true})
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"seq", "time", "scaled", "total_accel", "combined_score", "intensity", "flash", "contact", "difference"} {
		if _, ok := m[k]; !ok {
			t.Errorf("payload lacks %q: %s", k, b)
		}
	}
	if m["intensity"].(float64) != 42 {
		t.Errorf("intensity = %v", m["intensity"])
	}
}
