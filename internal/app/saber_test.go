package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/relabs-tech/lightsaber/internal/button"
	"github.com/relabs-tech/lightsaber/internal/imu"
	"github.com/relabs-tech/lightsaber/internal/led"
	"github.com/relabs-tech/lightsaber/internal/saber"
)

type frameStrip struct {
	mu     sync.Mutex
	frames [][]led.Color
}

func (s *frameStrip) Push(px []led.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, append([]led.Color(nil), px...))
	return nil
}

func (s *frameStrip) Close() error { return nil }

func (s *frameStrip) last() []led.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *frameStrip) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func newTestLoop(src imu.RawSource, px *frameStrip, out *bytes.Buffer) *saberLoop {
	ctrl := saber.NewController(px, button.NewManual(), saber.Options{LedCount: 4})
	return &saberLoop{
		pipeline: NewPipeline(src),
		ctrl:     ctrl,
		logEvery: 500 * time.Millisecond,
		out:      out,
	}
}

func TestLoopFlashesLitBlade(t *testing.T) {
	px := &frameStrip{}
	var out bytes.Buffer
	l := newTestLoop(&scriptedSource{samples: []imu.RawSample{rest, swing, rest}}, px, &out)
	l.ctrl.Ignite(context.Background())
	base := px.count()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		l.tick(start.Add(time.Duration(i) * 16 * time.Millisecond))
	}

	if got := px.count() - base; got != 3 {
		t.Fatalf("pushed %d frames, want 3", got)
	}
	for _, c := range px.last() {
		if c != led.White {
			t.Fatalf("pixel %v during flash, want white", c)
		}
	}
	if l.seq != 3 {
		t.Errorf("seq = %d, want 3", l.seq)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 1 {
		t.Errorf("printed %d console lines in 32ms, want 1", lines)
	}
}

func TestLoopDarkBladeStaysDark(t *testing.T) {
	px := &frameStrip{}
	var out bytes.Buffer
	l := newTestLoop(&scriptedSource{samples: []imu.RawSample{swing, rest}}, px, &out)

	l.tick(time.Now())
	l.tick(time.Now())

	if px.count() != 0 {
		t.Errorf("pushed %d frames with the blade off", px.count())
	}
	if !strings.Contains(out.String(), "blade off") {
		t.Errorf("console line %q does not report the blade", out.String())
	}
}

func TestLoopSkipsFailedReads(t *testing.T) {
	busErr := errors.New("i2c: nack")
	src := &scriptedSource{
		samples: make([]imu.RawSample, 3),
		errs:    []error{busErr, busErr, nil},
	}
	var out bytes.Buffer
	l := newTestLoop(src, &frameStrip{}, &out)

	l.tick(time.Now())
	l.tick(time.Now())
	if l.failures != 2 || l.seq != 0 {
		t.Fatalf("failures=%d seq=%d, want 2 and 0", l.failures, l.seq)
	}
	l.tick(time.Now())
	if l.failures != 0 || l.seq != 1 {
		t.Errorf("failures=%d seq=%d after recovery, want 0 and 1", l.failures, l.seq)
	}
}

func TestConsoleLine(t *testing.T) {
	s := Sample{}
	s.Frame.Intensity = 100
	s.Frame.FlashActive = true
	line := consoleLine(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), s, true)
	for _, want := range []string{"12:00:00.000", "volume=100", "flash=true", "contact=false", "blade on"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}
