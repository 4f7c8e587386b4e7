package app

import (
	"testing"

	"github.com/relabs-tech/lightsaber/internal/telemetry"
)

func seqs(frames []telemetry.FramePayload) []uint64 {
	out := make([]uint64, len(frames))
	for i, f := range frames {
		out[i] = f.Seq
	}
	return out
}

func equalSeqs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFrameHistory(t *testing.T) {
	tests := []struct {
		name   string
		cap    int
		pushes int
		want   []uint64
	}{
		{"empty", 3, 0, []uint64{}},
		{"partial", 3, 2, []uint64{1, 2}},
		{"exactly full", 3, 3, []uint64{1, 2, 3}},
		{"wrapped", 3, 5, []uint64{3, 4, 5}},
		{"zero capacity holds one", 0, 2, []uint64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFrameHistory(tt.cap)
			for i := 1; i <= tt.pushes; i++ {
				h.Push(telemetry.FramePayload{Seq: uint64(i)})
			}
			if got := seqs(h.Slice()); !equalSeqs(got, tt.want) {
				t.Errorf("Slice = %v, want %v", got, tt.want)
			}
			if h.Len() != len(tt.want) {
				t.Errorf("Len = %d, want %d", h.Len(), len(tt.want))
			}
		})
	}
}

func TestFrameHistoryLast(t *testing.T) {
	h := newFrameHistory(4)
	for i := 1; i <= 6; i++ {
		h.Push(telemetry.FramePayload{Seq: uint64(i)})
	}
	if got := seqs(h.Last(2)); !equalSeqs(got, []uint64{5, 6}) {
		t.Errorf("Last(2) = %v, want [5 6]", got)
	}
	if got := seqs(h.Last(10)); !equalSeqs(got, []uint64{3, 4, 5, 6}) {
		t.Errorf("Last(10) = %v, want [3 4 5 6]", got)
	}
}
