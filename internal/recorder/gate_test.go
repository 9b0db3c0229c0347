package recorder

import (
	"errors"
	"testing"

	"github.com/triagesys/trec/internal/capture"
)

func TestGate_Check(t *testing.T) {
	audio := func(n int) capture.Audio {
		return capture.Audio{Data: make([]byte, n), Format: capture.FormatWebM}
	}

	tests := []struct {
		name   string
		audio  capture.Audio
		manual bool
		reason error
		want   Kind
	}{
		{"accepted", audio(1000), true, nil, KindNone},
		{"too short", audio(999), true, nil, KindTooShort},
		{"automatic stop", audio(50000), false, nil, KindUnexpectedStop},
		{"automatic stop beats size", audio(10), false, nil, KindUnexpectedStop},
		{"recorder failure", audio(50000), true, errors.New("pipe closed"), KindUnexpectedStop},
	}

	gate := NewGate(DefaultMinBytes)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Check(tt.audio, tt.manual, tt.reason)
			var got Kind
			if err != nil {
				got = KindOf(err)
			}
			if got != tt.want {
				t.Errorf("Check() kind = %v, want %v (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestGate_Details(t *testing.T) {
	err := NewGate(2048).Check(capture.Audio{Data: make([]byte, 100)}, true, nil)
	if err == nil {
		t.Fatal("expected rejection")
	}
	if v, _ := err.Detail("bytes"); v != 100 {
		t.Errorf("bytes detail = %v", v)
	}
	if v, _ := err.Detail("min_bytes"); v != 2048 {
		t.Errorf("min_bytes detail = %v", v)
	}

	err = NewGate(0).Check(capture.Audio{}, false, errors.New("device lost"))
	if v, _ := err.Detail("reason"); v != "device lost" {
		t.Errorf("reason detail = %v", v)
	}
}

func TestNewGate_Negative(t *testing.T) {
	if g := NewGate(-5); g.MinBytes != DefaultMinBytes {
		t.Errorf("MinBytes = %d", g.MinBytes)
	}
}

func TestNewGate_ZeroAcceptsAnySize(t *testing.T) {
	gate := NewGate(0)
	if gate.MinBytes != 0 {
		t.Fatalf("MinBytes = %d, want 0", gate.MinBytes)
	}
	if err := gate.Check(capture.Audio{Data: []byte{1}}, true, nil); err != nil {
		t.Errorf("Check() = %v, want acceptance", err)
	}
}
