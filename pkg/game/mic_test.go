package game

import "testing"

type fixedLevel float64

func (f fixedLevel) Level() float64 { return float64(f) }

func TestParseMicMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MicMode
		wantErr bool
	}{
		{"off", MicOff, false},
		{"", MicOff, false},
		{"Loopback", MicLoopback, false},
		{" loopback ", MicLoopback, false},
		{"usb", MicOff, true},
	}
	for _, tt := range tests {
		got, err := ParseMicMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMicMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestMicSources(t *testing.T) {
	if got := NewMicSource(MicOff, fixedLevel(0.5)).Level(); got != 0 {
		t.Errorf("off mic level = %v, want 0", got)
	}
	if got := NewMicSource(MicLoopback, nil).Level(); got != 0 {
		t.Errorf("loopback without source = %v, want 0", got)
	}
	if got := NewMicSource(MicLoopback, fixedLevel(0.2)).Level(); got != 0.5 {
		t.Errorf("loopback level = %v, want 0.5", got)
	}
	if got := NewMicSource(MicLoopback, fixedLevel(0.9)).Level(); got != 1 {
		t.Errorf("loopback level = %v, want clamped 1", got)
	}
}
