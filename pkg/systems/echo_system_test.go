package systems

import (
	"math"
	"testing"

	"github.com/decker502/neonpulse/pkg/config"
)

func testEchoConfig(capacity int) config.EchoConfig {
	return config.EchoConfig{
		Capacity:       capacity,
		HorizonSeconds: 20,
		AgeFalloff:     0.25,
		AlphaStep:      0.05,
		MaxAlpha:       0.5,
		Diameter:       22,
	}
}

// TestEchoFIFOEviction 超出容量时淘汰最旧记录，其余按顺序保留
func TestEchoFIFOEviction(t *testing.T) {
	e := NewEchoSystem(testEchoConfig(3))
	for i := 0; i < 5; i++ {
		e.Log(float64(i), 0, 0, float64(i*100))
	}
	if e.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", e.Len())
	}
	got := e.Entries()
	for i, want := range []float64{2, 3, 4} {
		if got[i].X != want {
			t.Errorf("Entries()[%d].X = %v, want %v", i, got[i].X, want)
		}
	}
}

func TestEchoAlphaStepCapped(t *testing.T) {
	e := NewEchoSystem(testEchoConfig(800))
	e.Log(0, 0, 0, 0)
	if math.Abs(e.Alpha()-0.05) > 1e-9 {
		t.Errorf("Alpha() after one log = %v, want 0.05", e.Alpha())
	}
	for i := 0; i < 40; i++ {
		e.Log(0, 0, 0, 0)
	}
	if e.Alpha() != 1 {
		t.Errorf("Alpha() = %v, want capped at 1", e.Alpha())
	}
}

func TestEchoEntryAlpha(t *testing.T) {
	e := NewEchoSystem(testEchoConfig(800))
	for i := 0; i < 20; i++ {
		e.Log(0, 0, 0, 0)
	}
	entry := EchoEntry{At: 0}

	tests := []struct {
		name string
		now  float64
		want float64
	}{
		{"新记录受上限约束", 0, 0.5},
		{"20 秒后衰减 25%", 20000, 0.5},
		{"80 秒后", 80000, 0},
		{"很久以前", 200000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.EntryAlpha(entry, tt.now); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EntryAlpha(now=%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	// 整体亮度较低时不受上限影响
	low := NewEchoSystem(testEchoConfig(800))
	low.Log(0, 0, 0, 0) // alpha 0.05
	if got := low.EntryAlpha(entry, 40000); math.Abs(got-0.05*0.5) > 1e-9 {
		t.Errorf("EntryAlpha(40s) = %v, want %v", got, 0.05*0.5)
	}
}

func TestEchoClear(t *testing.T) {
	e := NewEchoSystem(testEchoConfig(4))
	for i := 0; i < 6; i++ {
		e.Log(1, 2, 3, 4)
	}
	e.Clear()
	if e.Len() != 0 || e.Alpha() != 0 {
		t.Errorf("after Clear: Len=%d Alpha=%v, want 0/0", e.Len(), e.Alpha())
	}
	e.Log(9, 9, 9, 9)
	if got := e.Entries(); len(got) != 1 || got[0].X != 9 {
		t.Errorf("Entries() after Clear+Log = %v", got)
	}
}
