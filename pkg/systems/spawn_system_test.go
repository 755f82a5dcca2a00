package systems

import (
	"math"
	"testing"

	"github.com/decker502/neonpulse/pkg/entities"
)

// TestSpawnAtLayers 一次爆发生成三层共享原点、色相与边数的多边形和一个准星
func TestSpawnAtLayers(t *testing.T) {
	s := newSketch(t)
	s.clock.Set(1234)
	s.spawn.SpawnAt(300, 200, 250)

	polys := s.pools.Polys.Items()
	if len(polys) != 3 {
		t.Fatalf("polys = %d, want 3", len(polys))
	}
	if s.pools.Crosshairs.Len() != 1 {
		t.Errorf("crosshairs = %d, want 1", s.pools.Crosshairs.Len())
	}
	for i, p := range polys {
		if p.X != 300 || p.Y != 200 || p.Hue != 250 || p.Sides != polys[0].Sides {
			t.Errorf("layer %d = (%v, %v) hue %v sides %d", i, p.X, p.Y, p.Hue, p.Sides)
		}
		if p.Sides < 3 || p.Sides > 8 {
			t.Errorf("layer %d sides = %d", i, p.Sides)
		}
	}

	primary, secondary, tertiary := polys[0], polys[1], polys[2]
	if primary.Size < 40 || primary.Size >= 75 {
		t.Errorf("primary size = %v, want in [40, 75)", primary.Size)
	}
	if math.Abs(secondary.Size-primary.Size*0.6) > 1e-9 || math.Abs(tertiary.Size-primary.Size*1.2) > 1e-9 {
		t.Errorf("layer sizes = %v, %v, %v", primary.Size, secondary.Size, tertiary.Size)
	}
	if math.Abs(secondary.Life-primary.Life*0.9) > 1e-9 || math.Abs(tertiary.Life-primary.Life*1.2) > 1e-9 {
		t.Errorf("layer lives = %v, %v, %v", primary.Life, secondary.Life, tertiary.Life)
	}
	if math.Abs(secondary.Growth()-primary.Growth()*1.2) > 1e-9 {
		t.Errorf("secondary growth = %v, want %v", secondary.Growth(), primary.Growth()*1.2)
	}
	if primary.Alpha != 0.85 || secondary.Alpha != 0.75 || tertiary.Alpha != 0.5 {
		t.Errorf("alphas = %v, %v, %v", primary.Alpha, secondary.Alpha, tertiary.Alpha)
	}
	if math.Abs(secondary.Spin()) > 0.02 || math.Abs(primary.Spin()) > 0.01 {
		t.Errorf("spins = %v, %v", primary.Spin(), secondary.Spin())
	}

	entries := s.echo.Entries()
	if len(entries) != 1 || entries[0].X != 300 || entries[0].Y != 200 || entries[0].At != 1234 {
		t.Errorf("echo entries = %+v", entries)
	}
	if s.pulse.Activity() <= 0 {
		t.Error("pulse activity not bumped")
	}
}

func TestSparkCount(t *testing.T) {
	tests := []struct {
		count, scale float64
		want         int
	}{
		{10, 1, 10},
		{10, 0.5, 5},
		{7, 0.5, 4},
		{7, 0.01, 1},
		{13.6, 1, 14},
	}
	for _, tt := range tests {
		if got := SparkCount(tt.count, tt.scale); got != tt.want {
			t.Errorf("SparkCount(%v, %v) = %d, want %d", tt.count, tt.scale, got, tt.want)
		}
	}
}

func TestSpawnSparks(t *testing.T) {
	s := newSketch(t)
	s.spawn.SetPlusBias(1)
	s.spawn.SpawnSparks(0, 0, 100, 1)

	n := s.pools.Sparks.Len()
	if n < 7 || n > 14 {
		t.Fatalf("sparks = %d, want 7..14", n)
	}
	for _, sp := range s.pools.Sparks.Items() {
		speed := math.Hypot(sp.VX, sp.VY)
		if speed < 60-1e-9 || speed > 220 {
			t.Errorf("speed = %v, want [60, 220)", speed)
		}
		if sp.Shape != entities.SparkPlus {
			t.Errorf("shape = %s, want plus with bias 1", sp.Shape)
		}
		d := math.Abs(sp.Hue - 100)
		if d > 20+1e-9 {
			t.Errorf("hue = %v, want within 20 of 100", sp.Hue)
		}
	}

	s.pools.Clear()
	s.spawn.SetPlusBias(0)
	s.spawn.SpawnSparks(0, 0, 100, 0.5)
	for _, sp := range s.pools.Sparks.Items() {
		if sp.Shape != entities.SparkDot {
			t.Errorf("shape = %s, want dot with bias 0", sp.Shape)
		}
		if speed := math.Hypot(sp.VX, sp.VY); speed > 110 {
			t.Errorf("half-scale speed = %v, want < 110", speed)
		}
	}
}

func TestLabelTextFallback(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Label.LiteralChance = 0
	cfg.Mood.Vocabulary["calm"] = nil
	s := newSketchWithConfig(t, cfg)

	if got := s.spawn.LabelText("k", "calm"); got != "k" {
		t.Errorf("LabelText with empty vocabulary = %q, want k", got)
	}
	got := s.spawn.LabelText("k", "excited")
	found := false
	for _, w := range cfg.Mood.Vocabulary["excited"] {
		if w == got {
			found = true
		}
	}
	if !found {
		t.Errorf("LabelText = %q, want a word from the excited vocabulary", got)
	}
}

// TestHueFor 底部 200°、顶部 330°，叠加情绪偏移
func TestHueFor(t *testing.T) {
	s := newSketch(t)
	tests := []struct {
		name string
		y    float64
		mood string
		want float64
	}{
		{"底部", 800, "unlabeled", 200},
		{"顶部", 0, "unlabeled", 330},
		{"中间", 400, "unlabeled", 265},
		{"越界被限制", 2000, "unlabeled", 200},
		{"情绪偏移回绕", 0, "excited", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.spawn.HueFor(tt.y, tt.mood); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("HueFor(%v, %s) = %v, want %v", tt.y, tt.mood, got, tt.want)
			}
		})
	}
}

func TestInstrumentCycle(t *testing.T) {
	s := newSketch(t)
	if got := s.spawn.Instrument().Name; got != "neon" {
		t.Fatalf("initial instrument = %s, want neon", got)
	}
	if got := s.spawn.CycleInstrument(); got != "glass" {
		t.Errorf("CycleInstrument() = %s, want glass", got)
	}
	if got := s.spawn.HueFor(800, "unlabeled"); math.Abs(got-160) > 1e-9 {
		t.Errorf("HueFor with glass = %v, want 160", got)
	}
	for i := 0; i < 10; i++ {
		s.spawn.SpawnAt(0, 0, 0)
	}
	for _, p := range s.pools.Polys.Items() {
		if p.Sides != 3 && p.Sides != 6 {
			t.Errorf("glass poly sides = %d, want 3 or 6", p.Sides)
		}
	}
	s.spawn.CycleInstrument()
	if got := s.spawn.CycleInstrument(); got != "neon" {
		t.Errorf("cycle wrapped to %s, want neon", got)
	}
	if s.spawn.SetInstrument("tuba") {
		t.Error("SetInstrument accepted an unknown name")
	}
	if !s.spawn.SetInstrument("pad") || s.spawn.Instrument().Name != "pad" {
		t.Error("SetInstrument(pad) failed")
	}
}

// TestPoolsAdvanceRemovesFinished 所有实体结束后实体池为空
func TestPoolsAdvanceRemovesFinished(t *testing.T) {
	s := newSketch(t)
	s.spawn.Burst(100, 100, 200, 1)
	s.spawn.SpawnLabel(100, 100, 200, "a", "calm")
	s.spawn.SpawnLink(0, 0, 100, 100, 200)
	if s.pools.Len() == 0 {
		t.Fatal("nothing spawned")
	}
	for i := 0; i < 60*3; i++ {
		s.pools.Advance(1.0 / 60)
	}
	if s.pools.Len() != 0 {
		t.Errorf("pools still hold %d entities after 3s", s.pools.Len())
	}
}
