package systems

import (
	"testing"

	"github.com/decker502/neonpulse/pkg/config"
)

// fakePlucker 记录音频调用
type fakePlucker struct {
	unlocks int
	freqs   []float64
	amps    []float64
}

func (p *fakePlucker) Unlock() { p.unlocks++ }

func (p *fakePlucker) Pluck(freq, amp float64) {
	p.freqs = append(p.freqs, freq)
	p.amps = append(p.amps, amp)
}

// sketch 组装好的完整系统，重置逻辑与场景一致
type sketch struct {
	cfg     *config.SketchConfig
	clock   *Clock
	pools   *Pools
	echo    *EchoSystem
	pulse   *PulseSystem
	mood    *MoodSystem
	session *SessionSystem
	spawn   *SpawnSystem
	input   *InputSystem
	plucker *fakePlucker
}

func newTestConfig(t *testing.T) *config.SketchConfig {
	t.Helper()
	cfg, err := config.DefaultSketchConfig()
	if err != nil {
		t.Fatalf("DefaultSketchConfig() error = %v", err)
	}
	return cfg
}

func newSketch(t *testing.T) *sketch {
	t.Helper()
	return newSketchWithConfig(t, newTestConfig(t))
}

func newSketchWithConfig(t *testing.T, cfg *config.SketchConfig) *sketch {
	t.Helper()
	s := &sketch{cfg: cfg, clock: &Clock{}, pools: NewPools(), plucker: &fakePlucker{}}
	s.echo = NewEchoSystem(cfg.Echo)
	s.pulse = NewPulseSystem(cfg.Pulse, 1)
	s.mood = NewMoodSystem(cfg.Mood)
	s.session = NewSessionSystem(cfg)
	s.spawn = NewSpawnSystem(cfg, 1, s.clock, s.pools, s.echo, s.pulse, s.mood)
	s.input = NewInputSystem(cfg, s.clock, s.session, s.mood, s.spawn, s.plucker)
	s.input.OnReset = func() {
		s.session.Reset()
		s.mood.Reset()
		s.pools.Clear()
		s.echo.Clear()
		s.pulse.Reset()
	}
	return s
}

// start 以 60 秒时长进入 Active
func (s *sketch) start(t *testing.T) {
	t.Helper()
	if !s.session.Start(60, s.clock.Now()) {
		t.Fatal("session did not start")
	}
}
