package game

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/decker502/neonpulse/pkg/config"
)

// PluckGenerator 三角波拨弦音：短促的线性起音后按指数衰减
type PluckGenerator struct {
	sr     beep.SampleRate
	freq   float64
	amp    float64
	attack float64 // 秒
	decay  float64 // 衰减时间常数（秒）
	pos    int
}

// NewPluckGenerator 创建拨弦音发生器
func NewPluckGenerator(sr beep.SampleRate, freq, amp, attack, decay float64) *PluckGenerator {
	return &PluckGenerator{sr: sr, freq: freq, amp: amp, attack: attack, decay: decay}
}

// Envelope 返回 t 秒处的包络值
func (g *PluckGenerator) Envelope(t float64) float64 {
	if g.attack > 0 && t < g.attack {
		return t / g.attack
	}
	if g.decay <= 0 {
		return 0
	}
	return math.Exp(-(t - g.attack) / g.decay)
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4*math.Abs(p-0.5) - 1
}

func (g *PluckGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		v := triangle(g.freq*t) * g.Envelope(t) * g.amp
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *PluckGenerator) Err() error {
	return nil
}

// Synth 把多个拨弦音混合成 16 位小端立体声 PCM 流
//
// Read 在音频线程中调用，Pluck 在游戏线程中调用，两者通过互斥锁保护混音器。
// 最近一次输出的 RMS 电平以原子方式发布，供回环麦克风读取。
type Synth struct {
	mu     sync.Mutex
	cfg    config.PluckConfig
	sr     beep.SampleRate
	mixer  *beep.Mixer
	buf    [][2]float64
	volume float64
	level  atomic.Uint64
}

// NewSynth 创建合成器
func NewSynth(cfg config.PluckConfig) *Synth {
	return &Synth{
		cfg:    cfg,
		sr:     beep.SampleRate(cfg.SampleRate),
		mixer:  &beep.Mixer{},
		volume: 1,
	}
}

// SampleRate 采样率
func (s *Synth) SampleRate() int {
	return int(s.sr)
}

// Pluck 加入一个拨弦音，频率限制在配置范围内
func (s *Synth) Pluck(freq, amp float64) {
	freq = math.Max(s.cfg.MinFreq, math.Min(s.cfg.MaxFreq, freq))
	gen := NewPluckGenerator(s.sr, freq, amp, s.cfg.Attack, s.cfg.Decay)
	stop := time.Duration(s.cfg.Stop * float64(time.Second))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mixer.Add(beep.Take(s.sr.N(stop), gen))
}

// Voices 正在发声的拨弦音数量
func (s *Synth) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mixer.Len()
}

// SetVolume 设置输出音量 [0, 1]
func (s *Synth) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = clampVolume(v)
}

// Level 最近一次输出的 RMS 电平
func (s *Synth) Level() float64 {
	return math.Float64frombits(s.level.Load())
}

// Read 实现 io.Reader，输出 16 位小端立体声，永不结束
func (s *Synth) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	if cap(s.buf) < frames {
		s.buf = make([][2]float64, frames)
	}
	buf := s.buf[:frames]

	s.mu.Lock()
	for i := range buf {
		buf[i] = [2]float64{}
	}
	s.mixer.Stream(buf)
	vol := s.volume
	s.mu.Unlock()

	var sum float64
	for i, f := range buf {
		l := clampSample(f[0] * vol)
		r := clampSample(f[1] * vol)
		sum += l * l
		binary.LittleEndian.PutUint16(p[i*4:], uint16(int16(l*math.MaxInt16)))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(int16(r*math.MaxInt16)))
	}
	s.level.Store(math.Float64bits(math.Sqrt(sum / float64(frames))))
	return frames * 4, nil
}

func clampSample(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
