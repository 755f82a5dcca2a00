package game

import (
	"fmt"
	"strings"
)

// MicMode 麦克风来源
type MicMode string

const (
	// MicOff 不使用麦克风，电平恒为 0
	MicOff MicMode = "off"
	// MicLoopback 以合成器输出电平代替麦克风输入
	MicLoopback MicMode = "loopback"
)

// ParseMicMode 解析命令行或设置中的麦克风模式
func ParseMicMode(s string) (MicMode, error) {
	switch MicMode(strings.ToLower(strings.TrimSpace(s))) {
	case MicOff, "":
		return MicOff, nil
	case MicLoopback:
		return MicLoopback, nil
	}
	return MicOff, fmt.Errorf("unknown mic mode %q (want off or loopback)", s)
}

// MicSource 提供 [0, 1] 范围的原始输入电平
type MicSource interface {
	Level() float64
}

// Leveler 能报告自身输出电平的对象，例如 Synth
type Leveler interface {
	Level() float64
}

// SilentMic 恒为 0 的麦克风
type SilentMic struct{}

// Level 实现 MicSource
func (SilentMic) Level() float64 { return 0 }

// LoopbackMic 读取合成器输出电平并放大到便于驱动脉冲的范围
type LoopbackMic struct {
	Source Leveler
	Gain   float64
}

// Level 实现 MicSource
func (m *LoopbackMic) Level() float64 {
	if m.Source == nil {
		return 0
	}
	v := m.Source.Level() * m.Gain
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// NewMicSource 按模式创建麦克风
func NewMicSource(mode MicMode, src Leveler) MicSource {
	if mode == MicLoopback && src != nil {
		return &LoopbackMic{Source: src, Gain: 2.5}
	}
	return SilentMic{}
}
