package systems

import (
	"github.com/decker502/neonpulse/pkg/config"
)

// MoodSystem 根据最近的按键节奏推断情绪
//
// 维护一个固定长度的按键时间窗口，速率 = 窗口内按键数 / 窗口秒数，
// 按配置中的升序阈值映射到情绪分档。窗口内既无按键也无指针活动时为 unlabeled。
// 阈值与词表都是手工调校的常量，不代表任何统计模型。
type MoodSystem struct {
	cfg           config.MoodConfig
	keyTimes      []float64 // 窗口内的按键时刻（毫秒，升序）
	lastPointerAt float64
	hasPointer    bool
}

// NewMoodSystem 创建情绪分类器
func NewMoodSystem(cfg config.MoodConfig) *MoodSystem {
	return &MoodSystem{
		cfg:      cfg,
		keyTimes: make([]float64, 0, 64),
	}
}

// RecordKey 记录一次被接受的按键
func (s *MoodSystem) RecordKey(now float64) {
	s.keyTimes = append(s.keyTimes, now)
}

// RecordPointer 记录一次指针活动
func (s *MoodSystem) RecordPointer(now float64) {
	s.lastPointerAt = now
	s.hasPointer = true
}

func (s *MoodSystem) windowMs() float64 {
	return s.cfg.WindowSeconds * 1000
}

// prune 移除窗口之外的按键时刻
func (s *MoodSystem) prune(now float64) {
	cutoff := now - s.windowMs()
	i := 0
	for i < len(s.keyTimes) && s.keyTimes[i] < cutoff {
		i++
	}
	if i > 0 {
		s.keyTimes = append(s.keyTimes[:0], s.keyTimes[i:]...)
	}
}

// Rate 返回窗口内的按键速率（次/秒）
func (s *MoodSystem) Rate(now float64) float64 {
	s.prune(now)
	return float64(len(s.keyTimes)) / s.cfg.WindowSeconds
}

// Classify 返回 now 时刻的情绪标签
func (s *MoodSystem) Classify(now float64) string {
	rate := s.Rate(now)
	if len(s.keyTimes) == 0 {
		pointerRecent := s.hasPointer && now-s.lastPointerAt <= s.windowMs()
		if !pointerRecent {
			return s.cfg.Unlabeled
		}
	}
	return s.Band(rate)
}

// Band 将速率映射到情绪分档
func (s *MoodSystem) Band(rate float64) string {
	for _, b := range s.cfg.Bands {
		if rate < b.Below {
			return b.Name
		}
	}
	return s.cfg.Top
}

// HueShift 返回情绪对应的色相偏移
func (s *MoodSystem) HueShift(mood string) float64 {
	return s.cfg.HueShift[mood]
}

// Vocabulary 返回情绪对应的词表
func (s *MoodSystem) Vocabulary(mood string) []string {
	return s.cfg.Vocabulary[mood]
}

// PulseModifier 返回情绪对应的脉冲调制参数，未配置时返回中性值
func (s *MoodSystem) PulseModifier(mood string) config.PulseModifier {
	if m, ok := s.cfg.Pulse[mood]; ok {
		return m
	}
	return config.PulseModifier{Amplitude: 1, Jitter: 0.08, Speed: 0.6}
}

// Reset 清空窗口
func (s *MoodSystem) Reset() {
	s.keyTimes = s.keyTimes[:0]
	s.hasPointer = false
	s.lastPointerAt = 0
}
