package systems

import (
	"github.com/decker502/neonpulse/pkg/config"
	"github.com/decker502/neonpulse/pkg/entities"
	"github.com/decker502/neonpulse/pkg/utils"
)

// EchoEntry 回声图层中的一条记录
type EchoEntry struct {
	X, Y float64
	Hue  float64
	At   float64 // 记录时刻（毫秒）
}

// EchoSystem 管理回声图层：有界 FIFO 记录历次生成位置，渲染为缓慢淡出的暗点
//
// 与实体池相互独立，只在会话重置时清空。
type EchoSystem struct {
	cfg     config.EchoConfig
	entries []EchoEntry // 环形缓冲区
	head    int         // 最旧记录的下标
	count   int
	alpha   float64 // 整体亮度，每次记录增加 AlphaStep，上限 1
}

// NewEchoSystem 创建回声系统
func NewEchoSystem(cfg config.EchoConfig) *EchoSystem {
	return &EchoSystem{
		cfg:     cfg,
		entries: make([]EchoEntry, cfg.Capacity),
	}
}

// Log 追加一条记录，超出容量时淘汰最旧的一条
func (s *EchoSystem) Log(x, y, hue, now float64) {
	e := EchoEntry{X: x, Y: y, Hue: hue, At: now}
	capacity := len(s.entries)
	if s.count < capacity {
		s.entries[(s.head+s.count)%capacity] = e
		s.count++
	} else {
		s.entries[s.head] = e
		s.head = (s.head + 1) % capacity
	}
	s.alpha += s.cfg.AlphaStep
	if s.alpha > 1 {
		s.alpha = 1
	}
}

// Len 返回记录数量
func (s *EchoSystem) Len() int {
	return s.count
}

// Alpha 返回整体亮度
func (s *EchoSystem) Alpha() float64 {
	return s.alpha
}

// Entries 按从旧到新的顺序返回所有记录的副本
func (s *EchoSystem) Entries() []EchoEntry {
	out := make([]EchoEntry, 0, s.count)
	s.each(func(e EchoEntry) { out = append(out, e) })
	return out
}

func (s *EchoSystem) each(fn func(EchoEntry)) {
	capacity := len(s.entries)
	for i := 0; i < s.count; i++ {
		fn(s.entries[(s.head+i)%capacity])
	}
}

// EntryAlpha 计算记录在 now 时刻的透明度
// alpha = clamp(整体亮度 × (1 − 年龄/视界 × falloff), 0, maxAlpha)
func (s *EchoSystem) EntryAlpha(e EchoEntry, now float64) float64 {
	age := (now - e.At) / (s.cfg.HorizonSeconds * 1000)
	a := s.alpha * (1 - age*s.cfg.AgeFalloff)
	if a < 0 {
		return 0
	}
	if a > s.cfg.MaxAlpha {
		return s.cfg.MaxAlpha
	}
	return a
}

// Render 绘制回声图层
func (s *EchoSystem) Render(c entities.Canvas, now float64) {
	if s.alpha <= 0 || s.count == 0 {
		return
	}
	r := s.cfg.Diameter / 2
	s.each(func(e EchoEntry) {
		a := s.EntryAlpha(e, now)
		if a <= 0 {
			return
		}
		c.FillCircle(e.X, e.Y, r, utils.HSBA(e.Hue, 0.8, 0.3, a))
	})
}

// Clear 清空所有记录并重置亮度
func (s *EchoSystem) Clear() {
	for i := range s.entries {
		s.entries[i] = EchoEntry{}
	}
	s.head = 0
	s.count = 0
	s.alpha = 0
}
