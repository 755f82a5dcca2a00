package entities

import (
	"github.com/decker502/neonpulse/pkg/utils"
)

// SparkShape 火花形状
type SparkShape int

const (
	// SparkDot 实心圆点
	SparkDot SparkShape = iota
	// SparkPlus "+" 形
	SparkPlus
)

// String 返回形状名
func (s SparkShape) String() string {
	if s == SparkPlus {
		return "plus"
	}
	return "dot"
}

// SparkParams 火花参数
type SparkParams struct {
	X, Y          float64
	Hue           float64
	VX, VY        float64 // 初速度（像素/秒）
	Radius        float64
	Life          float64
	Shape         SparkShape
	VelocityDecay float64 // 每帧速度衰减系数，默认 0.94
}

// Spark 从爆发点飞散并减速的小粒子
type Spark struct {
	Base
	VX, VY float64
	Radius float64
	Shape  SparkShape
	decay  float64
}

// NewSpark 创建火花
func NewSpark(p SparkParams) *Spark {
	decay := p.VelocityDecay
	if decay <= 0 {
		decay = 0.94
	}
	return &Spark{
		Base:   Base{X: p.X, Y: p.Y, Hue: utils.WrapHue(p.Hue), Life: p.Life},
		VX:     p.VX,
		VY:     p.VY,
		Radius: p.Radius,
		Shape:  p.Shape,
		decay:  decay,
	}
}

// Advance 移动并衰减速度
func (s *Spark) Advance(dt float64) bool {
	if !s.step(dt) {
		return false
	}
	s.X += s.VX * dt
	s.Y += s.VY * dt
	k := utils.FrameDecay(s.decay, dt)
	s.VX *= k
	s.VY *= k
	return true
}

// Render 绘制圆点或十字
func (s *Spark) Render(c Canvas) {
	if s.done {
		return
	}
	a := 1 - s.Progress()
	clr := utils.HSBA(s.Hue, 0.7, 1.0, a)
	switch s.Shape {
	case SparkPlus:
		arm := s.Radius * 1.8
		c.StrokeLine(s.X-arm, s.Y, s.X+arm, s.Y, 1.5, clr)
		c.StrokeLine(s.X, s.Y-arm, s.X, s.Y+arm, 1.5, clr)
	default:
		c.FillCircle(s.X, s.Y, s.Radius, clr)
	}
}
