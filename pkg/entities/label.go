package entities

import (
	"math"

	"github.com/decker502/neonpulse/pkg/utils"
)

// LabelParams 浮动文字参数
type LabelParams struct {
	X, Y       float64
	Hue        float64
	Text       string
	VX, VY     float64 // 漂移速度（像素/秒）
	Size       float64 // 初始字号
	Growth     float64 // 寿命结束时的字号增量比例（0.15 表示放大 15%）
	Life       float64
	WobbleAmp  float64 // 水平摆动幅度（像素）
	WobbleFreq float64 // 摆动角频率（弧度/秒）
}

// Label 按键时浮现并缓慢漂走的文字
type Label struct {
	Base
	Text   string
	VX, VY float64

	baseX      float64
	size       float64
	growth     float64
	wobbleAmp  float64
	wobbleFreq float64
}

// NewLabel 创建浮动文字
func NewLabel(p LabelParams) *Label {
	return &Label{
		Base:       Base{X: p.X, Y: p.Y, Hue: utils.WrapHue(p.Hue), Life: p.Life},
		Text:       p.Text,
		VX:         p.VX,
		VY:         p.VY,
		baseX:      p.X,
		size:       p.Size,
		growth:     p.Growth,
		wobbleAmp:  p.WobbleAmp,
		wobbleFreq: p.WobbleFreq,
	}
}

// Advance 漂移并叠加水平摆动
func (l *Label) Advance(dt float64) bool {
	if !l.step(dt) {
		return false
	}
	l.baseX += l.VX * dt
	l.Y += l.VY * dt
	l.X = l.baseX + math.Sin(l.Age*l.wobbleFreq)*l.wobbleAmp
	return true
}

// Size 当前字号，随年龄线性增大
func (l *Label) Size() float64 {
	return l.size * (1 + l.growth*l.Progress())
}

// Render 绘制居中文字
func (l *Label) Render(c Canvas) {
	if l.done || l.Text == "" {
		return
	}
	t := l.Progress()
	a := (1 - t*t) * 0.9
	c.DrawText(l.Text, l.X, l.Y, l.Size(), utils.HSBA(l.Hue, 0.5, 1.0, a))
}
