package entities

import (
	"math"

	"github.com/decker502/neonpulse/pkg/utils"
)

// KeyLinkParams 按键连线参数
type KeyLinkParams struct {
	X0, Y0    float64 // 上一个按键位置
	X1, Y1    float64 // 当前按键位置
	Hue       float64
	Life      float64 // 默认 0.9s
	Spacing   float64 // 每个标记点对应的距离，默认 40
	MinSteps  int     // 最少标记点数，默认 6
	DrawIn    float64 // 全部标记点出现所需的寿命比例，默认 0.6
	DotRadius float64
}

// KeyLink 连接相邻两次按键位置的点线，标记点随年龄逐个出现
type KeyLink struct {
	Base
	X1, Y1    float64
	Steps     int
	drawIn    float64
	dotRadius float64
}

// LinkSteps 返回两点间的标记点数量：max(minSteps, floor(距离/spacing))
func LinkSteps(x0, y0, x1, y1, spacing float64, minSteps int) int {
	if spacing <= 0 {
		return minSteps
	}
	n := int(math.Hypot(x1-x0, y1-y0) / spacing)
	if n < minSteps {
		return minSteps
	}
	return n
}

// NewKeyLink 创建按键连线
func NewKeyLink(p KeyLinkParams) *KeyLink {
	drawIn := p.DrawIn
	if drawIn <= 0 || drawIn > 1 {
		drawIn = 0.6
	}
	return &KeyLink{
		Base:      Base{X: p.X0, Y: p.Y0, Hue: utils.WrapHue(p.Hue), Life: p.Life},
		X1:        p.X1,
		Y1:        p.Y1,
		Steps:     LinkSteps(p.X0, p.Y0, p.X1, p.Y1, p.Spacing, p.MinSteps),
		drawIn:    drawIn,
		dotRadius: p.DotRadius,
	}
}

// Advance 推进年龄
func (k *KeyLink) Advance(dt float64) bool {
	return k.step(dt)
}

// Visible 返回当前已经出现的标记点数量
func (k *KeyLink) Visible() int {
	t := k.Age / (k.Life * k.drawIn)
	if t >= 1 {
		return k.Steps
	}
	n := int(math.Ceil(float64(k.Steps) * t))
	if n < 0 {
		return 0
	}
	return n
}

// Point 返回第 i 个标记点的位置，首尾两点分别落在两个端点上
func (k *KeyLink) Point(i int) (float64, float64) {
	t := 0.0
	if k.Steps > 1 {
		t = float64(i) / float64(k.Steps-1)
	}
	return utils.Lerp(k.X, k.X1, t), utils.Lerp(k.Y, k.Y1, t)
}

// Render 绘制已出现的标记点及其连线
func (k *KeyLink) Render(c Canvas) {
	if k.done {
		return
	}
	n := k.Visible()
	if n == 0 {
		return
	}
	a := 1 - k.Progress()
	lineClr := utils.HSBA(k.Hue, 0.8, 0.7, a*0.35)
	dotClr := utils.HSBA(k.Hue, 0.6, 1.0, a)

	lx, ly := k.Point(n - 1)
	c.StrokeLine(k.X, k.Y, lx, ly, 1, lineClr)
	for i := 0; i < n; i++ {
		x, y := k.Point(i)
		c.FillCircle(x, y, k.dotRadius, dotClr)
	}
}
