package entities

import (
	"math"

	"github.com/decker502/neonpulse/pkg/utils"
)

// CrosshairParams 十字准星参数
type CrosshairParams struct {
	X, Y     float64
	Hue      float64
	Life     float64 // 默认 0.8s
	Arm      float64 // 臂长，默认 14
	Stroke   float64 // 线宽，默认 2
	MaxAlpha float64 // 默认 0.9
	Exponent float64 // 淡出指数，默认 1.5
}

// DefaultCrosshairParams 返回默认参数
func DefaultCrosshairParams(x, y, hue float64) CrosshairParams {
	return CrosshairParams{X: x, Y: y, Hue: hue, Life: 0.8, Arm: 14, Stroke: 2, MaxAlpha: 0.9, Exponent: 1.5}
}

// Crosshair 标记点击位置的十字
type Crosshair struct {
	Base
	arm      float64
	stroke   float64
	maxAlpha float64
	exponent float64
}

// NewCrosshair 创建十字准星
func NewCrosshair(p CrosshairParams) *Crosshair {
	return &Crosshair{
		Base:     Base{X: p.X, Y: p.Y, Hue: utils.WrapHue(p.Hue), Life: p.Life},
		arm:      p.Arm,
		stroke:   p.Stroke,
		maxAlpha: p.MaxAlpha,
		exponent: p.Exponent,
	}
}

// Advance 推进年龄
func (c *Crosshair) Advance(dt float64) bool {
	return c.step(dt)
}

// Alpha 透明度 = (1 - 归一化年龄)^exponent × maxAlpha
func (c *Crosshair) Alpha() float64 {
	return math.Pow(1-c.Progress(), c.exponent) * c.maxAlpha
}

// Render 绘制横竖两条线段
func (c *Crosshair) Render(cv Canvas) {
	if c.done {
		return
	}
	clr := utils.HSBA(c.Hue, 0.9, 0.85, c.Alpha())
	cv.StrokeLine(c.X-c.arm, c.Y, c.X+c.arm, c.Y, c.stroke, clr)
	cv.StrokeLine(c.X, c.Y-c.arm, c.X, c.Y+c.arm, c.stroke, clr)
}
