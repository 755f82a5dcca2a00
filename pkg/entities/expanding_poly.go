package entities

import (
	"github.com/decker502/neonpulse/pkg/utils"
)

// PolyParams 扩张多边形的构造参数
//
// 零值字段不会自动补默认值，请从 DefaultPolyParams 开始修改。
type PolyParams struct {
	X, Y   float64
	Hue    float64
	Sides  int     // 边数，小于 3 时按 3 处理
	Size   float64 // 初始直径（像素）
	Growth float64 // 直径增长（像素/帧，60fps 基准）
	Life   float64 // 寿命（秒）

	Thickness      float64 // 初始描边宽度
	ThicknessDecay float64 // 描边每帧衰减系数
	Alpha          float64 // 初始透明度
	AlphaDecay     float64 // 透明度每帧衰减系数
	Glow           float64 // 光晕模糊半径
	Spin           float64 // 旋转速度（弧度/帧）
	Filled         bool

	Saturation     float64
	Brightness     float64
	GlowBrightness float64
}

// DefaultPolyParams 返回默认参数
//
// 默认值：6 边、直径 50、增长 5、寿命 1.2s、描边 12（×0.985/帧）、
// 透明度 0.85（×0.96/帧）、光晕 28、描边颜色 HSB(h, 1.0, 0.8)、光晕亮度 0.6。
func DefaultPolyParams(x, y, hue float64) PolyParams {
	return PolyParams{
		X:              x,
		Y:              y,
		Hue:            hue,
		Sides:          6,
		Size:           50,
		Growth:         5,
		Life:           1.2,
		Thickness:      12,
		ThicknessDecay: 0.985,
		Alpha:          0.85,
		AlphaDecay:     0.96,
		Glow:           28,
		Saturation:     1.0,
		Brightness:     0.8,
		GlowBrightness: 0.6,
	}
}

// ExpandingPoly 逐渐扩大并淡出的霓虹多边形
type ExpandingPoly struct {
	Base
	Sides     int
	Size      float64
	Thickness float64
	Alpha     float64
	Rotation  float64
	Filled    bool

	growth         float64
	spin           float64
	thicknessDecay float64
	alphaDecay     float64
	glow           float64
	saturation     float64
	brightness     float64
	glowBrightness float64
}

// NewExpandingPoly 创建扩张多边形
func NewExpandingPoly(p PolyParams) *ExpandingPoly {
	sides := p.Sides
	if sides < 3 {
		sides = 3
	}
	return &ExpandingPoly{
		Base:           Base{X: p.X, Y: p.Y, Hue: utils.WrapHue(p.Hue), Life: p.Life},
		Sides:          sides,
		Size:           p.Size,
		Thickness:      p.Thickness,
		Alpha:          p.Alpha,
		Filled:         p.Filled,
		growth:         p.Growth,
		spin:           p.Spin,
		thicknessDecay: p.ThicknessDecay,
		alphaDecay:     p.AlphaDecay,
		glow:           p.Glow,
		saturation:     p.Saturation,
		brightness:     p.Brightness,
		glowBrightness: p.GlowBrightness,
	}
}

// Growth 返回直径增长速度（像素/帧）
func (p *ExpandingPoly) Growth() float64 { return p.growth }

// Spin 返回旋转速度（弧度/帧）
func (p *ExpandingPoly) Spin() float64 { return p.spin }

// Advance 推进年龄；存活时放大、变细、淡出并旋转
func (p *ExpandingPoly) Advance(dt float64) bool {
	if !p.step(dt) {
		return false
	}
	frames := dt * 60
	p.Size += p.growth * frames
	p.Thickness *= utils.FrameDecay(p.thicknessDecay, dt)
	p.Alpha *= utils.FrameDecay(p.alphaDecay, dt)
	p.Rotation += p.spin * frames
	return true
}

// Render 绘制多边形及其光晕
func (p *ExpandingPoly) Render(c Canvas) {
	if p.done {
		return
	}
	poly := Polygon{X: p.X, Y: p.Y, Radius: p.Size * 0.5, Rotation: p.Rotation, Sides: p.Sides}
	clr := utils.HSBA(p.Hue, p.saturation, p.brightness, p.Alpha)
	glow := Glow{Blur: p.glow, Color: utils.HSBA(p.Hue, p.saturation, p.glowBrightness, p.Alpha)}
	if p.Filled {
		c.FillPolygon(poly, clr, glow)
		return
	}
	c.StrokePolygon(poly, p.Thickness, clr, glow)
}
