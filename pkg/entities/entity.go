// Package entities 定义草图中所有带寿命的动画实体
//
// 每种实体都实现 Entity 接口：Advance 推进年龄并更新自身的视觉参数，
// Render 通过 Canvas 绘制当前状态。实体只在自己的 Advance 中被修改。
package entities

import (
	"image/color"
)

// Entity 带寿命的动画实体
type Entity interface {
	// Advance 推进 dt 秒，返回实体是否仍然存活
	Advance(dt float64) bool
	// Done 年龄首次达到寿命后返回 true，之后不再变化
	Done() bool
	// Render 绘制当前状态
	Render(c Canvas)
}

// Polygon 以中心点描述的正多边形
type Polygon struct {
	X, Y     float64
	Radius   float64
	Rotation float64 // 弧度
	Sides    int
}

// Glow 光晕参数，Blur 为 0 表示不绘制光晕
type Glow struct {
	Blur  float64
	Color color.Color
}

// Canvas 是实体绘制所需的最小渲染接口
//
// 实现需要使用叠加（additive）混合模式，颜色为非预乘 RGBA。
type Canvas interface {
	StrokePolygon(p Polygon, width float64, clr color.Color, glow Glow)
	FillPolygon(p Polygon, clr color.Color, glow Glow)
	StrokeLine(x0, y0, x1, y1, width float64, clr color.Color)
	FillCircle(cx, cy, r float64, clr color.Color)
	// DrawText 以 (x, y) 为中心绘制文字
	DrawText(s string, x, y, size float64, clr color.Color)
}

// Base 所有实体共有的位置、色相与寿命字段
type Base struct {
	X, Y float64
	Hue  float64
	Age  float64 // 已存在时间（秒）
	Life float64 // 寿命（秒），创建时确定
	done bool
}

// Done 返回实体是否已结束
func (b *Base) Done() bool {
	return b.done
}

// Progress 返回归一化年龄 [0, 1]
func (b *Base) Progress() float64 {
	if b.Life <= 0 {
		return 1
	}
	t := b.Age / b.Life
	if t > 1 {
		return 1
	}
	return t
}

// step 推进年龄，年龄首次达到寿命时标记结束
func (b *Base) step(dt float64) bool {
	if b.done {
		return false
	}
	b.Age += dt
	if b.Age >= b.Life {
		b.done = true
	}
	return !b.done
}
