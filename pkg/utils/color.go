package utils

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// WrapHue 将色相归一化到 [0, 360)
func WrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HSBA 将 HSB 颜色加透明度转换为可直接绘制的非预乘 RGBA
//
// 参数：
//   - h: 色相（度），任意值，会被归一化到 [0, 360)
//   - s, b: 饱和度、亮度，[0, 1]
//   - a: 透明度，[0, 1]，超出范围会被截断
func HSBA(h, s, b, a float64) color.NRGBA {
	c := colorful.Hsv(WrapHue(h), Clamp01(s), Clamp01(b)).Clamped()
	r, g, bl := c.RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(Clamp01(a)*255 + 0.5)}
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MapRange 将 v 从 [inMin, inMax] 线性映射到 [outMin, outMax]
// clamp 为 true 时结果限制在输出区间内（区间可以是反向的）
func MapRange(v, inMin, inMax, outMin, outMax float64, clamp bool) float64 {
	if inMax == inMin {
		return outMin
	}
	t := (v - inMin) / (inMax - inMin)
	if clamp {
		t = Clamp01(t)
	}
	return outMin + (outMax-outMin)*t
}

// Lerp 线性插值
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// FrameDecay 将以 60fps 为基准的每帧衰减系数换算到实际帧间隔 dt（秒）
// dt = 1/60 时结果等于 factor
func FrameDecay(factor, dt float64) float64 {
	return math.Pow(factor, dt*60)
}
