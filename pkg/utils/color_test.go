package utils

import (
	"math"
	"testing"
)

func TestWrapHue(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"范围内", 200, 200},
		{"正好一圈", 360, 0},
		{"超出一圈", 400, 40},
		{"负值", -20, 340},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapHue(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WrapHue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestHSBA 验证纯色相的换算结果
func TestHSBA(t *testing.T) {
	tests := []struct {
		name                       string
		h, s, b, a                 float64
		wantR, wantG, wantB, wantA uint8
	}{
		{"红色", 0, 1, 1, 1, 255, 0, 0, 255},
		{"绿色", 120, 1, 1, 1, 0, 255, 0, 255},
		{"蓝色", 240, 1, 1, 0.5, 0, 0, 255, 128},
		{"色相回绕", 480, 1, 1, 1, 0, 255, 0, 255},
		{"透明度截断", 0, 0, 1, 2, 255, 255, 255, 255},
		{"黑色", 90, 1, 0, 1, 0, 0, 0, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := HSBA(tt.h, tt.s, tt.b, tt.a)
			if c.R != tt.wantR || c.G != tt.wantG || c.B != tt.wantB || c.A != tt.wantA {
				t.Errorf("HSBA(%v,%v,%v,%v) = %v, want {%d %d %d %d}",
					tt.h, tt.s, tt.b, tt.a, c, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func TestMapRange(t *testing.T) {
	// 顶部 -> 880Hz，底部 -> 180Hz
	if got := MapRange(0, 800, 0, 180, 880, true); got != 880 {
		t.Errorf("top = %v, want 880", got)
	}
	if got := MapRange(800, 800, 0, 180, 880, true); got != 180 {
		t.Errorf("bottom = %v, want 180", got)
	}
	if got := MapRange(1000, 800, 0, 180, 880, true); got != 180 {
		t.Errorf("below canvas = %v, want 180 (clamped)", got)
	}
	if got := MapRange(-200, 800, 0, 180, 880, true); got != 880 {
		t.Errorf("above canvas = %v, want 880 (clamped)", got)
	}
	if got := MapRange(400, 800, 0, 180, 880, false); got != 530 {
		t.Errorf("middle = %v, want 530", got)
	}
	if got := MapRange(5, 1, 1, 7, 9, false); got != 7 {
		t.Errorf("degenerate = %v, want 7", got)
	}
}

// TestFrameDecay 60fps 下等于原系数，两帧间隔等于平方
func TestFrameDecay(t *testing.T) {
	if got := FrameDecay(0.96, 1.0/60.0); math.Abs(got-0.96) > 1e-12 {
		t.Errorf("FrameDecay(0.96, 1/60) = %v, want 0.96", got)
	}
	if got := FrameDecay(0.96, 2.0/60.0); math.Abs(got-0.96*0.96) > 1e-12 {
		t.Errorf("FrameDecay(0.96, 2/60) = %v, want %v", got, 0.96*0.96)
	}
	if got := FrameDecay(0.5, 0); got != 1 {
		t.Errorf("FrameDecay(0.5, 0) = %v, want 1", got)
	}
}
