package utils

import (
	"bytes"
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// monoWidth 每个字符 10 像素
func monoWidth(s string) float64 {
	return float64(len([]rune(s))) * 10
}

// TestWrapWords 测试文本换行功能
func TestWrapWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth float64
		want     []string
	}{
		{"短文本不换行", "calm hands", 200, []string{"calm hands"}},
		{"按单词换行", "an even unhurried rhythm", 100, []string{"an even", "unhurried", "rhythm"}},
		{"合并空白", "a   b", 100, []string{"a b"}},
		{"超长单词强制断行", "abcdefghijkl", 50, []string{"abcde", "fghij", "kl"}},
		{"空文本", "", 100, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapWords(tt.input, tt.maxWidth, monoWidth)
			if !slices.Equal(got, tt.want) {
				t.Errorf("WrapWords(%q, %v) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

// TestWrapTextFont 使用内置字体时每行不超过最大宽度
func TestWrapTextFont(t *testing.T) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		t.Fatalf("NewGoTextFaceSource() error: %v", err)
	}
	face := &text.GoTextFace{Source: src, Size: 18}

	lines := WrapText("Your keys wandered everywhere, restless and bright, like sparks that never settle.", face, 240)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", lines)
	}
	for _, l := range lines {
		if w, _ := text.Measure(l, face, 0); w > 240 {
			t.Errorf("line %q is %.1f px wide", l, w)
		}
	}
	if got := WrapText("x", nil, 10); !slices.Equal(got, []string{"x"}) {
		t.Errorf("WrapText(nil face) = %q", got)
	}
}
