package scenes

import (
	"fmt"
	"image/color"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/neonpulse/pkg/systems"
	"github.com/decker502/neonpulse/pkg/utils"
)

var (
	overlayText  = color.NRGBA{R: 232, G: 234, B: 242, A: 255}
	overlayDim   = color.NRGBA{R: 140, G: 146, B: 164, A: 255}
	overlayPanel = color.NRGBA{R: 6, G: 7, B: 10, A: 190}
	overlayLine  = color.NRGBA{R: 60, G: 64, B: 80, A: 255}
)

const controlsHint = "Tab instrument   - / = volume   F8 mute   [ / ] plus sparks   F12 snapshot   Esc reset"

const (
	titleSize = 40
	bodySize  = 20
	hintSize  = 16
)

// DurationLabel 时长的简短文字
func DurationLabel(secs int) string {
	if secs >= 60 && secs%60 == 0 {
		return fmt.Sprintf("%d min", secs/60)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatRemaining 剩余毫秒格式化为 m:ss，向上取整到秒
func FormatRemaining(ms float64) string {
	secs := int(math.Ceil(math.Max(0, ms) / 1000))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// DurationChoices 按键顺序列出可选时长，如 "1: 30s"
func DurationChoices(durations map[string]int) []string {
	keys := slices.Sorted(maps.Keys(durations))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %s", k, DurationLabel(durations[k])))
	}
	return out
}

// SummaryLines 会话总结的文字行（感想单独绘制）
func SummaryLines(sum *systems.Summary) []string {
	if sum == nil {
		return nil
	}
	top := "none"
	if len(sum.TopKeys) > 0 {
		parts := make([]string, len(sum.TopKeys))
		for i, kc := range sum.TopKeys {
			parts[i] = fmt.Sprintf("%s x%d", kc.Key, kc.Count)
		}
		top = strings.Join(parts, "   ")
	}
	return []string{
		fmt.Sprintf("%d keys, %d unique", sum.TotalKeys, sum.UniqueKeys),
		fmt.Sprintf("%d taps, %d drag strokes", sum.Clicks, sum.DragSpawns),
		"top keys: " + top,
		fmt.Sprintf("tempo: %.2f keys/s", sum.Tempo),
		"mood: " + sum.Mood,
		"position: " + sum.Region,
	}
}

func (s *SketchScene) drawOverlay(now float64) {
	switch s.session.State() {
	case systems.SessionSelecting:
		s.drawIntro()
	case systems.SessionActive:
		s.drawHUD(now)
	case systems.SessionEnded:
		s.drawSummary()
	}
}

// drawIntro 时长选择界面：四个象限各标出对应时长
func (s *SketchScene) drawIntro() {
	w, h := float64(s.cfg.Canvas.Width), float64(s.cfg.Canvas.Height)
	r := s.render

	r.FillRect(0, 0, w, h, color.NRGBA{A: 120})
	r.FillRect(w/2, 0, 1, h, overlayLine)
	r.FillRect(0, h/2, w, 1, overlayLine)

	for i, secs := range s.cfg.Session.Quadrants {
		qx := w / 4 * float64(1+2*(i%2))
		qy := h / 4 * float64(1+2*(i/2))
		r.DrawOverlayText(DurationLabel(secs), qx, qy, titleSize, overlayDim, text.AlignCenter)
	}

	panelW, panelH := 560.0, 150.0
	r.FillRect((w-panelW)/2, (h-panelH)/2, panelW, panelH, overlayPanel)
	r.DrawOverlayText("neonpulse", w/2, h/2-40, titleSize, overlayText, text.AlignCenter)

	hint := "tap a quadrant to choose a session length"
	if !utils.IsMobile() {
		hint = "press " + strings.Join(DurationChoices(s.cfg.Session.Durations), "   ") + "   or click a quadrant"
	}
	r.DrawOverlayText(hint, w/2, h/2+15, hintSize, overlayDim, text.AlignCenter)
	if utils.IsMobile() {
		return
	}
	if s.settings != nil {
		if last := s.settings.GetSettings().LastDuration; last > 0 {
			r.DrawOverlayText("Enter: repeat "+DurationLabel(last), w/2, h/2+45, hintSize, overlayDim, text.AlignCenter)
		}
	}
	r.DrawOverlayText(controlsHint, w/2, h-32, hintSize, overlayDim, text.AlignCenter)
}

// drawHUD 剩余时间、情绪与乐器
func (s *SketchScene) drawHUD(now float64) {
	r := s.render
	w := float64(s.cfg.Canvas.Width)
	r.DrawOverlayText(FormatRemaining(s.session.Remaining(now)), 24, 28, bodySize, overlayText, text.AlignStart)
	r.DrawOverlayText(s.session.Mood(), 24, 54, hintSize, overlayDim, text.AlignStart)
	r.DrawOverlayText(s.spawn.Instrument().Name, w-24, 28, hintSize, overlayDim, text.AlignEnd)
	if s.notice != "" {
		r.DrawOverlayText(s.notice, w-24, 54, hintSize, overlayDim, text.AlignEnd)
	}
}

// drawSummary 会话总结面板
func (s *SketchScene) drawSummary() {
	sum := s.session.Summary()
	if sum == nil {
		return
	}
	r := s.render
	w, h := float64(s.cfg.Canvas.Width), float64(s.cfg.Canvas.Height)

	lines := SummaryLines(sum)
	maxText := 600.0
	reflection := utils.WrapText(sum.Reflection, r.Face(bodySize), maxText)

	lineH := bodySize * 1.6
	panelW := maxText + 80
	panelH := titleSize*2 + lineH*float64(len(lines)+len(reflection)+2)
	top := (h - panelH) / 2
	r.FillRect((w-panelW)/2, top, panelW, panelH, overlayPanel)

	y := top + titleSize
	r.DrawOverlayText("session complete ("+DurationLabel(sum.DurationSeconds)+")", w/2, y, titleSize*0.75, overlayText, text.AlignCenter)
	y += titleSize
	for _, l := range lines {
		r.DrawOverlayText(l, w/2, y, bodySize, overlayText, text.AlignCenter)
		y += lineH
	}
	y += lineH / 2
	for _, l := range reflection {
		r.DrawOverlayText(l, w/2, y, bodySize, overlayDim, text.AlignCenter)
		y += lineH
	}
	y += lineH / 2
	r.DrawOverlayText("tap or press Enter to begin again", w/2, y, hintSize, overlayDim, text.AlignCenter)
}
