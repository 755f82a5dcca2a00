package systems

import (
	"log"
	"math"
	"strings"

	"github.com/decker502/neonpulse/pkg/config"
	"github.com/decker502/neonpulse/pkg/utils"
)

// Plucker 音频后端：解锁与拨弦
type Plucker interface {
	// Unlock 首次用户交互时调用，可重复调用
	Unlock()
	Pluck(freq, amp float64)
}

// pointerState 已按下的指针的最近一次生成位置与时间
type pointerState struct {
	x, y float64
	at   float64
}

// InputSystem 将指针与键盘事件路由为生成请求并更新会话统计
//
// 只在 Active 状态下生成实体和发声；Selecting 状态下数字键或象限点击选择时长；
// Ended 状态下点击或重置命令回到 Selecting。
type InputSystem struct {
	cfg     *config.SketchConfig
	clock   *Clock
	session *SessionSystem
	mood    *MoodSystem
	spawn   *SpawnSystem
	plucker Plucker

	width, height float64
	pointers      map[int]*pointerState

	lastKeyX, lastKeyY float64
	hasLastKey         bool

	// OnReset 重置命令的回调，由场景负责清空实体池与回声
	OnReset func()
}

// NewInputSystem 创建输入路由
func NewInputSystem(cfg *config.SketchConfig, clock *Clock, session *SessionSystem, mood *MoodSystem, spawn *SpawnSystem, plucker Plucker) *InputSystem {
	return &InputSystem{
		cfg:      cfg,
		clock:    clock,
		session:  session,
		mood:     mood,
		spawn:    spawn,
		plucker:  plucker,
		width:    float64(cfg.Canvas.Width),
		height:   float64(cfg.Canvas.Height),
		pointers: make(map[int]*pointerState),
	}
}

// PluckFrequency 纵坐标到音高的映射：底部 MinFreq，顶部 MaxFreq
func (s *InputSystem) PluckFrequency(y float64) float64 {
	pc := s.cfg.Pluck
	return utils.MapRange(y, s.height, 0, pc.MinFreq, pc.MaxFreq, true)
}

func (s *InputSystem) pluck(y float64) {
	if s.plucker == nil {
		return
	}
	s.plucker.Pluck(s.PluckFrequency(y), s.cfg.Pluck.Amp)
}

func (s *InputSystem) unlock() {
	if s.plucker != nil {
		s.plucker.Unlock()
	}
}

// PointerDown 指针按下
func (s *InputSystem) PointerDown(id int, x, y float64) {
	s.unlock()
	now := s.clock.Now()

	switch s.session.State() {
	case SessionSelecting:
		s.session.StartFromQuadrant(x, y, s.width, s.height, now)
		return
	case SessionEnded:
		s.Reset()
		return
	}

	s.pointers[id] = &pointerState{x: x, y: y, at: now}
	s.mood.RecordPointer(now)
	hue := s.spawn.HueFor(y, s.session.Mood())
	s.spawn.Burst(x, y, hue, s.cfg.Pointer.ClickSparkScale)
	s.session.RecordClick()
	s.pluck(y)
}

// PointerMove 指针移动，位移或间隔达到阈值时生成一次拖动爆发
func (s *InputSystem) PointerMove(id int, x, y float64) bool {
	if s.session.State() != SessionActive {
		return false
	}
	p, ok := s.pointers[id]
	if !ok {
		return false
	}
	now := s.clock.Now()
	pc := s.cfg.Pointer
	if math.Hypot(x-p.x, y-p.y) < pc.MinDistance && now-p.at < pc.MinIntervalMs {
		return false
	}
	p.x, p.y, p.at = x, y, now

	s.mood.RecordPointer(now)
	hue := s.spawn.HueFor(y, s.session.Mood())
	s.spawn.Burst(x, y, hue, pc.DragSparkScale)
	s.session.RecordDrag()
	return true
}

// PointerUp 指针抬起或取消
func (s *InputSystem) PointerUp(id int) {
	delete(s.pointers, id)
}

// ActivePointers 当前按下的指针数
func (s *InputSystem) ActivePointers() int {
	return len(s.pointers)
}

// IsSketchKey 只接受单个 ASCII 字母或数字
func IsSketchKey(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// KeyCenter 返回按键在布局网格中的中心位置，不在布局中时返回 false
func (s *InputSystem) KeyCenter(r rune) (float64, float64, bool) {
	kc := s.cfg.Keyboard
	layout := kc.Layout
	idx := strings.IndexRune(layout, toLowerASCII(r))
	if idx < 0 {
		return 0, 0, false
	}
	cols := kc.Columns
	rows := (len(layout) + cols - 1) / cols
	col, row := idx%cols, idx/cols

	x := utils.MapRange(float64(col), 0, float64(max(cols-1, 1)), s.width*kc.RegionX.Min, s.width*kc.RegionX.Max, false)
	y := utils.MapRange(float64(row), 0, float64(max(rows-1, 1)), s.height*kc.RegionY.Min, s.height*kc.RegionY.Max, false)
	return x, y, true
}

// KeyPosition 在按键中心附近加入随机抖动，并限制在画布中部的带状区域内
func (s *InputSystem) KeyPosition(r rune) (float64, float64, bool) {
	cx, cy, ok := s.KeyCenter(r)
	if !ok {
		return 0, 0, false
	}
	kc := s.cfg.Keyboard
	rng := s.spawn.Rand()
	x := cx + (rng.Float64()*2-1)*s.width*kc.JitterX
	y := cy + (rng.Float64()*2-1)*s.height*kc.JitterY
	x = math.Min(math.Max(x, s.width*kc.BandX.Min), s.width*kc.BandX.Max)
	y = math.Min(math.Max(y, s.height*kc.BandY.Min), s.height*kc.BandY.Max)
	return x, y, true
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// KeyDown 字符输入，返回是否生成了实体
func (s *InputSystem) KeyDown(r rune) bool {
	s.unlock()
	now := s.clock.Now()

	switch s.session.State() {
	case SessionSelecting:
		s.session.StartFromKey(r, now)
		return false
	case SessionEnded:
		return false
	}

	if !IsSketchKey(r) {
		return false
	}
	x, y, ok := s.KeyPosition(r)
	if !ok {
		return false
	}

	mood := s.session.Mood()
	hue := s.spawn.HueFor(y, mood)
	s.spawn.Burst(x, y, hue, s.cfg.Keyboard.SparkScale)
	s.spawn.SpawnLabel(x, y, hue, string(r), mood)
	if s.hasLastKey {
		s.spawn.SpawnLink(s.lastKeyX, s.lastKeyY, x, y, hue)
	}
	s.lastKeyX, s.lastKeyY, s.hasLastKey = x, y, true

	s.pluck(y)
	s.session.RecordKey(string(r), x/s.width, y/s.height, now)
	s.mood.RecordKey(now)
	return true
}

// Reset 重置命令：Active 或 Ended 状态下清空会话并回到 Selecting
func (s *InputSystem) Reset() {
	if s.session.State() == SessionSelecting {
		return
	}
	log.Printf("[InputSystem] reset requested in state %s", s.session.State())
	s.pointers = make(map[int]*pointerState)
	s.hasLastKey = false
	if s.OnReset != nil {
		s.OnReset()
	}
}
