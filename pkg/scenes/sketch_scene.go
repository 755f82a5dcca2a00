package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/neonpulse/pkg/config"
	"github.com/decker502/neonpulse/pkg/game"
	"github.com/decker502/neonpulse/pkg/systems"
	"github.com/decker502/neonpulse/pkg/utils"
)

// SketchOptions 草图场景的外部依赖
type SketchOptions struct {
	Config *config.SketchConfig
	Seed   int64
	// Duration 大于 0 时跳过时长选择，直接以该时长（秒）开始
	Duration    int
	SnapshotDir string

	Audio     *game.AudioManager    // 可为 nil
	Settings  *game.SettingsManager // 可为 nil
	Summaries *game.SummaryStore    // 可为 nil
	Mic       game.MicSource        // 可为 nil
}

// SketchScene 霓虹草图场景
//
// 持有全部草图状态：时钟、实体池、回声、脉冲、情绪、会话、生成与输入路由。
// Update 顺序：输入 → 会话超时 → 麦克风 → 情绪 → 活跃度衰减 → 实体推进；
// Draw 顺序：背景淡出 → 脉冲 → 回声 → 实体 → 界面层。
type SketchScene struct {
	cfg *config.SketchConfig

	clock   *systems.Clock
	pools   *systems.Pools
	echo    *systems.EchoSystem
	pulse   *systems.PulseSystem
	mood    *systems.MoodSystem
	session *systems.SessionSystem
	spawn   *systems.SpawnSystem
	input   *systems.InputSystem
	render  *systems.RenderSystem

	canvas   *ebiten.Image
	pointers *utils.PointerTracker
	chars    []rune

	audio     *game.AudioManager
	settings  *game.SettingsManager
	summaries *game.SummaryStore
	mic       game.MicSource

	snapshotDir       string
	snapshotRequested bool
	lastSnapshot      string
	notice            string // HUD 右上角的最近一次操作提示

	lastState systems.SessionState
	lastMood  string
}

// NewSketchScene 创建草图场景
func NewSketchScene(opts SketchOptions) (*SketchScene, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("sketch scene requires a config")
	}
	render, err := systems.NewRenderSystem()
	if err != nil {
		return nil, fmt.Errorf("failed to create render system: %w", err)
	}

	s := &SketchScene{
		cfg:         cfg,
		clock:       &systems.Clock{},
		pools:       systems.NewPools(),
		echo:        systems.NewEchoSystem(cfg.Echo),
		pulse:       systems.NewPulseSystem(cfg.Pulse, opts.Seed),
		mood:        systems.NewMoodSystem(cfg.Mood),
		session:     systems.NewSessionSystem(cfg),
		render:      render,
		canvas:      ebiten.NewImage(cfg.Canvas.Width, cfg.Canvas.Height),
		pointers:    utils.NewPointerTracker(),
		audio:       opts.Audio,
		settings:    opts.Settings,
		summaries:   opts.Summaries,
		mic:         opts.Mic,
		snapshotDir: opts.SnapshotDir,
	}
	if s.mic == nil {
		s.mic = game.SilentMic{}
	}
	s.spawn = systems.NewSpawnSystem(cfg, opts.Seed, s.clock, s.pools, s.echo, s.pulse, s.mood)

	var plucker systems.Plucker
	if s.audio != nil {
		plucker = s.audio
	}
	s.input = systems.NewInputSystem(cfg, s.clock, s.session, s.mood, s.spawn, plucker)
	s.input.OnReset = s.resetSketch

	if s.settings != nil {
		st := s.settings.GetSettings()
		if st.Instrument != "" && !s.spawn.SetInstrument(st.Instrument) {
			log.Printf("[SketchScene] Unknown instrument %q in settings, keeping %s", st.Instrument, s.spawn.Instrument().Name)
		}
		s.spawn.SetPlusBias(st.PlusBiasOr(cfg.Spark.PlusBias))
	}

	s.clearCanvas()
	s.lastState = s.session.State()
	s.lastMood = s.session.Mood()

	if opts.Duration > 0 {
		s.session.Start(opts.Duration, s.clock.Now())
	}
	log.Printf("[SketchScene] Created %dx%d canvas, seed %d", cfg.Canvas.Width, cfg.Canvas.Height, opts.Seed)
	return s, nil
}

func (s *SketchScene) background() color.NRGBA {
	bg := s.cfg.Canvas.Background
	return color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 0xff}
}

func (s *SketchScene) clearCanvas() {
	s.canvas.Fill(s.background())
}

// resetSketch 清空统计、实体池、回声与画布，回到 Selecting
// 重置时仍按住的指针被吞掉，松开前不会触发时长选择
func (s *SketchScene) resetSketch() {
	s.session.Reset()
	s.mood.Reset()
	s.pools.Clear()
	s.echo.Clear()
	s.pulse.Reset()
	s.pointers.Consume()
	s.clearCanvas()
	log.Printf("[SketchScene] Sketch reset")
}

// Update 推进一帧
func (s *SketchScene) Update(deltaTime float64) {
	s.clock.Advance(deltaTime)
	s.pollInput()
	s.step(deltaTime)
}

// pollInput 读取 Ebitengine 输入并分发到输入路由
func (s *SketchScene) pollInput() {
	s.HandlePointerEvents(s.pointers.Update())

	s.chars = ebiten.AppendInputChars(s.chars[:0])
	for _, r := range s.chars {
		s.HandleChar(r)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.CycleInstrument()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.input.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.HandleEnter()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		s.snapshotRequested = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		s.AdjustVolume(-volumeStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		s.AdjustVolume(volumeStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF8) {
		s.ToggleSound()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		s.AdjustPlusBias(-plusBiasStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		s.AdjustPlusBias(plusBiasStep)
	}
}

const (
	volumeStep   = 0.1
	plusBiasStep = 0.1
)

// AdjustVolume 调整音量并记入设置，返回新音量
func (s *SketchScene) AdjustVolume(delta float64) float64 {
	var v float64
	switch {
	case s.audio != nil:
		v = utils.Clamp01(s.audio.GetSoundVolume() + delta)
		s.audio.SetSoundVolume(v)
	case s.settings != nil:
		v = utils.Clamp01(s.settings.GetSettings().SoundVolume + delta)
		s.settings.SetSoundVolume(v)
	default:
		return 0
	}
	s.notice = fmt.Sprintf("volume %d%%", int(math.Round(v*100)))
	return v
}

// ToggleSound 切换声音开关并记入设置，返回切换后的状态
func (s *SketchScene) ToggleSound() bool {
	if s.settings == nil {
		return false
	}
	on := !s.settings.GetSettings().SoundEnabled
	s.settings.SetSoundEnabled(on)
	s.notice = "sound off"
	if on {
		s.notice = "sound on"
	}
	return on
}

// AdjustPlusBias 调整"+"形火花概率并记入设置，返回新概率
func (s *SketchScene) AdjustPlusBias(delta float64) float64 {
	s.spawn.SetPlusBias(s.spawn.PlusBias() + delta)
	p := s.spawn.PlusBias()
	if s.settings != nil {
		s.settings.SetPlusBias(p)
	}
	s.notice = fmt.Sprintf("plus sparks %d%%", int(math.Round(p*100)))
	return p
}

// HandlePointerEvents 分发指针事件
func (s *SketchScene) HandlePointerEvents(events []utils.PointerEvent) {
	for _, ev := range events {
		x, y := float64(ev.X), float64(ev.Y)
		switch ev.Kind {
		case utils.PointerPressed:
			s.input.PointerDown(ev.ID, x, y)
		case utils.PointerMoved:
			s.input.PointerMove(ev.ID, x, y)
		case utils.PointerReleased:
			s.input.PointerUp(ev.ID)
		}
	}
}

// HandleChar 分发一个输入字符
func (s *SketchScene) HandleChar(r rune) {
	s.input.KeyDown(r)
}

// HandleEnter Selecting 状态下以上次时长开始，其余状态下重置
func (s *SketchScene) HandleEnter() {
	if s.session.State() != systems.SessionSelecting {
		s.input.Reset()
		return
	}
	if s.settings == nil {
		return
	}
	if last := s.settings.GetSettings().LastDuration; last > 0 {
		if s.audio != nil {
			s.audio.Unlock()
		}
		s.session.Start(last, s.clock.Now())
	}
}

// CycleInstrument 切换乐器并记入设置
func (s *SketchScene) CycleInstrument() string {
	name := s.spawn.CycleInstrument()
	if s.settings != nil {
		s.settings.SetInstrument(name)
	}
	return name
}

// step 输入之后的逐帧逻辑
func (s *SketchScene) step(dt float64) {
	now := s.clock.Now()

	if s.session.Update(now) {
		s.onSessionEnded()
	}
	s.trackStateChange()

	s.pulse.Update(dt, s.mic.Level())

	if s.session.State() == systems.SessionActive {
		m := s.mood.Classify(now)
		s.session.SetMood(m)
		s.pulse.SetModifier(s.mood.PulseModifier(m))
		if m != s.lastMood {
			log.Printf("[SketchScene] Mood %s -> %s", s.lastMood, m)
			s.lastMood = m
		}
	}

	s.pools.Advance(dt)
}

func (s *SketchScene) trackStateChange() {
	st := s.session.State()
	if st == s.lastState {
		return
	}
	if st == systems.SessionActive && s.settings != nil {
		s.settings.SetLastDuration(s.session.DurationSeconds())
	}
	if st == systems.SessionSelecting {
		s.lastMood = s.session.Mood()
	}
	s.lastState = st
}

func (s *SketchScene) onSessionEnded() {
	sum := s.session.Summary()
	if s.summaries != nil {
		if err := s.summaries.Append(sum, time.Now()); err != nil {
			log.Printf("[SketchScene] Warning: Failed to store summary: %v", err)
		}
	}
	if s.settings != nil {
		if err := s.settings.Save(); err != nil {
			log.Printf("[SketchScene] Warning: Failed to save settings: %v", err)
		}
	}
}

// SaveOnExit 退出时保存设置
func (s *SketchScene) SaveOnExit() bool {
	if s.audio != nil {
		s.audio.Close()
	}
	if s.settings == nil {
		return true
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[SketchScene] Warning: Failed to save settings on exit: %v", err)
		return false
	}
	return true
}

// Draw 绘制一帧
func (s *SketchScene) Draw(screen *ebiten.Image) {
	now := s.clock.Now()
	w, h := float64(s.cfg.Canvas.Width), float64(s.cfg.Canvas.Height)

	s.render.SetTarget(s.canvas)
	bg := s.background()
	bg.A = s.cfg.Canvas.FadeAlpha
	s.render.Fade(bg)

	mood := s.session.Mood()
	s.pulse.Render(s.render, w/2, h/2, s.PulseHue(mood))
	s.echo.Render(s.render, now)
	s.pools.Render(s.render)

	if s.snapshotRequested {
		s.snapshotRequested = false
		path, err := game.SaveSnapshot(s.canvas, s.snapshotDir, time.Now())
		if err != nil {
			log.Printf("[SketchScene] Warning: Snapshot failed: %v", err)
		} else {
			s.lastSnapshot = path
			s.notice = path
		}
	}

	screen.DrawImage(s.canvas, nil)

	s.render.SetTarget(screen)
	s.drawOverlay(now)
}

// PulseHue 脉冲色相：基础色相叠加情绪与乐器偏移
func (s *SketchScene) PulseHue(mood string) float64 {
	return utils.WrapHue(s.cfg.Pulse.Hue + s.mood.HueShift(mood) + s.spawn.Instrument().HueOffset)
}

// Session 会话控制器
func (s *SketchScene) Session() *systems.SessionSystem {
	return s.session
}

// Pools 实体池
func (s *SketchScene) Pools() *systems.Pools {
	return s.pools
}

// Echo 回声图层
func (s *SketchScene) Echo() *systems.EchoSystem {
	return s.echo
}

// Pulse 中心脉冲
func (s *SketchScene) Pulse() *systems.PulseSystem {
	return s.pulse
}

// Clock 场景时钟
func (s *SketchScene) Clock() *systems.Clock {
	return s.clock
}

// LastSnapshot 最近一次保存的截图路径
func (s *SketchScene) LastSnapshot() string {
	return s.lastSnapshot
}
