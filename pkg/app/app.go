// Package app 提供草图应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/neonpulse/pkg/config"
	"github.com/decker502/neonpulse/pkg/game"
	"github.com/decker502/neonpulse/pkg/scenes"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 覆盖默认配置的 YAML 文件，为空则只用内置配置
	ConfigPath string
	// Duration 大于 0 时跳过时长选择（秒）
	Duration int
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// Mic 麦克风模式 off / loopback，为空则使用已保存的设置
	Mic string
	// SnapshotDir F12 截图保存目录
	SnapshotDir string
	// Width, Height 大于 0 时覆盖配置中的画布尺寸
	Width, Height int
	// DisableAudio 不创建音频上下文
	DisableAudio bool
}

// App 是草图应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	width        int
	height       int
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化草图应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	sketchCfg, err := config.LoadSketchConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	if cfg.Width > 0 {
		sketchCfg.Canvas.Width = cfg.Width
	}
	if cfg.Height > 0 {
		sketchCfg.Canvas.Height = cfg.Height
	}
	log.Printf("[Config] Canvas %dx%d, %d instruments", sketchCfg.Canvas.Width, sketchCfg.Canvas.Height, len(sketchCfg.Instruments))

	storage := game.OpenStorage(game.AppName)
	settings, err := game.NewSettingsManager(storage)
	if err != nil {
		return nil, fmt.Errorf("设置初始化失败: %w", err)
	}
	summaries := game.NewSummaryStore(storage, sketchCfg.Session.HistoryLimit)
	log.Printf("[App] %d stored session summaries", summaries.Len())

	micName := cfg.Mic
	if micName == "" {
		micName = settings.GetSettings().MicMode
	}
	micMode, err := game.ParseMicMode(micName)
	if err != nil {
		return nil, fmt.Errorf("麦克风模式无效: %w", err)
	}
	if cfg.Mic != "" {
		settings.SetMicMode(micMode)
	}

	audioManager := game.NewAudioManager(sketchCfg.Pluck, settings, !cfg.DisableAudio)
	log.Printf("[App] AudioManager initialized (audio enabled: %v, mic: %s)", !cfg.DisableAudio, micMode)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	scene, err := scenes.NewSketchScene(scenes.SketchOptions{
		Config:      sketchCfg,
		Seed:        seed,
		Duration:    cfg.Duration,
		SnapshotDir: cfg.SnapshotDir,
		Audio:       audioManager,
		Settings:    settings,
		Summaries:   summaries,
		Mic:         game.NewMicSource(micMode, audioManager.Synth()),
	})
	if err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		width:        sketchCfg.Canvas.Width,
		height:       sketchCfg.Canvas.Height,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.sceneManager.SaveOnExit()
		log.Printf("[App] Window closing, settings saved")
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.ToggleFullscreen()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// ToggleFullscreen 切换全屏并记入设置
func (a *App) ToggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		a.settings.SetFullscreen(false)
		return
	}
	ebiten.SetFullscreen(true)
	a.settings.SetFullscreen(true)
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸，即画布尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// Size 画布尺寸
func (a *App) Size() (int, int) {
	return a.width, a.height
}

// Settings 用户设置
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
