package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/neonpulse/pkg/app"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志")
	configPath := flag.String("config", "", "覆盖默认配置的 YAML 文件")
	duration := flag.Int("duration", 0, "会话时长（秒），大于 0 时跳过选择界面")
	seed := flag.Int64("seed", 0, "随机种子，0 表示使用当前时间")
	mic := flag.String("mic", "", "麦克风模式：off 或 loopback（默认使用上次的设置）")
	snapshotDir := flag.String("snapshot-dir", ".", "F12 截图保存目录")
	width := flag.Int("width", 0, "画布宽度，0 表示使用配置")
	height := flag.Int("height", 0, "画布高度，0 表示使用配置")
	mute := flag.Bool("mute", false, "不初始化音频")
	flag.Parse()

	a, err := app.NewApp(app.Config{
		Verbose:      *verbose,
		ConfigPath:   *configPath,
		Duration:     *duration,
		Seed:         *seed,
		Mic:          *mic,
		SnapshotDir:  *snapshotDir,
		Width:        *width,
		Height:       *height,
		DisableAudio: *mute,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	w, h := a.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("neonpulse")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)
	if a.Settings().GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(a); err != nil {
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		os.Exit(1)
	}
}
