package app

import (
	"os"
	"path/filepath"
	"testing"
)

func isolateStorage(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
}

// TestNewAppOverrides 命令行尺寸覆盖配置
func TestNewAppOverrides(t *testing.T) {
	isolateStorage(t)
	a, err := NewApp(Config{Width: 640, Height: 480, Seed: 3, DisableAudio: true, Mic: "loopback"})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	if w, h := a.Layout(1920, 1080); w != 640 || h != 480 {
		t.Errorf("Layout() = %dx%d, want 640x480", w, h)
	}
	if a.GetSceneManager().GetCurrentScene() == nil {
		t.Error("no scene active")
	}
	if got := a.Settings().GetSettings().MicMode; got != "loopback" {
		t.Errorf("MicMode = %q, want loopback", got)
	}
}

func TestNewAppErrors(t *testing.T) {
	isolateStorage(t)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("canvas: {width: -1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"配置文件不存在", Config{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"), DisableAudio: true}},
		{"配置无效", Config{ConfigPath: bad, DisableAudio: true}},
		{"麦克风模式无效", Config{Mic: "radio", DisableAudio: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewApp(tt.cfg); err == nil {
				t.Error("NewApp() returned nil error")
			}
		})
	}
}
