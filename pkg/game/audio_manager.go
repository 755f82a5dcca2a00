package game

import (
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/decker502/neonpulse/pkg/config"
)

// AudioManager 音频管理器
// 职责：
//   - 在首次用户交互时解锁音频输出（可重复调用）
//   - 把拨弦请求交给 Synth，并通过 Ebitengine 播放器输出
//   - 从 SettingsManager 读取音量与开关
//
// 音频初始化失败时进入降级模式：Pluck 与 Unlock 静默忽略。
type AudioManager struct {
	synth           *Synth
	settingsManager *SettingsManager // 可为 nil
	context         *audio.Context
	player          *audio.Player
	unlockOnce      sync.Once
	unlocked        bool
	disabled        bool
}

// NewAudioManager 创建音频管理器
//
// 参数：
//   - cfg: 拨弦音配置
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//   - enabled: false 时不创建音频上下文（测试或无音频设备的环境）
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(cfg config.PluckConfig, sm *SettingsManager, enabled bool) *AudioManager {
	am := &AudioManager{
		synth:           NewSynth(cfg),
		settingsManager: sm,
		disabled:        !enabled,
	}
	am.synth.SetVolume(am.getSoundVolume())
	return am
}

// Synth 返回底层合成器
func (am *AudioManager) Synth() *Synth {
	return am.synth
}

// Unlock 创建音频上下文并开始播放混音流，只在第一次调用时生效
func (am *AudioManager) Unlock() {
	if am.disabled {
		return
	}
	am.unlockOnce.Do(func() {
		ctx := audio.CurrentContext()
		if ctx == nil {
			ctx = audio.NewContext(am.synth.SampleRate())
		}
		player, err := ctx.NewPlayer(am.synth)
		if err != nil {
			log.Printf("[AudioManager] Warning: Failed to create player: %v (audio disabled)", err)
			am.disabled = true
			return
		}
		player.SetBufferSize(50 * time.Millisecond)
		player.Play()

		am.context = ctx
		am.player = player
		am.unlocked = true
		log.Printf("[AudioManager] Audio unlocked at %d Hz", am.synth.SampleRate())
	})
}

// Unlocked 是否已解锁
func (am *AudioManager) Unlocked() bool {
	return am.unlocked
}

// Pluck 播放一个拨弦音
//
// 参数：
//   - freq: 频率（Hz），超出配置范围时被限制
//   - amp: 振幅 0.0 ~ 1.0
func (am *AudioManager) Pluck(freq, amp float64) {
	if am.disabled || !am.unlocked {
		return
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return
	}
	am.synth.Pluck(freq, amp)
}

// SetSoundVolume 设置音量并立即应用
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	am.synth.SetVolume(volume)
}

// GetSoundVolume 获取当前音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// OutputLevel 最近输出的电平，供回环麦克风使用
func (am *AudioManager) OutputLevel() float64 {
	return am.synth.Level()
}

// getSoundVolume 获取音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8 // 默认值
}

// Close 停止播放
func (am *AudioManager) Close() {
	if am.player != nil {
		am.player.Pause()
		if err := am.player.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close player: %v", err)
		}
		am.player = nil
	}
}
