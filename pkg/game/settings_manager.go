package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SketchSettings 用户设置，跨会话保存
type SketchSettings struct {
	// 音频设置
	SoundVolume  float64 `yaml:"soundVolume"`  // 音量 0.0 ~ 1.0
	SoundEnabled bool    `yaml:"soundEnabled"` // 声音开关

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏

	// 草图设置
	Instrument   string   `yaml:"instrument"`         // 上次使用的乐器
	PlusBias     *float64 `yaml:"plusBias,omitempty"` // "+"形火花概率，nil 表示沿用配置文件
	MicMode      string   `yaml:"micMode"`            // off / loopback
	LastDuration int      `yaml:"lastDuration"`       // 上次选择的会话时长（秒），0 表示未选择
}

// DefaultSettings 返回默认设置
func DefaultSettings() *SketchSettings {
	return &SketchSettings{
		SoundVolume:  0.8,
		SoundEnabled: true,
		Fullscreen:   false,
		Instrument:   "neon",
		MicMode:      string(MicOff),
	}
}

// SettingsManager 设置管理器
// 负责用户设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *SketchSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方的错误返回，加载失败不视为错误
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置；
// 文件中缺失的字段保持默认值。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	loaded.SoundVolume = clampVolume(loaded.SoundVolume)
	if loaded.PlusBias != nil {
		p := clampVolume(*loaded.PlusBias)
		loaded.PlusBias = &p
	}
	if _, err := ParseMicMode(loaded.MicMode); err != nil {
		log.Printf("[SettingsManager] Warning: %v, falling back to off", err)
		loaded.MicMode = string(MicOff)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *SketchSettings {
	return sm.settings
}

// SetSoundVolume 设置音量，限制在 0.0 ~ 1.0
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetSoundEnabled 设置声音开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetInstrument 记录当前乐器
func (sm *SettingsManager) SetInstrument(name string) {
	sm.settings.Instrument = name
}

// SetPlusBias 设置"+"形火花概率，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetPlusBias(p float64) {
	p = clampVolume(p)
	sm.settings.PlusBias = &p
}

// PlusBiasOr 返回用户设置的"+"形火花概率，未设置时返回 fallback
func (s *SketchSettings) PlusBiasOr(fallback float64) float64 {
	if s.PlusBias == nil {
		return fallback
	}
	return *s.PlusBias
}

// SetMicMode 设置麦克风模式
func (sm *SettingsManager) SetMicMode(mode MicMode) {
	sm.settings.MicMode = string(mode)
}

// SetLastDuration 记录上次选择的会话时长
func (sm *SettingsManager) SetLastDuration(seconds int) {
	sm.settings.LastDuration = seconds
}

// clampVolume 将值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
