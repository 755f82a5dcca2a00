package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/sketch.yaml
var defaultSketchYAML []byte

// SketchConfig 草图的完整配置
//
// 默认值来自嵌入的 data/sketch.yaml，可通过 -config 指定的文件覆盖部分字段。
// 所有"每帧"系数均以 60fps 为基准。
type SketchConfig struct {
	Canvas      CanvasConfig       `yaml:"canvas"`
	Poly        PolyConfig         `yaml:"poly"`
	Crosshair   CrosshairConfig    `yaml:"crosshair"`
	Spark       SparkConfig        `yaml:"spark"`
	Label       LabelConfig        `yaml:"label"`
	Link        LinkConfig         `yaml:"link"`
	Pointer     PointerConfig      `yaml:"pointer"`
	Keyboard    KeyboardConfig     `yaml:"keyboard"`
	Pluck       PluckConfig        `yaml:"pluck"`
	Session     SessionConfig      `yaml:"session"`
	Mood        MoodConfig         `yaml:"mood"`
	Reflections []ReflectionRule   `yaml:"reflections"`
	Pulse       PulseConfig        `yaml:"pulse"`
	Echo        EchoConfig         `yaml:"echo"`
	Instruments []InstrumentConfig `yaml:"instruments"`
}

// Range 闭开区间 [Min, Max)
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// At 按比例 t ∈ [0, 1] 在区间内插值
func (r Range) At(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// Clamp 将 v 限制在 [Min, Max] 内
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// RGB 8 位颜色
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// CanvasConfig 画布配置
type CanvasConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Background RGB     `yaml:"background"`
	FadeAlpha  uint8   `yaml:"fadeAlpha"` // 每帧覆盖的半透明背景 alpha（拖尾效果）
	HueBottom  float64 `yaml:"hueBottom"` // 画布底部对应的色相
	HueTop     float64 `yaml:"hueTop"`    // 画布顶部对应的色相
}

// PolyLayer 一次爆发中单层多边形相对主层的比例参数
type PolyLayer struct {
	Size      float64 `yaml:"size"`
	Growth    float64 `yaml:"growth"`
	Thickness float64 `yaml:"thickness"`
	Life      float64 `yaml:"life"`
	Alpha     float64 `yaml:"alpha"`
	Glow      float64 `yaml:"glow"`
	Spin      Range   `yaml:"spin"` // 弧度/帧
	Filled    bool    `yaml:"filled"`
}

// PolyConfig 扩张多边形配置
type PolyConfig struct {
	Sides            []int       `yaml:"sides"`
	Diameter         Range       `yaml:"diameter"`
	Growth           Range       `yaml:"growth"` // 像素/帧
	Thickness        Range       `yaml:"thickness"`
	Life             Range       `yaml:"life"` // 秒
	ThicknessDecay   float64     `yaml:"thicknessDecay"`
	AlphaDecay       float64     `yaml:"alphaDecay"`
	StrokeSaturation float64     `yaml:"strokeSaturation"`
	StrokeBrightness float64     `yaml:"strokeBrightness"`
	GlowBrightness   float64     `yaml:"glowBrightness"`
	Layers           []PolyLayer `yaml:"layers"`
}

// CrosshairConfig 十字准星配置
type CrosshairConfig struct {
	Life     float64 `yaml:"life"`
	Arm      float64 `yaml:"arm"`
	Stroke   float64 `yaml:"stroke"`
	MaxAlpha float64 `yaml:"maxAlpha"`
	Exponent float64 `yaml:"exponent"`
}

// SparkConfig 火花粒子配置
type SparkConfig struct {
	Count         Range   `yaml:"count"`
	Speed         Range   `yaml:"speed"` // 像素/秒
	Radius        Range   `yaml:"radius"`
	Life          Range   `yaml:"life"`
	HueJitter     float64 `yaml:"hueJitter"`
	VelocityDecay float64 `yaml:"velocityDecay"`
	PlusBias      float64 `yaml:"plusBias"` // 生成"+"形火花的概率
}

// LabelConfig 浮动文字配置
type LabelConfig struct {
	LiteralChance float64 `yaml:"literalChance"`
	Size          float64 `yaml:"size"`
	Growth        float64 `yaml:"growth"` // 生命周期结束时相对初始字号的增量比例
	Life          Range   `yaml:"life"`
	DriftX        Range   `yaml:"driftX"`
	DriftY        Range   `yaml:"driftY"`
	WobbleAmp     float64 `yaml:"wobbleAmp"`
	WobbleFreq    float64 `yaml:"wobbleFreq"`
}

// LinkConfig 按键连线配置
type LinkConfig struct {
	Life      float64 `yaml:"life"`
	Spacing   float64 `yaml:"spacing"`
	MinSteps  int     `yaml:"minSteps"`
	DrawIn    float64 `yaml:"drawIn"` // 标记点全部出现所占生命周期比例
	DotRadius float64 `yaml:"dotRadius"`
}

// PointerConfig 指针拖动节流配置
type PointerConfig struct {
	MinDistance     float64 `yaml:"minDistance"`
	MinIntervalMs   float64 `yaml:"minIntervalMs"`
	ClickSparkScale float64 `yaml:"clickSparkScale"`
	DragSparkScale  float64 `yaml:"dragSparkScale"`
}

// KeyboardConfig 键盘布局映射配置
type KeyboardConfig struct {
	Layout     string  `yaml:"layout"`
	Columns    int     `yaml:"columns"`
	RegionX    Range   `yaml:"regionX"`
	RegionY    Range   `yaml:"regionY"`
	JitterX    float64 `yaml:"jitterX"`
	JitterY    float64 `yaml:"jitterY"`
	BandX      Range   `yaml:"bandX"`
	BandY      Range   `yaml:"bandY"`
	SparkScale float64 `yaml:"sparkScale"`
}

// PluckConfig 拨弦音配置
type PluckConfig struct {
	MinFreq    float64 `yaml:"minFreq"`
	MaxFreq    float64 `yaml:"maxFreq"`
	Amp        float64 `yaml:"amp"`
	Attack     float64 `yaml:"attack"`
	Decay      float64 `yaml:"decay"`
	Stop       float64 `yaml:"stop"`
	SampleRate int     `yaml:"sampleRate"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	Durations    map[string]int `yaml:"durations"` // 按键 -> 秒
	Quadrants    [4]int         `yaml:"quadrants"` // 左上、右上、左下、右下 -> 秒
	HistoryLimit int            `yaml:"historyLimit"`
}

// MoodBand 情绪分档：速率低于 Below 时命中
type MoodBand struct {
	Name  string  `yaml:"name"`
	Below float64 `yaml:"below"`
}

// PulseModifier 情绪对脉冲形状的调制
type PulseModifier struct {
	Amplitude float64 `yaml:"amplitude"`
	Jitter    float64 `yaml:"jitter"`
	Speed     float64 `yaml:"speed"`
}

// MoodConfig 情绪分类配置
type MoodConfig struct {
	WindowSeconds float64                  `yaml:"windowSeconds"`
	Unlabeled     string                   `yaml:"unlabeled"`
	Bands         []MoodBand               `yaml:"bands"`
	Top           string                   `yaml:"top"`
	HueShift      map[string]float64       `yaml:"hueShift"`
	Vocabulary    map[string][]string      `yaml:"vocabulary"`
	Pulse         map[string]PulseModifier `yaml:"pulse"`
}

// ReflectionRule 会话结束时的感想决策表条目
//
// Mood 为空表示匹配任意情绪；MaxTempo 为 0 表示无上限。
type ReflectionRule struct {
	Mood     string  `yaml:"mood"`
	MinTempo float64 `yaml:"minTempo"`
	MaxTempo float64 `yaml:"maxTempo"`
	Text     string  `yaml:"text"`
}

// Matches 判断规则是否命中
func (r ReflectionRule) Matches(mood string, tempo float64) bool {
	if r.Mood != "" && r.Mood != mood {
		return false
	}
	if tempo < r.MinTempo {
		return false
	}
	if r.MaxTempo > 0 && tempo >= r.MaxTempo {
		return false
	}
	return true
}

// PulseConfig 中心脉冲配置
type PulseConfig struct {
	MinRadius     float64 `yaml:"minRadius"`
	MaxRadius     float64 `yaml:"maxRadius"`
	ActivityBump  float64 `yaml:"activityBump"`
	ActivityDecay float64 `yaml:"activityDecay"`
	MicSmoothing  float64 `yaml:"micSmoothing"`
	Threshold     float64 `yaml:"threshold"`
	Segments      int     `yaml:"segments"`
	NoiseScale    float64 `yaml:"noiseScale"`
	Hue           float64 `yaml:"hue"`
	Alpha         float64 `yaml:"alpha"`
}

// EchoConfig 回声图层配置
type EchoConfig struct {
	Capacity       int     `yaml:"capacity"`
	HorizonSeconds float64 `yaml:"horizonSeconds"`
	AgeFalloff     float64 `yaml:"ageFalloff"`
	AlphaStep      float64 `yaml:"alphaStep"`
	MaxAlpha       float64 `yaml:"maxAlpha"`
	Diameter       float64 `yaml:"diameter"`
}

// InstrumentConfig 乐器着色模式
type InstrumentConfig struct {
	Name      string  `yaml:"name"`
	Sides     []int   `yaml:"sides"`
	HueOffset float64 `yaml:"hueOffset"`
}

// DefaultSketchConfig 解析嵌入的默认配置
func DefaultSketchConfig() (*SketchConfig, error) {
	var cfg SketchConfig
	if err := yaml.Unmarshal(defaultSketchYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse default sketch config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default sketch config: %w", err)
	}
	return &cfg, nil
}

// LoadSketchConfig 加载草图配置
//
// path 为空时只使用默认配置；否则文件中出现的字段覆盖默认值，未出现的字段保持默认。
//
// 参数:
//   - path: YAML 配置文件路径，可为空
//
// 返回:
//   - *SketchConfig: 合并后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadSketchConfig(path string) (*SketchConfig, error) {
	cfg, err := DefaultSketchConfig()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sketch config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sketch config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sketch config: %w", err)
	}
	return cfg, nil
}

// Validate 校验配置有效性
func (c *SketchConfig) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if err := validateSides("poly.sides", c.Poly.Sides); err != nil {
		return err
	}
	if len(c.Poly.Layers) == 0 {
		return fmt.Errorf("poly.layers must not be empty")
	}
	for name, r := range map[string]Range{
		"poly.diameter":  c.Poly.Diameter,
		"poly.growth":    c.Poly.Growth,
		"poly.thickness": c.Poly.Thickness,
		"poly.life":      c.Poly.Life,
		"spark.count":    c.Spark.Count,
		"spark.life":     c.Spark.Life,
		"label.life":     c.Label.Life,
	} {
		if r.Min > r.Max {
			return fmt.Errorf("%s invalid: min(%.2f) > max(%.2f)", name, r.Min, r.Max)
		}
	}
	if c.Crosshair.Life <= 0 || c.Link.Life <= 0 {
		return fmt.Errorf("crosshair.life and link.life must be positive")
	}
	if c.Keyboard.Columns <= 0 {
		return fmt.Errorf("keyboard.columns must be positive, got %d", c.Keyboard.Columns)
	}
	if strings.TrimSpace(c.Keyboard.Layout) == "" {
		return fmt.Errorf("keyboard.layout must not be empty")
	}
	if c.Pluck.MinFreq <= 0 || c.Pluck.MinFreq > c.Pluck.MaxFreq {
		return fmt.Errorf("pluck frequency range invalid: %.1f..%.1f", c.Pluck.MinFreq, c.Pluck.MaxFreq)
	}
	if c.Pluck.SampleRate <= 0 {
		return fmt.Errorf("pluck.sampleRate must be positive")
	}
	for key, secs := range c.Session.Durations {
		if secs <= 0 {
			return fmt.Errorf("session.durations[%s] must be positive, got %d", key, secs)
		}
	}
	for i, secs := range c.Session.Quadrants {
		if secs <= 0 {
			return fmt.Errorf("session.quadrants[%d] must be positive, got %d", i, secs)
		}
	}
	if c.Mood.WindowSeconds <= 0 {
		return fmt.Errorf("mood.windowSeconds must be positive")
	}
	for i := 1; i < len(c.Mood.Bands); i++ {
		if c.Mood.Bands[i].Below <= c.Mood.Bands[i-1].Below {
			return fmt.Errorf("mood.bands must be ascending: %s(%.2f) <= %s(%.2f)",
				c.Mood.Bands[i].Name, c.Mood.Bands[i].Below,
				c.Mood.Bands[i-1].Name, c.Mood.Bands[i-1].Below)
		}
	}
	if c.Echo.Capacity <= 0 {
		return fmt.Errorf("echo.capacity must be positive, got %d", c.Echo.Capacity)
	}
	if c.Pulse.Segments < 3 {
		return fmt.Errorf("pulse.segments must be at least 3, got %d", c.Pulse.Segments)
	}
	for _, inst := range c.Instruments {
		if err := validateSides("instruments["+inst.Name+"].sides", inst.Sides); err != nil {
			return err
		}
	}
	return nil
}

func validateSides(field string, sides []int) error {
	if len(sides) == 0 {
		return fmt.Errorf("%s must not be empty", field)
	}
	for _, s := range sides {
		if s < 3 {
			return fmt.Errorf("%s contains %d, polygons need at least 3 sides", field, s)
		}
	}
	return nil
}

// DurationForKey 返回按键对应的会话时长（秒），未配置时返回 0
func (c *SketchConfig) DurationForKey(key rune) int {
	return c.Session.Durations[string(key)]
}

// MoodNames 按速率从低到高返回全部情绪名（不含 unlabeled）
func (c *SketchConfig) MoodNames() []string {
	names := make([]string, 0, len(c.Mood.Bands)+1)
	for _, b := range c.Mood.Bands {
		names = append(names, b.Name)
	}
	return append(names, c.Mood.Top)
}
