package systems

import (
	"image/color"
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/decker502/neonpulse/pkg/config"
	"github.com/decker502/neonpulse/pkg/utils"
)

// Point 二维坐标
type Point struct {
	X, Y float64
}

// ContourCanvas 绘制闭合轮廓所需的渲染接口
type ContourCanvas interface {
	FillContour(pts []Point, clr color.Color)
	StrokeContour(pts []Point, width float64, clr color.Color)
}

// PulseSystem 画布中心的脉冲形状
//
// 活跃度在每次生成时增加、按帧衰减；麦克风电平做指数平滑。
// 两者之和决定半径，轮廓由三维 simplex 噪声（角度, 时间）扰动。
type PulseSystem struct {
	cfg      config.PulseConfig
	noise    opensimplex.Noise
	activity float64
	mic      float64
	phase    float64 // 噪声时间轴，按情绪速度推进
	mod      config.PulseModifier
	contour  []Point
}

// NewPulseSystem 创建脉冲系统
func NewPulseSystem(cfg config.PulseConfig, seed int64) *PulseSystem {
	return &PulseSystem{
		cfg:     cfg,
		noise:   opensimplex.New(seed),
		mod:     config.PulseModifier{Amplitude: 1, Jitter: 0.08, Speed: 0.6},
		contour: make([]Point, cfg.Segments),
	}
}

// Bump 生成一次爆发时增加活跃度，上限 1
func (s *PulseSystem) Bump() {
	s.activity = math.Min(1, s.activity+s.cfg.ActivityBump)
}

// SetModifier 设置当前情绪的调制参数
func (s *PulseSystem) SetModifier(m config.PulseModifier) {
	s.mod = m
}

// Update 衰减活跃度并平滑麦克风电平
func (s *PulseSystem) Update(dt, rawMic float64) {
	s.activity *= utils.FrameDecay(s.cfg.ActivityDecay, dt)
	s.mic = utils.Lerp(s.mic, utils.Clamp01(rawMic), s.cfg.MicSmoothing)
	s.phase += dt * s.mod.Speed
}

// Activity 当前活跃度
func (s *PulseSystem) Activity() float64 {
	return s.activity
}

// Mic 平滑后的麦克风电平
func (s *PulseSystem) Mic() float64 {
	return s.mic
}

// Level 合成电平 clamp(activity + mic, 0, 1)
func (s *PulseSystem) Level() float64 {
	return utils.Clamp01(s.activity + s.mic)
}

// Visible 活跃度与麦克风电平都低于阈值时不绘制
func (s *PulseSystem) Visible() bool {
	return s.activity >= s.cfg.Threshold || s.mic >= s.cfg.Threshold
}

// Radius 当前基准半径
func (s *PulseSystem) Radius() float64 {
	r := s.cfg.MinRadius + (s.cfg.MaxRadius-s.cfg.MinRadius)*s.Level()*s.mod.Amplitude
	return math.Max(0, r)
}

// Contour 计算以 (cx, cy) 为中心的轮廓点，返回的切片在下次调用时复用
func (s *PulseSystem) Contour(cx, cy float64) []Point {
	n := len(s.contour)
	base := s.Radius()
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		cos, sin := math.Cos(theta), math.Sin(theta)
		nv := math.Max(-1, math.Min(1, s.noise.Eval3(cos*s.cfg.NoiseScale, sin*s.cfg.NoiseScale, s.phase)))
		r := base * (1 + nv*s.mod.Jitter)
		s.contour[i] = Point{X: cx + cos*r, Y: cy + sin*r}
	}
	return s.contour
}

// Render 绘制脉冲：半透明填充加一圈描边
func (s *PulseSystem) Render(c ContourCanvas, cx, cy, hue float64) {
	if !s.Visible() {
		return
	}
	pts := s.Contour(cx, cy)
	lvl := s.Level()
	c.FillContour(pts, utils.HSBA(hue, 0.7, 0.35, s.cfg.Alpha*lvl))
	c.StrokeContour(pts, 2, utils.HSBA(hue, 0.6, 0.9, math.Min(1, s.cfg.Alpha+lvl*0.4)))
}

// Reset 清空活跃度与电平
func (s *PulseSystem) Reset() {
	s.activity = 0
	s.mic = 0
	s.phase = 0
}
