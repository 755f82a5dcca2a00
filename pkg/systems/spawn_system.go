package systems

import (
	"log"
	"math"
	"math/rand"

	"github.com/decker502/neonpulse/pkg/config"
	"github.com/decker502/neonpulse/pkg/ecs"
	"github.com/decker502/neonpulse/pkg/entities"
	"github.com/decker502/neonpulse/pkg/utils"
)

// Clock 场景时钟（毫秒），由每帧的 dt 累加，便于测试中精确控制
type Clock struct {
	ms float64
}

// Advance 推进 dt 秒
func (c *Clock) Advance(dt float64) {
	c.ms += dt * 1000
}

// Set 直接设置当前时间（毫秒）
func (c *Clock) Set(ms float64) {
	c.ms = ms
}

// Now 当前时间（毫秒）
func (c *Clock) Now() float64 {
	return c.ms
}

// Pools 按实体类型分开的实体池
type Pools struct {
	Links      *ecs.Pool[*entities.KeyLink]
	Polys      *ecs.Pool[*entities.ExpandingPoly]
	Crosshairs *ecs.Pool[*entities.Crosshair]
	Sparks     *ecs.Pool[*entities.Spark]
	Labels     *ecs.Pool[*entities.Label]
}

// NewPools 创建空实体池
func NewPools() *Pools {
	return &Pools{
		Links:      ecs.NewPool[*entities.KeyLink](),
		Polys:      ecs.NewPool[*entities.ExpandingPoly](),
		Crosshairs: ecs.NewPool[*entities.Crosshair](),
		Sparks:     ecs.NewPool[*entities.Spark](),
		Labels:     ecs.NewPool[*entities.Label](),
	}
}

// Advance 推进并清理所有实体池，返回移除的实体总数
func (p *Pools) Advance(dt float64) int {
	return p.Links.Advance(dt) +
		p.Polys.Advance(dt) +
		p.Crosshairs.Advance(dt) +
		p.Sparks.Advance(dt) +
		p.Labels.Advance(dt)
}

// Len 所有实体池中的实体总数
func (p *Pools) Len() int {
	return p.Links.Len() + p.Polys.Len() + p.Crosshairs.Len() + p.Sparks.Len() + p.Labels.Len()
}

// Clear 清空所有实体池
func (p *Pools) Clear() {
	p.Links.Clear()
	p.Polys.Clear()
	p.Crosshairs.Clear()
	p.Sparks.Clear()
	p.Labels.Clear()
}

// Render 按固定层次绘制：连线、多边形、准星、火花、文字
func (p *Pools) Render(c entities.Canvas) {
	p.Links.Each(func(e *entities.KeyLink) { e.Render(c) })
	p.Polys.Each(func(e *entities.ExpandingPoly) { e.Render(c) })
	p.Crosshairs.Each(func(e *entities.Crosshair) { e.Render(c) })
	p.Sparks.Each(func(e *entities.Spark) { e.Render(c) })
	p.Labels.Each(func(e *entities.Label) { e.Render(c) })
}

// SpawnSystem 根据配置把生成请求转换为实体
//
// 每次 SpawnAt 同时记录一条回声并提升脉冲活跃度。
// 随机数来自可播种的 rng，相同种子产生相同画面。
type SpawnSystem struct {
	cfg   *config.SketchConfig
	rng   *rand.Rand
	clock *Clock
	pools *Pools
	echo  *EchoSystem
	pulse *PulseSystem
	mood  *MoodSystem

	instrument int
	plusBias   float64
}

// NewSpawnSystem 创建生成系统
func NewSpawnSystem(cfg *config.SketchConfig, seed int64, clock *Clock, pools *Pools, echo *EchoSystem, pulse *PulseSystem, mood *MoodSystem) *SpawnSystem {
	return &SpawnSystem{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		clock:    clock,
		pools:    pools,
		echo:     echo,
		pulse:    pulse,
		mood:     mood,
		plusBias: cfg.Spark.PlusBias,
	}
}

// Rand 返回共享的随机数源
func (s *SpawnSystem) Rand() *rand.Rand {
	return s.rng
}

// SetPlusBias 设置"+"形火花的概率
func (s *SpawnSystem) SetPlusBias(p float64) {
	s.plusBias = utils.Clamp01(p)
}

// PlusBias 当前"+"形火花的概率
func (s *SpawnSystem) PlusBias() float64 {
	return s.plusBias
}

// Instrument 当前乐器；未配置乐器时返回使用全部边数的中性乐器
func (s *SpawnSystem) Instrument() config.InstrumentConfig {
	if len(s.cfg.Instruments) == 0 {
		return config.InstrumentConfig{Name: "default", Sides: s.cfg.Poly.Sides}
	}
	return s.cfg.Instruments[s.instrument]
}

// CycleInstrument 切换到下一个乐器并返回其名称
func (s *SpawnSystem) CycleInstrument() string {
	if n := len(s.cfg.Instruments); n > 0 {
		s.instrument = (s.instrument + 1) % n
	}
	name := s.Instrument().Name
	log.Printf("[SpawnSystem] instrument: %s", name)
	return name
}

// SetInstrument 按名称选择乐器，名称不存在时返回 false
func (s *SpawnSystem) SetInstrument(name string) bool {
	for i, inst := range s.cfg.Instruments {
		if inst.Name == name {
			s.instrument = i
			return true
		}
	}
	return false
}

// HueFor 按纵坐标映射色相（底部 hueBottom，顶部 hueTop），叠加情绪与乐器偏移
func (s *SpawnSystem) HueFor(y float64, mood string) float64 {
	c := s.cfg.Canvas
	h := utils.MapRange(y, float64(c.Height), 0, c.HueBottom, c.HueTop, true)
	return utils.WrapHue(h + s.mood.HueShift(mood) + s.Instrument().HueOffset)
}

func (s *SpawnSystem) uniform(r config.Range) float64 {
	return r.At(s.rng.Float64())
}

// SpawnAt 在 (x, y) 生成一次多层多边形爆发和一个十字准星
func (s *SpawnSystem) SpawnAt(x, y, hue float64) {
	pc := s.cfg.Poly
	sides := s.Instrument().Sides
	n := sides[s.rng.Intn(len(sides))]

	diameter := s.uniform(pc.Diameter)
	growth := s.uniform(pc.Growth)
	thickness := s.uniform(pc.Thickness)
	life := s.uniform(pc.Life)

	for _, layer := range pc.Layers {
		s.pools.Polys.Add(entities.NewExpandingPoly(entities.PolyParams{
			X:              x,
			Y:              y,
			Hue:            hue,
			Sides:          n,
			Size:           diameter * layer.Size,
			Growth:         growth * layer.Growth,
			Life:           life * layer.Life,
			Thickness:      thickness * layer.Thickness,
			ThicknessDecay: pc.ThicknessDecay,
			Alpha:          layer.Alpha,
			AlphaDecay:     pc.AlphaDecay,
			Glow:           layer.Glow,
			Spin:           s.uniform(layer.Spin),
			Filled:         layer.Filled,
			Saturation:     pc.StrokeSaturation,
			Brightness:     pc.StrokeBrightness,
			GlowBrightness: pc.GlowBrightness,
		}))
	}

	cc := s.cfg.Crosshair
	s.pools.Crosshairs.Add(entities.NewCrosshair(entities.CrosshairParams{
		X: x, Y: y, Hue: hue,
		Life: cc.Life, Arm: cc.Arm, Stroke: cc.Stroke, MaxAlpha: cc.MaxAlpha, Exponent: cc.Exponent,
	}))

	s.echo.Log(x, y, hue, s.clock.Now())
	s.pulse.Bump()
}

// SparkCount 返回 round(count × scale)，至少为 1
func SparkCount(count, scale float64) int {
	n := int(math.Round(count * scale))
	if n < 1 {
		return 1
	}
	return n
}

// SpawnSparks 在 (x, y) 向随机方向发射火花，scale 同时缩放数量与速度
func (s *SpawnSystem) SpawnSparks(x, y, hue, scale float64) {
	sc := s.cfg.Spark
	n := SparkCount(s.uniform(sc.Count), scale)
	for i := 0; i < n; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		speed := s.uniform(sc.Speed) * scale
		shape := entities.SparkDot
		if s.rng.Float64() < s.plusBias {
			shape = entities.SparkPlus
		}
		s.pools.Sparks.Add(entities.NewSpark(entities.SparkParams{
			X:             x,
			Y:             y,
			Hue:           hue + (s.rng.Float64()*2-1)*sc.HueJitter,
			VX:            math.Cos(angle) * speed,
			VY:            math.Sin(angle) * speed,
			Radius:        s.uniform(sc.Radius),
			Life:          s.uniform(sc.Life),
			Shape:         shape,
			VelocityDecay: sc.VelocityDecay,
		}))
	}
}

// Burst 生成爆发并附带火花
func (s *SpawnSystem) Burst(x, y, hue, sparkScale float64) {
	s.SpawnAt(x, y, hue)
	s.SpawnSparks(x, y, hue, sparkScale)
}

// LabelText 选择文字：大概率为字符本身，否则取情绪词表中的一个词
func (s *SpawnSystem) LabelText(char, mood string) string {
	vocab := s.mood.Vocabulary(mood)
	if s.rng.Float64() < s.cfg.Label.LiteralChance || len(vocab) == 0 {
		return char
	}
	return vocab[s.rng.Intn(len(vocab))]
}

// SpawnLabel 在 (x, y) 生成一个浮动文字
func (s *SpawnSystem) SpawnLabel(x, y, hue float64, char, mood string) {
	lc := s.cfg.Label
	s.pools.Labels.Add(entities.NewLabel(entities.LabelParams{
		X:          x,
		Y:          y,
		Hue:        hue,
		Text:       s.LabelText(char, mood),
		VX:         s.uniform(lc.DriftX),
		VY:         s.uniform(lc.DriftY),
		Size:       lc.Size,
		Growth:     lc.Growth,
		Life:       s.uniform(lc.Life),
		WobbleAmp:  lc.WobbleAmp,
		WobbleFreq: lc.WobbleFreq,
	}))
}

// SpawnLink 生成从上一个按键位置到当前位置的连线
func (s *SpawnSystem) SpawnLink(x0, y0, x1, y1, hue float64) {
	lc := s.cfg.Link
	s.pools.Links.Add(entities.NewKeyLink(entities.KeyLinkParams{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		Hue:       hue,
		Life:      lc.Life,
		Spacing:   lc.Spacing,
		MinSteps:  lc.MinSteps,
		DrawIn:    lc.DrawIn,
		DotRadius: lc.DotRadius,
	}))
}
