package systems

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/decker502/neonpulse/pkg/entities"
)

// additiveBlend 叠加混合：源与目标颜色直接相加，重叠处越叠越亮
var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// glowPasses 光晕由几层逐渐变宽、变淡的描边叠加而成
const glowPasses = 3

// RenderSystem 基于 Ebitengine 的 Canvas 实现
//
// 所有图形先转成三角形，再用白色子图和顶点颜色以叠加混合绘制到目标图像。
// 顶点与索引切片每次绘制复用，避免每帧分配。
type RenderSystem struct {
	target     *ebiten.Image
	whiteImage *ebiten.Image
	whiteSub   *ebiten.Image
	fontSource *text.GoTextFaceSource
	faces      map[int]*text.GoTextFace // 按取整后的字号缓存

	vertices []ebiten.Vertex
	indices  []uint16
	path     vector.Path
}

// NewRenderSystem 创建渲染系统并加载内置字体
func NewRenderSystem() (*RenderSystem, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &RenderSystem{
		whiteImage: white,
		whiteSub:   white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		fontSource: src,
		faces:      make(map[int]*text.GoTextFace),
		vertices:   make([]ebiten.Vertex, 0, 1024),
		indices:    make([]uint16, 0, 2048),
	}, nil
}

// SetTarget 设置绘制目标
func (s *RenderSystem) SetTarget(img *ebiten.Image) {
	s.target = img
}

// Face 返回指定字号的字体
func (s *RenderSystem) Face(size float64) *text.GoTextFace {
	key := int(math.Round(size))
	if key < 1 {
		key = 1
	}
	f, ok := s.faces[key]
	if !ok {
		f = &text.GoTextFace{Source: s.fontSource, Size: float64(key)}
		s.faces[key] = f
	}
	return f
}

// Fade 用半透明底色覆盖整个目标，形成拖尾
func (s *RenderSystem) Fade(clr color.Color) {
	b := s.target.Bounds()
	vector.DrawFilledRect(s.target, 0, 0, float32(b.Dx()), float32(b.Dy()), clr, false)
}

func (s *RenderSystem) polygonPath(p entities.Polygon) {
	s.path = vector.Path{}
	for i := 0; i < p.Sides; i++ {
		a := p.Rotation + 2*math.Pi*float64(i)/float64(p.Sides) - math.Pi/2
		x := float32(p.X + math.Cos(a)*p.Radius)
		y := float32(p.Y + math.Sin(a)*p.Radius)
		if i == 0 {
			s.path.MoveTo(x, y)
		} else {
			s.path.LineTo(x, y)
		}
	}
	s.path.Close()
}

func (s *RenderSystem) contourPath(pts []Point) {
	s.path = vector.Path{}
	for i, pt := range pts {
		if i == 0 {
			s.path.MoveTo(float32(pt.X), float32(pt.Y))
		} else {
			s.path.LineTo(float32(pt.X), float32(pt.Y))
		}
	}
	s.path.Close()
}

func (s *RenderSystem) strokeCurrent(width float64, clr color.Color) {
	if width <= 0 {
		return
	}
	op := &vector.StrokeOptions{Width: float32(width), LineJoin: vector.LineJoinRound}
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], op)
	s.drawTriangles(clr)
}

func (s *RenderSystem) fillCurrent(clr color.Color) {
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	s.drawTriangles(clr)
}

func (s *RenderSystem) drawTriangles(clr color.Color) {
	if len(s.indices) == 0 {
		return
	}
	r, g, b, a := straightRGBA(clr)
	if a <= 0 {
		return
	}
	for i := range s.vertices {
		s.vertices[i].SrcX = 1
		s.vertices[i].SrcY = 1
		s.vertices[i].ColorR = r
		s.vertices[i].ColorG = g
		s.vertices[i].ColorB = b
		s.vertices[i].ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	op.Blend = additiveBlend
	s.target.DrawTriangles(s.vertices, s.indices, s.whiteSub, op)
}

// straightRGBA 返回非预乘的 [0, 1] 颜色分量
func straightRGBA(clr color.Color) (r, g, b, a float32) {
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	return float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255
}

func scaleAlpha(clr color.Color, k float64) color.NRGBA {
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * k))
	return n
}

func (s *RenderSystem) glowStroke(width float64, glow entities.Glow) {
	if glow.Blur <= 0 || glow.Color == nil {
		return
	}
	for i := glowPasses; i >= 1; i-- {
		w := width + glow.Blur*float64(i)/glowPasses
		s.strokeCurrent(w, scaleAlpha(glow.Color, 0.12))
	}
}

// StrokePolygon 描边多边形，先画光晕再画主体
func (s *RenderSystem) StrokePolygon(p entities.Polygon, width float64, clr color.Color, glow entities.Glow) {
	if p.Sides < 3 || p.Radius <= 0 {
		return
	}
	s.polygonPath(p)
	s.glowStroke(width, glow)
	s.strokeCurrent(width, clr)
}

// FillPolygon 填充多边形
func (s *RenderSystem) FillPolygon(p entities.Polygon, clr color.Color, glow entities.Glow) {
	if p.Sides < 3 || p.Radius <= 0 {
		return
	}
	s.polygonPath(p)
	s.glowStroke(0, glow)
	s.fillCurrent(clr)
}

// StrokeLine 绘制线段
func (s *RenderSystem) StrokeLine(x0, y0, x1, y1, width float64, clr color.Color) {
	s.path = vector.Path{}
	s.path.MoveTo(float32(x0), float32(y0))
	s.path.LineTo(float32(x1), float32(y1))
	s.strokeCurrent(width, clr)
}

// FillCircle 填充圆
func (s *RenderSystem) FillCircle(cx, cy, r float64, clr color.Color) {
	if r <= 0 {
		return
	}
	s.path = vector.Path{}
	s.path.Arc(float32(cx), float32(cy), float32(r), 0, 2*math.Pi, vector.Clockwise)
	s.path.Close()
	s.fillCurrent(clr)
}

// DrawText 以 (x, y) 为中心叠加绘制文字
func (s *RenderSystem) DrawText(str string, x, y, size float64, clr color.Color) {
	s.drawText(str, x, y, size, clr, text.AlignCenter, true)
}

// DrawOverlayText 以普通混合绘制界面文字，align 控制水平对齐
func (s *RenderSystem) DrawOverlayText(str string, x, y, size float64, clr color.Color, align text.Align) {
	s.drawText(str, x, y, size, clr, align, false)
}

func (s *RenderSystem) drawText(str string, x, y, size float64, clr color.Color, align text.Align, additive bool) {
	if str == "" || size <= 0 {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LayoutOptions.PrimaryAlign = align
	op.LayoutOptions.SecondaryAlign = text.AlignCenter
	op.LayoutOptions.LineSpacing = size * 1.3
	if additive {
		op.Blend = additiveBlend
	}
	text.Draw(s.target, str, s.Face(size), op)
}

// FillContour 填充闭合轮廓
func (s *RenderSystem) FillContour(pts []Point, clr color.Color) {
	if len(pts) < 3 {
		return
	}
	s.contourPath(pts)
	s.fillCurrent(clr)
}

// StrokeContour 描边闭合轮廓
func (s *RenderSystem) StrokeContour(pts []Point, width float64, clr color.Color) {
	if len(pts) < 3 {
		return
	}
	s.contourPath(pts)
	s.strokeCurrent(width, clr)
}

// FillRect 以普通混合填充矩形，用于界面面板
func (s *RenderSystem) FillRect(x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(s.target, float32(x), float32(y), float32(w), float32(h), clr, true)
}
