// Package utils 提供通用工具函数
package utils

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// MouseID 鼠标指针的 ID，触摸点使用非负的 TouchID
const MouseID = -1

// PointerEventKind 指针事件类型
type PointerEventKind int

const (
	// PointerPressed 按下
	PointerPressed PointerEventKind = iota
	// PointerMoved 按住移动
	PointerMoved
	// PointerReleased 释放或取消
	PointerReleased
)

func (k PointerEventKind) String() string {
	switch k {
	case PointerPressed:
		return "pressed"
	case PointerMoved:
		return "moved"
	case PointerReleased:
		return "released"
	}
	return "unknown"
}

// PointerEvent 一次指针事件，坐标为逻辑屏幕坐标
type PointerEvent struct {
	Kind PointerEventKind
	ID   int
	X, Y int
}

// PointerPos 指针位置
type PointerPos struct {
	X, Y int
}

// PointerTracker 统一跟踪鼠标左键与多点触摸
//
// 每帧比较上一帧与当前帧的按下集合，生成按下、移动、释放事件。
// 释放事件使用该指针最后一次已知的位置（触摸释放后无法再读取坐标）。
// 被 Consume 的指针在松开之前不再产生任何事件。
type PointerTracker struct {
	prev     map[int]PointerPos
	cur      map[int]PointerPos
	consumed map[int]bool

	touchIDs []ebiten.TouchID
	events   []PointerEvent
}

// NewPointerTracker 创建指针跟踪器
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{
		prev:     make(map[int]PointerPos),
		cur:      make(map[int]PointerPos),
		consumed: make(map[int]bool),
	}
}

// Update 读取本帧输入并返回事件（每帧调用一次）
// 返回的切片在下次调用前有效
func (pt *PointerTracker) Update() []PointerEvent {
	clear(pt.cur)

	pt.touchIDs = ebiten.AppendTouchIDs(pt.touchIDs[:0])
	for _, id := range pt.touchIDs {
		x, y := ebiten.TouchPosition(id)
		pt.cur[int(id)] = PointerPos{X: x, Y: y}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		pt.cur[MouseID] = PointerPos{X: x, Y: y}
	}

	return pt.Diff(pt.cur)
}

// Diff 将当前按下集合与上一帧比较，生成事件并记住当前集合
//
// 事件顺序：释放、按下、移动，同类事件按 ID 升序。
func (pt *PointerTracker) Diff(cur map[int]PointerPos) []PointerEvent {
	pt.events = pt.events[:0]

	for _, id := range sortedIDs(pt.prev) {
		if _, ok := cur[id]; !ok {
			if pt.consumed[id] {
				delete(pt.consumed, id)
				continue
			}
			p := pt.prev[id]
			pt.events = append(pt.events, PointerEvent{Kind: PointerReleased, ID: id, X: p.X, Y: p.Y})
		}
	}
	ids := sortedIDs(cur)
	for _, id := range ids {
		if _, ok := pt.prev[id]; !ok {
			p := cur[id]
			pt.events = append(pt.events, PointerEvent{Kind: PointerPressed, ID: id, X: p.X, Y: p.Y})
		}
	}
	for _, id := range ids {
		if old, ok := pt.prev[id]; ok && old != cur[id] && !pt.consumed[id] {
			p := cur[id]
			pt.events = append(pt.events, PointerEvent{Kind: PointerMoved, ID: id, X: p.X, Y: p.Y})
		}
	}

	clear(pt.prev)
	for id, p := range cur {
		pt.prev[id] = p
	}
	return pt.events
}

// Active 当前按下且未被 Consume 的指针数量
func (pt *PointerTracker) Active() int {
	return len(pt.prev) - len(pt.consumed)
}

// Consume 吞掉当前按住的所有指针：它们之后的移动与释放都不再产生事件，
// 松开后再次按下才会产生新的按下事件
func (pt *PointerTracker) Consume() {
	for id := range pt.prev {
		pt.consumed[id] = true
	}
}

func sortedIDs(m map[int]PointerPos) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
