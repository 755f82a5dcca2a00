package systems

import (
	"fmt"
	"log"
	"math"
	"slices"
	"strings"

	"github.com/decker502/neonpulse/pkg/config"
)

// SessionState 会话状态
type SessionState int

const (
	SessionSelecting SessionState = iota // 选择时长
	SessionActive                        // 进行中
	SessionEnded                         // 已结束，展示总结
)

func (s SessionState) String() string {
	switch s {
	case SessionSelecting:
		return "selecting"
	case SessionActive:
		return "active"
	case SessionEnded:
		return "ended"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// KeyCount 单个字符的出现次数
type KeyCount struct {
	Key   string `yaml:"key"`
	Count int    `yaml:"count"`
}

// Summary 会话结束时冻结的统计结果
type Summary struct {
	DurationSeconds int        `yaml:"durationSeconds"`
	TotalKeys       int        `yaml:"totalKeys"`
	UniqueKeys      int        `yaml:"uniqueKeys"`
	Clicks          int        `yaml:"clicks"`
	DragSpawns      int        `yaml:"dragSpawns"`
	TopKeys         []KeyCount `yaml:"topKeys"`
	Tempo           float64    `yaml:"tempo"` // 次/秒
	Mood            string     `yaml:"mood"`
	Reflection      string     `yaml:"reflection"`
	Region          string     `yaml:"region"`
}

const topKeyLimit = 5

// SessionSystem 计时会话状态机
//
// Selecting → Active → Ended → (重置) → Selecting。
// 统计数据只在开始或重置时清空，结束后只读。
type SessionSystem struct {
	cfg         config.SessionConfig
	reflections []config.ReflectionRule
	unlabeled   string

	state      SessionState
	durationMs float64
	startedAt  float64

	counts    map[string]int
	order     []string // 按首次出现顺序
	totalKeys int
	clicks    int
	drags     int
	firstKey  float64
	lastKey   float64
	positions []Point // 归一化按键位置
	mood      string

	summary *Summary
}

// NewSessionSystem 创建会话控制器，初始状态为 Selecting
func NewSessionSystem(cfg *config.SketchConfig) *SessionSystem {
	s := &SessionSystem{
		cfg:         cfg.Session,
		reflections: cfg.Reflections,
		unlabeled:   cfg.Mood.Unlabeled,
	}
	s.clearStats()
	return s
}

func (s *SessionSystem) clearStats() {
	s.counts = make(map[string]int)
	s.order = s.order[:0]
	s.totalKeys = 0
	s.clicks = 0
	s.drags = 0
	s.firstKey = 0
	s.lastKey = 0
	s.positions = s.positions[:0]
	s.mood = s.unlabeled
	s.summary = nil
}

// State 当前状态
func (s *SessionSystem) State() SessionState {
	return s.state
}

// Start 以给定时长（秒）开始会话，只在 Selecting 状态下生效
func (s *SessionSystem) Start(seconds int, now float64) bool {
	if s.state != SessionSelecting || seconds <= 0 {
		return false
	}
	s.clearStats()
	s.durationMs = float64(seconds) * 1000
	s.startedAt = now
	s.state = SessionActive
	log.Printf("[SessionSystem] session started: %ds", seconds)
	return true
}

// StartFromKey 按数字键选择时长
func (s *SessionSystem) StartFromKey(key rune, now float64) bool {
	secs, ok := s.cfg.Durations[string(key)]
	if !ok {
		return false
	}
	return s.Start(secs, now)
}

// QuadrantDuration 返回画布象限对应的时长（秒）：左上、右上、左下、右下
func (s *SessionSystem) QuadrantDuration(x, y, w, h float64) int {
	idx := 0
	if x >= w/2 {
		idx++
	}
	if y >= h/2 {
		idx += 2
	}
	return s.cfg.Quadrants[idx]
}

// StartFromQuadrant 按点击所在象限选择时长
func (s *SessionSystem) StartFromQuadrant(x, y, w, h, now float64) bool {
	return s.Start(s.QuadrantDuration(x, y, w, h), now)
}

// Update 检查超时，刚进入 Ended 时返回 true
func (s *SessionSystem) Update(now float64) bool {
	if s.state != SessionActive {
		return false
	}
	if now-s.startedAt < s.durationMs {
		return false
	}
	s.state = SessionEnded
	s.summary = s.buildSummary()
	log.Printf("[SessionSystem] session ended: %d keys, tempo %.2f, mood %s",
		s.summary.TotalKeys, s.summary.Tempo, s.summary.Mood)
	return true
}

// Remaining 剩余时间（毫秒），非 Active 状态返回 0
func (s *SessionSystem) Remaining(now float64) float64 {
	if s.state != SessionActive {
		return 0
	}
	return math.Max(0, s.durationMs-(now-s.startedAt))
}

// DurationSeconds 最近一次开始的会话时长（秒）
func (s *SessionSystem) DurationSeconds() int {
	return int(s.durationMs / 1000)
}

// Elapsed 已进行时间（毫秒）
func (s *SessionSystem) Elapsed(now float64) float64 {
	if s.state != SessionActive {
		return 0
	}
	return now - s.startedAt
}

// RecordKey 记录一次被接受的按键，nx/ny 为归一化位置
func (s *SessionSystem) RecordKey(key string, nx, ny, now float64) {
	if s.state != SessionActive {
		return
	}
	key = strings.ToLower(key)
	if _, seen := s.counts[key]; !seen {
		s.order = append(s.order, key)
	}
	s.counts[key]++
	if s.totalKeys == 0 {
		s.firstKey = now
	}
	s.lastKey = now
	s.totalKeys++
	s.positions = append(s.positions, Point{X: nx, Y: ny})
}

// RecordClick 记录一次点击
func (s *SessionSystem) RecordClick() {
	if s.state == SessionActive {
		s.clicks++
	}
}

// RecordDrag 记录一次拖动生成
func (s *SessionSystem) RecordDrag() {
	if s.state == SessionActive {
		s.drags++
	}
}

// SetMood 更新当前情绪
func (s *SessionSystem) SetMood(mood string) {
	if s.state == SessionActive {
		s.mood = mood
	}
}

// Mood 当前情绪
func (s *SessionSystem) Mood() string {
	return s.mood
}

// TotalKeys 已接受的按键数
func (s *SessionSystem) TotalKeys() int {
	return s.totalKeys
}

// Clicks 点击数
func (s *SessionSystem) Clicks() int {
	return s.clicks
}

// DragSpawns 拖动生成数
func (s *SessionSystem) DragSpawns() int {
	return s.drags
}

// KeyCounts 按首次出现顺序返回字符计数
func (s *SessionSystem) KeyCounts() []KeyCount {
	out := make([]KeyCount, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, KeyCount{Key: k, Count: s.counts[k]})
	}
	return out
}

// TopKeys 出现次数最多的 n 个字符，次数相同时按首次出现顺序
func (s *SessionSystem) TopKeys(n int) []KeyCount {
	all := s.KeyCounts()
	slices.SortStableFunc(all, func(a, b KeyCount) int {
		return b.Count - a.Count
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// Tempo 平均节奏：总按键数 ÷ (末次 − 首次) 秒，少于两个不同时间戳时为 0
func (s *SessionSystem) Tempo() float64 {
	span := (s.lastKey - s.firstKey) / 1000
	if s.totalKeys < 2 || span <= 0 {
		return 0
	}
	return float64(s.totalKeys) / span
}

// Summary 返回冻结的总结，仅在 Ended 状态下非 nil
func (s *SessionSystem) Summary() *Summary {
	return s.summary
}

func (s *SessionSystem) buildSummary() *Summary {
	tempo := s.Tempo()
	return &Summary{
		DurationSeconds: int(s.durationMs / 1000),
		TotalKeys:       s.totalKeys,
		UniqueKeys:      len(s.order),
		Clicks:          s.clicks,
		DragSpawns:      s.drags,
		TopKeys:         s.TopKeys(topKeyLimit),
		Tempo:           tempo,
		Mood:            s.mood,
		Reflection:      Reflect(s.reflections, s.mood, tempo),
		Region:          DescribeRegion(s.positions),
	}
}

// Reflect 按顺序匹配决策表，返回第一条命中规则的文本
func Reflect(rules []config.ReflectionRule, mood string, tempo float64) string {
	for _, r := range rules {
		if r.Matches(mood, tempo) {
			return r.Text
		}
	}
	return ""
}

// DescribeRegion 用一句短语描述归一化按键位置的分布
func DescribeRegion(pts []Point) string {
	if len(pts) == 0 {
		return "no keys"
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	mx, my := sx/n, sy/n

	var spread float64
	for _, p := range pts {
		spread += math.Hypot(p.X-mx, p.Y-my)
	}
	spread /= n

	vertical := "middle"
	switch {
	case my < 0.4:
		vertical = "upper"
	case my > 0.6:
		vertical = "lower"
	}
	horizontal := "center"
	switch {
	case mx < 0.4:
		horizontal = "left"
	case mx > 0.6:
		horizontal = "right"
	}

	area := vertical + " " + horizontal
	if vertical == "middle" && horizontal == "center" {
		area = "center"
	}
	if spread > 0.2 {
		return "scattered around the " + area
	}
	return "clustered in the " + area
}

// Reset 清空统计并回到 Selecting
func (s *SessionSystem) Reset() {
	s.clearStats()
	s.durationMs = 0
	s.startedAt = 0
	s.state = SessionSelecting
	log.Printf("[SessionSystem] session reset")
}
