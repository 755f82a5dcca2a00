package systems

import (
	"reflect"
	"strings"
	"testing"

	"github.com/decker502/neonpulse/pkg/config"
)

// TestSessionLifecycle Selecting → Active → Ended → Selecting
func TestSessionLifecycle(t *testing.T) {
	s := NewSessionSystem(newTestConfig(t))
	if s.State() != SessionSelecting {
		t.Fatalf("initial state = %s, want selecting", s.State())
	}
	if s.Update(1e9) {
		t.Error("Update ended a session that never started")
	}

	if !s.StartFromKey('2', 1000) {
		t.Fatal("StartFromKey('2') returned false")
	}
	if s.State() != SessionActive {
		t.Fatalf("state = %s, want active", s.State())
	}
	if got := s.Remaining(31000); got != 30000 {
		t.Errorf("Remaining() = %v, want 30000", got)
	}
	if s.Start(30, 2000) {
		t.Error("Start succeeded while already active")
	}

	if s.Update(60999) {
		t.Error("session ended early")
	}
	if !s.Update(61000) {
		t.Fatal("session did not end at its duration")
	}
	if s.State() != SessionEnded || s.Summary() == nil {
		t.Fatalf("state = %s summary = %v", s.State(), s.Summary())
	}
	if s.Update(70000) {
		t.Error("Update reported a second transition")
	}

	s.Reset()
	if s.State() != SessionSelecting || s.Summary() != nil {
		t.Errorf("after Reset: state = %s summary = %v", s.State(), s.Summary())
	}
}

func TestSessionDurationSelection(t *testing.T) {
	cfg := newTestConfig(t)
	keys := []struct {
		key  rune
		want int
	}{
		{'1', 30}, {'2', 60}, {'3', 120}, {'4', 300},
	}
	for _, tt := range keys {
		s := NewSessionSystem(cfg)
		s.StartFromKey(tt.key, 0)
		if got := s.Remaining(0); got != float64(tt.want*1000) {
			t.Errorf("key %q: Remaining = %v, want %v", tt.key, got, tt.want*1000)
		}
	}

	s := NewSessionSystem(cfg)
	if s.StartFromKey('5', 0) || s.StartFromKey('a', 0) {
		t.Error("unmapped key started a session")
	}

	quads := []struct {
		name string
		x, y float64
		want int
	}{
		{"左上", 10, 10, 30},
		{"右上", 1000, 10, 60},
		{"左下", 10, 700, 120},
		{"右下", 1000, 700, 300},
	}
	for _, tt := range quads {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.QuadrantDuration(tt.x, tt.y, 1280, 800); got != tt.want {
				t.Errorf("QuadrantDuration(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// TestSessionTempo 三次按键间隔 1 秒，平均节奏 3/2
func TestSessionTempo(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		want  float64
	}{
		{"三次按键跨度两秒", []float64{5000, 6000, 7000}, 1.5},
		{"单次按键", []float64{5000}, 0},
		{"相同时间戳", []float64{5000, 5000, 5000}, 0},
		{"无按键", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSessionSystem(newTestConfig(t))
			s.Start(300, 0)
			for _, ts := range tt.times {
				s.RecordKey("a", 0.5, 0.5, ts)
			}
			if got := s.Tempo(); got != tt.want {
				t.Errorf("Tempo() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSessionTopKeys 次数降序，次数相同按首次出现顺序
func TestSessionTopKeys(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want []KeyCount
	}{
		{"aabbbc", "aabbbc", []KeyCount{{"b", 3}, {"a", 2}, {"c", 1}}},
		{"平局按首次出现", "zyxzyx", []KeyCount{{"z", 2}, {"y", 2}, {"x", 2}}},
		{"最多五个", "abcdefg", []KeyCount{{"a", 1}, {"b", 1}, {"c", 1}, {"d", 1}, {"e", 1}}},
		{"大小写合并", "aA", []KeyCount{{"a", 2}}},
		{"空", "", []KeyCount{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSessionSystem(newTestConfig(t))
			s.Start(60, 0)
			for i, r := range tt.keys {
				s.RecordKey(string(r), 0.5, 0.5, float64(i*100))
			}
			if got := s.TopKeys(5); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSessionStatsFrozenAfterEnd 结束后统计只读
func TestSessionStatsFrozenAfterEnd(t *testing.T) {
	s := NewSessionSystem(newTestConfig(t))
	s.Start(30, 0)
	s.RecordKey("a", 0.2, 0.2, 1000)
	s.RecordKey("b", 0.2, 0.2, 2000)
	s.RecordClick()
	s.RecordDrag()
	s.SetMood("calm")
	s.Update(30000)

	s.RecordKey("c", 0.5, 0.5, 31000)
	s.RecordClick()
	s.RecordDrag()
	s.SetMood("excited")

	sum := s.Summary()
	if sum.TotalKeys != 2 || sum.UniqueKeys != 2 || sum.Clicks != 1 || sum.DragSpawns != 1 {
		t.Errorf("summary counts = %+v", sum)
	}
	if s.TotalKeys() != 2 || s.Clicks() != 1 || s.DragSpawns() != 1 || s.Mood() != "calm" {
		t.Error("live statistics changed after the session ended")
	}
	if sum.Mood != "calm" || sum.Tempo != 2 || sum.DurationSeconds != 30 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Reflection == "" {
		t.Error("summary has no reflection")
	}
	if !strings.Contains(sum.Region, "upper left") {
		t.Errorf("Region = %q, want upper left", sum.Region)
	}
}

func TestSessionResetClearsStats(t *testing.T) {
	s := NewSessionSystem(newTestConfig(t))
	s.Start(30, 0)
	s.RecordKey("q", 0.5, 0.5, 100)
	s.RecordClick()
	s.SetMood("anxious")
	s.Reset()

	if s.TotalKeys() != 0 || s.Clicks() != 0 || s.DragSpawns() != 0 {
		t.Error("counts not cleared")
	}
	if len(s.KeyCounts()) != 0 {
		t.Errorf("KeyCounts() = %v, want empty", s.KeyCounts())
	}
	if s.Mood() != "unlabeled" {
		t.Errorf("Mood() = %q, want unlabeled", s.Mood())
	}
}

func TestReflect(t *testing.T) {
	rules := newTestConfig(t).Reflections
	tests := []struct {
		mood  string
		tempo float64
		want  string
	}{
		{"calm", 1.0, "An even, unhurried rhythm"},
		{"calm", 1.5, "Calm on the surface"},
		{"hopeful", 2.0, "A rising tempo"},
		{"hopeful", 1.9, "Steady and hopeful"},
		{"excited", 5, "A storm of light"},
		{"mystery", 1, "Every session leaves a different trace."},
	}
	for _, tt := range tests {
		if got := Reflect(rules, tt.mood, tt.tempo); !strings.HasPrefix(got, tt.want) {
			t.Errorf("Reflect(%s, %v) = %q, want prefix %q", tt.mood, tt.tempo, got, tt.want)
		}
	}
	if got := Reflect([]config.ReflectionRule{}, "calm", 1); got != "" {
		t.Errorf("Reflect(no rules) = %q, want empty", got)
	}
}

func TestDescribeRegion(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want string
	}{
		{"无按键", nil, "no keys"},
		{"集中在中央", []Point{{0.5, 0.5}, {0.52, 0.48}}, "clustered in the center"},
		{"集中在右下", []Point{{0.8, 0.75}, {0.85, 0.7}}, "clustered in the lower right"},
		{"分散", []Point{{0.1, 0.2}, {0.9, 0.8}}, "scattered around the center"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeRegion(tt.pts); got != tt.want {
				t.Errorf("DescribeRegion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionStateString(t *testing.T) {
	for state, want := range map[SessionState]string{
		SessionSelecting: "selecting",
		SessionActive:    "active",
		SessionEnded:     "ended",
		SessionState(9):  "SessionState(9)",
	} {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
