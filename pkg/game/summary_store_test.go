package game

import (
	"testing"
	"time"

	"github.com/decker502/neonpulse/pkg/systems"
)

func testSummary(keys int) *systems.Summary {
	return &systems.Summary{
		DurationSeconds: 30,
		TotalKeys:       keys,
		TopKeys:         []systems.KeyCount{{Key: "a", Count: keys}},
		Tempo:           1.5,
		Mood:            "calm",
		Reflection:      "An even, unhurried rhythm.",
		Region:          "center",
	}
}

// TestSummaryStorePersists 写入后重新打开可以读回
func TestSummaryStorePersists(t *testing.T) {
	gdataManager := openTestGdata(t, "test_neonpulse_summaries")
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	st := NewSummaryStore(gdataManager, 20)
	if err := st.Append(testSummary(7), at); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	reloaded := NewSummaryStore(gdataManager, 20)
	h := reloaded.History()
	if len(h) != 1 {
		t.Fatalf("History() len = %d, want 1", len(h))
	}
	if !h[0].EndedAt.Equal(at) {
		t.Errorf("EndedAt = %v, want %v", h[0].EndedAt, at)
	}
	if h[0].Summary.TotalKeys != 7 || h[0].Summary.Mood != "calm" || h[0].Summary.TopKeys[0].Key != "a" {
		t.Errorf("Summary = %+v", h[0].Summary)
	}
}

// TestSummaryStoreLimit 超过上限时丢弃最旧的记录
func TestSummaryStoreLimit(t *testing.T) {
	st := NewSummaryStore(nil, 3)
	base := time.Unix(0, 0)
	for i := 1; i <= 5; i++ {
		if err := st.Append(testSummary(i), base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}
	h := st.History()
	if len(h) != 3 {
		t.Fatalf("History() len = %d, want 3", len(h))
	}
	for i, want := range []int{3, 4, 5} {
		if h[i].Summary.TotalKeys != want {
			t.Errorf("History()[%d].TotalKeys = %d, want %d", i, h[i].Summary.TotalKeys, want)
		}
	}
}

func TestSummaryStoreNilSummary(t *testing.T) {
	st := NewSummaryStore(nil, 0)
	if err := st.Append(nil, time.Now()); err != nil {
		t.Errorf("Append(nil) error: %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}
}
