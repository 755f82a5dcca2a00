package game

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/neonpulse/pkg/systems"
)

// SummaryRecord 一次会话结束时保存的记录
type SummaryRecord struct {
	EndedAt time.Time        `yaml:"endedAt"`
	Summary *systems.Summary `yaml:"summary"`
}

// 存储路径常量
const (
	summaryObject   = "summaries"
	summaryProperty = "history"
)

// SummaryStore 保存最近若干次会话总结
//
// gdataManager 为 nil 时只保存在内存中。
type SummaryStore struct {
	gdataManager *gdata.Manager
	limit        int
	records      []SummaryRecord
}

// NewSummaryStore 创建总结存储并加载已有历史
func NewSummaryStore(gdataManager *gdata.Manager, limit int) *SummaryStore {
	if limit <= 0 {
		limit = 20
	}
	st := &SummaryStore{gdataManager: gdataManager, limit: limit}
	if err := st.Load(); err != nil {
		log.Printf("[SummaryStore] Warning: Failed to load history: %v (starting empty)", err)
	}
	return st
}

// Load 从 gdata 读取历史
func (st *SummaryStore) Load() error {
	st.records = nil
	if st.gdataManager == nil || !st.gdataManager.ObjectPropExists(summaryObject, summaryProperty) {
		return nil
	}
	data, err := st.gdataManager.LoadObjectProp(summaryObject, summaryProperty)
	if err != nil {
		return fmt.Errorf("failed to load summaries: %w", err)
	}
	var records []SummaryRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal summaries: %w", err)
	}
	st.records = st.trim(records)
	return nil
}

func (st *SummaryStore) trim(records []SummaryRecord) []SummaryRecord {
	if len(records) > st.limit {
		return records[len(records)-st.limit:]
	}
	return records
}

// Append 追加一条总结，超过上限时丢弃最旧的记录，并立即持久化
func (st *SummaryStore) Append(sum *systems.Summary, endedAt time.Time) error {
	if sum == nil {
		return nil
	}
	st.records = st.trim(append(st.records, SummaryRecord{EndedAt: endedAt, Summary: sum}))
	return st.save()
}

func (st *SummaryStore) save() error {
	if st.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(st.records)
	if err != nil {
		return fmt.Errorf("failed to marshal summaries: %w", err)
	}
	if err := st.gdataManager.SaveObjectProp(summaryObject, summaryProperty, data); err != nil {
		return fmt.Errorf("failed to save summaries: %w", err)
	}
	log.Printf("[SummaryStore] Saved %d summaries", len(st.records))
	return nil
}

// History 按从旧到新的顺序返回历史记录
func (st *SummaryStore) History() []SummaryRecord {
	out := make([]SummaryRecord, len(st.records))
	copy(out, st.records)
	return out
}

// Len 记录数量
func (st *SummaryStore) Len() int {
	return len(st.records)
}
