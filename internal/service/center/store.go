package center

import (
	"fmt"
	"sync"

	"github.com/irfanshahuno/doctor-performance-app/internal/model"
	"github.com/irfanshahuno/doctor-performance-app/internal/store"
)

// entry 单个中心的内存槽位
type entry struct {
	summary *model.CenterSummary
	diag    *model.Diagnostics
}

// Store 按中心分槽的汇总存储
//
// 每个中心最多持有一份最新汇总。写入先落盘再更新内存，
// 读者不会观察到"已可见但未持久化"的结果；进程重启后
// 空的内存槽位先尝试从 SQLite 补水再报告为空。
type Store struct {
	mu    sync.RWMutex
	db    *store.Store
	cache map[string]*entry
}

// NewStore 创建中心存储
func NewStore(db *store.Store) *Store {
	return &Store{
		db:    db,
		cache: make(map[string]*entry),
	}
}

// Put 整体替换指定中心的汇总（last-writer-wins）
func (s *Store) Put(centerID string, summary *model.CenterSummary, diag *model.Diagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 先持久化，提交成功后才对读者可见
	if err := s.db.ReplaceCenterSummary(centerID, summary, diag); err != nil {
		return fmt.Errorf("persist summary for center %s: %w", centerID, err)
	}

	s.cache[centerID] = &entry{summary: summary, diag: diag}
	return nil
}

// Get 读取指定中心的最新汇总
//
// 中心没有汇总时返回 (nil, nil, false, nil)。
func (s *Store) Get(centerID string) (*model.CenterSummary, *model.Diagnostics, bool, error) {
	s.mu.RLock()
	if e, ok := s.cache[centerID]; ok {
		s.mu.RUnlock()
		return e.summary, e.diag, true, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// 双重检查：补水期间可能已有并发写入
	if e, ok := s.cache[centerID]; ok {
		return e.summary, e.diag, true, nil
	}

	summary, diag, err := s.db.GetCenterSummary(centerID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("hydrate summary for center %s: %w", centerID, err)
	}
	if summary == nil {
		return nil, nil, false, nil
	}

	s.cache[centerID] = &entry{summary: summary, diag: diag}
	return summary, diag, true, nil
}

// Clear 清除指定中心的汇总（内存与持久化副本一并删除）
func (s *Store) Clear(centerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCenterSummary(centerID); err != nil {
		return fmt.Errorf("clear summary for center %s: %w", centerID, err)
	}

	delete(s.cache, centerID)
	return nil
}

// Centers 列出所有已有汇总的中心
func (s *Store) Centers() ([]string, error) {
	return s.db.ListCenterIDs()
}
