package usings

import (
	"slices"
	"strings"
	"sync"
)

// Store は選択中の名前空間(インポートパス)の集合を保持する
// 補完の候補が選択中の名前空間にあるか、コンパイル時にどのパッケージをインポートするかに使う
type Store struct {
	mu       sync.RWMutex
	selected map[string]struct{}
}

// NewStore はStoreのインスタンスを生成する
func NewStore(namespaces ...string) *Store {
	s := &Store{
		selected: make(map[string]struct{}),
	}
	for _, ns := range namespaces {
		s.Add(ns)
	}
	return s
}

// Selected は名前空間が選択されているかを返す
func (s *Store) Selected(ns string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[ns]
	return ok
}

// Add は名前空間を選択する。空白のみの名前は無視し、追加したかどうかを返す
func (s *Store) Add(ns string) bool {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[ns]; ok {
		return false
	}
	s.selected[ns] = struct{}{}
	return true
}

// Remove は名前空間の選択を外し、外したかどうかを返す
func (s *Store) Remove(ns string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[ns]; !ok {
		return false
	}
	delete(s.selected, ns)
	return true
}

// List は選択中の名前空間を辞書順で返す
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]string, 0, len(s.selected))
	for ns := range s.selected {
		list = append(list, ns)
	}
	slices.Sort(list)
	return list
}
