package usings

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStore(t *testing.T) {
	s := NewStore("strings", "fmt", " ", "fmt")

	if diff := cmp.Diff([]string{"fmt", "strings"}, s.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name string
		op   func() bool
		want bool
	}{
		{name: "新しい名前空間の追加", op: func() bool { return s.Add("math") }, want: true},
		{name: "追加済みの名前空間", op: func() bool { return s.Add("math") }, want: false},
		{name: "前後の空白は取り除く", op: func() bool { return s.Add(" os ") }, want: true},
		{name: "空の名前空間", op: func() bool { return s.Add("") }, want: false},
		{name: "選択中の名前空間の削除", op: func() bool { return s.Remove("strings") }, want: true},
		{name: "未選択の名前空間の削除", op: func() bool { return s.Remove("strings") }, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if diff := cmp.Diff([]string{"fmt", "math", "os"}, s.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
	if !s.Selected("os") || s.Selected("strings") {
		t.Errorf("Selected() returned unexpected results for %v", s.List())
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for _, ns := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.Add(ns)
				s.Selected(ns)
				s.List()
			}
		}()
	}
	wg.Wait()
	if got := len(s.List()); got != 4 {
		t.Errorf("len(List()) = %d, want 4", got)
	}
}
