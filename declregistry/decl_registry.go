package declregistry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/types"
)

// DeclRegistry はReplセッション中に宣言された変数を管理する
// 補完、バックグラウンドのコンパイル、実行の各ゴルーチンから参照されるため、操作は全てロックで保護する
type DeclRegistry struct {
	mu    sync.RWMutex
	decls map[types.DeclName]Decl
}

// NewRegistry はDeclRegistryのインスタンスを生成する
func NewRegistry() *DeclRegistry {
	return &DeclRegistry{
		decls: make(map[types.DeclName]Decl),
	}
}

// Register は変数を登録する。同名の変数があれば上書きする
func (dr *DeclRegistry) Register(decl Decl) {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	dr.decls[decl.Name] = decl
}

// Lookup は変数を名前で引く
func (dr *DeclRegistry) Lookup(name types.DeclName) (Decl, bool) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()
	decl, ok := dr.decls[name]
	return decl, ok
}

// Load は変数の現在の値を返す。削除済みであればRemovedVariableErrorを返す
func (dr *DeclRegistry) Load(name string) (any, error) {
	decl, ok := dr.Lookup(types.DeclName(name))
	if !ok {
		return nil, errs.NewRemovedVariableError(name)
	}
	return decl.Value, nil
}

// MustLoad はLoadと同じだが、削除済みの場合はRemovedVariableErrorでpanicする
// 生成されたコードから呼ばれ、呼び出し時点の値を名前で読む
func (dr *DeclRegistry) MustLoad(name string) any {
	v, err := dr.Load(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Store は既存の変数の値を書き換える。型カタログ上の型は変えない
func (dr *DeclRegistry) Store(name string, v any) error {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	decl, ok := dr.decls[types.DeclName(name)]
	if !ok {
		return errs.NewRemovedVariableError(name)
	}
	decl.Value = v
	dr.decls[decl.Name] = decl
	return nil
}

// Delete は変数を削除する。存在しなければfalseを返す
func (dr *DeclRegistry) Delete(name types.DeclName) bool {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	if _, ok := dr.decls[name]; !ok {
		return false
	}
	delete(dr.decls, name)
	return true
}

// Decls は名前順に並べた変数の一覧を返す
func (dr *DeclRegistry) Decls() []Decl {
	dr.mu.RLock()
	defer dr.mu.RUnlock()
	decls := make([]Decl, 0, len(dr.decls))
	for _, decl := range dr.decls {
		decls = append(decls, decl)
	}
	slices.SortFunc(decls, func(a, b Decl) int {
		return strings.Compare(string(a.Name), string(b.Name))
	})
	return decls
}

// Names は名前順に並べた変数名の一覧を返す
func (dr *DeclRegistry) Names() []types.DeclName {
	decls := dr.Decls()
	names := make([]types.DeclName, len(decls))
	for i, decl := range decls {
		names[i] = decl.Name
	}
	return names
}

// Snapshot は変数の名前と動的な型の組を文字列にする
// 値だけが変わった場合は同じ文字列になる
func (dr *DeclRegistry) Snapshot() string {
	return SnapshotOf(dr.Decls())
}

// SnapshotOf は変数の一覧からSnapshotと同じ文字列を作る
func SnapshotOf(decls []Decl) string {
	var sb strings.Builder
	for _, decl := range decls {
		fmt.Fprintf(&sb, "%s:%v;", decl.Name, decl.GoType())
	}
	return sb.String()
}
