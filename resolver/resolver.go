package resolver

import (
	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/snippet"
	"github.com/kakkky/gosnip/types"
	"github.com/kakkky/gosnip/universe"
)

// Result は式の末尾(検索語の直前)が指す型
type Result struct {
	Type universe.Handle
	// 型名から辿っている場合はtrue。変数や呼び出しの戻り値から辿っている場合はfalse
	Static         bool
	RootIsVariable bool
}

// Scope は辿っている位置でのメンバの束縛を返す
func (r Result) Scope() universe.Scope {
	if r.Static {
		return universe.Static
	}
	return universe.Instance
}

// Resolver は変数と型カタログから、入力途中の式の型を求める
// 解決できない場合はエラーにせず、結果なしとして扱う
type Resolver struct {
	universe *universe.Universe
	env      *declregistry.DeclRegistry
}

// New はResolverのインスタンスを生成する
func New(u *universe.Universe, env *declregistry.DeclRegistry) *Resolver {
	return &Resolver{
		universe: u,
		env:      env,
	}
}

// Resolve は式を先頭から辿り、検索語の直前の要素が指す型を返す
func (r *Resolver) Resolve(expr snippet.Expression) (Result, bool) {
	if expr.IsBare() || expr.Segments[0].IsCall {
		return Result{}, false
	}
	cur, ok := r.ResolveRoot(expr.Segments[0].Name)
	if !ok {
		return Result{}, false
	}
	for _, seg := range expr.Segments[1:] {
		if seg.IsCall {
			cur, ok = r.resolveCall(cur, seg)
		} else {
			cur, ok = r.resolvePath(cur, seg.Name)
		}
		if !ok {
			return Result{}, false
		}
	}
	return cur, true
}

// ResolveRoot は先頭の名前を、基本型の別名、変数、型名の順に解決する
func (r *Resolver) ResolveRoot(name string) (Result, bool) {
	if h, ok := r.universe.PrimitiveAlias(name); ok {
		return Result{Type: h, Static: true}, true
	}
	if decl, ok := r.env.Lookup(types.DeclName(name)); ok {
		// nilの変数はメンバを辿らない
		if decl.IsNil() {
			return Result{}, false
		}
		h := decl.Type
		if !h.Valid() {
			if h, ok = r.universe.HandleOf(decl.GoType()); !ok {
				return Result{}, false
			}
		}
		return Result{Type: h, RootIsVariable: true}, true
	}
	// 補完では同名の型が複数あっても先頭の候補を使う。コンパイル時に改めて検証される
	found := r.universe.ByName(types.TypeName(name))
	if len(found) == 0 {
		return Result{}, false
	}
	return Result{Type: found[0], Static: true}, true
}

// プロパティ、フィールドの順に探し、静的な文脈では入れ子の型も探す
func (r *Resolver) resolvePath(cur Result, name string) (Result, bool) {
	members := r.universe.MembersOf(cur.Type, cur.Scope(), true)
	for _, kind := range []universe.MemberKind{universe.MemberProperty, universe.MemberField} {
		for _, m := range members {
			if m.Kind != kind || string(m.Name) != name {
				continue
			}
			h, ok := r.universe.Resolve(m.Result, cur.Type)
			if !ok {
				return Result{}, false
			}
			return Result{Type: h}, true
		}
	}
	if cur.Static {
		for _, nested := range r.universe.NestedTypes(cur.Type) {
			if string(nested.Type().Name) == name {
				return Result{Type: nested, Static: true}, true
			}
		}
	}
	return Result{}, false
}

// 名前と引数の個数だけでメソッドを絞り込む。引数の型は見ないため、候補がちょうど一つの場合のみ戻り値の型を辿る
func (r *Resolver) resolveCall(cur Result, seg snippet.Segment) (Result, bool) {
	var candidates []universe.Member
	for _, m := range r.universe.MembersOf(cur.Type, cur.Scope(), true) {
		if m.Kind == universe.MemberMethod && string(m.Name) == seg.Name && m.AcceptsArgs(seg.ArgCount) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) != 1 || candidates[0].ResultCount != 1 {
		return Result{}, false
	}
	h, ok := r.universe.Resolve(candidates[0].Result, cur.Type)
	if !ok {
		return Result{}, false
	}
	return Result{Type: h}, true
}

// Candidates は単純名に一致する、名前空間を追加すれば参照できる型を返す
func (r *Resolver) Candidates(name string) []universe.Handle {
	var importable []universe.Handle
	for _, h := range r.universe.ByName(types.TypeName(name)) {
		t := h.Type()
		if t.IsNested() || t.Synthetic || t.Namespace == "" {
			continue
		}
		importable = append(importable, h)
	}
	return importable
}
