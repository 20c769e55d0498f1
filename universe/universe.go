package universe

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/types"
)

// Universe は参照可能な全ての型の索引を担う
// 初回の問い合わせで全てのCatalogProviderを走査し、以降は変更されないため読み取りにロックは不要
type Universe struct {
	providers []CatalogProvider
	report    func(error)

	once       sync.Once
	all        []*Type
	byFullName map[types.FullTypeName]*Type
	byName     map[types.TypeName][]*Type
	aliases    map[string]string
}

// New はUniverseのインスタンスを生成する。型の走査は最初の問い合わせまで行わない
func New(providers ...CatalogProvider) *Universe {
	return &Universe{
		providers: providers,
		report:    func(error) {},
	}
}

// OnError は読み飛ばしたカタログの失敗を受け取る関数を設定する
func (u *Universe) OnError(fn func(error)) {
	if fn != nil {
		u.report = fn
	}
}

func (u *Universe) build() {
	u.once.Do(func() {
		catalogs := make([]*Catalog, len(u.providers))
		var g errgroup.Group
		for i, provider := range u.providers {
			g.Go(func() error {
				defer func() {
					if r := recover(); r != nil {
						u.report(errs.NewInternalError("catalog " + provider.Name() + " panicked").Wrap(fmt.Errorf("%v", r)))
					}
				}()
				catalog, err := provider.Load(context.Background())
				if err != nil {
					// 一つのカタログの失敗は致命的ではないので読み飛ばす
					u.report(errs.NewInternalError("failed to load catalog " + provider.Name()).Wrap(err))
					return nil
				}
				catalogs[i] = catalog
				return nil
			})
		}
		_ = g.Wait()
		u.index(catalogs)
	})
}

func (u *Universe) index(catalogs []*Catalog) {
	u.byFullName = make(map[types.FullTypeName]*Type)
	u.byName = make(map[types.TypeName][]*Type)
	u.aliases = make(map[string]string)

	for _, catalog := range catalogs {
		if catalog == nil {
			continue
		}
		for _, t := range catalog.Types {
			if t == nil || t.Name == "" {
				continue
			}
			if _, exists := u.byFullName[t.FullName()]; exists {
				continue // 先に登録されたカタログを優先する
			}
			c := t.clone()
			u.byFullName[c.FullName()] = c
			u.byName[c.Name] = append(u.byName[c.Name], c)
			u.all = append(u.all, c)
		}
		for alias, target := range catalog.Aliases {
			if _, exists := u.aliases[alias]; !exists {
				u.aliases[alias] = target
			}
			if _, exists := u.aliases[target]; !exists {
				u.aliases[target] = alias
			}
		}
	}

	for _, t := range u.all {
		if !t.IsNested() {
			continue
		}
		if outer, ok := u.byFullName[t.Outer]; ok {
			outer.nested = append(outer.nested, t)
		}
	}
	for _, t := range u.all {
		slices.SortFunc(t.nested, compareTypes)
	}
	for name := range u.byName {
		slices.SortFunc(u.byName[name], compareTypes)
	}
	slices.SortFunc(u.all, func(a, b *Type) int {
		return strings.Compare(string(a.FullName()), string(b.FullName()))
	})
}

// 入れ子でない型を優先し、名前空間、名前の順に並べる
func compareTypes(a, b *Type) int {
	if a.IsNested() != b.IsNested() {
		if a.IsNested() {
			return 1
		}
		return -1
	}
	if c := strings.Compare(string(a.Namespace), string(b.Namespace)); c != 0 {
		return c
	}
	return strings.Compare(string(a.Name), string(b.Name))
}

// AllTypes は全ての型を返す
func (u *Universe) AllTypes() []Handle {
	u.build()
	handles := make([]Handle, len(u.all))
	for i, t := range u.all {
		handles[i] = Handle{t: t}
	}
	return handles
}

// ByName は単純名に一致する型を返す。複数の名前空間で同名の型が宣言されている場合がある
func (u *Universe) ByName(name types.TypeName) []Handle {
	u.build()
	found := u.byName[name]
	handles := make([]Handle, len(found))
	for i, t := range found {
		handles[i] = Handle{t: t}
	}
	return handles
}

// ByFullName は修飾名に一致する型を返す
func (u *Universe) ByFullName(name types.FullTypeName) (Handle, bool) {
	u.build()
	t, ok := u.byFullName[name]
	if !ok {
		return Handle{}, false
	}
	return Handle{t: t}, true
}

// PrimitiveAlias は基本型の別名(int ⇄ System.Int32, byte ⇄ uint8など)から型を引く
func (u *Universe) PrimitiveAlias(name string) (Handle, bool) {
	u.build()
	if target, ok := u.aliases[name]; ok {
		if t, ok := u.byFullName[types.FullTypeName(target)]; ok {
			return Handle{t: t}, true
		}
		if t, ok := u.byFullName[types.FullTypeName(name)]; ok {
			return Handle{t: t}, true
		}
	}
	if t, ok := u.byFullName[types.FullTypeName(name)]; ok && t.Kind == KindBasic {
		return Handle{t: t}, true
	}
	return Handle{}, false
}

// MembersOf は型のメンバを返す
// flattenがtrueの場合は埋め込み型、基底型のメンバも含める(派生側が優先)
func (u *Universe) MembersOf(h Handle, scope Scope, flatten bool) []Member {
	if !h.Valid() {
		return nil
	}
	u.build()
	var members []Member
	seen := make(map[string]bool)
	visited := make(map[*Type]bool)
	var walk func(h Handle)
	walk = func(h Handle) {
		if visited[h.t] {
			return
		}
		visited[h.t] = true
		var declared []string
		for _, m := range h.t.Members {
			if m.Static != (scope == Static) {
				continue
			}
			key := memberKey(m)
			if seen[key] {
				continue
			}
			declared = append(declared, key)
			members = append(members, m)
		}
		for _, key := range declared {
			seen[key] = true
		}
		if !flatten {
			return
		}
		for _, base := range h.t.Bases {
			if bh, ok := u.Resolve(base, h); ok {
				walk(bh)
			}
		}
	}
	walk(h)
	return members
}

func memberKey(m Member) string {
	if m.Kind != MemberMethod {
		return "v:" + string(m.Name)
	}
	return fmt.Sprintf("m:%s/%d", m.Name, len(m.Params))
}

// NestedTypes は型の内側で宣言された型を返す
func (u *Universe) NestedTypes(h Handle) []Handle {
	if !h.Valid() {
		return nil
	}
	u.build()
	handles := make([]Handle, len(h.t.nested))
	for i, t := range h.t.nested {
		handles[i] = Handle{t: t}
	}
	return handles
}

// Resolve は型参照を解決する。
// 参照がownerの型パラメータを指す場合は、ownerの型引数に置き換える
func (u *Universe) Resolve(ref TypeRef, owner Handle) (Handle, bool) {
	if ref.IsZero() {
		return Handle{}, false
	}
	u.build()
	if owner.Valid() {
		for i, param := range owner.t.TypeParams {
			if param == ref.Name {
				if i < len(owner.args) {
					return owner.args[i], true
				}
				return Handle{}, false
			}
		}
	}
	var base Handle
	if t, ok := u.byFullName[types.FullTypeName(ref.Name)]; ok {
		base = Handle{t: t}
	} else if alias, ok := u.PrimitiveAlias(ref.Name); ok {
		base = alias
	} else {
		return Handle{}, false
	}
	if len(ref.Args) == 0 {
		return base, true
	}
	args := make([]Handle, 0, len(ref.Args))
	for _, argRef := range ref.Args {
		arg, ok := u.Resolve(argRef, owner)
		if !ok {
			// 型引数が解決できなくても型そのものは使える
			return base, true
		}
		args = append(args, arg)
	}
	return u.Instantiate(base, args...), true
}

// Instantiate は型引数を指定したハンドルを返す
func (u *Universe) Instantiate(h Handle, args ...Handle) Handle {
	if !h.Valid() {
		return h
	}
	h.args = append([]Handle(nil), args...)
	return h
}

// HandleOf は実行時の値の型からハンドルを引く
func (u *Universe) HandleOf(rt reflect.Type) (Handle, bool) {
	if rt == nil {
		return Handle{}, false
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	name := rt.Name()
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return Handle{}, false
	}
	if rt.PkgPath() != "" {
		return u.ByFullName(types.NewFullTypeName(types.Namespace(rt.PkgPath()), types.TypeName(name)))
	}
	return u.PrimitiveAlias(name)
}
