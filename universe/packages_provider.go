package universe

import (
	"context"
	gotypes "go/types"

	"golang.org/x/tools/go/packages"

	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/types"
)

// PackagesProvider はgo/packagesで読み込んだパッケージの型情報をカタログにする
type PackagesProvider struct {
	dir      string
	patterns []string
	load     func(cfg *packages.Config, patterns ...string) ([]*packages.Package, error)
	report   func(error)
}

// NewPackagesProvider はPackagesProviderのインスタンスを生成する
func NewPackagesProvider(dir string, patterns ...string) *PackagesProvider {
	return &PackagesProvider{
		dir:      dir,
		patterns: patterns,
		load:     packages.Load,
		report:   func(error) {},
	}
}

// OnError は読み飛ばしたパッケージの失敗を受け取る関数を設定する
func (pp *PackagesProvider) OnError(fn func(error)) {
	if fn != nil {
		pp.report = fn
	}
}

func (pp *PackagesProvider) Name() string {
	return "packages"
}

func (pp *PackagesProvider) Load(ctx context.Context) (*Catalog, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     pp.dir,
		Mode:    packages.NeedName | packages.NeedTypes,
	}
	pkgs, err := pp.load(cfg, pp.patterns...)
	if err != nil {
		return nil, errs.NewInternalError("failed to load packages").Wrap(err)
	}
	catalog := &Catalog{}
	for _, pkg := range pkgs {
		// 読み込みに失敗したパッケージだけを読み飛ばす
		if len(pkg.Errors) > 0 || pkg.Types == nil {
			pp.report(errs.NewInternalError("skipped package " + pkg.PkgPath))
			continue
		}
		catalog.Types = append(catalog.Types, convertPackage(pkg.Types)...)
	}
	return catalog, nil
}

// convertPackage はパッケージを静的メンバを持つ型と、その内側の型に変換する
func convertPackage(pkg *gotypes.Package) []*Type {
	ns := types.Namespace(pkg.Path())
	pkgType := &Type{
		Namespace: ns,
		Name:      types.TypeName(pkg.Name()),
		Kind:      KindPackage,
	}
	converted := []*Type{pkgType}

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}
		switch objV := obj.(type) {
		case *gotypes.Func:
			sig, ok := objV.Type().(*gotypes.Signature)
			if !ok {
				continue
			}
			pkgType.Members = append(pkgType.Members, methodMember(objV.Name(), sig, true))
		case *gotypes.Var:
			pkgType.Members = append(pkgType.Members, Member{
				Kind:        MemberField,
				Name:        types.DeclName(objV.Name()),
				Result:      typeRefOf(objV.Type()),
				ResultCount: 1,
				Static:      true,
			})
		case *gotypes.Const:
			pkgType.Members = append(pkgType.Members, Member{
				Kind:        MemberProperty,
				Name:        types.DeclName(objV.Name()),
				Result:      typeRefOf(objV.Type()),
				ResultCount: 1,
				Static:      true,
			})
		case *gotypes.TypeName:
			if t := convertTypeName(ns, pkgType.FullName(), objV); t != nil {
				converted = append(converted, t)
			}
		}
	}
	return converted
}

func convertTypeName(ns types.Namespace, outer types.FullTypeName, obj *gotypes.TypeName) *Type {
	named, ok := gotypes.Unalias(obj.Type()).(*gotypes.Named)
	if !ok {
		return nil
	}
	t := &Type{
		Namespace: ns,
		Name:      types.TypeName(obj.Name()),
		Kind:      KindNamed,
		Outer:     outer,
	}
	if tparams := named.TypeParams(); tparams != nil {
		for i := 0; i < tparams.Len(); i++ {
			t.TypeParams = append(t.TypeParams, tparams.At(i).Obj().Name())
		}
	}

	switch underlying := named.Underlying().(type) {
	case *gotypes.Struct:
		t.Kind = KindStruct
		for i := 0; i < underlying.NumFields(); i++ {
			field := underlying.Field(i)
			if field.Embedded() {
				t.Bases = append(t.Bases, typeRefOf(field.Type()))
			}
			if !field.Exported() {
				continue
			}
			t.Members = append(t.Members, Member{
				Kind:        MemberField,
				Name:        types.DeclName(field.Name()),
				Result:      typeRefOf(field.Type()),
				ResultCount: 1,
			})
		}
	case *gotypes.Interface:
		t.Kind = KindInterface
	}

	// ポインタレシーバのメソッドも含めるため*Tのメソッドセットを見る
	var recv gotypes.Type = gotypes.NewPointer(named)
	if t.Kind == KindInterface {
		recv = named
	}
	mset := gotypes.NewMethodSet(recv)
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*gotypes.Func)
		if !ok || !fn.Exported() {
			continue
		}
		// 埋め込み型から昇格したメソッドはBases経由で辿る
		if len(mset.At(i).Index()) > 1 {
			continue
		}
		sig, ok := fn.Type().(*gotypes.Signature)
		if !ok {
			continue
		}
		t.Members = append(t.Members, methodMember(fn.Name(), sig, false))
	}
	return t
}

func methodMember(name string, sig *gotypes.Signature, static bool) Member {
	m := Member{
		Kind:     MemberMethod,
		Name:     types.DeclName(name),
		Static:   static,
		Variadic: sig.Variadic(),
	}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		param := params.At(i)
		paramType := param.Type()
		if m.Variadic && i == params.Len()-1 {
			if slice, ok := paramType.(*gotypes.Slice); ok {
				paramType = slice.Elem()
			}
		}
		m.Params = append(m.Params, Param{Name: param.Name(), Type: typeRefOf(paramType)})
	}
	results := sig.Results()
	m.ResultCount = results.Len()
	// 戻り値が一つの場合のみ、呼び出しの後ろにメンバを続けられる
	if results.Len() == 1 {
		m.Result = typeRefOf(results.At(0).Type())
	}
	return m
}

// typeRefOf はgo/typesの型を名前による参照に変換する。ポインタは参照先の型として扱う
func typeRefOf(t gotypes.Type) TypeRef {
	switch typeV := gotypes.Unalias(t).(type) {
	case *gotypes.Pointer:
		return typeRefOf(typeV.Elem())
	case *gotypes.Named:
		obj := typeV.Obj()
		ref := TypeRef{Name: obj.Name()}
		if obj.Pkg() != nil {
			ref.Name = string(types.NewFullTypeName(types.Namespace(obj.Pkg().Path()), types.TypeName(obj.Name())))
		}
		if targs := typeV.TypeArgs(); targs != nil {
			for i := 0; i < targs.Len(); i++ {
				ref.Args = append(ref.Args, typeRefOf(targs.At(i)))
			}
		}
		return ref
	case *gotypes.TypeParam:
		return TypeRef{Name: typeV.Obj().Name()}
	case *gotypes.Basic:
		return TypeRef{Name: gotypes.Default(typeV).String()}
	default:
		return TypeRef{Name: t.String()}
	}
}
