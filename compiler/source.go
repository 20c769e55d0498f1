package compiler

import (
	"fmt"
	"go/scanner"
	"go/token"
	"path"
	"reflect"
	"regexp"
	"strings"

	"github.com/kakkky/gosnip/declregistry"
)

const (
	evalPackage       = "gosnipeval"
	evalEntry         = "Eval"
	sessionImportPath = "gosnip/session"
	sessionAlias      = "gs_session"
	accessorPrefix    = "gs_"
)

var majorVersionPattern = regexp.MustCompile(`^v[0-9]+$`)

// packageName はインポートパスから既定のパッケージ名を推測する
// "math/rand/v2" のようなメジャーバージョンの要素は読み飛ばす
func packageName(importPath string) string {
	base := path.Base(importPath)
	if majorVersionPattern.MatchString(base) {
		if dir := path.Dir(importPath); dir != "." {
			return path.Base(dir)
		}
	}
	return base
}

type importSpec struct {
	alias string
	path  string
}

func (is importSpec) String() string {
	if is.alias == "" {
		return fmt.Sprintf("%q", is.path)
	}
	return fmt.Sprintf("%s %q", is.alias, is.path)
}

// accessorBlock は変数ごとのアクセサと、アクセサの型のためのインポート
type accessorBlock struct {
	imports []importSpec
	stmts   string
}

// Source はアクセサ部分のソース。変数の名前と型が同じであれば同じ文字列になる
func (ab accessorBlock) Source() string {
	var sb strings.Builder
	for _, is := range ab.imports {
		sb.WriteString("import " + is.String() + "\n")
	}
	sb.WriteString(ab.stmts)
	return sb.String()
}

// アクセサの型で参照するパッケージに衝突しない別名を付ける
type qualifier struct {
	importable func(string) bool
	aliases    map[string]string
	used       map[string]bool
	imports    []importSpec
}

func newQualifier(importable func(string) bool) *qualifier {
	return &qualifier{
		importable: importable,
		aliases:    make(map[string]string),
		used:       map[string]bool{sessionAlias: true},
	}
}

func (q *qualifier) alias(importPath string) string {
	if alias, ok := q.aliases[importPath]; ok {
		return alias
	}
	name := strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, packageName(importPath))
	alias := accessorPrefix + name
	for i := 2; q.used[alias]; i++ {
		alias = fmt.Sprintf("%s%s%d", accessorPrefix, name, i)
	}
	q.aliases[importPath] = alias
	q.used[alias] = true
	q.imports = append(q.imports, importSpec{alias: alias, path: importPath})
	return alias
}

// typeExpr は値の動的な型を生成したソース上の型の式にする
// 名前のない構造体やインポートできないパッケージの型など、表せない場合はfalseを返す
func (q *qualifier) typeExpr(t reflect.Type) (string, bool) {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name(), true
		}
		if strings.ContainsRune(t.Name(), '[') || !token.IsExported(t.Name()) || !q.importable(t.PkgPath()) {
			return "", false
		}
		return q.alias(t.PkgPath()) + "." + t.Name(), true
	}
	switch t.Kind() {
	case reflect.Pointer:
		elem, ok := q.typeExpr(t.Elem())
		return "*" + elem, ok
	case reflect.Slice:
		elem, ok := q.typeExpr(t.Elem())
		return "[]" + elem, ok
	case reflect.Array:
		elem, ok := q.typeExpr(t.Elem())
		return fmt.Sprintf("[%d]%s", t.Len(), elem), ok
	case reflect.Map:
		key, ok := q.typeExpr(t.Key())
		if !ok {
			return "", false
		}
		elem, ok := q.typeExpr(t.Elem())
		return "map[" + key + "]" + elem, ok
	}
	return "", false
}

// buildAccessors は変数ごとに、呼び出し時点の値を名前で読み出し、評価後に書き戻すアクセサを生成する
// 変数が削除されていればMustLoadがRemovedVariableErrorでpanicする
func buildAccessors(decls []declregistry.Decl, importable func(string) bool) accessorBlock {
	q := newQualifier(importable)
	var sb strings.Builder
	for _, decl := range decls {
		load := fmt.Sprintf("%s.MustLoad(%q)", sessionAlias, decl.Name)
		if !decl.IsNil() {
			// 型の式を作る途中で別名が登録されないよう、表せる型だけ確定させる
			probe := newQualifier(importable)
			if _, ok := probe.typeExpr(decl.GoType()); ok {
				expr, _ := q.typeExpr(decl.GoType())
				load += ".(" + expr + ")"
			}
		}
		fmt.Fprintf(&sb, "\t%s := %s\n\tdefer %s.Sync(%q, &%s)\n", decl.Name, load, sessionAlias, decl.Name, decl.Name)
	}
	return accessorBlock{
		imports: q.imports,
		stmts:   sb.String(),
	}
}

// referencedIdents は式の中に現れる識別子を集める
func referencedIdents(expr string) map[string]bool {
	idents := make(map[string]bool)
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(expr))
	var s scanner.Scanner
	s.Init(file, []byte(expr), nil, 0)
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.IDENT {
			idents[lit] = true
		}
	}
	return idents
}

type sourceRequest struct {
	accessors accessorBlock
	hasDecls  bool
	imports   []string
	body      string
}

// generateSource は入力を評価する関数を含むソースを組み立てる
func generateSource(req sourceRequest) string {
	var sb strings.Builder
	sb.WriteString("package " + evalPackage + "\n\n")

	var specs []importSpec
	if req.hasDecls {
		specs = append(specs, importSpec{alias: sessionAlias, path: sessionImportPath})
	}
	specs = append(specs, req.accessors.imports...)
	for _, p := range req.imports {
		specs = append(specs, importSpec{path: p})
	}
	if len(specs) > 0 {
		sb.WriteString("import (\n")
		for _, is := range specs {
			sb.WriteString("\t" + is.String() + "\n")
		}
		sb.WriteString(")\n\n")
	}

	sb.WriteString("func " + evalEntry + "() any {\n")
	sb.WriteString(req.accessors.stmts)
	sb.WriteString(req.body)
	sb.WriteString("}\n")
	return sb.String()
}

// 値を返す関数の本体。型の指定があればその型に変換する
func valueBody(expr, declaredType string) string {
	if declaredType != "" {
		return fmt.Sprintf("\treturn (%s)(%s)\n", declaredType, expr)
	}
	return fmt.Sprintf("\treturn (%s)\n", expr)
}

// 値を返さない文として評価する関数の本体
func voidBody(expr string) string {
	return fmt.Sprintf("\t%s\n\treturn nil\n", expr)
}
