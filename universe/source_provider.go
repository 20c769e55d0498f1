package universe

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/types"
)

// SourceProvider はプロジェクトのソースコードをgo/parserで解析してカタログにする
// 型検査を行わないため、ビルドできない状態のプロジェクトでも候補を出せる
type SourceProvider struct {
	root   string
	report func(error)
}

// NewSourceProvider はSourceProviderのインスタンスを生成する
func NewSourceProvider(root string) *SourceProvider {
	return &SourceProvider{
		root:   root,
		report: func(error) {},
	}
}

// OnError は読み飛ばしたディレクトリの失敗を受け取る関数を設定する
func (sp *SourceProvider) OnError(fn func(error)) {
	if fn != nil {
		sp.report = fn
	}
}

func (sp *SourceProvider) Name() string {
	return "source"
}

func (sp *SourceProvider) Load(ctx context.Context) (*Catalog, error) {
	modPath, err := getGoModPath(filepath.Join(sp.root, "go.mod"))
	if err != nil {
		return nil, err
	}
	catalog := &Catalog{}
	fset := token.NewFileSet()
	mode := parser.ParseComments | parser.AllErrors
	err = filepath.WalkDir(sp.root, func(dirPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() {
			return nil
		}
		base := filepath.Base(dirPath)
		if dirPath != sp.root && (base == "vendor" || base == "testdata" || strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")) {
			return filepath.SkipDir
		}
		// nolint:staticcheck // 宣言の名前と型の字面だけに関心があるため、*ast.Packageだけで十分
		nodes, err := parser.ParseDir(fset, dirPath, func(fi fs.FileInfo) bool {
			return !strings.HasSuffix(fi.Name(), "_test.go")
		}, mode)
		if err != nil {
			// 構文エラーのあるディレクトリだけを読み飛ばす
			sp.report(errs.NewInternalError("skipped directory " + dirPath).Wrap(err))
			return nil
		}
		rel, err := filepath.Rel(sp.root, dirPath)
		if err != nil {
			return err
		}
		importPath := modPath
		if rel != "." {
			importPath = path.Join(modPath, filepath.ToSlash(rel))
		}
		for pkgName, pkgAst := range nodes {
			if pkgName == "main" {
				continue
			}
			catalog.Types = append(catalog.Types, convertPackageAst(types.Namespace(importPath), pkgName, pkgAst)...)
		}
		return nil
	})
	if err != nil {
		return nil, errs.NewInternalError("failed to walk directory").Wrap(err)
	}
	return catalog, nil
}

func getGoModPath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.NewInternalError("failed to read go.mod file").Wrap(err)
	}
	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		return "", errs.NewInternalError("failed to parse go.mod file").Wrap(err)
	}
	return mf.Module.Mod.Path, nil
}

// astConverter は一つのパッケージのASTを型に変換する
type astConverter struct {
	ns      types.Namespace
	pkgType *Type
	structs map[string]*Type
	// ファイルごとのimport名とインポートパスの対応
	imports map[string]string
	// 処理中の宣言の型パラメータ
	typeParams map[string]bool
}

// nolint:staticcheck // 宣言の名前と型の字面だけに関心があるため、*ast.Packageだけで十分
func convertPackageAst(ns types.Namespace, pkgName string, pkgAst *ast.Package) []*Type {
	ac := &astConverter{
		ns: ns,
		pkgType: &Type{
			Namespace: ns,
			Name:      types.TypeName(pkgName),
			Kind:      KindPackage,
		},
		structs: make(map[string]*Type),
	}
	// 型宣言を先に集めてからメソッドを紐付ける
	for _, fileAst := range pkgAst.Files {
		ac.imports = fileImports(fileAst)
		for _, decl := range fileAst.Decls {
			if genDecl, ok := decl.(*ast.GenDecl); ok && genDecl.Tok == token.TYPE {
				ac.processTypeDecl(genDecl)
			}
		}
	}
	for _, fileAst := range pkgAst.Files {
		ac.imports = fileImports(fileAst)
		for _, decl := range fileAst.Decls {
			if funcDecl, ok := decl.(*ast.FuncDecl); ok {
				if isMethod(funcDecl) {
					ac.processMethodDecl(funcDecl)
					continue
				}
				ac.processFuncDecl(funcDecl)
			}
		}
	}
	// 変数の型を関数の戻り値から推測するため、関数の後に処理する
	for _, fileAst := range pkgAst.Files {
		ac.imports = fileImports(fileAst)
		for _, decl := range fileAst.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			switch genDecl.Tok {
			case token.VAR:
				ac.processValueDecl(genDecl, MemberField)
			case token.CONST:
				ac.processValueDecl(genDecl, MemberProperty)
			}
		}
	}

	converted := []*Type{ac.pkgType}
	for _, t := range ac.structs {
		converted = append(converted, t)
	}
	return converted
}

func fileImports(fileAst *ast.File) map[string]string {
	imports := make(map[string]string)
	for _, spec := range fileAst.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		imports[name] = importPath
	}
	return imports
}

func fieldNames(fields *ast.FieldList) []string {
	if fields == nil {
		return nil
	}
	var names []string
	for _, field := range fields.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names
}

func identNames(exprs ...ast.Expr) []string {
	var names []string
	for _, expr := range exprs {
		if ident, ok := expr.(*ast.Ident); ok {
			names = append(names, ident.Name)
		}
	}
	return names
}

func (ac *astConverter) setTypeParams(names []string) {
	ac.typeParams = make(map[string]bool, len(names))
	for _, name := range names {
		ac.typeParams[name] = true
	}
}

func isMethod(funcDecl *ast.FuncDecl) bool {
	return funcDecl.Recv != nil && len(funcDecl.Recv.List) > 0
}

func docText(groups ...*ast.CommentGroup) string {
	for _, group := range groups {
		if group != nil {
			return strings.TrimSpace(strings.ReplaceAll(group.Text(), "\n", " "))
		}
	}
	return ""
}

func (ac *astConverter) processTypeDecl(genDecl *ast.GenDecl) {
	for _, spec := range genDecl.Specs {
		specV := spec.(*ast.TypeSpec)
		if !specV.Name.IsExported() {
			continue
		}
		t := &Type{
			Namespace: ac.ns,
			Name:      types.TypeName(specV.Name.Name),
			Kind:      KindNamed,
			Outer:     ac.pkgType.FullName(),
			Doc:       docText(specV.Doc, genDecl.Doc),
		}
		t.TypeParams = fieldNames(specV.TypeParams)
		ac.setTypeParams(t.TypeParams)
		switch specTypeV := specV.Type.(type) {
		case *ast.StructType:
			t.Kind = KindStruct
			for _, field := range specTypeV.Fields.List {
				fieldRef := ac.typeRefOf(field.Type)
				if len(field.Names) == 0 {
					// 埋め込み型(匿名フィールド)
					t.Bases = append(t.Bases, fieldRef)
					continue
				}
				for _, fieldName := range field.Names {
					if !fieldName.IsExported() {
						continue
					}
					t.Members = append(t.Members, Member{
						Kind:        MemberField,
						Name:        types.DeclName(fieldName.Name),
						Result:      fieldRef,
						ResultCount: 1,
						Doc:         docText(field.Doc, field.Comment),
					})
				}
			}
		case *ast.InterfaceType:
			t.Kind = KindInterface
			for _, method := range specTypeV.Methods.List {
				funcType, ok := method.Type.(*ast.FuncType)
				if !ok || len(method.Names) == 0 {
					continue
				}
				m := ac.methodMember(method.Names[0].Name, funcType, false)
				m.Doc = docText(method.Doc, method.Comment)
				t.Members = append(t.Members, m)
			}
		}
		ac.structs[specV.Name.Name] = t
	}
}

func (ac *astConverter) processFuncDecl(funcDecl *ast.FuncDecl) {
	if !funcDecl.Name.IsExported() {
		return
	}
	ac.setTypeParams(fieldNames(funcDecl.Type.TypeParams))
	m := ac.methodMember(funcDecl.Name.Name, funcDecl.Type, true)
	m.Doc = docText(funcDecl.Doc)
	ac.pkgType.Members = append(ac.pkgType.Members, m)
}

func (ac *astConverter) processMethodDecl(funcDecl *ast.FuncDecl) {
	if !funcDecl.Name.IsExported() {
		return
	}
	recvType := funcDecl.Recv.List[0].Type
	if star, ok := recvType.(*ast.StarExpr); ok {
		recvType = star.X
	}
	// ジェネリック型のレシーバ T[K] は T として扱う
	var recvParams []string
	switch recvTypeV := recvType.(type) {
	case *ast.IndexExpr:
		recvType = recvTypeV.X
		recvParams = identNames(recvTypeV.Index)
	case *ast.IndexListExpr:
		recvType = recvTypeV.X
		recvParams = identNames(recvTypeV.Indices...)
	}
	ac.setTypeParams(recvParams)
	ident, ok := recvType.(*ast.Ident)
	if !ok {
		return
	}
	t, ok := ac.structs[ident.Name]
	if !ok {
		return
	}
	m := ac.methodMember(funcDecl.Name.Name, funcDecl.Type, false)
	m.Doc = docText(funcDecl.Doc)
	t.Members = append(t.Members, m)
}

func (ac *astConverter) processValueDecl(genDecl *ast.GenDecl, kind MemberKind) {
	ac.setTypeParams(nil)
	var lastType ast.Expr
	for _, spec := range genDecl.Specs {
		specV := spec.(*ast.ValueSpec)
		// const宣言で型と値が省略された場合は直前の型を引き継ぐ(iota)
		if specV.Type != nil || len(specV.Values) > 0 {
			lastType = specV.Type
		}
		for i, name := range specV.Names {
			if !name.IsExported() {
				continue
			}
			var ref TypeRef
			switch {
			case specV.Type != nil:
				ref = ac.typeRefOf(specV.Type)
			case i < len(specV.Values):
				ref = ac.inferTypeRef(specV.Values[i])
			case lastType != nil:
				ref = ac.typeRefOf(lastType)
			}
			ac.pkgType.Members = append(ac.pkgType.Members, Member{
				Kind:        kind,
				Name:        types.DeclName(name.Name),
				Result:      ref,
				ResultCount: 1,
				Static:      true,
				Doc:         docText(specV.Doc, genDecl.Doc),
			})
		}
	}
}

func (ac *astConverter) methodMember(name string, funcType *ast.FuncType, static bool) Member {
	m := Member{
		Kind:   MemberMethod,
		Name:   types.DeclName(name),
		Static: static,
	}
	if funcType.Params != nil {
		for _, field := range funcType.Params.List {
			fieldType := field.Type
			if ellipsis, ok := fieldType.(*ast.Ellipsis); ok {
				m.Variadic = true
				fieldType = ellipsis.Elt
			}
			ref := ac.typeRefOf(fieldType)
			if len(field.Names) == 0 {
				m.Params = append(m.Params, Param{Type: ref})
				continue
			}
			for _, paramName := range field.Names {
				m.Params = append(m.Params, Param{Name: paramName.Name, Type: ref})
			}
		}
	}
	if funcType.Results != nil {
		for _, field := range funcType.Results.List {
			count := len(field.Names)
			if count == 0 {
				count = 1
			}
			m.ResultCount += count
		}
		if m.ResultCount == 1 {
			m.Result = ac.typeRefOf(funcType.Results.List[0].Type)
		}
	}
	return m
}

// typeRefOf は型の字面を参照に変換する
func (ac *astConverter) typeRefOf(expr ast.Expr) TypeRef {
	switch exprV := expr.(type) {
	case *ast.StarExpr:
		return ac.typeRefOf(exprV.X)
	case *ast.ParenExpr:
		return ac.typeRefOf(exprV.X)
	case *ast.Ident:
		if ac.typeParams[exprV.Name] {
			return TypeRef{Name: exprV.Name}
		}
		if _, ok := ac.structs[exprV.Name]; ok || exprV.IsExported() {
			return TypeRef{Name: string(types.NewFullTypeName(ac.ns, types.TypeName(exprV.Name)))}
		}
		// 事前宣言された型か型パラメータ
		return TypeRef{Name: exprV.Name}
	case *ast.SelectorExpr:
		pkgIdent, ok := exprV.X.(*ast.Ident)
		if !ok {
			return TypeRef{}
		}
		importPath, ok := ac.imports[pkgIdent.Name]
		if !ok {
			importPath = pkgIdent.Name
		}
		return TypeRef{Name: string(types.NewFullTypeName(types.Namespace(importPath), types.TypeName(exprV.Sel.Name)))}
	case *ast.IndexExpr:
		ref := ac.typeRefOf(exprV.X)
		ref.Args = []TypeRef{ac.typeRefOf(exprV.Index)}
		return ref
	case *ast.IndexListExpr:
		ref := ac.typeRefOf(exprV.X)
		for _, index := range exprV.Indices {
			ref.Args = append(ref.Args, ac.typeRefOf(index))
		}
		return ref
	}
	return TypeRef{}
}

// inferTypeRef は型の省略された宣言の右辺から型を推測する
func (ac *astConverter) inferTypeRef(expr ast.Expr) TypeRef {
	switch exprV := expr.(type) {
	case *ast.BasicLit:
		switch exprV.Kind {
		case token.INT:
			return TypeRef{Name: "int"}
		case token.FLOAT:
			return TypeRef{Name: "float64"}
		case token.IMAG:
			return TypeRef{Name: "complex128"}
		case token.CHAR:
			return TypeRef{Name: "rune"}
		case token.STRING:
			return TypeRef{Name: "string"}
		}
	case *ast.CompositeLit:
		return ac.typeRefOf(exprV.Type)
	case *ast.UnaryExpr:
		if exprV.Op == token.AND {
			return ac.inferTypeRef(exprV.X)
		}
	case *ast.CallExpr:
		// 同じパッケージの関数呼び出しであれば、その戻り値の型を使う
		if ident, ok := exprV.Fun.(*ast.Ident); ok {
			for _, m := range ac.pkgType.Members {
				if m.Kind == MemberMethod && string(m.Name) == ident.Name {
					return m.Result
				}
			}
		}
	}
	return TypeRef{}
}
