package compiler

import (
	"context"
	"slices"
	"sync"

	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/snippet"
	"github.com/kakkky/gosnip/stdpkg"
	"github.com/kakkky/gosnip/types"
	"github.com/kakkky/gosnip/universe"
)

// CompiledUnit は一つの入力をコンパイルした結果
type CompiledUnit struct {
	Source        snippet.ParseResult
	ProducesValue bool
	Executable    Executable
	// 成功した場合は空
	Diagnostics     []string
	GeneratedSource string
	AccessorSource  string
	// 未定義の識別子から自動で追加した名前空間
	AddedNamespaces []string
}

// Succeeded はコンパイルに成功したかを返す
func (u *CompiledUnit) Succeeded() bool {
	return len(u.Diagnostics) == 0 && u.Executable != nil
}

type namespaceFinder interface {
	// Candidates は名前に一致する、インポートできる型を返す
	Candidates(name string) []universe.Handle
}

// Engine は入力から評価用のソースを生成し、DynamicCompilerでコンパイルする
type Engine struct {
	compiler DynamicCompiler
	env      *declregistry.DeclRegistry
	finder   namespaceFinder

	mu          sync.Mutex
	accessorKey string
	accessors   accessorBlock
	cached      bool
}

// NewEngine はEngineのインスタンスを生成する
func NewEngine(c DynamicCompiler, env *declregistry.DeclRegistry, finder namespaceFinder) *Engine {
	return &Engine{
		compiler: c,
		env:      env,
		finder:   finder,
	}
}

// Compile は入力をコンパイルする
// selectedは選択中の名前空間で、入力が参照するものだけをインポートする
// 未定義の識別子が一つだけの場合は、それを含む名前空間を一度だけ補って再試行する
func (e *Engine) Compile(ctx context.Context, pr snippet.ParseResult, selected []string) (*CompiledUnit, error) {
	accessors, hasDecls := e.accessorBlock()
	unit := &CompiledUnit{
		Source:         pr,
		AccessorSource: accessors.Source(),
	}

	var added []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req := sourceRequest{
			accessors: accessors,
			hasDecls:  hasDecls,
			imports:   e.imports(pr.ExpressionText, slices.Concat(selected, added), added),
		}
		if name, namespaces, ok := conflictingImports(req.imports); ok {
			unit.AddedNamespaces = added
			unit.Diagnostics = []string{ambiguousMessage(name, namespaces)}
			return unit, nil
		}
		res, err := e.attempt(ctx, pr, req)
		if err != nil {
			return nil, err
		}
		unit.GeneratedSource = res.source
		unit.AddedNamespaces = added
		if len(res.diags) == 0 {
			unit.Executable = res.executable
			unit.ProducesValue = res.producesValue
			return unit, nil
		}

		if added == nil {
			if name, ok := undefinedName(res.diags); ok {
				namespaces := e.candidateNamespaces(name)
				switch {
				case len(namespaces) > 1:
					unit.Diagnostics = []string{ambiguousMessage(name, namespaces)}
					return unit, nil
				case len(namespaces) == 1 && !slices.Contains(selected, namespaces[0]):
					added = namespaces
					continue
				}
			}
		}
		unit.Diagnostics = dedupe(res.diags)
		return unit, nil
	}
}

type attemptResult struct {
	source        string
	executable    Executable
	producesValue bool
	diags         []Diagnostic
}

// 値を返す関数としてコンパイルし、文であることによる失敗だけなら文として再試行する
func (e *Engine) attempt(ctx context.Context, pr snippet.ParseResult, req sourceRequest) (attemptResult, error) {
	opts := Options{Package: evalPackage, Entry: evalEntry}

	req.body = valueBody(pr.ExpressionText, pr.DeclaredType)
	src := generateSource(req)
	exe, diags, err := e.compiler.CompileSource(ctx, src, opts)
	if err != nil {
		return attemptResult{}, err
	}
	if len(diags) == 0 {
		return attemptResult{source: src, executable: exe, producesValue: true}, nil
	}
	if pr.IsDeclaring || !(isStatementClass(diags) || isStatement(pr.ExpressionText)) {
		return attemptResult{source: src, diags: diags}, nil
	}

	if err := ctx.Err(); err != nil {
		return attemptResult{}, err
	}
	req.body = voidBody(pr.ExpressionText)
	voidSrc := generateSource(req)
	exe, voidDiags, err := e.compiler.CompileSource(ctx, voidSrc, opts)
	if err != nil {
		return attemptResult{}, err
	}
	if len(voidDiags) == 0 {
		return attemptResult{source: voidSrc, executable: exe}, nil
	}
	return attemptResult{source: voidSrc, diags: append(diags, voidDiags...)}, nil
}

// 変数の名前と型が前回と同じであれば、前回生成したアクセサを使い回す
func (e *Engine) accessorBlock() (accessorBlock, bool) {
	decls := e.env.Decls()
	key := declregistry.SnapshotOf(decls)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cached || e.accessorKey != key {
		e.accessors = buildAccessors(decls, e.compiler.Importable)
		e.accessorKey = key
		e.cached = true
	}
	return e.accessors, len(decls) > 0
}

// 選択中の名前空間のうち、式が参照していて変数に隠されていないものをインポートする
// 自動で補った名前空間は常にインポートする
func (e *Engine) imports(expr string, namespaces []string, added []string) []string {
	idents := referencedIdents(expr)
	var paths []string
	for _, ns := range namespaces {
		if slices.Contains(paths, ns) {
			continue
		}
		if slices.Contains(added, ns) {
			paths = append(paths, ns)
			continue
		}
		name := packageName(ns)
		if !idents[name] {
			continue
		}
		if _, ok := e.env.Lookup(types.DeclName(name)); ok {
			continue
		}
		if !e.compiler.Importable(ns) {
			continue
		}
		paths = append(paths, ns)
	}
	return paths
}

// conflictingImports はパッケージ名が同じになる名前空間の組を返す
// 両方をインポートすると同じ名前が二重に宣言される
func conflictingImports(paths []string) (string, []string, bool) {
	byName := make(map[string][]string)
	var names []string
	for _, p := range paths {
		name := packageName(p)
		if _, ok := byName[name]; !ok {
			names = append(names, name)
		}
		byName[name] = append(byName[name], p)
	}
	slices.Sort(names)
	for _, name := range names {
		if len(byName[name]) > 1 {
			namespaces := slices.Clone(byName[name])
			slices.Sort(namespaces)
			return name, namespaces, true
		}
	}
	return "", nil, false
}

// 型カタログに候補がなければ、同じ名前の標準パッケージを探す
func (e *Engine) candidateNamespaces(name string) []string {
	var namespaces []string
	for _, h := range e.finder.Candidates(name) {
		ns := string(h.Type().Namespace)
		if !slices.Contains(namespaces, ns) {
			namespaces = append(namespaces, ns)
		}
	}
	if len(namespaces) == 0 {
		for _, ns := range stdpkg.Lookup(name) {
			if e.compiler.Importable(ns) {
				namespaces = append(namespaces, ns)
			}
		}
	}
	slices.Sort(namespaces)
	return namespaces
}
