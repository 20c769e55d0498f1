package compiler

import (
	"container/list"
	"context"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/resolver"
	"github.com/kakkky/gosnip/snippet"
	"github.com/kakkky/gosnip/universe"
)

func newYaegiEngine(env *declregistry.DeclRegistry) *Engine {
	u := universe.New(universe.NewBasicCatalog())
	return NewEngine(NewYaegiCompiler(env), env, resolver.New(u, env))
}

func compileAndInvoke(t *testing.T, e *Engine, input string, selected ...string) (*CompiledUnit, any, error) {
	t.Helper()
	unit, err := e.Compile(context.Background(), snippet.ParseAssignment(input), selected)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", input, err)
	}
	if !unit.Succeeded() {
		t.Fatalf("Compile(%q) diagnostics = %v\n%s", input, unit.Diagnostics, unit.GeneratedSource)
	}
	v, err := unit.Executable.Invoke(context.Background())
	return unit, v, err
}

func TestYaegiCompiler_Evaluate(t *testing.T) {
	env := declregistry.NewRegistry()
	e := newYaegiEngine(env)

	_, v, err := compileAndInvoke(t, e, "1 + 2")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if v != 3 {
		t.Errorf("Invoke() = %v, want 3", v)
	}

	_, v, err = compileAndInvoke(t, e, `s := strings.ToUpper("go")`, "strings", "fmt")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if v != "GO" {
		t.Errorf("Invoke() = %v, want GO", v)
	}
}

func TestYaegiCompiler_Diagnostics(t *testing.T) {
	e := newYaegiEngine(declregistry.NewRegistry())
	unit, err := e.Compile(context.Background(), snippet.ParseAssignment("undefinedThing + 1"), nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if unit.Succeeded() || len(unit.Diagnostics) == 0 {
		t.Errorf("Compile() succeeded for an undefined identifier")
	}
}

// 値だけが変わった場合はアクセサが同じで、実行時には新しい値を名前で読む
func TestYaegiCompiler_AccessorsReadByName(t *testing.T) {
	env := declregistry.NewRegistry()
	e := newYaegiEngine(env)

	_, v, err := compileAndInvoke(t, e, "x = list.New()", "container/list")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	env.Register(declregistry.Decl{Name: "x", Value: v})

	first, _, err := compileAndInvoke(t, e, "x.PushBack(1)")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := v.(*list.List).Len(); got != 1 {
		t.Errorf("list length = %d, want 1", got)
	}

	if err := env.Store("x", list.New()); err != nil {
		t.Fatal(err)
	}
	second, n, err := compileAndInvoke(t, e, "x.Len()")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if first.AccessorSource != second.AccessorSource {
		t.Errorf("AccessorSource changed after a value update:\n%s\n%s", first.AccessorSource, second.AccessorSource)
	}
	if n != 0 {
		t.Errorf("x.Len() = %v, want 0 for the new list", n)
	}
}

// 値の位置では構文エラーになる文も文として評価し、変更した変数を書き戻す
func TestYaegiCompiler_Statements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		wantX int
		wantM map[string]int
		wantP image.Point
	}{
		{name: "インクリメント", input: "x++", wantX: 2, wantM: map[string]int{}},
		{name: "複合代入", input: "x += 10", wantX: 11, wantM: map[string]int{}},
		{name: "マップの要素への代入", input: `m["a"] = 1`, wantX: 1, wantM: map[string]int{"a": 1}},
		{name: "フィールドへの代入", input: "p.X = 3", wantX: 1, wantM: map[string]int{}, wantP: image.Point{X: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := declregistry.NewRegistry()
			env.Register(declregistry.Decl{Name: "x", Value: 1})
			env.Register(declregistry.Decl{Name: "m", Value: map[string]int{}})
			env.Register(declregistry.Decl{Name: "p", Value: image.Point{}})
			e := newYaegiEngine(env)

			unit, v, err := compileAndInvoke(t, e, tt.input)
			if err != nil {
				t.Fatalf("Invoke() error = %v", err)
			}
			if unit.ProducesValue || v != nil {
				t.Errorf("Invoke() = %v, ProducesValue = %v, want a statement", v, unit.ProducesValue)
			}

			x, err := env.Load("x")
			if err != nil {
				t.Fatal(err)
			}
			if x != tt.wantX {
				t.Errorf("x = %v, want %d", x, tt.wantX)
			}
			m, err := env.Load("m")
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.wantM, m); diff != "" {
				t.Errorf("m mismatch (-want +got):\n%s", diff)
			}
			p, err := env.Load("p")
			if err != nil {
				t.Fatal(err)
			}
			if p != tt.wantP {
				t.Errorf("p = %v, want %v", p, tt.wantP)
			}
		})
	}
}

func TestYaegiCompiler_AmbiguousSelectedNamespaces(t *testing.T) {
	e := newYaegiEngine(declregistry.NewRegistry())
	unit, err := e.Compile(context.Background(), snippet.ParseAssignment("rand.Int()"), []string{"math/rand", "crypto/rand"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	want := []string{"ambiguous type 'rand' found in namespaces: crypto/rand, math/rand - use Scope settings to select one"}
	if diff := cmp.Diff(want, unit.Diagnostics); diff != "" {
		t.Errorf("Diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestYaegiCompiler_RemovedVariable(t *testing.T) {
	env := declregistry.NewRegistry()
	env.Register(declregistry.Decl{Name: "x", Value: list.New()})
	e := newYaegiEngine(env)

	unit, err := e.Compile(context.Background(), snippet.ParseAssignment("x.Len()"), nil)
	if err != nil || !unit.Succeeded() {
		t.Fatalf("Compile() = %+v, %v", unit, err)
	}
	env.Delete("x")

	_, err = unit.Executable.Invoke(context.Background())
	if !errs.IsRemovedVariable(err) {
		t.Fatalf("Invoke() error = %v, want RemovedVariableError", err)
	}
	if errs.Classify(err) != errs.WARNING {
		t.Errorf("Classify() = %v, want WARNING", errs.Classify(err))
	}
}

func TestYaegiCompiler_Importable(t *testing.T) {
	c := NewYaegiCompiler(declregistry.NewRegistry())
	tests := map[string]bool{
		"strings":             true,
		"container/list":      true,
		"gosnip/session":      true,
		"example.com/nothing": false,
	}
	for path, want := range tests {
		if got := c.Importable(path); got != want {
			t.Errorf("Importable(%q) = %v, want %v", path, got, want)
		}
	}
}
