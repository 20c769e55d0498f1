package compiler

import (
	"container/list"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	gomock "go.uber.org/mock/gomock"

	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/resolver"
	"github.com/kakkky/gosnip/snippet"
	"github.com/kakkky/gosnip/universe/universetest"
)

func newTestEngine(t *testing.T, env *declregistry.DeclRegistry) (*Engine, *MockDynamicCompiler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	c := NewMockDynamicCompiler(ctrl)
	c.EXPECT().Importable(gomock.Any()).Return(true).AnyTimes()
	u := universetest.NewUniverse()
	return NewEngine(c, env, resolver.New(u, env)), c
}

// srcContains は生成されたソースが部分文字列を全て含むことを確かめるMatcher
type srcContains []string

func (m srcContains) Matches(x any) bool {
	src, ok := x.(string)
	if !ok {
		return false
	}
	for _, s := range m {
		if !strings.Contains(src, s) {
			return false
		}
	}
	return true
}

func (m srcContains) String() string {
	return "source containing " + strings.Join(m, ", ")
}

func TestEngine_Compile(t *testing.T) {
	type want struct {
		succeeded     bool
		producesValue bool
		diagnostics   []string
		added         []string
	}
	tests := []struct {
		name     string
		input    string
		selected []string
		setup    func(c *MockDynamicCompiler, exe Executable)
		want     want
	}{
		{
			name:  "値を返す式",
			input: "1+1",
			setup: func(c *MockDynamicCompiler, exe Executable) {
				c.EXPECT().CompileSource(gomock.Any(), "package gosnipeval\n\nfunc Eval() any {\n\treturn (1+1)\n}\n", Options{Package: "gosnipeval", Entry: "Eval"}).Return(exe, nil, nil).Times(1)
			},
			want: want{succeeded: true, producesValue: true},
		},
		{
			name:     "値を返さない式は文として再試行する",
			input:    "fmt.Println()",
			selected: []string{"fmt", "strings"},
			setup: func(c *MockDynamicCompiler, exe Executable) {
				gomock.InOrder(
					c.EXPECT().CompileSource(gomock.Any(), srcContains{"\"fmt\"", "return (fmt.Println())"}, gomock.Any()).
						Return(nil, []Diagnostic{{Line: 6, Column: 10, Message: "fmt.Println() (no value) used as value"}}, nil).Times(1),
					c.EXPECT().CompileSource(gomock.Any(), srcContains{"\tfmt.Println()\n\treturn nil\n"}, gomock.Any()).
						Return(exe, nil, nil).Times(1),
				)
			},
			want: want{succeeded: true, producesValue: false},
		},
		{
			name:  "文として再試行しても失敗した場合は重複を除いた診断メッセージを返す",
			input: "x++",
			setup: func(c *MockDynamicCompiler, exe Executable) {
				gomock.InOrder(
					c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).
						Return(nil, []Diagnostic{{Message: "expected expression"}, {Message: "expected expression"}}, nil).Times(1),
					c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).
						Return(nil, []Diagnostic{{Message: "expected expression"}, {Message: "x declared and not used"}}, nil).Times(1),
				)
			},
			want: want{diagnostics: []string{"expected expression", "x declared and not used"}},
		},
		{
			name:  "構文エラーでも文として解析できれば再試行する",
			input: `m["a"] = 1`,
			setup: func(c *MockDynamicCompiler, exe Executable) {
				gomock.InOrder(
					c.EXPECT().CompileSource(gomock.Any(), srcContains{`return (m["a"] = 1)`}, gomock.Any()).
						Return(nil, []Diagnostic{{Line: 4, Column: 13, Message: "expected '==', found '='"}}, nil).Times(1),
					c.EXPECT().CompileSource(gomock.Any(), srcContains{"\tm[\"a\"] = 1\n\treturn nil\n"}, gomock.Any()).
						Return(exe, nil, nil).Times(1),
				)
			},
			want: want{succeeded: true, producesValue: false},
		},
		{
			name:  "その他の診断メッセージでは再試行しない",
			input: "1/0",
			setup: func(c *MockDynamicCompiler, exe Executable) {
				c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, []Diagnostic{{Message: "invalid operation: division by zero"}}, nil).Times(1)
			},
			want: want{diagnostics: []string{"invalid operation: division by zero"}},
		},
		{
			name:  "型を指定した宣言は変換して返し、文として再試行しない",
			input: "var y int64 = 5",
			setup: func(c *MockDynamicCompiler, exe Executable) {
				c.EXPECT().CompileSource(gomock.Any(), srcContains{"return (int64)(5)"}, gomock.Any()).
					Return(nil, []Diagnostic{{Message: "5 (untyped int constant) is not used"}}, nil).Times(1)
			},
			want: want{diagnostics: []string{"5 (untyped int constant) is not used"}},
		},
		{
			name:     "複数の名前空間に同名の型がある場合は曖昧であることを報告する",
			input:    "Timer.New()",
			selected: []string{"System"},
			setup: func(c *MockDynamicCompiler, exe Executable) {
				c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, []Diagnostic{{Message: "undefined: Timer"}}, nil).Times(1)
			},
			want: want{diagnostics: []string{
				"ambiguous type 'Timer' found in namespaces: System.Threading, System.Timers - use Scope settings to select one",
			}},
		},
		{
			name:     "同じパッケージ名の名前空間を両方選択している場合はコンパイルせずに曖昧であることを報告する",
			input:    "rand.Int()",
			selected: []string{"math/rand", "crypto/rand"},
			setup:    func(c *MockDynamicCompiler, exe Executable) {},
			want: want{diagnostics: []string{
				"ambiguous type 'rand' found in namespaces: crypto/rand, math/rand - use Scope settings to select one",
			}},
		},
		{
			name:  "型カタログに候補がなければ標準パッケージを補う",
			input: `strings.ToUpper("a")`,
			setup: func(c *MockDynamicCompiler, exe Executable) {
				gomock.InOrder(
					c.EXPECT().CompileSource(gomock.Any(), gomock.Not(srcContains{"\"strings\""}), gomock.Any()).
						Return(nil, []Diagnostic{{Message: "undefined: strings"}}, nil).Times(1),
					c.EXPECT().CompileSource(gomock.Any(), srcContains{"\"strings\""}, gomock.Any()).
						Return(exe, nil, nil).Times(1),
				)
			},
			want: want{succeeded: true, producesValue: true, added: []string{"strings"}},
		},
		{
			name:     "候補が一つの場合は名前空間を補って再試行する",
			input:    "StringBuilder.New()",
			selected: []string{"System"},
			setup: func(c *MockDynamicCompiler, exe Executable) {
				gomock.InOrder(
					c.EXPECT().CompileSource(gomock.Any(), gomock.Not(srcContains{"\"System.Text\""}), gomock.Any()).
						Return(nil, []Diagnostic{{Message: "undefined: StringBuilder"}}, nil).Times(1),
					c.EXPECT().CompileSource(gomock.Any(), srcContains{"\"System.Text\""}, gomock.Any()).
						Return(exe, nil, nil).Times(1),
				)
			},
			want: want{succeeded: true, producesValue: true, added: []string{"System.Text"}},
		},
		{
			name:     "補った名前空間でも失敗した場合は再試行しない",
			input:    "StringBuilder.New()",
			selected: []string{"System"},
			setup: func(c *MockDynamicCompiler, exe Executable) {
				c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, []Diagnostic{{Message: "undefined: StringBuilder"}}, nil).Times(2)
			},
			want: want{diagnostics: []string{"undefined: StringBuilder"}, added: []string{"System.Text"}},
		},
		{
			name:     "選択済みの名前空間の型は補わない",
			input:    "StringBuilder.New()",
			selected: []string{"System.Text"},
			setup: func(c *MockDynamicCompiler, exe Executable) {
				c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, []Diagnostic{{Message: "undefined: StringBuilder"}}, nil).Times(1)
			},
			want: want{diagnostics: []string{"undefined: StringBuilder"}},
		},
		{
			name:  "候補がない場合は元の診断メッセージを返す",
			input: "Nothing.New()",
			setup: func(c *MockDynamicCompiler, exe Executable) {
				c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, []Diagnostic{{Message: "undefined: Nothing"}}, nil).Times(1)
			},
			want: want{diagnostics: []string{"undefined: Nothing"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, c := newTestEngine(t, declregistry.NewRegistry())
			exe := NewMockExecutable(gomock.NewController(t))
			tt.setup(c, exe)

			unit, err := e.Compile(context.Background(), snippet.ParseAssignment(tt.input), tt.selected)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got := want{
				succeeded:     unit.Succeeded(),
				producesValue: unit.ProducesValue,
				diagnostics:   unit.Diagnostics,
				added:         unit.AddedNamespaces,
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(want{})); diff != "" {
				t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_Compile_Cancelled(t *testing.T) {
	e, _ := newTestEngine(t, declregistry.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Compile(ctx, snippet.ParseAssignment("1+1"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compile() error = %v, want context.Canceled", err)
	}
}

func TestEngine_Compile_CompilerError(t *testing.T) {
	e, c := newTestEngine(t, declregistry.NewRegistry())
	wantErr := errors.New("broken")
	c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil, wantErr).Times(1)
	if _, err := e.Compile(context.Background(), snippet.ParseAssignment("1+1"), nil); !errors.Is(err, wantErr) {
		t.Errorf("Compile() error = %v, want %v", err, wantErr)
	}
}

func TestEngine_Compile_AccessorCache(t *testing.T) {
	env := declregistry.NewRegistry()
	e, c := newTestEngine(t, env)
	exe := NewMockExecutable(gomock.NewController(t))
	c.EXPECT().CompileSource(gomock.Any(), gomock.Any(), gomock.Any()).Return(exe, nil, nil).AnyTimes()

	compile := func(input string) *CompiledUnit {
		t.Helper()
		unit, err := e.Compile(context.Background(), snippet.ParseAssignment(input), nil)
		if err != nil {
			t.Fatalf("Compile(%q) error = %v", input, err)
		}
		return unit
	}

	env.Register(declregistry.Decl{Name: "x", Value: list.New()})
	first := compile("x.PushBack(1)")
	wantAccessor := "import gs_list \"container/list\"\n" +
		"\tx := gs_session.MustLoad(\"x\").(*gs_list.List)\n\tdefer gs_session.Sync(\"x\", &x)\n"
	if diff := cmp.Diff(wantAccessor, first.AccessorSource); diff != "" {
		t.Errorf("AccessorSource mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(first.GeneratedSource, "gs_session \"gosnip/session\"") {
		t.Errorf("GeneratedSource does not import the session package:\n%s", first.GeneratedSource)
	}

	// 値だけが変わった場合はアクセサが変わらない
	if err := env.Store("x", list.New()); err != nil {
		t.Fatal(err)
	}
	second := compile("x.Len()")
	if first.AccessorSource != second.AccessorSource {
		t.Errorf("AccessorSource changed after a value update:\n%s\n%s", first.AccessorSource, second.AccessorSource)
	}

	env.Register(declregistry.Decl{Name: "y", Value: 1})
	third := compile("x.Len()")
	if first.AccessorSource == third.AccessorSource {
		t.Error("AccessorSource did not change after a new variable was added")
	}
	if !strings.Contains(third.AccessorSource, "\ty := gs_session.MustLoad(\"y\").(int)\n") {
		t.Errorf("AccessorSource does not contain the accessor for y:\n%s", third.AccessorSource)
	}
}

func TestEngine_imports(t *testing.T) {
	env := declregistry.NewRegistry()
	env.Register(declregistry.Decl{Name: "fmt", Value: 1})
	ctrl := gomock.NewController(t)
	c := NewMockDynamicCompiler(ctrl)
	c.EXPECT().Importable(gomock.Any()).DoAndReturn(func(path string) bool {
		return path != "example.com/unknown"
	}).AnyTimes()
	e := NewEngine(c, env, resolver.New(universetest.NewUniverse(), env))

	tests := []struct {
		name       string
		expr       string
		namespaces []string
		added      []string
		want       []string
	}{
		{
			name:       "参照しているパッケージだけをインポートする",
			expr:       `strings.ToUpper("rand")`,
			namespaces: []string{"strings", "math/rand/v2", "os"},
			want:       []string{"strings"},
		},
		{
			name:       "メジャーバージョンの要素は読み飛ばす",
			expr:       `rand.IntN(10)`,
			namespaces: []string{"math/rand/v2"},
			want:       []string{"math/rand/v2"},
		},
		{
			name:       "変数に隠されたパッケージはインポートしない",
			expr:       `fmt.Sprint(1)`,
			namespaces: []string{"fmt"},
			want:       nil,
		},
		{
			name:       "インポートできないパッケージ",
			expr:       `unknown.Do()`,
			namespaces: []string{"example.com/unknown"},
			want:       nil,
		},
		{
			name:       "補った名前空間は常にインポートする",
			expr:       `Builder{}`,
			namespaces: []string{"strings", "strings"},
			added:      []string{"strings"},
			want:       []string{"strings"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.imports(tt.expr, tt.namespaces, tt.added)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("imports() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
