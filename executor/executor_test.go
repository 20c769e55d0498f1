package executor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	gomock "go.uber.org/mock/gomock"

	"github.com/kakkky/gosnip/compiler"
	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/snippet"
	"github.com/kakkky/gosnip/universe"
	"github.com/kakkky/gosnip/usings"
	"github.com/kakkky/gosnip/version"
)

type testExecutor struct {
	*Executor
	awaiter *MockcompileAwaiter
	out     *bytes.Buffer
}

func newTestExecutor(t *testing.T) *testExecutor {
	t.Helper()
	ctrl := gomock.NewController(t)
	awaiter := NewMockcompileAwaiter(ctrl)
	u := universe.New(universe.NewBasicCatalog())
	e := NewExecutor(declregistry.NewRegistry(), u, usings.NewStore("fmt"), awaiter)
	out := &bytes.Buffer{}
	e.out = out
	return &testExecutor{Executor: e, awaiter: awaiter, out: out}
}

func TestExecutor_evaluate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		setup     func(te *testExecutor, exe *compiler.MockExecutable)
		wantErr   errs.ErrType
		wantOut   string
		wantDecls map[string]any
	}{
		{
			name:  "宣言は変数として登録して値を表示する",
			input: "x := 1 + 1",
			setup: func(te *testExecutor, exe *compiler.MockExecutable) {
				te.awaiter.EXPECT().Await(gomock.Any(), "x := 1 + 1").Return(&compiler.CompiledUnit{
					Source:        snippet.ParseAssignment("x := 1 + 1"),
					ProducesValue: true,
					Executable:    exe,
				}, nil).Times(1)
				exe.EXPECT().Invoke(gomock.Any()).Return(2, nil).Times(1)
				te.awaiter.EXPECT().Invalidate().Times(1)
			},
			wantOut:   "2 (int)",
			wantDecls: map[string]any{"x": 2},
		},
		{
			name:  "式の値を表示する",
			input: "  len(\"abc\")  ",
			setup: func(te *testExecutor, exe *compiler.MockExecutable) {
				te.awaiter.EXPECT().Await(gomock.Any(), "len(\"abc\")").Return(&compiler.CompiledUnit{
					Source:        snippet.ParseAssignment("len(\"abc\")"),
					ProducesValue: true,
					Executable:    exe,
				}, nil).Times(1)
				exe.EXPECT().Invoke(gomock.Any()).Return(3, nil).Times(1)
			},
			wantOut:   "3 (int)",
			wantDecls: map[string]any{},
		},
		{
			name:  "値を返さない文は何も表示しない",
			input: "x.Init()",
			setup: func(te *testExecutor, exe *compiler.MockExecutable) {
				te.awaiter.EXPECT().Await(gomock.Any(), gomock.Any()).Return(&compiler.CompiledUnit{
					Source:     snippet.ParseAssignment("x.Init()"),
					Executable: exe,
				}, nil).Times(1)
				exe.EXPECT().Invoke(gomock.Any()).Return(nil, nil).Times(1)
			},
			wantDecls: map[string]any{},
		},
		{
			name:  "コンパイルの診断メッセージ",
			input: "1/0",
			setup: func(te *testExecutor, exe *compiler.MockExecutable) {
				te.awaiter.EXPECT().Await(gomock.Any(), "1/0").Return(&compiler.CompiledUnit{
					Source:      snippet.ParseAssignment("1/0"),
					Diagnostics: []string{"invalid operation: division by zero"},
				}, nil).Times(1)
			},
			wantErr:   errs.BAD_INPUT_ERROR,
			wantDecls: map[string]any{},
		},
		{
			name:  "コンパイルのタイムアウト",
			input: "slow()",
			setup: func(te *testExecutor, exe *compiler.MockExecutable) {
				te.awaiter.EXPECT().Await(gomock.Any(), "slow()").Return(nil, errs.NewTimeoutError("slow()", compiler.DefaultTimeout)).Times(1)
			},
			wantErr:   errs.TIMEOUT_ERROR,
			wantDecls: map[string]any{},
		},
		{
			name:  "削除済みの変数へのアクセスは警告",
			input: "y = x.Len()",
			setup: func(te *testExecutor, exe *compiler.MockExecutable) {
				te.awaiter.EXPECT().Await(gomock.Any(), gomock.Any()).Return(&compiler.CompiledUnit{
					Source:        snippet.ParseAssignment("y = x.Len()"),
					ProducesValue: true,
					Executable:    exe,
				}, nil).Times(1)
				exe.EXPECT().Invoke(gomock.Any()).Return(nil, errs.NewRemovedVariableError("x")).Times(1)
			},
			wantErr:   errs.WARNING,
			wantDecls: map[string]any{},
		},
		{
			name:  "実行時のエラー",
			input: "boom()",
			setup: func(te *testExecutor, exe *compiler.MockExecutable) {
				te.awaiter.EXPECT().Await(gomock.Any(), gomock.Any()).Return(&compiler.CompiledUnit{
					Source:        snippet.ParseAssignment("boom()"),
					ProducesValue: true,
					Executable:    exe,
				}, nil).Times(1)
				exe.EXPECT().Invoke(gomock.Any()).Return(nil, errors.New("boom")).Times(1)
			},
			wantErr:   errs.BAD_INPUT_ERROR,
			wantDecls: map[string]any{},
		},
		{
			name:      "空の入力",
			input:     "   ",
			setup:     func(te *testExecutor, exe *compiler.MockExecutable) {},
			wantDecls: map[string]any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestExecutor(t)
			exe := compiler.NewMockExecutable(gomock.NewController(t))
			tt.setup(te, exe)

			err := te.run(context.Background(), tt.input)
			if tt.wantErr == "" && err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if tt.wantErr != "" && errs.Classify(err) != tt.wantErr {
				t.Fatalf("run() error = %v, want %s", err, tt.wantErr)
			}
			if !strings.Contains(te.out.String(), tt.wantOut) {
				t.Errorf("output %q does not contain %q", te.out.String(), tt.wantOut)
			}
			if tt.wantOut == "" && te.out.Len() > 0 {
				t.Errorf("unexpected output %q", te.out.String())
			}

			gotDecls := make(map[string]any)
			for _, decl := range te.declRegistry.Decls() {
				gotDecls[string(decl.Name)] = decl.Value
			}
			if diff := cmp.Diff(tt.wantDecls, gotDecls); diff != "" {
				t.Errorf("registered decls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecutor_evaluate_DeclType(t *testing.T) {
	te := newTestExecutor(t)
	exe := compiler.NewMockExecutable(gomock.NewController(t))
	te.awaiter.EXPECT().Await(gomock.Any(), gomock.Any()).Return(&compiler.CompiledUnit{
		Source:        snippet.ParseAssignment(`s = "go"`),
		ProducesValue: true,
		Executable:    exe,
	}, nil).Times(1)
	exe.EXPECT().Invoke(gomock.Any()).Return("go", nil).Times(1)
	te.awaiter.EXPECT().Invalidate().Times(1)

	if err := te.run(context.Background(), `s = "go"`); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	decl, ok := te.declRegistry.Lookup("s")
	if !ok {
		t.Fatal("s was not registered")
	}
	if !decl.Type.Valid() || decl.Type.Type().Name != "string" {
		t.Errorf("Decl.Type = %v, want string", decl.Type)
	}
}

func TestExecutor_runCommand(t *testing.T) {
	t.Run("変数の一覧", func(t *testing.T) {
		te := newTestExecutor(t)
		te.declRegistry.Register(declregistry.Decl{Name: "b", Value: "text"})
		te.declRegistry.Register(declregistry.Decl{Name: "a", Value: 1})
		if err := te.run(context.Background(), ":vars"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		want := "a = 1 (int)\nb = text (string)\n"
		if diff := cmp.Diff(want, te.out.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("変数の削除", func(t *testing.T) {
		te := newTestExecutor(t)
		te.declRegistry.Register(declregistry.Decl{Name: "x", Value: 1})
		te.awaiter.EXPECT().Invalidate().Times(1)

		if err := te.run(context.Background(), ":delete x"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if _, ok := te.declRegistry.Lookup("x"); ok {
			t.Error("x was not deleted")
		}
		err := te.run(context.Background(), ":delete x")
		if errs.Classify(err) != errs.BAD_INPUT_ERROR {
			t.Errorf("deleting a missing variable returned %v", err)
		}
	})

	t.Run("名前空間の選択", func(t *testing.T) {
		te := newTestExecutor(t)
		te.awaiter.EXPECT().Invalidate().Times(2)

		if err := te.run(context.Background(), ":using strings container/list"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		// 選択済みの名前空間だけの場合はコンパイルし直さない
		if err := te.run(context.Background(), ":using fmt"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if err := te.run(context.Background(), ":unusing strings"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if err := te.run(context.Background(), ":using"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if diff := cmp.Diff("container/list\nfmt\n", te.out.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("バージョンの表示", func(t *testing.T) {
		te := newTestExecutor(t)
		if err := te.run(context.Background(), ":version"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if diff := cmp.Diff("gosnip "+version.VERSION+"\n", te.out.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("不正なコマンド", func(t *testing.T) {
		te := newTestExecutor(t)
		for _, input := range []string{":", ":nothing", ":delete", ":unusing"} {
			if err := te.run(context.Background(), input); errs.Classify(err) != errs.BAD_INPUT_ERROR {
				t.Errorf("run(%q) error = %v, want BAD_INPUT_ERROR", input, err)
			}
		}
	})
}

func TestDescribe(t *testing.T) {
	type point struct {
		X, Y   int
		hidden string
	}
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "nil"},
		{name: "基本型", value: 1.5, want: "1.5 (float64)"},
		{name: "構造体の公開フィールド", value: point{X: 1, Y: 2, hidden: "h"}, want: "{1 2 h} (executor.point)\n  X: 1\n  Y: 2"},
		{name: "構造体へのポインタ", value: &point{X: 3}, want: "&{3 0 } (*executor.point)\n  X: 3\n  Y: 0"},
		{name: "nilポインタ", value: (*point)(nil), want: "<nil> (*executor.point)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.value); got != tt.want {
				t.Errorf("describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
