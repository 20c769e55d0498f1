package compiler

import (
	"context"
	"fmt"
)

// Diagnostic はコンパイル時の診断メッセージ
// Line, Columnは生成したソース上の位置で、不明な場合は0
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Options は生成したソースをコンパイルする際の設定
type Options struct {
	// 生成したソースのパッケージ名
	Package string
	// 評価する関数名。引数を取らずanyを返す
	Entry string
}

//go:generate mockgen -package=compiler -source=./dynamic_compiler.go -destination=./dynamic_compiler_mock.go

// DynamicCompiler は生成したソースを実行可能な形にする
// 診断メッセージはユーザーの入力に起因する失敗で、errorはそれ以外の失敗を表す
type DynamicCompiler interface {
	CompileSource(ctx context.Context, src string, opts Options) (Executable, []Diagnostic, error)
	// Importable はインポートパスのパッケージを生成したソースから参照できるかを返す
	Importable(path string) bool
}

// Executable はコンパイル済みの入力
type Executable interface {
	Invoke(ctx context.Context) (any, error)
}
