package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/types"
	"github.com/kakkky/gosnip/universe"
	"github.com/kakkky/gosnip/usings"
)

const commandPrefix = ":"

// Executor はREPLセッション内での入力の実行を担う
// go-promptのExecutorインターフェースを実装する
type Executor struct {
	declRegistry *declregistry.DeclRegistry
	universe     *universe.Universe
	usings       *usings.Store
	compileAwaiter
	out io.Writer
}

// NewExecutor はExecutorのインスタンスを生成する
func NewExecutor(declRegistry *declregistry.DeclRegistry, u *universe.Universe, store *usings.Store, awaiter compileAwaiter) *Executor {
	return &Executor{
		declRegistry:   declRegistry,
		universe:       u,
		usings:         store,
		compileAwaiter: awaiter,
		out:            os.Stdout,
	}
}

// ====================以下にメソッドを定義する======================

// Execute は入力されたコードを実行する
func (e *Executor) Execute(input string) {
	defer func() {
		if r := recover(); r != nil {
			panicMsg := fmt.Sprintf("%v", r)
			errs.HandleError(
				errs.NewInternalError(panicMsg),
			)
			fmt.Println(string(debug.Stack()))
		}
	}()

	if err := e.run(context.Background(), input); err != nil {
		errs.HandleError(err)
	}
}

func (e *Executor) run(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if strings.HasPrefix(input, commandPrefix) {
		return e.runCommand(input)
	}
	return e.evaluate(ctx, input)
}

// evaluate はバックグラウンドでコンパイルされた入力を実行し、宣言であれば変数として登録する
func (e *Executor) evaluate(ctx context.Context, input string) error {
	unit, err := e.Await(ctx, input)
	if err != nil {
		return err
	}
	if len(unit.Diagnostics) > 0 {
		return errs.NewBadInputError(strings.Join(unit.Diagnostics, "\n"))
	}
	if unit.Executable == nil {
		return errs.NewInternalError("compiled unit has no executable")
	}

	v, err := unit.Executable.Invoke(ctx)
	if err != nil {
		// 削除済みの変数へのアクセスはそのまま警告として表示する
		if errs.IsRemovedVariable(err) {
			return err
		}
		return errs.NewBadInputError("runtime error").Wrap(err)
	}

	if unit.Source.IsDeclaring {
		handle, _ := e.universe.HandleOf(reflect.TypeOf(v))
		e.declRegistry.Register(declregistry.Decl{
			Name:  types.DeclName(unit.Source.VariableName),
			Value: v,
			Type:  handle,
		})
		// 変数が増えると生成するソースが変わるため、同じ入力でもコンパイルし直させる
		e.Invalidate()
	}
	if unit.ProducesValue {
		printValue(e.out, v)
	}
	return nil
}
