package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/errs"
)

// YaegiCompiler はyaegiのインタプリタで生成したソースを評価するDynamicCompiler
// コンパイルごとに新しいインタプリタを作るため、前回の入力の宣言は残らない
// 変数は gosnip/session パッケージを通してDeclRegistryから名前で読み書きする
type YaegiCompiler struct {
	env    *declregistry.DeclRegistry
	stdout io.Writer
}

// NewYaegiCompiler はYaegiCompilerのインスタンスを生成する
func NewYaegiCompiler(env *declregistry.DeclRegistry) *YaegiCompiler {
	return &YaegiCompiler{
		env:    env,
		stdout: os.Stdout,
	}
}

// Importable は標準ライブラリとセッションのパッケージをインポートできる
func (c *YaegiCompiler) Importable(path string) bool {
	if path == sessionImportPath {
		return true
	}
	_, ok := stdlib.Symbols[path+"/"+packageName(path)]
	return ok
}

func (c *YaegiCompiler) exports() interp.Exports {
	return interp.Exports{
		sessionImportPath + "/session": {
			"MustLoad": reflect.ValueOf(c.env.MustLoad),
			"Sync":     reflect.ValueOf(c.sync),
		},
	}
}

// sync はアクセサが評価後に呼び、ローカル変数の値を名前で書き戻す
// 評価中に削除された変数は書き戻さない
func (c *YaegiCompiler) sync(name string, ref any) {
	rv := reflect.ValueOf(ref)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	_ = c.env.Store(name, rv.Elem().Interface())
}

func (c *YaegiCompiler) newInterpreter() (*interp.Interpreter, error) {
	i := interp.New(interp.Options{
		Stdout: c.stdout,
		Stderr: io.Discard,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, err
	}
	if err := i.Use(c.exports()); err != nil {
		return nil, err
	}
	return i, nil
}

// CompileSource はソースを型検査し、評価用の関数を取り出す
// パッケージレベルの宣言しか持たないソースなので、この時点では入力は実行されない
func (c *YaegiCompiler) CompileSource(ctx context.Context, src string, opts Options) (exe Executable, diags []Diagnostic, err error) {
	defer func() {
		// 不正な入力でインタプリタがpanicする場合も診断メッセージとして扱う
		if r := recover(); r != nil {
			exe, diags, err = nil, []Diagnostic{{Message: fmt.Sprint(unwrapPanic(r))}}, nil
		}
	}()

	i, err := c.newInterpreter()
	if err != nil {
		return nil, nil, errs.NewInternalError("failed to initialize interpreter").Wrap(err)
	}
	if _, err := i.EvalWithContext(ctx, src); err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, diagnosticsOf(err), nil
	}
	v, err := i.EvalWithContext(ctx, opts.Package+"."+opts.Entry)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, errs.NewInternalError("failed to look up entry function").Wrap(err)
	}
	fn, ok := v.Interface().(func() any)
	if !ok {
		return nil, nil, errs.NewInternalError(fmt.Sprintf("unexpected entry function type %s", v.Type()))
	}
	return &yaegiExecutable{fn: fn}, nil, nil
}

type yaegiExecutable struct {
	fn func() any
}

// Invoke は入力を評価する。入力中のpanicは元の値に戻してエラーとして返す
func (ye *yaegiExecutable) Invoke(ctx context.Context) (v any, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, panicError(r)
		}
	}()
	return ye.fn(), nil
}

func unwrapPanic(r any) any {
	for {
		switch p := r.(type) {
		case interp.Panic:
			r = p.Value
		case *interp.Panic:
			r = p.Value
		default:
			return r
		}
	}
}

func panicError(r any) error {
	r = unwrapPanic(r)
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
