package executor

import (
	"context"

	"github.com/kakkky/gosnip/compiler"
)

//go:generate mockgen -package=executor -source=./compile_awaiter.go -destination=./compile_awaiter_mock.go
type compileAwaiter interface {
	Await(ctx context.Context, text string) (*compiler.CompiledUnit, error)
	Invalidate()
}
