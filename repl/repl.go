package repl

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/kakkky/go-prompt"
	"golang.org/x/term"

	"github.com/kakkky/gosnip/compiler"
	"github.com/kakkky/gosnip/completer"
	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/executor"
	"github.com/kakkky/gosnip/inputstate"
	"github.com/kakkky/gosnip/version"
)

type Repl struct {
	session    *session
	worker     *compiler.Worker
	isTerminal func(fd int) bool
}

// NewRepl はREPLのインスタンスを生成する
// 補完と実行は入力の状態遷移を通し、入力の度にワーカーへコンパイルを依頼する
func NewRepl(engine *completer.Engine, exec *executor.Executor, worker *compiler.Worker) *Repl {
	return &Repl{
		session:    newSession(engine.Complete, exec.Execute, worker),
		worker:     worker,
		isTerminal: term.IsTerminal,
	}
}

// Run はワーカーを起動してプロンプトを開始する。ワーカーはセッションが終わるまで動き続ける
// 標準入力が端末でなければプロンプトを開始せずにエラーを返す
func (r *Repl) Run(ctx context.Context) error {
	if !r.isTerminal(int(os.Stdin.Fd())) {
		return errs.NewBadInputError("gosnip needs an interactive terminal on stdin")
	}
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.worker.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	pt := prompt.New(
		r.session.execute,
		completer.NewCompleterFunc(r.session.complete).Complete,
		prompt.OptionTitle("gosnip"),
		prompt.OptionPrefix(">>> "),
		prompt.OptionAddKeyBind(keyBinds(r.session)...),
	)
	printBanner()
	pt.Run()
	return nil
}

// キー入力を状態遷移に伝える。入力の書き換えはgo-promptが行う
func keyBinds(s *session) []prompt.KeyBind {
	bind := func(key prompt.Key, k inputstate.Key) prompt.KeyBind {
		return prompt.KeyBind{
			Key: key,
			Fn: func(buf *prompt.Buffer) {
				s.handleKey(k)
			},
		}
	}
	return []prompt.KeyBind{
		{
			Key: prompt.ControlC,
			Fn: func(buf *prompt.Buffer) {
				fmt.Println("\nExit on Ctrl+C")
				os.Exit(0)
			},
		},
		bind(prompt.Tab, inputstate.KeyTab),
		bind(prompt.Down, inputstate.KeyDown),
		bind(prompt.Up, inputstate.KeyUp),
		bind(prompt.Escape, inputstate.KeyEscape),
		bind(prompt.Left, inputstate.KeyNavigation),
		bind(prompt.Right, inputstate.KeyNavigation),
	}
}

func printBanner() {
	version.PrintVersion(os.Stdout)
	fmt.Println("Type Go expressions or `name := expr`. :help lists the commands.")
}
