package repl

import (
	"github.com/kakkky/gosnip/completer"
	"github.com/kakkky/gosnip/inputstate"
)

// session はgo-promptのコールバックを入力の状態遷移とバックグラウンドのコンパイルにつなぐ
type session struct {
	machine   *inputstate.Machine
	submitter compileSubmitter
}

func newSession(complete func(string) []completer.Candidate, execute func(string), submitter compileSubmitter) *session {
	return &session{
		machine:   inputstate.NewMachine(complete, execute),
		submitter: submitter,
	}
}

// complete は入力の度に呼ばれ、入力をコンパイルに回して表示する候補を返す
func (s *session) complete(text string) []completer.Candidate {
	s.submitter.Submit(text)
	return s.machine.Complete(text)
}

// execute はEnterで確定した入力を実行する
func (s *session) execute(input string) {
	s.machine.Update(input)
	if s.machine.State() == inputstate.IntelliSelect {
		// go-promptが選択中の候補を既に入力に反映している
		s.machine.HandleKey(inputstate.KeyEscape)
	}
	s.machine.HandleKey(inputstate.KeyEnter)
}

func (s *session) handleKey(key inputstate.Key) {
	s.machine.HandleKey(key)
}
