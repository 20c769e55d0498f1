package completer

import (
	"github.com/kakkky/go-prompt"
)

// Completer は補完エンジンの候補をgo-promptの候補に変換する
// go-promptのCompleterインターフェースを実装している
type Completer struct {
	candidates func(text string) []Candidate
}

// NewCompleter はEngineから直接候補を得るCompleterのインスタンスを生成する
func NewCompleter(engine *Engine) *Completer {
	return &Completer{
		candidates: engine.Complete,
	}
}

// NewCompleterFunc は任意の関数から候補を得るCompleterのインスタンスを生成する
// 入力の状態遷移を介して候補を出す場合に使う
func NewCompleterFunc(candidates func(text string) []Candidate) *Completer {
	return &Completer{
		candidates: candidates,
	}
}

// Complete はgo-promptのCompleterインターフェースを実装するメソッドで、補完候補を返す
func (c *Completer) Complete(input prompt.Document) []prompt.Suggest {
	sb := newSuggestionBuilder(input.TextBeforeCursor(), input.GetWordBeforeCursor())
	cands := c.candidates(sb.input.text)
	suggestions := make([]prompt.Suggest, 0, len(cands))
	for _, cand := range cands {
		suggestions = append(suggestions, sb.build(cand))
	}
	return suggestions
}
