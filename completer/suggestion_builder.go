package completer

import (
	"github.com/kakkky/go-prompt"
)

type suggestionBuilder struct {
	input input
}

type input struct {
	text string // カーソルより前の入力全体
	word string // go-promptが候補の選択時に置き換える、カーソル直前の空白を含まない語
}

func newSuggestionBuilder(text, word string) *suggestionBuilder {
	return &suggestionBuilder{
		input: input{
			text: text,
			word: word,
		},
	}
}

func (sb *suggestionBuilder) build(cand Candidate) prompt.Suggest {
	displayText := cand.Name
	if cand.IsOverload {
		displayText = "  " + cand.DisplayText()
	}
	return prompt.Suggest{
		Text:        sb.buildSuggestText(cand),
		DisplayText: displayText,
		Description: sb.buildSuggestDescription(cand),
	}
}

// go-promptはカーソル直前の語を候補の文字列で置き換えるため、置換後の入力からその語に当たる部分を切り出す
func (sb *suggestionBuilder) buildSuggestText(cand Candidate) string {
	wordStart := len(sb.input.text) - len(sb.input.word)
	if cand.SpanStart < wordStart {
		// 置換範囲が語の外側にある場合は入力を変えない
		return sb.input.word
	}
	spliced := Splice(sb.input.text, cand)
	return spliced[wordStart:]
}

func (sb *suggestionBuilder) buildSuggestDescription(cand Candidate) string {
	if cand.IsOverload {
		return "Overload: " + cand.Description
	}
	return cand.Kind.String() + ": " + cand.Description
}
