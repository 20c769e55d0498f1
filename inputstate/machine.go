package inputstate

import (
	"github.com/kakkky/gosnip/completer"
	"github.com/kakkky/gosnip/snippet"
)

// State は入力の状態
type State int

const (
	NoInput State = iota
	Typing
	IntelliSelect
	Execute
)

func (s State) String() string {
	switch s {
	case NoInput:
		return "NoInput"
	case Typing:
		return "Typing"
	case IntelliSelect:
		return "IntelliSelect"
	case Execute:
		return "Execute"
	default:
		return "Unknown"
	}
}

// Key は状態遷移を起こすキーの種類
type Key int

const (
	KeyOther Key = iota
	KeyNavigation
	KeyUp
	KeyDown
	KeyTab
	KeyEnter
	KeyEscape
)

const noSelection = -1

// Machine は入力中のテキストと補完候補の選択状態を管理する
// go-promptのコールバックから呼ばれる前提で、同一のゴルーチンからのみ使う
type Machine struct {
	complete func(text string) []completer.Candidate
	execute  func(text string)

	state      State
	text       string
	parsed     bool
	lastExpr   string
	lastOffset int
	candidates []completer.Candidate
	primary    []completer.Candidate
	selected   int
	suppressed bool
}

// NewMachine はMachineのインスタンスを生成する
func NewMachine(complete func(string) []completer.Candidate, execute func(string)) *Machine {
	return &Machine{
		complete: complete,
		execute:  execute,
		selected: noSelection,
	}
}

// Update は入力中のテキストを更新する
// 式の部分が前回と変わった場合だけ補完をやり直し、選択を解除する
func (m *Machine) Update(text string) {
	m.text = text
	if m.state == NoInput && text != "" {
		m.state = Typing
	}
	pr := snippet.ParseAssignment(text)
	if m.parsed && pr.ExpressionText == m.lastExpr && pr.ExpressionOffset == m.lastOffset {
		return
	}
	m.parsed = true
	m.lastExpr = pr.ExpressionText
	m.lastOffset = pr.ExpressionOffset
	m.candidates = m.complete(text)
	m.primary = completer.Primary(m.candidates)
	m.selected = noSelection
	m.suppressed = false
	if m.state == IntelliSelect {
		m.state = Typing
	}
}

// Complete はテキストを更新し、表示すべき補完候補を返す
func (m *Machine) Complete(text string) []completer.Candidate {
	m.Update(text)
	if m.suppressed {
		return nil
	}
	return m.candidates
}

// HandleKey はキー入力で状態を遷移させ、キーを消費したかどうかを返す
func (m *Machine) HandleKey(key Key) bool {
	switch m.state {
	case NoInput:
		m.state = Typing
		switch key {
		case KeyDown, KeyTab, KeyEnter, KeyEscape:
			return m.HandleKey(key)
		}
		return true
	case Typing:
		return m.handleTyping(key)
	case IntelliSelect:
		return m.handleIntelliSelect(key)
	}
	return false
}

func (m *Machine) handleTyping(key Key) bool {
	switch key {
	case KeyDown:
		if len(m.primary) == 0 || m.suppressed {
			return false
		}
		m.state = IntelliSelect
		m.selected = 0
		return true
	case KeyTab:
		if len(m.primary) == 0 || m.suppressed {
			return false
		}
		m.selected = 0
		m.commit()
		return true
	case KeyEnter:
		m.run()
		return true
	case KeyEscape:
		m.suppressed = true
		return true
	}
	return false
}

func (m *Machine) handleIntelliSelect(key Key) bool {
	switch key {
	case KeyDown:
		m.selected = min(m.selected+1, len(m.primary)-1)
		return true
	case KeyUp:
		m.selected = max(m.selected-1, 0)
		return true
	case KeyEnter, KeyTab:
		m.commit()
		m.state = Typing
		return true
	default:
		m.selected = noSelection
		m.state = Typing
		return key == KeyEscape
	}
}

// 選択中の候補でテキストを置き換え、補完を閉じる
func (m *Machine) commit() {
	m.text = m.ReplacementString()
	pr := snippet.ParseAssignment(m.text)
	m.lastExpr = pr.ExpressionText
	m.lastOffset = pr.ExpressionOffset
	m.candidates = nil
	m.primary = nil
	m.selected = noSelection
	m.suppressed = true
}

func (m *Machine) run() {
	m.state = Execute
	text := m.text
	m.execute(text)
	m.reset()
}

func (m *Machine) reset() {
	m.state = NoInput
	m.text = ""
	m.parsed = false
	m.lastExpr = ""
	m.lastOffset = 0
	m.candidates = nil
	m.primary = nil
	m.selected = noSelection
	m.suppressed = false
}

// ReplacementString は選択中の候補で置き換えたテキストを返す。未選択ならテキストをそのまま返す
// オーバーロードは表示専用なので、選択位置は主要な候補の中で数える
func (m *Machine) ReplacementString() string {
	if m.selected < 0 || m.selected >= len(m.primary) {
		return m.text
	}
	return completer.Splice(m.text, m.primary[m.selected])
}

func (m *Machine) Text() string {
	return m.text
}

func (m *Machine) State() State {
	return m.state
}

// Selected は主要な候補の中で選択中の位置を返す。未選択なら-1
func (m *Machine) Selected() int {
	return m.selected
}

func (m *Machine) Candidates() []completer.Candidate {
	return m.candidates
}

// Suppressed は補完の表示が抑止されているかを返す
func (m *Machine) Suppressed() bool {
	return m.suppressed
}
