package completer

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/resolver"
	"github.com/kakkky/gosnip/snippet"
	"github.com/kakkky/gosnip/universe"
)

// bareSearchMinLength より長い検索語でのみ修飾のない名前を探す
const bareSearchMinLength = 2

// Engine は入力途中のテキストから補完候補を組み立てる
type Engine struct {
	universe *universe.Universe
	env      *declregistry.DeclRegistry
	resolver *resolver.Resolver
	scope    scopeChecker
}

// NewEngine はEngineのインスタンスを生成する
func NewEngine(u *universe.Universe, env *declregistry.DeclRegistry, r *resolver.Resolver, scope scopeChecker) *Engine {
	return &Engine{
		universe: u,
		env:      env,
		resolver: r,
		scope:    scope,
	}
}

// Complete は入力の末尾をカーソル位置とみなして補完候補を返す
// 解決できない入力に対しては空の一覧を返す
func (e *Engine) Complete(text string) []Candidate {
	pr := snippet.ParseAssignment(text)
	expr, ok := snippet.SplitExpression(pr.ExpressionText)
	if !ok {
		return nil
	}
	span := tokenSpan{
		start: pr.ExpressionOffset + expr.TokenStart,
		token: expr.SearchToken,
	}

	var cands []Candidate
	if expr.IsBare() {
		if utf8.RuneCountInString(expr.SearchToken) > bareSearchMinLength {
			cands = e.searchBare(span)
		}
	} else if res, ok := e.resolver.Resolve(expr); ok {
		cands = e.searchMembers(res, span)
	}
	slices.SortStableFunc(cands, compareRank)

	if inv, ok := snippet.FindOpenCall(pr.ExpressionText); ok {
		nameStart := pr.ExpressionOffset + inv.Owner.TokenStart - len(inv.MethodName)
		cands = append(cands, e.overloadHints(inv, nameStart)...)
	}
	return cands
}

type tokenSpan struct {
	start int
	token string
}

func (s tokenSpan) candidate(name string) Candidate {
	return Candidate{
		Name:            name,
		ReplacementText: name,
		SpanStart:       s.start,
		SpanEnd:         s.start + len(s.token) - 1,
	}
}

// 大文字小文字を区別せずに検索語の位置を返す。位置は元の名前のバイト位置
// 小文字にするとバイト長が変わる文字(İなど)があるため、元の名前の上で一文字ずつずらして比べる
func matchIndex(name, token string) int {
	if token == "" {
		return 0
	}
	n := utf8.RuneCountInString(token)
	for i := range name {
		end := runePrefixLen(name[i:], n)
		if end < 0 {
			return -1
		}
		if strings.EqualFold(name[i:i+end], token) {
			return i
		}
	}
	return -1
}

// runePrefixLen は先頭からn文字分のバイト長を返す。n文字に満たなければ-1
func runePrefixLen(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	if count == n {
		return len(s)
	}
	return -1
}

// 変数名と型の単純名から検索語を含むものを探す
func (e *Engine) searchBare(span tokenSpan) []Candidate {
	var cands []Candidate
	for _, decl := range e.env.Decls() {
		idx := matchIndex(string(decl.Name), span.token)
		if idx < 0 {
			continue
		}
		c := span.candidate(string(decl.Name))
		c.Kind = CandidateVariable
		c.IsInScope = true
		c.Description = fmt.Sprintf("%T", decl.Value)
		c.DisplayTokens = []Token{{Kind: TokenIdentifier, Text: c.Name}}
		c.Rank = Rank{MatchIndex: idx, NameLength: len(c.Name), InScope: true}
		cands = append(cands, c)
	}
	for _, h := range e.universe.AllTypes() {
		t := h.Type()
		if t.Synthetic {
			continue
		}
		idx := matchIndex(string(t.Name), span.token)
		if idx < 0 {
			continue
		}
		c := span.candidate(string(t.Name))
		c.Kind = CandidateType
		if t.Kind == universe.KindPackage {
			c.Kind = CandidatePackage
		}
		c.Namespace = string(t.Namespace)
		c.IsNested = t.IsNested()
		c.IsInScope = t.Namespace == "" || e.scope.Selected(string(t.Namespace))
		c.Description = string(t.FullName())
		c.DisplayTokens = []Token{{Kind: TokenTypeName, Text: c.Name}}
		c.Rank = Rank{MatchIndex: idx, NameLength: len(c.Name), InScope: c.IsInScope, Nested: c.IsNested}
		cands = append(cands, c)
	}
	return cands
}

// 解決した型のメンバから検索語を含むものを探す。同名のメソッドは一つの候補にまとめる
func (e *Engine) searchMembers(res resolver.Result, span tokenSpan) []Candidate {
	members := e.universe.MembersOf(res.Type, res.Scope(), true)
	byName := make(map[string]int)
	var cands []Candidate
	for _, kind := range []universe.MemberKind{universe.MemberProperty, universe.MemberField, universe.MemberMethod} {
		for _, m := range members {
			if m.Kind != kind {
				continue
			}
			name := string(m.Name)
			idx := matchIndex(name, span.token)
			if idx < 0 {
				continue
			}
			if i, ok := byName[name]; ok {
				if m.Kind == universe.MemberMethod {
					cands[i].Overloads++
				}
				continue
			}
			c := span.candidate(name)
			c.Kind = memberCandidateKind(m.Kind)
			c.IsInScope = true
			c.DisplayTokens = memberTokens(m)
			c.Description = m.Signature()
			if m.Kind == universe.MemberMethod {
				c.Overloads = 1
			}
			c.Rank = Rank{MatchIndex: idx, NameLength: len(name), InScope: true}
			byName[name] = len(cands)
			cands = append(cands, c)
		}
	}
	if res.Static {
		for _, nested := range e.universe.NestedTypes(res.Type) {
			name := string(nested.Type().Name)
			idx := matchIndex(name, span.token)
			if idx < 0 {
				continue
			}
			if _, ok := byName[name]; ok {
				continue
			}
			c := span.candidate(name)
			c.Kind = CandidateNestedType
			c.Namespace = string(nested.Type().Namespace)
			c.IsInScope = true
			c.IsNested = true
			c.Description = string(nested.Type().FullName())
			c.DisplayTokens = []Token{{Kind: TokenTypeName, Text: name}}
			c.Rank = Rank{MatchIndex: idx, NameLength: len(name), InScope: true, Nested: true}
			byName[name] = len(cands)
			cands = append(cands, c)
		}
	}
	for i := range cands {
		if cands[i].Overloads > 1 {
			cands[i].Description = fmt.Sprintf("%s (+%d overloads)", cands[i].Description, cands[i].Overloads-1)
		}
	}
	return cands
}

// 開いている括弧の直前のメソッドの全てのオーバーロードを表示用の候補にする
func (e *Engine) overloadHints(inv snippet.Invocation, nameStart int) []Candidate {
	res, ok := e.resolver.Resolve(inv.Owner)
	if !ok {
		return nil
	}
	span := tokenSpan{start: nameStart, token: inv.MethodName}
	var hints []Candidate
	for _, m := range e.universe.MembersOf(res.Type, res.Scope(), true) {
		if m.Kind != universe.MemberMethod || string(m.Name) != inv.MethodName {
			continue
		}
		c := span.candidate(inv.MethodName)
		c.Kind = CandidateMethod
		c.IsOverload = true
		c.IsInScope = true
		c.DisplayTokens = memberTokens(m)
		c.Description = m.Signature()
		hints = append(hints, c)
	}
	return hints
}

func memberCandidateKind(kind universe.MemberKind) CandidateKind {
	switch kind {
	case universe.MemberField:
		return CandidateField
	case universe.MemberProperty:
		return CandidateProperty
	case universe.MemberMethod:
		return CandidateMethod
	default:
		return CandidateUnknown
	}
}

func memberTokens(m universe.Member) []Token {
	tokens := []Token{{Kind: TokenIdentifier, Text: string(m.Name)}}
	if m.Kind == universe.MemberMethod {
		tokens = append(tokens, Token{Kind: TokenPunctuation, Text: "("})
		for i, p := range m.Params {
			if i > 0 {
				tokens = append(tokens, Token{Kind: TokenPunctuation, Text: ", "})
			}
			if m.Variadic && i == len(m.Params)-1 {
				tokens = append(tokens, Token{Kind: TokenPunctuation, Text: "..."})
			}
			tokens = append(tokens, Token{Kind: TokenTypeName, Text: p.Type.String()})
		}
		tokens = append(tokens, Token{Kind: TokenPunctuation, Text: ")"})
	}
	if !m.Result.IsZero() {
		tokens = append(tokens, Token{Kind: TokenPunctuation, Text: " "}, Token{Kind: TokenTypeName, Text: m.Result.String()})
	}
	return tokens
}
