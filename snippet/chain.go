package snippet

import (
	"regexp"
	"strings"
)

const identPattern = `[\p{L}_][\p{L}\p{N}_]*`

var (
	// 0個以上の「識別子.」と、入力途中の識別子
	dotChainPattern = regexp.MustCompile(`((?:` + identPattern + `\.)*)(` + identPattern + `)?$`)
	// 入れ子の括弧を含まない「名前(引数).」
	methodCallTailPattern = regexp.MustCompile(`((?:` + identPattern + `\.)*)(` + identPattern + `)\(([^()]*)\)\.$`)
)

// Chain は入力末尾のドット区切りの識別子の並び
type Chain struct {
	FullPath     string
	FirstSegment string
	Segments     []string
	SearchToken  string
	// 入力内でのチェーンの開始位置
	Start int
	// 入力内での検索語の開始位置
	TokenStart int
}

// DotChain は入力末尾の a.B.c のような並びを取り出す
func DotChain(text string) (Chain, bool) {
	match := dotChainPattern.FindStringSubmatchIndex(text)
	if match == nil {
		return Chain{}, false
	}
	chain := Chain{
		FullPath:   text[match[0]:match[1]],
		Start:      match[0],
		TokenStart: match[1],
	}
	if match[4] >= 0 {
		chain.SearchToken = text[match[4]:match[5]]
		chain.TokenStart = match[4]
	}
	if path := text[match[2]:match[3]]; path != "" {
		chain.Segments = strings.Split(strings.TrimSuffix(path, "."), ".")
		chain.FirstSegment = chain.Segments[0]
	}
	return chain, true
}

// CallTail は入力末尾の完結したメソッド呼び出しとその直後のドット
type CallTail struct {
	FullPath   string
	OwnerPath  []string
	MethodName string
	ArgsText   string
	ArgCount   int
	Start      int
}

// MethodCallTail は入力が「名前(引数).」で終わっていればその呼び出しを取り出す
func MethodCallTail(text string) (CallTail, bool) {
	match := methodCallTailPattern.FindStringSubmatchIndex(text)
	if match == nil {
		return CallTail{}, false
	}
	tail := CallTail{
		FullPath:   strings.TrimSuffix(text[match[0]:match[1]], "."),
		MethodName: text[match[4]:match[5]],
		ArgsText:   text[match[6]:match[7]],
		Start:      match[0],
	}
	if owner := text[match[2]:match[3]]; owner != "" {
		tail.OwnerPath = strings.Split(strings.TrimSuffix(owner, "."), ".")
	}
	tail.ArgCount = CountArgs(tail.ArgsText)
	return tail, true
}

// Segment は式を構成する一つの要素。呼び出しの場合は引数の個数を持つ
type Segment struct {
	Name     string
	IsCall   bool
	ArgCount int
}

// Expression は入力末尾の式を要素に分解したもの
type Expression struct {
	Segments    []Segment
	SearchToken string
	TokenStart  int
	Start       int
}

// IsBare はドットで修飾されていない入力途中の識別子だけの式かを返す
func (e Expression) IsBare() bool {
	return len(e.Segments) == 0
}

// Root は先頭の要素の名前を返す
func (e Expression) Root() string {
	if e.IsBare() {
		return ""
	}
	return e.Segments[0].Name
}

// SplitExpression は入力末尾の式をメソッド呼び出しを遡りながら要素に分解する
// a.B(1).C(x, y).d であれば a, B(1), C(2), 検索語 d となる
func SplitExpression(text string) (Expression, bool) {
	chain, ok := DotChain(text)
	if !ok {
		return Expression{}, false
	}
	expr := Expression{
		SearchToken: chain.SearchToken,
		TokenStart:  chain.TokenStart,
		Start:       chain.Start,
	}
	segments := toSegments(chain.Segments)
	prefix := text[:chain.Start]
	for strings.HasSuffix(prefix, ").") {
		tail, ok := MethodCallTail(prefix)
		if !ok {
			// 括弧の入れ子などは辿れない
			return Expression{}, false
		}
		call := Segment{Name: tail.MethodName, IsCall: true, ArgCount: tail.ArgCount}
		segments = append(append(toSegments(tail.OwnerPath), call), segments...)
		expr.Start = tail.Start
		prefix = prefix[:tail.Start]
	}
	expr.Segments = segments
	return expr, true
}

func toSegments(names []string) []Segment {
	segments := make([]Segment, 0, len(names))
	for _, name := range names {
		segments = append(segments, Segment{Name: name})
	}
	return segments
}

// Invocation は閉じられていない括弧の直前のメソッド呼び出し
type Invocation struct {
	Owner      Expression
	MethodName string
	ArgsText   string
	ArgCount   int
}

// FindOpenCall は入力が owner.Method( の内側にあればその呼び出しを返す
func FindOpenCall(text string) (Invocation, bool) {
	open := innermostOpenParen(text)
	if open < 0 {
		return Invocation{}, false
	}
	owner, ok := SplitExpression(text[:open])
	if !ok || owner.IsBare() || owner.SearchToken == "" || owner.TokenStart != open-len(owner.SearchToken) {
		return Invocation{}, false
	}
	method := owner.SearchToken
	owner.SearchToken = ""
	owner.TokenStart = open
	args := text[open+1:]
	return Invocation{
		Owner:      owner,
		MethodName: method,
		ArgsText:   args,
		ArgCount:   CountArgs(args),
	}, true
}

// 文字列リテラルの内側を除いて、対応する閉じ括弧のない最も内側の ( の位置を返す
func innermostOpenParen(text string) int {
	var stack []int
	scanOutsideLiterals(text, func(i int, c byte) {
		switch c {
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	})
	if len(stack) == 0 {
		return -1
	}
	return stack[len(stack)-1]
}

// CountArgs は引数の並びのトップレベルのカンマから引数の個数を数える
func CountArgs(argsText string) int {
	if strings.TrimSpace(argsText) == "" {
		return 0
	}
	count, depth := 1, 0
	scanOutsideLiterals(argsText, func(_ int, c byte) {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				count++
			}
		}
	})
	return count
}

// scanOutsideLiterals は文字列、rune、raw文字列リテラルの外側の各バイトに対してfnを呼ぶ
func scanOutsideLiterals(text string, fn func(i int, c byte)) {
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch {
			case c == '\\' && quote != '`':
				i++
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		default:
			fn(i, c)
		}
	}
}
