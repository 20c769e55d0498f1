package completer

import "strings"

// CandidateKind は補完候補の種類
type CandidateKind int

const (
	CandidateUnknown CandidateKind = iota
	CandidateVariable
	CandidatePackage
	CandidateType
	CandidateNestedType
	CandidateField
	CandidateProperty
	CandidateMethod
)

func (k CandidateKind) String() string {
	switch k {
	case CandidateVariable:
		return "Variable"
	case CandidatePackage:
		return "Package"
	case CandidateType:
		return "Type"
	case CandidateNestedType:
		return "Nested Type"
	case CandidateField:
		return "Field"
	case CandidateProperty:
		return "Property"
	case CandidateMethod:
		return "Method"
	default:
		return "Unknown"
	}
}

// TokenKind は表示用の字句の種類。色付けに使う
type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenTypeName
	TokenPunctuation
	TokenKeyword
)

// Token は表示用の字句
type Token struct {
	Kind TokenKind
	Text string
}

// Rank は候補の並び順を決める値
type Rank struct {
	// 候補名の中で検索語が現れる位置
	MatchIndex int
	NameLength int
	InScope    bool
	Nested     bool
}

// Candidate は一つの補完候補
// SpanStart, SpanEnd は入力全体の中での置換範囲(SpanEndを含む)
type Candidate struct {
	DisplayTokens   []Token
	Name            string
	ReplacementText string
	SpanStart       int
	SpanEnd         int
	Rank            Rank
	IsOverload      bool
	IsInScope       bool
	IsNested        bool
	Kind            CandidateKind
	// 同名のメソッドの数
	Overloads   int
	Namespace   string
	Description string
}

// DisplayText は表示用の字句を連結した文字列を返す
func (c Candidate) DisplayText() string {
	var sb strings.Builder
	for _, token := range c.DisplayTokens {
		sb.WriteString(token.Text)
	}
	return sb.String()
}

// Splice は候補の置換範囲を置換文字列で置き換えた入力を返す
func Splice(text string, c Candidate) string {
	if c.SpanStart < 0 || c.SpanStart > len(text) || c.SpanEnd+1 < c.SpanStart || c.SpanEnd+1 > len(text) {
		return text
	}
	return text[:c.SpanStart] + c.ReplacementText + text[c.SpanEnd+1:]
}

// Primary はオーバーロードの表示用候補を除いた候補を返す
func Primary(cands []Candidate) []Candidate {
	primary := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if !c.IsOverload {
			primary = append(primary, c)
		}
	}
	return primary
}

// Overloads はオーバーロードの表示用候補だけを返す
func Overloads(cands []Candidate) []Candidate {
	var overloads []Candidate
	for _, c := range cands {
		if c.IsOverload {
			overloads = append(overloads, c)
		}
	}
	return overloads
}

// 検索語の位置、名前の長さ、名前空間が選択済みか、入れ子でないか、名前の順に並べる
func compareRank(a, b Candidate) int {
	switch {
	case a.Rank.MatchIndex != b.Rank.MatchIndex:
		return a.Rank.MatchIndex - b.Rank.MatchIndex
	case a.Rank.NameLength != b.Rank.NameLength:
		return a.Rank.NameLength - b.Rank.NameLength
	case a.Rank.InScope != b.Rank.InScope:
		if a.Rank.InScope {
			return -1
		}
		return 1
	case a.Rank.Nested != b.Rank.Nested:
		if a.Rank.Nested {
			return 1
		}
		return -1
	}
	return strings.Compare(a.Name, b.Name)
}
