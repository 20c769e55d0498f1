package snippet

import (
	"go/token"
	"regexp"
)

// ParseResult は入力を宣言と式に分類した結果
type ParseResult struct {
	IsDeclaring  bool
	VariableName string
	// 宣言時に明示された型。省略時は評価結果の型を使う
	DeclaredType     string
	ExpressionText   string
	ExpressionOffset int
	WholeText        string
}

// IdentifierCheck は変数名として使える識別子かを判定する
type IdentifierCheck func(name string) bool

// IsGoIdentifier はGoの識別子であり予約語でないかを判定する。ブランク識別子は受け付けない
func IsGoIdentifier(name string) bool {
	return name != "_" && token.IsIdentifier(name)
}

// (var)? 名前 (型)? (= | :=) 式
// 型には ==, !=, <=, += などの演算子を含めないため、比較式や複合代入は宣言として扱わない
var assignmentPattern = regexp.MustCompile(`(?s)^\s*(?:var\s+)?([^\s:=]+)(?:\s+([\p{L}\p{N}_.\[\]*]+))?\s*:?=\s*([^=\s].*)$`)

// Parser は入力の分類を担う
type Parser struct {
	isIdentifier IdentifierCheck
}

// NewParser はParserのインスタンスを生成する
func NewParser(check IdentifierCheck) *Parser {
	if check == nil {
		check = IsGoIdentifier
	}
	return &Parser{isIdentifier: check}
}

var defaultParser = NewParser(IsGoIdentifier)

// ParseAssignment はGoの識別子規則で入力を分類する
func ParseAssignment(text string) ParseResult {
	return defaultParser.ParseAssignment(text)
}

// ParseAssignment は入力が変数への代入かを判定し、代入であれば変数名と右辺の式を取り出す
// 代入でなければ入力全体を式として扱う
func (p *Parser) ParseAssignment(text string) ParseResult {
	expression := ParseResult{
		ExpressionText: text,
		WholeText:      text,
	}
	match := assignmentPattern.FindStringSubmatchIndex(text)
	if match == nil {
		return expression
	}
	name := text[match[2]:match[3]]
	if !p.validIdentifier(name) {
		return expression
	}
	var declaredType string
	if match[4] >= 0 {
		declaredType = text[match[4]:match[5]]
	}
	// var は型の指定がないものとして扱う
	if declaredType == "var" {
		declaredType = ""
	}
	return ParseResult{
		IsDeclaring:      true,
		VariableName:     name,
		DeclaredType:     declaredType,
		ExpressionText:   text[match[6]:match[7]],
		ExpressionOffset: match[6],
		WholeText:        text,
	}
}

// 判定処理がpanicした場合も不正な識別子とみなす
func (p *Parser) validIdentifier(name string) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
		}
	}()
	return p.isIdentifier(name)
}
