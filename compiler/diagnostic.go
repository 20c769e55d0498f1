package compiler

import (
	"errors"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"regexp"
	"strconv"
	"strings"
)

// 値として評価できない式(文)であることを示す診断メッセージ
// これらだけで失敗した場合は文として評価し直す
var statementClassMessages = []string{
	"used as value",
	"is not an expression",
	"expected expression",
	"is not used",
	"(no value)",
	"single-value context",
}

var (
	undefinedPattern = regexp.MustCompile(`^undefined: ([\p{L}_][\p{L}\p{N}_]*)$`)
	positionPattern  = regexp.MustCompile(`^(?:[^:\s]*:)?(\d+):(\d+): (.+)$`)
)

func isStatementClass(diags []Diagnostic) bool {
	if len(diags) == 0 {
		return false
	}
	for _, d := range diags {
		matched := false
		for _, msg := range statementClassMessages {
			if strings.Contains(d.Message, msg) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// isStatement は入力が式としては解析できず、文としてなら解析できるかを判定する
// x++ や m["a"] = 1 は値の位置では構文エラーになり、型検査の診断からは判別できない
func isStatement(text string) bool {
	if _, err := parser.ParseExpr(text); err == nil {
		return false
	}
	src := "package p\n\nfunc _() {\n" + text + "\n}\n"
	_, err := parser.ParseFile(token.NewFileSet(), "", src, parser.SkipObjectResolution)
	return err == nil
}

// undefinedName は診断メッセージが未定義の識別子一つだけの場合にその名前を返す
func undefinedName(diags []Diagnostic) (string, bool) {
	if len(diags) != 1 {
		return "", false
	}
	m := undefinedPattern.FindStringSubmatch(diags[0].Message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func ambiguousMessage(name string, namespaces []string) string {
	return fmt.Sprintf("ambiguous type '%s' found in namespaces: %s - use Scope settings to select one", name, strings.Join(namespaces, ", "))
}

// dedupe は同じメッセージを一度だけ残す
func dedupe(diags []Diagnostic) []string {
	seen := make(map[string]bool)
	var messages []string
	for _, d := range diags {
		if seen[d.Message] {
			continue
		}
		seen[d.Message] = true
		messages = append(messages, d.Message)
	}
	return messages
}

// diagnosticsOf はインタプリタのエラーを診断メッセージに分解する
func diagnosticsOf(err error) []Diagnostic {
	var list scanner.ErrorList
	if errors.As(err, &list) {
		diags := make([]Diagnostic, 0, len(list))
		for _, e := range list {
			diags = append(diags, Diagnostic{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Msg})
		}
		return diags
	}
	var diags []Diagnostic
	for _, line := range strings.Split(strings.TrimSpace(err.Error()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := positionPattern.FindStringSubmatch(line)
		if m == nil {
			diags = append(diags, Diagnostic{Message: line})
			continue
		}
		lineNo, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		diags = append(diags, Diagnostic{Line: lineNo, Column: col, Message: m[3]})
	}
	return diags
}
