package executor

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

const (
	greenColor = "\033[32m"
	colorReset = "\033[0m"
)

func printValue(w io.Writer, v any) {
	fmt.Fprintf(w, "\n%s%s%s\n\n", greenColor, describe(v), colorReset)
}

// describe は値とその型、構造体であれば公開フィールドの値を文字列にする
func describe(v any) string {
	if v == nil {
		return "nil"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v (%T)", v, v)

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return sb.String()
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return sb.String()
	}
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fmt.Fprintf(&sb, "\n  %s: %v", field.Name, rv.Field(i).Interface())
	}
	return sb.String()
}
