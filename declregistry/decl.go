package declregistry

import (
	"reflect"

	"github.com/kakkky/gosnip/types"
	"github.com/kakkky/gosnip/universe"
)

// Decl はReplセッション内で宣言された変数を表す
type Decl struct {
	Name  types.DeclName
	Value any
	// 型カタログ上の型。カタログにない型やnilの場合は無効なハンドル
	Type universe.Handle
}

// GoType は値の動的な型を返す。値がnilの場合はnilを返す
func (d Decl) GoType() reflect.Type {
	return reflect.TypeOf(d.Value)
}

// IsNil は値がnil、もしくはnilのポインタなどであるかを返す
func (d Decl) IsNil() bool {
	if d.Value == nil {
		return true
	}
	rv := reflect.ValueOf(d.Value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
