package types

// Namespace は型が属する名前空間を表す。Goではインポートパスに相当する。
type Namespace string

// TypeName は型の単純名を表す。
type TypeName string

// DeclName は宣言名(変数名、メンバ名)を表す。
type DeclName string

// FullTypeName は名前空間で修飾された型名を表す。
type FullTypeName string

// NewFullTypeName は名前空間と単純名から修飾名を組み立てる
func NewFullTypeName(ns Namespace, name TypeName) FullTypeName {
	if ns == "" {
		return FullTypeName(name)
	}
	return FullTypeName(string(ns) + "." + string(name))
}
