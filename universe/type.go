package universe

import (
	"strings"

	"github.com/kakkky/gosnip/types"
)

// Kind は型の種類を表す
type Kind int

const (
	KindUnknown Kind = iota
	KindBasic
	KindStruct
	KindInterface
	KindPackage // パッケージを静的メンバのみを持つ型として扱う
	KindNamed   // 構造体、インターフェース以外の定義型
)

// MemberKind はメンバの種類を表す
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberProperty
	MemberMethod
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "Field"
	case MemberProperty:
		return "Property"
	case MemberMethod:
		return "Method"
	default:
		return "Unknown"
	}
}

// Scope はメンバの束縛(静的かインスタンスか)を表す
type Scope int

const (
	Instance Scope = iota
	Static
)

// TypeRef は名前による型参照。解決はUniverseを通して遅延して行う。
// Nameは修飾名(math/big.Int)、基本型名(int)、型パラメータ名(T)のいずれか。
type TypeRef struct {
	Name string
	Args []TypeRef
}

func (r TypeRef) IsZero() bool {
	return r.Name == ""
}

func (r TypeRef) String() string {
	if len(r.Args) == 0 {
		return shortName(r.Name)
	}
	args := make([]string, len(r.Args))
	for i, arg := range r.Args {
		args[i] = arg.String()
	}
	return shortName(r.Name) + "[" + strings.Join(args, ", ") + "]"
}

// Param はメソッドの引数を表す
type Param struct {
	Name string
	Type TypeRef
}

// Member は型のフィールド、プロパティ、メソッドを表す
type Member struct {
	Kind        MemberKind
	Name        types.DeclName
	Declaring   *Type
	Result      TypeRef
	ResultCount int
	Static      bool
	Params      []Param
	Variadic    bool
	Doc         string
}

// Signature は表示用のシグネチャを返す
func (m Member) Signature() string {
	if m.Kind != MemberMethod {
		if m.Result.IsZero() {
			return string(m.Name)
		}
		return string(m.Name) + " " + m.Result.String()
	}
	var sb strings.Builder
	sb.WriteString(string(m.Name))
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Name != "" {
			sb.WriteString(p.Name + " ")
		}
		if m.Variadic && i == len(m.Params)-1 {
			sb.WriteString("...")
		}
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(")")
	if !m.Result.IsZero() {
		sb.WriteString(" " + m.Result.String())
	}
	return sb.String()
}

// AcceptsArgs は引数の個数だけで呼び出し可能かを判定する
func (m Member) AcceptsArgs(n int) bool {
	if m.Variadic {
		return n >= len(m.Params)-1
	}
	return n == len(m.Params)
}

// Type は型カタログ内の一つの型を表す
type Type struct {
	Namespace  types.Namespace
	Name       types.TypeName
	Kind       Kind
	TypeParams []string
	Bases      []TypeRef // 埋め込み型、基底型
	Members    []Member
	Outer      types.FullTypeName // 入れ子の場合は外側の型の修飾名
	Synthetic  bool               // コンパイラが生成した型、匿名型
	Doc        string

	nested []*Type
}

// FullName は修飾名を返す
func (t *Type) FullName() types.FullTypeName {
	return types.NewFullTypeName(t.Namespace, t.Name)
}

// IsNested は他の型の内側で宣言された型かを返す
func (t *Type) IsNested() bool {
	return t.Outer != ""
}

func (t *Type) clone() *Type {
	c := *t
	c.Members = make([]Member, len(t.Members))
	copy(c.Members, t.Members)
	for i := range c.Members {
		c.Members[i].Declaring = &c
	}
	c.nested = nil
	return &c
}

// Handle は型への参照。Universeからの検索でのみ得られる。
type Handle struct {
	t    *Type
	args []Handle
}

func (h Handle) Valid() bool {
	return h.t != nil
}

func (h Handle) Type() *Type {
	return h.t
}

func (h Handle) Args() []Handle {
	return h.args
}

// Equal は同じ型(型引数も含む)を指しているかを返す
func (h Handle) Equal(o Handle) bool {
	if h.t != o.t || len(h.args) != len(o.args) {
		return false
	}
	for i := range h.args {
		if !h.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (h Handle) String() string {
	if h.t == nil {
		return "<none>"
	}
	if len(h.args) == 0 {
		return string(h.t.Name)
	}
	args := make([]string, len(h.args))
	for i, arg := range h.args {
		args[i] = arg.String()
	}
	return string(h.t.Name) + "[" + strings.Join(args, ", ") + "]"
}

func shortName(fullName string) string {
	if idx := strings.LastIndex(fullName, "/"); idx >= 0 {
		fullName = fullName[idx+1:]
	}
	return fullName
}
