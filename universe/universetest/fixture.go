// Package universetest は他のパッケージのテストで使う型カタログを提供する
package universetest

import (
	"github.com/kakkky/gosnip/types"
	"github.com/kakkky/gosnip/universe"
)

const (
	System            types.Namespace = "System"
	SystemText        types.Namespace = "System.Text"
	SystemThreading   types.Namespace = "System.Threading"
	SystemTimers      types.Namespace = "System.Timers"
	SystemCollections types.Namespace = "System.Collections.Generic"
)

func ref(name string, args ...universe.TypeRef) universe.TypeRef {
	return universe.TypeRef{Name: name, Args: args}
}

func method(name string, result string, params ...string) universe.Member {
	m := universe.Member{Kind: universe.MemberMethod, Name: types.DeclName(name)}
	if result != "" {
		m.Result = ref(result)
		m.ResultCount = 1
	}
	for i, param := range params {
		m.Params = append(m.Params, universe.Param{Name: string(rune('a' + i)), Type: ref(param)})
	}
	return m
}

func static(m universe.Member) universe.Member {
	m.Static = true
	return m
}

func property(name, result string) universe.Member {
	return universe.Member{Kind: universe.MemberProperty, Name: types.DeclName(name), Result: ref(result), ResultCount: 1}
}

func field(name, result string) universe.Member {
	return universe.Member{Kind: universe.MemberField, Name: types.DeclName(name), Result: ref(result), ResultCount: 1}
}

func primitive(name types.TypeName, members ...universe.Member) *universe.Type {
	return &universe.Type{Namespace: System, Name: name, Kind: universe.KindBasic, Members: members, Bases: []universe.TypeRef{ref("System.Object")}}
}

// Aliases はC#風の基本型の別名表
func Aliases() map[string]string {
	return map[string]string{
		"sbyte":   "System.SByte",
		"short":   "System.Int16",
		"int":     "System.Int32",
		"long":    "System.Int64",
		"float":   "System.Single",
		"double":  "System.Double",
		"decimal": "System.Decimal",
		"string":  "System.String",
		"bool":    "System.Boolean",
		"object":  "System.Object",
	}
}

// Types はテスト用の型の一覧を返す。呼び出しごとに新しい値を返す
func Types() []*universe.Type {
	return []*universe.Type{
		{
			Namespace: System, Name: "Object", Kind: universe.KindNamed,
			Members: []universe.Member{
				method("ToString", "System.String"),
				method("GetHashCode", "System.Int32"),
				method("Equals", "System.Boolean", "System.Object"),
			},
		},
		primitive("SByte"),
		primitive("Int16"),
		primitive("Int32",
			static(field("MaxValue", "System.Int32")),
			method("CompareTo", "System.Int32", "System.Int32"),
		),
		primitive("Int64"),
		primitive("Single"),
		primitive("Double", static(field("Epsilon", "System.Double"))),
		primitive("Decimal"),
		primitive("Boolean"),
		primitive("String",
			property("Length", "System.Int32"),
			method("Substring", "System.String", "System.Int32"),
			method("Substring", "System.String", "System.Int32", "System.Int32"),
			method("ToUpper", "System.String"),
			method("Trim", "System.String"),
			static(field("Empty", "System.String")),
		),
		{
			Namespace: System, Name: "Math", Kind: universe.KindNamed,
			Members: []universe.Member{
				static(method("Abs", "System.SByte", "System.SByte")),
				static(method("Abs", "System.Int16", "System.Int16")),
				static(method("Abs", "System.Int32", "System.Int32")),
				static(method("Abs", "System.Int64", "System.Int64")),
				static(method("Abs", "System.Single", "System.Single")),
				static(method("Abs", "System.Double", "System.Double")),
				static(method("Abs", "System.Decimal", "System.Decimal")),
				static(method("Max", "System.Int32", "System.Int32", "System.Int32")),
				static(method("Max", "System.Double", "System.Double", "System.Double")),
				static(method("Sqrt", "System.Double", "System.Double")),
				static(method("Round", "System.Double", "System.Double")),
				static(method("Round", "System.Double", "System.Double", "System.Int32")),
				static(property("PI", "System.Double")),
				static(property("E", "System.Double")),
			},
		},
		{
			Namespace: System, Name: "Environment", Kind: universe.KindNamed,
			Members: []universe.Member{
				static(property("MachineName", "System.String")),
				static(property("ProcessorCount", "System.Int32")),
			},
		},
		{Namespace: System, Name: "SpecialFolder", Kind: universe.KindNamed, Outer: "System.Environment"},
		{
			Namespace: System, Name: "DateTime", Kind: universe.KindStruct,
			Bases: []universe.TypeRef{ref("System.Object")},
			Members: []universe.Member{
				static(property("Now", "System.DateTime")),
				property("Year", "System.Int32"),
				method("AddDays", "System.DateTime", "System.Double"),
			},
		},
		{
			Namespace: System, Name: "Exception", Kind: universe.KindNamed,
			Bases:   []universe.TypeRef{ref("System.Object")},
			Members: []universe.Member{property("Message", "System.String")},
		},
		{
			Namespace: System, Name: "ArgumentException", Kind: universe.KindNamed,
			Bases:   []universe.TypeRef{ref("System.Exception")},
			Members: []universe.Member{property("ParamName", "System.String")},
		},
		{
			Namespace: System, Name: "Console", Kind: universe.KindNamed,
			Members: []universe.Member{
				static(method("WriteLine", "")),
				static(method("WriteLine", "", "System.String")),
				static(method("ReadLine", "System.String")),
			},
		},
		{Namespace: System, Name: "<>c__DisplayClass0_0", Kind: universe.KindNamed, Synthetic: true},
		{
			Namespace: SystemText, Name: "StringBuilder", Kind: universe.KindNamed,
			Bases: []universe.TypeRef{ref("System.Object")},
			Members: []universe.Member{
				property("Length", "System.Int32"),
				method("Append", "System.Text.StringBuilder", "System.String"),
				method("Append", "System.Text.StringBuilder", "System.Int32"),
				method("AppendLine", "System.Text.StringBuilder", "System.String"),
				method("Clear", "System.Text.StringBuilder"),
			},
		},
		{
			Namespace: SystemCollections, Name: "List", Kind: universe.KindNamed,
			TypeParams: []string{"T"},
			Bases:      []universe.TypeRef{ref("System.Object")},
			Members: []universe.Member{
				property("Count", "System.Int32"),
				property("Item", "T"),
				method("Add", "", "T"),
				method("Contains", "System.Boolean", "T"),
				method("GetRange", "", "System.Int32", "System.Int32"),
			},
		},
		{
			Namespace: SystemThreading, Name: "Timer", Kind: universe.KindNamed,
			Members: []universe.Member{method("Dispose", "")},
		},
		{
			Namespace: SystemTimers, Name: "Timer", Kind: universe.KindNamed,
			Members: []universe.Member{property("Interval", "System.Double")},
		},
	}
}

// NewCatalog はテスト用の型カタログを生成する
func NewCatalog() *universe.StaticCatalog {
	return universe.NewStaticCatalog("fixture", Types(), Aliases())
}

// NewUniverse はテスト用の型カタログだけを持つUniverseを生成する
func NewUniverse() *universe.Universe {
	return universe.New(NewCatalog())
}

// MustType は修飾名から型のハンドルを引く。見つからなければpanicする
func MustType(u *universe.Universe, fullName types.FullTypeName) universe.Handle {
	h, ok := u.ByFullName(fullName)
	if !ok {
		panic("universetest: type not found: " + string(fullName))
	}
	return h
}
