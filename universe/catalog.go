package universe

import (
	"context"

	"github.com/kakkky/gosnip/types"
)

// CatalogProvider はホスト環境が提供する型カタログ
type CatalogProvider interface {
	Name() string
	Load(ctx context.Context) (*Catalog, error)
}

// Catalog は一つのCatalogProviderが列挙した型と基本型の別名表
type Catalog struct {
	Types   []*Type
	Aliases map[string]string
}

// StaticCatalog はメモリ上に用意された型カタログ
type StaticCatalog struct {
	name    string
	types   []*Type
	aliases map[string]string
}

// NewStaticCatalog はStaticCatalogのインスタンスを生成する
func NewStaticCatalog(name string, catalogTypes []*Type, aliases map[string]string) *StaticCatalog {
	return &StaticCatalog{
		name:    name,
		types:   catalogTypes,
		aliases: aliases,
	}
}

func (sc *StaticCatalog) Name() string {
	return sc.name
}

func (sc *StaticCatalog) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Catalog{
		Types:   sc.types,
		Aliases: sc.aliases,
	}, nil
}

var basicTypeNames = []string{
	"bool", "string",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64", "complex64", "complex128",
	"interface{}",
}

// NewBasicCatalog はGoの事前宣言された型のカタログを生成する
func NewBasicCatalog() *StaticCatalog {
	basics := make([]*Type, 0, len(basicTypeNames)+1)
	for _, name := range basicTypeNames {
		basics = append(basics, &Type{Name: types.TypeName(name), Kind: KindBasic})
	}
	basics = append(basics, &Type{
		Name: "error",
		Kind: KindBasic,
		Members: []Member{
			{Kind: MemberMethod, Name: "Error", Result: TypeRef{Name: "string"}, ResultCount: 1},
		},
	})
	return NewStaticCatalog("builtin", basics, map[string]string{
		"byte": "uint8",
		"rune": "int32",
		"any":  "interface{}",
	})
}
