package stdpkg

import (
	"path"
	"slices"
	"sort"
	"strings"
)

// Lookup はパッケージ名が一致する標準パッケージのインポートパスを返す
// "rand" のように複数のパッケージが同じ名前を持つ場合は全て返す
func Lookup(pkgName string) []string {
	var paths []string
	for _, importPath := range Paths() {
		if packageName(importPath) == pkgName {
			paths = append(paths, importPath)
		}
	}
	return paths
}

// packageName は "math/rand/v2" のようなメジャーバージョンの要素を読み飛ばしてパッケージ名を返す
func packageName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		if dir := path.Dir(importPath); dir != "." {
			return path.Base(dir)
		}
	}
	return base
}

// Paths は型カタログとして読み込む標準パッケージのインポートパスを返す
func Paths() []string {
	var paths []string
	for _, category := range [][]string{
		getCorePackages(),
		getIOPackages(),
		getTextPackages(),
		getEncodingPackages(),
		getCryptoPackages(),
		getMathPackages(),
		getContainerPackages(),
		getNetworkPackages(),
		getSystemPackages(),
	} {
		paths = append(paths, category...)
	}
	sort.Strings(paths)
	return slices.Compact(paths)
}

// getCorePackages は基本的なパッケージを返す
func getCorePackages() []string {
	return []string{"fmt", "errors", "context", "sort", "slices", "maps", "reflect", "sync", "sync/atomic", "time"}
}

// getIOPackages はIO関連パッケージを返す
func getIOPackages() []string {
	return []string{"io", "io/fs", "bufio", "bytes", "os", "path", "path/filepath"}
}

func getTextPackages() []string {
	return []string{"strings", "strconv", "unicode", "unicode/utf8", "regexp", "text/template", "text/tabwriter"}
}

// getEncodingPackages はエンコーディング関連パッケージを返す
func getEncodingPackages() []string {
	return []string{
		"encoding/json", "encoding/xml", "encoding/csv",
		"encoding/base64", "encoding/base32", "encoding/hex", "encoding/binary",
	}
}

// getCryptoPackages は暗号化関連パッケージを返す
func getCryptoPackages() []string {
	return []string{"crypto/md5", "crypto/sha1", "crypto/sha256", "crypto/sha512", "crypto/rand", "hash/crc32", "hash/fnv"}
}

// getMathPackages は数学関連パッケージを返す
func getMathPackages() []string {
	return []string{"math", "math/big", "math/bits", "math/cmplx", "math/rand"}
}

func getContainerPackages() []string {
	return []string{"container/list", "container/heap", "container/ring"}
}

// getNetworkPackages はネットワーク関連パッケージを返す
func getNetworkPackages() []string {
	return []string{"net", "net/http", "net/url", "net/netip", "net/mail"}
}

// getSystemPackages はシステム関連パッケージを返す
func getSystemPackages() []string {
	return []string{"runtime", "os/exec", "os/signal", "log", "log/slog", "flag"}
}
