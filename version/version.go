package version

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kakkky/gosnip/errs"
)

// VERSION は現在のgosnipのバージョンを表す
const VERSION = "v0.1"

// ReleasesURL は最新リリースの情報を取得するURL
var ReleasesURL = "https://api.github.com/repos/kakkky/gosnip/releases/latest"

var client = &http.Client{Timeout: 3 * time.Second}

// PrintVersion は現在のgosnipのバージョンを表示する
func PrintVersion(w io.Writer) {
	fmt.Fprintln(w, "gosnip "+VERSION)
}

type releasesInfoResponse struct {
	LatestVersion string `json:"tag_name"`
}

// IsLatestVersion は現在のgosnipのバージョンが最新かどうかを判定する
func IsLatestVersion() (bool, string, error) {
	latestVersion, err := fetchLatestVersion(ReleasesURL)
	if err != nil {
		return false, "", err
	}
	return latestVersion == VERSION, latestVersion, nil
}

func fetchLatestVersion(url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", errs.NewInternalError("failed to fetch latest release").Wrap(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			errs.HandleError(err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", errs.NewInternalError(fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewInternalError("failed to read response body").Wrap(err)
	}
	var releasesInfo releasesInfoResponse
	if err := json.Unmarshal(body, &releasesInfo); err != nil {
		return "", errs.NewInternalError("failed to unmarshal response body").Wrap(err)
	}

	return releasesInfo.LatestVersion, nil
}

// PrintNoteLatestVersion は最新バージョンが存在する場合の通知を表示する
func PrintNoteLatestVersion(latestVersion string) {
	fmt.Printf("A new version of gosnip is available: %s (current: %s)\n", latestVersion, VERSION)
	fmt.Println("  go install github.com/kakkky/gosnip/cmd/gosnip@latest")
}
