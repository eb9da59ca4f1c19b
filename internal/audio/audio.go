// Package audio downloads word pronunciations from the JapanesePod101
// dictionary service.
package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Defaults for the public pronunciation endpoint.
const (
	DefaultBaseURL = "https://assets.languagepod101.com/dictionary/japanese/audiomp3.php"
	DefaultPrefix  = "Apoc"
)

// placeholderMD5 is the digest of the clip served when no recording exists.
var placeholderMD5 = "7e2c2f954ef6051373ba916f000168dc"

// Clip is a saved recording.
type Clip struct {
	Filename string
	Path     string
}

// Fetcher downloads recordings into Dir.
type Fetcher struct {
	BaseURL string
	Dir     string
	Prefix  string

	HTTPClient *http.Client
}

// Fetch downloads the recording for kanji read as kana. ok is false when the
// service only has its placeholder clip; nothing is written in that case.
func (f *Fetcher) Fetch(ctx context.Context, kana, kanji string) (Clip, bool, error) {
	q := url.Values{}
	q.Set("kanji", kanji)
	q.Set("kana", kana)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL()+"?"+q.Encode(), nil)
	if err != nil {
		return Clip{}, false, err
	}

	resp, err := f.httpClient().Do(req)
	if err != nil {
		return Clip{}, false, fmt.Errorf("audio %s: %w", kanji, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Clip{}, false, fmt.Errorf("audio %s: status %d", kanji, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Clip{}, false, fmt.Errorf("audio %s: read: %w", kanji, err)
	}
	if IsPlaceholder(data) {
		return Clip{}, false, nil
	}

	name := f.prefix() + safeName(kanji) + ".mp3"
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return Clip{}, false, fmt.Errorf("audio dir: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(f.Dir, name))
	if err != nil {
		return Clip{}, false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Clip{}, false, fmt.Errorf("audio %s: write: %w", kanji, err)
	}
	return Clip{Filename: name, Path: path}, true, nil
}

// IsPlaceholder reports whether data is the service's "no audio" clip.
func IsPlaceholder(data []byte) bool {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]) == placeholderMD5
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
}

func (f *Fetcher) baseURL() string {
	if f.BaseURL != "" {
		return f.BaseURL
	}
	return DefaultBaseURL
}

func (f *Fetcher) prefix() string {
	if f.Prefix != "" {
		return f.Prefix
	}
	return DefaultPrefix
}

func (f *Fetcher) httpClient() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}
