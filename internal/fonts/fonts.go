package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

var ErrNoFont = errors.New("no matching font")

// Dir returns the font directory under the asset dir.
func Dir(assetDir string) string {
	return filepath.Join(assetDir, "fonts")
}

// Scan returns the slash-separated paths, relative to dir, of all font files under dir,
// sorted. A missing dir yields no fonts and no error.
func Scan(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and drops spaces, dashes and underscores for loose matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find returns the full path of the font under dir whose relative path contains search,
// matched loosely ("Fira Mono" finds "FiraMono/FiraMono-Regular.ttf"). An empty search
// takes any font. Among several matches a "Regular" face wins, then the first by path.
func Find(dir, search string) (string, error) {
	list, err := Scan(dir)
	if err != nil {
		return "", err
	}
	want := normalize(search)
	var matches []string
	for _, rel := range list {
		if strings.Contains(normalize(rel), want) {
			matches = append(matches, rel)
		}
	}
	if len(matches) == 0 {
		return "", ErrNoFont
	}
	pick := matches[0]
	for _, rel := range matches {
		if strings.Contains(strings.ToLower(rel), "regular") {
			pick = rel
			break
		}
	}
	full := filepath.Join(dir, filepath.FromSlash(pick))
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}
