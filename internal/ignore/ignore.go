// Package ignore reads .diffgateignore files: one path glob per line, with
// gitignore-like conventions for comments, directories and negation.
package ignore

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up at the repository root.
const FileName = ".diffgateignore"

type pattern struct {
	globs  []string
	negate bool
}

// Matcher decides whether a slash-separated relative path is ignored.
// The zero value ignores nothing.
type Matcher struct {
	patterns []pattern
}

// Load reads patterns from path. A missing file yields an empty matcher.
func Load(path string) (Matcher, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Matcher{}, nil
	}
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads patterns from r.
func Parse(r io.Reader) (Matcher, error) {
	var m Matcher
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.Add(line)
	}
	return m, sc.Err()
}

// Add appends one pattern. Later patterns win, so "!keep.pem" after "*.pem"
// re-includes keep.pem.
func (m *Matcher) Add(line string) {
	p := pattern{}
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		p.negate = true
		line = rest
	}
	dir := strings.HasSuffix(line, "/")
	line = strings.Trim(line, "/")
	if line == "" {
		return
	}
	anchored := strings.Contains(line, "/")
	switch {
	case anchored && dir:
		p.globs = []string{line + "/**"}
	case anchored:
		p.globs = []string{line, line + "/**"}
	case dir:
		p.globs = []string{"**/" + line + "/**"}
	default:
		p.globs = []string{"**/" + line, "**/" + line + "/**"}
	}
	m.patterns = append(m.patterns, p)
}

// Len is the number of patterns loaded.
func (m Matcher) Len() int { return len(m.patterns) }

// Match reports whether rel is ignored.
func (m Matcher) Match(rel string) bool {
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	ignored := false
	for _, p := range m.patterns {
		for _, g := range p.globs {
			if ok, _ := doublestar.Match(g, rel); ok {
				ignored = !p.negate
				break
			}
		}
	}
	return ignored
}
