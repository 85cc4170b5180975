// Package diff walks unified diff text and yields the lines it adds, each
// attributed to a file and a new-side line number when those can be derived.
package diff

import (
	"iter"
	"regexp"
	"strconv"
	"strings"

	"github.com/varalys/diffgate/internal/types"
)

// AddedLine is one '+' line of a diff with the prefix removed.
// Line is 0 when the hunk header was missing or unparseable.
type AddedLine struct {
	File string
	Line int
	Text string
}

type state int

const (
	stateNoFile state = iota
	stateInFile
	stateInHunk
)

func (s state) String() string {
	switch s {
	case stateNoFile:
		return "no-file"
	case stateInFile:
		return "in-file"
	case stateInHunk:
		return "in-hunk"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

var reHunk = regexp.MustCompile(`^@@ -\d+(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Walker is the diff state machine. The zero value is not usable; call NewWalker.
type Walker struct {
	state    state
	file     string
	next     int
	resolved bool
	// old/new lines the current hunk header still promises
	oldLeft, newLeft int
	// previous line was an old-file "--- " header
	afterOld bool
}

// NewWalker starts in the no-file state. fallbackFile labels lines seen before
// any file header; empty means types.UnknownFile.
func NewWalker(fallbackFile string) *Walker {
	if fallbackFile == "" {
		fallbackFile = types.UnknownFile
	}
	return &Walker{state: stateNoFile, file: fallbackFile}
}

// Feed consumes one raw diff line. It returns the added line when raw is an
// addition, and ok=false for headers, context, removals and markers.
//
// While a hunk still owes lines, every line is body text, so an added line
// such as "++ counter;" is never mistaken for a "+++ " header.
func (w *Walker) Feed(raw string) (AddedLine, bool) {
	afterOld := w.afterOld
	w.afterOld = false
	counting := w.counting()

	switch {
	case strings.HasPrefix(raw, "diff --git "):
		if i := strings.LastIndex(raw, " b/"); i >= 0 {
			w.file = strings.TrimSpace(raw[i+3:])
		}
		w.enterFile()
		return AddedLine{}, false

	case strings.HasPrefix(raw, "+++ ") && !counting && (w.state != stateInHunk || afterOld):
		target := strings.TrimSpace(raw[4:])
		if p, ok := strings.CutPrefix(target, "b/"); ok {
			w.file = p
		} else if target != "/dev/null" && target != "" {
			w.file = target
		}
		w.enterFile()
		return AddedLine{}, false

	case strings.HasPrefix(raw, "--- ") && !counting:
		w.afterOld = true
		return AddedLine{}, false

	case strings.HasPrefix(raw, "@@"):
		if m := reHunk.FindStringSubmatch(raw); m != nil {
			w.next, _ = strconv.Atoi(m[2])
			w.oldLeft = hunkCount(m[1])
			w.newLeft = hunkCount(m[3])
			w.resolved = true
		} else {
			w.resolved = false
			w.oldLeft, w.newLeft = 0, 0
		}
		w.state = stateInHunk
		return AddedLine{}, false

	case strings.HasPrefix(raw, "+"):
		out := AddedLine{File: w.file, Text: raw[1:]}
		if w.state == stateInHunk && w.resolved {
			out.Line = w.next
			w.next++
		}
		w.newLeft = max(0, w.newLeft-1)
		return out, true

	case strings.HasPrefix(raw, "-"):
		w.oldLeft = max(0, w.oldLeft-1)
		return AddedLine{}, false

	case strings.HasPrefix(raw, `\`):
		return AddedLine{}, false
	}

	// context line: advances the new-side counter
	if w.state == stateInHunk && w.resolved {
		w.next++
	}
	w.oldLeft = max(0, w.oldLeft-1)
	w.newLeft = max(0, w.newLeft-1)
	return AddedLine{}, false
}

func (w *Walker) counting() bool {
	return w.state == stateInHunk && w.resolved && (w.oldLeft > 0 || w.newLeft > 0)
}

// hunkCount reads an optional ",N" range length; a missing length means 1.
func hunkCount(s string) int {
	if s == "" {
		return 1
	}
	n, _ := strconv.Atoi(s)
	return n
}

func (w *Walker) enterFile() {
	w.state = stateInFile
	w.resolved = false
	w.next = 0
	w.oldLeft, w.newLeft = 0, 0
}

// AddedLines parses a whole diff and returns every added line in order.
func AddedLines(text, fallbackFile string) []AddedLine {
	var out []AddedLine
	Each(text, fallbackFile, func(a AddedLine) { out = append(out, a) })
	return out
}

// Each streams added lines to fn without buffering the whole result.
func Each(text, fallbackFile string, fn func(AddedLine)) {
	w := NewWalker(fallbackFile)
	for l := range Lines(text) {
		if a, ok := w.Feed(l); ok {
			fn(a)
		}
	}
}

// Lines yields every line of text without its "\n" or "\r\n" terminator.
// Line length is unbounded.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for l := range strings.Lines(text) {
			l = strings.TrimSuffix(l, "\n")
			if !yield(strings.TrimSuffix(l, "\r")) {
				return
			}
		}
	}
}

// LooksLikeDiff reports whether text carries unified diff headers.
func LooksLikeDiff(text string) bool {
	for l := range Lines(text) {
		if strings.HasPrefix(l, "diff --git ") || strings.HasPrefix(l, "+++ ") || reHunk.MatchString(l) {
			return true
		}
	}
	return false
}
