// Package diff renders the difference between a source file and its
// edited form. Computation goes through the sergi/go-diff engine with a
// line-level reduction, so hunks land on line boundaries and survive
// edits that move whole blocks.
package diff

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType classifies one line of a hunk.
type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

// Line is a single line of a hunk. OldLine and NewLine are 1-indexed
// positions in the respective versions; -1 when the line exists in only
// one of them.
type Line struct {
	Content string
	Type    LineType
	OldLine int
	NewLine int
}

// Hunk is one contiguous group of changes with surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Result is the full diff of one edit.
type Result struct {
	Hunks []Hunk
}

// Changed reports whether the edit modified anything at all.
func (r *Result) Changed() bool {
	return len(r.Hunks) > 0
}

// Unified renders the classic unified text form with the given labels.
func (r *Result) Unified(oldLabel, newLabel string) string {
	if !r.Changed() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldLabel, newLabel)
	for _, hunk := range r.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineAdded:
				b.WriteString("+")
			case LineRemoved:
				b.WriteString("-")
			default:
				b.WriteString(" ")
			}
			b.WriteString(line.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Engine computes diffs. It is safe for concurrent use and caches the
// result for repeated identical input pairs, which the watch mode hits
// constantly.
type Engine struct {
	dmp     *diffmatchpatch.DiffMatchPatch
	context int
	cache   sync.Map
}

type cacheKey struct {
	oldHash uint64
	newHash uint64
}

// NewEngine returns an engine producing hunks with three context lines.
func NewEngine() *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &Engine{dmp: dmp, context: 3}
}

// DefaultEngine serves the package-level Compute.
var DefaultEngine = NewEngine()

// Compute diffs two versions of a source text.
func Compute(oldContent, newContent string) *Result {
	return DefaultEngine.Compute(oldContent, newContent)
}

func (e *Engine) Compute(oldContent, newContent string) *Result {
	key := cacheKey{fnv1a(oldContent), fnv1a(newContent)}
	if cached, ok := e.cache.Load(key); ok {
		if result, ok := cached.(*Result); ok {
			return result
		}
	}

	a, b, lineArray := e.dmp.DiffLinesToChars(oldContent, newContent)
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCleanupSemantic(diffs)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	result := &Result{Hunks: e.groupIntoHunks(e.lineOps(diffs))}
	e.cache.Store(key, result)
	return result
}

// lineOps flattens the char-mode diffs back into per-line operations
// with running line counters for both sides.
func (e *Engine) lineOps(diffs []diffmatchpatch.Diff) []Line {
	var ops []Line
	oldLine, newLine := 0, 0

	for _, d := range diffs {
		lines := strings.Split(d.Text, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for _, content := range lines {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldLine++
				newLine++
				ops = append(ops, Line{Content: content, Type: LineContext, OldLine: oldLine, NewLine: newLine})
			case diffmatchpatch.DiffDelete:
				oldLine++
				ops = append(ops, Line{Content: content, Type: LineRemoved, OldLine: oldLine, NewLine: -1})
			case diffmatchpatch.DiffInsert:
				newLine++
				ops = append(ops, Line{Content: content, Type: LineAdded, OldLine: -1, NewLine: newLine})
			}
		}
	}
	return ops
}

func (e *Engine) groupIntoHunks(ops []Line) []Hunk {
	var hunks []Hunk
	var current *Hunk
	lastChange := -1

	for i, op := range ops {
		if op.Type != LineContext {
			if current == nil {
				start := i - e.context
				if start < 0 {
					start = 0
				}
				current = &Hunk{}
				for j := start; j < i; j++ {
					current.Lines = append(current.Lines, ops[j])
				}
			}
			lastChange = i
		}
		if current == nil {
			continue
		}

		current.Lines = append(current.Lines, op)

		if op.Type == LineContext && i-lastChange >= e.context {
			// Peek ahead: keep the hunk open when another change is
			// close enough to share context.
			if nextChangeWithin(ops, i+1, e.context) {
				continue
			}
			hunks = append(hunks, *finishHunk(current))
			current = nil
		}
	}
	if current != nil {
		hunks = append(hunks, *finishHunk(current))
	}
	return hunks
}

func nextChangeWithin(ops []Line, from, window int) bool {
	for i := from; i < len(ops) && i < from+window; i++ {
		if ops[i].Type != LineContext {
			return true
		}
	}
	return false
}

func finishHunk(h *Hunk) *Hunk {
	for _, line := range h.Lines {
		if line.Type != LineAdded {
			h.OldCount++
			if h.OldStart == 0 {
				h.OldStart = line.OldLine
			}
		}
		if line.Type != LineRemoved {
			h.NewCount++
			if h.NewStart == 0 {
				h.NewStart = line.NewLine
			}
		}
	}
	if h.OldStart == 0 {
		h.OldStart = 1
	}
	if h.NewStart == 0 {
		h.NewStart = 1
	}
	return h
}

func fnv1a(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
