package edit

import (
	"strings"
	"unicode"

	"pyedit/internal/inventory"
)

// Line-splice primitives. Every mutation follows the same shape: split
// the source, copy the slice, apply one insert or delete at an index
// derived from inventory locations, join. The copy matters — callers may
// retry with the original lines after a failed operation.

func splitLines(source string) []string {
	return strings.Split(source, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// insertAt returns a copy of lines with block inserted as one element at
// idx. Indexes past either end clamp rather than panic: inventory end
// lines may point one past the last line of the file.
func insertAt(lines []string, idx int, block string) []string {
	if idx < 0 {
		idx = 0
	}
	if idx > len(lines) {
		idx = len(lines)
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:idx]...)
	out = append(out, block)
	out = append(out, lines[idx:]...)
	return out
}

// deleteRange returns a copy of lines without the half-open index range
// [start, end).
func deleteRange(lines []string, start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		out := make([]string, len(lines))
		copy(out, lines)
		return out
	}
	out := make([]string, 0, len(lines)-(end-start))
	out = append(out, lines[:start]...)
	out = append(out, lines[end:]...)
	return out
}

// indentationOf returns the leading whitespace of line.
func indentationOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// classIndent returns the member indentation for a class, read from its
// first method when one exists, else the conventional four spaces.
func classIndent(lines []string, cls *inventory.Class) string {
	if cls != nil && len(cls.Methods) > 0 {
		idx := cls.Methods[0].Location.StartLine - 1
		if idx >= 0 && idx < len(lines) {
			return indentationOf(lines[idx])
		}
	}
	return "    "
}

// replaceWholeWord replaces occurrences of old in line that sit on
// alphanumeric word boundaries. Underscores deliberately do not count as
// word characters here, matching how class references are usually
// written; CamelCase neighbors like AnimalCount are left alone.
func replaceWholeWord(line, old, new string) string {
	if old == "" || !strings.Contains(line, old) {
		return line
	}
	runes := []rune(line)
	oldRunes := []rune(old)
	var b strings.Builder
	for i := 0; i < len(runes); {
		if matchesAt(runes, oldRunes, i) &&
			(i == 0 || !isAlnum(runes[i-1])) &&
			(i+len(oldRunes) == len(runes) || !isAlnum(runes[i+len(oldRunes)])) {
			b.WriteString(new)
			i += len(oldRunes)
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

func matchesAt(runes, want []rune, at int) bool {
	if at+len(want) > len(runes) {
		return false
	}
	for i, r := range want {
		if runes[at+i] != r {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// rewriteBases rewrites the class definition line at defIdx so that base
// appears in the inheritance list, creating the parenthesized list when
// the class has none. Reports an error for definition lines without a
// colon, which the inventory should never produce.
func rewriteBases(lines []string, defIdx int, action, base string) ([]string, error) {
	def := lines[defIdx]

	out := make([]string, len(lines))
	copy(out, lines)

	open := strings.Index(def, "(")
	close := strings.Index(def, ")")
	switch {
	case open >= 0 && close > open:
		bases := strings.TrimSpace(def[open+1 : close])
		if bases != "" {
			bases += ", " + base
		} else {
			bases = base
		}
		out[defIdx] = def[:open+1] + bases + def[close:]
	default:
		colon := strings.Index(def, ":")
		if colon < 0 {
			return nil, errf(action, base, "Invalid class definition format")
		}
		out[defIdx] = def[:colon] + "(" + base + ")" + def[colon:]
	}
	return out, nil
}

// cleanParameters trims parameter names and strips a trailing
// " to <class>" fragment the extraction patterns sometimes leave behind.
func cleanParameters(params []string) []string {
	var out []string
	for _, p := range params {
		p = strings.TrimSpace(p)
		if i := strings.Index(p, " to "); i >= 0 {
			p = p[:i]
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
