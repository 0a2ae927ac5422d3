package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const before = `class Animal:
    def __init__(self, name):
        self.name = name

    def speak(self):
        return "..."
`

const after = `class Animal:
    def __init__(self, name):
        self.name = name

    def talk(self):
        return "..."
`

func TestComputeRename(t *testing.T) {
	result := Compute(before, after)
	require.True(t, result.Changed())
	require.Len(t, result.Hunks, 1)

	var added, removed []string
	for _, line := range result.Hunks[0].Lines {
		switch line.Type {
		case LineAdded:
			added = append(added, line.Content)
		case LineRemoved:
			removed = append(removed, line.Content)
		}
	}
	assert.Equal(t, []string{"    def speak(self):"}, removed)
	assert.Equal(t, []string{"    def talk(self):"}, added)
}

func TestComputeIdentical(t *testing.T) {
	result := Compute(before, before)
	assert.False(t, result.Changed())
	assert.Equal(t, "", result.Unified("a", "b"))
}

func TestUnifiedFormat(t *testing.T) {
	out := Compute(before, after).Unified("cat.py", "cat.py (edited)")

	assert.True(t, strings.HasPrefix(out, "--- cat.py\n+++ cat.py (edited)\n"))
	assert.Contains(t, out, "@@ -")
	assert.Contains(t, out, "-    def speak(self):\n")
	assert.Contains(t, out, "+    def talk(self):\n")
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		switch line[0] {
		case '-', '+', ' ', '@':
		default:
			t.Errorf("unified line with unexpected prefix: %q", line)
		}
	}
}

func TestComputeAppendedBlock(t *testing.T) {
	edited := before + "\n    def eat(self, food):\n        pass\n"
	result := Compute(before, edited)
	require.True(t, result.Changed())

	var added int
	for _, hunk := range result.Hunks {
		for _, line := range hunk.Lines {
			if line.Type == LineAdded {
				added++
			}
		}
	}
	assert.Equal(t, 3, added)
}

func TestCacheReturnsSameResult(t *testing.T) {
	e := NewEngine()
	first := e.Compute(before, after)
	second := e.Compute(before, after)
	assert.Same(t, first, second)
}

func TestRenderMarksChanges(t *testing.T) {
	out := Render(Compute(before, after))
	assert.Contains(t, out, "def talk(self):")
	assert.Contains(t, out, "def speak(self):")
}
