package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyedit/internal/edit"
	"pyedit/internal/intent"
	"pyedit/internal/inventory"
)

const zooSource = `class Animal:
    def __init__(self, name):
        self.name = name

    def speak(self):
        return "..."
`

func newLoaded(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := New(opts...)
	s.SetSource(zooSource)
	return s
}

func TestExecutePipeline(t *testing.T) {
	s := newLoaded(t)

	out, err := s.Execute("Add a method called eat with parameter food to Animal class")
	require.NoError(t, err)

	assert.Equal(t, intent.ActionAddMethod, out.Intent.Action)
	assert.Equal(t, "Animal", out.Intent.TargetClass)
	assert.True(t, out.Diff.Changed())
	assert.Contains(t, s.Source(), "def eat(self, food):")

	inv := s.Inventory()
	require.Equal(t, inventory.StatusOK, inv.Status)
	assert.NotNil(t, inv.Class("Animal").Method("eat"))
}

func TestExecuteRefusedLeavesSourceUntouched(t *testing.T) {
	s := newLoaded(t)

	_, err := s.Execute("Delete the fly method from the Animal class")
	var editErr *edit.EditError
	require.ErrorAs(t, err, &editErr)
	assert.Equal(t, "Method fly not found in class Animal", editErr.Reason)

	assert.Equal(t, zooSource, s.Source())
	assert.Empty(t, s.History())
}

func TestUndoRestoresPreviousSource(t *testing.T) {
	s := newLoaded(t)

	_, err := s.Execute("Add a method called eat to Animal class")
	require.NoError(t, err)
	_, err = s.Execute("Rename the Animal class to Mammal")
	require.NoError(t, err)
	require.Len(t, s.History(), 2)

	rev, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "Rename the Animal class to Mammal", rev.Command)
	assert.Contains(t, s.Source(), "class Animal:")

	_, ok = s.Undo()
	require.True(t, ok)
	assert.Equal(t, zooSource, s.Source())

	_, ok = s.Undo()
	assert.False(t, ok)
}

func TestRevisionIDsAreUnique(t *testing.T) {
	s := newLoaded(t)

	first, err := s.Execute("Add a method called eat to Animal class")
	require.NoError(t, err)
	second, err := s.Execute("Add a method called sleep to Animal class")
	require.NoError(t, err)
	assert.NotEqual(t, first.Revision.ID, second.Revision.ID)
}

func TestExecuteWithoutSource(t *testing.T) {
	_, err := New().Execute("Add a class called X")
	assert.Error(t, err)
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zoo.py")
	require.NoError(t, os.WriteFile(path, []byte(zooSource), 0o644))

	s := New()
	require.NoError(t, s.Load(path))
	assert.Equal(t, path, s.Path())
	assert.True(t, s.Loaded())

	_, err := s.Execute("Rename the speak method to talk in the Animal class")
	require.NoError(t, err)
	require.NoError(t, s.Save(""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "def talk(self):")
}

func TestParseIntentNormalizesCase(t *testing.T) {
	s := newLoaded(t)

	in := s.ParseIntent("Delete the speak method from the animal class")
	assert.Equal(t, intent.ActionRemoveMethod, in.Action)
	assert.Equal(t, "Animal", in.TargetClass)
}

func TestTreeBackendSession(t *testing.T) {
	s := newLoaded(t, WithMutator(edit.NewTreeMutator()))

	_, err := s.Execute("Rename the speak method to talk in the Animal class")
	require.NoError(t, err)
	assert.Contains(t, s.Source(), "def talk(self):")
}
