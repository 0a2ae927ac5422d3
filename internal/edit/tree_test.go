package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyedit/internal/intent"
)

func TestTreeAddMethod(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewTreeMutator().Apply(zooSource, intent.Intent{
		Action:      intent.ActionAddMethod,
		MethodName:  "eat",
		Parameters:  []string{"food"},
		TargetClass: "Animal",
	}, inv)
	require.NoError(t, err)

	after := analyzeOK(t, out)
	eat := after.Class("Animal").Method("eat")
	require.NotNil(t, eat)
	assert.Equal(t, []string{"self", "food"}, eat.Arguments)
}

func TestTreeRemoveMethod(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewTreeMutator().Apply(zooSource, intent.Intent{
		Action:      intent.ActionRemoveMethod,
		MethodName:  "speak",
		TargetClass: "Animal",
	}, inv)
	require.NoError(t, err)

	after := analyzeOK(t, out)
	animal := after.Class("Animal")
	require.NotNil(t, animal)
	assert.Nil(t, animal.Method("speak"))
	assert.NotNil(t, animal.Method("__init__"))
}

// The tree backend is case-sensitive and treats a missing target as a
// no-op, returning the source byte for byte.
func TestTreeMissingTargetIsNoOp(t *testing.T) {
	inv := analyzeOK(t, zooSource)
	m := NewTreeMutator()

	out, err := m.Apply(zooSource, intent.Intent{
		Action:      intent.ActionRemoveMethod,
		MethodName:  "fly",
		TargetClass: "Animal",
	}, inv)
	require.NoError(t, err)
	assert.Equal(t, zooSource, out)

	out, err = m.Apply(zooSource, intent.Intent{
		Action:      intent.ActionRemoveMethod,
		MethodName:  "speak",
		TargetClass: "animal",
	}, inv)
	require.NoError(t, err)
	assert.Equal(t, zooSource, out)
}

func TestTreeRenameMethod(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewTreeMutator().Apply(zooSource, intent.Intent{
		Action:      intent.ActionRenameMethod,
		OldName:     "speak",
		NewName:     "talk",
		TargetClass: "Animal",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "    def talk(self):")
	assert.NotContains(t, out, "def speak")
}

func TestTreeRenameClassUpdatesReferences(t *testing.T) {
	src := `class Animal:
    pass


class Dog(Animal):
    def clone(self):
        return Animal()


class AnimalCount:
    pass
`
	inv := analyzeOK(t, src)

	out, err := NewTreeMutator().Apply(src, intent.Intent{
		Action:  intent.ActionRenameClass,
		OldName: "Animal",
		NewName: "Beast",
	}, inv)
	require.NoError(t, err)

	assert.Contains(t, out, "class Beast:")
	assert.Contains(t, out, "class Dog(Beast):")
	assert.Contains(t, out, "return Beast()")
	assert.Contains(t, out, "class AnimalCount:")
}

func TestTreeRemoveClass(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewTreeMutator().Apply(zooSource, intent.Intent{
		Action:      intent.ActionRemoveClass,
		TargetClass: "AnimalCount",
	}, inv)
	require.NoError(t, err)

	after := analyzeOK(t, out)
	assert.Nil(t, after.Class("AnimalCount"))
	assert.NotNil(t, after.Class("Animal"))
}

// Operations without a structural tree advantage go through the line
// backend, so the tree mutator still covers the whole action set.
func TestTreeDelegatesToLineBackend(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewTreeMutator().Apply(zooSource, intent.Intent{
		Action:       intent.ActionAddFunction,
		FunctionName: "feed",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "def feed():\n    pass")
}

func TestNewBackendSelection(t *testing.T) {
	assert.IsType(t, &TreeMutator{}, New(BackendTree))
	assert.IsType(t, &LineMutator{}, New(BackendLine))
	assert.IsType(t, &LineMutator{}, New("elsewise"))
}
