package edit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyedit/internal/intent"
	"pyedit/internal/inventory"
)

const zooSource = `class Animal:
    def __init__(self, name):
        self.name = name

    def speak(self):
        return "..."


class AnimalCount:
    def total(self):
        return 0
`

func analyzeOK(t *testing.T, source string) *inventory.Inventory {
	t.Helper()
	inv := inventory.Analyze(source)
	require.Equal(t, inventory.StatusOK, inv.Status, inv.Message)
	return inv
}

func TestLineAddMethod(t *testing.T) {
	inv := analyzeOK(t, zooSource)
	m := NewLineMutator()

	out, err := m.Apply(zooSource, intent.Intent{
		Action:      intent.ActionAddMethod,
		MethodName:  "eat",
		Parameters:  []string{"food"},
		TargetClass: "Animal",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "    def eat(self, food):\n        pass")

	after := analyzeOK(t, out)
	require.NotNil(t, after.Class("Animal"))
	eat := after.Class("Animal").Method("eat")
	require.NotNil(t, eat)
	assert.Equal(t, []string{"self", "food"}, eat.Arguments)
}

func TestLineAddMethodCaseInsensitiveClass(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:      intent.ActionAddMethod,
		MethodName:  "eat",
		TargetClass: "animal",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "def eat(self):")
}

func TestLineRemoveMethodRoundTrip(t *testing.T) {
	inv := analyzeOK(t, zooSource)
	m := NewLineMutator()

	added, err := m.Apply(zooSource, intent.Intent{
		Action:      intent.ActionAddMethod,
		MethodName:  "eat",
		TargetClass: "Animal",
	}, inv)
	require.NoError(t, err)

	restored, err := m.Apply(added, intent.Intent{
		Action:      intent.ActionRemoveMethod,
		MethodName:  "eat",
		TargetClass: "Animal",
	}, analyzeOK(t, added))
	require.NoError(t, err)
	assert.Equal(t, zooSource, restored)
}

func TestLineRemoveMethodNotFound(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	got := ApplyText(NewLineMutator(), zooSource, intent.Intent{
		Action:      intent.ActionRemoveMethod,
		MethodName:  "fly",
		TargetClass: "Animal",
	}, inv)
	assert.Equal(t, "Error: Method fly not found in class Animal", got)
}

func TestLineRenameClassLeavesSimilarNames(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:  intent.ActionRenameClass,
		OldName: "Animal",
		NewName: "Mammal",
	}, inv)
	require.NoError(t, err)

	assert.Contains(t, out, "class Mammal:")
	assert.Contains(t, out, "class AnimalCount:")
	assert.NotContains(t, out, "class Animal:\n")

	after := analyzeOK(t, out)
	assert.NotNil(t, after.Class("Mammal"))
	assert.NotNil(t, after.Class("AnimalCount"))
	assert.Nil(t, after.Class("Animal"))
}

func TestLineRenameClassUpdatesReferences(t *testing.T) {
	src := `class Animal:
    pass


class Dog(Animal):
    def clone(self):
        return Animal()
`
	inv := analyzeOK(t, src)

	out, err := NewLineMutator().Apply(src, intent.Intent{
		Action:  intent.ActionRenameClass,
		OldName: "Animal",
		NewName: "Beast",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "class Dog(Beast):")
	assert.Contains(t, out, "return Beast()")
}

func TestLineRenameMethod(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:      intent.ActionRenameMethod,
		OldName:     "speak",
		NewName:     "talk",
		TargetClass: "Animal",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "    def talk(self):")
	assert.NotContains(t, out, "def speak")
}

func TestLineAddAndRemoveClass(t *testing.T) {
	inv := analyzeOK(t, zooSource)
	m := NewLineMutator()

	out, err := m.Apply(zooSource, intent.Intent{
		Action:     intent.ActionAddClass,
		ClassName:  "Customer",
		Attributes: []string{"name", "email"},
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "class Customer:")
	assert.Contains(t, out, "    def __init__(self, name, email):")
	assert.Contains(t, out, "        self.name = name\n        self.email = email")

	after := analyzeOK(t, out)
	customer := after.Class("Customer")
	require.NotNil(t, customer)
	assert.Len(t, customer.Attributes, 2)

	removed, err := m.Apply(out, intent.Intent{
		Action:      intent.ActionRemoveClass,
		TargetClass: "customer",
	}, after)
	require.NoError(t, err)
	assert.Nil(t, analyzeOK(t, removed).Class("Customer"))
}

func TestLineAddAttributeRewritesConstructor(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:        intent.ActionAddAttribute,
		AttributeName: "email",
		TargetClass:   "Animal",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "    def __init__(self, name, email):")
	assert.Contains(t, out, "        self.email = email")

	after := analyzeOK(t, out)
	assert.NotNil(t, after.Class("Animal").Attribute("email"))
}

func TestLineAddAttributeSkipParameter(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:        intent.ActionAddAttribute,
		AttributeName: "email",
		TargetClass:   "Animal",
		SkipParameter: true,
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "    def __init__(self, name):")
	assert.Contains(t, out, "        self.email = email")
}

func TestLineAddAttributeSynthesizesConstructor(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:        intent.ActionAddAttribute,
		AttributeName: "count",
		TargetClass:   "AnimalCount",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "    def __init__(self, count):\n        self.count = count")
}

func TestLineRemoveAttributeStripsParameter(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:        intent.ActionRemoveAttribute,
		AttributeName: "name",
		TargetClass:   "Animal",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "    def __init__(self):")
	assert.NotContains(t, out, "self.name = name")
}

func TestLineAddFunction(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:       intent.ActionAddFunction,
		FunctionName: "calculate_tax",
		Parameters:   []string{"amount"},
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "def calculate_tax(amount):\n    pass")

	after := analyzeOK(t, out)
	require.NotNil(t, after.Function("calculate_tax"))
}

func TestLineAddLoopInsideMethod(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:        intent.ActionAddLoop,
		LoopType:      "for",
		ContainerName: "total",
		ContainerType: "method",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "        for i in range(10):\n            pass")
	analyzeOK(t, out)
}

func TestLineAddConditionalInsideFunction(t *testing.T) {
	src := `def validate(data):
    return data
`
	inv := analyzeOK(t, src)

	out, err := NewLineMutator().Apply(src, intent.Intent{
		Action:          intent.ActionAddConditional,
		ConditionalType: "if_else",
		ContainerName:   "validate",
		ContainerType:   "function",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "    if True:\n        pass\n    else:\n        pass")
	analyzeOK(t, out)
}

func TestLineAddInheritance(t *testing.T) {
	inv := analyzeOK(t, zooSource)
	m := NewLineMutator()

	out, err := m.Apply(zooSource, intent.Intent{
		Action:      intent.ActionAddInheritance,
		ChildClass:  "AnimalCount",
		ParentClass: "Animal",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "class AnimalCount(Animal):")

	// Applying again is a no-op once the base is present.
	again, err := m.Apply(out, intent.Intent{
		Action:      intent.ActionAddInheritance,
		ChildClass:  "AnimalCount",
		ParentClass: "Animal",
	}, analyzeOK(t, out))
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestLineAddPolymorphism(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:      intent.ActionAddPolymorphism,
		TargetClass: "AnimalCount",
		ParentClass: "Animal",
		MethodName:  "speak",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "class AnimalCount(Animal):")
	assert.Contains(t, out, "    def speak(self):\n        return super().speak()")
}

func TestLineImplementInterface(t *testing.T) {
	src := `class Printable:
    def to_text(self):
        return ""


class Report:
    def __init__(self, title):
        self.title = title
`
	inv := analyzeOK(t, src)

	out, err := NewLineMutator().Apply(src, intent.Intent{
		Action:         intent.ActionImplementInterface,
		TargetClass:    "Report",
		InterfaceClass: "Printable",
	}, inv)
	require.NoError(t, err)
	assert.Contains(t, out, "class Report(Printable):")
	assert.Contains(t, out, "    def to_text(self):\n        pass")
}

func TestLineAddAbstractMethod(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	out, err := NewLineMutator().Apply(zooSource, intent.Intent{
		Action:      intent.ActionAddAbstractMethod,
		MethodName:  "process",
		TargetClass: "Animal",
	}, inv)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "from abc import ABC, abstractmethod\n"))
	assert.Contains(t, out, "class Animal(ABC):")
	assert.Contains(t, out, "    @abstractmethod\n    def process(self):\n        pass")

	after := analyzeOK(t, out)
	animal := after.Class("Animal")
	require.NotNil(t, animal)
	assert.True(t, animal.HasBase("ABC"))
	assert.NotNil(t, animal.Method("process"))
}

func TestLineUnsupportedAction(t *testing.T) {
	inv := analyzeOK(t, zooSource)

	got := ApplyText(NewLineMutator(), zooSource, intent.Intent{Action: "unknown"}, inv)
	assert.Equal(t, "Error: Unsupported action unknown", got)
}

func TestLineRefusesBrokenSource(t *testing.T) {
	broken := "def broken(:\n    pass\n"
	inv := inventory.Analyze(broken)
	require.Equal(t, inventory.StatusError, inv.Status)

	_, err := NewLineMutator().Apply(broken, intent.Intent{Action: intent.ActionAddClass, ClassName: "X"}, inv)
	var editErr *EditError
	require.ErrorAs(t, err, &editErr)
}
