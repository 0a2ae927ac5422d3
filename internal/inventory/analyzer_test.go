package inventory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const animalFixture = `import os
import sys as system
from typing import List, Optional


class Animal:
    """Base animal."""

    def __init__(self, name, sound="..."):
        self.name = name
        self.sound = sound

    def speak(self):
        return self.sound


class Dog(Animal):
    def speak(self):
        return "Woof"


def feed(animal, food=None):
    return True
`

func TestAnalyzeClasses(t *testing.T) {
	inv := Analyze(animalFixture)
	require.Equal(t, StatusOK, inv.Status, inv.Message)

	assert.Equal(t, []string{"Animal", "Dog"}, inv.ClassNames())

	animal := inv.Class("Animal")
	require.NotNil(t, animal)
	assert.Equal(t, 6, animal.Location.StartLine)
	assert.Equal(t, 14, animal.Location.EndLine)
	assert.Empty(t, animal.Bases)

	require.Len(t, animal.Methods, 2)
	assert.Equal(t, "__init__", animal.Methods[0].Name)
	assert.Equal(t, []string{"self", "name", "sound"}, animal.Methods[0].Arguments)
	assert.Equal(t, "speak", animal.Methods[1].Name)

	require.Len(t, animal.Attributes, 2)
	assert.Equal(t, "name", animal.Attributes[0].Name)
	assert.Equal(t, 10, animal.Attributes[0].Location.StartLine)
	assert.Equal(t, "sound", animal.Attributes[1].Name)

	dog := inv.Class("Dog")
	require.NotNil(t, dog)
	assert.Equal(t, []string{"Animal"}, dog.Bases)
	assert.True(t, dog.HasBase("Animal"))
}

func TestAnalyzeFunctionsAndImports(t *testing.T) {
	inv := Analyze(animalFixture)
	require.Equal(t, StatusOK, inv.Status)

	require.Len(t, inv.Functions, 1)
	feed := inv.Function("feed")
	require.NotNil(t, feed)
	assert.Equal(t, 22, feed.Location.StartLine)
	assert.Equal(t, []string{"animal", "food"}, feed.Arguments)

	want := []Import{
		{Name: "os", Kind: "import"},
		{Name: "sys", Alias: "system", Kind: "import"},
		{Name: "List", Module: "typing", Kind: "from_import"},
		{Name: "Optional", Module: "typing", Kind: "from_import"},
	}
	if diff := cmp.Diff(want, inv.Imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeSyntaxError(t *testing.T) {
	inv := Analyze("def broken(:\n    pass\n")
	assert.Equal(t, StatusError, inv.Status)
	assert.Contains(t, inv.Message, "Syntax error")
	assert.GreaterOrEqual(t, inv.Line, 1)
}

func TestAnalyzeDecoratedSpansIncludeDecorator(t *testing.T) {
	src := `@functools.cache
def lookup(key):
    return key


class Registry:
    @property
    def size(self):
        return 0
`
	inv := Analyze(src)
	require.Equal(t, StatusOK, inv.Status, inv.Message)

	lookup := inv.Function("lookup")
	require.NotNil(t, lookup)
	assert.Equal(t, 1, lookup.Location.StartLine)

	registry := inv.Class("Registry")
	require.NotNil(t, registry)
	size := registry.Method("size")
	require.NotNil(t, size)
	assert.Equal(t, 7, size.Location.StartLine)
}

func TestAnalyzeNestedFunctionsInvisible(t *testing.T) {
	src := `def outer():
    def inner():
        pass
    return inner
`
	inv := Analyze(src)
	require.Equal(t, StatusOK, inv.Status)
	assert.Len(t, inv.Functions, 1)
	assert.Nil(t, inv.Function("inner"))
}

func TestResolveClassDeclarationOrder(t *testing.T) {
	src := `class Shape:
    pass


class SHAPE:
    pass
`
	inv := Analyze(src)
	require.Equal(t, StatusOK, inv.Status)

	// Exact match beats case-insensitive, and the case-insensitive walk
	// returns the first declaration.
	assert.Equal(t, "SHAPE", inv.ResolveClass("SHAPE").Name)
	assert.Equal(t, "Shape", inv.ResolveClass("shape").Name)
	assert.Nil(t, inv.ResolveClass("Circle"))
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := NewAnalyzer()
	first := a.Analyze(animalFixture)
	second := a.Analyze(animalFixture)
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Inventory{})); diff != "" {
		t.Errorf("repeated analysis differs (-first +second):\n%s", diff)
	}
}
