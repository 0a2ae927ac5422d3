package intent

import (
	"testing"

	"pyedit/internal/inventory"
)

const normalizeFixture = `class Animal:
    def __init__(self, name):
        self.name = name

    def speak(self):
        return "..."


class AnimalCount:
    pass
`

func TestNormalizeRenameClassRepair(t *testing.T) {
	inv := inventory.Analyze(normalizeFixture)
	if inv.Status != inventory.StatusOK {
		t.Fatalf("fixture failed to parse: %s", inv.Message)
	}

	in := Normalize(Intent{
		Action:      ActionRenameClass,
		OldName:     "the",
		TargetClass: "animal",
		NewName:     "Mammal",
	}, inv)

	if in.OldName != "Animal" {
		t.Errorf("OldName = %q, want %q", in.OldName, "Animal")
	}
	if in.TargetClass != "Animal" {
		t.Errorf("TargetClass = %q, want %q", in.TargetClass, "Animal")
	}
	if in.NewName != "Mammal" {
		t.Errorf("NewName = %q, want %q", in.NewName, "Mammal")
	}
}

func TestNormalizeRenameMethodAliases(t *testing.T) {
	inv := inventory.Analyze(normalizeFixture)

	in := Normalize(Intent{
		Action:        ActionRenameMethod,
		MethodName:    "SPEAK",
		NewMethodName: "talk",
		TargetClass:   "animal",
	}, inv)

	if in.OldName != "speak" {
		t.Errorf("OldName = %q, want %q", in.OldName, "speak")
	}
	if in.NewName != "talk" {
		t.Errorf("NewName = %q, want %q", in.NewName, "talk")
	}
	if in.TargetClass != "Animal" {
		t.Errorf("TargetClass = %q, want %q", in.TargetClass, "Animal")
	}
}

func TestNormalizeFunctionAlias(t *testing.T) {
	in := Normalize(Intent{Action: ActionRemoveFunction, MethodName: "process_payment"}, nil)
	if in.FunctionName != "process_payment" {
		t.Errorf("FunctionName = %q, want %q", in.FunctionName, "process_payment")
	}
}

func TestNormalizeAttributePrimary(t *testing.T) {
	inv := inventory.Analyze(normalizeFixture)

	in := Normalize(Intent{
		Action:      ActionRemoveAttribute,
		Attributes:  []string{"NAME"},
		TargetClass: "animal",
	}, inv)

	if in.AttributeName != "name" {
		t.Errorf("AttributeName = %q, want %q", in.AttributeName, "name")
	}
}

// A class the inventory does not know keeps the casing the user typed:
// the mutation stage owns the not-found error, not the normalizer.
func TestNormalizeUnknownClassPassesThrough(t *testing.T) {
	inv := inventory.Analyze(normalizeFixture)

	in := Normalize(Intent{Action: ActionAddMethod, MethodName: "eat", TargetClass: "robot"}, inv)
	if in.TargetClass != "robot" {
		t.Errorf("TargetClass = %q, want %q", in.TargetClass, "robot")
	}
}
