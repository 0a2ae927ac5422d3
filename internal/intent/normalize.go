package intent

import (
	"strings"

	"pyedit/internal/inventory"
)

// Normalize reconciles a raw parsed intent with what actually exists in
// the source. Three repairs happen here, in order:
//
//  1. Field aliasing. Different extraction paths fill different synonym
//     fields (TargetClass vs OldName, NewClassName vs NewName, MethodName
//     vs OldName). Aliasing settles each pair on the canonical field so
//     the mutation backends only read one.
//  2. The "the" repair. "rename the Animal class to Mammal" makes the
//     broad old-name pattern capture "the"; when that happens the old
//     name is re-derived from the other class-bearing fields.
//  3. Class-name canonicalization. Every class-bearing field is resolved
//     case-insensitively against the inventory and replaced with the
//     declared casing, so "the animal class" addresses class Animal.
//
// Normalize never rejects an intent. A field that cannot be resolved is
// passed through untouched and left for the mutation stage to report.
func Normalize(in Intent, inv *inventory.Inventory) Intent {
	switch in.Action {
	case ActionRenameClass:
		if in.OldName == "" || strings.EqualFold(in.OldName, "the") {
			if in.TargetClass != "" && !strings.EqualFold(in.TargetClass, "the") {
				in.OldName = in.TargetClass
			} else if in.ClassName != "" {
				in.OldName = in.ClassName
			}
		}
		if in.NewName == "" && in.NewClassName != "" {
			in.NewName = in.NewClassName
		}

	case ActionRenameMethod:
		if in.OldName == "" && in.MethodName != "" {
			in.OldName = in.MethodName
		}
		if in.NewName == "" && in.NewMethodName != "" {
			in.NewName = in.NewMethodName
		}

	case ActionAddFunction, ActionRemoveFunction:
		if in.FunctionName == "" && in.MethodName != "" {
			in.FunctionName = in.MethodName
		}

	case ActionAddAttribute, ActionRemoveAttribute:
		if in.AttributeName == "" && len(in.Attributes) > 0 {
			in.AttributeName = in.Attributes[0]
		}
	}

	if inv == nil || inv.Status != inventory.StatusOK {
		return in
	}

	in.TargetClass = canonicalClass(inv, in.TargetClass)
	in.ChildClass = canonicalClass(inv, in.ChildClass)
	in.ParentClass = canonicalClass(inv, in.ParentClass)
	in.InterfaceClass = canonicalClass(inv, in.InterfaceClass)
	if in.Action == ActionRenameClass {
		in.OldName = canonicalClass(inv, in.OldName)
	}

	// Method names get the declared casing too, once the class resolved.
	if cls := inv.Class(in.TargetClass); cls != nil {
		if in.MethodName != "" {
			if m := cls.Method(in.MethodName); m != nil {
				in.MethodName = m.Name
			}
		}
		if in.Action == ActionRenameMethod && in.OldName != "" {
			if m := cls.Method(in.OldName); m != nil {
				in.OldName = m.Name
			}
		}
		if in.AttributeName != "" {
			if a := cls.Attribute(in.AttributeName); a != nil {
				in.AttributeName = a.Name
			}
		}
	}

	return in
}

// canonicalClass maps name to the declared casing of a matching class,
// or returns name unchanged when nothing in the inventory matches.
func canonicalClass(inv *inventory.Inventory, name string) string {
	if name == "" {
		return name
	}
	if cls := inv.ResolveClass(name); cls != nil {
		return cls.Name
	}
	return name
}
