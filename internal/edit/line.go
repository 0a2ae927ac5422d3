package edit

import (
	"fmt"
	"strings"

	"pyedit/internal/intent"
	"pyedit/internal/inventory"
)

// LineMutator edits source as a list of lines, addressed by the line
// spans the inventory reported. Class, method and attribute names
// resolve case-insensitively, so an intent that survived normalization
// with the user's casing still finds its target.
type LineMutator struct{}

// NewLineMutator returns the line-splice backend.
func NewLineMutator() *LineMutator {
	return &LineMutator{}
}

func (m *LineMutator) Apply(source string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	if inv == nil {
		return source, errf(in.Action, "", "No analysis available")
	}
	if inv.Status != inventory.StatusOK {
		return source, errf(in.Action, "", "Cannot edit source that failed to parse: %s", inv.Message)
	}

	lines := splitLines(source)

	switch in.Action {
	case intent.ActionAddMethod:
		return m.addMethod(lines, in, inv)
	case intent.ActionRemoveMethod:
		return m.removeMethod(lines, in, inv)
	case intent.ActionRenameMethod:
		return m.renameMethod(lines, in, inv)
	case intent.ActionAddClass:
		return m.addClass(lines, in, inv)
	case intent.ActionRemoveClass:
		return m.removeClass(lines, in, inv)
	case intent.ActionRenameClass:
		return m.renameClass(lines, in, inv)
	case intent.ActionAddAttribute:
		return m.addAttribute(lines, in, inv)
	case intent.ActionRemoveAttribute:
		return m.removeAttribute(lines, in, inv)
	case intent.ActionAddFunction:
		return m.addFunction(lines, in, inv)
	case intent.ActionRemoveFunction:
		return m.removeFunction(lines, in, inv)
	case intent.ActionAddLoop:
		return m.addBlock(lines, in, inv, loopBlock(in))
	case intent.ActionAddConditional:
		return m.addBlock(lines, in, inv, conditionalBlock(in))
	case intent.ActionAddInheritance:
		return m.addInheritance(lines, in, inv)
	case intent.ActionAddPolymorphism:
		return m.addPolymorphism(lines, in, inv)
	case intent.ActionImplementInterface:
		return m.implementInterface(lines, in, inv)
	case intent.ActionAddAbstractMethod:
		return m.addAbstractMethod(lines, in, inv)
	default:
		return joinLines(lines), errf(in.Action, "", "Unsupported action %s", in.Action)
	}
}

func (m *LineMutator) addMethod(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	if in.MethodName == "" {
		return joinLines(lines), errf(in.Action, "", "Missing method name")
	}
	cls := inv.ResolveClass(in.TargetClass)
	if cls == nil {
		return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
	}

	ind := classIndent(lines, cls)
	block := fmt.Sprintf("%sdef %s(%s):\n%s    pass",
		ind, in.MethodName, methodParams(in.Parameters), ind)

	// Insert after the last line of the class body.
	return joinLines(insertAt(lines, cls.Location.EndLine, block)), nil
}

func (m *LineMutator) removeMethod(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	cls := inv.ResolveClass(in.TargetClass)
	if cls == nil {
		return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
	}
	method := cls.Method(in.MethodName)
	if method == nil {
		return joinLines(lines), errf(in.Action, in.MethodName,
			"Method %s not found in class %s", in.MethodName, cls.Name)
	}
	return joinLines(deleteRange(lines, method.Location.StartLine-1, method.Location.EndLine)), nil
}

func (m *LineMutator) renameMethod(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	oldName, newName := in.OldName, in.NewName
	if oldName == "" || newName == "" {
		return joinLines(lines), errf(in.Action, oldName, "Missing old or new method name")
	}

	if in.TargetClass != "" {
		cls := inv.ResolveClass(in.TargetClass)
		if cls == nil {
			return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
		}
		method := cls.Method(oldName)
		if method == nil {
			return joinLines(lines), errf(in.Action, oldName,
				"Method %s not found in class %s", oldName, cls.Name)
		}
		if out, ok := renameDef(lines, method.Location, method.Name, newName); ok {
			return joinLines(out), nil
		}
	} else {
		fn := inv.Function(oldName)
		if fn == nil {
			return joinLines(lines), errf(in.Action, oldName, "Function %s not found", oldName)
		}
		if out, ok := renameDef(lines, fn.Location, fn.Name, newName); ok {
			return joinLines(out), nil
		}
	}
	return joinLines(lines), errf(in.Action, oldName, "Could not rename method or function")
}

// renameDef rewrites the name on a def line inside loc. The span may
// start on a decorator line, so the def line is searched for within it.
func renameDef(lines []string, loc inventory.Location, oldName, newName string) ([]string, bool) {
	for idx := loc.StartLine - 1; idx < loc.EndLine && idx < len(lines); idx++ {
		def := lines[idx]
		defStart := strings.Index(def, "def")
		if defStart < 0 {
			continue
		}
		nameStart := strings.Index(def[defStart:], oldName)
		if nameStart < 0 {
			return nil, false
		}
		nameStart += defStart

		out := make([]string, len(lines))
		copy(out, lines)
		out[idx] = def[:nameStart] + newName + def[nameStart+len(oldName):]
		return out, true
	}
	return nil, false
}

func (m *LineMutator) addClass(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	if in.ClassName == "" {
		return joinLines(lines), errf(in.Action, "", "Missing class name")
	}

	// Place the new class after every existing class.
	insertion := len(lines)
	for _, name := range inv.ClassNames() {
		if end := inv.Class(name).Location.EndLine + 1; end > insertion {
			insertion = end
		}
	}

	var body []string
	if len(in.Attributes) > 0 {
		assignments := make([]string, 0, len(in.Attributes))
		for _, attr := range in.Attributes {
			assignments = append(assignments, fmt.Sprintf("self.%s = %s", attr, attr))
		}
		body = append(body, fmt.Sprintf("    def __init__(%s):\n        %s",
			methodParams(in.Attributes), strings.Join(assignments, "\n        ")))
	}
	if len(body) == 0 {
		body = []string{"    pass"}
	}

	block := "\n\n" + fmt.Sprintf("class %s:", in.ClassName) + "\n" + strings.Join(body, "\n\n")
	return joinLines(insertAt(lines, insertion, block)), nil
}

func (m *LineMutator) removeClass(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	name := in.ClassName
	if name == "" {
		name = in.TargetClass
	}
	cls := inv.ResolveClass(name)
	if cls == nil {
		return joinLines(lines), errf(in.Action, name, "Class %s not found", name)
	}
	return joinLines(deleteRange(lines, cls.Location.StartLine-1, cls.Location.EndLine)), nil
}

func (m *LineMutator) renameClass(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	oldName, newName := in.OldName, in.NewName
	if oldName == "" {
		oldName = in.TargetClass
	}
	if newName == "" {
		newName = in.NewClassName
	}
	if oldName == "" || newName == "" {
		return joinLines(lines), errf(in.Action, oldName, "Missing old or new class name")
	}

	cls := inv.ResolveClass(oldName)
	if cls == nil && in.TargetClass != "" && in.TargetClass != oldName {
		cls = inv.ResolveClass(in.TargetClass)
	}
	if cls == nil {
		return joinLines(lines), errf(in.Action, oldName, "Class %s not found", oldName)
	}

	out := make([]string, len(lines))
	copy(out, lines)

	// Rewrite the definition line first, then every whole-word reference
	// elsewhere: constructor calls, base lists, isinstance checks.
	defIdx := cls.Location.StartLine - 1
	def := out[defIdx]
	if kw := strings.Index(def, "class"); kw >= 0 {
		if nameStart := strings.Index(def[kw:], cls.Name); nameStart >= 0 {
			nameStart += kw
			out[defIdx] = def[:nameStart] + newName + def[nameStart+len(cls.Name):]
		}
	}
	for idx := range out {
		if idx == defIdx {
			continue
		}
		out[idx] = replaceWholeWord(out[idx], cls.Name, newName)
	}
	return joinLines(out), nil
}

func (m *LineMutator) addFunction(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	name := in.FunctionName
	if name == "" {
		name = in.MethodName
	}
	if name == "" {
		return joinLines(lines), errf(in.Action, "", "Missing function name")
	}

	insertion := len(lines)
	for _, cn := range inv.ClassNames() {
		if end := inv.Class(cn).Location.EndLine + 1; end > insertion {
			insertion = end
		}
	}
	for i := range inv.Functions {
		if end := inv.Functions[i].Location.EndLine + 1; end > insertion {
			insertion = end
		}
	}

	block := fmt.Sprintf("\n\ndef %s(%s):\n    pass",
		name, strings.Join(cleanParameters(in.Parameters), ", "))
	return joinLines(insertAt(lines, insertion, block)), nil
}

func (m *LineMutator) removeFunction(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	name := in.FunctionName
	if name == "" {
		name = in.MethodName
	}
	fn := inv.Function(name)
	if fn == nil {
		return joinLines(lines), errf(in.Action, name, "Function %s not found", name)
	}
	return joinLines(deleteRange(lines, fn.Location.StartLine-1, fn.Location.EndLine)), nil
}

// methodParams renders a method parameter list: self plus the cleaned
// intent parameters.
func methodParams(params []string) string {
	cleaned := cleanParameters(params)
	if len(cleaned) == 0 {
		return "self"
	}
	return "self, " + strings.Join(cleaned, ", ")
}
