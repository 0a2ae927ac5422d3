package edit

import (
	"fmt"
	"strings"

	"pyedit/internal/intent"
	"pyedit/internal/inventory"
)

// blockBuilder renders an indented statement block for insertion into a
// method or function body.
type blockBuilder func(indent string) string

func loopBlock(in intent.Intent) blockBuilder {
	return func(ind string) string {
		if in.LoopType == "while" {
			return fmt.Sprintf("%swhile True:\n%s    pass", ind, ind)
		}
		return fmt.Sprintf("%sfor i in range(10):\n%s    pass", ind, ind)
	}
}

func conditionalBlock(in intent.Intent) blockBuilder {
	return func(ind string) string {
		if in.ConditionalType == "switch" {
			return fmt.Sprintf("%smatch value:\n%s    case _:\n%s        pass", ind, ind, ind)
		}
		return fmt.Sprintf("%sif True:\n%s    pass\n%selse:\n%s    pass", ind, ind, ind, ind)
	}
}

// addBlock inserts a loop or conditional block before the final line of
// the container body, inheriting that line's indentation.
func (m *LineMutator) addBlock(lines []string, in intent.Intent, inv *inventory.Inventory, build blockBuilder) (string, error) {
	if in.ContainerName == "" {
		return joinLines(lines), errf(in.Action, "", "Missing container name")
	}

	target, err := findContainer(in, inv)
	if err != nil {
		return joinLines(lines), err
	}

	idx := target.Location.EndLine - 1
	ind := "    "
	if idx >= 0 && idx < len(lines) {
		ind = indentationOf(lines[idx])
	}
	return joinLines(insertAt(lines, idx, build(ind))), nil
}

// findContainer resolves the method or function a block targets. A
// method with no class named falls back to searching every class, since
// "add a for loop to the process_items method" rarely says which class.
func findContainer(in intent.Intent, inv *inventory.Inventory) (*inventory.Function, error) {
	if in.ContainerType == "method" {
		if in.TargetClass != "" {
			cls := inv.ResolveClass(in.TargetClass)
			if cls == nil {
				return nil, errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
			}
			if method := cls.Method(in.ContainerName); method != nil {
				return method, nil
			}
			return nil, errf(in.Action, in.ContainerName, "Method %s not found", in.ContainerName)
		}
		for _, name := range inv.ClassNames() {
			if method := inv.Class(name).Method(in.ContainerName); method != nil {
				return method, nil
			}
		}
		return nil, errf(in.Action, in.ContainerName, "Method %s not found", in.ContainerName)
	}

	if fn := inv.Function(in.ContainerName); fn != nil {
		return fn, nil
	}
	return nil, errf(in.Action, in.ContainerName, "Function %s not found", in.ContainerName)
}

func (m *LineMutator) addInheritance(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	child := inv.ResolveClass(in.ChildClass)
	if child == nil {
		return joinLines(lines), errf(in.Action, in.ChildClass, "Class %s not found", in.ChildClass)
	}
	parent := inv.ResolveClass(in.ParentClass)
	if parent == nil {
		return joinLines(lines), errf(in.Action, in.ParentClass, "Parent class %s not found", in.ParentClass)
	}
	if child.HasBase(parent.Name) {
		return joinLines(lines), nil
	}
	out, err := rewriteBases(lines, child.Location.StartLine-1, in.Action, parent.Name)
	if err != nil {
		return joinLines(lines), err
	}
	return joinLines(out), nil
}

func (m *LineMutator) addPolymorphism(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	child := inv.ResolveClass(in.TargetClass)
	if child == nil {
		return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
	}
	parent := inv.ResolveClass(in.ParentClass)
	if parent == nil {
		return joinLines(lines), errf(in.Action, in.ParentClass, "Parent class %s not found", in.ParentClass)
	}

	out := lines
	if !child.HasBase(parent.Name) {
		rewritten, err := rewriteBases(lines, child.Location.StartLine-1, in.Action, parent.Name)
		if err != nil {
			return joinLines(lines), err
		}
		out = rewritten
	}

	if in.MethodName == "" {
		return joinLines(out), nil
	}
	parentMethod := parent.Method(in.MethodName)
	if parentMethod == nil {
		return joinLines(out), errf(in.Action, in.MethodName,
			"Method %s not found in class %s", in.MethodName, parent.Name)
	}
	if child.Method(parentMethod.Name) != nil {
		// Already overridden.
		return joinLines(out), nil
	}

	ind := classIndent(out, child)
	var callArgs []string
	for _, arg := range parentMethod.Arguments {
		if arg != "self" {
			callArgs = append(callArgs, arg)
		}
	}
	block := fmt.Sprintf("%sdef %s(%s):\n%s    return super().%s(%s)",
		ind, parentMethod.Name, strings.Join(parentMethod.Arguments, ", "),
		ind, parentMethod.Name, strings.Join(callArgs, ", "))

	return joinLines(insertAt(out, child.Location.EndLine, block)), nil
}

func (m *LineMutator) implementInterface(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	cls := inv.ResolveClass(in.TargetClass)
	if cls == nil {
		return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
	}
	if in.InterfaceClass == "" {
		return joinLines(lines), errf(in.Action, "", "Missing interface class")
	}

	iface := in.InterfaceClass
	ifaceCls := inv.ResolveClass(iface)
	if ifaceCls != nil {
		iface = ifaceCls.Name
	}
	if cls.HasBase(iface) {
		return joinLines(lines), nil
	}

	out := lines
	// Stub out the interface's methods that the class does not define
	// yet, walking backwards so earlier stubs keep their insertion point.
	if ifaceCls != nil {
		ind := classIndent(lines, cls)
		for i := len(ifaceCls.Methods) - 1; i >= 0; i-- {
			method := ifaceCls.Methods[i]
			if method.Name == "__init__" || cls.Method(method.Name) != nil {
				continue
			}
			block := fmt.Sprintf("%sdef %s(%s):\n%s    pass",
				ind, method.Name, strings.Join(method.Arguments, ", "), ind)
			out = insertAt(out, cls.Location.EndLine, block)
		}
	}

	rewritten, err := rewriteBases(out, cls.Location.StartLine-1, in.Action, iface)
	if err != nil {
		return joinLines(lines), err
	}
	return joinLines(rewritten), nil
}

// addAbstractMethod marks the class abstract and appends an
// @abstractmethod stub. Inserting the abc import shifts every location
// below it, so the source is re-analyzed after that insert instead of
// patching offsets in place.
func (m *LineMutator) addAbstractMethod(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	if in.MethodName == "" {
		return joinLines(lines), errf(in.Action, "", "Missing method name")
	}
	cls := inv.ResolveClass(in.TargetClass)
	if cls == nil {
		return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
	}

	out := lines
	if !hasABCImport(lines) {
		out = insertAt(lines, 0, "from abc import ABC, abstractmethod")

		fresh := inventory.Analyze(joinLines(out))
		if fresh.Status != inventory.StatusOK {
			return joinLines(lines), errf(in.Action, in.TargetClass,
				"Source no longer parses after adding import: %s", fresh.Message)
		}
		inv = fresh
		cls = inv.ResolveClass(cls.Name)
		if cls == nil {
			return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
		}
	}

	defIdx := cls.Location.StartLine - 1
	if !strings.Contains(out[defIdx], "ABC") {
		rewritten, err := rewriteBases(out, defIdx, in.Action, "ABC")
		if err != nil {
			return joinLines(lines), err
		}
		out = rewritten
	}

	ind := classIndent(out, cls)
	block := fmt.Sprintf("%s@abstractmethod\n%sdef %s(%s):\n%s    pass",
		ind, ind, in.MethodName, methodParams(in.Parameters), ind)
	return joinLines(insertAt(out, cls.Location.EndLine, block)), nil
}

func hasABCImport(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, "import abc") || strings.Contains(line, "from abc import") {
			return true
		}
	}
	return false
}
