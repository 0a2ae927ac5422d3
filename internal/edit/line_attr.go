package edit

import (
	"fmt"
	"strings"

	"pyedit/internal/intent"
	"pyedit/internal/inventory"
)

func (m *LineMutator) addAttribute(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	if in.TargetClass == "" {
		return joinLines(lines), errf(in.Action, "", "Missing target class")
	}
	attr := in.AttributeName
	if attr == "" && len(in.Attributes) > 0 {
		attr = in.Attributes[0]
	}
	if attr == "" {
		return joinLines(lines), errf(in.Action, "", "Missing attribute name")
	}

	cls := inv.ResolveClass(in.TargetClass)
	if cls == nil {
		return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
	}

	init := cls.Constructor()
	if init == nil {
		// Synthesize a constructor at the top of the class body.
		ind := classIndent(lines, cls)
		block := fmt.Sprintf("%sdef __init__(self, %s):\n%s    self.%s = %s",
			ind, attr, ind, attr, attr)
		return joinLines(insertAt(lines, cls.Location.StartLine, block)), nil
	}

	// Insert the assignment before the constructor's final line, whose
	// indentation it inherits.
	assignIdx := init.Location.EndLine - 1
	ind := "        "
	if assignIdx >= 0 && assignIdx < len(lines) {
		ind = indentationOf(lines[assignIdx])
	}
	out := insertAt(lines, assignIdx, fmt.Sprintf("%sself.%s = %s", ind, attr, attr))

	if !in.SkipParameter {
		defIdx := init.Location.StartLine - 1
		out[defIdx] = appendParameter(out[defIdx], attr)
	}
	return joinLines(out), nil
}

// appendParameter adds name to the parameter list on a def line. Best
// effort: a def line without both parens is returned unchanged.
func appendParameter(def, name string) string {
	open := strings.Index(def, "(")
	close := strings.Index(def, ")")
	if open < 0 || close < open {
		return def
	}
	params := strings.TrimSpace(def[open+1 : close])
	switch {
	case strings.HasSuffix(params, ","):
		params = params + " " + name
	case params != "":
		params = params + ", " + name
	default:
		params = "self"
	}
	return def[:open+1] + params + def[close:]
}

func (m *LineMutator) removeAttribute(lines []string, in intent.Intent, inv *inventory.Inventory) (string, error) {
	if in.TargetClass == "" {
		return joinLines(lines), errf(in.Action, "", "Missing target class")
	}
	attrName := in.AttributeName
	if attrName == "" && len(in.Attributes) > 0 {
		attrName = in.Attributes[0]
	}
	if attrName == "" {
		return joinLines(lines), errf(in.Action, "", "Missing attribute name")
	}

	cls := inv.ResolveClass(in.TargetClass)
	if cls == nil {
		return joinLines(lines), errf(in.Action, in.TargetClass, "Class %s not found", in.TargetClass)
	}
	attr := cls.Attribute(attrName)
	if attr == nil {
		return joinLines(lines), errf(in.Action, attrName,
			"Attribute %s not found in class %s", attrName, cls.Name)
	}

	out := deleteRange(lines, attr.Location.StartLine-1, attr.Location.StartLine)

	// Strip the matching constructor parameter when one exists. The def
	// line sits above the removed assignment, so its index is unchanged.
	init := cls.Constructor()
	if init != nil && hasArgument(init, attr.Name) {
		defIdx := init.Location.StartLine - 1
		if defIdx >= 0 && defIdx < len(out) {
			out[defIdx] = stripParameter(out[defIdx], attr.Name)
		}
	}
	return joinLines(out), nil
}

func hasArgument(fn *inventory.Function, name string) bool {
	for _, arg := range fn.Arguments {
		if strings.EqualFold(arg, name) {
			return true
		}
	}
	return false
}

// stripParameter removes name from the parameter list on a def line,
// matching case-insensitively and ignoring default values. Best effort,
// like appendParameter.
func stripParameter(def, name string) string {
	open := strings.Index(def, "(")
	close := strings.Index(def, ")")
	if open < 0 || close < open {
		return def
	}
	var kept []string
	for _, p := range strings.Split(def[open+1:close], ",") {
		p = strings.TrimSpace(p)
		bare := p
		if eq := strings.Index(bare, "="); eq >= 0 {
			bare = strings.TrimSpace(bare[:eq])
		}
		if p != "" && !strings.EqualFold(bare, name) {
			kept = append(kept, p)
		}
	}
	return def[:open+1] + strings.Join(kept, ", ") + def[close:]
}
