package edit

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"pyedit/internal/intent"
	"pyedit/internal/inventory"
)

// TreeMutator edits source by splicing byte spans out of a fresh parse
// tree instead of trusting inventory line numbers. Name matching is
// case-sensitive — the tree is addressed by exact identifiers — and an
// operation whose target does not exist returns the source unchanged
// rather than an error. Operations the tree backend has no structural
// advantage for are delegated to the line backend.
type TreeMutator struct {
	parser *sitter.Parser
	line   *LineMutator
}

// NewTreeMutator returns the tree-splice backend.
func NewTreeMutator() *TreeMutator {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &TreeMutator{parser: parser, line: NewLineMutator()}
}

func (m *TreeMutator) Apply(source string, in intent.Intent, inv *inventory.Inventory) (out string, err error) {
	// A malformed tree can surface as a nil node deep in a walk; the
	// contract is "never return partial output", so any panic yields the
	// original source.
	defer func() {
		if r := recover(); r != nil {
			out = source
			err = nil
		}
	}()

	switch in.Action {
	case intent.ActionAddMethod:
		return m.addMethod(source, in)
	case intent.ActionRemoveMethod:
		return m.removeMethod(source, in)
	case intent.ActionRenameMethod:
		return m.renameMethod(source, in)
	case intent.ActionRemoveClass:
		return m.removeClass(source, in)
	case intent.ActionRenameClass:
		return m.renameClass(source, in)
	default:
		return m.line.Apply(source, in, inv)
	}
}

func (m *TreeMutator) parse(source string) (*sitter.Tree, []byte, error) {
	content := []byte(source)
	tree, err := m.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, nil, err
	}
	return tree, content, nil
}

func (m *TreeMutator) addMethod(source string, in intent.Intent) (string, error) {
	if in.MethodName == "" || in.TargetClass == "" {
		return source, nil
	}
	tree, content, err := m.parse(source)
	if err != nil {
		return source, nil
	}
	defer tree.Close()

	cls := findClass(tree.RootNode(), content, in.TargetClass)
	if cls == nil {
		return source, nil
	}

	ind := memberIndent(cls, content)
	method := fmt.Sprintf("\n\n%sdef %s(%s):\n%s    pass",
		ind, in.MethodName, methodParams(in.Parameters), ind)
	return spliceBytes(source, int(cls.EndByte()), int(cls.EndByte()), method), nil
}

func (m *TreeMutator) removeMethod(source string, in intent.Intent) (string, error) {
	tree, content, err := m.parse(source)
	if err != nil {
		return source, nil
	}
	defer tree.Close()

	cls := findClass(tree.RootNode(), content, in.TargetClass)
	if cls == nil {
		return source, nil
	}
	method := findMethod(cls, content, in.MethodName)
	if method == nil {
		return source, nil
	}

	outer := outerDefinition(method)
	start, end := lineSpan(source, int(outer.StartByte()), int(outer.EndByte()))
	return spliceBytes(source, start, end, ""), nil
}

func (m *TreeMutator) renameMethod(source string, in intent.Intent) (string, error) {
	oldName, newName := in.OldName, in.NewName
	if oldName == "" || newName == "" {
		return source, nil
	}
	tree, content, err := m.parse(source)
	if err != nil {
		return source, nil
	}
	defer tree.Close()

	var target *sitter.Node
	if in.TargetClass != "" {
		cls := findClass(tree.RootNode(), content, in.TargetClass)
		if cls == nil {
			return source, nil
		}
		target = findMethod(cls, content, oldName)
	} else {
		target = findFunction(tree.RootNode(), content, oldName)
	}
	if target == nil {
		return source, nil
	}

	name := target.ChildByFieldName("name")
	if name == nil {
		return source, nil
	}
	return spliceBytes(source, int(name.StartByte()), int(name.EndByte()), newName), nil
}

func (m *TreeMutator) removeClass(source string, in intent.Intent) (string, error) {
	name := in.ClassName
	if name == "" {
		name = in.TargetClass
	}
	tree, content, err := m.parse(source)
	if err != nil {
		return source, nil
	}
	defer tree.Close()

	cls := findClass(tree.RootNode(), content, name)
	if cls == nil {
		return source, nil
	}
	outer := outerDefinition(cls)
	start, end := lineSpan(source, int(outer.StartByte()), int(outer.EndByte()))
	return spliceBytes(source, start, end, ""), nil
}

// renameClass renames the definition and every identifier reference with
// the exact old name, splicing back to front so earlier spans stay valid.
func (m *TreeMutator) renameClass(source string, in intent.Intent) (string, error) {
	oldName := in.OldName
	if oldName == "" {
		oldName = in.TargetClass
	}
	newName := in.NewName
	if newName == "" {
		newName = in.NewClassName
	}
	if oldName == "" || newName == "" {
		return source, nil
	}

	tree, content, err := m.parse(source)
	if err != nil {
		return source, nil
	}
	defer tree.Close()

	if findClass(tree.RootNode(), content, oldName) == nil {
		return source, nil
	}

	var spans [][2]int
	collectIdentifiers(tree.RootNode(), content, oldName, &spans)

	out := source
	for i := len(spans) - 1; i >= 0; i-- {
		out = spliceBytes(out, spans[i][0], spans[i][1], newName)
	}
	return out, nil
}

func collectIdentifiers(node *sitter.Node, content []byte, name string, spans *[][2]int) {
	if node.Type() == "identifier" && string(content[node.StartByte():node.EndByte()]) == name {
		*spans = append(*spans, [2]int{int(node.StartByte()), int(node.EndByte())})
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectIdentifiers(node.NamedChild(i), content, name, spans)
	}
}

// findClass locates a module-level class_definition named name, looking
// through decorated_definition wrappers.
func findClass(root *sitter.Node, content []byte, name string) *sitter.Node {
	if name == "" {
		return nil
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() == "decorated_definition" {
			for j := 0; j < int(node.NamedChildCount()); j++ {
				if inner := node.NamedChild(j); inner.Type() == "class_definition" {
					node = inner
					break
				}
			}
		}
		if node.Type() != "class_definition" {
			continue
		}
		if n := node.ChildByFieldName("name"); n != nil &&
			string(content[n.StartByte():n.EndByte()]) == name {
			return node
		}
	}
	return nil
}

// findMethod locates a function_definition named name in the direct body
// of cls, including decorated methods.
func findMethod(cls *sitter.Node, content []byte, name string) *sitter.Node {
	body := cls.ChildByFieldName("body")
	if body == nil || name == "" {
		return nil
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		node := body.NamedChild(i)
		if node.Type() == "decorated_definition" {
			for j := 0; j < int(node.NamedChildCount()); j++ {
				if inner := node.NamedChild(j); inner.Type() == "function_definition" {
					node = inner
					break
				}
			}
		}
		if node.Type() != "function_definition" {
			continue
		}
		if n := node.ChildByFieldName("name"); n != nil &&
			string(content[n.StartByte():n.EndByte()]) == name {
			return node
		}
	}
	return nil
}

func findFunction(root *sitter.Node, content []byte, name string) *sitter.Node {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() == "decorated_definition" {
			for j := 0; j < int(node.NamedChildCount()); j++ {
				if inner := node.NamedChild(j); inner.Type() == "function_definition" {
					node = inner
					break
				}
			}
		}
		if node.Type() != "function_definition" {
			continue
		}
		if n := node.ChildByFieldName("name"); n != nil &&
			string(content[n.StartByte():n.EndByte()]) == name {
			return node
		}
	}
	return nil
}

// outerDefinition returns the decorated_definition wrapping node, if any.
func outerDefinition(node *sitter.Node) *sitter.Node {
	if parent := node.Parent(); parent != nil && parent.Type() == "decorated_definition" {
		return parent
	}
	return node
}

// memberIndent derives the body indentation of a class from its first
// member's column, defaulting to four spaces.
func memberIndent(cls *sitter.Node, content []byte) string {
	body := cls.ChildByFieldName("body")
	if body != nil && body.NamedChildCount() > 0 {
		col := int(body.NamedChild(0).StartPoint().Column)
		if col > 0 {
			return strings.Repeat(" ", col)
		}
	}
	return "    "
}

// spliceBytes replaces source[start:end] with text.
func spliceBytes(source string, start, end int, text string) string {
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		start = end
	}
	return source[:start] + text + source[end:]
}

// lineSpan widens a byte span to full lines: back to the start of the
// first line, forward past the trailing newline.
func lineSpan(source string, start, end int) (int, int) {
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	if end < len(source) && source[end] == '\n' {
		end++
	}
	return start, end
}
