// Package inventory extracts the structural inventory of a Python source
// file: classes, methods, constructor attributes, module-level functions
// and imports, each tagged with a precise line span. It uses Tree-sitter
// for accurate parsing and is a pure function of the source text — the
// same input always produces the same inventory, and nothing here ever
// mutates the source.
package inventory

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Analyzer parses Python source into an Inventory.
type Analyzer struct {
	parser *sitter.Parser
}

// NewAnalyzer creates an analyzer with the Python grammar loaded.
func NewAnalyzer() *Analyzer {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Analyzer{parser: parser}
}

// Analyze is a convenience wrapper using a fresh Analyzer.
func Analyze(source string) *Inventory {
	return NewAnalyzer().Analyze(source)
}

// Analyze parses source and walks the direct children of the module node.
// Nested helper functions inside functions are invisible on purpose: the
// edit vocabulary only ever targets module- or class-scoped members.
// Parse failures are returned as a StatusError inventory, never as a
// panic or error value crossing the package boundary.
func (a *Analyzer) Analyze(source string) *Inventory {
	content := []byte(source)

	tree, err := a.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return &Inventory{
			Status:  StatusError,
			Message: fmt.Sprintf("Syntax error: %v", err),
		}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, offset, detail := firstSyntaxError(root)
		return &Inventory{
			Status:  StatusError,
			Message: fmt.Sprintf("Syntax error: %s", detail),
			Line:    line,
			Offset:  offset,
		}
	}

	inv := &Inventory{
		Status:    StatusOK,
		Classes:   map[string]*Class{},
		Functions: []Function{},
		Imports:   []Import{},
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		a.collectTopLevel(child, child, content, inv)
	}
	return inv
}

// collectTopLevel handles one direct module child. outer is the node whose
// span covers the whole construct (the decorated_definition when decorators
// are present), node is the definition itself.
func (a *Analyzer) collectTopLevel(outer, node *sitter.Node, content []byte, inv *Inventory) {
	switch node.Type() {
	case "function_definition":
		inv.Functions = append(inv.Functions, Function{
			Name:      fieldText(node, "name", content),
			Location:  spanOf(outer),
			Arguments: parameterNames(node.ChildByFieldName("parameters"), content),
		})

	case "class_definition":
		cls := a.parseClass(outer, node, content)
		if cls != nil {
			inv.Classes[cls.Name] = cls
			inv.classOrder = append(inv.classOrder, cls.Name)
		}

	case "decorated_definition":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			inner := node.NamedChild(i)
			if t := inner.Type(); t == "function_definition" || t == "class_definition" {
				a.collectTopLevel(node, inner, content, inv)
			}
		}

	case "import_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			name, alias := importedName(node.NamedChild(i), content)
			if name == "" {
				continue
			}
			inv.Imports = append(inv.Imports, Import{Name: name, Alias: alias, Kind: "import"})
		}

	case "import_from_statement":
		moduleNode := node.ChildByFieldName("module_name")
		module := ""
		if moduleNode != nil {
			module = nodeText(moduleNode, content)
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
				continue
			}
			name, alias := importedName(child, content)
			if name == "" {
				continue
			}
			inv.Imports = append(inv.Imports, Import{Name: name, Alias: alias, Module: module, Kind: "from_import"})
		}
	}
}

// parseClass builds a Class from a class_definition node, inspecting only
// the direct body members: inherited and nested classes are skipped.
func (a *Analyzer) parseClass(outer, node *sitter.Node, content []byte) *Class {
	name := fieldText(node, "name", content)
	if name == "" {
		return nil
	}

	cls := &Class{
		Name:       name,
		Location:   spanOf(outer),
		Bases:      []string{},
		Methods:    []Function{},
		Attributes: []Attribute{},
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			if base := baseName(supers.NamedChild(i), content); base != "" {
				cls.Bases = append(cls.Bases, base)
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		outerMember := member
		if member.Type() == "decorated_definition" {
			for j := 0; j < int(member.NamedChildCount()); j++ {
				if inner := member.NamedChild(j); inner.Type() == "function_definition" {
					member = inner
					break
				}
			}
		}
		if member.Type() != "function_definition" {
			continue
		}

		method := Function{
			Name:      fieldText(member, "name", content),
			Location:  spanOf(outerMember),
			Arguments: parameterNames(member.ChildByFieldName("parameters"), content),
		}
		cls.Methods = append(cls.Methods, method)

		if method.Name == "__init__" {
			cls.Attributes = append(cls.Attributes, selfAssignments(member, content)...)
		}
	}
	return cls
}

// selfAssignments scans the direct statements of a constructor body for
// the `self.<name> = ...` shape and records one attribute per target.
func selfAssignments(fn *sitter.Node, content []byte) []Attribute {
	var attrs []Attribute
	body := fn.ChildByFieldName("body")
	if body == nil {
		return attrs
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			assign := stmt.NamedChild(j)
			if assign.Type() != "assignment" {
				continue
			}
			left := assign.ChildByFieldName("left")
			if left == nil || left.Type() != "attribute" {
				continue
			}
			object := left.ChildByFieldName("object")
			attr := left.ChildByFieldName("attribute")
			if object == nil || attr == nil || nodeText(object, content) != "self" {
				continue
			}
			attrs = append(attrs, Attribute{
				Name:     nodeText(attr, content),
				Location: spanOf(stmt),
			})
		}
	}
	return attrs
}

// baseName stringifies a base-class reference: a bare identifier stays as
// is, a dotted path is joined with ".".
func baseName(node *sitter.Node, content []byte) string {
	switch node.Type() {
	case "identifier":
		return nodeText(node, content)
	case "attribute":
		var parts []string
		current := node
		for current != nil && current.Type() == "attribute" {
			if attr := current.ChildByFieldName("attribute"); attr != nil {
				parts = append([]string{nodeText(attr, content)}, parts...)
			}
			current = current.ChildByFieldName("object")
		}
		if current != nil && current.Type() == "identifier" {
			parts = append([]string{nodeText(current, content)}, parts...)
		}
		return strings.Join(parts, ".")
	case "keyword_argument":
		// Metaclass arguments are not inheritance.
		return ""
	}
	return nodeText(node, content)
}

// parameterNames collects plain, typed and defaulted parameter names in
// declaration order; splat parameters are skipped, matching what the edit
// operations can address.
func parameterNames(params *sitter.Node, content []byte) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			names = append(names, nodeText(p, content))
		case "default_parameter", "typed_default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				names = append(names, nodeText(name, content))
			}
		case "typed_parameter":
			if inner := p.NamedChild(0); inner != nil && inner.Type() == "identifier" {
				names = append(names, nodeText(inner, content))
			}
		}
	}
	return names
}

func importedName(node *sitter.Node, content []byte) (name, alias string) {
	switch node.Type() {
	case "dotted_name", "relative_import":
		return nodeText(node, content), ""
	case "aliased_import":
		name = fieldText(node, "name", content)
		if a := node.ChildByFieldName("alias"); a != nil {
			alias = nodeText(a, content)
		}
		return name, alias
	case "wildcard_import":
		return "*", ""
	}
	return "", ""
}

// firstSyntaxError walks to the first ERROR or missing node and reports
// its position: 1-indexed line, 0-indexed column, mirroring what Python's
// own parser reports for a SyntaxError.
func firstSyntaxError(node *sitter.Node) (line, offset int, detail string) {
	if node.IsMissing() {
		return int(node.StartPoint().Row) + 1, int(node.StartPoint().Column),
			fmt.Sprintf("missing %s", node.Type())
	}
	if node.Type() == "ERROR" {
		return int(node.StartPoint().Row) + 1, int(node.StartPoint().Column), "invalid syntax"
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstSyntaxError(child)
		}
	}
	return int(node.StartPoint().Row) + 1, int(node.StartPoint().Column), "invalid syntax"
}

func spanOf(node *sitter.Node) Location {
	return Location{
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		StartCol:  int(node.StartPoint().Column),
		EndCol:    int(node.EndPoint().Column),
	}
}

func nodeText(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

func fieldText(node *sitter.Node, field string, content []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return nodeText(child, content)
}
