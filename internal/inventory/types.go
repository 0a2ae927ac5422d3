package inventory

// Status reports whether a source file could be parsed at all.
// Consumers must check it before indexing into Classes or Functions:
// the boundary between "could not parse" and "parsed but empty" is
// load-bearing for every downstream component.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Location addresses a construct in the original, unmutated source.
// Lines are 1-indexed and inclusive; columns are 0-indexed byte offsets
// within the line, as reported by the parser. Locations become stale the
// instant any line above them is inserted or deleted, so each mutation
// operation performs at most one line-indexed splice per transaction.
type Location struct {
	StartLine int `json:"line_start"`
	EndLine   int `json:"line_end"`
	StartCol  int `json:"col_start"`
	EndCol    int `json:"col_end"`
}

// Function describes a module-level function or a class method.
type Function struct {
	Name      string   `json:"name"`
	Location  Location `json:"location"`
	Arguments []string `json:"arguments"`
}

// Attribute describes a `self.<name> = ...` assignment found in a
// class constructor.
type Attribute struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Class describes a module-level class definition.
type Class struct {
	Name       string      `json:"name"`
	Location   Location    `json:"location"`
	Bases      []string    `json:"bases"`
	Methods    []Function  `json:"methods"`
	Attributes []Attribute `json:"attributes"`
}

// Import describes a single imported name. Kind is "import" for plain
// imports and "from_import" for from-imports, in which case Module
// carries the source module.
type Import struct {
	Name   string `json:"name"`
	Alias  string `json:"alias,omitempty"`
	Module string `json:"module,omitempty"`
	Kind   string `json:"type"`
}

// Inventory is the structural snapshot of one source text. It is rebuilt
// fresh on every Analyze call and never mutated in place; a mutation that
// shifts line numbers re-analyzes the new text instead of patching offsets.
type Inventory struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Line    int    `json:"line,omitempty"`
	Offset  int    `json:"offset,omitempty"`

	Classes   map[string]*Class `json:"classes,omitempty"`
	Functions []Function        `json:"functions,omitempty"`
	Imports   []Import          `json:"imports,omitempty"`

	// classOrder preserves declaration order. Go maps iterate randomly,
	// but case-insensitive resolution promises "first match wins" in
	// source order, so the order is tracked separately.
	classOrder []string
}

// ClassNames returns class names in declaration order.
func (inv *Inventory) ClassNames() []string {
	out := make([]string, len(inv.classOrder))
	copy(out, inv.classOrder)
	return out
}

// Class returns the class with the exact given name, or nil.
func (inv *Inventory) Class(name string) *Class {
	if inv.Classes == nil {
		return nil
	}
	return inv.Classes[name]
}

// ResolveClass looks a class up by exact name first, then
// case-insensitively in declaration order. It returns the canonical-cased
// class, or nil when no casing variant matches.
func (inv *Inventory) ResolveClass(name string) *Class {
	if c := inv.Class(name); c != nil {
		return c
	}
	lower := lowerASCII(name)
	for _, candidate := range inv.classOrder {
		if lowerASCII(candidate) == lower {
			return inv.Classes[candidate]
		}
	}
	return nil
}

// Function returns the module-level function with the given name, or nil.
func (inv *Inventory) Function(name string) *Function {
	for i := range inv.Functions {
		if inv.Functions[i].Name == name {
			return &inv.Functions[i]
		}
	}
	return nil
}

// Method returns the method with the given name on c, matched exactly
// first and case-insensitively second.
func (c *Class) Method(name string) *Function {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	lower := lowerASCII(name)
	for i := range c.Methods {
		if lowerASCII(c.Methods[i].Name) == lower {
			return &c.Methods[i]
		}
	}
	return nil
}

// Attribute returns the attribute with the given name on c, matched
// case-insensitively.
func (c *Class) Attribute(name string) *Attribute {
	lower := lowerASCII(name)
	for i := range c.Attributes {
		if lowerASCII(c.Attributes[i].Name) == lower {
			return &c.Attributes[i]
		}
	}
	return nil
}

// Constructor returns the __init__ method of c, or nil.
func (c *Class) Constructor() *Function {
	for i := range c.Methods {
		if c.Methods[i].Name == "__init__" {
			return &c.Methods[i]
		}
	}
	return nil
}

// HasBase reports whether name appears in the class's base list.
func (c *Class) HasBase(name string) bool {
	for _, b := range c.Bases {
		if b == name {
			return true
		}
	}
	return false
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + ('a' - 'A')
		}
	}
	return string(b)
}
