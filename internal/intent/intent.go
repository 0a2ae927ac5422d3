// Package intent turns free-text editing instructions into structured
// edit intents. Classification is layered: a base-action keyword table,
// a target-type cascade with special cases checked before the generic
// table, and per-field priority-ordered pattern lists where the first
// match wins. Later layers may overwrite earlier decisions — loop,
// conditional and polymorphism triggers force their action outright —
// which acts as increasingly specific overrides.
//
// The parser never fails: an instruction it cannot classify comes back
// with ActionUnknown, and a field it cannot extract stays empty. Missing
// fields only become errors at the mutation stage.
package intent

// Action tags. Composite tags are "<base>_<target>"; loop, conditional
// and polymorphism use fixed literals.
const (
	ActionUnknown = "unknown"

	ActionAddMethod    = "add_method"
	ActionRemoveMethod = "remove_method"
	ActionRenameMethod = "rename_method"

	ActionAddClass    = "add_class"
	ActionRemoveClass = "remove_class"
	ActionRenameClass = "rename_class"

	ActionAddAttribute    = "add_attribute"
	ActionRemoveAttribute = "remove_attribute"

	ActionAddFunction    = "add_function"
	ActionRemoveFunction = "remove_function"

	ActionAddLoop        = "add_loop"
	ActionAddConditional = "add_conditional"

	ActionAddInheritance     = "add_inheritance"
	ActionAddPolymorphism    = "add_polymorphism"
	ActionImplementInterface = "implement_interface"
	ActionAddAbstractMethod  = "add_abstract_method"
)

// Intent is the structured form of one instruction: an action tag plus
// whatever typed parameters the extraction patterns managed to fill in.
// Absent fields are zero values, not errors. Several fields are synonyms
// grown from different extraction paths (OldName/TargetClass,
// NewName/NewClassName, MethodName/OldName); Normalize reconciles them
// so mutation backends only ever read the canonical pair.
type Intent struct {
	Action string `json:"action"`

	ClassName    string `json:"class_name,omitempty"`
	TargetClass  string `json:"target_class,omitempty"`
	NewClassName string `json:"new_class_name,omitempty"`

	MethodName    string `json:"method_name,omitempty"`
	NewMethodName string `json:"new_method_name,omitempty"`
	FunctionName  string `json:"function_name,omitempty"`

	OldName string `json:"old_name,omitempty"`
	NewName string `json:"new_name,omitempty"`

	AttributeName string   `json:"attribute_name,omitempty"`
	Attributes    []string `json:"attributes,omitempty"`
	Parameters    []string `json:"parameters,omitempty"`

	LoopType        string `json:"loop_type,omitempty"`
	ConditionalType string `json:"conditional_type,omitempty"`
	ContainerName   string `json:"container_name,omitempty"`
	ContainerType   string `json:"container_type,omitempty"`

	ChildClass     string `json:"child_class,omitempty"`
	ParentClass    string `json:"parent_class,omitempty"`
	InterfaceClass string `json:"interface_class,omitempty"`

	// SkipParameter suppresses rewriting the constructor signature when
	// adding an attribute. The default (false) rewrites it.
	SkipParameter bool `json:"skip_parameter,omitempty"`
}
