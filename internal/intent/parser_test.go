package intent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommands(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name    string
		command string
		want    Intent
	}{
		{
			name:    "add method with parameter",
			command: "Add a method called eat with parameter food to Animal class",
			want: Intent{
				Action:      ActionAddMethod,
				MethodName:  "eat",
				Parameters:  []string{"food"},
				TargetClass: "animal",
			},
		},
		{
			name:    "remove method",
			command: "Delete the run method from the Dog class",
			want: Intent{
				Action:      ActionRemoveMethod,
				MethodName:  "run",
				TargetClass: "dog",
			},
		},
		{
			name:    "add class keeps declared casing",
			command: "Add a class called Customer",
			want: Intent{
				Action:      ActionAddClass,
				ClassName:   "Customer",
				TargetClass: "customer",
			},
		},
		{
			name:    "remove class",
			command: "Remove the Person class",
			want: Intent{
				Action:      ActionRemoveClass,
				TargetClass: "person",
			},
		},
		{
			name:    "add attribute list takes first as primary",
			command: "Add attributes name, age, and address to User class",
			want: Intent{
				Action:        ActionAddAttribute,
				AttributeName: "name",
				Attributes:    []string{"name", "age", "address"},
				TargetClass:   "user",
			},
		},
		{
			name:    "remove attribute by suffix phrasing",
			command: "Remove the email attribute from Customer class",
			want: Intent{
				Action:      ActionRemoveAttribute,
				Attributes:  []string{"email"},
				TargetClass: "customer",
			},
		},
		{
			name:    "rename method",
			command: "Rename the speak method to talk in the Person class",
			want: Intent{
				Action:        ActionRenameMethod,
				MethodName:    "speak",
				NewMethodName: "talk",
				TargetClass:   "person",
			},
		},
		{
			name:    "rename class keeps new-name casing",
			command: "Rename the User class to Customer",
			want: Intent{
				Action:      ActionRenameClass,
				TargetClass: "user",
				OldName:     "user",
				NewName:     "Customer",
			},
		},
		{
			name:    "remove standalone function",
			command: "Delete the function process_payment",
			want: Intent{
				Action:     ActionRemoveFunction,
				MethodName: "process_payment",
			},
		},
		{
			name:    "for loop into method",
			command: "Add a for loop to the process_items method",
			want: Intent{
				Action:        ActionAddLoop,
				LoopType:      "for",
				ContainerName: "process_items",
				ContainerType: "method",
			},
		},
		{
			name:    "while loop into function",
			command: "Add a while loop to the read_file function",
			want: Intent{
				Action:        ActionAddLoop,
				LoopType:      "while",
				ContainerName: "read_file",
				ContainerType: "function",
			},
		},
		{
			name:    "if else conditional",
			command: "Add if/else conditional to the validate method",
			want: Intent{
				Action:          ActionAddConditional,
				ConditionalType: "if_else",
				ContainerName:   "validate",
				ContainerType:   "method",
			},
		},
		{
			name:    "switch statement forces conditional",
			command: "Add a switch/case statement to handle_action function",
			want: Intent{
				Action:          ActionAddConditional,
				ConditionalType: "switch",
				ContainerName:   "handle_action",
				ContainerType:   "function",
			},
		},
		{
			name:    "inheritance",
			command: "Make Customer class inherit from Person class",
			want: Intent{
				Action:      ActionAddInheritance,
				ChildClass:  "customer",
				ParentClass: "person",
			},
		},
		{
			name:    "polymorphism by overriding",
			command: "Add polymorphism by overriding speak method",
			want: Intent{
				Action:     ActionAddPolymorphism,
				MethodName: "speak",
			},
		},
		{
			name:    "abstract method escalation",
			command: "Add abstract method process to BaseHandler class",
			want: Intent{
				Action:      ActionAddAbstractMethod,
				MethodName:  "process",
				TargetClass: "basehandler",
			},
		},
		{
			name:    "implement interface",
			command: "Make Customer class implement the Printable interface",
			want: Intent{
				Action:         ActionImplementInterface,
				ClassName:      "Customer",
				TargetClass:    "Customer",
				InterfaceClass: "Printable",
			},
		},
		{
			name:    "unclassifiable text",
			command: "what is the weather like today",
			want:    Intent{Action: ActionUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.command)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.command, diff)
			}
		})
	}
}

// A loop phrase overrides whatever action the base tables composed, even
// when the verb alone would have classified as something else.
func TestParseLoopOverridesBaseAction(t *testing.T) {
	got := NewParser().Parse("Change the process_items method to use a for loop")
	if got.Action != ActionAddLoop {
		t.Fatalf("Action = %q, want %q", got.Action, ActionAddLoop)
	}
}

func TestParseMultiWordKeywords(t *testing.T) {
	got := NewParser().Parse("Get rid of the cleanup method from the Worker class")
	if got.Action != ActionRemoveMethod {
		t.Fatalf("Action = %q, want %q", got.Action, ActionRemoveMethod)
	}
	if got.MethodName != "cleanup" {
		t.Errorf("MethodName = %q, want %q", got.MethodName, "cleanup")
	}
}

func TestParseWithSynonyms(t *testing.T) {
	parser := NewParser(WithSynonyms(map[string][]string{
		"remove": {"nuke"},
	}))
	got := parser.Parse("Nuke the debug method from the Logger class")
	if got.Action != ActionRemoveMethod {
		t.Fatalf("Action = %q, want %q", got.Action, ActionRemoveMethod)
	}
}

func TestExtractParameters(t *testing.T) {
	tests := []struct {
		command string
		want    []string
	}{
		{"add a method called eat with parameter food to animal class", []string{"food"}},
		{"create calculate_area with parameters width and height in rectangle class", []string{"width", "height"}},
		{"add a method called log with parameters level, message and source", []string{"level", "message", "source"}},
		{"add a method called reset", nil},
	}
	for _, tt := range tests {
		if got := extractParameters(tt.command); !cmp.Equal(tt.want, got) {
			t.Errorf("extractParameters(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}
