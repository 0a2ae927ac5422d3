package intent

import (
	"regexp"
	"strings"
)

// actionEntry maps a base action to its trigger keywords. Order matters:
// the first action with a matching keyword wins, so the table is a slice
// rather than a map.
type actionEntry struct {
	action   string
	keywords []string
}

func defaultActionTable() []actionEntry {
	return []actionEntry{
		{"add", []string{"add", "create", "implement", "define", "insert", "make"}},
		{"remove", []string{"remove", "delete", "eliminate", "get rid of"}},
		{"modify", []string{"modify", "change", "update", "alter"}},
		{"rename", []string{"rename", "change name", "call", "name"}},
		{"get", []string{"get", "retrieve", "find", "show", "display"}},
	}
}

// Parser classifies instructions without any external model call. The
// tokenizer strategy is fixed at construction; the keyword tables can be
// extended with user synonyms from the config file.
type Parser struct {
	tokenizer Tokenizer
	actions   []actionEntry
}

// Option configures a Parser.
type Option func(*Parser)

// WithTokenizer selects the tokenizer strategy.
func WithTokenizer(t Tokenizer) Option {
	return func(p *Parser) { p.tokenizer = t }
}

// WithSynonyms merges extra keywords into the base-action table. Unknown
// action names are ignored.
func WithSynonyms(synonyms map[string][]string) Option {
	return func(p *Parser) {
		for i := range p.actions {
			if extra, ok := synonyms[p.actions[i].action]; ok {
				p.actions[i].keywords = append(p.actions[i].keywords, extra...)
			}
		}
	}
}

// NewParser builds a parser with the word tokenizer unless overridden.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		tokenizer: WordTokenizer{},
		actions:   defaultActionTable(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse maps one instruction to an Intent. Later blocks deliberately
// overwrite the action chosen by earlier ones: the loop, conditional and
// polymorphism triggers force their action whenever their phrase appears
// anywhere in the text, regardless of the composed base_target tag.
func (p *Parser) Parse(text string) Intent {
	lower := strings.ToLower(text)
	tokens := p.tokenizer.Tokenize(lower)

	in := Intent{}
	base := p.baseAction(lower, tokens)
	target := targetType(lower)

	switch {
	case base != "" && target != "":
		in.Action = base + "_" + target
	case base != "":
		in.Action = base
	default:
		in.Action = ActionUnknown
	}

	// Class and attribute additions read names from the original-case
	// text so new identifiers keep the user's casing. Everything below
	// extracts from the lower-cased text and relies on the normalizer's
	// case-insensitive resolution.
	if in.Action == ActionAddClass {
		if name := firstMatch(classNamePatterns, text); name != "" {
			in.ClassName = name
		}
		if attrs := extractAttributes(lower); len(attrs) > 0 {
			in.Attributes = attrs
		}
	}

	if in.Action == ActionAddAttribute {
		if attrs := extractAttributes(text); len(attrs) > 0 {
			in.AttributeName = attrs[0]
		}
		if cls := firstMatch(classForAttributePatterns, text); cls != "" {
			in.TargetClass = cls
		}
	}

	// "add a function in the Foo class" really means a method.
	if in.Action == ActionAddFunction &&
		strings.Contains(lower, "function") && strings.Contains(lower, "in") && strings.Contains(lower, "class") {
		in.Action = ActionAddMethod
	}

	switch {
	case strings.Contains(in.Action, "method") || strings.Contains(in.Action, "function"):
		if name := extractMethodOrFunctionName(lower); name != "" {
			in.MethodName = name
		}
		if base == "add" {
			if params := extractParameters(lower); len(params) > 0 {
				in.Parameters = params
			}
		}
		if cls := firstMatch(classNamePatterns, lower); cls != "" {
			in.TargetClass = cls
		}
	case strings.Contains(in.Action, "class"):
		if cls := firstMatch(classNamePatterns, lower); cls != "" {
			in.TargetClass = cls
		}
	case strings.Contains(in.Action, "attribute") || strings.Contains(in.Action, "property"):
		if attrs := extractAttributes(lower); len(attrs) > 0 {
			in.Attributes = attrs
		}
		if cls := firstMatch(classForAttributePatterns, lower); cls != "" {
			in.TargetClass = cls
		}
	}

	if base == "rename" {
		switch target {
		case "class":
			if old := extractOldClassName(lower); old != "" {
				in.OldName = old
			}
			if name := firstMatch(newClassNamePatterns, text); name != "" {
				in.NewName = name
			}
		case "method":
			if old := extractOldMethodName(lower); old != "" {
				in.MethodName = old
			}
			if name := firstMatch(newMethodNamePatterns, text); name != "" {
				in.NewMethodName = name
			}
			if cls := firstMatch(classForMethodPatterns, lower); cls != "" {
				in.TargetClass = cls
			}
		}
	}

	if strings.Contains(lower, "loop") || in.Action == ActionAddLoop {
		in.LoopType = extractLoopType(tokens)
		if container := extractContainerName(lower); container != "" {
			in.ContainerName = container
			if strings.Contains(lower, "method") {
				in.ContainerType = "method"
			} else {
				in.ContainerType = "function"
			}
		}
		in.Action = ActionAddLoop
	}

	if strings.Contains(lower, "conditional") || strings.Contains(lower, "if/else") ||
		strings.Contains(lower, "switch") || strings.Contains(lower, "statement") ||
		in.Action == ActionAddConditional {
		in.ConditionalType = extractConditionalType(lower)
		if container := extractContainerName(lower); container != "" {
			in.ContainerName = container
			if strings.Contains(lower, "method") {
				in.ContainerType = "method"
			} else {
				in.ContainerType = "function"
			}
		}
		in.Action = ActionAddConditional
	}

	if strings.Contains(in.Action, "inheritance") {
		if child := firstMatch(childClassPatterns, lower); child != "" {
			in.ChildClass = child
		}
		if parent := firstMatch(parentClassPatterns, lower); parent != "" {
			in.ParentClass = parent
		}
	}

	if strings.Contains(in.Action, "polymorphism") ||
		strings.Contains(lower, "override") || strings.Contains(lower, "polymorphism") {
		if name := firstMatch(overrideMethodPatterns, lower); name != "" {
			in.MethodName = name
		}
		if cls := firstMatch(classNamePatterns, lower); cls != "" {
			in.TargetClass = cls
		}
		in.Action = ActionAddPolymorphism
	}

	// Abstract methods and interface implementation escalate their
	// generic counterparts when the marker word is present.
	if strings.Contains(lower, "abstract") && in.Action == ActionAddMethod {
		in.Action = ActionAddAbstractMethod
	}
	if strings.Contains(lower, "interface") && (base == "add" || base == "modify") {
		if iface := firstMatch(interfaceClassPatterns, text); iface != "" {
			in.InterfaceClass = iface
		}
		if cls := firstMatch(implementTargetPatterns, text); cls != "" {
			in.TargetClass = cls
		}
		in.Action = ActionImplementInterface
	}

	return in
}

// baseAction scans the keyword table in order. Single-word keywords must
// be whole tokens (word-boundary check via token split, not substring);
// multi-word keywords match as space-bounded phrases. "modify" escalates
// to "rename" when the text also says "to" plus "rename" or "name" —
// catches the "change X to Y" phrasing.
func (p *Parser) baseAction(lower string, tokens []Token) string {
	has := func(word string) bool {
		for _, t := range tokens {
			if t.Lower == word {
				return true
			}
		}
		return false
	}
	for _, entry := range p.actions {
		for _, keyword := range entry.keywords {
			matched := false
			if strings.Contains(keyword, " ") {
				matched = strings.Contains(" "+lower+" ", " "+keyword+" ")
			} else {
				matched = has(keyword)
			}
			if !matched {
				continue
			}
			if entry.action == "modify" && strings.Contains(lower, "to") {
				if strings.Contains(lower, "rename") || strings.Contains(lower, "name") {
					return "rename"
				}
			}
			return entry.action
		}
	}
	return ""
}

// targetType resolves what the instruction acts on. The special cases
// run before the generic checks: loop and conditional phrasing beats
// "method"/"function" whenever a "to the" style connector is present,
// and polymorphism/inheritance markers beat everything generic.
func targetType(lower string) string {
	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	if containsAny("for loop", "while loop", " loop") && strings.Contains(lower, "to the") {
		return "loop"
	}
	if containsAny("if/else", "if-else", "switch/case", "conditional", "statement") && strings.Contains(lower, "to the") {
		return "conditional"
	}
	if containsAny("polymorphism", "override", "overload") {
		return "polymorphism"
	}
	if containsAny("inherit", "extends", "subclass") {
		return "inheritance"
	}
	if containsAny("standalone function", "function outside", "global function") {
		return "function"
	}
	if strings.Contains(lower, "method") && !containsAny("to the", "loop to", "conditional to", "statement to") {
		return "method"
	}
	if strings.Contains(lower, "function") && !containsAny("to the", "loop to", "conditional to", "statement to", "class") {
		return "function"
	}
	if containsAny("attribute", "property", "field") {
		return "attribute"
	}
	if strings.Contains(lower, "class") {
		return "class"
	}
	return ""
}

// =========================================================================
// Field extraction
//
// Each field has a priority-ordered pattern list tried top to bottom; the
// first match wins. Natural phrasing varies too much for one pattern, so
// specificity is encoded as list order with broad catch-alls last, and
// stop-word lists reject captures that are likely not names.
// =========================================================================

type fieldPattern struct {
	re     *regexp.Regexp
	reject []string
}

func pat(expr string, reject ...string) fieldPattern {
	return fieldPattern{re: regexp.MustCompile("(?i)" + expr), reject: reject}
}

func (fp fieldPattern) match(text string) string {
	m := fp.re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	captured := m[1]
	lower := strings.ToLower(captured)
	for _, stop := range fp.reject {
		if lower == stop {
			return ""
		}
	}
	return captured
}

func firstMatch(patterns []fieldPattern, text string) string {
	for _, fp := range patterns {
		if v := fp.match(text); v != "" {
			return v
		}
	}
	return ""
}

var (
	methodNamePatterns = []fieldPattern{
		pat(`(?:method|function)\s+(?:called|named)\s+(\w+)`),
		pat(`the\s+(\w+)\s+(?:method|function)`),
		pat(`a\s+(\w+)\s+(?:method|function)`),
		pat(`(?:method|function)\s+(?:named|called)?\s*(\w+)`, "called", "named"),
	}

	classNamePatterns = []fieldPattern{
		pat(`(\w+)\s+class`, "a", "the", "new", "any"),
		pat(`class\s+(?:called|named)\s+(\w+)`),
		pat(`(?:in|to|from)\s+(?:the\s+)?(\w+)\s+class`),
		pat(`(?:a\s+(?:new\s+)?)?class\s+(\w+)(?:\s|$)`),
	}

	parameterListPattern = regexp.MustCompile(`(?i)with\s+parameters?\s+([\w\s,]+?)(?:\s+(?:in|to)\s|$)`)
	parameterSplit       = regexp.MustCompile(`,|\s+and\s+`)
	trailingClassRef     = regexp.MustCompile(`(?i)\s+(?:to|in)\s+\w+\s+class$`)

	attributeSinglePattern = pat(`(?:an?\s+)?attribute\s+(\w+)`, "to", "from", "in", "named", "called")
	attributeListPattern   = regexp.MustCompile(`(?i)attributes?\s+([\w\s,]+?)(?:\s+(?:to|from)\s|$)`)
	attributeCalledPattern = pat(`attribute\s+(?:called|named)\s+(\w+)`)
	attributeSuffixPattern = pat(`(?:the\s+)?(\w+)\s+attribute`, "an", "a", "the", "new", "add")
	attributeAddToPattern  = pat(`add\s+(\w+)\s+to`, "an", "a", "the", "attribute")

	classForAttributePatterns = []fieldPattern{
		pat(`(?:to|from)\s+(?:the\s+)?(\w+)\s+class`),
	}

	classForMethodPatterns = []fieldPattern{
		pat(`in\s+(?:the\s+)?(\w+)\s+class`),
	}

	oldClassNamePatterns = []fieldPattern{
		pat(`rename\s+(?:the\s+)?(\w+)\s+class`, "named", "called", "the"),
		pat(`rename\s+(?:the\s+)?class\s+(?:named|called)\s+(\w+)`),
		pat(`class\s+(\w+)`, "named", "called", "the"),
	}

	newClassNamePatterns = []fieldPattern{
		pat(`to\s+(\w+)(?:\s+class)?`),
		pat(`as\s+(\w+)(?:\s+class)?`),
	}

	oldMethodNamePatterns = []fieldPattern{
		pat(`rename\s+(?:the\s+)?(\w+)\s+method`),
		pat(`rename\s+(?:the\s+)?method\s+(?:called|named)?\s*(\w+)`),
		pat(`method\s+(?:called|named)\s+(\w+)`),
	}

	newMethodNamePatterns = []fieldPattern{
		pat(`to\s+(\w+)(?:\s+in)?`),
	}

	containerNamePatterns = []fieldPattern{
		pat(`to\s+(?:the\s+)?(\w+)\s+(?:method|function)`),
		pat(`(?:the\s+)?(\w+)\s+(?:method|function)`, "a", "the", "for", "while", "add"),
	}

	childClassPatterns = []fieldPattern{
		pat(`make\s+(?:the\s+)?(\w+)\s+class\s+inherit`),
	}

	parentClassPatterns = []fieldPattern{
		pat(`from\s+(?:the\s+)?(\w+)\s+class`),
	}

	overrideMethodPatterns = []fieldPattern{
		pat(`override\s+(?:the\s+)?(\w+)\s+method`),
		pat(`(?:the\s+)?(\w+)\s+method`),
	}

	interfaceClassPatterns = []fieldPattern{
		pat(`(?:the\s+)?(\w+)\s+interface`, "a", "an", "the"),
		pat(`implement\s+(?:the\s+)?(\w+)`, "a", "an", "the"),
	}

	implementTargetPatterns = []fieldPattern{
		pat(`make\s+(?:the\s+)?(\w+)\s+class`),
		pat(`(?:in|on|for)\s+(?:the\s+)?(\w+)\s+class`),
		pat(`(\w+)\s+class`, "a", "the", "new", "any"),
	}
)

func extractMethodOrFunctionName(lower string) string {
	return firstMatch(methodNamePatterns, lower)
}

func extractParameters(lower string) []string {
	m := parameterListPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	var params []string
	for _, raw := range parameterSplit.Split(m[1], -1) {
		p := strings.TrimSpace(raw)
		if p == "" || p == "in" || p == "to" || p == "from" {
			continue
		}
		p = trailingClassRef.ReplaceAllString(p, "")
		params = append(params, p)
	}
	return params
}

func extractAttributes(text string) []string {
	if v := attributeSinglePattern.match(text); v != "" {
		return []string{v}
	}
	if m := attributeListPattern.FindStringSubmatch(text); m != nil {
		var attrs []string
		for _, raw := range parameterSplit.Split(m[1], -1) {
			a := strings.TrimSpace(raw)
			lower := strings.ToLower(a)
			if a == "" || strings.Contains(lower, "class") ||
				strings.Contains(lower, "to") || strings.Contains(lower, "from") {
				continue
			}
			attrs = append(attrs, a)
		}
		if len(attrs) > 0 {
			return attrs
		}
	}
	if v := attributeCalledPattern.match(text); v != "" {
		return []string{v}
	}
	if v := attributeSuffixPattern.match(text); v != "" {
		return []string{v}
	}
	if v := attributeAddToPattern.match(text); v != "" {
		return []string{v}
	}
	return nil
}

func extractOldClassName(lower string) string {
	return firstMatch(oldClassNamePatterns, lower)
}

func extractOldMethodName(lower string) string {
	return firstMatch(oldMethodNamePatterns, lower)
}

func extractLoopType(tokens []Token) string {
	sawWhile := false
	for _, t := range tokens {
		switch t.Lower {
		case "for":
			return "for"
		case "while":
			sawWhile = true
		}
	}
	if sawWhile {
		return "while"
	}
	return "for"
}

func extractConditionalType(lower string) string {
	if strings.Contains(lower, "switch") || strings.Contains(lower, "case") {
		return "switch"
	}
	return "if_else"
}

func extractContainerName(lower string) string {
	return firstMatch(containerNamePatterns, lower)
}
