package intent

import (
	"strings"
	"unicode"
)

// Token is one word of an instruction. Tag is a coarse part-of-speech
// guess; only the TaggingTokenizer fills it in, the other strategies
// leave it as TagUnknown.
type Token struct {
	Text  string
	Lower string
	Tag   string
}

const (
	TagUnknown    = "UNKNOWN"
	TagVerb       = "VERB"
	TagNoun       = "NOUN"
	TagDeterminer = "DET"
	TagAdposition = "ADP"
)

// Tokenizer turns an instruction into tagged tokens. The parser treats
// the variants as interchangeable: they are selected once at construction
// time instead of being probed at call time.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// NewTokenizer returns the tokenizer registered under name, defaulting
// to the word tokenizer for unrecognized names.
func NewTokenizer(name string) Tokenizer {
	switch name {
	case "fields":
		return FieldsTokenizer{}
	case "tagging":
		return TaggingTokenizer{}
	default:
		return WordTokenizer{}
	}
}

// FieldsTokenizer splits on whitespace only, keeping punctuation glued to
// words. The simplest possible strategy, last resort.
type FieldsTokenizer struct{}

func (FieldsTokenizer) Tokenize(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, Token{Text: f, Lower: strings.ToLower(f), Tag: TagUnknown})
	}
	return tokens
}

// WordTokenizer scans unicode word runs, splitting trailing punctuation
// off so "Mammal." tokenizes as "Mammal". Underscores stay inside words
// because identifiers are the whole point here.
type WordTokenizer struct{}

func (WordTokenizer) Tokenize(text string) []Token {
	var tokens []Token
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		tokens = append(tokens, Token{Text: word, Lower: strings.ToLower(word), Tag: TagUnknown})
		current.Reset()
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// TaggingTokenizer wraps the word tokenizer with a coarse tag table:
// known command verbs, determiners and prepositions get fixed tags and
// everything else is assumed to be a noun. Good enough for the layered
// keyword matching downstream, which only reads token text anyway.
type TaggingTokenizer struct{}

var coarseTags = map[string]string{
	"add": TagVerb, "create": TagVerb, "implement": TagVerb, "define": TagVerb,
	"insert": TagVerb, "make": TagVerb, "remove": TagVerb, "delete": TagVerb,
	"eliminate": TagVerb, "modify": TagVerb, "change": TagVerb, "update": TagVerb,
	"alter": TagVerb, "rename": TagVerb, "call": TagVerb, "name": TagVerb,
	"get": TagVerb, "retrieve": TagVerb, "find": TagVerb, "show": TagVerb,
	"display": TagVerb, "override": TagVerb,

	"a": TagDeterminer, "an": TagDeterminer, "the": TagDeterminer,
	"this": TagDeterminer, "any": TagDeterminer,

	"to": TagAdposition, "from": TagAdposition, "in": TagAdposition,
	"into": TagAdposition, "with": TagAdposition, "of": TagAdposition,
	"by": TagAdposition, "for": TagAdposition,
}

func (TaggingTokenizer) Tokenize(text string) []Token {
	tokens := WordTokenizer{}.Tokenize(text)
	for i := range tokens {
		if tag, ok := coarseTags[tokens[i].Lower]; ok {
			tokens[i].Tag = tag
		} else {
			tokens[i].Tag = TagNoun
		}
	}
	return tokens
}
