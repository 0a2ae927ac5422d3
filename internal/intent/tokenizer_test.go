package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordTokenizerStripsPunctuation(t *testing.T) {
	tokens := WordTokenizer{}.Tokenize("Rename Animal to Mammal, please.")
	var words []string
	for _, tok := range tokens {
		words = append(words, tok.Lower)
	}
	assert.Equal(t, []string{"rename", "animal", "to", "mammal", "please"}, words)
}

func TestWordTokenizerKeepsUnderscores(t *testing.T) {
	tokens := WordTokenizer{}.Tokenize("delete the function process_payment")
	assert.Equal(t, "process_payment", tokens[len(tokens)-1].Text)
}

func TestTaggingTokenizer(t *testing.T) {
	tokens := TaggingTokenizer{}.Tokenize("add the eat method to Animal")

	want := map[string]string{
		"add":    TagVerb,
		"the":    TagDeterminer,
		"eat":    TagNoun,
		"method": TagNoun,
		"to":     TagAdposition,
		"animal": TagNoun,
	}
	for _, tok := range tokens {
		assert.Equal(t, want[tok.Lower], tok.Tag, "token %q", tok.Text)
	}
}

func TestNewTokenizerSelection(t *testing.T) {
	assert.IsType(t, FieldsTokenizer{}, NewTokenizer("fields"))
	assert.IsType(t, TaggingTokenizer{}, NewTokenizer("tagging"))
	assert.IsType(t, WordTokenizer{}, NewTokenizer("anything-else"))
}
