package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Apple":     "apple",
		"ball,":     "ball",
		"(carrot)":  "carrot",
		"don't":     "don't",
		"\"Don't!\"": "don't",
		"  dog  ":   "dog",
		"...":       "",
		"":          "",
		"e-mail":    "e-mail",
		"--x--":     "x",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "File 1 Title", Title("  File 1 Title\n"))
	assert.Equal(t, "Hello, World", Title("\"Hello, World!\""))
	assert.Equal(t, "", Title("!!!"))
}

func TestTokenizeLines(t *testing.T) {
	tokens := TokenizeLines([]string{"File 1 Title", "apple, ball; carrot.", "-- --"})

	terms := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		assert.Equal(t, i, tok.Position)
		terms = append(terms, tok.Term)
	}
	assert.Equal(t, []string{"file", "1", "title", "apple", "ball", "carrot"}, terms)
}

func TestTokenizeSplitsOnAnyWhitespace(t *testing.T) {
	tokens := Tokenize("one\ttwo\nthree  four")
	assert.Len(t, tokens, 4)
	assert.Equal(t, "three", tokens[2].Term)
}

func TestFieldsKeepsPunctuation(t *testing.T) {
	assert.Equal(t, []string{"apple,", "carrot"}, Fields("  Apple,   CARROT "))
	assert.Empty(t, Fields("   "))
}

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Search engines keep an inverted index that maps each term to the
        documents containing it. A conjunctive query intersects the posting
        lists of its terms; documents that miss any term are discarded, and
        punctuation at the edges of words (commas, quotes, parentheses) is
        stripped before terms are stored.`,
	"long": strings.Repeat(`Information retrieval systems normalise text into searchable
        terms. The first line of each article is its title, and every line,
        title included, is split on whitespace, lowercased and trimmed of
        surrounding punctuation. Interior punctuation such as don't or e-mail
        survives unchanged. `, 20),
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = Tokenize(text)
			}
		})
	}
}

func BenchmarkNormalize(b *testing.B) {
	words := strings.Fields(sampleTexts["medium"])
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Normalize(words[i%len(words)])
	}
}
