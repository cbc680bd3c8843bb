// Package tokenizer provides text tokenisation for the search engine.
// Lines are split on whitespace and every token is lower-cased and trimmed
// of surrounding punctuation. Interior punctuation is kept, so "don't"
// stays a single term.
package tokenizer

import (
	"strings"
	"unicode"
)

// Punctuation is the set of characters stripped from token and title edges.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Token represents a single normalised term and its position within the
// document it was read from.
type Token struct {
	Term     string
	Position int
}

// Normalize lower-cases a token and strips surrounding whitespace and
// punctuation. It returns "" when nothing is left.
func Normalize(word string) string {
	return strings.Trim(strings.TrimSpace(strings.ToLower(word)), Punctuation)
}

// Title returns the display title for a document's first line: surrounding
// whitespace and punctuation removed, case preserved.
func Title(line string) string {
	return strings.Trim(strings.TrimSpace(line), Punctuation)
}

// TokenizeLines normalises every whitespace-separated word in lines and
// returns the non-empty terms with positions counted across all lines.
func TokenizeLines(lines []string) []Token {
	tokens := make([]Token, 0, len(lines)*8)
	pos := 0
	for _, line := range lines {
		for _, word := range splitLine(line) {
			term := Normalize(word)
			if term == "" {
				continue
			}
			tokens = append(tokens, Token{Term: term, Position: pos})
			pos++
		}
	}
	return tokens
}

// Tokenize is TokenizeLines over a single block of text.
func Tokenize(text string) []Token {
	return TokenizeLines(strings.Split(text, "\n"))
}

// Fields lower-cases text and splits it on whitespace without stripping
// punctuation. Queries are split this way by default.
func Fields(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), unicode.IsSpace)
}

// splitLine trims the line as a whole before splitting, so a sentence
// wrapped in quotes loses them before its words are looked at.
func splitLine(line string) []string {
	return strings.Fields(strings.Trim(strings.TrimSpace(line), Punctuation))
}
