package participle

import (
	"strings"
	"unicode"
)

// TokenKind distinguishes the two filter dimensions a token can drive.
type TokenKind string

const (
	KindObject    TokenKind = "object"    // matches an asset/object type name
	KindDimension TokenKind = "dimension" // matches a business dimension term
	KindPlain     TokenKind = "plain"
)

// Token is one cut of the submitted keyword, used to drive the stop-word filter UI.
type Token struct {
	Word string    `json:"word"`
	Kind TokenKind `json:"kind"`
}

// Cutter splits a keyword into tokens and classifies them against the known
// object-type and dimension vocabularies.
type Cutter struct {
	objectTerms    map[string]bool
	dimensionTerms map[string]bool
}

func NewCutter(objectTerms, dimensionTerms []string) *Cutter {
	c := &Cutter{
		objectTerms:    make(map[string]bool, len(objectTerms)),
		dimensionTerms: make(map[string]bool, len(dimensionTerms)),
	}
	for _, t := range objectTerms {
		c.objectTerms[strings.ToLower(t)] = true
	}
	for _, t := range dimensionTerms {
		c.dimensionTerms[strings.ToLower(t)] = true
	}
	return c
}

// Cut tokenizes a keyword. Separators are whitespace and punctuation; tokens
// keep their original casing, classification is case-insensitive.
func (c *Cutter) Cut(keyword string) []Token {
	fields := strings.FieldsFunc(keyword, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '_' && r != '-')
	})

	tokens := make([]Token, 0, len(fields))
	seen := make(map[string]bool)
	for _, f := range fields {
		lower := strings.ToLower(f)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		kind := KindPlain
		if c.objectTerms[lower] {
			kind = KindObject
		} else if c.dimensionTerms[lower] {
			kind = KindDimension
		}
		tokens = append(tokens, Token{Word: f, Kind: kind})
	}
	return tokens
}

// Remaining returns the words of tokens not present in the stop set, joined
// back into a ranking query.
func Remaining(tokens []Token, stopWords []string) string {
	stopped := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		stopped[strings.ToLower(w)] = true
	}

	var kept []string
	for _, t := range tokens {
		if !stopped[strings.ToLower(t.Word)] {
			kept = append(kept, t.Word)
		}
	}
	return strings.Join(kept, " ")
}
