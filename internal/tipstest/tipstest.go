// Package tipstest builds tip streams for tests: a Builder for hand-written streams and rapid generators
// of random valid streams.
package tipstest

import (
	"fmt"

	"github.com/bbtyping/go-typingtips/tips/api"
	"pgregory.net/rapid"
)

// Span is the index range [Start, End] (both inclusive) of one top-level word of a built stream.
type Span struct {
	Start, End int
}

// Len returns the number of characters in the span.
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Builder appends words to a tip stream.
type Builder struct {
	tokens []api.Token
	spans  []Span
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Tokens returns the built tip stream.
func (b *Builder) Tokens() []api.Token {
	return b.tokens
}

// Spans returns the top-level words appended so far, standalone characters included.
func (b *Builder) Spans() []Span {
	return b.spans
}

func ptr(s string) *string {
	return &s
}

// charCodes returns the given codes, or codes derived from wordsCode if none are given.
func charCodes(runes []rune, wordsCode string, codes []string) []string {
	if len(codes) == len(runes) {
		return codes
	}
	codes = make([]string, len(runes))
	for ii := range runes {
		codes[ii] = fmt.Sprintf("%s%d", wordsCode, ii)
	}
	return codes
}

// Single appends a standalone character.
func (b *Builder) Single(word, code string) *Builder {
	ii := len(b.tokens)
	b.tokens = append(b.tokens, api.Token{Word: word, WordCode: code, Next: ii})
	b.spans = append(b.spans, Span{ii, ii})
	return b
}

// Word appends a multi-character word whose last character references itself. codes are the per-character
// codes; if not given they are derived from wordsCode.
func (b *Builder) Word(text, wordsCode string, codes ...string) *Builder {
	return b.word(text, wordsCode, false, codes)
}

// WordBackRef is like Word, but the last character references the first one.
func (b *Builder) WordBackRef(text, wordsCode string, codes ...string) *Builder {
	return b.word(text, wordsCode, true, codes)
}

func (b *Builder) word(text, wordsCode string, backRef bool, codes []string) *Builder {
	runes := []rune(text)
	if len(runes) < 2 {
		panic(fmt.Sprintf("tipstest: word %q must have at least 2 characters", text))
	}
	codes = charCodes(runes, wordsCode, codes)
	start := len(b.tokens)
	end := start + len(runes) - 1
	for kk, r := range runes {
		next := end
		if kk == len(runes)-1 && backRef {
			next = start
		}
		b.tokens = append(b.tokens, api.Token{
			Word:      string(r),
			WordCode:  codes[kk],
			Words:     ptr(text),
			WordsCode: ptr(wordsCode),
			Next:      next,
		})
	}
	b.spans = append(b.spans, Span{start, end})
	return b
}

// Nested appends a multi-character word containing a nested word that spans characters
// [innerStart, innerEnd] of text, e.g. "好想" (1, 2) in "我好想你". The nested word must be strictly
// inside text: 0 < innerStart < innerEnd < len(text)-1.
func (b *Builder) Nested(text, wordsCode string, innerStart, innerEnd int, innerWordsCode string) *Builder {
	runes := []rune(text)
	if innerStart <= 0 || innerEnd <= innerStart || innerEnd >= len(runes)-1 {
		panic(fmt.Sprintf("tipstest: nested word [%d, %d] is not strictly inside %q", innerStart, innerEnd, text))
	}
	codes := charCodes(runes, wordsCode, nil)
	inner := string(runes[innerStart : innerEnd+1])
	start := len(b.tokens)
	end := start + len(runes) - 1
	for kk, r := range runes {
		tok := api.Token{
			Word:      string(r),
			WordCode:  codes[kk],
			Words:     ptr(text),
			WordsCode: ptr(wordsCode),
			Next:      end,
		}
		if kk >= innerStart && kk <= innerEnd {
			tok.Words = ptr(inner)
			tok.WordsCode = ptr(innerWordsCode)
			tok.Next = start + innerEnd
		}
		b.tokens = append(b.tokens, tok)
	}
	b.spans = append(b.spans, Span{start, end})
	return b
}

// Generated is a random valid tip stream along with its top-level words.
type Generated struct {
	Tokens []api.Token
	Spans  []Span
}

var sampleChars = []rune("忽如一夜春风来千树万梨花开我好想你")

// Stream generates random valid tip streams mixing standalone characters, words with self and back
// referencing ends, and words with a nested word.
func Stream() *rapid.Generator[Generated] {
	return rapid.Custom(func(t *rapid.T) Generated {
		b := New()
		numWords := rapid.IntRange(0, 8).Draw(t, "numWords")
		for w := range numWords {
			length := rapid.IntRange(1, 6).Draw(t, fmt.Sprintf("length%d", w))
			runes := make([]rune, length)
			for kk := range runes {
				runes[kk] = sampleChars[(len(b.tokens)+kk)%len(sampleChars)]
			}
			text := string(runes)
			code := fmt.Sprintf("w%d", w)
			switch {
			case length == 1:
				b.Single(text, code)
			case length >= 4 && rapid.Bool().Draw(t, fmt.Sprintf("nested%d", w)):
				innerStart := rapid.IntRange(1, length-3).Draw(t, fmt.Sprintf("innerStart%d", w))
				innerEnd := rapid.IntRange(innerStart+1, length-2).Draw(t, fmt.Sprintf("innerEnd%d", w))
				b.Nested(text, code, innerStart, innerEnd, code+"n")
			case rapid.Bool().Draw(t, fmt.Sprintf("backRef%d", w)):
				b.WordBackRef(text, code)
			default:
				b.Word(text, code)
			}
		}
		return Generated{Tokens: b.Tokens(), Spans: b.Spans()}
	})
}
