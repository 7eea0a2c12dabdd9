package api

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	"github.com/pkg/errors"
)

// Token is the annotation of one character of the source text. Tokens are immutable once the tip stream
// is produced; the index of a token is its position in the stream.
type Token struct {
	// Word is the single character this token represents.
	Word string

	// WordCode is the input-method code for Word alone.
	WordCode string

	// Words is the full text of the multi-character word this character belongs to, nil if none.
	Words *string

	// WordsCode is the input-method code for Words, nil if Words is nil.
	WordsCode *string

	// Type is a free-form tag from the annotation source, passed through unchanged.
	Type *string

	// Next encodes word grouping:
	//
	//   - Next > index: the token is a non-final member of a word whose last index is Next.
	//   - Next == index: the token is either a standalone character, or the last character of a word.
	//   - Next < index: the token is the last character of a word that starts at Next.
	Next int

	// Extra holds any further fields of the annotation record, keyed by their JSON name.
	Extra map[string]json.RawMessage
}

// Known JSON keys of the annotation record.
const (
	KeyWord      = "word"
	KeyWordCode  = "wordCode"
	KeyWords     = "words"
	KeyWordsCode = "wordsCode"
	KeyType      = "type"
	KeyNext      = "next"
)

// Code returns the code to type for this token: WordsCode if set and not empty, WordCode otherwise.
func (t Token) Code() string {
	if t.HasWordsCode() {
		return *t.WordsCode
	}
	return t.WordCode
}

// HasWordsCode reports whether the token carries a non-empty whole-word code.
func (t Token) HasWordsCode() bool {
	return t.WordsCode != nil && *t.WordsCode != ""
}

// InWord reports whether the token is annotated as part of a multi-character word.
func (t Token) InWord() bool {
	return t.Words != nil
}

// UnmarshalJSON implements json.Unmarshaler. Unknown keys are preserved in Extra.
func (t *Token) UnmarshalJSON(data []byte) error {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		return errors.Wrapf(err, "failed to parse tip record")
	}
	if record == nil {
		return errors.Errorf("tip record is null")
	}
	rawNext, found := record[KeyNext]
	if !found {
		return errors.Errorf("tip record is missing %q", KeyNext)
	}
	var tok Token
	if err := json.Unmarshal(rawNext, &tok.Next); err != nil {
		return errors.Wrapf(err, "invalid %q in tip record", KeyNext)
	}
	fields := []struct {
		key      string
		str      *string
		optional **string
	}{
		{key: KeyWord, str: &tok.Word},
		{key: KeyWordCode, str: &tok.WordCode},
		{key: KeyWords, optional: &tok.Words},
		{key: KeyWordsCode, optional: &tok.WordsCode},
		{key: KeyType, optional: &tok.Type},
	}
	for _, f := range fields {
		raw, found := record[f.key]
		if !found {
			continue
		}
		var err error
		if f.str != nil {
			err = json.Unmarshal(raw, f.str)
		} else {
			err = json.Unmarshal(raw, f.optional)
		}
		if err != nil {
			return errors.Wrapf(err, "invalid %q in tip record", f.key)
		}
	}
	for key, raw := range record {
		switch key {
		case KeyWord, KeyWordCode, KeyWords, KeyWordsCode, KeyType, KeyNext:
			continue
		}
		if tok.Extra == nil {
			tok.Extra = make(map[string]json.RawMessage)
		}
		tok.Extra[key] = raw
	}
	*t = tok
	return nil
}

// MarshalJSON implements json.Marshaler. Known fields are written first, followed by Extra in key order.
func (t Token) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(value)
		if err != nil {
			return errors.Wrapf(err, "failed to encode %q", key)
		}
		buf.Write(v)
		return nil
	}
	known := []struct {
		key   string
		value any
	}{
		{KeyNext, t.Next},
		{KeyWord, t.Word},
		{KeyWordCode, t.WordCode},
		{KeyWords, t.Words},
		{KeyWordsCode, t.WordsCode},
		{KeyType, t.Type},
	}
	for _, f := range known {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	for _, key := range slices.Sorted(maps.Keys(t.Extra)) {
		if err := write(key, t.Extra[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
