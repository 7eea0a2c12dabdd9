package render

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strconv"

	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/mattn/go-runewidth"
)

// Describe returns the full annotation record of tok as "key - value" lines sorted by key, with the keys
// padded to the same width. Absent values are shown as null.
func Describe(tok api.Token) []string {
	values := map[string]string{
		api.KeyNext:      strconv.Itoa(tok.Next),
		api.KeyWord:      tok.Word,
		api.KeyWordCode:  tok.WordCode,
		api.KeyWords:     optional(tok.Words),
		api.KeyWordsCode: optional(tok.WordsCode),
		api.KeyType:      optional(tok.Type),
	}
	for key, raw := range tok.Extra {
		values[key] = rawValue(raw)
	}
	keys := slices.Sorted(maps.Keys(values))
	keyCells := 0
	for _, key := range keys {
		keyCells = max(keyCells, runewidth.StringWidth(key))
	}
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, runewidth.FillRight(key, keyCells)+" - "+values[key])
	}
	return lines
}

func optional(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}

// rawValue formats strings and numbers as is, and anything else as compact JSON.
func rawValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "null"
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}
