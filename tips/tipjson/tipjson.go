// Package tipjson reads and writes tip streams in the JSON format of the typing tips service.
//
// The service wraps the tip stream in an envelope:
//
//	{"code": 200, "message": "ok", "result": [{"word": "忽", "wordCode": "hu", "next": 0, ...}, ...]}
//
// A bare JSON array of tip records is accepted as well.
package tipjson

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/bbtyping/go-typingtips/tips/api"
	"github.com/pkg/errors"
)

// CodeOK is the envelope code of a successful response.
const CodeOK = 200

// Stream is a decoded tip stream envelope.
type Stream struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Result  []api.Token `json:"result"`
}

// OK reports whether the envelope code signals success.
func (s *Stream) OK() bool {
	return s.Code == CodeOK
}

// NewFromFile reads a tip stream from a local JSON file.
func NewFromFile(filePath string) (*Stream, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tip stream file %q", filePath)
	}
	stream, err := NewFromContent(content)
	if err != nil {
		return nil, errors.WithMessagef(err, "in file %q", filePath)
	}
	return stream, nil
}

// NewFromContent parses a tip stream from JSON content, either an envelope or a bare array of records.
// A bare array is returned as a Stream with CodeOK.
func NewFromContent(content []byte) (*Stream, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, errors.Errorf("empty tip stream content")
	}
	if trimmed[0] == '[' {
		var tokens []api.Token
		if err := json.Unmarshal(trimmed, &tokens); err != nil {
			return nil, errors.Wrapf(err, "failed to parse tip stream array")
		}
		return &Stream{Code: CodeOK, Result: tokens}, nil
	}
	var stream Stream
	if err := json.Unmarshal(trimmed, &stream); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tip stream envelope")
	}
	return &stream, nil
}

// Marshal encodes tokens as a successful envelope, the same format NewFromContent reads.
func Marshal(tokens []api.Token) ([]byte, error) {
	if tokens == nil {
		tokens = []api.Token{}
	}
	content, err := json.MarshalIndent(&Stream{Code: CodeOK, Message: "ok", Result: tokens}, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode tip stream")
	}
	return content, nil
}
