package probe

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrNoDomains is returned when a batch resolves to zero domains.
	ErrNoDomains = errors.New("no domains provided")
	// ErrInvalidInput is returned when the domains field is neither text nor a list of strings.
	ErrInvalidInput = errors.New("invalid input format")
)

// InputKind tags how a batch of domains was supplied.
type InputKind int

const (
	// RawText is a newline-delimited block of domains.
	RawText InputKind = iota + 1
	// StructuredList is an explicit list of domain strings.
	StructuredList
)

// Input is a batch of domains in one of the accepted shapes.
type Input struct {
	Kind InputKind
	Text string
	List []string
}

// TextInput wraps a newline-delimited block.
func TextInput(text string) Input {
	return Input{Kind: RawText, Text: text}
}

// ListInput wraps an explicit list.
func ListInput(domains []string) Input {
	return Input{Kind: StructuredList, List: domains}
}

// Domains resolves the input to the ordered sequence that will be probed.
func (in Input) Domains() []string {
	switch in.Kind {
	case RawText:
		return SplitLines(in.Text)
	case StructuredList:
		out := make([]string, len(in.List))
		copy(out, in.List)
		return out
	default:
		return nil
	}
}

// ParseInput decodes the JSON value of a "domains" field. A string is treated
// as raw text, an array of strings as a structured list; anything else is rejected.
func ParseInput(raw json.RawMessage) (Input, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Input{}, ErrNoDomains
	}

	var in Input
	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Input{}, ErrInvalidInput
		}
		in = TextInput(text)
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return Input{}, ErrInvalidInput
		}
		in = ListInput(list)
	default:
		return Input{}, ErrInvalidInput
	}

	if len(in.Domains()) == 0 {
		return Input{}, ErrNoDomains
	}
	return in, nil
}

// MarshalJSON encodes the input back into its wire shape.
func (in Input) MarshalJSON() ([]byte, error) {
	if in.Kind == RawText {
		return json.Marshal(in.Text)
	}
	if in.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(in.List)
}

// SplitLines returns the trimmed, non-blank lines of text.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
