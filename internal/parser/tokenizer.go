package parser

import "strings"

// tokenizer yields the space-delimited tokens of a call. Runs of spaces
// count as one separator. Tokens are cut from a private copy of the call so
// parsing never touches shared state.
type tokenizer struct {
	rest string
}

func newTokenizer(call string) *tokenizer {
	return &tokenizer{rest: strings.Clone(call)}
}

// Next returns the next token, or false when the call is exhausted.
func (t *tokenizer) Next() (string, bool) {
	t.rest = strings.TrimLeft(t.rest, " ")
	if t.rest == "" {
		return "", false
	}
	end := strings.IndexByte(t.rest, ' ')
	if end < 0 {
		token := t.rest
		t.rest = ""
		return token, true
	}
	token := t.rest[:end]
	t.rest = t.rest[end:]
	return token, true
}
