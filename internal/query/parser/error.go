package parser

import "fmt"

// ParseError reports a malformed query, with a byte offset into the
// original query text so callers can point the user at the problem.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("query: %s (at offset %d)", e.Msg, e.Offset)
}
