package reader

import "fmt"

// SyntaxError reports malformed input the reader cannot parse: an
// unrecognized leading character, or a list missing its closing paren.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("reader: syntax error: %s", e.Msg)
}
