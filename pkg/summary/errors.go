package summary

import "fmt"

// MalformedInputError reports a summary file that exists but cannot be used.
type MalformedInputError struct {
	Path   string
	Line   int    // 0 when the problem is not tied to a line
	Column string // empty when not tied to a column
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed summary " + e.Path
	if e.Line > 0 {
		msg += fmt.Sprintf(": line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
