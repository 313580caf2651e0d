package notation

import (
	"errors"
	"fmt"
)

// Reasons a game sheet can be rejected. Match them with errors.Is against the
// *ParsingError returned by the parser.
var (
	// ErrEmptyFile indicates the sheet contained no headers or pass blocks.
	ErrEmptyFile = errors.New("empty file")

	// ErrInsufficientData indicates the sheet lacks a team name, a pass block, or both
	// teams.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnexpectedData indicates the sheet describes more than two teams or more than
	// one block for a team.
	ErrUnexpectedData = errors.New("unexpected data")
)

// ParsingError reports a malformed game sheet.
type ParsingError struct {
	// Reason is the human-readable cause, e.g. "empty file".
	Reason string
	// Path is the source file, when the sheet was read from disk.
	Path string
	err  error
}

func newParsingError(cause error) *ParsingError {
	return &ParsingError{Reason: cause.Error(), err: cause}
}

func (e *ParsingError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse game sheet %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("failed to parse game sheet: %s", e.Reason)
}

func (e *ParsingError) Unwrap() error {
	return e.err
}
