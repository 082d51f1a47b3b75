package markup

import "fmt"

// ErrorCode classifies a parse failure.
type ErrorCode int

const (
	ErrMismatchBraces ErrorCode = iota + 1
	ErrInvalidCommand
	ErrCharacterNotFound
	ErrMissingDelimiter
	ErrInvalidDelimiter
	ErrMissingRight
	ErrMissingLeft
	ErrInvalidEnv
	ErrMissingEnv
	ErrMissingBegin
	ErrMissingEnd
	ErrInvalidNumColumns
	ErrInternal
	ErrInvalidLimits
	ErrInvalidNot
)

var errorCodeNames = map[ErrorCode]string{
	ErrMismatchBraces:    "mismatched-braces",
	ErrInvalidCommand:    "invalid-command",
	ErrCharacterNotFound: "character-not-found",
	ErrMissingDelimiter:  "missing-delimiter",
	ErrInvalidDelimiter:  "invalid-delimiter",
	ErrMissingRight:      "missing-right",
	ErrMissingLeft:       "missing-left",
	ErrInvalidEnv:        "invalid-environment",
	ErrMissingEnv:        "missing-environment",
	ErrMissingBegin:      "missing-begin",
	ErrMissingEnd:        "missing-end",
	ErrInvalidNumColumns: "invalid-number-of-columns",
	ErrInternal:          "internal",
	ErrInvalidLimits:     "invalid-limits",
	ErrInvalidNot:        "invalid-not",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error-code(%d)", int(c))
}

// ParseError reports the first problem found in the markup. Offset is the
// character position where parsing stopped.
type ParseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Offset  int       `json:"offset"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Code, e.Offset, e.Message)
}

// Is matches any *ParseError carrying the same code, so callers can test
// errors.Is(err, &markup.ParseError{Code: markup.ErrMissingRight}).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Code == e.Code
}
