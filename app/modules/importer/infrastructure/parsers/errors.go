package parsers

import "fmt"

// Import error codes surfaced to the operator.
const (
	CodeParseError        = "PARSE_ERROR"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeEmptyFile         = "EMPTY_FILE"
	CodeDBError           = "DB_ERROR"
)

// ImportError is a structured error carrying an operator-facing code.
type ImportError struct {
	Code    string
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ImportError) Unwrap() error { return e.Err }

func parseError(fileName string, err error) *ImportError {
	return &ImportError{Code: CodeParseError, Message: fmt.Sprintf("failed to parse %s", fileName), Err: err}
}

func emptyFile(fileName string) *ImportError {
	return &ImportError{Code: CodeEmptyFile, Message: fmt.Sprintf("%s contains no data rows", fileName)}
}
