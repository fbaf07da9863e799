package nutrition

import "fmt"

// DataFormatError is returned when a nutrition table cannot be read at all: the source is
// unreadable, empty, or lacks one of the required columns. Problems confined to a single
// row never produce a DataFormatError.
type DataFormatError struct {
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data format error: %s: %v", e.Reason, e.Err)
	}
	return "data format error: " + e.Reason
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// InvalidParameterError is returned for a malformed query parameter.
type InvalidParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%q: %s", e.Field, e.Value, e.Reason)
}
