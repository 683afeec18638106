package editor

import "fmt"

// LoadError represents an error during file I/O, JSON decoding or schema validation
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
