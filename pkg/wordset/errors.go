package wordset

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = errors.New("word source unavailable")
	ErrAllocation        = errors.New("cannot allocate entry")
	ErrWordTooLong       = errors.New("word too long")
	ErrAlreadyLoaded     = errors.New("word set already loaded")
)

// LoadError describes why a load stopped. Index is the position of the
// offending word in the source, or -1 when no word was involved.
type LoadError struct {
	Op    string
	Word  string
	Index int
	Err   error
}

func (e *LoadError) Error() string {
	if e.Word != "" {
		return fmt.Sprintf("%s word %d %q: %v", e.Op, e.Index, truncate(e.Word, 64), e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
