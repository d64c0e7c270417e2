package core

import "errors"

var (
	// ErrUnexpectedStatus is returned when a server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrTooLarge is returned when a response body exceeds the configured cap.
	ErrTooLarge = errors.New("response body too large")
	// ErrNotUTF8 is returned when fetched stylesheet bytes are not valid UTF-8.
	ErrNotUTF8 = errors.New("content is not valid UTF-8")
)
