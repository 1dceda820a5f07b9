package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrOffline is the cause of a MissingInputError in offline mode
	ErrOffline = errors.New("offline mode")
	// ErrNoURL is returned for a resource without URL
	ErrNoURL = errors.New("resource has no url")
)

// FetchError reports a download that failed. It never aborts a run on its own.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MissingInputError reports that no local copy exists and none could be downloaded
type MissingInputError struct {
	Path  string
	URL   string
	Cause error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("no leaderboard available at %s (source %s): %v", e.Path, e.URL, e.Cause)
}

func (e *MissingInputError) Unwrap() error {
	return e.Cause
}
