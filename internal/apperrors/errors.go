package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// AuthenticationError indicates the token probe against the API failed.
// It is fatal to the whole sync run.
type AuthenticationError struct {
	Status int // HTTP status of the probe response; 0 on transport failure
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %v", e.Err)
	}
	return fmt.Sprintf("authentication failed: ping returned status %d", e.Status)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// FetchError indicates a non-success HTTP response or transport failure while
// paginating. It kills the owning pagination path but must not crash sibling
// account syncs.
type FetchError struct {
	Status int    // HTTP status; 0 on transport failure
	URL    string // the URL that was being fetched
	Body   string // raw response body, for diagnosis
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed: status %d: %s", e.URL, e.Status, e.Body)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError indicates a malformed or unexpectedly shaped API record.
// Contained at record granularity.
type ParseError struct {
	ResourceType string // e.g. "accounts", "transactions"
	RecordID     string // may be empty when the payload carried no id
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s record %q: %v", e.ResourceType, e.RecordID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StoreError indicates an upsert failure for a single record. Contained at
// record granularity; it never aborts pagination or sibling syncs.
type StoreError struct {
	RecordID string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to store record %s: %v", e.RecordID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
