package domain

import "errors"

// ErrIssueNotFound is returned by issue fetchers when a key does not resolve.
// Link traversal treats it as a skippable per-link condition, never a run failure.
var ErrIssueNotFound = errors.New("issue not found")

// ErrStoreUnavailable wraps publish-record persistence failures. Callers must
// not assume a CREATE vs UPDATE decision when history cannot be read.
var ErrStoreUnavailable = errors.New("publish store unavailable")
