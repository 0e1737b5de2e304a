// authz/guard.go
package authz

import "fmt"

// VersionConflictError reports a failed optimistic-concurrency check.
// It carries both versions so the client can re-fetch and retry.
type VersionConflictError struct {
	Current  int
	Supplied int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("etag mismatch: current version is %d, but you provided %d", e.Current, e.Supplied)
}

// CheckVersion compares a resource's stored version against the
// caller-supplied one. A nil supplied version means the caller opted
// out of the check.
//
// The current value must come from an authoritative store read, never
// from the cache: a stale cached version could match a stale supplied
// version and let a lost update through.
func CheckVersion(current int, supplied *int) error {
	if supplied == nil {
		return nil
	}
	if current != *supplied {
		return &VersionConflictError{Current: current, Supplied: *supplied}
	}
	return nil
}
