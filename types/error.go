package types

import "fmt"

// ErrUnknownRule reports a named key with no grammar entry at the point it
// was resolved. The build that hit it is abandoned; grammars are assumed to
// be author-validated before building, not patched and retried.
type ErrUnknownRule struct {
	Name string
}

func (e *ErrUnknownRule) Error() string {
	return fmt.Sprintf("no rule registered for name %q", e.Name)
}
