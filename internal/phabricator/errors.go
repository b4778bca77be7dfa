package phabricator

import "fmt"

// ConduitError is a failure reported by the Conduit API itself, as opposed to
// a transport failure. Code carries the Conduit error code (e.g. ERR-CONDUIT-CORE).
type ConduitError struct {
	Method string
	Code   string
	Info   string
}

func (e *ConduitError) Error() string {
	return fmt.Sprintf("conduit %s failed: %s: %s", e.Method, e.Code, e.Info)
}
