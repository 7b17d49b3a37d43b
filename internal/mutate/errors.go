package mutate

import "fmt"

// UnknownActionError is returned for an edit action name outside the supported set.
type UnknownActionError struct {
	Action string
	Handle string
}

func (e UnknownActionError) Error() string {
	return fmt.Sprintf("unknown edit action %q (handle %q)", e.Action, e.Handle)
}

// MissingHandleError means the record carries no handle, so no write path exists.
type MissingHandleError struct {
	GrampsID string
}

func (e MissingHandleError) Error() string {
	if e.GrampsID == "" {
		return "record has no handle"
	}
	return fmt.Sprintf("record %s has no handle", e.GrampsID)
}
