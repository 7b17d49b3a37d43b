package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type editDeniedError struct {
	role string
}

func (e editDeniedError) Error() string {
	role := e.role
	if role == "" {
		role = "(none)"
	}
	return fmt.Sprintf("permission denied: role %s cannot edit; run `gramps config set-role editor` or pass --can-edit", role)
}

type fetchError struct {
	path string
	msg  string
}

func (e fetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.path, e.msg)
}

func errUnknownRole(role string) error {
	return fmt.Errorf("unknown role: %s (want guest|member|contributor|editor|owner|admin)", role)
}
