package mutate

// MoveUp returns a copy of a with the element at i swapped with its predecessor.
// i <= 0 (already first, or not found) and i past the end leave the order unchanged.
func MoveUp[T any](a []T, i int) []T {
	out := append([]T(nil), a...)
	if i <= 0 || i >= len(out) {
		return out
	}
	out[i-1], out[i] = out[i], out[i-1]
	return out
}

// MoveDown returns a copy of a with the element at i swapped with its successor.
// i >= len(a)-1 (already last) and i < 0 (not found) leave the order unchanged.
func MoveDown[T any](a []T, i int) []T {
	out := append([]T(nil), a...)
	if i < 0 || i >= len(out)-1 {
		return out
	}
	out[i], out[i+1] = out[i+1], out[i]
	return out
}

// removeAll returns the entries of list whose key differs from handle, in order.
func removeAll(list []any, handle string, keyOf func(any) string) []any {
	out := make([]any, 0, len(list))
	for _, e := range list {
		if keyOf(e) == handle {
			continue
		}
		out = append(out, e)
	}
	return out
}
