package core

import "fmt"

// Identified is implemented by every record kept in an id keyed collection.
type Identified interface {
	Identity() ID
}

// NextID returns an id greater than every id in items, starting at 1.
func NextID[T Identified](items []T) ID {
	var top ID
	for _, it := range items {
		if it.Identity() > top {
			top = it.Identity()
		}
	}
	return top + 1
}

// Find returns the record with the given id.
func Find[T Identified](items []T, id ID) (T, bool) {
	for _, it := range items {
		if it.Identity() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Remove returns a new slice without the record with the given id. The
// input is never modified.
func Remove[T Identified](items []T, id ID) ([]T, error) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if !found && it.Identity() == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	if !found {
		return items, ErrNotFound
	}
	return out, nil
}

// Replace returns a new slice where the record with the given id is replaced
// by fn's result. When fn fails the input is returned untouched.
func Replace[T Identified](items []T, id ID, fn func(T) (T, error)) ([]T, T, error) {
	var zero T
	for i, it := range items {
		if it.Identity() != id {
			continue
		}
		updated, err := fn(it)
		if err != nil {
			return items, zero, err
		}
		out := make([]T, len(items))
		copy(out, items)
		out[i] = updated
		return out, updated, nil
	}
	return items, zero, ErrNotFound
}

// CheckUnique reports the first id that appears twice.
func CheckUnique[T Identified](items []T) error {
	seen := make(map[ID]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.Identity()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, it.Identity())
		}
		seen[it.Identity()] = struct{}{}
	}
	return nil
}
