package models

// ID sets are persisted as JSON arrays. These helpers keep them duplicate-free
// and never mutate their input.

// ContainsID reports whether id is in ids
func ContainsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// AddID returns ids with id appended if it is not already present
func AddID(ids []string, id string) []string {
	if ContainsID(ids, id) {
		return ids
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, id)
}

// RemoveID returns ids without id
func RemoveID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ToggleID adds id when absent and removes it when present. The second
// return value is true when id was added.
func ToggleID(ids []string, id string) ([]string, bool) {
	if ContainsID(ids, id) {
		return RemoveID(ids, id), false
	}
	return AddID(ids, id), true
}
