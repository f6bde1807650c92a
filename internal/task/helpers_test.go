package task

// matchesFilter is the in-memory form of the WHERE clause the SQLite
// repository builds from f.
func matchesFilter(f Filter, t *Task) bool {
	if f.CreatedByID != nil && t.CreatedByID != *f.CreatedByID {
		return false
	}
	if f.IsClosed != nil && t.IsClosed != *f.IsClosed {
		return false
	}
	return true
}
