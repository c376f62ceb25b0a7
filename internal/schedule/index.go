package schedule

// IndexOf returns the position of weekID in weeks, or -1.
func IndexOf(weeks []Week, weekID string) int {
	for i, w := range weeks {
		if w.ID == weekID {
			return i
		}
	}
	return -1
}

// Span resolves an inclusive [startID, endID] range to indexes. ok is false
// when either end is unknown or the range is inverted.
func Span(weeks []Week, startID, endID string) (start, end int, ok bool) {
	start = IndexOf(weeks, startID)
	end = IndexOf(weeks, endID)
	if start < 0 || end < 0 || start > end {
		return 0, -1, false
	}
	return start, end, true
}

// Slice returns the weeks in the inclusive range, or nil.
func Slice(weeks []Week, startID, endID string) []Week {
	start, end, ok := Span(weeks, startID, endID)
	if !ok {
		return nil
	}
	return weeks[start : end+1]
}

// Covers reports whether the week at index weekIdx lies inside the
// assignment's own range. Unresolvable ids cover nothing.
func (a Assignment) Covers(weeks []Week, weekIdx int) bool {
	if weekIdx < 0 {
		return false
	}
	start, end, ok := Span(weeks, a.StartWeek, a.EndWeek)
	return ok && weekIdx >= start && weekIdx <= end
}
