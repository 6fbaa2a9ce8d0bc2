package services

import "fleet_shifts/internal/models"

// Window is a half-open slice of a day, [Start, End).
type Window struct {
	Start models.ClockTime
	End   models.ClockTime
}

func (w Window) Minutes() int { return w.Start.MinutesUntil(w.End) }

// Overlaps reports whether two windows share at least one minute.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

// SplitWindow cuts [start, end) into consecutive windows of at most maxLen
// minutes. The walk stops at the first window shorter than minLen, so a
// short tail is dropped rather than emitted. Windows never cross midnight.
func SplitWindow(start, end models.ClockTime, maxLen, minLen int) []Window {
	if maxLen <= 0 {
		return nil
	}
	var out []Window
	for cursor := start; cursor < end; {
		next := cursor + models.ClockTime(maxLen)
		if next > end {
			next = end
		}
		if cursor.MinutesUntil(next) < minLen {
			break
		}
		out = append(out, Window{Start: cursor, End: next})
		cursor = next
	}
	return out
}
