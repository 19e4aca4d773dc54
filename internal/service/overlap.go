package service

import "github.com/derece-app/derece-api/internal/models"

// Interval is a half-open [Start, End) minute window on a single date.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share any minute.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// HasOverlap reports whether the candidate overlaps any existing interval.
func HasOverlap(candidate Interval, existing []Interval) bool {
	for _, iv := range existing {
		if Overlaps(candidate, iv) {
			return true
		}
	}
	return false
}

// FindConflict returns the first entry whose window overlaps the
// candidate, skipping excludeID (the entry being moved, when a move
// stays on the same date). Returns nil when the window is free.
func FindConflict(candidate Interval, entries []models.EntryWithTopic, excludeID string) *models.EntryWithTopic {
	for i := range entries {
		if entries[i].ID == excludeID {
			continue
		}
		if Overlaps(candidate, Interval{Start: entries[i].StartMinute(), End: entries[i].EndMinute()}) {
			return &entries[i]
		}
	}
	return nil
}
