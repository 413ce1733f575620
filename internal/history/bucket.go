// Package history provides the wall-clock time bucketing used to
// group activity entries for display. A single parameterized scheme
// replaces the per-call-site grouping logic the feature grew from, so
// every surface shares one boundary table.
package history

import (
	"time"

	"github.com/Vamshik07/marketmind/internal/model"
)

// Bucket is one display group. A bucket covers timestamps at or after
// Start, up to the Start of the preceding (more recent) bucket. The
// final bucket of a scheme has a zero Start and catches everything
// earlier.
type Bucket struct {
	Label string
	Start time.Time
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// UserBuckets is the scheme for a user's own activity history:
//
//	Today      ts >= start of current day
//	Yesterday  start of previous day <= ts < start of current day
//	This week  start of day 7 days ago <= ts < start of previous day
//	Older      everything earlier
//
// Boundaries are computed from now at call time, at local midnight.
func UserBuckets(now time.Time) []Bucket {
	today := startOfDay(now)
	return []Bucket{
		{Label: "Today", Start: today},
		{Label: "Yesterday", Start: today.AddDate(0, 0, -1)},
		{Label: "This week", Start: today.AddDate(0, 0, -7)},
		{Label: "Older"},
	}
}

// ArchiveBuckets is the wider scheme used for archive views. It
// extends UserBuckets with a 30-day month bucket.
func ArchiveBuckets(now time.Time) []Bucket {
	today := startOfDay(now)
	return []Bucket{
		{Label: "Today", Start: today},
		{Label: "Yesterday", Start: today.AddDate(0, 0, -1)},
		{Label: "This week", Start: today.AddDate(0, 0, -7)},
		{Label: "This month", Start: today.AddDate(0, 0, -30)},
		{Label: "Earlier"},
	}
}

// Assign returns the label of the bucket a timestamp falls into.
func Assign(buckets []Bucket, ts time.Time) string {
	for _, b := range buckets {
		if b.Start.IsZero() || !ts.Before(b.Start) {
			return b.Label
		}
	}
	// Unreachable when the scheme ends with a catch-all bucket.
	return buckets[len(buckets)-1].Label
}

// Labels returns the scheme's labels in display order.
func Labels(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Label
	}
	return out
}

// Group partitions entries into the scheme's buckets. Every label is
// present in the result even when empty, and entries keep their input
// order within each bucket.
func Group(buckets []Bucket, entries []model.HistoryEntry) map[string][]model.HistoryEntry {
	grouped := make(map[string][]model.HistoryEntry, len(buckets))
	for _, b := range buckets {
		grouped[b.Label] = make([]model.HistoryEntry, 0)
	}
	for _, e := range entries {
		label := Assign(buckets, e.Timestamp)
		grouped[label] = append(grouped[label], e)
	}
	return grouped
}
