package service

import (
	"context"
	"time"

	"github.com/Vamshik07/marketmind/internal/history"
	"github.com/Vamshik07/marketmind/internal/model"
)

// DefaultHistoryLimit caps how many entries a grouped listing fetches
// when the caller does not say otherwise.
const DefaultHistoryLimit = 500

// HistoryStore is the persistence the activity-history flows need.
type HistoryStore interface {
	Insert(ctx context.Context, e model.HistoryEntry) (uint64, error)
	ListRecent(ctx context.Context, userID uint64, limit int) ([]model.HistoryEntry, error)
	DeleteOne(ctx context.Context, userID, entryID uint64) (bool, error)
	ClearAll(ctx context.Context, userID uint64) (int64, error)
	DeleteOlderThan(ctx context.Context, userID uint64, cutoff time.Time) (int64, error)
	DeleteAllOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryService records and surfaces per-user activity. All reads
// and deletes are scoped by the requesting user's id; a foreign entry
// behaves exactly like a missing one.
type HistoryService struct {
	Store HistoryStore
	Now   func() time.Time // test hook; nil means time.Now
}

func NewHistoryService(store HistoryStore) *HistoryService {
	return &HistoryService{Store: store}
}

func (s *HistoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Record appends an entry. Anonymous activity (zero user id) is not
// recorded by this subsystem and silently yields no entry.
func (s *HistoryService) Record(ctx context.Context, e model.HistoryEntry) (uint64, error) {
	if e.UserID == 0 {
		return 0, nil
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	return s.Store.Insert(ctx, e)
}

// Grouped returns the user's most recent entries bucketed into
// Today / Yesterday / This week / Older, boundaries computed at call
// time from local midnight. Every bucket is present even when empty
// and entries stay newest-first within a bucket.
func (s *HistoryService) Grouped(ctx context.Context, userID uint64, limit int) (map[string][]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.Store.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return history.Group(history.UserBuckets(s.now()), entries), nil
}

// GroupedArchive is the wider variant of Grouped for the archive view:
// the same entries bucketed as Today / Yesterday / This week /
// This month / Earlier.
func (s *HistoryService) GroupedArchive(ctx context.Context, userID uint64, limit int) (map[string][]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.Store.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return history.Group(history.ArchiveBuckets(s.now()), entries), nil
}

// DeleteOne removes one of the user's entries, reporting whether a
// row was removed. False covers both "missing" and "not yours".
func (s *HistoryService) DeleteOne(ctx context.Context, userID, entryID uint64) (bool, error) {
	return s.Store.DeleteOne(ctx, userID, entryID)
}

// ClearAll removes every entry the user owns and returns the count.
func (s *HistoryService) ClearAll(ctx context.Context, userID uint64) (int64, error) {
	return s.Store.ClearAll(ctx, userID)
}

// Prune deletes the user's entries older than the given number of
// days. It is a retention primitive, not a user-facing operation.
func (s *HistoryService) Prune(ctx context.Context, userID uint64, days int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -days)
	return s.Store.DeleteOlderThan(ctx, userID, cutoff)
}

// PruneAll deletes every user's entries older than the given number of
// days. Run once at startup when a retention window is configured.
func (s *HistoryService) PruneAll(ctx context.Context, days int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -days)
	return s.Store.DeleteAllOlderThan(ctx, cutoff)
}
