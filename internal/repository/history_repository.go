package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Vamshik07/marketmind/internal/model"
)

// HistoryRepo persists the append-only activity log in the
// 'user_history' table. Every read and delete is scoped by the owning
// user id; no query in this file touches another user's rows.
type HistoryRepo struct{ DB *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{DB: db} }

// Insert appends one history entry and returns its ID. Metadata is
// serialized to JSON; a nil map is stored as NULL.
func (r *HistoryRepo) Insert(ctx context.Context, e model.HistoryEntry) (uint64, error) {
	var meta sql.NullString
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return 0, err
		}
		meta = sql.NullString{String: string(b), Valid: true}
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO user_history
		 (user_id, page_url, page_title, action_type, metadata, timestamp, ip_address, user_agent)
		 VALUES (?,?,?,?,?,?,?,?)`,
		e.UserID, e.PageURL, e.PageTitle, e.ActionType, meta, ts, e.IPAddress, e.UserAgent)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListRecent returns up to limit entries for the user, newest first.
// Malformed metadata decodes to an empty map instead of failing the
// whole listing.
func (r *HistoryRepo) ListRecent(ctx context.Context, userID uint64, limit int) ([]model.HistoryEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, page_url, page_title, action_type, metadata, timestamp, ip_address, user_agent
		 FROM user_history WHERE user_id=? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HistoryEntry
	for rows.Next() {
		var (
			e     model.HistoryEntry
			title sql.NullString
			meta  sql.NullString
			ip    sql.NullString
			ua    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.PageURL, &title, &e.ActionType, &meta, &e.Timestamp, &ip, &ua); err != nil {
			return nil, err
		}
		e.PageTitle = title.String
		e.IPAddress = ip.String
		e.UserAgent = ua.String
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &e.Metadata); err != nil {
				e.Metadata = model.Metadata{}
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteOne removes a single entry if it belongs to the user and
// reports whether a row was removed. A foreign entry id yields false,
// indistinguishable from a missing one.
func (r *HistoryRepo) DeleteOne(ctx context.Context, userID, entryID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_history WHERE id=? AND user_id=?", entryID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ClearAll removes every entry owned by the user and returns the count.
func (r *HistoryRepo) ClearAll(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_history WHERE user_id=?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteOlderThan removes the user's entries older than the cutoff and
// returns the count. Used for retention pruning.
func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, userID uint64, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_history WHERE user_id=? AND timestamp < ?", userID, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAllOlderThan removes entries older than the cutoff across all
// users. Backs the startup retention sweep.
func (r *HistoryRepo) DeleteAllOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_history WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
