package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Vamshik07/marketmind/internal/model"
	"github.com/Vamshik07/marketmind/internal/repository"
)

// In-memory collaborators for exercising the handlers over httptest
// without MySQL, SMTP or a generation API.

type fakeUserStore struct {
	nextID uint64
	users  map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint64]model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, name, email, passwordHash string) (uint64, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return 0, repository.ErrEmailExists
		}
	}
	s.nextID++
	s.users[s.nextID] = model.User{ID: s.nextID, Name: name, Email: strings.ToLower(email), PasswordHash: passwordHash}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) MarkVerified(_ context.Context, id uint64) (bool, error) {
	u, ok := s.users[id]
	if !ok || u.IsVerified {
		return false, nil
	}
	u.IsVerified = true
	s.users[id] = u
	return true, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id uint64, passwordHash string) (bool, error) {
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return true, nil
}

type fakeMailer struct {
	verifications []string
	resets        []string
	fail          bool
}

func (m *fakeMailer) SendVerification(_ context.Context, _, _, link string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.verifications = append(m.verifications, link)
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, _, _, link string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.resets = append(m.resets, link)
	return nil
}

type fakeHistoryStore struct {
	nextID  uint64
	entries []model.HistoryEntry
}

func (s *fakeHistoryStore) Insert(_ context.Context, e model.HistoryEntry) (uint64, error) {
	s.nextID++
	e.ID = s.nextID
	s.entries = append([]model.HistoryEntry{e}, s.entries...)
	return e.ID, nil
}

func (s *fakeHistoryStore) ListRecent(_ context.Context, userID uint64, limit int) ([]model.HistoryEntry, error) {
	var out []model.HistoryEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeHistoryStore) DeleteOne(_ context.Context, userID, entryID uint64) (bool, error) {
	for i, e := range s.entries {
		if e.ID == entryID && e.UserID == userID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeHistoryStore) ClearAll(_ context.Context, userID uint64) (int64, error) {
	var kept []model.HistoryEntry
	var removed int64
	for _, e := range s.entries {
		if e.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func (s *fakeHistoryStore) DeleteOlderThan(_ context.Context, userID uint64, cutoff time.Time) (int64, error) {
	var kept []model.HistoryEntry
	var removed int64
	for _, e := range s.entries {
		if e.UserID == userID && e.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func (s *fakeHistoryStore) DeleteAllOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []model.HistoryEntry
	var removed int64
	for _, e := range s.entries {
		if e.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

type fakeGenerator struct {
	result string
	err    error
	prompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.result, nil
}
