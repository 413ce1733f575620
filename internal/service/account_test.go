package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Vamshik07/marketmind/internal/model"
	"github.com/Vamshik07/marketmind/internal/repository"
	"github.com/Vamshik07/marketmind/internal/utils"
)

// memUserStore is an in-memory UserStore for exercising the account
// flows without a database.
type memUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uint64]model.User)}
}

func (s *memUserStore) Create(_ context.Context, name, email, passwordHash string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return 0, repository.ErrEmailExists
		}
	}
	s.nextID++
	s.users[s.nextID] = model.User{
		ID:           s.nextID,
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
	}
	return s.nextID, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) MarkVerified(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.IsVerified {
		return false, nil
	}
	u.IsVerified = true
	s.users[id] = u
	return true, nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, id uint64, passwordHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return true, nil
}

// memMailer records delivered mail instead of sending it.
type memMailer struct {
	mu            sync.Mutex
	verifications []string // links
	resets        []string
	lastTo        string
	fail          bool
}

func (m *memMailer) SendVerification(_ context.Context, to, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.lastTo = to
	m.verifications = append(m.verifications, link)
	return nil
}

func (m *memMailer) SendPasswordReset(_ context.Context, to, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.lastTo = to
	m.resets = append(m.resets, link)
	return nil
}

func newTestAccounts() (*AccountService, *memUserStore, *memMailer) {
	users := newMemUserStore()
	mail := &memMailer{}
	tokens := utils.ActionTokens{Secret: "test-secret"}
	return NewAccountService(users, tokens, mail, "http://app.test/", bcrypt.MinCost), users, mail
}

func TestSignup(t *testing.T) {
	svc, users, _ := newTestAccounts()
	ctx := context.Background()

	uid, err := svc.Signup(ctx, "Ada", "ada@example.com", "long1!enough", "long1!enough")
	require.NoError(t, err)
	require.NotZero(t, uid)

	u, err := users.GetByID(ctx, uid)
	require.NoError(t, err)
	assert.False(t, u.IsVerified, "new accounts start unverified")
	assert.NotEqual(t, "long1!enough", u.PasswordHash)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "long1!enough"))
}

func TestSignupValidationOrder(t *testing.T) {
	svc, _, _ := newTestAccounts()
	ctx := context.Background()

	tests := []struct {
		name    string
		user    string
		email   string
		pass    string
		confirm string
		message string
	}{
		{"missing field", "", "ada@example.com", "long1!enough", "long1!enough", "All fields are required"},
		{"bad email", "Ada", "not-an-email", "long1!enough", "long1!enough", "Invalid email format"},
		{"bad email wins over bad password", "Ada", "not-an-email", "short", "short", "Invalid email format"},
		{"weak password", "Ada", "ada@example.com", "short", "short", "Password must be longer than 7 characters"},
		{"password policy wins over mismatch", "Ada", "ada@example.com", "short", "different", "Password must be longer than 7 characters"},
		{"mismatch", "Ada", "ada@example.com", "long1!enough", "long1!other", "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.user, tt.email, tt.pass, tt.confirm)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAccounts()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@example.com", "long1!enough", "long1!enough")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Other", "ada@example.com", "long1!enough", "long1!enough")
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestVerifyEmailFlow(t *testing.T) {
	svc, users, mail := newTestAccounts()
	ctx := context.Background()

	uid, err := svc.Signup(ctx, "Ada", "ada@example.com", "long1!enough", "long1!enough")
	require.NoError(t, err)
	require.NoError(t, svc.SendVerificationEmail(ctx, uid))

	require.Len(t, mail.verifications, 1)
	link := mail.verifications[0]
	require.True(t, strings.HasPrefix(link, "http://app.test/verify/"))
	token := strings.TrimPrefix(link, "http://app.test/verify/")

	got, err := svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	u, err := users.GetByID(ctx, uid)
	require.NoError(t, err)
	assert.True(t, u.IsVerified)

	// Verifying a second time with the same link is not an error.
	_, err = svc.VerifyEmail(ctx, token)
	assert.NoError(t, err)
}

func TestVerifyEmailBadToken(t *testing.T) {
	svc, _, _ := newTestAccounts()

	_, err := svc.VerifyEmail(context.Background(), "garbage")
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAccounts()
	ctx := context.Background()

	uid, err := svc.Signup(ctx, "Ada", "ada@example.com", "long1!enough", "long1!enough")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "ada@example.com", "long1!enough")
	require.NoError(t, err)
	assert.Equal(t, uid, u.ID)
	assert.False(t, u.IsVerified, "unverified accounts may log in")

	_, err = svc.Login(ctx, "nobody@example.com", "long1!enough")
	assert.ErrorIs(t, err, ErrEmailNotRegistered)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestRequestPasswordResetEnumerationSafe(t *testing.T) {
	svc, _, mail := newTestAccounts()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@example.com", "long1!enough", "long1!enough")
	require.NoError(t, err)

	// Known address: a reset mail goes out. Unknown address: nothing
	// happens, and neither case reports anything to the caller.
	svc.RequestPasswordReset(ctx, "ada@example.com")
	svc.RequestPasswordReset(ctx, "nobody@example.com")

	assert.Len(t, mail.resets, 1)
	assert.Equal(t, "ada@example.com", mail.lastTo)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, _, mail := newTestAccounts()
	ctx := context.Background()

	uid, err := svc.Signup(ctx, "Ada", "ada@example.com", "long1!enough", "long1!enough")
	require.NoError(t, err)

	svc.RequestPasswordReset(ctx, "ada@example.com")
	require.Len(t, mail.resets, 1)
	token := strings.TrimPrefix(mail.resets[0], "http://app.test/reset-password/")

	got, err := svc.ResetPassword(ctx, token, "new2)secret", "new2)secret")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	// Old password no longer works, new one does.
	_, err = svc.Login(ctx, "ada@example.com", "long1!enough")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	u, err := svc.Login(ctx, "ada@example.com", "new2)secret")
	require.NoError(t, err)
	assert.Equal(t, uid, u.ID)
}

func TestResetPasswordRejectsWeakOrMismatched(t *testing.T) {
	svc, _, mail := newTestAccounts()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@example.com", "long1!enough", "long1!enough")
	require.NoError(t, err)
	svc.RequestPasswordReset(ctx, "ada@example.com")
	require.Len(t, mail.resets, 1)
	token := strings.TrimPrefix(mail.resets[0], "http://app.test/reset-password/")

	var ve *ValidationError
	_, err = svc.ResetPassword(ctx, token, "short", "short")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Password must be longer than 7 characters", ve.Message)

	_, err = svc.ResetPassword(ctx, token, "new2)secret", "other2)secret")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Passwords do not match", ve.Message)

	// Verification tokens must not work as reset tokens.
	tokens := utils.ActionTokens{Secret: "test-secret"}
	wrongPurpose, err := tokens.Issue(1, utils.PurposeEmailVerification)
	require.NoError(t, err)
	_, err = svc.ResetPassword(ctx, wrongPurpose, "new2)secret", "new2)secret")
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestSignupSurvivesMailerFailure(t *testing.T) {
	svc, _, mail := newTestAccounts()
	ctx := context.Background()
	mail.fail = true

	uid, err := svc.Signup(ctx, "Ada", "ada@example.com", "long1!enough", "long1!enough")
	require.NoError(t, err)

	// Delivery failure is reported but the account stays created.
	err = svc.SendVerificationEmail(ctx, uid)
	assert.Error(t, err)
	_, err = svc.Login(ctx, "ada@example.com", "long1!enough")
	assert.NoError(t, err)
}
