package service

import (
	"context"
	"log"
	"strings"

	"github.com/Vamshik07/marketmind/internal/model"
	"github.com/Vamshik07/marketmind/internal/repository"
	"github.com/Vamshik07/marketmind/internal/utils"
)

// UserStore is the credential persistence the account flows need. It
// speaks password hashes only; plaintext never crosses this boundary.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	MarkVerified(ctx context.Context, id uint64) (bool, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) (bool, error)
}

// AccountService owns the signup, login, email-verification and
// password-reset business rules. State changes go through UserStore;
// outbound mail goes through Mailer; tokens are stateless.
type AccountService struct {
	Users      UserStore
	Tokens     utils.ActionTokens
	Mail       Mailer
	AppURL     string
	BcryptCost int
}

func NewAccountService(users UserStore, tokens utils.ActionTokens, mail Mailer, appURL string, bcryptCost int) *AccountService {
	return &AccountService{
		Users:      users,
		Tokens:     tokens,
		Mail:       mail,
		AppURL:     strings.TrimRight(appURL, "/"),
		BcryptCost: bcryptCost,
	}
}

// Signup validates and registers a new account. Checks run in order
// and the first failure wins: all fields present, email shape,
// password policy, confirmation match, email unused. On success the
// password is bcrypt-hashed and the user starts unverified.
//
// Errors: *ValidationError for policy failures,
// repository.ErrEmailExists for a duplicate address.
func (s *AccountService) Signup(ctx context.Context, name, email, password, passwordConfirm string) (uint64, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" || passwordConfirm == "" {
		return 0, validationErr("All fields are required")
	}
	if ok, msg := utils.ValidateEmail(email); !ok {
		return 0, validationErr(msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return 0, validationErr(msg)
	}
	if password != passwordConfirm {
		return 0, validationErr("Passwords do not match")
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return 0, repository.ErrEmailExists
	}

	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return 0, err
	}
	// The unique index on email settles races between concurrent
	// signups; the pre-check above only orders the validation messages.
	return s.Users.Create(ctx, name, email, hash)
}

// SendVerificationEmail issues an email-verification token and asks
// the mail collaborator to deliver the link. Delivery failure is
// returned, not retried; the created account is unaffected.
func (s *AccountService) SendVerificationEmail(ctx context.Context, userID uint64) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	token, err := s.Tokens.Issue(userID, utils.PurposeEmailVerification)
	if err != nil {
		return err
	}
	link := s.AppURL + "/verify/" + token
	return s.Mail.SendVerification(ctx, u.Email, u.Name, link)
}

// VerifyEmail consumes an email-verification token (24h max age) and
// marks the user verified. Marking is idempotent; verifying twice is
// not an error.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (uint64, error) {
	userID, err := s.Tokens.Verify(token, utils.PurposeEmailVerification, utils.EmailVerificationMaxAge)
	if err != nil {
		return 0, err
	}
	if _, err := s.Users.MarkVerified(ctx, userID); err != nil {
		return 0, err
	}
	return userID, nil
}

// Login checks credentials and returns the user on success. Unknown
// email and wrong password are reported as distinct errors. Login is
// permitted while the account is still unverified; the client can
// read is_verified from the profile and prompt accordingly.
func (s *AccountService) Login(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.User{}, validationErr("Email and password required")
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return model.User{}, ErrEmailNotRegistered
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidPassword
	}
	return u, nil
}

// RequestPasswordReset sends a reset link when the address belongs to
// an account. The caller always observes success regardless of
// whether the email exists or the delivery worked, so the endpoint
// cannot be used to enumerate accounts. Failures are logged only.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return
	}
	token, err := s.Tokens.Issue(u.ID, utils.PurposePasswordReset)
	if err != nil {
		log.Printf("password-reset: issue token for user %d failed: %v", u.ID, err)
		return
	}
	link := s.AppURL + "/reset-password/" + token
	if err := s.Mail.SendPasswordReset(ctx, u.Email, u.Name, link); err != nil {
		log.Printf("password-reset: send to user %d failed: %v", u.ID, err)
	}
}

// ResetPassword validates the new password, consumes a password-reset
// token (1h max age) and replaces the stored hash. Returns the id of
// the affected user.
//
// Errors: *ValidationError for policy failures, utils.ErrTokenExpired
// or utils.ErrTokenInvalid for token problems.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword, newPasswordConfirm string) (uint64, error) {
	if newPassword == "" || newPasswordConfirm == "" {
		return 0, validationErr("Password is required")
	}
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return 0, validationErr(msg)
	}
	if newPassword != newPasswordConfirm {
		return 0, validationErr("Passwords do not match")
	}
	userID, err := s.Tokens.Verify(token, utils.PurposePasswordReset, utils.PasswordResetMaxAge)
	if err != nil {
		return 0, err
	}
	hash, err := utils.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return 0, err
	}
	changed, err := s.Users.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return 0, err
	}
	if !changed {
		// Token subject no longer exists.
		return 0, utils.ErrTokenInvalid
	}
	return userID, nil
}
