package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. The purpose is both a claim inside the token and a
// domain-separation tag mixed into the signing key, so a token issued
// for one purpose can never verify for another.
const (
	PurposeEmailVerification = "email-verification"
	PurposePasswordReset     = "password-reset"
)

// Default maximum ages for each purpose.
const (
	EmailVerificationMaxAge = 24 * time.Hour
	PasswordResetMaxAge     = time.Hour
)

var (
	// ErrTokenExpired is returned when a token's age exceeds the
	// caller-supplied maximum.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers bad signatures, malformed payloads and
	// purpose mismatches.
	ErrTokenInvalid = errors.New("invalid token")
)

// ActionTokens issues and verifies signed, purpose-scoped, time-limited
// tokens for email verification and password reset links. Tokens are
// stateless: validity is proven by the signature plus an age check, not
// by a database lookup, so a token cannot be revoked before it expires.
type ActionTokens struct {
	Secret string
}

type actionClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// key derives the per-purpose signing key from the process secret.
func (a ActionTokens) key(purpose string) []byte {
	mac := hmac.New(sha256.New, []byte(a.Secret))
	mac.Write([]byte("marketmind.token." + purpose))
	return mac.Sum(nil)
}

// Issue signs a token embedding the user ID, the purpose and the
// current time. Two tokens issued at different instants for the same
// user and purpose are different strings.
func (a ActionTokens) Issue(userID uint64, purpose string) (string, error) {
	return a.issueAt(userID, purpose, time.Now().UTC())
}

func (a ActionTokens) issueAt(userID uint64, purpose string, at time.Time) (string, error) {
	claims := actionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(userID, 10),
			IssuedAt: jwt.NewNumericDate(at),
		},
		Purpose: purpose,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key(purpose))
}

// Verify checks signature, purpose and age, returning the embedded
// user ID. It fails with ErrTokenExpired when the token is older than
// maxAge, and ErrTokenInvalid for any signature, payload or purpose
// problem.
func (a ActionTokens) Verify(token, purpose string, maxAge time.Duration) (uint64, error) {
	claims := &actionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return a.key(purpose), nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrTokenInvalid
	}
	if claims.Purpose != purpose || claims.IssuedAt == nil {
		return 0, ErrTokenInvalid
	}
	if time.Since(claims.IssuedAt.Time) > maxAge {
		return 0, ErrTokenExpired
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return 0, ErrTokenInvalid
	}
	return uid, nil
}
