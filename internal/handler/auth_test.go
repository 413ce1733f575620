package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Vamshik07/marketmind/internal/config"
	"github.com/Vamshik07/marketmind/internal/model"
	"github.com/Vamshik07/marketmind/internal/service"
	"github.com/Vamshik07/marketmind/internal/utils"
)

func newAuthTestHandler() (*AuthHandler, *fakeUserStore, *fakeMailer, *fakeHistoryStore) {
	users := newFakeUserStore()
	mail := &fakeMailer{}
	tokens := utils.ActionTokens{Secret: "test-secret"}
	accounts := service.NewAccountService(users, tokens, mail, "http://app.test", bcrypt.MinCost)
	histStore := &fakeHistoryStore{}
	hist := service.NewHistoryService(histStore)
	h := NewAuthHandler(config.Config{SecretKey: "test-secret"}, accounts, nil, hist)
	return h, users, mail, histStore
}

func TestSignupHandler(t *testing.T) {
	h, users, mail, _ := newAuthTestHandler()

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/signup",
		`{"name":"Ada","email":"ada@example.com","password":"long1!enough","password_confirm":"long1!enough"}`)

	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Verification email sent")
	assert.Len(t, mail.verifications, 1)

	u, err := users.GetByEmail(nil, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, u.IsVerified)
}

func TestSignupHandlerValidation(t *testing.T) {
	h, _, _, _ := newAuthTestHandler()
	e := echo.New()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing field", `{"email":"ada@example.com","password":"long1!enough","password_confirm":"long1!enough"}`, "All fields are required"},
		{"bad email", `{"name":"Ada","email":"nope","password":"long1!enough","password_confirm":"long1!enough"}`, "Invalid email format"},
		{"weak password", `{"name":"Ada","email":"ada@example.com","password":"short","password_confirm":"short"}`, "Password must be longer than 7 characters"},
		{"mismatch", `{"name":"Ada","email":"ada@example.com","password":"long1!enough","password_confirm":"long1!other"}`, "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(e, http.MethodPost, "/signup", tt.body)
			require.NoError(t, h.Signup(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestSignupHandlerDuplicateEmail(t *testing.T) {
	h, _, _, _ := newAuthTestHandler()
	e := echo.New()

	body := `{"name":"Ada","email":"ada@example.com","password":"long1!enough","password_confirm":"long1!enough"}`
	c, rec := newJSONContext(e, http.MethodPost, "/signup", body)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/signup", body)
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestSignupHandlerMailFailureIsDegradedSuccess(t *testing.T) {
	h, users, mail, _ := newAuthTestHandler()
	mail.fail = true

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/signup",
		`{"name":"Ada","email":"ada@example.com","password":"long1!enough","password_confirm":"long1!enough"}`)

	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be sent")

	// The account exists despite the failed delivery.
	_, err := users.GetByEmail(nil, "ada@example.com")
	assert.NoError(t, err)
}

func TestVerifyEmailHandler(t *testing.T) {
	h, users, mail, _ := newAuthTestHandler()
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/signup",
		`{"name":"Ada","email":"ada@example.com","password":"long1!enough","password_confirm":"long1!enough"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, mail.verifications, 1)
	token := strings.TrimPrefix(mail.verifications[0], "http://app.test/verify/")

	c, rec = newJSONContext(e, http.MethodGet, "/verify/"+token, "")
	c.SetParamNames("token")
	c.SetParamValues(token)

	require.NoError(t, h.VerifyEmail(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	u, err := users.GetByEmail(nil, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsVerified)
}

func TestVerifyEmailHandlerBadToken(t *testing.T) {
	h, _, _, _ := newAuthTestHandler()
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodGet, "/verify/garbage", "")
	c.SetParamNames("token")
	c.SetParamValues("garbage")

	require.NoError(t, h.VerifyEmail(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestForgotPasswordHandlerUniformResponse(t *testing.T) {
	h, _, mail, _ := newAuthTestHandler()
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/signup",
		`{"name":"Ada","email":"ada@example.com","password":"long1!enough","password_confirm":"long1!enough"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, recKnown := newJSONContext(e, http.MethodPost, "/forgot-password", `{"email":"ada@example.com"}`)
	require.NoError(t, h.ForgotPassword(c))
	c, recUnknown := newJSONContext(e, http.MethodPost, "/forgot-password", `{"email":"nobody@example.com"}`)
	require.NoError(t, h.ForgotPassword(c))

	// Identical status and body either way; only the mailbox differs.
	assert.Equal(t, http.StatusOK, recKnown.Code)
	assert.Equal(t, http.StatusOK, recUnknown.Code)
	assert.Equal(t, recKnown.Body.String(), recUnknown.Body.String())
	assert.Contains(t, recKnown.Body.String(), genericResetMessage)
	assert.Len(t, mail.resets, 1)
}

func TestResetPasswordHandler(t *testing.T) {
	h, users, mail, histStore := newAuthTestHandler()
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/signup",
		`{"name":"Ada","email":"ada@example.com","password":"long1!enough","password_confirm":"long1!enough"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, _ = newJSONContext(e, http.MethodPost, "/forgot-password", `{"email":"ada@example.com"}`)
	require.NoError(t, h.ForgotPassword(c))
	require.Len(t, mail.resets, 1)
	token := strings.TrimPrefix(mail.resets[0], "http://app.test/reset-password/")

	c, rec = newJSONContext(e, http.MethodPost, "/reset-password/"+token,
		`{"new_password":"new2)secret","new_password_confirm":"new2)secret"}`)
	c.SetParamNames("token")
	c.SetParamValues(token)

	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password reset successful")

	u, err := users.GetByEmail(nil, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "new2)secret"))

	require.Len(t, histStore.entries, 1)
	assert.Equal(t, model.ActionPasswordReset, histStore.entries[0].ActionType)
}

func TestResetPasswordHandlerBadToken(t *testing.T) {
	h, _, _, _ := newAuthTestHandler()
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/reset-password/garbage",
		`{"new_password":"new2)secret","new_password_confirm":"new2)secret"}`)
	c.SetParamNames("token")
	c.SetParamValues("garbage")

	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}
