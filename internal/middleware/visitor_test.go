package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVisitor(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var visitorID string
	h := VisitorID()(func(c echo.Context) error {
		visitorID, _ = c.Get(VisitorIDKey).(string)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, visitorID
}

func TestVisitorIDAssignedOnFirstContact(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, visitorID := runVisitor(t, req)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == VisitorCookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "first contact sets the visitor cookie")
	_, err := uuid.Parse(cookie.Value)
	assert.NoError(t, err, "visitor id is a UUID, disjoint from numeric user ids")
	assert.Equal(t, cookie.Value, visitorID)
	assert.True(t, cookie.HttpOnly)
}

func TestVisitorIDPreserved(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: existing})

	rec, visitorID := runVisitor(t, req)

	assert.Equal(t, existing, visitorID)
	for _, ck := range rec.Result().Cookies() {
		assert.NotEqual(t, VisitorCookieName, ck.Name, "a returning visitor keeps their id")
	}
}
