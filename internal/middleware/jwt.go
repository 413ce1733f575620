package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the Echo context key under which the authenticated
// user's id is stored. The value is always a uint64.
const UserIDKey = "user_id"

// parseBearer extracts and validates the Bearer access token from the
// Authorization header and returns the subject user id.
func parseBearer(c echo.Context, secret string) (uint64, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	// JWT numbers decode as float64; some issuers encode the subject
	// as a string.
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), sub > 0
	case string:
		id, err := strconv.ParseUint(sub, 10, 64)
		return id, err == nil && id > 0
	}
	return 0, false
}

// JWTAuth validates a Bearer access token and injects the subject
// user id into the request context. Protected routes use it so
// handlers can read the identity via CurrentUserID.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := parseBearer(c, secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
			}
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}

// OptionalJWTAuth injects the user id when a valid Bearer token is
// present and lets the request through either way. Used on endpoints
// that behave differently for anonymous visitors instead of
// rejecting them.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid, ok := parseBearer(c, secret); ok {
				c.Set(UserIDKey, uid)
			}
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user id set by JWTAuth or
// OptionalJWTAuth, and whether one is present.
func CurrentUserID(c echo.Context) (uint64, bool) {
	uid, ok := c.Get(UserIDKey).(uint64)
	return uid, ok && uid > 0
}
