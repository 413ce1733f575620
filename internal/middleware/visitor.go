package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// VisitorCookieName is the cookie carrying the anonymous tracking
// identifier.
const VisitorCookieName = "mm_visitor"

// VisitorIDKey is the Echo context key for the visitor id string.
const VisitorIDKey = "visitor_id"

// VisitorID assigns every client a UUID tracking identifier on first
// contact and persists it for a year. The id only labels anonymous
// page visits upstream of the history subsystem; being a UUID string
// it can never collide with the numeric authenticated user ids.
func VisitorID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(VisitorCookieName)
			if err != nil || cookie.Value == "" {
				cookie = &http.Cookie{
					Name:     VisitorCookieName,
					Value:    uuid.NewString(),
					Path:     "/",
					Expires:  time.Now().Add(365 * 24 * time.Hour),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				c.SetCookie(cookie)
			}
			c.Set(VisitorIDKey, cookie.Value)
			return next(c)
		}
	}
}
