package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Vamshik07/marketmind/internal/config"
	"github.com/Vamshik07/marketmind/internal/handler"
	"github.com/Vamshik07/marketmind/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account endpoints. Signup, login, token
// refresh and the email-token flows are public; logout and the profile
// endpoint require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/signup", a.Signup)
	e.GET("/verify/:token", a.VerifyEmail)
	e.POST("/login", a.Login)
	e.POST("/refresh", a.Refresh)
	e.POST("/forgot-password", a.ForgotPassword)
	e.POST("/reset-password/:token", a.ResetPassword)

	auth := e.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.POST("/logout", a.Logout)
	auth.GET("/me", a.Me)
}

// RegisterAPI registers the authenticated application endpoints under
// /api: history reads and mutations plus the AI generation routes. The
// grouped history read sits behind the per-user response cache; track
// uses optional auth so anonymous visits are accepted without error.
func RegisterAPI(e *echo.Echo, h *handler.HistoryHandler, g *handler.GenerateHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(jwtSecret))

	api.GET("/history/grouped", h.Grouped, middleware.UserCache(cacheCfg, rdb))
	api.GET("/history/archive", h.Archive, middleware.UserCache(cacheCfg, rdb))
	api.DELETE("/history/delete/:id", h.DeleteOne)
	api.DELETE("/history/clear", h.Clear)

	api.POST("/generate-campaign", g.Campaign)
	api.POST("/generate-pitch", g.Pitch)
	api.POST("/score-lead", g.LeadScore)

	// Track accepts both anonymous and authenticated visitors, so it
	// lives outside the strict auth group.
	e.POST("/api/track", h.Track, middleware.OptionalJWTAuth(jwtSecret))
}
