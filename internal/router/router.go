package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-booking/internal/handler"
	"github.com/iliyamo/train-seat-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers or monitoring systems to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token and returns a fresh pair.
	g.POST("/refresh", a.Refresh)
	// Revokes the supplied refresh token; with "all" set, every
	// session of the token's user.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterBooking registers the seat map and booking endpoints.  The seat
// map is public (guests can preview availability before logging in, as
// the booking page renders it unauthenticated) and sits behind the
// response cache; book/reset/my-booking require a valid access token.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/seats", h.GetSeatMap, cache)
	} else {
		e.GET("/v1/seats", h.GetSeatMap)
	}

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/seats/book", h.Book)
	g.POST("/seats/reset", h.Reset)
	g.GET("/my-booking", h.MyBooking)
}
