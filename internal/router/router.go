// Package router wires every endpoint to its handler and middleware chain.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/evrenos/tour-booking/internal/config"
	"github.com/evrenos/tour-booking/internal/handler"
	"github.com/evrenos/tour-booking/internal/middleware"
	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/repository"
)

// Handlers groups the endpoint handlers the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Tour        *handler.TourHandler
	Reservation *handler.ReservationHandler
	Booking     *handler.BookingHandler
	Guest       *handler.GuestHandler
	Agency      *handler.AgencyHandler
	User        *handler.UserHandler
}

// Register mounts all routes. The public tour catalogue sits behind the
// response cache and the rate limiter; everything under the protected group
// requires a live user, with role gates per resource.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, users *repository.UserRepo, h Handlers) {
	e.GET("/healthz", handler.Health)

	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	api := e.Group("/api/v1")

	// Public catalogue.
	tours := api.Group("/tours", limit, cache)
	tours.GET("", h.Tour.List)
	tours.GET("/:id", h.Tour.Get)
	tours.GET("/:id/availability", h.Tour.Availability)

	// Auth.
	auth := api.Group("/auth", limit)
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.PATCH("/reset-password/:token", h.Auth.ResetPassword)

	protect := middleware.Protect(cfg.JWTSecret, users)
	staff := middleware.RestrictTo(model.RoleAdmin, model.RoleAgency)
	admin := middleware.RestrictTo(model.RoleAdmin)

	priv := api.Group("", protect)
	priv.GET("/me", h.Auth.Me)
	priv.PATCH("/auth/update-password", h.Auth.UpdatePassword)

	// Reservations: any authenticated user may create and see their own;
	// the full list is staff only.
	priv.POST("/reservations", h.Reservation.Create)
	priv.GET("/my-reservations", h.Reservation.MyReservations)
	priv.GET("/reservations", h.Reservation.List, staff)
	priv.GET("/reservations/:id", h.Reservation.Get)
	priv.PATCH("/reservations/:id", h.Reservation.Update)
	priv.DELETE("/reservations/:id", h.Reservation.Delete)

	// Bookings: the commercial records agencies and admins manage.
	bookings := priv.Group("/bookings", staff)
	bookings.POST("", h.Booking.Create)
	bookings.GET("/:id", h.Booking.Get)
	bookings.PATCH("/:id", h.Booking.Update)
	bookings.DELETE("/:id", h.Booking.Delete)
	bookings.POST("/:id/confirm", h.Booking.Confirm)
	bookings.POST("/:id/cancel", h.Booking.Cancel)

	// Guests.
	guests := priv.Group("/guests", staff)
	guests.POST("", h.Guest.Create)
	guests.GET("", h.Guest.List)
	guests.GET("/:id", h.Guest.Get)
	guests.PATCH("/:id", h.Guest.Update)
	guests.DELETE("/:id", h.Guest.Delete)
	guests.GET("/:id/bookings", h.Guest.GuestBookings)

	// Admin-only management.
	priv.POST("/tours", h.Tour.Create, admin)
	priv.PATCH("/tours/:id", h.Tour.Update, admin)
	priv.DELETE("/tours/:id", h.Tour.Delete, admin)

	agencies := priv.Group("/agencies", admin)
	agencies.POST("", h.Agency.Create)
	agencies.GET("", h.Agency.List)
	agencies.GET("/:id", h.Agency.Get)
	agencies.PATCH("/:id", h.Agency.Update)
	agencies.DELETE("/:id", h.Agency.Delete)

	usersGroup := priv.Group("/users", admin)
	usersGroup.GET("", h.User.List)
	usersGroup.GET("/:id", h.User.Get)
	usersGroup.PATCH("/:id", h.User.Update)
	usersGroup.DELETE("/:id", h.User.Delete)
}
