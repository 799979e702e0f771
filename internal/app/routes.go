package app

import (
	"net/http"

	"github.com/cinevo/cinema-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("cinema-api", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Post("/users", app.RegisterUser)
	r.Put("/users/activation", app.ActivateUser)
	r.Post("/sessions", app.Login)
	r.Delete("/sessions", app.Logout)

	r.With(app.requireAuthentication).Route("/users/me", func(r chi.Router) {
		r.Get("/", app.GetCurrentUser)
		r.Patch("/", app.UpdateUser)
		r.Get("/bookings", app.GetUserBookings)
	})

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", app.GetMovies)
		r.Get("/{movieId}", app.GetMovie)
		r.Get("/{movieId}/comments", app.GetMovieComments)

		r.With(app.requireAuthentication).Post("/{movieId}/comments", app.CreateComment)

		r.Group(func(r chi.Router) {
			r.Use(app.requireRole(domain.RoleStaff, domain.RoleAdmin))

			r.Post("/", app.CreateMovie)
			r.Patch("/{movieId}", app.UpdateMovie)
			r.Delete("/{movieId}", app.DeleteMovie)
		})
	})

	r.With(app.requireAuthentication).Delete("/comments/{commentId}", app.DeleteComment)

	r.Route("/theaters", func(r chi.Router) {
		r.Get("/", app.GetTheaters)
		r.Get("/{theaterId}", app.GetTheater)
		r.Get("/{theaterId}/screenings", app.GetTheaterScreenings)
	})

	r.Route("/screenings", func(r chi.Router) {
		r.Get("/{screeningId}", app.GetScreening)
		r.Get("/{screeningId}/seats", app.GetScreeningSeats)

		r.Group(func(r chi.Router) {
			r.Use(app.requireRole(domain.RoleStaff, domain.RoleAdmin))

			r.Post("/", app.CreateScreening)
			r.Patch("/{screeningId}", app.UpdateScreening)
			r.Delete("/{screeningId}", app.DeleteScreening)
		})
	})

	r.With(app.requireAuthentication).Route("/bookings", func(r chi.Router) {
		r.Post("/", app.CreateBooking)
		r.Get("/{bookingId}", app.GetBooking)
		r.Get("/{bookingId}/qr", app.GetBookingQRCode)
		r.Post("/{bookingId}/cancellation", app.CancelBooking)

		r.With(app.requireRole(domain.RoleStaff, domain.RoleAdmin)).
			Post("/{bookingId}/check-in", app.CheckInBooking)
	})

	r.Route("/incidents", func(r chi.Router) {
		r.Use(app.requireRole(domain.RoleStaff, domain.RoleAdmin))

		r.Post("/", app.CreateIncident)
		r.Get("/", app.GetIncidents)
		r.Get("/{incidentId}", app.GetIncident)
		r.Patch("/{incidentId}", app.UpdateIncident)
	})

	r.With(app.requireRole(domain.RoleStaff, domain.RoleAdmin)).
		Get("/stats/daily", app.GetDailyStats)

	return r
}
