package http

import (
	"io/fs"
	"net/http"

	"github.com/atinyakov/sbp/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the page handlers served by NewRouter.
type Handlers struct {
	Auth         *AuthHandler
	Dashboard    *DashboardHandler
	Transactions *TransactionHandler
	Goals        *GoalHandler
}

// NewRouter constructs the HTTP handler of the planner.
//
// Routes:
//
//	GET  /healthz                  → liveness probe
//	GET  /static/*                 → stylesheet
//	GET  /                         → redirect to /dashboard
//	GET  /login, POST /login       → h.Auth
//	POST /logout                   → h.Auth.Logout
//	GET  /dashboard                → h.Dashboard.Show (protected)
//	POST /dashboard/income         → h.Dashboard.SaveIncome (protected)
//	GET  /transactions             → h.Transactions.List (protected)
//	POST /transactions             → h.Transactions.Add (protected)
//	POST /transactions/{id}/delete → h.Transactions.Delete (protected)
//	GET  /goals, POST /goals       → h.Goals (protected)
//	POST /goals/{id}/contribute    → h.Goals.Contribute (protected)
//	GET  /goals/{id}/remove        → h.Goals.ConfirmRemove (protected)
//	POST /goals/{id}/remove        → h.Goals.Remove (protected)
//
// Page routes run behind Device and WithRequestLogging; protected routes
// also require an identity and send anonymous visitors to /login.
func NewRouter(h Handlers, static fs.FS, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Device)
		r.Use(middleware.WithRequestLogging(logger))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})
		r.Get("/login", h.Auth.ShowLogin)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		// Protected group: requires a stored display name
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity(h.Auth.Service, "/login"))

			r.Get("/dashboard", h.Dashboard.Show)
			r.Post("/dashboard/income", h.Dashboard.SaveIncome)

			r.Get("/transactions", h.Transactions.List)
			r.Post("/transactions", h.Transactions.Add)
			r.Post("/transactions/{id}/delete", h.Transactions.Delete)

			r.Get("/goals", h.Goals.List)
			r.Post("/goals", h.Goals.Add)
			r.Post("/goals/{id}/contribute", h.Goals.Contribute)
			r.Get("/goals/{id}/remove", h.Goals.ConfirmRemove)
			r.Post("/goals/{id}/remove", h.Goals.Remove)
		})
	})

	return r
}
