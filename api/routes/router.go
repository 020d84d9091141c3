package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/health-optimised/directory-backend/api/controllers"
	"github.com/health-optimised/directory-backend/api/middleware"
	"github.com/health-optimised/directory-backend/internal/accounts"
	"github.com/health-optimised/directory-backend/internal/admin"
	"github.com/health-optimised/directory-backend/internal/anon"
	"github.com/health-optimised/directory-backend/internal/ratings"
	"github.com/health-optimised/directory-backend/internal/suppliers"
	"github.com/health-optimised/directory-backend/pkg/config"
	"github.com/health-optimised/directory-backend/pkg/enums"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    kv.Store
	Repo     *suppliers.Repository
	Accounts *accounts.Directory
	Ratings  *ratings.Store
	Anon     *anon.Provider
	Engine   *admin.Engine
	Registry *prometheus.Registry
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.Store, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{Registry: d.Registry}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(d.Accounts, cfg.JWT, logg))
			r.Post("/logout", controllers.AuthLogout(d.Accounts, logg))
			r.Get("/session", controllers.AuthSession(d.Accounts, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SuppliersList(d.Repo, logg))
			r.Get("/{id}", controllers.SupplierGet(d.Repo, logg))
			r.Get("/{id}/ratings", controllers.RatingsGet(d.Repo, d.Ratings, d.Anon, logg))
			r.Put("/{id}/ratings", controllers.RatingsSet(d.Repo, d.Ratings, d.Anon, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, d.Accounts, logg),
				middleware.RequireRole(enums.RoleAdmin, logg),
			)

			r.Route("/suppliers", func(r chi.Router) {
				r.Post("/", controllers.AdminSuppliersCreate(d.Engine, logg))
				r.Post("/verify-all", controllers.AdminBulkVerify(d.Engine, logg))
				r.Get("/selected", controllers.AdminSelectedSupplier(d.Engine, logg))
				r.Put("/{id}", controllers.AdminSuppliersUpdate(d.Engine, logg))
				r.Delete("/{id}", controllers.AdminSuppliersDelete(d.Engine, logg))
				r.Post("/{id}/toggle", controllers.AdminSuppliersToggle(d.Engine, logg))
				r.Post("/{id}/queue", controllers.AdminSuppliersEnqueue(d.Engine, logg))
				r.Post("/{id}/select", controllers.AdminSuppliersSelect(d.Engine, logg))
			})

			r.Route("/queue", func(r chi.Router) {
				r.Get("/", controllers.AdminQueueList(d.Engine, logg))
				r.Post("/{id}/resolve", controllers.AdminQueueResolve(d.Engine, logg))
			})

			r.Get("/timeline", controllers.AdminTimeline(d.Engine, logg))
			r.Get("/stats", controllers.AdminStats(d.Engine, logg))
			r.Get("/feedback", controllers.AdminFeedback(d.Engine, logg))

			r.Route("/credentials", func(r chi.Router) {
				r.Get("/", controllers.AdminAccounts(d.Accounts, logg))
				r.Post("/rotate", controllers.AdminRotateCredentials(d.Engine, logg))
				r.Post("/{role}/copy", controllers.AdminCopyCredentials(d.Engine, logg))
			})
		})
	})

	return r
}
