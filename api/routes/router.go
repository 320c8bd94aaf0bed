package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/midastechnical/storefront-sync/api/controllers"
	"github.com/midastechnical/storefront-sync/api/middleware"
	"github.com/midastechnical/storefront-sync/pkg/config"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     controllers.Pinger
	Inventory controllers.InventoryService
	Catalog   controllers.CatalogService
	Tasks     controllers.TaskStore
	Metrics   prometheus.Gatherer
}

// NewRouter builds the HTTP handler for the API server.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/{productId}", controllers.UpdateInventory(params.Inventory, logg))
			r.Get("/{productId}/changes", controllers.InventoryChanges(params.Inventory, logg))
			r.Post("/reconcile", controllers.ReconcileInventory(params.Inventory, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/{productId}/publish", controllers.PublishProduct(params.Catalog, logg))
			r.Delete("/{productId}/publish", controllers.UnpublishProduct(params.Catalog, logg))
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Get("/", controllers.ListTasks(params.Tasks, logg))
			r.Get("/{name}/logs", controllers.TaskLogs(params.Tasks, logg))
			r.Post("/{name}/enable", controllers.SetTaskEnabled(params.Tasks, true, logg))
			r.Post("/{name}/disable", controllers.SetTaskEnabled(params.Tasks, false, logg))
		})
	})

	return r
}
