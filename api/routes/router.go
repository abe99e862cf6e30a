package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soilminds/soilminds-backend/api/controllers"
	"github.com/soilminds/soilminds-backend/api/middleware"
	"github.com/soilminds/soilminds-backend/internal/auth"
	"github.com/soilminds/soilminds-backend/internal/contact"
	"github.com/soilminds/soilminds-backend/internal/farms"
	"github.com/soilminds/soilminds-backend/internal/fields"
	"github.com/soilminds/soilminds-backend/internal/readings"
	"github.com/soilminds/soilminds-backend/internal/reports"
	"github.com/soilminds/soilminds-backend/pkg/config"
	"github.com/soilminds/soilminds-backend/pkg/logger"
	"github.com/soilminds/soilminds-backend/pkg/metrics"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	DB    controllers.Pinger
	Cache controllers.Pinger

	Auth     auth.Service
	Farms    farms.Service
	Fields   fields.Service
	Readings readings.Service
	Reports  reports.Service
	Contact  contact.Service
}

// New builds the HTTP router with the full middleware chain and API surface.
func New(deps Deps) http.Handler {
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.Get("/health/live", controllers.HealthLive())
	r.Get("/health/ready", controllers.HealthReady(deps.DB, deps.Cache, logg))
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", controllers.Signup(deps.Auth, logg))
			r.Post("/login", controllers.Login(deps.Auth, logg))
			r.Get("/user/{id}", controllers.GetUser(deps.Auth, logg))
			r.Post("/logout", controllers.Logout())
		})

		r.Route("/farms", func(r chi.Router) {
			r.Get("/", controllers.ListFarms(deps.Farms, logg))
			r.Post("/", controllers.CreateFarm(deps.Farms, logg))
			r.Post("/{id}/complete", controllers.CompleteFarm(deps.Farms, logg))
			r.Post("/{id}/fields", controllers.AddFarmField(deps.Farms, logg))
			r.Delete("/{id}", controllers.DeleteFarm(deps.Farms, logg))
		})

		r.Route("/fields", func(r chi.Router) {
			r.Post("/create", controllers.CreateField(deps.Fields, logg))
			r.Get("/list", controllers.ListFields(deps.Fields, logg))
			r.Put("/update", controllers.UpdateField(deps.Fields, logg))
			r.Delete("/delete", controllers.DeleteField(deps.Fields, logg))
		})

		r.Route("/readings", func(r chi.Router) {
			r.Post("/generate", controllers.GenerateReading(deps.Readings, logg))
			r.Get("/latest", controllers.LatestReading(deps.Readings, logg))
			r.Get("/all", controllers.ListReadings(deps.Readings, logg))
			r.Post("/predict", controllers.PredictReading(deps.Readings, logg))
			r.Get("/ml-status", controllers.MLStatus(deps.Readings, logg))
			r.Get("/report", controllers.GetReport(deps.Reports, logg))
			r.Get("/report/download", controllers.DownloadReport(deps.Reports, logg))
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/send-email", controllers.SendContactEmail(deps.Contact, logg))
			r.Get("/sent-emails", controllers.SentEmails(deps.Contact, logg))
		})
	})

	return r
}
