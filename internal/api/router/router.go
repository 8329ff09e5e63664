// Package router assembles the HTTP surface of the portal API.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/toughlovemassage/portal/internal/http/handlers"
	httpmiddleware "github.com/toughlovemassage/portal/internal/http/middleware"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	Sessions httpmiddleware.SessionResolver
	Accounts httpmiddleware.AdminChecker

	Auth         *handlers.AuthHandler
	Webhook      *handlers.FullSlateWebhookHandler
	Intakes      *handlers.PortalIntakesHandler
	Appointments *handlers.AppointmentsHandler
	SOAPNotes    *handlers.SOAPNotesHandler
	Clients      *handlers.PortalClientsHandler
	Providers    *handlers.AdminProvidersHandler
	ProviderSelf *handlers.ProviderSelfHandler
	Clinic       *handlers.ClinicHandler
	GiftCards    *handlers.GiftCardsHandler
	Careers      *handlers.CareersHandler
	Performance  *handlers.PerformanceHandler

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, booking site data, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Webhook != nil {
			public.Post("/webhooks/fullslate", cfg.Webhook.Handle)
		}
		if cfg.Auth != nil {
			public.Post("/auth/login", cfg.Auth.Login)
		}
		if cfg.Clinic != nil {
			public.Get("/locations", cfg.Clinic.ListLocations)
			public.Get("/treatments", cfg.Clinic.ListTreatments)
		}
		if cfg.GiftCards != nil {
			public.Route("/gift-cards", func(r chi.Router) {
				r.Post("/checkout", cfg.GiftCards.Checkout)
				r.Get("/return", cfg.GiftCards.Return)
			})
		}
		if cfg.Careers != nil {
			public.Post("/careers/apply", cfg.Careers.Apply)
		}
	})

	// Provider portal (session required)
	r.Route("/portal", func(portal chi.Router) {
		portal.Use(httpmiddleware.RequireProvider(cfg.Sessions))

		portal.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			id, _ := httpmiddleware.IdentityFromContext(r.Context())
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(id)
		})
		if cfg.Auth != nil {
			portal.Post("/logout", cfg.Auth.Logout)
		}
		if cfg.Intakes != nil {
			portal.Route("/intakes", func(r chi.Router) {
				r.Get("/", cfg.Intakes.List)
				r.Post("/{id}/confirm", cfg.Intakes.Confirm)
				r.Post("/{id}/assign", cfg.Intakes.Assign)
				r.Put("/{id}/notes", cfg.Intakes.SetNotes)
			})
		}
		if cfg.Appointments != nil {
			portal.Route("/appointments", func(r chi.Router) {
				r.Post("/", cfg.Appointments.Create)
				r.Get("/", cfg.Appointments.ListDay)
				r.Get("/{id}", cfg.Appointments.Get)
				r.Post("/{id}/transition", cfg.Appointments.Transition)
			})
		}
		if cfg.SOAPNotes != nil {
			portal.Route("/soap-notes", func(r chi.Router) {
				r.Post("/", cfg.SOAPNotes.Create)
				r.Get("/appointment/{appointmentID}", cfg.SOAPNotes.GetByAppointment)
				r.Get("/client/{clientID}", cfg.SOAPNotes.ListForClient)
				r.Put("/{id}", cfg.SOAPNotes.Update)
				r.Post("/{id}/lock", cfg.SOAPNotes.Lock)
			})
		}
		if cfg.Clients != nil {
			portal.Route("/clients", func(r chi.Router) {
				r.Get("/", cfg.Clients.List)
				r.Get("/{id}", cfg.Clients.Get)
				r.Put("/{id}/preferences", cfg.Clients.UpdatePreferences)
				r.Post("/{id}/alerts", cfg.Clients.CreateAlert)
				r.Get("/{id}/alerts", cfg.Clients.ListAlerts)
				r.Put("/{id}/note", cfg.Clients.UpsertNote)
				r.Get("/{id}/note", cfg.Clients.GetNote)
			})
			portal.Post("/alerts/{id}/deactivate", cfg.Clients.DeactivateAlert)
		}
		if cfg.ProviderSelf != nil {
			portal.Route("/availability", func(r chi.Router) {
				r.Post("/", cfg.ProviderSelf.AddAvailability)
				r.Get("/", cfg.ProviderSelf.ListAvailability)
				r.Delete("/{id}", cfg.ProviderSelf.DeleteAvailability)
			})
			portal.Put("/buffer", cfg.ProviderSelf.UpdateBuffer)
			portal.Put("/limits", cfg.ProviderSelf.UpsertDailyLimit)
			portal.Put("/password", cfg.ProviderSelf.ChangePassword)
		}
		if cfg.Performance != nil {
			portal.Get("/performance", cfg.Performance.List)
		}
	})

	// Admin routes. The admin flag is checked against the database on every
	// request, never taken from the session.
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.RequireProvider(cfg.Sessions))
		admin.Use(httpmiddleware.RequireAdmin(cfg.Accounts))

		if cfg.Providers != nil {
			admin.Route("/providers", func(r chi.Router) {
				r.Post("/", cfg.Providers.Create)
				r.Get("/", cfg.Providers.List)
				r.Get("/{id}", cfg.Providers.Get)
				r.Put("/{id}", cfg.Providers.Update)
				r.Post("/{id}/deactivate", cfg.Providers.Deactivate)
				r.Put("/{id}/treatments", cfg.Providers.ReplaceTreatments)
				r.Put("/{id}/limits", cfg.Providers.UpsertDailyLimit)
			})
		}
		if cfg.Clinic != nil {
			admin.Post("/locations", cfg.Clinic.CreateLocation)
			admin.Put("/locations/{id}", cfg.Clinic.UpdateLocation)
			admin.Post("/treatments", cfg.Clinic.CreateTreatment)
			admin.Post("/treatments/{id}/deactivate", cfg.Clinic.DeactivateTreatment)
		}
		if cfg.Careers != nil {
			admin.Get("/applications", cfg.Careers.List)
		}
		if cfg.Performance != nil {
			admin.Post("/performance/rollup", cfg.Performance.Rollup)
		}
	})

	return r
}
