package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/auth"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/handler"
	mw "github.com/parisxmas/OxiDB/OxiIntake/internal/middleware"
)

func New(
	jwtSecret string,
	log zerolog.Logger,
	autosaveH *handler.AutosaveHandler,
	submitH *handler.SubmitHandler,
	prefillH *handler.PrefillHandler,
	authH *handler.AuthHandler,
	adminH *handler.AdminHandler,
	dashH *handler.DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery(log))
	r.Use(mw.Tracing)
	r.Use(mw.Logger(log))
	r.Use(mw.CORS)

	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		// Intake wizard
		r.Post("/autosave", autosaveH.Save)
		r.Get("/autosave", autosaveH.Load)
		r.Get("/defaults", autosaveH.Defaults)
		r.Post("/submit", submitH.Submit)

		// Financial prefill
		r.Post("/plaid/create-link-token", prefillH.BankLinkToken)
		r.Post("/plaid/exchange-token", prefillH.ExchangeBank)
		r.Post("/credit-check/create-link-token", prefillH.CreditLinkToken)
		r.Post("/credit-check", prefillH.CreditCheck)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authH.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(jwtSecret, auth.RoleAdmin))

				r.Get("/dashboard", dashH.Dashboard)
				r.Get("/submissions", adminH.List)
				r.Get("/submissions/export.csv", adminH.ExportAllCSV)
				r.Get("/submissions/{id}/export.csv", adminH.ExportCSV)
				r.Get("/submissions/{id}/export.json", adminH.ExportJSON)
			})
		})
	})

	return r
}
