package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"route-api/http-server/health"
	"route-api/http-server/login"
	"route-api/http-server/process"
	"route-api/http-server/product"
	"route-api/http-server/route"
	"route-api/http-server/shift"
	"route-api/http-server/unit"
	"route-api/http-server/workstation"
	"route-api/internal/auth"
	"route-api/internal/config"
	bearer "route-api/internal/middleware/auth"
	"route-api/internal/storage/sqlstore"
)

// routes wires the handlers. Each handler bounds its own work: store calls
// get RequestTimeout and the route card export gets ExportTimeout.
func routes(cfg config.Config, log *slog.Logger, storage *sqlstore.Storage, tokens *auth.Manager, cards route.CardGenerator) *chi.Mux {
	timeout := cfg.RequestTimeout
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", health.New(log, storage))
	router.Post("/login", login.New(log, storage, tokens, timeout))

	router.Group(func(r chi.Router) {
		r.Use(bearer.Bearer(tokens))

		r.Route("/unit", func(r chi.Router) {
			r.Post("/create", unit.Create(log, storage, timeout))
			r.Post("/list", unit.List(log, storage, timeout))
			r.Post("/get", unit.Get(log, storage, timeout))
			r.Post("/update", unit.Update(log, storage, timeout))
			r.Post("/delete", unit.Delete(log, storage, timeout))
			r.Post("/reactivate", unit.Reactivate(log, storage, timeout))
		})

		r.Route("/shift", func(r chi.Router) {
			r.Post("/create", shift.Create(log, storage, timeout))
			r.Post("/list", shift.List(log, storage, timeout))
			r.Post("/get", shift.Get(log, storage, timeout))
			r.Post("/update", shift.Update(log, storage, timeout))
			r.Post("/delete", shift.Delete(log, storage, timeout))
			r.Post("/reactivate", shift.Reactivate(log, storage, timeout))
		})

		r.Route("/workstation", func(r chi.Router) {
			r.Post("/create", workstation.Create(log, storage, timeout))
			r.Post("/list", workstation.List(log, storage, timeout))
			r.Post("/get", workstation.Get(log, storage, timeout))
			r.Post("/update", workstation.Update(log, storage, timeout))
			r.Post("/delete", workstation.Delete(log, storage, timeout))
			r.Post("/reactivate", workstation.Reactivate(log, storage, timeout))
		})

		r.Route("/process", func(r chi.Router) {
			r.Post("/create", process.Create(log, storage, timeout))
			r.Post("/list", process.List(log, storage, timeout))
			r.Post("/get", process.Get(log, storage, timeout))
			r.Post("/update", process.Update(log, storage, timeout))
			r.Post("/delete", process.Delete(log, storage, timeout))
			r.Post("/reactivate", process.Reactivate(log, storage, timeout))
		})

		r.Route("/route", func(r chi.Router) {
			r.Post("/create", route.Create(log, storage, timeout))
			r.Post("/list", route.List(log, storage, timeout))
			r.Post("/get", route.Get(log, storage, timeout))
			r.Post("/update", route.Update(log, storage, timeout))
			r.Post("/delete", route.Delete(log, storage, timeout))
			r.Post("/reactivate", route.Reactivate(log, storage, timeout))
			r.Post("/export", route.Export(log, cards, cfg.ExportTimeout))
		})

		r.Route("/product", func(r chi.Router) {
			r.Post("/create", product.Create(log, storage, timeout))
			r.Post("/list", product.List(log, storage, timeout))
			r.Post("/get", product.Get(log, storage, timeout))
			r.Post("/update", product.Update(log, storage, timeout))
			r.Post("/delete", product.Delete(log, storage, timeout))
			r.Post("/reactivate", product.Reactivate(log, storage, timeout))
		})
	})

	return router
}
