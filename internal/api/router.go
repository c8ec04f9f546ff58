package api

import (
	"storefront/internal/currency/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(currencyHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Get("/api/v1/currencies", currencyHandler.GetCurrencies)
	router.Get("/api/v1/currencies/codes", currencyHandler.GetSupportedCodes)
	router.Get("/api/v1/rates", currencyHandler.GetRatesSnapshot)
	router.Post("/api/v1/rates/refresh", currencyHandler.ForceRefresh)
	router.Get("/api/v1/rates/{from:[A-Za-z]{3}}/{to:[A-Za-z]{3}}", currencyHandler.GetRate)
	router.Get("/api/v1/convert", currencyHandler.Convert)
	return router
}
