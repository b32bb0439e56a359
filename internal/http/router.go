// Package http assembles the API router from the feature handlers.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/natog7/PersonalFinance/internal/auth"
	authhttp "github.com/natog7/PersonalFinance/internal/http/auth"
	"github.com/natog7/PersonalFinance/internal/http/category"
	"github.com/natog7/PersonalFinance/internal/http/export"
	"github.com/natog7/PersonalFinance/internal/http/importcsv"
	"github.com/natog7/PersonalFinance/internal/http/transaction"
)

func New(
	tokens auth.TokenIssuer,
	authV1 *authhttp.Handler,
	transactionsV1 *transaction.Handler,
	categoriesV1 *category.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Require(tokens))

			r.Route("/transactions", func(r chi.Router) {
				// The CSV export is a GET with no body; content-type
				// enforcement applies to the JSON routes only.
				exportV1.Routes(r)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					transactionsV1.Routes(r)
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				categoriesV1.Routes(r)
			})

			r.Route("/import", importV1.Routes)
		})
	})

	return router
}
