package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)
	router.Use(withCORS)
	router.Use(middleware.Compress(5, "application/json"))

	router.Get("/ping", h.ping)
	router.Get("/version", h.getServerVersion)

	router.Group(func(r chi.Router) {
		r.Use(h.withIdempotency)

		r.Route("/artikel", func(r chi.Router) {
			r.Get("/", h.listCatalog)
			r.Post("/", h.createCatalogEntry)
			r.Delete("/{id}", h.deleteCatalogEntry)
		})

		r.Route("/listen", func(r chi.Router) {
			r.Get("/", h.getLists)
			r.Post("/", h.createList)
			r.Get("/{id}", h.getList)
			r.Delete("/{id}", h.deleteList)
			r.Get("/{id}/positionen", h.getItems)
			r.Post("/{id}/positionen", h.createItem)
		})

		r.Route("/positionen", func(r chi.Router) {
			r.Get("/{id}", h.getItem)
			r.Patch("/{id}", h.updateItem)
			r.Put("/{id}", h.updateItem)
			r.Delete("/{id}", h.deleteItem)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
