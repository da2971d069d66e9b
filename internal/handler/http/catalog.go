package http

import (
	"net/http"

	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/models"
)

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.services.ShoppingService.ListCatalog(r.Context())
	if err != nil {
		h.writeError(w, r, "*Handler.listCatalog", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.NonNil(entries))
}

func (h *Handler) createCatalogEntry(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[models.CreateCatalogEntryRequest](r)
	if err != nil {
		h.writeError(w, r, "*Handler.createCatalogEntry", err)
		return
	}

	entry, err := h.services.ShoppingService.CreateCatalogEntry(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "*Handler.createCatalogEntry", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) deleteCatalogEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, "*Handler.deleteCatalogEntry", err)
		return
	}

	if err = h.services.ShoppingService.DeleteCatalogEntry(r.Context(), id); err != nil {
		h.writeError(w, r, "*Handler.deleteCatalogEntry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
