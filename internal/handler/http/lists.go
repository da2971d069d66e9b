package http

import (
	"net/http"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/models"
)

func (h *Handler) getLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.services.ShoppingService.GetLists(r.Context())
	if err != nil {
		h.writeError(w, r, "*Handler.getLists", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.NonNil(lists))
}

func (h *Handler) getList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, "*Handler.getList", err)
		return
	}

	list, err := h.services.ShoppingService.GetList(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "*Handler.getList", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) createList(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[models.CreateListRequest](r)
	if err != nil {
		logger.FromRequest(r).Debug().Err(err).Str("func", "*Handler.createList").Msg("invalid JSON was passed")
		h.writeError(w, r, "*Handler.createList", err)
		return
	}

	list, err := h.services.ShoppingService.CreateList(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "*Handler.createList", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, list)
}

func (h *Handler) deleteList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, "*Handler.deleteList", err)
		return
	}

	if err = h.services.ShoppingService.DeleteList(r.Context(), id); err != nil {
		h.writeError(w, r, "*Handler.deleteList", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
