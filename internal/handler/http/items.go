package http

import (
	"net/http"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/models"
)

func (h *Handler) getItems(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, "*Handler.getItems", err)
		return
	}

	items, err := h.services.ShoppingService.GetItems(r.Context(), listID)
	if err != nil {
		h.writeError(w, r, "*Handler.getItems", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.NonNil(items))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, "*Handler.getItem", err)
		return
	}

	item, err := h.services.ShoppingService.GetItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "*Handler.getItem", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	listID, err := pathID(r)
	if err != nil {
		h.writeError(w, r, "*Handler.createItem", err)
		return
	}

	req, err := decodeBody[models.CreateItemRequest](r)
	if err != nil {
		logger.FromRequest(r).Debug().Err(err).Str("func", "*Handler.createItem").Msg("invalid JSON was passed")
		h.writeError(w, r, "*Handler.createItem", err)
		return
	}

	item, err := h.services.ShoppingService.CreateItem(r.Context(), listID, req)
	if err != nil {
		h.writeError(w, r, "*Handler.createItem", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, item)
}

// updateItem serves PATCH and PUT alike. Only the fields present in the
// body are changed.
func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, "*Handler.updateItem", err)
		return
	}

	update, err := decodeBody[models.ItemUpdate](r)
	if err != nil {
		logger.FromRequest(r).Debug().Err(err).Str("func", "*Handler.updateItem").Msg("invalid JSON was passed")
		h.writeError(w, r, "*Handler.updateItem", err)
		return
	}

	item, err := h.services.ShoppingService.UpdateItem(r.Context(), id, update)
	if err != nil {
		h.writeError(w, r, "*Handler.updateItem", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, "*Handler.deleteItem", err)
		return
	}

	if err = h.services.ShoppingService.DeleteItem(r.Context(), id); err != nil {
		h.writeError(w, r, "*Handler.deleteItem", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
