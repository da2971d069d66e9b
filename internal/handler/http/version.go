package http

import (
	"net/http"

	"github.com/MKhiriev/go-list-keeper/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.services.AppInfoService.GetBuildInfo(r.Context()))
}

// ping answers the reachability probe of the client.
func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
