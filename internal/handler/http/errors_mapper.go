package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-list-keeper/internal/app"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
)

var errorStatusMap = map[error]int{
	ErrInvalidID:                             http.StatusBadRequest,
	service.ErrInvalidDataProvided:           http.StatusBadRequest,
	service.ErrValidationLabelRequired:       http.StatusBadRequest,
	service.ErrValidationItemNameRequired:    http.StatusBadRequest,
	service.ErrValidationCatalogNameRequired: http.StatusBadRequest,
	service.ErrValidationNothingToUpdate:     http.StatusBadRequest,

	service.ErrListNotFound:         http.StatusNotFound,
	service.ErrItemNotFound:         http.StatusNotFound,
	service.ErrCatalogEntryNotFound: http.StatusNotFound,
	service.ErrCatalogEntryExists:   http.StatusConflict,
}

// errorMessages lists the sentinels by precedence. A validation failure
// wraps ErrInvalidDataProvided too, so the specific reason comes first.
var errorMessages = []struct {
	err error
	msg string
}{
	{ErrInvalidID, app.MsgInvalidID},
	{service.ErrValidationLabelRequired, app.MsgLabelRequired},
	{service.ErrValidationItemNameRequired, app.MsgItemNameRequired},
	{service.ErrValidationCatalogNameRequired, app.MsgCatalogNameRequired},
	{service.ErrValidationNothingToUpdate, app.MsgNothingToUpdate},
	{service.ErrInvalidDataProvided, app.MsgInvalidDataProvided},
	{service.ErrListNotFound, app.MsgListNotFound},
	{service.ErrItemNotFound, app.MsgItemNotFound},
	{service.ErrCatalogEntryNotFound, app.MsgCatalogEntryNotFound},
	{service.ErrCatalogEntryExists, app.MsgCatalogEntryExists},
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageFromError(err error) string {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return app.MsgInternalServerError
}

// writeError answers with the status and message matching err. Unknown
// errors are logged and answered with 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("func", funcName).Msg("request failed")
	}
	utils.WriteMessage(w, status, messageFromError(err))
}
