package handler

import (
	"errors"
	"net/http"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

// ForceRefresh triggers an immediate provider fetch regardless of cache
// freshness. Used operationally when a rate looks off.
func (h *Handler) ForceRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RefreshRates(r.Context(), true); err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "rate provider unavailable")
			return
		}
		msg := "failed to refresh exchange rates"
		logrus.WithError(err).WithField("handler", "ForceRefresh").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
