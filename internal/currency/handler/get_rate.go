package handler

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type GetRateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	from := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "from")))
	to := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "to")))

	rate, err := h.service.GetRate(r.Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedCurrency):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrRateUnavailable), errors.Is(err, domain.ErrProviderUnavailable):
			writeError(w, http.StatusServiceUnavailable, "exchange rate temporarily unavailable")
		default:
			msg := "failed to resolve exchange rate"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetRate", "from": from, "to": to}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	writeJSON(w, http.StatusOK, GetRateResponse{From: from, To: to, Rate: rate})
}
