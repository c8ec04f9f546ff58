package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type ConvertResponse struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amountMinor, err := strconv.ParseInt(q.Get("amount_minor"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount_minor must be an integer")
		return
	}

	from := strings.ToUpper(strings.TrimSpace(q.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(q.Get("to")))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to currencies are required")
		return
	}

	converted, err := h.service.ConvertMinor(r.Context(), amountMinor, from, to)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedCurrency), errors.Is(err, domain.ErrNegativeAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrRateUnavailable), errors.Is(err, domain.ErrProviderUnavailable):
			writeError(w, http.StatusServiceUnavailable, "exchange rate temporarily unavailable")
		default:
			msg := "failed to convert amount"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "Convert", "from": from, "to": to}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{AmountMinor: converted, Currency: to})
}
