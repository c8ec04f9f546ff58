package handler

import (
	"net/http"

	"storefront/internal/domain"
)

type GetCurrenciesResponse struct {
	Currencies []domain.Currency `json:"currencies"`
}

type GetSupportedCodesResponse struct {
	Codes []string `json:"codes"`
}

func (h *Handler) GetCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetCurrenciesResponse{
		Currencies: h.service.Currencies(),
	})
}

func (h *Handler) GetSupportedCodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetSupportedCodesResponse{
		Codes: h.service.SupportedCurrencies(),
	})
}
