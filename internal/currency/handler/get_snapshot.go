package handler

import "net/http"

// GetRatesSnapshot backs the public rates listing. It always answers
// 200: degraded data is flagged with "stale" instead of an error status.
func (h *Handler) GetRatesSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshots.GetRates(r.Context()))
}
