package web

import "net/http"

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.BalanceSheet(r.Context(), r.URL.Query().Get("as_of"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) incomeStatement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.svc.IncomeStatement(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
