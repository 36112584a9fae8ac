package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/hivegate/hivegate/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// requireCsrfHeader rejects state-changing requests that lack the custom
// header. Cross-origin form posts cannot set custom headers, so presence of
// the header is the whole check; its value does not matter.
func (s *Server) requireCsrfHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(common.CsrfHeaderName) == "" {
			writeError(w, http.StatusBadRequest, common.ErrMissingCsrfHeader.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
