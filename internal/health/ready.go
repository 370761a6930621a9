package health

import (
	"net/http"
)

// Checker reports whether the model backend can be called at all.
type Checker interface {
	Ready() bool
}

func ReadyHandler(c Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil || !c.Ready() {
			http.Error(w, "credential not configured", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
