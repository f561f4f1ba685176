package http

import (
	"net/http"

	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/Dorian9120/eventyfast/pkg/httpx"
)

// HandleLivez handles GET /livez. It answers 200 whenever the process is up.
func HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyzHandler handles GET /readyz, checking the database connection.
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "error: " + err.Error(),
			})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "ok",
		})
	}
}
