// Package handlers wires the HTTP surface to the services. Each handler is
// a closure over its dependencies; nothing reaches for globals.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"postline.app/postline-backend/pagination"
	"postline.app/postline-backend/services"
)

const loginPath = "/auth/login"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service errors onto the wire: not-found is a 404,
// a rejected submission is a 400 with field messages, anything else is a
// logged 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": verr.Fields,
		})
	default:
		log.Println("handler error:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// redirectToLogin is the unauthenticated path: never an error page, always
// a redirect to the authentication entry point.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func pageParam(r *http.Request) int {
	return pagination.ParsePageParam(r.URL.Query().Get("page"))
}
