package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"postline.app/postline-backend/services"
)

// Follow subscribes the caller to the author's posts. Self-follow and
// duplicate follow complete without mutation; either way the caller lands
// back on the author's profile.
func Follow(follows *services.FollowService, secret string) http.HandlerFunc {
	return requireUser(secret, func(userID int64, w http.ResponseWriter, r *http.Request) {
		username := mux.Vars(r)["username"]

		author, err := follows.Follow(r.Context(), userID, username)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/profile/%s", author.Username), http.StatusFound)
	})
}

// Unfollow removes the subscription; a missing edge is not an error.
func Unfollow(follows *services.FollowService, secret string) http.HandlerFunc {
	return requireUser(secret, func(userID int64, w http.ResponseWriter, r *http.Request) {
		username := mux.Vars(r)["username"]

		author, err := follows.Unfollow(r.Context(), userID, username)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/profile/%s", author.Username), http.StatusFound)
	})
}
