package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"postline.app/postline-backend/models"
	"postline.app/postline-backend/services"
)

func CreatePost(posts *services.PostService, users services.UserStore,
	follows *services.FollowService, tokens services.TokenStore, secret string) http.HandlerFunc {
	return requireUser(secret, func(userID int64, w http.ResponseWriter, r *http.Request) {
		var draft services.CreateDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		post, err := posts.CreatePost(r.Context(), userID, draft)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		go notifyFollowersOfNewPost(users, follows, tokens, post)

		writeJSON(w, http.StatusCreated, post)
	})
}

// EditPost applies an edit if the caller owns the post. A non-owner is not
// shown an error: the attempt is downgraded to a redirect to the post's
// read-only detail view.
func EditPost(posts *services.PostService, secret string) http.HandlerFunc {
	return requireUser(secret, func(userID int64, w http.ResponseWriter, r *http.Request) {
		postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		var draft services.EditDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		post, err := posts.EditPost(r.Context(), userID, postID, draft)
		if err == services.ErrNotOwner {
			http.Redirect(w, r, fmt.Sprintf("/posts/%d", postID), http.StatusFound)
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, post)
	})
}

func DeletePost(posts *services.PostService, secret string) http.HandlerFunc {
	return requireUser(secret, func(userID int64, w http.ResponseWriter, r *http.Request) {
		postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		err = posts.DeletePost(r.Context(), userID, postID)
		if err == services.ErrNotOwner {
			http.Redirect(w, r, fmt.Sprintf("/posts/%d", postID), http.StatusFound)
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Post deleted successfully",
		})
	})
}

func AddComment(posts *services.PostService, secret string) http.HandlerFunc {
	return requireUser(secret, func(userID int64, w http.ResponseWriter, r *http.Request) {
		postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		comment, err := posts.AddComment(r.Context(), userID, postID, req.Text)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, comment)
	})
}

func notifyFollowersOfNewPost(users services.UserStore, follows *services.FollowService,
	tokens services.TokenStore, post models.Post) {
	if !services.NotificationsEnabled() {
		return
	}
	ctx := context.Background()

	author, err := users.UserByID(ctx, post.AuthorID)
	if err != nil {
		log.Printf("Error fetching author for notifications: %v", err)
		return
	}

	followerIDs, err := follows.FollowerIDs(ctx, post.AuthorID)
	if err != nil {
		log.Printf("Error fetching followers for notifications: %v", err)
		return
	}
	if len(followerIDs) == 0 {
		return
	}

	deviceTokens, err := tokens.TokensForUsers(ctx, followerIDs)
	if err != nil {
		log.Printf("Error fetching follower device tokens: %v", err)
		return
	}
	if len(deviceTokens) == 0 {
		log.Printf("No device tokens found for followers of user %d", post.AuthorID)
		return
	}

	title := fmt.Sprintf("%s published a new post", author.Username)
	body := post.Text
	if len(body) > 100 {
		body = body[:97] + "..."
	}

	data := map[string]string{
		"type":      "new_post",
		"post_id":   strconv.FormatInt(post.ID, 10),
		"author_id": strconv.FormatInt(post.AuthorID, 10),
	}

	successCount, failureCount, err := services.SendMultipleNotifications(
		ctx, deviceTokens, tokens, title, body, data)
	if err != nil {
		log.Printf("Error sending notifications to followers: %v", err)
		return
	}

	log.Printf("Sent notifications for new post by user %d: %d successful, %d failed",
		post.AuthorID, successCount, failureCount)
}
