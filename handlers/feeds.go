package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"postline.app/postline-backend/cache"
	"postline.app/postline-backend/models"
	"postline.app/postline-backend/pagination"
	"postline.app/postline-backend/services"
)

func feedItems(page pagination.Page[models.PostWithAuthor]) []models.PostWithAuthor {
	if page.Items == nil {
		return []models.PostWithAuthor{}
	}
	return page.Items
}

// HomeFeed lists every post, newest first. The rendered page is cached for
// the configured TTL; readers inside the window get the cached snapshot
// even if posts changed underneath. Data mutations do not invalidate the
// cache; staleness inside the TTL is accepted.
func HomeFeed(feeds *services.FeedService, pages cache.Store, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)
		key := fmt.Sprintf("home-feed-render:%d", page)

		if cached, ok := pages.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}

		result, err := feeds.HomeFeed(r.Context(), page)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(map[string]interface{}{
			"posts": feedItems(result),
			"page":  result,
		}); err != nil {
			http.Error(w, "Failed to render feed", http.StatusInternalServerError)
			return
		}

		pages.Set(r.Context(), key, buf.Bytes(), ttl)

		w.Header().Set("Content-Type", "application/json")
		w.Write(buf.Bytes())
	}
}

// GroupFeed lists the posts of the group named by slug.
func GroupFeed(feeds *services.FeedService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := mux.Vars(r)["slug"]

		group, result, err := feeds.GroupFeed(r.Context(), slug, pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"group": group,
			"posts": feedItems(result),
			"page":  result,
		})
	}
}

// ProfileFeed lists an author's posts with their post count and whether
// the (possibly anonymous) viewer follows them.
func ProfileFeed(feeds *services.FeedService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := mux.Vars(r)["username"]
		viewerID, _ := currentUser(r, secret)

		profile, err := feeds.ProfileFeed(r.Context(), username, viewerID, pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"author":     profile.Author,
			"post_count": profile.PostCount,
			"following":  profile.Following,
			"posts":      feedItems(profile.Page),
			"page":       profile.Page,
		})
	}
}

// FollowFeed lists the posts of every author the caller follows.
func FollowFeed(feeds *services.FeedService, secret string) http.HandlerFunc {
	return requireUser(secret, func(userID int64, w http.ResponseWriter, r *http.Request) {
		result, err := feeds.FollowFeed(r.Context(), userID, pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"posts": feedItems(result),
			"page":  result,
		})
	})
}

// GroupIndex lists all groups ordered by title.
func GroupIndex(feeds *services.FeedService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := feeds.GroupIndex(r.Context(), pageParam(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		groups := result.Items
		if groups == nil {
			groups = []models.Group{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"groups": groups,
			"page":   result,
		})
	}
}

// PostDetail shows one post with its comments and the author's post count.
func PostDetail(feeds *services.FeedService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		detail, err := feeds.PostDetail(r.Context(), postID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		comments := detail.Comments
		if comments == nil {
			comments = []models.CommentWithAuthor{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"post":       detail.Post,
			"post_count": detail.PostCount,
			"comments":   comments,
		})
	}
}
