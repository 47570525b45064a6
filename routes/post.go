package routes

import (
	"time"

	"github.com/gorilla/mux"
	"postline.app/postline-backend/cache"
	"postline.app/postline-backend/handlers"
	"postline.app/postline-backend/services"
)

func CreatePostRoutes(router *mux.Router, feeds *services.FeedService,
	posts *services.PostService, follows *services.FollowService,
	users services.UserStore, tokens services.TokenStore,
	pages cache.Store, cacheTTL time.Duration, secret string) *mux.Router {

	router.HandleFunc("/", handlers.HomeFeed(feeds, pages, cacheTTL)).Methods("GET")
	router.HandleFunc("/groups", handlers.GroupIndex(feeds)).Methods("GET")
	router.HandleFunc("/group/{slug}", handlers.GroupFeed(feeds)).Methods("GET")
	router.HandleFunc("/posts", handlers.CreatePost(posts, users, follows, tokens, secret)).Methods("POST")
	router.HandleFunc("/posts/{id}", handlers.PostDetail(feeds)).Methods("GET")
	router.HandleFunc("/posts/{id}/edit", handlers.EditPost(posts, secret)).Methods("POST")
	router.HandleFunc("/posts/{id}", handlers.DeletePost(posts, secret)).Methods("DELETE")
	router.HandleFunc("/posts/{id}/comments", handlers.AddComment(posts, secret)).Methods("POST")

	return router
}
