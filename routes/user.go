package routes

import (
	"github.com/gorilla/mux"
	"postline.app/postline-backend/handlers"
	"postline.app/postline-backend/services"
)

func CreateUserRoutes(router *mux.Router, feeds *services.FeedService,
	follows *services.FollowService, users services.UserStore,
	tokens services.TokenStore, secret string) *mux.Router {

	router.HandleFunc("/auth/register", handlers.Register(users, secret)).Methods("POST")
	router.HandleFunc("/auth/login", handlers.Login(users, secret)).Methods("POST")
	router.HandleFunc("/auth/login", handlers.LoginPage()).Methods("GET")
	router.HandleFunc("/auth/fcm-token", handlers.RegisterFCMToken(tokens, secret)).Methods("POST")

	router.HandleFunc("/follow", handlers.FollowFeed(feeds, secret)).Methods("GET")
	router.HandleFunc("/profile/{username}", handlers.ProfileFeed(feeds, secret)).Methods("GET")
	router.HandleFunc("/profile/{username}/follow", handlers.Follow(follows, secret)).Methods("POST")
	router.HandleFunc("/profile/{username}/unfollow", handlers.Unfollow(follows, secret)).Methods("POST")

	return router
}
