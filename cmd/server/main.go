package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"postline.app/postline-backend/cache"
	"postline.app/postline-backend/config"
	"postline.app/postline-backend/database"
	"postline.app/postline-backend/routes"
	"postline.app/postline-backend/services"
	"postline.app/postline-backend/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error: ", err)
	}

	db, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}
	defer db.Close()

	if err := database.InitSchema(db); err != nil {
		log.Fatal("Schema init failed: ", err)
	}
	log.Println("Database connected and schema ready")

	if cfg.FirebaseCredentialsPath != "" {
		if err := services.InitFirebase(cfg.FirebaseCredentialsPath); err != nil {
			log.Printf("Firebase init failed, notifications disabled: %v", err)
		}
	}

	var pages cache.Store
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal("Redis connection failed: ", err)
		}
		pages = redisCache
		log.Println("Page cache backed by Redis at", cfg.RedisAddr)
	} else {
		pages = cache.NewMemory()
	}

	sqlStore := store.NewSQLStore(db)
	feeds := services.NewFeedService(sqlStore, sqlStore, sqlStore, sqlStore, sqlStore, cfg.PageSize)
	posts := services.NewPostService(sqlStore, sqlStore, sqlStore)
	follows := services.NewFollowService(sqlStore, sqlStore)

	router := mux.NewRouter()
	routes.CreateUserRoutes(router, feeds, follows, sqlStore, sqlStore, cfg.JWTSecret)
	routes.CreatePostRoutes(router, feeds, posts, follows, sqlStore, sqlStore,
		pages, cfg.PageCacheTTL, cfg.JWTSecret)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("Server listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}
