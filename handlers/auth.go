package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"postline.app/postline-backend/models"
	"postline.app/postline-backend/services"
)

const tokenLifetime = 30 * 24 * time.Hour

// GenerateToken issues a signed bearer token for the user.
func GenerateToken(secret string, userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// currentUser extracts the authenticated user id from the Authorization
// header. Returns 0, false for anonymous or invalid tokens.
func currentUser(r *http.Request, secret string) (int64, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int64(id), true
}

// requireUser gates a handler to authenticated callers. Anonymous callers
// are redirected to the login entry point rather than rejected.
func requireUser(secret string, next func(userID int64, w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r, secret)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		next(userID, w, r)
	}
}

func Register(users services.UserStore, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Username == "" || req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"errors": map[string]string{"form": "username, email, and password are required"},
			})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}

		user := models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: string(hashed),
		}
		if err := users.CreateUser(r.Context(), &user); err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			log.Println("Register error:", err)
			return
		}

		token, err := GenerateToken(secret, user.ID)
		if err != nil {
			http.Error(w, "Failed to issue token", http.StatusInternalServerError)
			log.Println("Register token error:", err)
			return
		}

		user.Password = ""
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"user":  user,
			"token": token,
		})
	}
}

func Login(users services.UserStore, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		user, err := users.UserByUsername(r.Context(), req.Username)
		if err != nil {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}

		token, err := GenerateToken(secret, user.ID)
		if err != nil {
			http.Error(w, "Failed to issue token", http.StatusInternalServerError)
			log.Println("Login token error:", err)
			return
		}

		user.Password = ""
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user":  user,
			"token": token,
		})
	}
}

// LoginPage is the authentication entry point unauthenticated callers are
// redirected to.
func LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "authentication required: POST /auth/login with username and password",
		})
	}
}

func RegisterFCMToken(tokens services.TokenStore, secret string) http.HandlerFunc {
	return requireUser(secret, func(userID int64, w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Token == "" {
			http.Error(w, "FCM token is required", http.StatusBadRequest)
			return
		}

		if err := tokens.SaveToken(r.Context(), userID, req.Token); err != nil {
			http.Error(w, "Failed to register FCM token", http.StatusInternalServerError)
			log.Println("RegisterFCMToken error:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "FCM token registered successfully",
		})
	})
}
