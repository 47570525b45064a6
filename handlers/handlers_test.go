package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"postline.app/postline-backend/cache"
	"postline.app/postline-backend/handlers"
	"postline.app/postline-backend/models"
	"postline.app/postline-backend/routes"
	"postline.app/postline-backend/services"
	"postline.app/postline-backend/store"
)

const testSecret = "test-secret"
const testCacheTTL = 20 * time.Second

type testApp struct {
	router  *mux.Router
	store   *store.MemoryStore
	pages   *cache.Memory
	posts   *services.PostService
	follows *services.FollowService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	m := store.NewMemoryStore()
	pages := cache.NewMemory()
	feeds := services.NewFeedService(m, m, m, m, m, 10)
	posts := services.NewPostService(m, m, m)
	follows := services.NewFollowService(m, m)

	router := mux.NewRouter()
	routes.CreateUserRoutes(router, feeds, follows, m, m, testSecret)
	routes.CreatePostRoutes(router, feeds, posts, follows, m, m, pages, testCacheTTL, testSecret)

	return &testApp{
		router:  router,
		store:   m,
		pages:   pages,
		posts:   posts,
		follows: follows,
	}
}

func (a *testApp) user(t *testing.T, username string) (models.User, string) {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, a.store.CreateUser(context.Background(), &u))
	token, err := handlers.GenerateToken(testSecret, u.ID)
	require.NoError(t, err)
	return u, token
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type feedResponse struct {
	Posts []models.PostWithAuthor `json:"posts"`
	Page  struct {
		Number     int  `json:"number"`
		TotalPages int  `json:"total_pages"`
		HasNext    bool `json:"has_next"`
		HasPrev    bool `json:"has_prev"`
	} `json:"page"`
}

func decodeFeed(t *testing.T, rec *httptest.ResponseRecorder) feedResponse {
	t.Helper()
	var resp feedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
