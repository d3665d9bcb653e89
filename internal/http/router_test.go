package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careshare/careshare-api/internal/auth"
	"github.com/careshare/careshare-api/internal/config"
	"github.com/careshare/careshare-api/internal/document"
	"github.com/careshare/careshare-api/internal/logging"
	"github.com/careshare/careshare-api/internal/user"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func (s *memUserStore) Create(_ context.Context, name, email, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return nil, user.ErrDuplicateEmail
	}
	u := &user.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash}
	s.users[email] = u
	return u, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type memDocStore struct {
	mu   sync.Mutex
	docs map[uuid.UUID]map[string]any
}

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: make(map[uuid.UUID]map[string]any)}
}

func (s *memDocStore) List(context.Context) ([]document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]document.Document, 0, len(s.docs))
	for id, data := range s.docs {
		out = append(out, document.Document{ID: id, Data: data})
	}
	return out, nil
}

func (s *memDocStore) Get(_ context.Context, id uuid.UUID) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[id]
	if !ok {
		return nil, document.ErrNotFound
	}
	return &document.Document{ID: id, Data: data}, nil
}

func (s *memDocStore) Create(_ context.Context, data map[string]any) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.docs[id] = data
	return &document.Document{ID: id, Data: data}, nil
}

func (s *memDocStore) Update(_ context.Context, id uuid.UUID, partial map[string]any) (*document.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[id]
	if !ok {
		return &document.UpdateResult{}, nil
	}
	for k, v := range partial {
		data[k] = v
	}
	return &document.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *memDocStore) Delete(_ context.Context, id uuid.UUID) (*document.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return &document.DeleteResult{}, nil
	}
	delete(s.docs, id)
	return &document.DeleteResult{DeletedCount: 1}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: "5000",
			Env:  "prod", // keep swagger off the routing table
		},
		Auth: config.AuthConfig{
			PasetoKey: []byte("0123456789abcdef0123456789abcdef"),
			TokenTTL:  time.Hour,
		},
	}

	logger := logging.NewLogger(true)

	pasetoService, err := auth.NewPasetoService(cfg.Auth.PasetoKey)
	require.NoError(t, err)

	userStore := &memUserStore{users: make(map[string]*user.User)}
	authService := auth.NewService(userStore, pasetoService, logger, cfg.Auth.TokenTTL)
	authHandler := auth.NewHandler(authService)

	resources := ResourceHandlers{
		Donation:     document.NewHandler(newMemDocStore()),
		Leaderboard:  document.NewHandler(newMemDocStore()),
		Volunteer:    document.NewHandler(newMemDocStore()),
		Testimonials: document.NewHandler(newMemDocStore()),
		Feedback:     document.NewHandler(newMemDocStore()),
	}

	return NewRouter(cfg, authHandler, resources, logger)
}

func postJSON(t *testing.T, router http.Handler, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server is running smoothly", body.Message)
	assert.WithinDuration(t, time.Now(), body.Timestamp, 5*time.Second)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// Register("Ada") succeeds, re-registering her email fails, login works
// with the right password and is rejected with the wrong one
func TestAuthScenario(t *testing.T) {
	router := newTestRouter(t)

	rec, body := postJSON(t, router, "/api/v1/register", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, body = postJSON(t, router, "/api/v1/register", map[string]string{
		"name": "Bea", "email": "ada@x.com", "password": "other",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", body["message"])

	rec, body = postJSON(t, router, "/api/v1/login", map[string]string{
		"email": "ada@x.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	rec, _ = postJSON(t, router, "/api/v1/login", map[string]string{
		"email": "ada@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteAbsentDonation(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/delete-donation/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["deletedCount"])
}

func TestResourceRoutesWired(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{
		"/api/v1/donation",
		"/api/v1/leaderboard",
		"/api/v1/volunteer",
		"/api/v1/testimonials",
		"/api/v1/feedback",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
