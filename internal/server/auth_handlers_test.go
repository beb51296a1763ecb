package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quad/internal/middleware"
)

func setupAuthTestApp(t *testing.T) (*fiber.App, *Server) {
	t.Helper()
	app, s, _, _ := setupBoardTestServer(t)
	api := app.Group("/api")
	auth := api.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)
	users := api.Group("/users", middleware.AuthRequired)
	users.Get("/me", s.GetMyProfile)
	return app, s
}

func TestSignupLoginAndMe(t *testing.T) {
	app, _ := setupAuthTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", map[string]any{
		"username": "badger",
		"email":    "badger@example.com",
		"password": "sw0rdfish",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "badger", user["username"])
	assert.Nil(t, user["password"])

	// Duplicate signup conflicts.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", map[string]any{
		"username": "badger2",
		"email":    "badger@example.com",
		"password": "sw0rdfish",
	}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login with the right password.
	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "badger@example.com",
		"password": "sw0rdfish",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	// Wrong password is rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "badger@example.com",
		"password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The issued token resolves the profile.
	resp, me := doJSON(t, app, http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "badger", me["username"])
}

func TestSignupValidation(t *testing.T) {
	app, _ := setupAuthTestApp(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing fields",
			body: map[string]any{"username": "x"},
		},
		{
			name: "bad email",
			body: map[string]any{"username": "badger", "email": "nope", "password": "sw0rdfish"},
		},
		{
			name: "weak password",
			body: map[string]any{"username": "badger", "email": "b@example.com", "password": "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
