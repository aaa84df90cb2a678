package handler_test

import (
	"net/http"
	"testing"

	"taskhub/internal/pkg/auth/jwt"
)

func TestRegisterCreatesAccount(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
		"password": "secret1",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var body struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	decodeBody(t, rec, &body)

	if body.ID == "" {
		t.Error("response id is empty")
	}
	if body.Username != "alice" {
		t.Errorf("username = %q, want %q", body.Username, "alice")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	creds := map[string]string{"username": "alice", "password": "secret1"}

	if rec := env.doJSON(t, http.MethodPost, "/api/register", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	rec := env.doJSON(t, http.MethodPost, "/api/register", "", creds)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body struct {
		Code int `json:"code"`
	}
	decodeBody(t, rec, &body)
	if body.Code != 3001 {
		t.Errorf("error code = %d, want 3001", body.Code)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "secret1"},
		{"username with spaces", "a b c", "secret1"},
		{"short password", "alice", "a1"},
		{"password without digits", "alice", "secretx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
				"username": tt.username,
				"password": tt.password,
			})
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d\nbody: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	env := newTestEnv(t)

	creds := map[string]string{"username": "alice", "password": "secret1"}
	if rec := env.doJSON(t, http.MethodPost, "/api/register", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	rec := env.doJSON(t, http.MethodPost, "/api/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &body)

	payload, err := jwt.ParseToken(body.Token, testJWTSecret)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if payload.Username != "alice" {
		t.Errorf("token username = %q, want %q", payload.Username, "alice")
	}
	if payload.UserID == "" {
		t.Error("token user id is empty")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.doJSON(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
		"password": "secret1",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"wrong password", map[string]string{"username": "alice", "password": "wrong99"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"username": "nobody", "password": "secret1"}, http.StatusUnauthorized},
		{"missing password", map[string]string{"username": "alice"}, http.StatusBadRequest},
		{"missing username", map[string]string{"password": "secret1"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSON(t, http.MethodPost, "/api/login", "", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d\nbody: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRegisterRequiresJSONContentType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/register", "", nil, "text/plain")
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnsupportedMediaType)
	}
}
