// Package apitest runs an in-process fake of the marketplace API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cameroonmark/internal/domain/auth"
	"cameroonmark/internal/domain/user"
)

var signingKey = []byte("apitest-signing-key")

type account struct {
	user     user.User
	password string
}

type claims struct {
	Epoch int `json:"epoch"`
	jwt.RegisteredClaims
}

// Server is a fake marketplace API
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*account // by email
	epoch    int
	calls    map[string]int
	failures map[string]int
	resets   []string
}

// NewServer starts a fake API; it is closed when the test ends
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		accounts: make(map[string]*account),
		calls:    make(map[string]int),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/reset-password", s.handleResetPassword)
	mux.HandleFunc("/api/users/me", s.requireToken(s.handleMe))
	mux.HandleFunc("/api/users/me/password", s.requireToken(s.handlePassword))

	s.Server = httptest.NewServer(s.count(mux))
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root to pass to api.NewClient
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// AddUser seeds an account and returns its user record
func (s *Server) AddUser(name, email, password string, role user.Role) *user.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := &account{
		user: user.User{
			ID:        uuid.New().String(),
			Name:      name,
			Email:     email,
			Role:      role,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
		password: string(hash),
	}
	s.accounts[strings.ToLower(email)] = a
	u := a.user
	return &u
}

// IssueToken returns a valid token for an existing account
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		panic("apitest: unknown account " + email)
	}
	return s.signLocked(a.user.ID)
}

// RevokeAll invalidates every token issued so far
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

// FailNext makes the next request to path (e.g. "/api/users/me") answer with status
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Calls returns how many requests reached path
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Resets returns the emails that requested a password reset
func (s *Server) Resets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.resets...)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		status, fail := s.failures[r.URL.Path]
		delete(s.failures, r.URL.Path)
		s.mu.Unlock()

		if fail {
			sendJSON(w, status, map[string]any{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) signLocked(userID string) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Epoch: s.epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) accountByIDLocked(id string) *account {
	for _, a := range s.accounts {
		if a.user.ID == id {
			return a
		}
	}
	return nil
}

func (s *Server) requireToken(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			sendJSON(w, http.StatusUnauthorized, map[string]any{"message": "Authorization required"})
			return
		}

		var c claims
		_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
			return signingKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		s.mu.Lock()
		var a *account
		if err == nil && c.Epoch == s.epoch {
			a = s.accountByIDLocked(c.Subject)
		}
		s.mu.Unlock()

		if a == nil {
			sendJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid or expired token"})
			return
		}
		next(w, r, a)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Method not allowed"})
		return
	}

	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[strings.ToLower(req.Email)]
	if !ok || bcrypt.CompareHashAndPassword([]byte(a.password), []byte(req.Password)) != nil {
		sendJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid email or password"})
		return
	}

	u := a.user
	sendJSON(w, http.StatusOK, auth.AuthResponse{User: &u, Token: s.signLocked(u.ID)})
}

type registerRequest struct {
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Password             string    `json:"password"`
	PasswordConfirmation string    `json:"password_confirmation"`
	Phone                string    `json:"phone"`
	Role                 user.Role `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Method not allowed"})
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid request body"})
		return
	}

	fields := map[string][]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = append(fields["name"], "Name is required")
	}
	if !auth.IsValidEmail(req.Email) {
		fields["email"] = append(fields["email"], "Email is invalid")
	}
	if len(req.Password) < 8 {
		fields["password"] = append(fields["password"], "Password must be at least 8 characters")
	}
	if req.Password != req.PasswordConfirmation {
		fields["password_confirmation"] = append(fields["password_confirmation"], "Passwords do not match")
	}
	if !req.Role.CanRegister() {
		fields["role"] = append(fields["role"], "Role is invalid")
	}

	s.mu.Lock()
	_, taken := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if taken {
		fields["email"] = append(fields["email"], "Email is already registered")
	}

	if len(fields) > 0 {
		sendJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"errors":  fields,
		})
		return
	}

	u := s.AddUser(req.Name, req.Email, req.Password, req.Role)
	s.mu.Lock()
	token := s.signLocked(u.ID)
	s.mu.Unlock()
	sendJSON(w, http.StatusCreated, auth.AuthResponse{User: u, Token: token})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Method not allowed"})
		return
	}

	var req auth.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		sendJSON(w, http.StatusBadRequest, map[string]any{"message": "Email is required"})
		return
	}

	s.mu.Lock()
	s.resets = append(s.resets, req.Email)
	s.mu.Unlock()
	sendJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password reset instructions sent to your email"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, a *account) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		u := a.user
		s.mu.Unlock()
		sendJSON(w, http.StatusOK, map[string]any{"user": u})
	case http.MethodPut:
		var req user.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid request body"})
			return
		}
		s.mu.Lock()
		if req.Name != "" {
			a.user.Name = req.Name
		}
		if req.Phone != "" {
			a.user.Phone = req.Phone
		}
		if req.Location != "" {
			a.user.Location = req.Location
		}
		if req.Avatar != "" {
			a.user.Avatar = req.Avatar
		}
		u := a.user
		s.mu.Unlock()
		sendJSON(w, http.StatusOK, map[string]any{"user": u})
	default:
		sendJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Method not allowed"})
	}
}

func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request, a *account) {
	if r.Method != http.MethodPut {
		sendJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Method not allowed"})
		return
	}

	var req user.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bcrypt.CompareHashAndPassword([]byte(a.password), []byte(req.CurrentPassword)) != nil {
		sendJSON(w, http.StatusBadRequest, map[string]any{"message": "Current password is incorrect"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		sendJSON(w, http.StatusInternalServerError, map[string]any{"message": "Failed to update password"})
		return
	}
	a.password = string(hash)
	sendJSON(w, http.StatusOK, map[string]any{"success": true})
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
