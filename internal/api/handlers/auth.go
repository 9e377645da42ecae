package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/domain"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	auth         *auth.Service
	cookieName   string
	cookieMaxAge int
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. maxAge is the cookie lifetime
// in seconds and should match the session store's expiry.
func NewAuthHandler(service *auth.Service, secureCookie bool, maxAge int) *AuthHandler {
	return &AuthHandler{
		auth:         service,
		cookieName:   "session",
		cookieMaxAge: maxAge,
		secureCookie: secureCookie,
	}
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		badRequest(w, r, "name, email and password are required")
		return
	}

	user, err := h.auth.Register(r.Context(), auth.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		conflict(w, r, "email already registered")
		return
	}
	if err != nil {
		internalError(w, r, "registration failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": user.PublicView(),
	})
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		badRequest(w, r, "email and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, domain.ErrInvalidCredentials) {
		unauthorized(w, r, "invalid email or password")
		return
	}
	if err != nil {
		internalError(w, r, "login failed", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    result.Session.Token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user": result.User.PublicView(),
	})
}

// Signout destroys the session and clears the cookie. A missing cookie and
// a token the store no longer knows are reported differently so clients can
// tell "not signed in" from "already signed out".
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		badRequest(w, r, "not signed in")
		return
	}

	err = h.auth.Signout(r.Context(), cookie.Value)
	h.clearCookie(w)
	if errors.Is(err, domain.ErrSessionNotFound) {
		notFound(w, r, "session")
		return
	}
	if err != nil {
		internalError(w, r, "signout failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "signed out successfully",
	})
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"user": domain.PublicUser{
			ID:    identity.UserID,
			Email: identity.Email,
			Name:  identity.Name,
		},
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
