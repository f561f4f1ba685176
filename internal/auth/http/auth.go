package http

import (
	"encoding/json"
	"net/http"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
	"github.com/Dorian9120/eventyfast/internal/auth/service"
	"github.com/Dorian9120/eventyfast/pkg/httpx"
	"github.com/Dorian9120/eventyfast/pkg/jwtx"
)

// AuthHandler covers password login, logout and the Google token exchange.
type AuthHandler struct {
	AuthService    *service.AuthService
	GoogleClientID string
	SecureCookies  bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string         `json:"message"`
	User    domain.Profile `json:"user"`
}

// HandleLogin handles POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.AuthService.Login(r.Context(), service.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: httpx.ClientIP(r),
		Device:    r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, res.Token, jwtx.SessionTTL, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{Message: "Login successful", User: res.Profile})
}

// HandleLogout handles POST /api/auth/logout. Sessions are stateless, so
// logging out is just clearing the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// HandleGoogleClientID handles GET /api/google-clientid.
func (h *AuthHandler) HandleGoogleClientID(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"clientId": h.GoogleClientID})
}

type googleTokenRequest struct {
	Token string `json:"token"`
}

// HandleGoogleToken handles POST /api/validate-google-token.
func (h *AuthHandler) HandleGoogleToken(w http.ResponseWriter, r *http.Request) {
	var req googleTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "token is required")
		return
	}

	res, err := h.AuthService.FederatedLogin(r.Context(), service.FederatedLoginRequest{
		RawToken:  req.Token,
		IPAddress: httpx.ClientIP(r),
		Device:    r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, res.Token, jwtx.SessionTTL, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{Message: "Login successful", User: res.Profile})
}
