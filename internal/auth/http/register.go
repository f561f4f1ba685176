package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/service"
	"github.com/Dorian9120/eventyfast/pkg/httpx"
)

// RegisterHandler covers the two-step registration flow.
type RegisterHandler struct {
	RegisterService *service.RegisterService
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
}

// HandleRequest handles POST /api/register. No account is created yet; a
// verification code is emailed.
func (h *RegisterHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
		return
	}

	err = h.RegisterService.Request(r.Context(), service.RegisterRequest{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		DateOfBirth: dob,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Verification code sent, check your inbox",
	})
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// HandleVerifyCode handles POST /api/register/verify-code. On success the
// account exists and the code is spent.
func (h *RegisterHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and code are required")
		return
	}

	profile, err := h.RegisterService.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created",
		"user":    profile,
	})
}
