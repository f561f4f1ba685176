package http

import (
	"encoding/json"
	"net/http"

	"github.com/Dorian9120/eventyfast/internal/auth/domain"
	"github.com/Dorian9120/eventyfast/internal/auth/service"
	"github.com/Dorian9120/eventyfast/pkg/httpx"
)

// UsersHandler covers account self-service: password reset and change,
// username change, connection history, the contact form and deletion.
type UsersHandler struct {
	PasswordService *service.PasswordService
	AccountService  *service.AccountService
	ContactService  *service.ContactService
}

type resetRequest struct {
	Email string `json:"email"`
}

// HandleRequestReset handles POST /api/users/reset-password.
func (h *UsersHandler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.PasswordService.RequestReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Reset code sent, check your inbox"})
}

type confirmResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// HandleConfirmReset handles POST /api/users/verify-password-code.
func (h *UsersHandler) HandleConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email, code and newPassword are required")
		return
	}

	if err := h.PasswordService.ConfirmReset(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HandleChangePassword handles PUT /api/users/{id}/password.
func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.subjectID(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OldPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "oldPassword and newPassword are required")
		return
	}

	if err := h.PasswordService.Change(r.Context(), accountID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

type changeUsernameRequest struct {
	Username string `json:"username"`
}

// HandleChangeUsername handles PUT /api/users/{id}/username.
func (h *UsersHandler) HandleChangeUsername(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.subjectID(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	var req changeUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.AccountService.UpdateUsername(r.Context(), accountID, req.Username); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Username updated"})
}

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

// HandleVerifyPassword handles POST /api/users/{id}/verify-password.
func (h *UsersHandler) HandleVerifyPassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.subjectID(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	var req verifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := h.PasswordService.VerifyCurrent(r.Context(), accountID, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// HandleHistory handles GET /api/users/history/{userId}.
func (h *UsersHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, err := h.AccountService.History(ctx,
		httpx.AccountIDFromContext(ctx), httpx.RoleFromContext(ctx), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if recs == nil {
		recs = []domain.LoginRecord{}
	}
	httpx.WriteJSON(w, http.StatusOK, recs)
}

// HandleClearHistory handles DELETE /api/users/history/{userId}.
func (h *UsersHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := h.AccountService.ClearHistory(ctx,
		httpx.AccountIDFromContext(ctx), httpx.RoleFromContext(ctx), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"message": "History cleared", "deleted": n})
}

// HandleDeleteAccount handles DELETE /api/users/{id}.
func (h *UsersHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.AccountService.Delete(ctx,
		httpx.AccountIDFromContext(ctx), httpx.RoleFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

type contactRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// HandleContact handles POST /api/users/contact.
func (h *UsersHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.ContactService.Submit(r.Context(), service.ContactRequest{
		Username: req.Username,
		Email:    req.Email,
		Subject:  req.Subject,
		Message:  req.Message,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Message sent"})
}

// subjectID resolves the {id} path segment against the session. Users may
// only act on themselves; admins may act on anyone.
func (h *UsersHandler) subjectID(w http.ResponseWriter, r *http.Request, pathID string) (string, bool) {
	ctx := r.Context()
	callerID := httpx.AccountIDFromContext(ctx)
	if pathID != callerID && httpx.RoleFromContext(ctx) != domain.RoleAdmin {
		httpx.WriteError(w, http.StatusForbidden, service.ErrForbidden.Error())
		return "", false
	}
	return pathID, true
}
