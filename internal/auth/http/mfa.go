package http

import (
	"encoding/json"
	"net/http"

	"github.com/Dorian9120/eventyfast/internal/auth/service"
	"github.com/Dorian9120/eventyfast/pkg/httpx"
)

// MFAHandler handles the two-factor endpoints. All of them require an
// authenticated session.
type MFAHandler struct {
	MFAService *service.MFAService
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

// HandleEnable handles POST /api/auth/enable-2fa.
func (h *MFAHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	accountID := httpx.AccountIDFromContext(r.Context())

	enroll, err := h.MFAService.Enable(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, enroll)
}

// HandleVerify handles POST /api/auth/verify-2fa.
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := h.MFAService.Verify(r.Context(), httpx.AccountIDFromContext(r.Context()), req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":             "Two-factor authentication verified",
		"isTwoFactorVerified": true,
	})
}

// HandleVerifyAction handles POST /api/auth/verify-2fa-action. It only
// gates; no account state changes.
func (h *MFAHandler) HandleVerifyAction(w http.ResponseWriter, r *http.Request) {
	var req mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := h.MFAService.VerifyAction(r.Context(), httpx.AccountIDFromContext(r.Context()), req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// HandleDisable handles POST /api/auth/disable-2fa.
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	if err := h.MFAService.Disable(r.Context(), httpx.AccountIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Two-factor authentication disabled"})
}
