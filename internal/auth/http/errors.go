package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dorian9120/eventyfast/internal/auth/service"
	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/Dorian9120/eventyfast/pkg/httpx"
	"github.com/Dorian9120/eventyfast/pkg/slogx"
)

// writeServiceError translates service sentinels into HTTP responses. The
// message sent to the client is the sentinel's own text; anything unmapped
// is logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var lockout *service.LockoutError
	if errors.As(err, &lockout) {
		seconds := int(lockout.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		httpx.WriteError(w, http.StatusTooManyRequests, service.ErrLockedOut.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrTooYoung),
		errors.Is(err, service.ErrMissingContactFields),
		errors.Is(err, service.ErrContactNoMatch),
		errors.Is(err, service.ErrTwoFactorNotEnabled),
		errors.Is(err, service.ErrCodeMismatch),
		errors.Is(err, service.ErrCodeExpired):
		httpx.WriteError(w, http.StatusBadRequest, userMessage(err))

	case errors.Is(err, service.ErrUnknownEmail),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrIncorrectCode):
		httpx.WriteError(w, http.StatusUnauthorized, userMessage(err))

	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, userMessage(err))

	case errors.Is(err, service.ErrNotRegistered),
		errors.Is(err, service.ErrCodeNotFound),
		errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, userMessage(err))

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrPhoneTaken):
		httpx.WriteError(w, http.StatusConflict, userMessage(err))

	case errors.Is(err, service.ErrRateLimited):
		httpx.WriteError(w, http.StatusTooManyRequests, userMessage(err))

	case errors.Is(err, service.ErrFederatedDisabled):
		httpx.WriteError(w, http.StatusNotImplemented, service.ErrFederatedDisabled.Error())

	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Something went wrong, please try again.")
	}
}

// userMessage strips wrapping so the client sees the sentinel text only.
func userMessage(err error) string {
	sentinels := []error{
		service.ErrMissingCredentials, service.ErrInvalidUsername, service.ErrInvalidEmail,
		service.ErrInvalidPassword, service.ErrInvalidPhone, service.ErrTooYoung,
		service.ErrMissingContactFields, service.ErrContactNoMatch,
		service.ErrTwoFactorNotEnabled, service.ErrCodeMismatch,
		service.ErrCodeExpired, service.ErrUnknownEmail, service.ErrWrongPassword,
		service.ErrIncorrectCode, service.ErrForbidden, service.ErrNotRegistered,
		service.ErrCodeNotFound, service.ErrEmailTaken, service.ErrUsernameTaken,
		service.ErrPhoneTaken, service.ErrRateLimited,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		return "resource not found"
	}
	return err.Error()
}
