package http

import (
	"log/slog"
	"net/http"

	"github.com/Dorian9120/eventyfast/internal/auth/service"
	"github.com/Dorian9120/eventyfast/internal/auth/store"
	"github.com/Dorian9120/eventyfast/pkg/httpx"
	"github.com/Dorian9120/eventyfast/pkg/jwtx"
	"github.com/Dorian9120/eventyfast/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      *jwtx.HS256
	secureCookies bool
	logger        *slog.Logger

	store store.Store

	AuthService     *service.AuthService
	MFAService      *service.MFAService
	RegisterService *service.RegisterService
	PasswordService *service.PasswordService
	AccountService  *service.AccountService
	ContactService  *service.ContactService
	GoogleClientID  string
}

func NewRouter(verifier *jwtx.HS256, secureCookies bool, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		secureCookies: secureCookies,
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMFA()
	r.registerRegistration()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:    r.AuthService,
		GoogleClientID: r.GoogleClientID,
		SecureCookies:  r.secureCookies,
	}

	r.Mux.HandleFunc("POST /api/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /api/auth/logout", h.HandleLogout)
	r.Mux.HandleFunc("GET /api/google-clientid", h.HandleGoogleClientID)
	r.Mux.HandleFunc("POST /api/validate-google-token", h.HandleGoogleToken)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}
	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("POST /api/auth/enable-2fa", httpx.Chain(http.HandlerFunc(h.HandleEnable), authn))
	r.Mux.Handle("POST /api/auth/verify-2fa", httpx.Chain(http.HandlerFunc(h.HandleVerify), authn))
	r.Mux.Handle("POST /api/auth/verify-2fa-action", httpx.Chain(http.HandlerFunc(h.HandleVerifyAction), authn))
	r.Mux.Handle("POST /api/auth/disable-2fa", httpx.Chain(http.HandlerFunc(h.HandleDisable), authn))
}

func (r *Router) registerRegistration() {
	h := &RegisterHandler{RegisterService: r.RegisterService}

	// Both steps share a per-IP limit so a bot cannot farm codes.
	limit := httpx.RateLimitByIP(httpx.RegistrationLimit)
	r.Mux.Handle("POST /api/register", httpx.Chain(http.HandlerFunc(h.HandleRequest), limit))
	r.Mux.Handle("POST /api/register/verify-code", httpx.Chain(http.HandlerFunc(h.HandleVerifyCode), limit))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		PasswordService: r.PasswordService,
		AccountService:  r.AccountService,
		ContactService:  r.ContactService,
	}
	authn := httpx.AuthnMiddleware(r.verifier)

	// Reset flow and contact form are reachable without a session.
	r.Mux.HandleFunc("POST /api/users/reset-password", h.HandleRequestReset)
	r.Mux.HandleFunc("POST /api/users/verify-password-code", h.HandleConfirmReset)
	r.Mux.HandleFunc("POST /api/users/contact", h.HandleContact)

	r.Mux.Handle("PUT /api/users/{id}/password", httpx.Chain(http.HandlerFunc(h.HandleChangePassword), authn))
	r.Mux.Handle("PUT /api/users/{id}/username", httpx.Chain(http.HandlerFunc(h.HandleChangeUsername), authn))
	r.Mux.Handle("POST /api/users/{id}/verify-password", httpx.Chain(http.HandlerFunc(h.HandleVerifyPassword), authn))
	r.Mux.Handle("GET /api/users/history/{userId}", httpx.Chain(http.HandlerFunc(h.HandleHistory), authn))
	r.Mux.Handle("DELETE /api/users/history/{userId}", httpx.Chain(http.HandlerFunc(h.HandleClearHistory), authn))
	r.Mux.Handle("DELETE /api/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleDeleteAccount), authn))
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", HandleLivez)
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.store))
}
