package inbound

import (
	"net/http"

	"github.com/liftlog/liftlog/internal/identity/usecase"
	"github.com/liftlog/liftlog/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the authentication workflows.
type HTTPEndpoint struct {
	uc     uc
	cookie CookieConfig
}

func (h *HTTPEndpoint) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (h *HTTPEndpoint) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// TOTPSetup issues a fresh secret and provisioning URI for enrollment. The
// secret is not persisted until registration commits.
func (h *HTTPEndpoint) TOTPSetup(r *router.Request) (any, error) {
	resp, err := h.uc.TOTPSetup(r.Context(), usecase.TOTPSetupInput{
		AccountName: r.GetQuery("username"),
	})
	if err != nil {
		return nil, err
	}

	return TOTPSetupResponse{
		Secret:          resp.Secret,
		ProvisioningURI: resp.ProvisioningURI,
	}, nil
}

// Register commits a new account once the first one-time code verifies, and
// signs the new account in.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username:   req.Username,
		Password:   req.Password,
		TOTPSecret: req.TOTPSecret,
		TOTPCode:   req.TOTPCode,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		Username: resp.Username,
		cookie:   h.sessionCookie(resp.Token),
	}, nil
}

// Login authenticates with password plus one-time code and sets the session
// cookie.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
		TOTP:     req.TOTP,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		Username: resp.Username,
		cookie:   h.sessionCookie(resp.Token),
	}, nil
}

// Logout revokes the session and clears the cookie. It is idempotent.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{
		Token: r.GetCookie(h.cookie.Name),
	}); err != nil {
		return nil, err
	}

	return LogoutResponse{cookie: h.expiredCookie()}, nil
}

// Me returns the account behind the session cookie.
func (h *HTTPEndpoint) Me(r *router.Request) (any, error) {
	resp, err := h.uc.Me(r.Context())
	if err != nil {
		return nil, err
	}

	return MeResponse{
		Username:  resp.Username,
		CreatedAt: resp.CreatedAt,
	}, nil
}
