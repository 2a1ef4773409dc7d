package inbound

import (
	"net/http"
	"time"
)

type TOTPSetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
}

func (TOTPSetupResponse) Message() string {
	return "Scan the QR code with an authenticator app, then register with the first code."
}

type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	TOTPSecret string `json:"totp_secret"`
	TOTPCode   string `json:"totp_code"`
}

type RegisterResponse struct {
	Username string `json:"username"`
	cookie   *http.Cookie
}

func (RegisterResponse) Message() string {
	return "Registration successful"
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

func (r RegisterResponse) Cookie() *http.Cookie {
	return r.cookie
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTP     string `json:"totp"`
}

type LoginResponse struct {
	Username string `json:"username"`
	cookie   *http.Cookie
}

func (LoginResponse) Message() string {
	return "Login successful"
}

func (r LoginResponse) Cookie() *http.Cookie {
	return r.cookie
}

type LogoutResponse struct {
	cookie *http.Cookie
}

func (LogoutResponse) StatusCode() int {
	return http.StatusNoContent
}

func (r LogoutResponse) Cookie() *http.Cookie {
	return r.cookie
}

type MeResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
