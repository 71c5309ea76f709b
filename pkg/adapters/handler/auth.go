package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/go-social/pkg/config"
	"github.com/wadjakorntonsri/go-social/pkg/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	sessionTTL    = 24 * time.Hour
	userInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	sessionCookie = "auth_token"
	stateCookie   = "oauthstate"
)

// AuthHandler logs operators in with Google and issues the JWT cookie the
// admin routes require. Regular users never use it; they authenticate with
// credentials on every call.
type AuthHandler struct {
	oauthConfig   *oauth2.Config
	jwtSecret     []byte
	frontendURL   string
	allowedEmails []string
	isProduction  bool
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		jwtSecret:     []byte(cfg.JWTSecret),
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := h.generateStateOauthCookie(w)
	if err != nil {
		logger.Error("oauth_state_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	oauthState, err := r.Cookie(stateCookie)
	if err != nil || r.FormValue("state") != oauthState.Value {
		logger.Warn("oauth_callback_rejected", "reason", "state mismatch")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid oauth state"})
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		logger.Warn("oauth_exchange_failed", "error", err)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "code exchange failed"})
		return
	}

	resp, err := h.oauthConfig.Client(r.Context(), token).Get(userInfoURL)
	if err != nil {
		logger.Error("oauth_userinfo_failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed getting user info"})
		return
	}
	defer resp.Body.Close()

	var googleUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		logger.Error("oauth_userinfo_decode_failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed decoding user info"})
		return
	}

	if !h.allowed(googleUser) {
		logger.Warn("operator_denied", "email", googleUser.Email)
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied"})
		return
	}

	tokenString, expires, err := h.issueToken(googleUser.Email)
	if err != nil {
		logger.Error("jwt_sign_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	http.SetCookie(w, h.cookie(sessionCookie, tokenString, expires))
	logger.Info("operator_login", "email", googleUser.Email)
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie(sessionCookie, "", time.Now().Add(-time.Hour)))
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

// allowed requires a verified email; with an allowlist configured the email
// must also be on it.
func (h *AuthHandler) allowed(u GoogleUser) bool {
	if !u.VerifiedEmail || u.Email == "" {
		return false
	}
	return len(h.allowedEmails) == 0 || slices.Contains(h.allowedEmails, u.Email)
}

func (h *AuthHandler) issueToken(email string) (string, time.Time, error) {
	expires := time.Now().Add(sessionTTL)
	claims := &jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	return signed, expires, err
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, h.cookie(stateCookie, state, time.Now().Add(20*time.Minute)))
	return state, nil
}
