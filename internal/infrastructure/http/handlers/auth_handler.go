package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/application/auth"
)

// AuthHandler handles /auth/* endpoints.
type AuthHandler struct {
	registerUC *auth.RegisterUser
	loginUC    *auth.Login
	refreshUC  *auth.Refresh
	logoutUC   *auth.Logout
	log        zerolog.Logger
}

func NewAuthHandler(registerUC *auth.RegisterUser, loginUC *auth.Login, refreshUC *auth.Refresh, logoutUC *auth.Logout, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		refreshUC:  refreshUC,
		logoutUC:   logoutUC,
		log:        log,
	}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Signup registers a new account with the default USER role.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body signupRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	body.Email = SanitizeEmail(body.Email)
	body.Password = SanitizePassword(body.Password)
	if err := validate.Struct(body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "email and password (8-128 chars) required")
		return
	}
	result, err := h.registerUC.Execute(r.Context(), auth.RegisterUserInput{
		Email:    body.Email,
		FullName: body.FullName,
		Password: body.Password,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"user_id": result.User.ID.String(),
		"email":   result.User.Email,
	})
}

// Login authenticates and returns an access/refresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	body.Email = SanitizeEmail(body.Email)
	body.Password = SanitizePassword(body.Password)
	if body.Email == "" || body.Password == "" {
		writeErr(w, http.StatusBadRequest, "", "email and password required")
		return
	}
	result, err := h.loginUC.Execute(r.Context(), auth.LoginInput{Email: body.Email, Password: body.Password})
	if err != nil {
		h.log.Debug().Err(err).Str("email", body.Email).Msg("login failed")
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Refresh rotates a refresh token and issues a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		writeErr(w, http.StatusBadRequest, "", "refresh_token required")
		return
	}
	result, err := h.refreshUC.Execute(r.Context(), auth.RefreshInput{RefreshToken: body.RefreshToken})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		writeErr(w, http.StatusBadRequest, "", "refresh_token required")
		return
	}
	if err := h.logoutUC.Execute(r.Context(), body.RefreshToken); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
