package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"

	"github.com/amberique/storefront/app/models"
	"github.com/amberique/storefront/app/services"
	"github.com/amberique/storefront/app/utils/sessions"
)

type AuthHandler struct {
	auth     services.AuthAPI
	sessions sessions.SessionStore
	validate *validator.Validate
	render   *render.Render
}

func NewAuthHandler(auth services.AuthAPI, sessionStore sessions.SessionStore, render *render.Render) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessionStore,
		validate: validator.New(),
		render:   render,
	}
}

// RequestOTP asks the backend to email a one-time login code.
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.validate.Var(payload.Email, "required,email"); err != nil {
		h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "A valid email address is required."})
		return
	}

	if err := h.auth.SendOTP(r.Context(), payload.Email); err != nil {
		log.Printf("AuthHandler.RequestOTP: send failed for %s: %v", payload.Email, err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "Could not send the login code. Please try again."})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"message": "Login code sent."})
}

// VerifyOTP exchanges the emailed code for a session and logs the visitor in.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if payload.Email == "" || payload.Code == "" {
		h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "Email and code are required."})
		return
	}

	session, err := h.auth.VerifyOTP(r.Context(), payload.Email, payload.Code)
	if err != nil {
		log.Printf("AuthHandler.VerifyOTP: verification failed for %s: %v", payload.Email, err)
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "The code is invalid or has expired."})
		return
	}

	h.login(w, r, session)
}

// Google exchanges a Google identity credential for a session.
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Credential string `json:"credential"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Credential == "" {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "credential is required"})
		return
	}

	session, err := h.auth.GoogleLogin(r.Context(), payload.Credential)
	if err != nil {
		log.Printf("AuthHandler.Google: credential exchange failed: %v", err)
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Google sign-in failed. Please try again."})
		return
	}

	h.login(w, r, session)
}

// Logout drops the visitor's login state. Local cart and favorites stay.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearLogin(w, r); err != nil {
		log.Printf("AuthHandler.Logout: failed to clear session: %v", err)
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, session *models.AuthSession) {
	userID := strconv.FormatInt(session.Profile.ID, 10)
	if err := h.sessions.SetLogin(w, r, userID, session.Token); err != nil {
		log.Printf("AuthHandler: failed to save login session: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "Could not complete the login."})
		return
	}
	h.render.JSON(w, http.StatusOK, session.Profile)
}
