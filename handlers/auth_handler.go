package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/bracket-engine/middleware"
	"github.com/Dosada05/bracket-engine/services"
)

const (
	organiserTokenTTL = 24 * time.Hour
	playerTokenTTL    = 7 * 24 * time.Hour
)

type AuthHandler struct {
	authService    services.AuthService
	bracketService services.BracketService
	jwtSecret      []byte
}

func NewAuthHandler(authService services.AuthService, bracketService services.BracketService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		bracketService: bracketService,
		jwtSecret:      []byte(jwtSecret),
	}
}

// Login обрабатывает POST /auth/token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Name == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("name and password are required"))
		return
	}

	principal, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	tokenString, err := middleware.IssueToken(h.jwtSecret, *principal, organiserTokenTTL)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"token": tokenString}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ParticipantTokenHandler обрабатывает POST /brackets/{bracketID}/participants/{participantID}/token.
// Организатор выдаёт участнику токен для самостоятельной отправки результатов.
func (h *AuthHandler) ParticipantTokenHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := h.bracketService.PlayerPrincipal(r.Context(), chi.URLParam(r, "bracketID"), chi.URLParam(r, "participantID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	tokenString, err := middleware.IssueToken(h.jwtSecret, *principal, playerTokenTTL)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"token": tokenString, "participant": principal}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
