package http

import (
	"context"
	"net/http"
	"time"

	"github.com/seatwise/ticketer/internal/app"
	"github.com/seatwise/ticketer/internal/domain"
)

// AuthService is the surface the register/login handlers need.
type AuthService interface {
	Register(ctx context.Context, in app.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (app.LoginResult, error)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func HandleRegister(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		user, err := svc.Register(r.Context(), app.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, userResponse{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		})
	}
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func HandleLogin(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		result, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{
			AccessToken: result.AccessToken,
			TokenType:   "bearer",
			ExpiresAt:   result.ExpiresAt,
		})
	}
}
