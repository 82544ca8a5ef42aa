package app

import (
	"context"
	"strings"
	"time"

	"github.com/seatwise/ticketer/internal/auth"
	"github.com/seatwise/ticketer/internal/clock"
	"github.com/seatwise/ticketer/internal/domain"
)

type UserStore interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

const minPasswordLength = 8

// AuthService handles registration and login. Password hashing and token
// signing live in internal/auth; this service owns the account rules.
type AuthService struct {
	users      UserStore
	tokens     *auth.TokenIssuer
	bcryptCost int
	clock      clock.Clock
}

func NewAuthService(users UserStore, tokens *auth.TokenIssuer, bcryptCost int, clk clock.Clock) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		clock:      clk,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if len(in.Password) < minPasswordLength {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

type LoginResult struct {
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
}

// Login verifies credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{UserID: user.ID, AccessToken: token, ExpiresAt: exp}, nil
}
