package services

import (
	"context"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/pkg/apperrors"
	"github.com/fashionhub/storefront/pkg/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the user repository surface the auth flow uses.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthService registers accounts and issues JWTs.
type AuthService struct {
	users UserStore
}

// NewAuthService wires the service to its store.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput is the register request body.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult pairs a signed token with its user.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if apperrors.IsKind(err, apperrors.NotFound) {
			return nil, apperrors.Unauthenticated("Invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}

	return s.issue(user)
}

// Me returns the account for an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.Unauthenticated("Not authorized to access this route")
	}
	return s.users.Get(ctx, uid)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
