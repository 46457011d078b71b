package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/zvrva/securespot/internal/apperrors"
	"github.com/zvrva/securespot/internal/domain"
	"github.com/zvrva/securespot/internal/repository"
)

type AuthUseCase interface {
	SignUp(ctx context.Context, email, password, passwordConfirmation string) (*domain.User, string, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, string, error)
	SignOut(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID int64, current, newPassword, newPasswordConfirmed string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Denylist records revoked token ids until their natural expiry.
type Denylist interface {
	DenyToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenDenied(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	users    repository.UserRepository
	denylist Denylist
	secret   []byte
	tokenTTL time.Duration
}

func NewService(users repository.UserRepository, denylist Denylist, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		denylist: denylist,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
	}
}

func (s *Service) SignUp(ctx context.Context, email, password, passwordConfirmation string) (*domain.User, string, error) {
	if email == "" {
		return nil, "", apperrors.NewValidation("email", "is required")
	}
	if password == "" {
		return nil, "", apperrors.NewValidation("password", "is required")
	}
	if password != passwordConfirmation {
		return nil, "", apperrors.NewValidation("password", "passwords do not match")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", &apperrors.ConflictError{Reason: "an account with this email already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", &apperrors.UnauthorizedError{Reason: "invalid email or password"}
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", &apperrors.UnauthorizedError{Reason: "invalid email or password"}
	}
	if !user.IsActive {
		return nil, "", &apperrors.UnauthorizedError{Reason: "this account has been deactivated"}
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignOut revokes the presented token for the remainder of its lifetime.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return &apperrors.UnauthorizedError{Reason: "invalid or expired token"}
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return &apperrors.UnauthorizedError{Reason: "invalid or expired token"}
	}

	var remaining time.Duration
	if exp, ok := claims["exp"].(float64); ok {
		remaining = time.Until(time.Unix(int64(exp), 0))
	}
	return s.denylist.DenyToken(ctx, jti, remaining)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, current, newPassword, newPasswordConfirmed string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &apperrors.NotFoundError{Resource: "user"}
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return &apperrors.UnauthorizedError{Reason: "current password is incorrect"}
	}
	if newPassword == "" {
		return apperrors.NewValidation("new_password", "is required")
	}
	if newPassword != newPasswordConfirmed {
		return apperrors.NewValidation("new_password", "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, &apperrors.UnauthorizedError{Reason: "invalid or expired token"}
	}

	if jti, ok := claims["jti"].(string); ok && s.denylist != nil {
		denied, err := s.denylist.IsTokenDenied(ctx, jti)
		if err != nil {
			return nil, err
		}
		if denied {
			return nil, &apperrors.UnauthorizedError{Reason: "invalid or expired token"}
		}
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, &apperrors.UnauthorizedError{Reason: "invalid or expired token"}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &apperrors.UnauthorizedError{Reason: "invalid or expired token"}
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, &apperrors.UnauthorizedError{Reason: "this account has been deactivated"}
	}
	return user, nil
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) parseToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

var _ AuthUseCase = (*Service)(nil)
