package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/h4ks-com/cashbook/internal/repository"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrTokenNotFound = errors.New("token not found")
)

const tokenIssuer = "cashbook"

type TokenClaims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService struct {
	tokenRepo *repository.TokenRepository
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewTokenService(tokenRepo *repository.TokenRepository, userRepo *repository.UserRepository, jwtSecret string) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// GenerateToken signs a bearer token for the user and records it so it can
// be listed and revoked.
func (s *TokenService) GenerateToken(userID uint, expiresIn time.Duration) (string, time.Time, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", time.Time{}, err
	}
	if user == nil {
		return "", time.Time{}, ErrUserNotFound
	}

	now := time.Now().UTC()
	expiresAt := now.Add(expiresIn)

	claims := TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        strconv.FormatInt(now.UnixNano(), 36),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	apiToken := &models.APIToken{
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: expiresAt,
	}

	if err := s.tokenRepo.Create(apiToken); err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken checks the signature and that the token has not been revoked.
func (s *TokenService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	dbToken, err := s.tokenRepo.FindByToken(tokenString)
	if err != nil {
		return nil, err
	}
	if dbToken == nil || dbToken.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *TokenService) ListUserTokens(userID uint) ([]models.APIToken, error) {
	return s.tokenRepo.FindByUserID(userID)
}

func (s *TokenService) DeleteToken(tokenID uint, userID uint) error {
	deleted, err := s.tokenRepo.Delete(tokenID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTokenNotFound
	}
	return nil
}

func (s *TokenService) PurgeExpired() error {
	return s.tokenRepo.DeleteExpired()
}
