package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrAuthDisabled  = errors.New("token issuing is disabled")
	ErrInvalidIssuer = errors.New("invalid issuer")
)

// AnonymousSubjectPrefix marks subjects issued by SignInAnonymous.
const AnonymousSubjectPrefix = "anon:"

// Service — сервис авторизации
type Service struct {
	config *config.Config
	now    func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// SignInAnonymous issues a token for a fresh anonymous subject.
func (s *Service) SignInAnonymous(ctx context.Context) (*AnonymousAuthResponse, error) {
	_ = ctx

	if s.config.AuthMode != config.AuthModeAnonymous {
		return nil, ErrAuthDisabled
	}

	userID := AnonymousSubjectPrefix + uuid.NewString()
	ttl := s.tokenTTL()

	accessToken, err := s.generateJWTWithTTL(userID, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate anonymous JWT: %w", err)
	}

	return &AnonymousAuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		UserID:      userID,
	}, nil
}

func (s *Service) tokenTTL() time.Duration {
	return time.Duration(s.config.JWTTTLMinutes) * time.Minute
}

// generateJWT — генерация JWT токена
func (s *Service) generateJWT(userID string) (string, error) {
	return s.generateJWTWithTTL(userID, s.tokenTTL())
}

func (s *Service) generateJWTWithTTL(userID string, ttl time.Duration) (string, error) {
	now := s.now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT — проверка JWT токена, возвращает sub
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if iss, _ := claims["iss"].(string); s.config.JWTIssuer != "" && iss != s.config.JWTIssuer {
		return "", ErrInvalidIssuer
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
