package security

import (
	"errors"
	"time"

	domainErrors "go-mailing-api/src/domain/errors"
	"go-mailing-api/src/infrastructure/utils"

	"github.com/golang-jwt/jwt/v4"
)

const (
	Access  = "access"
	Refresh = "refresh"
)

type AppToken struct {
	Token          string    `json:"token"`
	TokenType      string    `json:"type"`
	ExpirationTime time.Time `json:"expirationTime"`
}

type Claims struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTConfig holds secrets and lifetimes of the access and refresh tokens
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTime    time.Duration
	RefreshTime   time.Duration
}

type IJWTService interface {
	GenerateJWTToken(userID int, tokenType string, role string) (*AppToken, error)
	GetClaimsAndVerifyToken(tokenString string, tokenType string) (jwt.MapClaims, error)
}

type JWTService struct {
	config JWTConfig
}

// NewJWTService reads its configuration from the environment
func NewJWTService() IJWTService {
	return NewJWTServiceWithConfig(JWTConfig{
		AccessSecret:  utils.GetEnv("JWT_ACCESS_SECRET_KEY", ""),
		RefreshSecret: utils.GetEnv("JWT_REFRESH_SECRET_KEY", ""),
		AccessTime:    time.Duration(utils.GetEnvAsInt("JWT_ACCESS_TIME_MINUTE", 60)) * time.Minute,
		RefreshTime:   time.Duration(utils.GetEnvAsInt("JWT_REFRESH_TIME_HOUR", 24)) * time.Hour,
	})
}

func NewJWTServiceWithConfig(config JWTConfig) IJWTService {
	return &JWTService{config: config}
}

func (s *JWTService) secretAndDuration(tokenType string) (string, time.Duration, error) {
	switch tokenType {
	case Access:
		return s.config.AccessSecret, s.config.AccessTime, nil
	case Refresh:
		return s.config.RefreshSecret, s.config.RefreshTime, nil
	}
	return "", 0, errors.New("invalid token type")
}

func (s *JWTService) GenerateJWTToken(userID int, tokenType string, role string) (*AppToken, error) {
	secret, duration, err := s.secretAndDuration(tokenType)
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	if secret == "" {
		return nil, domainErrors.NewAppError(errors.New("jwt secret is not configured"), domainErrors.UnknownError)
	}

	now := time.Now()
	expiration := now.Add(duration)
	claims := &Claims{
		ID:   userID,
		Type: tokenType,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.UnknownError)
	}

	return &AppToken{
		Token:          signed,
		TokenType:      tokenType,
		ExpirationTime: expiration,
	}, nil
}

func (s *JWTService) GetClaimsAndVerifyToken(tokenString string, tokenType string) (jwt.MapClaims, error) {
	secret, _, err := s.secretAndDuration(tokenType)
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.NotAuthenticated)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.NotAuthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domainErrors.NewAppError(errors.New("invalid token"), domainErrors.NotAuthenticated)
	}
	if claims["type"] != tokenType {
		return nil, domainErrors.NewAppError(errors.New("token type mismatch"), domainErrors.NotAuthenticated)
	}
	return claims, nil
}
