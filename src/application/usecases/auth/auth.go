package auth

import (
	"errors"
	"strings"
	"time"

	domainErrors "go-mailing-api/src/domain/errors"
	domainUser "go-mailing-api/src/domain/user"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/repository/database/user"
	"go-mailing-api/src/infrastructure/security"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type IAuthUseCase interface {
	Login(email, password string) (*domainUser.User, *AuthTokens, error)
	AccessTokenByRefreshToken(refreshToken string) (*domainUser.User, *AuthTokens, error)
}

type AuthUseCase struct {
	UserRepository user.UserRepositoryInterface
	JWTService     security.IJWTService
	Logger         *logger.Logger
}

func NewAuthUseCase(
	userRepository user.UserRepositoryInterface,
	jwtService security.IJWTService,
	loggerInstance *logger.Logger,
) IAuthUseCase {
	return &AuthUseCase{
		UserRepository: userRepository,
		JWTService:     jwtService,
		Logger:         loggerInstance,
	}
}

type AuthTokens struct {
	AccessToken               string
	RefreshToken              string
	ExpirationAccessDateTime  time.Time
	ExpirationRefreshDateTime time.Time
}

func (s *AuthUseCase) Login(email, password string) (*domainUser.User, *AuthTokens, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.Logger.Info("User login attempt", zap.String("email", email))

	user, err := s.UserRepository.GetByEmail(email)
	if err != nil {
		s.Logger.Error("Error getting user for login", zap.Error(err), zap.String("email", email))
		return nil, nil, err
	}
	if user.ID == 0 {
		s.Logger.Warn("Login failed: user not found", zap.String("email", email))
		return nil, nil, domainErrors.NewAppError(errors.New("email or password does not match"), domainErrors.NotAuthenticated)
	}
	if !CheckPasswordHash(password, user.HashPassword) {
		s.Logger.Warn("Login failed: invalid password", zap.String("email", email))
		return nil, nil, domainErrors.NewAppError(errors.New("email or password does not match"), domainErrors.NotAuthenticated)
	}
	if !user.IsActive {
		s.Logger.Warn("Login failed: account is not active", zap.String("email", email), zap.Int("userID", user.ID))
		return nil, nil, domainErrors.NewAppError(errors.New("account is not active"), domainErrors.NotAuthenticated)
	}

	accessTokenClaims, err := s.JWTService.GenerateJWTToken(user.ID, security.Access, user.Role)
	if err != nil {
		s.Logger.Error("Error generating access token", zap.Error(err), zap.Int("userID", user.ID))
		return nil, nil, err
	}
	refreshTokenClaims, err := s.JWTService.GenerateJWTToken(user.ID, security.Refresh, user.Role)
	if err != nil {
		s.Logger.Error("Error generating refresh token", zap.Error(err), zap.Int("userID", user.ID))
		return nil, nil, err
	}

	authTokens := &AuthTokens{
		AccessToken:               accessTokenClaims.Token,
		RefreshToken:              refreshTokenClaims.Token,
		ExpirationAccessDateTime:  accessTokenClaims.ExpirationTime,
		ExpirationRefreshDateTime: refreshTokenClaims.ExpirationTime,
	}

	s.Logger.Info("User login successful", zap.String("email", email), zap.Int("userID", user.ID))
	return user, authTokens, nil
}

func (s *AuthUseCase) AccessTokenByRefreshToken(refreshToken string) (*domainUser.User, *AuthTokens, error) {
	s.Logger.Info("Refreshing access token")
	claimsMap, err := s.JWTService.GetClaimsAndVerifyToken(refreshToken, security.Refresh)
	if err != nil {
		s.Logger.Error("Error verifying refresh token", zap.Error(err))
		return nil, nil, err
	}
	idClaim, ok := claimsMap["id"].(float64)
	if !ok {
		return nil, nil, domainErrors.NewAppError(errors.New("invalid token claims"), domainErrors.NotAuthenticated)
	}
	userID := int(idClaim)
	user, err := s.UserRepository.GetByID(userID)
	if err != nil {
		s.Logger.Error("Error getting user for token refresh", zap.Error(err), zap.Int("userID", userID))
		return nil, nil, err
	}
	if !user.IsActive {
		s.Logger.Warn("Token refresh rejected: account is not active", zap.Int("userID", userID))
		return nil, nil, domainErrors.NewAppError(errors.New("account is not active"), domainErrors.NotAuthenticated)
	}

	accessTokenClaims, err := s.JWTService.GenerateJWTToken(user.ID, security.Access, user.Role)
	if err != nil {
		s.Logger.Error("Error generating new access token", zap.Error(err), zap.Int("userID", user.ID))
		return nil, nil, err
	}

	var expTime int64
	if exp, ok := claimsMap["exp"].(float64); ok {
		expTime = int64(exp)
	}

	authTokens := &AuthTokens{
		AccessToken:               accessTokenClaims.Token,
		ExpirationAccessDateTime:  accessTokenClaims.ExpirationTime,
		RefreshToken:              refreshToken,
		ExpirationRefreshDateTime: time.Unix(expTime, 0),
	}

	s.Logger.Info("Access token refreshed successfully", zap.Int("userID", user.ID))
	return user, authTokens, nil
}

// HashPassword returns the bcrypt hash stored for a password
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
