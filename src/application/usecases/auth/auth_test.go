package auth

import (
	"errors"
	"testing"
	"time"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainUser "go-mailing-api/src/domain/user"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/security"

	"github.com/golang-jwt/jwt/v4"
)

type mockUserService struct {
	getByEmailFn         func(string) (*domainUser.User, error)
	getByIDFn            func(int) (*domainUser.User, error)
	callGetByEmailCalled bool
	callGetByIDCalled    bool
}

func (m *mockUserService) GetByID(id int) (*domainUser.User, error) {
	m.callGetByIDCalled = true
	return m.getByIDFn(id)
}
func (m *mockUserService) GetByEmail(email string) (*domainUser.User, error) {
	m.callGetByEmailCalled = true
	return m.getByEmailFn(email)
}
func (m *mockUserService) GetByVerificationToken(token string) (*domainUser.User, error) {
	return nil, nil
}
func (m *mockUserService) GetByResetToken(token string) (*domainUser.User, error) {
	return nil, nil
}
func (m *mockUserService) Create(newUser *domainUser.User) (*domainUser.User, error) {
	return nil, nil
}
func (m *mockUserService) Delete(id int) error {
	return nil
}
func (m *mockUserService) Update(id int, userMap map[string]interface{}) (*domainUser.User, error) {
	return nil, nil
}
func (m *mockUserService) ListNonStaff(filters domain.DataFilters) (*domainUser.SearchResultUser, error) {
	return nil, nil
}

type mockJWTService struct {
	generateTokenFn func(int, string) (*security.AppToken, error)
	verifyTokenFn   func(string, string) (jwt.MapClaims, error)
}

func (m *mockJWTService) GenerateJWTToken(userID int, tokenType string, role string) (*security.AppToken, error) {
	return m.generateTokenFn(userID, tokenType)
}

func (m *mockJWTService) GetClaimsAndVerifyToken(tokenString string, tokenType string) (jwt.MapClaims, error) {
	return m.verifyTokenFn(tokenString, tokenType)
}

func setupLogger(t *testing.T) *logger.Logger {
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return loggerInstance
}

func HashPasswordForTest(t *testing.T, plain string) string {
	hashed, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("failed to generate hash for test: %v", err)
	}
	return hashed
}

func TestCheckPasswordHash(t *testing.T) {
	password := "mySecretPass"
	hashed := HashPasswordForTest(t, password)

	if ok := CheckPasswordHash(password, hashed); !ok {
		t.Errorf("CheckPasswordHash() = false, want true")
	}
	if ok := CheckPasswordHash("wrongPassword", hashed); ok {
		t.Errorf("CheckPasswordHash() = true, want false")
	}
}

func TestAuthUseCase_Login(t *testing.T) {
	okToken := func(userID int, tokenType string) (*security.AppToken, error) {
		return &security.AppToken{Token: "test_token_" + tokenType, ExpirationTime: time.Now().Add(time.Hour)}, nil
	}

	tests := []struct {
		name                   string
		mockGetByEmailFn       func(string) (*domainUser.User, error)
		mockGenerateTokenFn    func(int, string) (*security.AppToken, error)
		inputEmail             string
		inputPassword          string
		wantErr                bool
		wantErrType            domainErrors.ErrorType
		wantSuccessAccessToken bool
	}{
		{
			name: "Error fetching user from DB",
			mockGetByEmailFn: func(email string) (*domainUser.User, error) {
				return nil, errors.New("db error")
			},
			mockGenerateTokenFn: okToken,
			inputEmail:          "test@example.com",
			inputPassword:       "123456",
			wantErr:             true,
		},
		{
			name: "User not found (ID=0)",
			mockGetByEmailFn: func(email string) (*domainUser.User, error) {
				return &domainUser.User{ID: 0}, nil
			},
			mockGenerateTokenFn: okToken,
			inputEmail:          "test@example.com",
			inputPassword:       "123456",
			wantErr:             true,
			wantErrType:         domainErrors.NotAuthenticated,
		},
		{
			name: "Incorrect password",
			mockGetByEmailFn: func(email string) (*domainUser.User, error) {
				return &domainUser.User{ID: 10, IsActive: true, HashPassword: HashPasswordForTest(t, "someOtherPass")}, nil
			},
			mockGenerateTokenFn: okToken,
			inputEmail:          "test@example.com",
			inputPassword:       "wrong",
			wantErr:             true,
			wantErrType:         domainErrors.NotAuthenticated,
		},
		{
			name: "Inactive account",
			mockGetByEmailFn: func(email string) (*domainUser.User, error) {
				return &domainUser.User{ID: 10, IsActive: false, HashPassword: HashPasswordForTest(t, "somePass")}, nil
			},
			mockGenerateTokenFn: okToken,
			inputEmail:          "test@example.com",
			inputPassword:       "somePass",
			wantErr:             true,
			wantErrType:         domainErrors.NotAuthenticated,
		},
		{
			name: "Access token generation fails",
			mockGetByEmailFn: func(email string) (*domainUser.User, error) {
				return &domainUser.User{ID: 10, IsActive: true, HashPassword: HashPasswordForTest(t, "somePass")}, nil
			},
			mockGenerateTokenFn: func(userID int, tokenType string) (*security.AppToken, error) {
				return nil, errors.New("token generation failed")
			},
			inputEmail:    "test@example.com",
			inputPassword: "somePass",
			wantErr:       true,
		},
		{
			name: "OK - everything correct",
			mockGetByEmailFn: func(email string) (*domainUser.User, error) {
				if email != "test@example.com" {
					return &domainUser.User{}, nil
				}
				return &domainUser.User{
					ID:           10,
					Email:        "test@example.com",
					IsActive:     true,
					HashPassword: HashPasswordForTest(t, "mySecretPass"),
				}, nil
			},
			mockGenerateTokenFn:    okToken,
			inputEmail:             " Test@Example.com ",
			inputPassword:          "mySecretPass",
			wantErr:                false,
			wantSuccessAccessToken: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepoMock := &mockUserService{getByEmailFn: tt.mockGetByEmailFn}
			jwtMock := &mockJWTService{generateTokenFn: tt.mockGenerateTokenFn}

			uc := NewAuthUseCase(userRepoMock, jwtMock, setupLogger(t))

			user, authTokens, err := uc.Login(tt.inputEmail, tt.inputPassword)
			if (err != nil) != tt.wantErr {
				t.Fatalf("[%s] got err = %v, wantErr = %v", tt.name, err, tt.wantErr)
			}

			if tt.wantErrType != "" && err != nil {
				appErr, ok := err.(*domainErrors.AppError)
				if !ok || appErr.Type != tt.wantErrType {
					t.Errorf("[%s] expected error type = %s, got = %v", tt.name, tt.wantErrType, err)
				}
			}

			if !tt.wantErr && tt.wantSuccessAccessToken {
				if authTokens.AccessToken != "test_token_access" {
					t.Errorf("[%s] expected access token, got %q", tt.name, authTokens.AccessToken)
				}
				if authTokens.RefreshToken != "test_token_refresh" {
					t.Errorf("[%s] expected refresh token, got %q", tt.name, authTokens.RefreshToken)
				}
				if user == nil {
					t.Errorf("[%s] expected a non-nil user, got nil", tt.name)
				}
			}
			if tt.wantErr && authTokens != nil {
				t.Errorf("[%s] expected nil tokens on error", tt.name)
			}
		})
	}
}

func TestAuthUseCase_AccessTokenByRefreshToken(t *testing.T) {
	exp := time.Now().Add(24 * time.Hour).Unix()

	tests := []struct {
		name          string
		verifyTokenFn func(string, string) (jwt.MapClaims, error)
		getByIDFn     func(int) (*domainUser.User, error)
		wantErr       bool
	}{
		{
			name: "Invalid refresh token",
			verifyTokenFn: func(token, tokenType string) (jwt.MapClaims, error) {
				return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthenticated)
			},
			wantErr: true,
		},
		{
			name: "Blocked user",
			verifyTokenFn: func(token, tokenType string) (jwt.MapClaims, error) {
				return jwt.MapClaims{"id": float64(3), "exp": float64(exp)}, nil
			},
			getByIDFn: func(id int) (*domainUser.User, error) {
				return &domainUser.User{ID: id, IsActive: false}, nil
			},
			wantErr: true,
		},
		{
			name: "OK",
			verifyTokenFn: func(token, tokenType string) (jwt.MapClaims, error) {
				if tokenType != security.Refresh {
					return nil, errors.New("wrong type")
				}
				return jwt.MapClaims{"id": float64(3), "exp": float64(exp)}, nil
			},
			getByIDFn: func(id int) (*domainUser.User, error) {
				return &domainUser.User{ID: id, IsActive: true}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepoMock := &mockUserService{getByIDFn: tt.getByIDFn}
			jwtMock := &mockJWTService{
				verifyTokenFn: tt.verifyTokenFn,
				generateTokenFn: func(userID int, tokenType string) (*security.AppToken, error) {
					return &security.AppToken{Token: "new_access", ExpirationTime: time.Now().Add(time.Hour)}, nil
				},
			}
			uc := NewAuthUseCase(userRepoMock, jwtMock, setupLogger(t))

			user, tokens, err := uc.AccessTokenByRefreshToken("refresh-token")
			if (err != nil) != tt.wantErr {
				t.Fatalf("got err = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if user.ID != 3 || tokens.AccessToken != "new_access" || tokens.RefreshToken != "refresh-token" {
				t.Errorf("unexpected result: %+v %+v", user, tokens)
			}
			if tokens.ExpirationRefreshDateTime.Unix() != exp {
				t.Errorf("refresh expiration = %v, want %v", tokens.ExpirationRefreshDateTime.Unix(), exp)
			}
		})
	}
}
