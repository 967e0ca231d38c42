package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-mailing-api/src/domain"
	"go-mailing-api/src/domain/common"
	domainErrors "go-mailing-api/src/domain/errors"
	domainPermission "go-mailing-api/src/domain/permission"
	domainUser "go-mailing-api/src/domain/user"
	"go-mailing-api/src/infrastructure/helper"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/controllers"
	"go-mailing-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockUserUseCase struct {
	registerFn      func(context.Context, *domainUser.RegisterInput, string) (*domainUser.User, error)
	verifyFn        func(string) (*domainUser.User, error)
	requestResetFn  func(context.Context, string, string) error
	resetPasswordFn func(string, string) error
	getByIDFn       func(domainPermission.Identity, int) (*domainUser.User, error)
	updateFn        func(domainPermission.Identity, int, map[string]interface{}) (*domainUser.User, error)
	uploadAvatarFn  func(domainPermission.Identity, int, io.Reader) (*domainUser.User, error)
	setActiveFn     func(domainPermission.Identity, int, bool) (*domainUser.User, error)
	listFn          func(domainPermission.Identity, domain.DataFilters) (*domainUser.SearchResultUser, error)
}

func (m *MockUserUseCase) Register(ctx context.Context, input *domainUser.RegisterInput, host string) (*domainUser.User, error) {
	return m.registerFn(ctx, input, host)
}

func (m *MockUserUseCase) Verify(token string) (*domainUser.User, error) {
	return m.verifyFn(token)
}

func (m *MockUserUseCase) RequestPasswordReset(ctx context.Context, email string, host string) error {
	return m.requestResetFn(ctx, email, host)
}

func (m *MockUserUseCase) ResetPassword(token string, password string) error {
	return m.resetPasswordFn(token, password)
}

func (m *MockUserUseCase) GetByID(identity domainPermission.Identity, id int) (*domainUser.User, error) {
	return m.getByIDFn(identity, id)
}

func (m *MockUserUseCase) UpdateProfile(identity domainPermission.Identity, id int, userMap map[string]interface{}) (*domainUser.User, error) {
	return m.updateFn(identity, id, userMap)
}

func (m *MockUserUseCase) UploadAvatar(identity domainPermission.Identity, id int, r io.Reader) (*domainUser.User, error) {
	return m.uploadAvatarFn(identity, id, r)
}

func (m *MockUserUseCase) SetActive(identity domainPermission.Identity, id int, active bool) (*domainUser.User, error) {
	return m.setActiveFn(identity, id, active)
}

func (m *MockUserUseCase) ListCustomers(identity domainPermission.Identity, filters domain.DataFilters) (*domainUser.SearchResultUser, error) {
	return m.listFn(identity, filters)
}

func (m *MockUserUseCase) CreateAdmin(email, firstName, lastName, password string) (*domainUser.User, error) {
	return nil, nil
}

func setupLogger(t *testing.T) *logger.Logger {
	loggerInstance, err := logger.NewLogger()
	require.NoError(t, err)
	return loggerInstance
}

var manager = domainPermission.Identity{
	UserID:      2,
	Role:        domainPermission.RoleManager,
	Permissions: domainPermission.NewSet(domainPermission.ViewUserList, domainPermission.BlockUser),
}

func newRouter(t *testing.T, useCase *MockUserUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	require.NoError(t, helper.RegisterBindingValidations())
	loggerInstance := setupLogger(t)
	controller := NewUserController(useCase, common.NewCommonService(helper.NewValidator(loggerInstance)), loggerInstance)

	router := gin.New()
	router.Use(middlewares.ErrorHandler())
	router.POST("/users/register", controller.Register)
	router.GET("/users/verify/:token", controller.Verify)
	router.POST("/users/password-reset", controller.RequestPasswordReset)
	router.POST("/users/password-reset/:token", controller.ResetPassword)

	private := router.Group("/users")
	private.Use(func(c *gin.Context) {
		c.Set(controllers.IdentityKey, manager)
		c.Next()
	})
	private.GET("", controller.ListCustomers)
	private.GET("/:id", controller.GetByID)
	private.PUT("/:id", controller.UpdateProfile)
	private.POST("/:id/avatar", controller.UploadAvatar)
	private.PATCH("/:id/active", controller.SetActive)
	return router
}

func request(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserController_Register(t *testing.T) {
	var capturedHost string
	var captured *domainUser.RegisterInput
	useCase := &MockUserUseCase{
		registerFn: func(ctx context.Context, input *domainUser.RegisterInput, host string) (*domainUser.User, error) {
			captured, capturedHost = input, host
			return &domainUser.User{ID: 5, Email: input.Email}, nil
		},
	}
	w := request(newRouter(t, useCase), http.MethodPost, "/users/register", map[string]string{
		"email":       "ann@example.com",
		"password":    "password123",
		"password2":   "password123",
		"phoneNumber": "79991234567",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":5}`, w.Body.String())
	assert.Equal(t, "example.com", capturedHost)
	assert.Equal(t, "79991234567", captured.PhoneNumber)
}

func TestUserController_RegisterValidation(t *testing.T) {
	useCase := &MockUserUseCase{
		registerFn: func(ctx context.Context, input *domainUser.RegisterInput, host string) (*domainUser.User, error) {
			t.Fatal("use case must not be called")
			return nil, nil
		},
	}
	router := newRouter(t, useCase)

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"bad email", map[string]string{"email": "nope", "password": "password123", "password2": "password123"}, "email"},
		{"short password", map[string]string{"email": "a@x.com", "password": "short", "password2": "short"}, "password"},
		{"mismatch", map[string]string{"email": "a@x.com", "password": "password123", "password2": "password124"}, "password2"},
		{"phone with symbols", map[string]string{"email": "a@x.com", "password": "password123", "password2": "password123", "phoneNumber": "+7-999"}, "phoneNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(router, http.MethodPost, "/users/register", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			var response struct {
				Errors []common.ErrorMsg `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			require.NotEmpty(t, response.Errors)
			assert.Equal(t, tt.field, response.Errors[0].Field)
		})
	}
}

func TestUserController_RegisterDuplicate(t *testing.T) {
	useCase := &MockUserUseCase{
		registerFn: func(ctx context.Context, input *domainUser.RegisterInput, host string) (*domainUser.User, error) {
			return nil, domainErrors.NewAppErrorWithType(domainErrors.ResourceAlreadyExists)
		},
	}
	w := request(newRouter(t, useCase), http.MethodPost, "/users/register", map[string]string{
		"email": "ann@example.com", "password": "password123", "password2": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserController_Verify(t *testing.T) {
	useCase := &MockUserUseCase{
		verifyFn: func(token string) (*domainUser.User, error) {
			if token == "good" {
				return &domainUser.User{ID: 5, Email: "ann@example.com", IsActive: true}, nil
			}
			return nil, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
		},
	}
	router := newRouter(t, useCase)

	w := request(router, http.MethodGet, "/users/verify/good", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isActive":true`)

	w = request(router, http.MethodGet, "/users/verify/bad", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserController_PasswordReset(t *testing.T) {
	var resetToken, resetPassword string
	useCase := &MockUserUseCase{
		requestResetFn: func(ctx context.Context, email string, host string) error {
			return nil
		},
		resetPasswordFn: func(token string, password string) error {
			resetToken, resetPassword = token, password
			return nil
		},
	}
	router := newRouter(t, useCase)

	w := request(router, http.MethodPost, "/users/password-reset", map[string]string{"email": "unknown@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(router, http.MethodPost, "/users/password-reset/tok", map[string]string{"password": "newpassword", "password2": "newpassword"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", resetToken)
	assert.Equal(t, "newpassword", resetPassword)
}

func TestUserController_GetByIDAvatarURL(t *testing.T) {
	useCase := &MockUserUseCase{
		getByIDFn: func(identity domainPermission.Identity, id int) (*domainUser.User, error) {
			return &domainUser.User{ID: id, Avatar: "avatars/abc.png"}, nil
		},
	}
	w := request(newRouter(t, useCase), http.MethodGet, "/users/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var response ResponseUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "/media/avatars/abc.png", response.Avatar)
}

func TestUserController_UpdateProfile(t *testing.T) {
	var captured map[string]interface{}
	useCase := &MockUserUseCase{
		updateFn: func(identity domainPermission.Identity, id int, userMap map[string]interface{}) (*domainUser.User, error) {
			captured = userMap
			return &domainUser.User{ID: id}, nil
		},
	}
	w := request(newRouter(t, useCase), http.MethodPut, "/users/3", map[string]string{"firstName": "Ann"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"firstName": "Ann"}, captured)
}

func TestUserController_UploadAvatar(t *testing.T) {
	var received []byte
	useCase := &MockUserUseCase{
		uploadAvatarFn: func(identity domainPermission.Identity, id int, r io.Reader) (*domainUser.User, error) {
			received, _ = io.ReadAll(r)
			return &domainUser.User{ID: id, Avatar: "avatars/new.png"}, nil
		},
	}
	router := newRouter(t, useCase)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(avatarFormField, "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/3/avatar", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []byte("image-bytes"), received)

	w = request(router, http.MethodPost, "/users/3/avatar", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserController_SetActive(t *testing.T) {
	var capturedActive *bool
	useCase := &MockUserUseCase{
		setActiveFn: func(identity domainPermission.Identity, id int, active bool) (*domainUser.User, error) {
			capturedActive = &active
			return &domainUser.User{ID: id, IsActive: active}, nil
		},
	}
	router := newRouter(t, useCase)

	w := request(router, http.MethodPatch, "/users/3/active", map[string]bool{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, capturedActive)
	assert.False(t, *capturedActive)

	w = request(router, http.MethodPatch, "/users/3/active", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserController_ListCustomers(t *testing.T) {
	useCase := &MockUserUseCase{
		listFn: func(identity domainPermission.Identity, filters domain.DataFilters) (*domainUser.SearchResultUser, error) {
			data := []domainUser.User{{ID: 1, Email: "a@x.com"}, {ID: 2, Email: "b@x.com"}}
			return domain.NewPaginatedResult(&data, 2, filters), nil
		},
	}
	w := request(newRouter(t, useCase), http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page controllers.PageResponse[ResponseUser]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Data, 2)
}
