package user

import (
	"errors"
	"net/http"

	useCaseUser "go-mailing-api/src/application/usecases/user"
	"go-mailing-api/src/domain/common"
	domainErrors "go-mailing-api/src/domain/errors"
	domainUser "go-mailing-api/src/domain/user"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const avatarFormField = "avatar"

type IUserController interface {
	Register(ctx *gin.Context)
	Verify(ctx *gin.Context)
	RequestPasswordReset(ctx *gin.Context)
	ResetPassword(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	UpdateProfile(ctx *gin.Context)
	UploadAvatar(ctx *gin.Context)
	SetActive(ctx *gin.Context)
	ListCustomers(ctx *gin.Context)
}

type UserController struct {
	userUseCase   useCaseUser.IUserUseCase
	commonService common.CommonService
	Logger        *logger.Logger
}

func NewUserController(userUseCase useCaseUser.IUserUseCase, commonService common.CommonService, loggerInstance *logger.Logger) IUserController {
	return &UserController{
		userUseCase:   userUseCase,
		commonService: commonService,
		Logger:        loggerInstance,
	}
}

func (c *UserController) Register(ctx *gin.Context) {
	var request RegisterRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		c.Logger.Warn("Invalid registration payload")
		return
	}
	created, err := c.userUseCase.Register(ctx.Request.Context(), &domainUser.RegisterInput{
		Email:       request.Email,
		Password:    request.Password,
		FirstName:   request.FirstName,
		LastName:    request.LastName,
		PhoneNumber: request.PhoneNumber,
		Area:        request.Area,
	}, ctx.Request.Host)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	controllers.RespondID(ctx, http.StatusCreated, created.ID)
}

func (c *UserController) Verify(ctx *gin.Context) {
	activated, err := c.userUseCase.Verify(ctx.Param("token"))
	if err != nil {
		c.Logger.Warn("Verification failed", zap.Error(err))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, domainToResponseMapper(activated))
}

// RequestPasswordReset answers 200 whether or not the email belongs to an account
func (c *UserController) RequestPasswordReset(ctx *gin.Context) {
	var request PasswordResetRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		return
	}
	if err := c.userUseCase.RequestPasswordReset(ctx.Request.Context(), request.Email, ctx.Request.Host); err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "If the account exists, a recovery link has been sent"})
}

func (c *UserController) ResetPassword(ctx *gin.Context) {
	var request SetPasswordRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		return
	}
	if err := c.userUseCase.ResetPassword(ctx.Param("token"), request.Password); err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (c *UserController) GetByID(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	id, err := controllers.ParamID(ctx, "id")
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	found, err := c.userUseCase.GetByID(identity, id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, domainToResponseMapper(found))
}

func (c *UserController) UpdateProfile(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	id, err := controllers.ParamID(ctx, "id")
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	var request UpdateProfileRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		return
	}
	updated, err := c.userUseCase.UpdateProfile(identity, id, request.toMap())
	if err != nil {
		c.Logger.Error("Error updating profile", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	controllers.RespondID(ctx, http.StatusOK, updated.ID)
}

func (c *UserController) UploadAvatar(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	id, err := controllers.ParamID(ctx, "id")
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	header, err := ctx.FormFile(avatarFormField)
	if err != nil {
		_ = ctx.Error(domainErrors.NewAppError(errors.New("avatar file is required"), domainErrors.ValidationError))
		return
	}
	file, err := header.Open()
	if err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.UnknownError))
		return
	}
	defer file.Close()

	updated, err := c.userUseCase.UploadAvatar(identity, id, file)
	if err != nil {
		c.Logger.Error("Error uploading avatar", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, domainToResponseMapper(updated))
}

func (c *UserController) SetActive(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	id, err := controllers.ParamID(ctx, "id")
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	var request SetActiveRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		return
	}
	updated, err := c.userUseCase.SetActive(identity, id, *request.IsActive)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	controllers.RespondID(ctx, http.StatusOK, updated.ID)
}

func (c *UserController) ListCustomers(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	result, err := c.userUseCase.ListCustomers(identity, controllers.Filters(ctx))
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, controllers.NewPageResponse(result, domainToResponseMapper))
}
