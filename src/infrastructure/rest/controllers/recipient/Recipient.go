package recipient

import (
	"net/http"

	useCaseRecipient "go-mailing-api/src/application/usecases/recipient"
	"go-mailing-api/src/domain/common"
	domainRecipient "go-mailing-api/src/domain/recipient"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IRecipientController interface {
	GetAll(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type RecipientController struct {
	recipientUseCase useCaseRecipient.IRecipientUseCase
	commonService    common.CommonService
	Logger           *logger.Logger
}

func NewRecipientController(recipientUseCase useCaseRecipient.IRecipientUseCase, commonService common.CommonService, loggerInstance *logger.Logger) IRecipientController {
	return &RecipientController{
		recipientUseCase: recipientUseCase,
		commonService:    commonService,
		Logger:           loggerInstance,
	}
}

func (c *RecipientController) GetAll(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	result, err := c.recipientUseCase.GetAll(identity, controllers.Filters(ctx))
	if err != nil {
		c.Logger.Error("Error listing recipients", zap.Error(err), zap.Int("userID", identity.UserID))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, controllers.NewPageResponse(result, domainToResponseMapper))
}

func (c *RecipientController) GetByID(ctx *gin.Context) {
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
	found, err := c.recipientUseCase.GetByID(identity, id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, domainToResponseMapper(found))
}

func (c *RecipientController) Create(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	var request NewRecipientRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		c.Logger.Warn("Invalid recipient payload", zap.Int("userID", identity.UserID))
		return
	}
	created, err := c.recipientUseCase.Create(identity, &domainRecipient.Recipient{
		Email:    request.Email,
		FullName: request.FullName,
		Comment:  request.Comment,
	})
	if err != nil {
		c.Logger.Error("Error creating recipient", zap.Error(err), zap.Int("userID", identity.UserID))
		_ = ctx.Error(err)
		return
	}
	c.Logger.Info("Recipient created", zap.Int("id", created.ID), zap.Int("userID", identity.UserID))
	controllers.RespondID(ctx, http.StatusCreated, created.ID)
}

func (c *RecipientController) Update(ctx *gin.Context) {
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
	var request UpdateRecipientRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		return
	}
	updated, err := c.recipientUseCase.Update(identity, id, request.toMap())
	if err != nil {
		c.Logger.Error("Error updating recipient", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	controllers.RespondID(ctx, http.StatusOK, updated.ID)
}

func (c *RecipientController) Delete(ctx *gin.Context) {
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
	if err := c.recipientUseCase.Delete(identity, id); err != nil {
		c.Logger.Error("Error deleting recipient", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	c.Logger.Info("Recipient deleted", zap.Int("id", id), zap.Int("userID", identity.UserID))
	controllers.NoContent(ctx)
}
