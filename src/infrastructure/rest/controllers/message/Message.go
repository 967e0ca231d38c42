package message

import (
	"net/http"

	useCaseMessage "go-mailing-api/src/application/usecases/message"
	"go-mailing-api/src/domain/common"
	domainMessage "go-mailing-api/src/domain/message"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IMessageController interface {
	GetAll(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type MessageController struct {
	messageUseCase useCaseMessage.IMessageUseCase
	commonService  common.CommonService
	Logger         *logger.Logger
}

func NewMessageController(messageUseCase useCaseMessage.IMessageUseCase, commonService common.CommonService, loggerInstance *logger.Logger) IMessageController {
	return &MessageController{
		messageUseCase: messageUseCase,
		commonService:  commonService,
		Logger:         loggerInstance,
	}
}

func (c *MessageController) GetAll(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	result, err := c.messageUseCase.GetAll(identity, controllers.Filters(ctx))
	if err != nil {
		c.Logger.Error("Error listing messages", zap.Error(err), zap.Int("userID", identity.UserID))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, controllers.NewPageResponse(result, domainToResponseMapper))
}

func (c *MessageController) GetByID(ctx *gin.Context) {
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
	found, err := c.messageUseCase.GetByID(identity, id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, domainToResponseMapper(found))
}

func (c *MessageController) Create(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	var request NewMessageRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		c.Logger.Warn("Invalid message payload", zap.Int("userID", identity.UserID))
		return
	}
	created, err := c.messageUseCase.Create(identity, &domainMessage.Message{
		Subject: request.Subject,
		Body:    request.Body,
	})
	if err != nil {
		c.Logger.Error("Error creating message", zap.Error(err), zap.Int("userID", identity.UserID))
		_ = ctx.Error(err)
		return
	}
	c.Logger.Info("Message created", zap.Int("id", created.ID), zap.Int("userID", identity.UserID))
	controllers.RespondID(ctx, http.StatusCreated, created.ID)
}

func (c *MessageController) Update(ctx *gin.Context) {
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
	var request UpdateMessageRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		return
	}
	updated, err := c.messageUseCase.Update(identity, id, request.toMap())
	if err != nil {
		c.Logger.Error("Error updating message", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	controllers.RespondID(ctx, http.StatusOK, updated.ID)
}

func (c *MessageController) Delete(ctx *gin.Context) {
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
	if err := c.messageUseCase.Delete(identity, id); err != nil {
		c.Logger.Error("Error deleting message", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	c.Logger.Info("Message deleted", zap.Int("id", id), zap.Int("userID", identity.UserID))
	controllers.NoContent(ctx)
}
