package mailing

import (
	"net/http"

	useCaseMailing "go-mailing-api/src/application/usecases/mailing"
	"go-mailing-api/src/domain/common"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IMailingController interface {
	GetAll(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	Launch(ctx *gin.Context)
	Stop(ctx *gin.Context)
	Stats(ctx *gin.Context)
}

type MailingController struct {
	mailingUseCase useCaseMailing.IMailingUseCase
	commonService  common.CommonService
	Logger         *logger.Logger
}

func NewMailingController(mailingUseCase useCaseMailing.IMailingUseCase, commonService common.CommonService, loggerInstance *logger.Logger) IMailingController {
	return &MailingController{
		mailingUseCase: mailingUseCase,
		commonService:  commonService,
		Logger:         loggerInstance,
	}
}

func (c *MailingController) GetAll(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	result, err := c.mailingUseCase.GetAll(identity, controllers.Filters(ctx))
	if err != nil {
		c.Logger.Error("Error listing mailings", zap.Error(err), zap.Int("userID", identity.UserID))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, controllers.NewPageResponse(result, domainToResponseMapper))
}

func (c *MailingController) GetByID(ctx *gin.Context) {
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
	found, err := c.mailingUseCase.GetByID(identity, id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, domainToResponseMapper(found))
}

func (c *MailingController) Create(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	var request NewMailingRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		return
	}
	created, err := c.mailingUseCase.Create(identity, request.toInput())
	if err != nil {
		c.Logger.Error("Error creating mailing", zap.Error(err), zap.Int("userID", identity.UserID))
		_ = ctx.Error(err)
		return
	}
	controllers.RespondID(ctx, http.StatusCreated, created.ID)
}

func (c *MailingController) Update(ctx *gin.Context) {
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
	var request UpdateMailingRequest
	if !controllers.BindValidated(ctx, c.commonService, &request) {
		return
	}
	updated, err := c.mailingUseCase.Update(identity, id, request.toInput())
	if err != nil {
		c.Logger.Error("Error updating mailing", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	controllers.RespondID(ctx, http.StatusOK, updated.ID)
}

func (c *MailingController) Delete(ctx *gin.Context) {
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
	if err := c.mailingUseCase.Delete(identity, id); err != nil {
		_ = ctx.Error(err)
		return
	}
	c.Logger.Info("Mailing deleted", zap.Int("id", id), zap.Int("userID", identity.UserID))
	controllers.NoContent(ctx)
}

// Launch starts a created mailing, or stops a started one
func (c *MailingController) Launch(ctx *gin.Context) {
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
	mailing, err := c.mailingUseCase.Launch(ctx.Request.Context(), identity, id)
	if err != nil {
		c.Logger.Error("Error launching mailing", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, domainToResponseMapper(mailing))
}

func (c *MailingController) Stop(ctx *gin.Context) {
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
	mailing, err := c.mailingUseCase.Stop(identity, id)
	if err != nil {
		c.Logger.Error("Error stopping mailing", zap.Error(err), zap.Int("id", id))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, domainToResponseMapper(mailing))
}

func (c *MailingController) Stats(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	stats, err := c.mailingUseCase.Stats(identity)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, StatsResponse{
		CountMailing:          stats.CountMailing,
		CountActiveMailing:    stats.CountActiveMailing,
		CountUniqueRecipients: stats.CountUniqueRecipients,
	})
}
