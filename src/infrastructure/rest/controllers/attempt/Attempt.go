package attempt

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	useCaseAttempt "go-mailing-api/src/application/usecases/attempt"
	domainAttempt "go-mailing-api/src/domain/attempt"
	domainErrors "go-mailing-api/src/domain/errors"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ResponseAttempt struct {
	ID             int       `json:"id"`
	Status         string    `json:"status"`
	ServerResponse string    `json:"serverResponse"`
	MailingID      int       `json:"mailingId"`
	OwnerID        int       `json:"ownerId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LedgerResponse is a page of attempts with the sent and failed totals of the caller's scope
type LedgerResponse struct {
	controllers.PageResponse[ResponseAttempt]
	TotalSent   int64 `json:"totalSent"`
	TotalFailed int64 `json:"totalFailed"`
}

type IAttemptController interface {
	GetAll(ctx *gin.Context)
}

type AttemptController struct {
	attemptUseCase useCaseAttempt.IAttemptUseCase
	Logger         *logger.Logger
}

func NewAttemptController(attemptUseCase useCaseAttempt.IAttemptUseCase, loggerInstance *logger.Logger) IAttemptController {
	return &AttemptController{attemptUseCase: attemptUseCase, Logger: loggerInstance}
}

func (c *AttemptController) GetAll(ctx *gin.Context) {
	identity, err := controllers.Identity(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	var mailingID *int
	if raw := ctx.Query("mailingId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			_ = ctx.Error(domainErrors.NewAppError(errors.New("mailingId must be a positive integer"), domainErrors.ValidationError))
			return
		}
		mailingID = &id
	}

	ledger, err := c.attemptUseCase.GetAll(identity, mailingID, controllers.Filters(ctx))
	if err != nil {
		c.Logger.Error("Error listing attempts", zap.Error(err), zap.Int("userID", identity.UserID))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, LedgerResponse{
		PageResponse: controllers.NewPageResponse(ledger.Attempts, domainToResponseMapper),
		TotalSent:    ledger.Totals.Sent,
		TotalFailed:  ledger.Totals.Failed,
	})
}

func domainToResponseMapper(a *domainAttempt.Attempt) ResponseAttempt {
	return ResponseAttempt{
		ID:             a.ID,
		Status:         string(a.Status),
		ServerResponse: a.ServerResponse,
		MailingID:      a.MailingID,
		OwnerID:        a.OwnerID,
		CreatedAt:      a.CreatedAt,
	}
}
