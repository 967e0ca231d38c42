package attempt

import (
	"go-mailing-api/src/domain"
	domainAttempt "go-mailing-api/src/domain/attempt"
	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"
	attemptRepo "go-mailing-api/src/infrastructure/repository/database/attempt"

	"go.uber.org/zap"
)

// Ledger is one page of attempts plus the sent and failed totals for the same scope
type Ledger struct {
	Attempts *domainAttempt.SearchResultAttempt
	Totals   *domainAttempt.Totals
}

type IAttemptUseCase interface {
	GetAll(identity domainPermission.Identity, mailingID *int, filters domain.DataFilters) (*Ledger, error)
}

type AttemptUseCase struct {
	attemptRepository attemptRepo.AttemptRepositoryInterface
	Logger            *logger.Logger
}

func NewAttemptUseCase(attemptRepository attemptRepo.AttemptRepositoryInterface, loggerInstance *logger.Logger) IAttemptUseCase {
	return &AttemptUseCase{
		attemptRepository: attemptRepository,
		Logger:            loggerInstance,
	}
}

func (a *AttemptUseCase) GetAll(identity domainPermission.Identity, mailingID *int, filters domain.DataFilters) (*Ledger, error) {
	scope := identity.OwnerScope(domainPermission.ViewAttempt)
	attempts, err := a.attemptRepository.GetAll(scope, mailingID, filters)
	if err != nil {
		return nil, err
	}
	totals, err := a.attemptRepository.CountByStatus(scope)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("Attempt ledger loaded",
		zap.Int("userID", identity.UserID),
		zap.Int64("total", attempts.Total),
		zap.Int64("sent", totals.Sent),
		zap.Int64("failed", totals.Failed))
	return &Ledger{Attempts: attempts, Totals: totals}, nil
}
