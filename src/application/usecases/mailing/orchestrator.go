package mailing

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainAttempt "go-mailing-api/src/domain/attempt"
	domainErrors "go-mailing-api/src/domain/errors"
	domainMailing "go-mailing-api/src/domain/mailing"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/mailer"
	attemptRepo "go-mailing-api/src/infrastructure/repository/database/attempt"
	mailingRepo "go-mailing-api/src/infrastructure/repository/database/mailing"

	"go.uber.org/zap"
)

const unexpectedErrorPrefix = "unexpected error: "

// IOrchestrator sends a mailing to its recipients and records one attempt per recipient
type IOrchestrator interface {
	Start(ctx context.Context, mailing *domainMailing.Mailing) error
	Stop(mailing *domainMailing.Mailing) error
}

type Orchestrator struct {
	mailingRepository mailingRepo.MailingRepositoryInterface
	attemptRepository attemptRepo.AttemptRepositoryInterface
	transport         mailer.Transport
	from              string
	now               func() time.Time
	Logger            *logger.Logger
}

func NewOrchestrator(
	mailingRepository mailingRepo.MailingRepositoryInterface,
	attemptRepository attemptRepo.AttemptRepositoryInterface,
	transport mailer.Transport,
	from string,
	loggerInstance *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		mailingRepository: mailingRepository,
		attemptRepository: attemptRepository,
		transport:         transport,
		from:              from,
		now:               time.Now,
		Logger:            loggerInstance,
	}
}

// Start stamps the mailing and sends its message to every recipient in turn.
// Per-recipient failures become failed attempts and never stop the loop; an
// error is returned only when the mailing cannot be prepared for sending.
func (o *Orchestrator) Start(ctx context.Context, mailing *domainMailing.Mailing) error {
	if mailing.Message == nil {
		o.Logger.Error("Mailing has no message loaded", zap.Int("mailingID", mailing.ID))
		return domainErrors.NewAppError(errors.New("mailing has no message"), domainErrors.ValidationError)
	}

	now := o.now()
	if mailing.StartTime == nil {
		mailing.StartTime = &now
	}
	mailing.EndTime = &now
	_, err := o.mailingRepository.Update(mailing.ID, map[string]interface{}{
		"startTime": *mailing.StartTime,
		"endTime":   *mailing.EndTime,
	}, nil)
	if err != nil {
		o.Logger.Error("Error stamping mailing", zap.Error(err), zap.Int("mailingID", mailing.ID))
		return err
	}

	addresses, err := o.mailingRepository.GetRecipientEmails(mailing.ID)
	if err != nil {
		o.Logger.Error("Error resolving mailing recipients", zap.Error(err), zap.Int("mailingID", mailing.ID))
		return err
	}

	o.Logger.Info("Mailing started", zap.Int("mailingID", mailing.ID), zap.Int("recipients", len(addresses)))
	var sent, failed int
	for _, address := range addresses {
		attempt := o.sendOne(ctx, mailing, address)
		if attempt.Status == domainAttempt.StatusSuccess {
			sent++
		} else {
			failed++
		}
		if _, err := o.attemptRepository.Create(attempt); err != nil {
			o.Logger.Error("Error recording attempt",
				zap.Error(err),
				zap.Int("mailingID", mailing.ID),
				zap.String("recipient", address))
		}
	}
	o.Logger.Info("Mailing run finished", zap.Int("mailingID", mailing.ID), zap.Int("sent", sent), zap.Int("failed", failed))
	return nil
}

func (o *Orchestrator) sendOne(ctx context.Context, mailing *domainMailing.Mailing, address string) (attempt *domainAttempt.Attempt) {
	defer func() {
		if r := recover(); r != nil {
			o.Logger.Error("Recovered panic while sending", zap.Any("panic", r), zap.Int("mailingID", mailing.ID))
			attempt = o.newAttempt(mailing, domainAttempt.StatusFailure, fmt.Sprintf("%s%v", unexpectedErrorPrefix, r))
		}
	}()

	count, err := o.transport.Send(ctx, mailing.Message.Subject, mailing.Message.Body, o.from, []string{address})
	if err != nil {
		var transportErr *mailer.TransportError
		if errors.As(err, &transportErr) {
			o.Logger.Warn("Transport rejected message", zap.Int("mailingID", mailing.ID), zap.String("recipient", address), zap.String("detail", transportErr.Detail))
			return o.newAttempt(mailing, domainAttempt.StatusFailure, transportErr.Detail)
		}
		o.Logger.Error("Unexpected send failure", zap.Error(err), zap.Int("mailingID", mailing.ID), zap.String("recipient", address))
		return o.newAttempt(mailing, domainAttempt.StatusFailure, unexpectedErrorPrefix+err.Error())
	}

	mailing.Status = domainMailing.StatusStarted
	if _, err := o.mailingRepository.Update(mailing.ID, map[string]interface{}{"status": string(domainMailing.StatusStarted)}, nil); err != nil {
		return o.newAttempt(mailing, domainAttempt.StatusFailure, unexpectedErrorPrefix+err.Error())
	}

	if count > 0 {
		return o.newAttempt(mailing, domainAttempt.StatusSuccess, domainAttempt.ResponseSuccess)
	}
	return o.newAttempt(mailing, domainAttempt.StatusFailure, domainAttempt.ResponseError)
}

func (o *Orchestrator) newAttempt(mailing *domainMailing.Mailing, status domainAttempt.Status, response string) *domainAttempt.Attempt {
	return &domainAttempt.Attempt{
		Status:         status,
		ServerResponse: response,
		MailingID:      mailing.ID,
		OwnerID:        mailing.OwnerID,
	}
}

// Stop marks the mailing finished whatever its current status
func (o *Orchestrator) Stop(mailing *domainMailing.Mailing) error {
	mailing.Status = domainMailing.StatusFinished
	if _, err := o.mailingRepository.Update(mailing.ID, map[string]interface{}{"status": string(domainMailing.StatusFinished)}, nil); err != nil {
		o.Logger.Error("Error stopping mailing", zap.Error(err), zap.Int("mailingID", mailing.ID))
		return err
	}
	o.Logger.Info("Mailing stopped", zap.Int("mailingID", mailing.ID))
	return nil
}
