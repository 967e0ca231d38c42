package mailing

import (
	"context"
	"errors"
	"fmt"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainMailing "go-mailing-api/src/domain/mailing"
	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"
	mailingRepo "go-mailing-api/src/infrastructure/repository/database/mailing"
	messageRepo "go-mailing-api/src/infrastructure/repository/database/message"
	recipientRepo "go-mailing-api/src/infrastructure/repository/database/recipient"

	"go.uber.org/zap"
)

// MailingInput carries the editable fields of a mailing. Nil fields are left unchanged on update.
type MailingInput struct {
	MessageID    *int
	RecipientIDs []int
	Frequency    *domainMailing.Frequency
}

type IMailingUseCase interface {
	GetAll(identity domainPermission.Identity, filters domain.DataFilters) (*domainMailing.SearchResultMailing, error)
	GetByID(identity domainPermission.Identity, id int) (*domainMailing.Mailing, error)
	Create(identity domainPermission.Identity, input MailingInput) (*domainMailing.Mailing, error)
	Update(identity domainPermission.Identity, id int, input MailingInput) (*domainMailing.Mailing, error)
	Delete(identity domainPermission.Identity, id int) error
	Launch(ctx context.Context, identity domainPermission.Identity, id int) (*domainMailing.Mailing, error)
	Stop(identity domainPermission.Identity, id int) (*domainMailing.Mailing, error)
	Stats(identity domainPermission.Identity) (*domainMailing.Stats, error)
	Trigger(ctx context.Context, id int, status domainMailing.Status, frequency domainMailing.Frequency) (*domainMailing.Mailing, error)
}

type MailingUseCase struct {
	mailingRepository   mailingRepo.MailingRepositoryInterface
	messageRepository   messageRepo.MessageRepositoryInterface
	recipientRepository recipientRepo.RecipientRepositoryInterface
	orchestrator        IOrchestrator
	Logger              *logger.Logger
}

func NewMailingUseCase(
	mailingRepository mailingRepo.MailingRepositoryInterface,
	messageRepository messageRepo.MessageRepositoryInterface,
	recipientRepository recipientRepo.RecipientRepositoryInterface,
	orchestrator IOrchestrator,
	loggerInstance *logger.Logger,
) IMailingUseCase {
	return &MailingUseCase{
		mailingRepository:   mailingRepository,
		messageRepository:   messageRepository,
		recipientRepository: recipientRepository,
		orchestrator:        orchestrator,
		Logger:              loggerInstance,
	}
}

func validationError(format string, args ...interface{}) error {
	return domainErrors.NewAppError(fmt.Errorf(format, args...), domainErrors.ValidationError)
}

func (m *MailingUseCase) GetAll(identity domainPermission.Identity, filters domain.DataFilters) (*domainMailing.SearchResultMailing, error) {
	return m.mailingRepository.GetAll(identity.OwnerScope(domainPermission.ViewMailing), filters)
}

func (m *MailingUseCase) GetByID(identity domainPermission.Identity, id int) (*domainMailing.Mailing, error) {
	found, err := m.mailingRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	owner := found.OwnerID
	if !identity.CanAccess(&owner, domainPermission.ViewMailing) {
		m.Logger.Warn("Mailing access denied", zap.Int("id", id), zap.Int("userID", identity.UserID))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
	}
	return found, nil
}

// validateMessage checks that the message exists and belongs to ownerID
func (m *MailingUseCase) validateMessage(ownerID int, messageID int) error {
	msg, err := m.messageRepository.GetByID(messageID)
	if err != nil {
		if domainErrors.IsType(err, domainErrors.NotFound) {
			return validationError("message %d does not exist", messageID)
		}
		return err
	}
	if msg.OwnerID == nil || *msg.OwnerID != ownerID {
		return validationError("message %d does not belong to the mailing owner", messageID)
	}
	return nil
}

// validateRecipients checks that the set is non-empty and every recipient belongs to ownerID
func (m *MailingUseCase) validateRecipients(ownerID int, recipientIDs []int) error {
	if len(recipientIDs) == 0 {
		return validationError("at least one recipient is required")
	}
	found, err := m.recipientRepository.GetByIDs(recipientIDs)
	if err != nil {
		return err
	}
	owned := make(map[int]bool, len(*found))
	for _, r := range *found {
		owned[r.ID] = r.OwnerID != nil && *r.OwnerID == ownerID
	}
	for _, id := range recipientIDs {
		if !owned[id] {
			return validationError("recipient %d does not belong to the mailing owner", id)
		}
	}
	return nil
}

func (m *MailingUseCase) Create(identity domainPermission.Identity, input MailingInput) (*domainMailing.Mailing, error) {
	if input.MessageID == nil {
		return nil, validationError("message is required")
	}
	frequency := domainMailing.FrequencyDaily
	if input.Frequency != nil {
		frequency = *input.Frequency
	}
	if !frequency.IsValid() {
		return nil, validationError("unknown frequency %q", frequency)
	}
	if err := m.validateMessage(identity.UserID, *input.MessageID); err != nil {
		return nil, err
	}
	if err := m.validateRecipients(identity.UserID, input.RecipientIDs); err != nil {
		return nil, err
	}

	created, err := m.mailingRepository.Create(&domainMailing.Mailing{
		Status:    domainMailing.StatusCreated,
		Frequency: frequency,
		MessageID: *input.MessageID,
		OwnerID:   identity.UserID,
	}, input.RecipientIDs)
	if err != nil {
		return nil, err
	}
	m.Logger.Info("Mailing created", zap.Int("id", created.ID), zap.Int("ownerID", created.OwnerID))
	return created, nil
}

func (m *MailingUseCase) Update(identity domainPermission.Identity, id int, input MailingInput) (*domainMailing.Mailing, error) {
	current, err := m.GetByID(identity, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Frequency != nil {
		if !input.Frequency.IsValid() {
			return nil, validationError("unknown frequency %q", *input.Frequency)
		}
		updates["frequency"] = string(*input.Frequency)
	}
	if input.MessageID != nil {
		if err := m.validateMessage(current.OwnerID, *input.MessageID); err != nil {
			return nil, err
		}
		updates["messageId"] = *input.MessageID
	}
	if input.RecipientIDs != nil {
		if err := m.validateRecipients(current.OwnerID, input.RecipientIDs); err != nil {
			return nil, err
		}
	}
	return m.mailingRepository.Update(id, updates, input.RecipientIDs)
}

func (m *MailingUseCase) Delete(identity domainPermission.Identity, id int) error {
	if _, err := m.GetByID(identity, id); err != nil {
		return err
	}
	return m.mailingRepository.Delete(id)
}

func canStop(identity domainPermission.Identity, mailing *domainMailing.Mailing) bool {
	return identity.UserID == mailing.OwnerID || identity.Can(domainPermission.DisableMailing)
}

// Launch starts a created mailing or stops a started one
func (m *MailingUseCase) Launch(ctx context.Context, identity domainPermission.Identity, id int) (*domainMailing.Mailing, error) {
	mailing, err := m.GetByID(identity, id)
	if err != nil {
		return nil, err
	}

	switch mailing.Status {
	case domainMailing.StatusCreated:
		if err := m.orchestrator.Start(ctx, mailing); err != nil {
			return nil, err
		}
	case domainMailing.StatusStarted:
		if !canStop(identity, mailing) {
			return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
		}
		if err := m.orchestrator.Stop(mailing); err != nil {
			return nil, err
		}
	default:
		return nil, domainErrors.NewAppError(errors.New("mailing is already finished"), domainErrors.ResourceAlreadyExists)
	}
	return m.mailingRepository.GetByID(id)
}

func (m *MailingUseCase) Stop(identity domainPermission.Identity, id int) (*domainMailing.Mailing, error) {
	mailing, err := m.mailingRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !canStop(identity, mailing) {
		m.Logger.Warn("Mailing stop denied", zap.Int("id", id), zap.Int("userID", identity.UserID))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
	}
	if err := m.orchestrator.Stop(mailing); err != nil {
		return nil, err
	}
	return m.mailingRepository.GetByID(id)
}

// Stats counts mailings, started mailings and recipients within the caller's scope
func (m *MailingUseCase) Stats(identity domainPermission.Identity) (*domainMailing.Stats, error) {
	scope := identity.OwnerScope(domainPermission.ViewMailing)
	started := domainMailing.StatusStarted

	total, err := m.mailingRepository.Count(scope, nil)
	if err != nil {
		return nil, err
	}
	active, err := m.mailingRepository.Count(scope, &started)
	if err != nil {
		return nil, err
	}
	recipients, err := m.recipientRepository.Count(scope)
	if err != nil {
		return nil, err
	}
	return &domainMailing.Stats{
		CountMailing:          total,
		CountActiveMailing:    active,
		CountUniqueRecipients: recipients,
	}, nil
}

// Trigger overwrites the status and frequency of a mailing and runs it, for operator use
func (m *MailingUseCase) Trigger(ctx context.Context, id int, status domainMailing.Status, frequency domainMailing.Frequency) (*domainMailing.Mailing, error) {
	if !status.IsValid() {
		return nil, validationError("unknown status %q", status)
	}
	if !frequency.IsValid() {
		return nil, validationError("unknown frequency %q", frequency)
	}
	if _, err := m.mailingRepository.Update(id, map[string]interface{}{
		"status":    string(status),
		"frequency": string(frequency),
	}, nil); err != nil {
		return nil, err
	}
	mailing, err := m.mailingRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := m.orchestrator.Start(ctx, mailing); err != nil {
		return nil, err
	}
	m.Logger.Info("Mailing triggered", zap.Int("id", id))
	return m.mailingRepository.GetByID(id)
}
