package recipient

import (
	"strings"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainPermission "go-mailing-api/src/domain/permission"
	domainRecipient "go-mailing-api/src/domain/recipient"
	logger "go-mailing-api/src/infrastructure/logger"
	recipientRepo "go-mailing-api/src/infrastructure/repository/database/recipient"

	"go.uber.org/zap"
)

type IRecipientUseCase interface {
	GetAll(identity domainPermission.Identity, filters domain.DataFilters) (*domainRecipient.SearchResultRecipient, error)
	GetByID(identity domainPermission.Identity, id int) (*domainRecipient.Recipient, error)
	Create(identity domainPermission.Identity, recipient *domainRecipient.Recipient) (*domainRecipient.Recipient, error)
	Update(identity domainPermission.Identity, id int, recipientMap map[string]interface{}) (*domainRecipient.Recipient, error)
	Delete(identity domainPermission.Identity, id int) error
}

type RecipientUseCase struct {
	recipientRepository recipientRepo.RecipientRepositoryInterface
	Logger              *logger.Logger
}

func NewRecipientUseCase(recipientRepository recipientRepo.RecipientRepositoryInterface, loggerInstance *logger.Logger) IRecipientUseCase {
	return &RecipientUseCase{
		recipientRepository: recipientRepository,
		Logger:              loggerInstance,
	}
}

func (r *RecipientUseCase) GetAll(identity domainPermission.Identity, filters domain.DataFilters) (*domainRecipient.SearchResultRecipient, error) {
	return r.recipientRepository.GetAll(identity.OwnerScope(domainPermission.ViewRecipient), filters)
}

func (r *RecipientUseCase) GetByID(identity domainPermission.Identity, id int) (*domainRecipient.Recipient, error) {
	found, err := r.recipientRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccess(found.OwnerID, domainPermission.ViewRecipient) {
		r.Logger.Warn("Recipient access denied", zap.Int("id", id), zap.Int("userID", identity.UserID))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
	}
	return found, nil
}

func (r *RecipientUseCase) Create(identity domainPermission.Identity, recipient *domainRecipient.Recipient) (*domainRecipient.Recipient, error) {
	owner := identity.UserID
	recipient.OwnerID = &owner
	recipient.Email = strings.ToLower(strings.TrimSpace(recipient.Email))
	return r.recipientRepository.Create(recipient)
}

func (r *RecipientUseCase) Update(identity domainPermission.Identity, id int, recipientMap map[string]interface{}) (*domainRecipient.Recipient, error) {
	if _, err := r.GetByID(identity, id); err != nil {
		return nil, err
	}
	if email, ok := recipientMap["email"].(string); ok {
		recipientMap["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	return r.recipientRepository.Update(id, recipientMap)
}

func (r *RecipientUseCase) Delete(identity domainPermission.Identity, id int) error {
	if _, err := r.GetByID(identity, id); err != nil {
		return err
	}
	return r.recipientRepository.Delete(id)
}
