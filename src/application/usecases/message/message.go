package message

import (
	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainMessage "go-mailing-api/src/domain/message"
	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"
	messageRepo "go-mailing-api/src/infrastructure/repository/database/message"

	"go.uber.org/zap"
)

type IMessageUseCase interface {
	GetAll(identity domainPermission.Identity, filters domain.DataFilters) (*domainMessage.SearchResultMessage, error)
	GetByID(identity domainPermission.Identity, id int) (*domainMessage.Message, error)
	Create(identity domainPermission.Identity, message *domainMessage.Message) (*domainMessage.Message, error)
	Update(identity domainPermission.Identity, id int, messageMap map[string]interface{}) (*domainMessage.Message, error)
	Delete(identity domainPermission.Identity, id int) error
}

type MessageUseCase struct {
	messageRepository messageRepo.MessageRepositoryInterface
	Logger            *logger.Logger
}

func NewMessageUseCase(messageRepository messageRepo.MessageRepositoryInterface, loggerInstance *logger.Logger) IMessageUseCase {
	return &MessageUseCase{
		messageRepository: messageRepository,
		Logger:            loggerInstance,
	}
}

func (m *MessageUseCase) GetAll(identity domainPermission.Identity, filters domain.DataFilters) (*domainMessage.SearchResultMessage, error) {
	return m.messageRepository.GetAll(identity.OwnerScope(domainPermission.ViewMessage), filters)
}

func (m *MessageUseCase) GetByID(identity domainPermission.Identity, id int) (*domainMessage.Message, error) {
	found, err := m.messageRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccess(found.OwnerID, domainPermission.ViewMessage) {
		m.Logger.Warn("Message access denied", zap.Int("id", id), zap.Int("userID", identity.UserID))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
	}
	return found, nil
}

func (m *MessageUseCase) Create(identity domainPermission.Identity, message *domainMessage.Message) (*domainMessage.Message, error) {
	owner := identity.UserID
	message.OwnerID = &owner
	return m.messageRepository.Create(message)
}

func (m *MessageUseCase) Update(identity domainPermission.Identity, id int, messageMap map[string]interface{}) (*domainMessage.Message, error) {
	if _, err := m.GetByID(identity, id); err != nil {
		return nil, err
	}
	return m.messageRepository.Update(id, messageMap)
}

// Delete removes the message; mailings that send it are removed with it
func (m *MessageUseCase) Delete(identity domainPermission.Identity, id int) error {
	if _, err := m.GetByID(identity, id); err != nil {
		return err
	}
	return m.messageRepository.Delete(id)
}
