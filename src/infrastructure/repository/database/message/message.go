package message

import (
	"time"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainMessage "go-mailing-api/src/domain/message"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/repository/gormerror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Message struct {
	ID        int       `gorm:"primaryKey"`
	Subject   string    `gorm:"column:subject;size:255"`
	Body      string    `gorm:"column:body;type:text"`
	OwnerID   *int      `gorm:"column:owner_id;index"`
	CreatedAt time.Time `gorm:"autoCreateTime:mili"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:mili"`
}

func (Message) TableName() string {
	return "messages"
}

var ColumnsMessageMapping = map[string]string{
	"subject": "subject",
	"body":    "body",
}

type MessageRepositoryInterface interface {
	GetAll(ownerID *int, filters domain.DataFilters) (*domainMessage.SearchResultMessage, error)
	GetByID(id int) (*domainMessage.Message, error)
	Create(messageDomain *domainMessage.Message) (*domainMessage.Message, error)
	Update(id int, messageMap map[string]interface{}) (*domainMessage.Message, error)
	Delete(id int) error
}

type Repository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewMessageRepository(db *gorm.DB, loggerInstance *logger.Logger) MessageRepositoryInterface {
	return &Repository{DB: db, Logger: loggerInstance}
}

func (r *Repository) GetAll(ownerID *int, filters domain.DataFilters) (*domainMessage.SearchResultMessage, error) {
	filters = filters.Normalize()
	query := r.DB.Model(&Message{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.Logger.Error("Error counting messages", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}

	var messages []Message
	if err := query.Order("id ASC").Offset(filters.Offset()).Limit(filters.PageSize).Find(&messages).Error; err != nil {
		r.Logger.Error("Error listing messages", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return domain.NewPaginatedResult(arrayToDomainMapper(&messages), total, filters), nil
}

func (r *Repository) GetByID(id int) (*domainMessage.Message, error) {
	var message Message
	if err := r.DB.Where("id = ?", id).First(&message).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("Message not found", zap.Int("id", id))
		} else {
			r.Logger.Error("Error getting message", zap.Error(err), zap.Int("id", id))
		}
		return &domainMessage.Message{}, gormerror.Translate(err)
	}
	return message.toDomainMapper(), nil
}

func (r *Repository) Create(messageDomain *domainMessage.Message) (*domainMessage.Message, error) {
	messageRepository := fromDomainMapper(messageDomain)
	if err := r.DB.Create(messageRepository).Error; err != nil {
		r.Logger.Error("Error creating message", zap.Error(err))
		return &domainMessage.Message{}, gormerror.Translate(err)
	}
	r.Logger.Info("Successfully created message", zap.Int("id", messageRepository.ID))
	return messageRepository.toDomainMapper(), nil
}

func (r *Repository) Update(id int, messageMap map[string]interface{}) (*domainMessage.Message, error) {
	var messageObj Message
	messageObj.ID = id

	updateData := gormerror.MapColumns(messageMap, ColumnsMessageMapping)
	if len(updateData) > 0 {
		if err := r.DB.Model(&messageObj).Updates(updateData).Error; err != nil {
			r.Logger.Error("Error updating message", zap.Error(err), zap.Int("id", id))
			return &domainMessage.Message{}, gormerror.Translate(err)
		}
	}
	if err := r.DB.Where("id = ?", id).First(&messageObj).Error; err != nil {
		r.Logger.Error("Error retrieving updated message", zap.Error(err), zap.Int("id", id))
		return &domainMessage.Message{}, gormerror.Translate(err)
	}
	return messageObj.toDomainMapper(), nil
}

// Delete removes the message together with the mailings that send it and their attempts
func (r *Repository) Delete(id int) error {
	var rowsAffected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		mailingIDs := tx.Table("mailings").Select("id").Where("message_id = ?", id)
		if err := tx.Exec("DELETE FROM attempts WHERE mailing_id IN (?)", mailingIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM mailing_recipients WHERE mailing_id IN (?)", mailingIDs).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM mailings WHERE message_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Message{}, id)
		rowsAffected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		r.Logger.Error("Error deleting message", zap.Error(err), zap.Int("id", id))
		return domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	if rowsAffected == 0 {
		r.Logger.Warn("Message not found for deletion", zap.Int("id", id))
		return domainErrors.NewAppErrorWithType(domainErrors.NotFound)
	}
	r.Logger.Info("Successfully deleted message", zap.Int("id", id))
	return nil
}

func (m *Message) toDomainMapper() *domainMessage.Message {
	return &domainMessage.Message{
		ID:        m.ID,
		Subject:   m.Subject,
		Body:      m.Body,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomainMapper(m *domainMessage.Message) *Message {
	return &Message{
		ID:        m.ID,
		Subject:   m.Subject,
		Body:      m.Body,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func arrayToDomainMapper(messages *[]Message) *[]domainMessage.Message {
	out := make([]domainMessage.Message, len(*messages))
	for i, m := range *messages {
		out[i] = *m.toDomainMapper()
	}
	return &out
}
