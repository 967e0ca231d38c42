package mailing

import (
	"time"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainMailing "go-mailing-api/src/domain/mailing"
	domainMessage "go-mailing-api/src/domain/message"
	domainRecipient "go-mailing-api/src/domain/recipient"
	logger "go-mailing-api/src/infrastructure/logger"
	messageModel "go-mailing-api/src/infrastructure/repository/database/message"
	recipientModel "go-mailing-api/src/infrastructure/repository/database/recipient"
	"go-mailing-api/src/infrastructure/repository/gormerror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Mailing struct {
	ID         int                        `gorm:"primaryKey"`
	Status     string                     `gorm:"column:status;size:20;index;default:created"`
	StartTime  *time.Time                 `gorm:"column:start_time"`
	EndTime    *time.Time                 `gorm:"column:end_time"`
	Frequency  string                     `gorm:"column:frequency;size:20;default:daily"`
	MessageID  int                        `gorm:"column:message_id;index"`
	Message    *messageModel.Message      `gorm:"foreignKey:MessageID"`
	Recipients []recipientModel.Recipient `gorm:"many2many:mailing_recipients;"`
	OwnerID    int                        `gorm:"column:owner_id;index"`
	CreatedAt  time.Time                  `gorm:"autoCreateTime:mili"`
	UpdatedAt  time.Time                  `gorm:"autoUpdateTime:mili"`
}

func (Mailing) TableName() string {
	return "mailings"
}

var ColumnsMailingMapping = map[string]string{
	"status":    "status",
	"startTime": "start_time",
	"endTime":   "end_time",
	"frequency": "frequency",
	"messageId": "message_id",
}

type MailingRepositoryInterface interface {
	GetAll(ownerID *int, filters domain.DataFilters) (*domainMailing.SearchResultMailing, error)
	GetByID(id int) (*domainMailing.Mailing, error)
	Create(mailingDomain *domainMailing.Mailing, recipientIDs []int) (*domainMailing.Mailing, error)
	Update(id int, mailingMap map[string]interface{}, recipientIDs []int) (*domainMailing.Mailing, error)
	Delete(id int) error
	GetRecipientEmails(id int) ([]string, error)
	Count(ownerID *int, status *domainMailing.Status) (int64, error)
}

type Repository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewMailingRepository(db *gorm.DB, loggerInstance *logger.Logger) MailingRepositoryInterface {
	return &Repository{DB: db, Logger: loggerInstance}
}

func (r *Repository) GetAll(ownerID *int, filters domain.DataFilters) (*domainMailing.SearchResultMailing, error) {
	filters = filters.Normalize()
	query := r.DB.Model(&Mailing{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.Logger.Error("Error counting mailings", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}

	var mailings []Mailing
	err := query.Preload("Message").Preload("Recipients").
		Order("id ASC").Offset(filters.Offset()).Limit(filters.PageSize).
		Find(&mailings).Error
	if err != nil {
		r.Logger.Error("Error listing mailings", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return domain.NewPaginatedResult(arrayToDomainMapper(&mailings), total, filters), nil
}

func (r *Repository) GetByID(id int) (*domainMailing.Mailing, error) {
	var mailing Mailing
	if err := r.DB.Preload("Message").Preload("Recipients").Where("id = ?", id).First(&mailing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("Mailing not found", zap.Int("id", id))
		} else {
			r.Logger.Error("Error getting mailing", zap.Error(err), zap.Int("id", id))
		}
		return &domainMailing.Mailing{}, gormerror.Translate(err)
	}
	return mailing.toDomainMapper(), nil
}

// Create stores the mailing and links it to the existing recipients in recipientIDs
func (r *Repository) Create(mailingDomain *domainMailing.Mailing, recipientIDs []int) (*domainMailing.Mailing, error) {
	mailingRepository := fromDomainMapper(mailingDomain)
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Message", "Recipients").Create(mailingRepository).Error; err != nil {
			return err
		}
		return replaceRecipients(tx, mailingRepository, recipientIDs)
	})
	if err != nil {
		r.Logger.Error("Error creating mailing", zap.Error(err))
		return &domainMailing.Mailing{}, gormerror.Translate(err)
	}
	r.Logger.Info("Successfully created mailing", zap.Int("id", mailingRepository.ID), zap.Int("recipients", len(recipientIDs)))
	return r.GetByID(mailingRepository.ID)
}

// Update writes the mapped columns; a nil recipientIDs leaves the recipient set unchanged
func (r *Repository) Update(id int, mailingMap map[string]interface{}, recipientIDs []int) (*domainMailing.Mailing, error) {
	var mailingObj Mailing
	mailingObj.ID = id

	updateData := gormerror.MapColumns(mailingMap, ColumnsMailingMapping)
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if len(updateData) > 0 {
			if err := tx.Model(&mailingObj).Updates(updateData).Error; err != nil {
				return err
			}
		}
		if recipientIDs == nil {
			return nil
		}
		return replaceRecipients(tx, &mailingObj, recipientIDs)
	})
	if err != nil {
		r.Logger.Error("Error updating mailing", zap.Error(err), zap.Int("id", id))
		return &domainMailing.Mailing{}, gormerror.Translate(err)
	}
	r.Logger.Info("Successfully updated mailing", zap.Int("id", id))
	return r.GetByID(id)
}

func replaceRecipients(tx *gorm.DB, mailing *Mailing, recipientIDs []int) error {
	if len(recipientIDs) == 0 {
		return tx.Model(mailing).Association("Recipients").Clear()
	}
	var recipients []recipientModel.Recipient
	if err := tx.Where("id IN ?", recipientIDs).Find(&recipients).Error; err != nil {
		return err
	}
	return tx.Model(mailing).Association("Recipients").Replace(recipients)
}

// Delete removes the mailing, its recipient links and its attempts
func (r *Repository) Delete(id int) error {
	var rowsAffected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM attempts WHERE mailing_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM mailing_recipients WHERE mailing_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Mailing{}, id)
		rowsAffected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		r.Logger.Error("Error deleting mailing", zap.Error(err), zap.Int("id", id))
		return domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	if rowsAffected == 0 {
		r.Logger.Warn("Mailing not found for deletion", zap.Int("id", id))
		return domainErrors.NewAppErrorWithType(domainErrors.NotFound)
	}
	r.Logger.Info("Successfully deleted mailing", zap.Int("id", id))
	return nil
}

// GetRecipientEmails returns the addresses linked to the mailing in recipient id order
func (r *Repository) GetRecipientEmails(id int) ([]string, error) {
	var emails []string
	err := r.DB.Table("recipients").
		Joins("JOIN mailing_recipients ON mailing_recipients.recipient_id = recipients.id").
		Where("mailing_recipients.mailing_id = ?", id).
		Order("recipients.id ASC").
		Pluck("recipients.email", &emails).Error
	if err != nil {
		r.Logger.Error("Error getting mailing recipient emails", zap.Error(err), zap.Int("id", id))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return emails, nil
}

func (r *Repository) Count(ownerID *int, status *domainMailing.Status) (int64, error) {
	query := r.DB.Model(&Mailing{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.Logger.Error("Error counting mailings", zap.Error(err))
		return 0, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return total, nil
}

func (m *Mailing) toDomainMapper() *domainMailing.Mailing {
	out := &domainMailing.Mailing{
		ID:         m.ID,
		Status:     domainMailing.Status(m.Status),
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Frequency:  domainMailing.Frequency(m.Frequency),
		MessageID:  m.MessageID,
		Recipients: make([]domainRecipient.Recipient, len(m.Recipients)),
		OwnerID:    m.OwnerID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Message != nil {
		out.Message = &domainMessage.Message{
			ID:        m.Message.ID,
			Subject:   m.Message.Subject,
			Body:      m.Message.Body,
			OwnerID:   m.Message.OwnerID,
			CreatedAt: m.Message.CreatedAt,
			UpdatedAt: m.Message.UpdatedAt,
		}
	}
	for i, rec := range m.Recipients {
		out.Recipients[i] = domainRecipient.Recipient{
			ID:        rec.ID,
			Email:     rec.Email,
			FullName:  rec.FullName,
			Comment:   rec.Comment,
			OwnerID:   rec.OwnerID,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		}
	}
	return out
}

func fromDomainMapper(m *domainMailing.Mailing) *Mailing {
	status := m.Status
	if status == "" {
		status = domainMailing.StatusCreated
	}
	return &Mailing{
		ID:        m.ID,
		Status:    string(status),
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Frequency: string(m.Frequency),
		MessageID: m.MessageID,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func arrayToDomainMapper(mailings *[]Mailing) *[]domainMailing.Mailing {
	out := make([]domainMailing.Mailing, len(*mailings))
	for i, m := range *mailings {
		out[i] = *m.toDomainMapper()
	}
	return &out
}
