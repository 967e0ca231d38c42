package recipient

import (
	"time"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainRecipient "go-mailing-api/src/domain/recipient"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/repository/gormerror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Recipient struct {
	ID        int       `gorm:"primaryKey"`
	Email     string    `gorm:"column:email;size:191;uniqueIndex"`
	FullName  string    `gorm:"column:full_name;size:150"`
	Comment   string    `gorm:"column:comment;type:text"`
	OwnerID   *int      `gorm:"column:owner_id;index"`
	CreatedAt time.Time `gorm:"autoCreateTime:mili"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:mili"`
}

func (Recipient) TableName() string {
	return "recipients"
}

var ColumnsRecipientMapping = map[string]string{
	"email":    "email",
	"fullName": "full_name",
	"comment":  "comment",
}

type RecipientRepositoryInterface interface {
	GetAll(ownerID *int, filters domain.DataFilters) (*domainRecipient.SearchResultRecipient, error)
	GetByID(id int) (*domainRecipient.Recipient, error)
	GetByIDs(ids []int) (*[]domainRecipient.Recipient, error)
	Create(recipientDomain *domainRecipient.Recipient) (*domainRecipient.Recipient, error)
	Update(id int, recipientMap map[string]interface{}) (*domainRecipient.Recipient, error)
	Delete(id int) error
	Count(ownerID *int) (int64, error)
}

type Repository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewRecipientRepository(db *gorm.DB, loggerInstance *logger.Logger) RecipientRepositoryInterface {
	return &Repository{DB: db, Logger: loggerInstance}
}

// GetAll lists recipients ordered by full name; a nil ownerID lists every owner's rows
func (r *Repository) GetAll(ownerID *int, filters domain.DataFilters) (*domainRecipient.SearchResultRecipient, error) {
	filters = filters.Normalize()
	query := r.DB.Model(&Recipient{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.Logger.Error("Error counting recipients", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}

	var recipients []Recipient
	if err := query.Order("full_name ASC").Order("id ASC").Offset(filters.Offset()).Limit(filters.PageSize).Find(&recipients).Error; err != nil {
		r.Logger.Error("Error listing recipients", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return domain.NewPaginatedResult(arrayToDomainMapper(&recipients), total, filters), nil
}

func (r *Repository) GetByID(id int) (*domainRecipient.Recipient, error) {
	var recipient Recipient
	if err := r.DB.Where("id = ?", id).First(&recipient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("Recipient not found", zap.Int("id", id))
		} else {
			r.Logger.Error("Error getting recipient", zap.Error(err), zap.Int("id", id))
		}
		return &domainRecipient.Recipient{}, gormerror.Translate(err)
	}
	return recipient.toDomainMapper(), nil
}

// GetByIDs returns the recipients that exist among ids, in id order
func (r *Repository) GetByIDs(ids []int) (*[]domainRecipient.Recipient, error) {
	var recipients []Recipient
	if len(ids) == 0 {
		return arrayToDomainMapper(&recipients), nil
	}
	if err := r.DB.Where("id IN ?", ids).Order("id ASC").Find(&recipients).Error; err != nil {
		r.Logger.Error("Error getting recipients by ids", zap.Error(err), zap.Ints("ids", ids))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return arrayToDomainMapper(&recipients), nil
}

func (r *Repository) Create(recipientDomain *domainRecipient.Recipient) (*domainRecipient.Recipient, error) {
	recipientRepository := fromDomainMapper(recipientDomain)
	if err := r.DB.Create(recipientRepository).Error; err != nil {
		r.Logger.Error("Error creating recipient", zap.Error(err), zap.String("email", recipientDomain.Email))
		return &domainRecipient.Recipient{}, gormerror.Translate(err)
	}
	r.Logger.Info("Successfully created recipient", zap.Int("id", recipientRepository.ID))
	return recipientRepository.toDomainMapper(), nil
}

func (r *Repository) Update(id int, recipientMap map[string]interface{}) (*domainRecipient.Recipient, error) {
	var recipientObj Recipient
	recipientObj.ID = id

	updateData := gormerror.MapColumns(recipientMap, ColumnsRecipientMapping)
	if len(updateData) > 0 {
		if err := r.DB.Model(&recipientObj).Updates(updateData).Error; err != nil {
			r.Logger.Error("Error updating recipient", zap.Error(err), zap.Int("id", id))
			return &domainRecipient.Recipient{}, gormerror.Translate(err)
		}
	}
	if err := r.DB.Where("id = ?", id).First(&recipientObj).Error; err != nil {
		r.Logger.Error("Error retrieving updated recipient", zap.Error(err), zap.Int("id", id))
		return &domainRecipient.Recipient{}, gormerror.Translate(err)
	}
	return recipientObj.toDomainMapper(), nil
}

// Delete removes the recipient and its mailing memberships
func (r *Repository) Delete(id int) error {
	var rowsAffected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM mailing_recipients WHERE recipient_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Recipient{}, id)
		rowsAffected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		r.Logger.Error("Error deleting recipient", zap.Error(err), zap.Int("id", id))
		return domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	if rowsAffected == 0 {
		r.Logger.Warn("Recipient not found for deletion", zap.Int("id", id))
		return domainErrors.NewAppErrorWithType(domainErrors.NotFound)
	}
	r.Logger.Info("Successfully deleted recipient", zap.Int("id", id))
	return nil
}

func (r *Repository) Count(ownerID *int) (int64, error) {
	query := r.DB.Model(&Recipient{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.Logger.Error("Error counting recipients", zap.Error(err))
		return 0, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return total, nil
}

func (r *Recipient) toDomainMapper() *domainRecipient.Recipient {
	return &domainRecipient.Recipient{
		ID:        r.ID,
		Email:     r.Email,
		FullName:  r.FullName,
		Comment:   r.Comment,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func fromDomainMapper(r *domainRecipient.Recipient) *Recipient {
	return &Recipient{
		ID:        r.ID,
		Email:     r.Email,
		FullName:  r.FullName,
		Comment:   r.Comment,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func arrayToDomainMapper(recipients *[]Recipient) *[]domainRecipient.Recipient {
	out := make([]domainRecipient.Recipient, len(*recipients))
	for i, r := range *recipients {
		out[i] = *r.toDomainMapper()
	}
	return &out
}
