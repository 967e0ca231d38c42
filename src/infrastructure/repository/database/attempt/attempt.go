package attempt

import (
	"time"

	"go-mailing-api/src/domain"
	domainAttempt "go-mailing-api/src/domain/attempt"
	domainErrors "go-mailing-api/src/domain/errors"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/repository/gormerror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Attempt struct {
	ID             int       `gorm:"primaryKey"`
	Status         string    `gorm:"column:status;size:20;index"`
	ServerResponse string    `gorm:"column:server_response;type:text"`
	MailingID      int       `gorm:"column:mailing_id;index"`
	OwnerID        int       `gorm:"column:owner_id;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime:mili"`
}

func (Attempt) TableName() string {
	return "attempts"
}

type AttemptRepositoryInterface interface {
	Create(attemptDomain *domainAttempt.Attempt) (*domainAttempt.Attempt, error)
	GetAll(ownerID *int, mailingID *int, filters domain.DataFilters) (*domainAttempt.SearchResultAttempt, error)
	CountByStatus(ownerID *int) (*domainAttempt.Totals, error)
}

type Repository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewAttemptRepository(db *gorm.DB, loggerInstance *logger.Logger) AttemptRepositoryInterface {
	return &Repository{DB: db, Logger: loggerInstance}
}

func (r *Repository) Create(attemptDomain *domainAttempt.Attempt) (*domainAttempt.Attempt, error) {
	attemptRepository := fromDomainMapper(attemptDomain)
	if err := r.DB.Create(attemptRepository).Error; err != nil {
		r.Logger.Error("Error recording attempt", zap.Error(err), zap.Int("mailingID", attemptDomain.MailingID))
		return &domainAttempt.Attempt{}, gormerror.Translate(err)
	}
	r.Logger.Debug("Attempt recorded",
		zap.Int("id", attemptRepository.ID),
		zap.Int("mailingID", attemptRepository.MailingID),
		zap.String("status", attemptRepository.Status))
	return attemptRepository.toDomainMapper(), nil
}

// GetAll lists attempts newest first
func (r *Repository) GetAll(ownerID *int, mailingID *int, filters domain.DataFilters) (*domainAttempt.SearchResultAttempt, error) {
	filters = filters.Normalize()
	query := r.DB.Model(&Attempt{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	if mailingID != nil {
		query = query.Where("mailing_id = ?", *mailingID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.Logger.Error("Error counting attempts", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}

	var attempts []Attempt
	if err := query.Order("created_at DESC").Order("id DESC").Offset(filters.Offset()).Limit(filters.PageSize).Find(&attempts).Error; err != nil {
		r.Logger.Error("Error listing attempts", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return domain.NewPaginatedResult(arrayToDomainMapper(&attempts), total, filters), nil
}

type statusCount struct {
	Status string
	Total  int64
}

func (r *Repository) CountByStatus(ownerID *int) (*domainAttempt.Totals, error) {
	query := r.DB.Model(&Attempt{}).Select("status, COUNT(*) AS total")
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	var rows []statusCount
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		r.Logger.Error("Error counting attempts by status", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}

	totals := &domainAttempt.Totals{}
	for _, row := range rows {
		switch domainAttempt.Status(row.Status) {
		case domainAttempt.StatusSuccess:
			totals.Sent = row.Total
		case domainAttempt.StatusFailure:
			totals.Failed = row.Total
		}
	}
	return totals, nil
}

func (a *Attempt) toDomainMapper() *domainAttempt.Attempt {
	return &domainAttempt.Attempt{
		ID:             a.ID,
		Status:         domainAttempt.Status(a.Status),
		ServerResponse: a.ServerResponse,
		MailingID:      a.MailingID,
		OwnerID:        a.OwnerID,
		CreatedAt:      a.CreatedAt,
	}
}

func fromDomainMapper(a *domainAttempt.Attempt) *Attempt {
	return &Attempt{
		ID:             a.ID,
		Status:         string(a.Status),
		ServerResponse: a.ServerResponse,
		MailingID:      a.MailingID,
		OwnerID:        a.OwnerID,
		CreatedAt:      a.CreatedAt,
	}
}

func arrayToDomainMapper(attempts *[]Attempt) *[]domainAttempt.Attempt {
	out := make([]domainAttempt.Attempt, len(*attempts))
	for i, a := range *attempts {
		out[i] = *a.toDomainMapper()
	}
	return &out
}
