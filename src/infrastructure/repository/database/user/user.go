package user

import (
	"time"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainUser "go-mailing-api/src/domain/user"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/repository/gormerror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type User struct {
	ID                  int        `gorm:"primaryKey"`
	Email               string     `gorm:"column:email;size:191;uniqueIndex"`
	FirstName           string     `gorm:"column:first_name;size:150"`
	LastName            string     `gorm:"column:last_name;size:150"`
	Avatar              string     `gorm:"column:avatar;size:255"`
	PhoneNumber         string     `gorm:"column:phone_number;size:35"`
	Area                string     `gorm:"column:area;size:100"`
	VerificationToken   string     `gorm:"column:verification_token;size:100;index"`
	ResetToken          string     `gorm:"column:reset_token;size:100;index"`
	ResetTokenExpiresAt *time.Time `gorm:"column:reset_token_expires_at"`
	Role                string     `gorm:"column:role;size:20;default:user"`
	IsActive            bool       `gorm:"column:is_active"`
	IsStaff             bool       `gorm:"column:is_staff"`
	HashPassword        string     `gorm:"column:hash_password"`
	CreatedAt           time.Time  `gorm:"autoCreateTime:mili"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime:mili"`
}

func (User) TableName() string {
	return "users"
}

var ColumnsUserMapping = map[string]string{
	"email":               "email",
	"firstName":           "first_name",
	"lastName":            "last_name",
	"avatar":              "avatar",
	"phoneNumber":         "phone_number",
	"area":                "area",
	"verificationToken":   "verification_token",
	"resetToken":          "reset_token",
	"resetTokenExpiresAt": "reset_token_expires_at",
	"role":                "role",
	"isActive":            "is_active",
	"isStaff":             "is_staff",
	"hashPassword":        "hash_password",
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	GetByID(id int) (*domainUser.User, error)
	GetByEmail(email string) (*domainUser.User, error)
	GetByVerificationToken(token string) (*domainUser.User, error)
	GetByResetToken(token string) (*domainUser.User, error)
	Create(userDomain *domainUser.User) (*domainUser.User, error)
	Update(id int, userMap map[string]interface{}) (*domainUser.User, error)
	Delete(id int) error
	ListNonStaff(filters domain.DataFilters) (*domainUser.SearchResultUser, error)
}

type Repository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewUserRepository(db *gorm.DB, loggerInstance *logger.Logger) UserRepositoryInterface {
	return &Repository{DB: db, Logger: loggerInstance}
}

func (r *Repository) GetByID(id int) (*domainUser.User, error) {
	var user User
	if err := r.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("User not found", zap.Int("id", id))
		} else {
			r.Logger.Error("Error getting user by ID", zap.Error(err), zap.Int("id", id))
		}
		return &domainUser.User{}, gormerror.Translate(err)
	}
	return user.toDomainMapper(), nil
}

// GetByEmail returns an empty user with ID 0 when no account matches
func (r *Repository) GetByEmail(email string) (*domainUser.User, error) {
	var user User
	err := r.DB.Where("email = ?", email).Limit(1).Find(&user).Error
	if err != nil {
		r.Logger.Error("Error getting user by email", zap.Error(err), zap.String("email", email))
		return &domainUser.User{}, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return user.toDomainMapper(), nil
}

func (r *Repository) GetByVerificationToken(token string) (*domainUser.User, error) {
	return r.getByToken("verification_token", token)
}

func (r *Repository) GetByResetToken(token string) (*domainUser.User, error) {
	return r.getByToken("reset_token", token)
}

func (r *Repository) getByToken(column string, token string) (*domainUser.User, error) {
	if token == "" {
		return &domainUser.User{}, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
	}
	var user User
	if err := r.DB.Where(column+" = ?", token).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("No user matches token", zap.String("column", column))
		} else {
			r.Logger.Error("Error getting user by token", zap.Error(err), zap.String("column", column))
		}
		return &domainUser.User{}, gormerror.Translate(err)
	}
	return user.toDomainMapper(), nil
}

func (r *Repository) Create(userDomain *domainUser.User) (*domainUser.User, error) {
	r.Logger.Info("Creating new user", zap.String("email", userDomain.Email))
	userRepository := fromDomainMapper(userDomain)
	if err := r.DB.Create(userRepository).Error; err != nil {
		r.Logger.Error("Error creating user", zap.Error(err), zap.String("email", userDomain.Email))
		return &domainUser.User{}, gormerror.Translate(err)
	}
	r.Logger.Info("Successfully created user", zap.String("email", userDomain.Email), zap.Int("id", userRepository.ID))
	return userRepository.toDomainMapper(), nil
}

func (r *Repository) Update(id int, userMap map[string]interface{}) (*domainUser.User, error) {
	var userObj User
	userObj.ID = id

	updateData := gormerror.MapColumns(userMap, ColumnsUserMapping)
	if len(updateData) > 0 {
		if err := r.DB.Model(&userObj).Updates(updateData).Error; err != nil {
			r.Logger.Error("Error updating user", zap.Error(err), zap.Int("id", id))
			return &domainUser.User{}, gormerror.Translate(err)
		}
	}
	if err := r.DB.Where("id = ?", id).First(&userObj).Error; err != nil {
		r.Logger.Error("Error retrieving updated user", zap.Error(err), zap.Int("id", id))
		return &domainUser.User{}, gormerror.Translate(err)
	}
	r.Logger.Info("Successfully updated user", zap.Int("id", id))
	return userObj.toDomainMapper(), nil
}

func (r *Repository) Delete(id int) error {
	tx := r.DB.Delete(&User{}, id)
	if tx.Error != nil {
		r.Logger.Error("Error deleting user", zap.Error(tx.Error), zap.Int("id", id))
		return domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	if tx.RowsAffected == 0 {
		r.Logger.Warn("User not found for deletion", zap.Int("id", id))
		return domainErrors.NewAppErrorWithType(domainErrors.NotFound)
	}
	r.Logger.Info("Successfully deleted user", zap.Int("id", id))
	return nil
}

func (r *Repository) ListNonStaff(filters domain.DataFilters) (*domainUser.SearchResultUser, error) {
	filters = filters.Normalize()
	query := r.DB.Model(&User{}).Where("is_staff = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.Logger.Error("Error counting users", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}

	var users []User
	if err := query.Order("email ASC").Offset(filters.Offset()).Limit(filters.PageSize).Find(&users).Error; err != nil {
		r.Logger.Error("Error listing users", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return domain.NewPaginatedResult(arrayToDomainMapper(&users), total, filters), nil
}

func (u *User) toDomainMapper() *domainUser.User {
	return &domainUser.User{
		ID:                  u.ID,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Avatar:              u.Avatar,
		PhoneNumber:         u.PhoneNumber,
		Area:                u.Area,
		VerificationToken:   u.VerificationToken,
		ResetToken:          u.ResetToken,
		ResetTokenExpiresAt: u.ResetTokenExpiresAt,
		Role:                u.Role,
		IsActive:            u.IsActive,
		IsStaff:             u.IsStaff,
		HashPassword:        u.HashPassword,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func fromDomainMapper(u *domainUser.User) *User {
	return &User{
		ID:                  u.ID,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Avatar:              u.Avatar,
		PhoneNumber:         u.PhoneNumber,
		Area:                u.Area,
		VerificationToken:   u.VerificationToken,
		ResetToken:          u.ResetToken,
		ResetTokenExpiresAt: u.ResetTokenExpiresAt,
		Role:                u.Role,
		IsActive:            u.IsActive,
		IsStaff:             u.IsStaff,
		HashPassword:        u.HashPassword,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func arrayToDomainMapper(users *[]User) *[]domainUser.User {
	usersDomain := make([]domainUser.User, len(*users))
	for i, user := range *users {
		usersDomain[i] = *user.toDomainMapper()
	}
	return &usersDomain
}
