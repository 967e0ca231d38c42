package permission

import (
	domainErrors "go-mailing-api/src/domain/errors"
	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RolePermission struct {
	ID         int    `gorm:"primaryKey"`
	Role       string `gorm:"column:role;size:20;uniqueIndex:idx_role_permission"`
	Permission string `gorm:"column:permission;size:50;uniqueIndex:idx_role_permission"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type PermissionRepositoryInterface interface {
	GetByRole(role string) (*[]domainPermission.RolePermission, error)
	Grant(role string, perms ...domainPermission.Permission) error
}

type Repository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewPermissionRepository(db *gorm.DB, loggerInstance *logger.Logger) PermissionRepositoryInterface {
	return &Repository{DB: db, Logger: loggerInstance}
}

func (r *Repository) GetByRole(role string) (*[]domainPermission.RolePermission, error) {
	var grants []RolePermission
	if err := r.DB.Where("role = ?", role).Order("permission ASC").Find(&grants).Error; err != nil {
		r.Logger.Error("Error getting role permissions", zap.Error(err), zap.String("role", role))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
	}
	return arrayToDomainMapper(&grants), nil
}

// Grant stores the permissions for role; existing grants are left untouched
func (r *Repository) Grant(role string, perms ...domainPermission.Permission) error {
	for _, p := range perms {
		grant := RolePermission{Role: role, Permission: string(p)}
		if err := r.DB.Where(grant).FirstOrCreate(&grant).Error; err != nil {
			r.Logger.Error("Error granting permission", zap.Error(err), zap.String("role", role), zap.String("permission", string(p)))
			return domainErrors.NewAppErrorWithType(domainErrors.UnknownError)
		}
	}
	r.Logger.Info("Permissions granted", zap.String("role", role), zap.Int("count", len(perms)))
	return nil
}

func (rp *RolePermission) toDomainMapper() *domainPermission.RolePermission {
	return &domainPermission.RolePermission{
		ID:         rp.ID,
		Role:       rp.Role,
		Permission: domainPermission.Permission(rp.Permission),
	}
}

func arrayToDomainMapper(grants *[]RolePermission) *[]domainPermission.RolePermission {
	out := make([]domainPermission.RolePermission, len(*grants))
	for i, g := range *grants {
		out[i] = *g.toDomainMapper()
	}
	return &out
}
