package permission

import (
	"errors"
	"strings"

	domainErrors "go-mailing-api/src/domain/errors"
	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"
	permissionRepo "go-mailing-api/src/infrastructure/repository/database/permission"
	userRepo "go-mailing-api/src/infrastructure/repository/database/user"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

type IPermissionUseCase interface {
	Resolve(userID int) (domainPermission.Identity, error)
	SeedManagerGroup(assignEmails []string) (int, error)
}

type PermissionUseCase struct {
	permissionRepository permissionRepo.PermissionRepositoryInterface
	userRepository       userRepo.UserRepositoryInterface
	roleCache            *ttlcache.Cache[string, domainPermission.Set]
	Logger               *logger.Logger
}

// NewPermissionUseCase builds the use case; roleCache may be nil to always read grants from storage
func NewPermissionUseCase(
	permissionRepository permissionRepo.PermissionRepositoryInterface,
	userRepository userRepo.UserRepositoryInterface,
	roleCache *ttlcache.Cache[string, domainPermission.Set],
	loggerInstance *logger.Logger,
) IPermissionUseCase {
	return &PermissionUseCase{
		permissionRepository: permissionRepository,
		userRepository:       userRepository,
		roleCache:            roleCache,
		Logger:               loggerInstance,
	}
}

// Resolve loads the account behind an access token and returns its identity with
// the grants of its current role. Unknown or blocked accounts are not authenticated.
func (p *PermissionUseCase) Resolve(userID int) (domainPermission.Identity, error) {
	found, err := p.userRepository.GetByID(userID)
	if err != nil {
		if domainErrors.IsType(err, domainErrors.NotFound) {
			return domainPermission.Identity{}, domainErrors.NewAppError(errors.New("user no longer exists"), domainErrors.NotAuthenticated)
		}
		return domainPermission.Identity{}, err
	}
	if found == nil || found.ID == 0 {
		return domainPermission.Identity{}, domainErrors.NewAppError(errors.New("user no longer exists"), domainErrors.NotAuthenticated)
	}
	if !found.IsActive {
		p.Logger.Warn("Rejected token of inactive user", zap.Int("userID", userID))
		return domainPermission.Identity{}, domainErrors.NewAppError(errors.New("user is blocked"), domainErrors.NotAuthenticated)
	}

	role := found.Role
	identity := domainPermission.Identity{UserID: found.ID, Role: role, Permissions: domainPermission.NewSet()}
	switch role {
	case domainPermission.RoleAdmin:
		identity.Permissions = domainPermission.NewSet(domainPermission.All()...)
		return identity, nil
	case domainPermission.RoleUser, "":
		return identity, nil
	}

	perms, err := p.rolePermissions(role)
	if err != nil {
		p.Logger.Error("Error resolving role permissions", zap.Error(err), zap.String("role", role))
		return identity, err
	}
	identity.Permissions = perms
	return identity, nil
}

// rolePermissions reads the grants of role, through roleCache when one is set.
// Failed loads are not cached.
func (p *PermissionUseCase) rolePermissions(role string) (domainPermission.Set, error) {
	if p.roleCache != nil {
		if item := p.roleCache.Get(role); item != nil && !item.IsExpired() {
			return item.Value(), nil
		}
	}
	grants, err := p.permissionRepository.GetByRole(role)
	if err != nil {
		return nil, err
	}
	set := domainPermission.NewSet()
	for _, g := range *grants {
		set[g.Permission] = struct{}{}
	}
	if p.roleCache != nil {
		p.roleCache.Set(role, set, ttlcache.DefaultTTL)
	}
	return set, nil
}

// SeedManagerGroup grants the manager defaults and gives the manager role to
// every account in assignEmails. It returns how many accounts were assigned.
func (p *PermissionUseCase) SeedManagerGroup(assignEmails []string) (int, error) {
	if err := p.permissionRepository.Grant(domainPermission.RoleManager, domainPermission.ManagerDefaults()...); err != nil {
		return 0, err
	}
	assigned := 0
	for _, email := range assignEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		found, err := p.userRepository.GetByEmail(email)
		if err != nil {
			return assigned, err
		}
		if found.ID == 0 {
			return assigned, domainErrors.NewAppError(errors.New("no user with email "+email), domainErrors.NotFound)
		}
		if _, err := p.userRepository.Update(found.ID, map[string]interface{}{"role": domainPermission.RoleManager}); err != nil {
			return assigned, err
		}
		assigned++
		p.Logger.Info("Manager role assigned", zap.String("email", email))
	}
	return assigned, nil
}
