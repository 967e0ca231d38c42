package permission

import (
	"errors"
	"testing"
	"time"

	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainPermission "go-mailing-api/src/domain/permission"
	domainUser "go-mailing-api/src/domain/user"
	logger "go-mailing-api/src/infrastructure/logger"

	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPermissionRepository struct {
	grants      map[string][]domainPermission.Permission
	getCalls    int
	getByRoleFn func(string) (*[]domainPermission.RolePermission, error)
}

func (m *mockPermissionRepository) GetByRole(role string) (*[]domainPermission.RolePermission, error) {
	m.getCalls++
	if m.getByRoleFn != nil {
		return m.getByRoleFn(role)
	}
	out := []domainPermission.RolePermission{}
	for _, p := range m.grants[role] {
		out = append(out, domainPermission.RolePermission{Role: role, Permission: p})
	}
	return &out, nil
}

func (m *mockPermissionRepository) Grant(role string, perms ...domainPermission.Permission) error {
	m.grants[role] = append(m.grants[role], perms...)
	return nil
}

type mockUserRepository struct {
	users map[string]*domainUser.User
}

func (m *mockUserRepository) GetByEmail(email string) (*domainUser.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return &domainUser.User{}, nil
}
func (m *mockUserRepository) Update(id int, userMap map[string]interface{}) (*domainUser.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			u.Role = userMap["role"].(string)
			return u, nil
		}
	}
	return nil, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
}
func (m *mockUserRepository) GetByID(id int) (*domainUser.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return &domainUser.User{}, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
}
func (m *mockUserRepository) GetByVerificationToken(string) (*domainUser.User, error) {
	return nil, nil
}
func (m *mockUserRepository) GetByResetToken(string) (*domainUser.User, error)  { return nil, nil }
func (m *mockUserRepository) Create(*domainUser.User) (*domainUser.User, error) { return nil, nil }
func (m *mockUserRepository) Delete(int) error                                  { return nil }
func (m *mockUserRepository) ListNonStaff(domain.DataFilters) (*domainUser.SearchResultUser, error) {
	return nil, nil
}

func setupLogger(t *testing.T) *logger.Logger {
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return loggerInstance
}

func newUsers(users ...*domainUser.User) *mockUserRepository {
	repo := &mockUserRepository{users: map[string]*domainUser.User{}}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	return repo
}

func TestResolve(t *testing.T) {
	permRepo := &mockPermissionRepository{grants: map[string][]domainPermission.Permission{
		domainPermission.RoleManager: domainPermission.ManagerDefaults(),
	}}
	users := newUsers(
		&domainUser.User{ID: 1, Email: "a@x.com", Role: domainPermission.RoleAdmin, IsActive: true},
		&domainUser.User{ID: 2, Email: "u@x.com", Role: domainPermission.RoleUser, IsActive: true},
		&domainUser.User{ID: 3, Email: "m1@x.com", Role: domainPermission.RoleManager, IsActive: true},
		&domainUser.User{ID: 4, Email: "m2@x.com", Role: domainPermission.RoleManager, IsActive: true},
	)
	roleCache := ttlcache.New[string, domainPermission.Set](ttlcache.WithTTL[string, domainPermission.Set](time.Minute))
	uc := NewPermissionUseCase(permRepo, users, roleCache, setupLogger(t))

	admin, err := uc.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, domainPermission.RoleAdmin, admin.Role)
	for _, p := range domainPermission.All() {
		assert.True(t, admin.Can(p))
	}

	user, err := uc.Resolve(2)
	require.NoError(t, err)
	assert.False(t, user.Can(domainPermission.ViewMailing))

	manager, err := uc.Resolve(3)
	require.NoError(t, err)
	assert.True(t, manager.Can(domainPermission.DisableMailing))
	assert.False(t, manager.Can(domainPermission.ViewRecipient))

	_, err = uc.Resolve(4)
	require.NoError(t, err)
	assert.Equal(t, 1, permRepo.getCalls)
	assert.Equal(t, 1, roleCache.Len())
}

func TestResolve_RoleComesFromStoredUser(t *testing.T) {
	permRepo := &mockPermissionRepository{grants: map[string][]domainPermission.Permission{
		domainPermission.RoleManager: domainPermission.ManagerDefaults(),
	}}
	stored := &domainUser.User{ID: 5, Email: "p@x.com", Role: domainPermission.RoleManager, IsActive: true}
	uc := NewPermissionUseCase(permRepo, newUsers(stored), nil, setupLogger(t))

	identity, err := uc.Resolve(5)
	require.NoError(t, err)
	assert.True(t, identity.Can(domainPermission.DisableMailing))

	stored.Role = domainPermission.RoleUser
	identity, err = uc.Resolve(5)
	require.NoError(t, err)
	assert.Equal(t, domainPermission.RoleUser, identity.Role)
	assert.False(t, identity.Can(domainPermission.DisableMailing))
}

func TestResolve_RejectsInactiveOrMissingUser(t *testing.T) {
	blocked := &domainUser.User{ID: 6, Email: "b@x.com", Role: domainPermission.RoleAdmin, IsActive: false}
	uc := NewPermissionUseCase(&mockPermissionRepository{}, newUsers(blocked), nil, setupLogger(t))

	_, err := uc.Resolve(6)
	assert.True(t, domainErrors.IsType(err, domainErrors.NotAuthenticated))

	_, err = uc.Resolve(404)
	assert.True(t, domainErrors.IsType(err, domainErrors.NotAuthenticated))
}

func TestResolve_ErrorNotCached(t *testing.T) {
	permRepo := &mockPermissionRepository{getByRoleFn: func(string) (*[]domainPermission.RolePermission, error) {
		return nil, errors.New("db down")
	}}
	users := newUsers(&domainUser.User{ID: 3, Email: "m@x.com", Role: domainPermission.RoleManager, IsActive: true})
	roleCache := ttlcache.New[string, domainPermission.Set](ttlcache.WithTTL[string, domainPermission.Set](time.Minute))
	uc := NewPermissionUseCase(permRepo, users, roleCache, setupLogger(t))

	_, err := uc.Resolve(3)
	assert.Error(t, err)
	_, err = uc.Resolve(3)
	assert.Error(t, err)
	assert.Equal(t, 2, permRepo.getCalls)
	assert.Equal(t, 0, roleCache.Len())
}

func TestSeedManagerGroup(t *testing.T) {
	permRepo := &mockPermissionRepository{grants: map[string][]domainPermission.Permission{}}
	users := &mockUserRepository{users: map[string]*domainUser.User{"m@x.com": {ID: 7, Email: "m@x.com", Role: domainPermission.RoleUser}}}
	uc := NewPermissionUseCase(permRepo, users, nil, setupLogger(t))

	assigned, err := uc.SeedManagerGroup([]string{"M@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, assigned)
	assert.Equal(t, domainPermission.RoleManager, users.users["m@x.com"].Role)
	assert.ElementsMatch(t, domainPermission.ManagerDefaults(), permRepo.grants[domainPermission.RoleManager])

	_, err = uc.SeedManagerGroup([]string{"ghost@x.com"})
	assert.True(t, domainErrors.IsType(err, domainErrors.NotFound))
}
