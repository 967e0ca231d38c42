package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go-mailing-api/src/application/usecases/auth"
	"go-mailing-api/src/domain"
	domainErrors "go-mailing-api/src/domain/errors"
	domainPermission "go-mailing-api/src/domain/permission"
	domainUser "go-mailing-api/src/domain/user"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/mailer"
	userRepo "go-mailing-api/src/infrastructure/repository/database/user"
	"go-mailing-api/src/infrastructure/storage"

	"go.uber.org/zap"
)

const (
	verificationSubject = "Account confirmation"
	resetSubject        = "Password recovery"
	tokenBytes          = 16

	// DefaultResetTokenTTL is how long a password reset link stays valid
	DefaultResetTokenTTL = 72 * time.Hour
)

type IUserUseCase interface {
	Register(ctx context.Context, input *domainUser.RegisterInput, host string) (*domainUser.User, error)
	Verify(token string) (*domainUser.User, error)
	RequestPasswordReset(ctx context.Context, email string, host string) error
	ResetPassword(token string, password string) error
	GetByID(identity domainPermission.Identity, id int) (*domainUser.User, error)
	UpdateProfile(identity domainPermission.Identity, id int, userMap map[string]interface{}) (*domainUser.User, error)
	UploadAvatar(identity domainPermission.Identity, id int, r io.Reader) (*domainUser.User, error)
	SetActive(identity domainPermission.Identity, id int, active bool) (*domainUser.User, error)
	ListCustomers(identity domainPermission.Identity, filters domain.DataFilters) (*domainUser.SearchResultUser, error)
	CreateAdmin(email, firstName, lastName, password string) (*domainUser.User, error)
}

type UserUseCase struct {
	userRepository userRepo.UserRepositoryInterface
	transport      mailer.Transport
	from           string
	avatars        storage.IAvatarStorage
	resetTokenTTL  time.Duration
	newToken       func() (string, error)
	now            func() time.Time
	Logger         *logger.Logger
}

func NewUserUseCase(
	userRepository userRepo.UserRepositoryInterface,
	transport mailer.Transport,
	from string,
	avatars storage.IAvatarStorage,
	resetTokenTTL time.Duration,
	loggerInstance *logger.Logger,
) IUserUseCase {
	if resetTokenTTL <= 0 {
		resetTokenTTL = DefaultResetTokenTTL
	}
	return &UserUseCase{
		userRepository: userRepository,
		transport:      transport,
		from:           from,
		avatars:        avatars,
		resetTokenTTL:  resetTokenTTL,
		newToken:       NewURLSafeToken,
		now:            time.Now,
		Logger:         loggerInstance,
	}
}

// NewURLSafeToken returns 16 random bytes encoded as unpadded URL-safe base64
func NewURLSafeToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// VerificationURL is the link mailed after registration
func VerificationURL(host, token string) string {
	return fmt.Sprintf("http://%s/v1/users/verify/%s/", host, token)
}

// ResetURL is the link mailed for a password reset
func ResetURL(host, token string) string {
	return fmt.Sprintf("http://%s/v1/users/reset/%s/", host, token)
}

// Register creates an inactive account and mails its verification link.
// A failed email is logged and does not undo the registration.
func (u *UserUseCase) Register(ctx context.Context, input *domainUser.RegisterInput, host string) (*domainUser.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	u.Logger.Info("Registering user", zap.String("email", email))

	existing, err := u.userRepository.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing.ID != 0 {
		u.Logger.Warn("Registration rejected: email already in use", zap.String("email", email))
		return nil, domainErrors.NewAppError(errors.New("user with this email already exists"), domainErrors.ResourceAlreadyExists)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		u.Logger.Error("Error hashing password", zap.Error(err))
		return nil, domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	token, err := u.newToken()
	if err != nil {
		u.Logger.Error("Error generating verification token", zap.Error(err))
		return nil, domainErrors.NewAppError(err, domainErrors.UnknownError)
	}

	created, err := u.userRepository.Create(&domainUser.User{
		Email:             email,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		PhoneNumber:       input.PhoneNumber,
		Area:              input.Area,
		VerificationToken: token,
		Role:              domainPermission.RoleUser,
		IsActive:          false,
		HashPassword:      hash,
	})
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Please follow the link to confirm your account: %s", VerificationURL(host, token))
	if _, err := u.transport.Send(ctx, verificationSubject, body, u.from, []string{created.Email}); err != nil {
		u.Logger.Error("Error sending verification email", zap.Error(err), zap.Int("userID", created.ID))
	}

	u.Logger.Info("User registered", zap.Int("userID", created.ID))
	return created, nil
}

// Verify activates the account holding token. The token stays on the record.
func (u *UserUseCase) Verify(token string) (*domainUser.User, error) {
	found, err := u.userRepository.GetByVerificationToken(token)
	if err != nil {
		return nil, err
	}
	if found.IsActive {
		return found, nil
	}
	activated, err := u.userRepository.Update(found.ID, map[string]interface{}{"isActive": true})
	if err != nil {
		return nil, err
	}
	u.Logger.Info("User verified", zap.Int("userID", activated.ID))
	return activated, nil
}

// RequestPasswordReset mails a reset link. Unknown emails are ignored so the
// endpoint does not reveal which addresses are registered.
func (u *UserUseCase) RequestPasswordReset(ctx context.Context, email string, host string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	found, err := u.userRepository.GetByEmail(email)
	if err != nil {
		return err
	}
	if found.ID == 0 {
		u.Logger.Info("Password reset requested for unknown email", zap.String("email", email))
		return nil
	}

	token, err := u.newToken()
	if err != nil {
		return domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	expiresAt := u.now().Add(u.resetTokenTTL)
	if _, err := u.userRepository.Update(found.ID, map[string]interface{}{"resetToken": token, "resetTokenExpiresAt": expiresAt}); err != nil {
		return err
	}

	body := fmt.Sprintf("Please follow the link to recover your password: %s", ResetURL(host, token))
	if _, err := u.transport.Send(ctx, resetSubject, body, u.from, []string{found.Email}); err != nil {
		u.Logger.Error("Error sending password reset email", zap.Error(err), zap.Int("userID", found.ID))
		return domainErrors.NewAppError(errors.New("could not send password reset email"), domainErrors.UnknownError)
	}
	u.Logger.Info("Password reset link sent", zap.Int("userID", found.ID))
	return nil
}

// ResetPassword sets a new password for the holder of a pending reset token.
// Expired tokens are cleared and rejected.
func (u *UserUseCase) ResetPassword(token string, password string) error {
	found, err := u.userRepository.GetByResetToken(token)
	if err != nil {
		return err
	}
	if found.ResetTokenExpiresAt == nil || !u.now().Before(*found.ResetTokenExpiresAt) {
		u.Logger.Warn("Rejected expired password reset token", zap.Int("userID", found.ID))
		if _, err := u.userRepository.Update(found.ID, map[string]interface{}{"resetToken": "", "resetTokenExpiresAt": nil}); err != nil {
			return err
		}
		return domainErrors.NewAppError(errors.New("password reset link has expired"), domainErrors.ValidationError)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	if _, err := u.userRepository.Update(found.ID, map[string]interface{}{"hashPassword": hash, "resetToken": "", "resetTokenExpiresAt": nil}); err != nil {
		return err
	}
	u.Logger.Info("Password reset", zap.Int("userID", found.ID))
	return nil
}

func (u *UserUseCase) GetByID(identity domainPermission.Identity, id int) (*domainUser.User, error) {
	return u.userRepository.GetByID(id)
}

func (u *UserUseCase) UpdateProfile(identity domainPermission.Identity, id int, userMap map[string]interface{}) (*domainUser.User, error) {
	if identity.UserID != id {
		u.Logger.Warn("Profile update rejected", zap.Int("userID", identity.UserID), zap.Int("targetID", id))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
	}
	allowed := map[string]interface{}{}
	for _, key := range []string{"email", "firstName", "lastName", "phoneNumber", "area"} {
		if v, ok := userMap[key]; ok {
			allowed[key] = v
		}
	}
	if email, ok := allowed["email"].(string); ok {
		allowed["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	return u.userRepository.Update(id, allowed)
}

// UploadAvatar stores a new avatar for the caller and removes the previous file
func (u *UserUseCase) UploadAvatar(identity domainPermission.Identity, id int, r io.Reader) (*domainUser.User, error) {
	if identity.UserID != id {
		return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
	}
	current, err := u.userRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	relPath, err := u.avatars.Save(id, r)
	if err != nil {
		return nil, err
	}
	updated, err := u.userRepository.Update(id, map[string]interface{}{"avatar": relPath})
	if err != nil {
		_ = u.avatars.Remove(relPath)
		return nil, err
	}
	if current.Avatar != "" {
		if err := u.avatars.Remove(current.Avatar); err != nil {
			u.Logger.Warn("Error removing previous avatar", zap.Error(err), zap.String("path", current.Avatar))
		}
	}
	return updated, nil
}

// SetActive blocks or unblocks an account
func (u *UserUseCase) SetActive(identity domainPermission.Identity, id int, active bool) (*domainUser.User, error) {
	if !identity.Can(domainPermission.BlockUser) {
		return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
	}
	updated, err := u.userRepository.Update(id, map[string]interface{}{"isActive": active})
	if err != nil {
		return nil, err
	}
	u.Logger.Info("User active flag changed", zap.Int("userID", id), zap.Bool("active", active), zap.Int("by", identity.UserID))
	return updated, nil
}

// ListCustomers lists accounts that are not staff
func (u *UserUseCase) ListCustomers(identity domainPermission.Identity, filters domain.DataFilters) (*domainUser.SearchResultUser, error) {
	if !identity.Can(domainPermission.ViewUserList) {
		return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
	}
	return u.userRepository.ListNonStaff(filters)
}

// CreateAdmin creates an active staff account holding the admin role
func (u *UserUseCase) CreateAdmin(email, firstName, lastName, password string) (*domainUser.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if password == "" {
		return nil, domainErrors.NewAppError(errors.New("password is required"), domainErrors.ValidationError)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	created, err := u.userRepository.Create(&domainUser.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         domainPermission.RoleAdmin,
		IsActive:     true,
		IsStaff:      true,
		HashPassword: hash,
	})
	if err != nil {
		return nil, err
	}
	u.Logger.Info("Admin created", zap.String("email", email), zap.Int("userID", created.ID))
	return created, nil
}
