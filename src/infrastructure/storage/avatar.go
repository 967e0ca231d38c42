package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	domainErrors "go-mailing-api/src/domain/errors"
	logger "go-mailing-api/src/infrastructure/logger"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

const (
	avatarDir            = "avatars"
	DefaultMaxAvatarSize = 2 << 20
)

var allowedAvatarTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type IAvatarStorage interface {
	Save(userID int, r io.Reader) (string, error)
	Remove(relPath string) error
}

// AvatarStorage keeps uploaded avatars under root/avatars
type AvatarStorage struct {
	root    string
	maxSize int64
	Logger  *logger.Logger
}

func NewAvatarStorage(root string, maxSize int64, loggerInstance *logger.Logger) *AvatarStorage {
	if maxSize <= 0 {
		maxSize = DefaultMaxAvatarSize
	}
	return &AvatarStorage{root: root, maxSize: maxSize, Logger: loggerInstance}
}

func (s *AvatarStorage) Root() string {
	return s.root
}

// Save validates that r holds an image and writes it under a random name.
// The returned path is relative to the storage root and uses forward slashes.
func (s *AvatarStorage) Save(userID int, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		s.Logger.Error("Error reading avatar upload", zap.Error(err), zap.Int("userID", userID))
		return "", domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	if int64(len(data)) > s.maxSize {
		return "", domainErrors.NewAppError(fmt.Errorf("avatar exceeds %d bytes", s.maxSize), domainErrors.ValidationError)
	}
	if len(data) == 0 || !filetype.IsImage(data) {
		return "", domainErrors.NewAppError(errors.New("avatar must be an image"), domainErrors.ValidationError)
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedAvatarTypes...) {
		return "", domainErrors.NewAppError(fmt.Errorf("unsupported avatar type %s", mime.String()), domainErrors.ValidationError)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	relPath := path.Join(avatarDir, id.String()+mime.Extension())

	fullPath, err := securejoin.SecureJoin(s.root, relPath)
	if err != nil {
		return "", domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		s.Logger.Error("Error creating avatar directory", zap.Error(err))
		return "", domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		s.Logger.Error("Error writing avatar", zap.Error(err), zap.String("path", fullPath))
		return "", domainErrors.NewAppError(err, domainErrors.UnknownError)
	}

	s.Logger.Info("Avatar stored", zap.Int("userID", userID), zap.String("path", relPath), zap.String("mime", mime.String()))
	return relPath, nil
}

// Remove deletes a previously saved avatar. Paths are resolved inside the root.
func (s *AvatarStorage) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	fullPath, err := securejoin.SecureJoin(s.root, relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.Logger.Warn("Error removing avatar", zap.Error(err), zap.String("path", fullPath))
		return err
	}
	return nil
}
