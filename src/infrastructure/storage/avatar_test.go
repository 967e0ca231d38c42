package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	domainErrors "go-mailing-api/src/domain/errors"
	logger "go-mailing-api/src/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLogger(t *testing.T) *logger.Logger {
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return loggerInstance
}

func pngBytes(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAvatarStorage_SavePNG(t *testing.T) {
	root := t.TempDir()
	store := NewAvatarStorage(root, 0, setupLogger(t))

	relPath, err := store.Save(1, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "avatars/"))
	assert.True(t, strings.HasSuffix(relPath, ".png"))

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(relPath)))
	assert.NoError(t, err)

	require.NoError(t, store.Remove(relPath))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(relPath)))
	assert.True(t, os.IsNotExist(err))
}

func TestAvatarStorage_RejectsNonImage(t *testing.T) {
	store := NewAvatarStorage(t.TempDir(), 0, setupLogger(t))
	_, err := store.Save(1, strings.NewReader("#!/bin/sh\necho hi\n"))
	assert.True(t, domainErrors.IsType(err, domainErrors.ValidationError))
}

func TestAvatarStorage_RejectsOversized(t *testing.T) {
	store := NewAvatarStorage(t.TempDir(), 16, setupLogger(t))
	_, err := store.Save(1, bytes.NewReader(pngBytes(t)))
	assert.True(t, domainErrors.IsType(err, domainErrors.ValidationError))
}

func TestAvatarStorage_RemoveStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "media")
	require.NoError(t, os.MkdirAll(root, 0o755))
	outside := filepath.Join(parent, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	store := NewAvatarStorage(root, 0, setupLogger(t))
	require.NoError(t, store.Remove("../keep.txt"))

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
