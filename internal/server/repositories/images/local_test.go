package images

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleName = "20240309070504123456.png"

func TestLocalStore_PutGetDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "forum_images")
	s, err := NewLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleName, strings.NewReader("PNGDATA"), 7, "image/png"))
	assert.FileExists(t, filepath.Join(dir, sampleName))

	img, err := s.Get(ctx, sampleName)
	require.NoError(t, err)
	defer img.Body.Close()
	assert.Empty(t, img.RedirectURL)
	assert.Equal(t, "image/png", img.ContentType)

	b, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(b))

	require.NoError(t, s.Delete(ctx, sampleName))
	_, err = s.Get(ctx, sampleName)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, s.Delete(ctx, sampleName), "deleting a missing image is not an error")
}

func TestLocalStore_PutDoesNotOverwrite(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleName, strings.NewReader("one"), 3, "image/png"))
	assert.ErrorIs(t, s.Put(ctx, sampleName, strings.NewReader("two"), 3, "image/png"), ErrNameTaken)

	b, err := os.ReadFile(filepath.Join(s.Dir(), sampleName))
	require.NoError(t, err)
	assert.Equal(t, "one", string(b))
}

func TestLocalStore_RejectsBadNames(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, s.Put(ctx, "../x.png", strings.NewReader(""), 0, ""), common.ErrInvalidImageName)
	_, err = s.Get(ctx, "../../users.json")
	assert.ErrorIs(t, err, common.ErrInvalidImageName)
	assert.ErrorIs(t, s.Delete(ctx, "users.json"), common.ErrInvalidImageName)
}
