package images

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"leaf.jpg", "jpg", false},
		{"leaf.JPEG", "jpeg", false},
		{"field.Png", "png", false},
		{"archive.tar.png", "png", false},
		{"notes.gif", "", true},
		{"noext", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Extension(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrUnsupportedImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 4, 123456789, time.UTC)
	name := NewName(ts, "png")

	assert.Equal(t, "20240309070504123456.png", name)
	assert.NoError(t, ValidateName(name))
}

func TestNewNameN(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 4, 123456789, time.UTC)

	assert.Equal(t, NewName(ts, "jpg"), NewNameN(ts, "jpg", 0))
	name := NewNameN(ts, "jpg", 2)
	assert.Equal(t, "20240309070504123456-2.jpg", name)
	assert.NoError(t, ValidateName(name))
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"20240309070504123456.png", "20240309070504123456.JPG", "20240309070504123456-9.png"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"../etc/passwd", "2024.png", "20240309070504123456.gif", "x20240309070504123456.png", "20240309070504123456-.png", "20240309070504123456-1234.png", ""} {
		assert.ErrorIs(t, ValidateName(bad), common.ErrInvalidImageName, bad)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("a.jpg"))
	assert.Equal(t, "image/jpeg", ContentType("a.JPEG"))
	assert.Equal(t, "image/png", ContentType("a.png"))
	assert.Equal(t, "application/octet-stream", ContentType("a.bin"))
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), "", t.TempDir(), S3Options{})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = Open(context.Background(), "ftp", t.TempDir(), S3Options{})
	assert.Error(t, err)
}
