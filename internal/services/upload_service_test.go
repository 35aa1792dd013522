package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
)

func TestEncodeImage_PNG(t *testing.T) {
	svc := NewUploadService(1024, newTestLogger())

	upload, err := svc.EncodeImage(context.Background(), bytes.NewReader(pngHeader), "image/png", int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", upload.ContentType)
	assert.Equal(t, int64(len(pngHeader)), upload.Size)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader), upload.DataURI)
}

func TestEncodeImage_UndeclaredType(t *testing.T) {
	svc := NewUploadService(1024, newTestLogger())

	upload, err := svc.EncodeImage(context.Background(), bytes.NewReader(gifHeader), "", -1)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", upload.ContentType)
	assert.True(t, strings.HasPrefix(upload.DataURI, "data:image/gif;base64,"))
}

func TestEncodeImage_Rejects(t *testing.T) {
	svc := NewUploadService(64, newTestLogger())
	ctx := context.Background()

	tests := []struct {
		name     string
		data     []byte
		declared string
		size     int64
		tooLarge bool
	}{
		{"declared too large", pngHeader, "image/png", 65, true},
		{"body too large", append(append([]byte{}, pngHeader...), make([]byte, 64)...), "image/png", -1, true},
		{"not an image", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), "application/pdf", -1, false},
		{"declared type disagrees", pngHeader, "image/gif", -1, false},
		{"empty", nil, "image/png", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.EncodeImage(ctx, bytes.NewReader(tt.data), tt.declared, tt.size)
			require.Error(t, err)

			var rejected *apperrors.UploadRejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tt.tooLarge, rejected.TooLarge())
		})
	}
}

func TestNormalizeContentType(t *testing.T) {
	assert.Equal(t, "image/png", normalizeContentType("image/png; charset=binary"))
	assert.Equal(t, "", normalizeContentType(""))
	assert.Equal(t, "image/jpeg", normalizeContentType("IMAGE/JPEG"))
}
