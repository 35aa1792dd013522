package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
	"github.com/gabriel-vasile/mimetype"
)

// AllowedImageTypes are the content types accepted for question images.
var AllowedImageTypes = []string{"image/png", "image/jpeg", "image/gif"}

// ImageUpload is an accepted image ready to be stored on a draft.
type ImageUpload struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	DataURI     string `json:"-"`
}

type UploadService interface {
	// EncodeImage checks an uploaded image and encodes it as a data URI.
	// declaredType may be empty; size is the declared length or -1.
	EncodeImage(ctx context.Context, r io.Reader, declaredType string, size int64) (*ImageUpload, error)
	MaxBytes() int64
}

type uploadService struct {
	maxBytes int64
	logger   *slog.Logger
}

func NewUploadService(maxBytes int64, logger *slog.Logger) UploadService {
	return &uploadService{maxBytes: maxBytes, logger: logger}
}

func (s *uploadService) MaxBytes() int64 {
	return s.maxBytes
}

func (s *uploadService) EncodeImage(ctx context.Context, r io.Reader, declaredType string, size int64) (*ImageUpload, error) {
	if size > s.maxBytes {
		return nil, s.tooLarge(declaredType, size)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxBytes {
		return nil, s.tooLarge(declaredType, int64(len(data)))
	}
	if len(data) == 0 {
		return nil, &apperrors.UploadRejectedError{Reason: "file is empty", ContentType: declaredType}
	}

	detected := mimetype.Detect(data)
	if !isAllowedImage(detected) {
		return nil, &apperrors.UploadRejectedError{
			Reason:      fmt.Sprintf("unsupported image type %s, expected png, jpeg or gif", detected.String()),
			ContentType: detected.String(),
			Size:        int64(len(data)),
		}
	}

	if declared := normalizeContentType(declaredType); declared != "" && declared != "application/octet-stream" && !detected.Is(declared) {
		return nil, &apperrors.UploadRejectedError{
			Reason:      fmt.Sprintf("declared type %s does not match content %s", declared, detected.String()),
			ContentType: declared,
			Size:        int64(len(data)),
		}
	}

	contentType := detected.String()
	s.logger.Debug("Image accepted", "content_type", contentType, "size", len(data))

	return &ImageUpload{
		ContentType: contentType,
		Size:        int64(len(data)),
		DataURI:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

func (s *uploadService) tooLarge(contentType string, size int64) error {
	return &apperrors.UploadRejectedError{
		Reason:      fmt.Sprintf("image is larger than %d bytes", s.maxBytes),
		ContentType: contentType,
		Size:        size,
		Limit:       s.maxBytes,
	}
}

func isAllowedImage(m *mimetype.MIME) bool {
	for _, allowed := range AllowedImageTypes {
		if m.Is(allowed) {
			return true
		}
	}
	return false
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
