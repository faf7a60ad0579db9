/*
Package storage handles Haven's image objects (user avatars, character gallery
images) on S3-compatible storage. Clients upload and fetch directly via
presigned URLs; the backend never proxies file bytes.
*/
package storage

import (
	"context"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
)

// ServiceConfig holds the connection settings for the storage backend.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

const (
	// MaxImageBytes caps avatar and gallery uploads.
	MaxImageBytes = 10 << 20

	// UploadURLTTL is how long a presigned upload URL stays valid.
	UploadURLTTL = 15 * time.Minute

	// DownloadURLTTL is how long a presigned download URL stays valid.
	DownloadURLTTL = time.Hour
)

// allowedImageTypes are the MIME types accepted for avatar and gallery uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateImageUpload rejects uploads that are not images or exceed the size cap
// before any presigned URL is issued.
func ValidateImageUpload(mimeType string, fileSize int64) *errs.CustomError {
	if !allowedImageTypes[mimeType] {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}
	if fileSize <= 0 || fileSize > MaxImageBytes {
		return errs.NewError(errs.ErrFileSizeTooLarge, MaxImageBytes>>20)
	}
	return nil
}

// Service is the file storage surface the handlers depend on.
type Service interface {
	// PresignUpload generates a pre-signed URL for uploading a file.
	PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error)

	// PresignDownload generates a pre-signed URL for downloading a file.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the file specified by the given key.
	Delete(ctx context.Context, key string) error

	// GetObjectMetadata retrieves the object's metadata.
	GetObjectMetadata(ctx context.Context, key string) (map[string]string, error)
}

// NewService initializes the S3-backed storage service.
func NewService(cfg ServiceConfig) (Service, error) {
	return newS3Client(cfg)
}
