package careers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/toughlovemassage/portal/pkg/logging"
)

// Storage persists uploaded resumes and returns a URL for later retrieval.
type Storage interface {
	Store(ctx context.Context, filename string, contentType string, body io.Reader) (string, error)
}

// S3API is the subset of the S3 client used by S3Storage.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage stores resumes in an S3 bucket under generated keys.
type S3Storage struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

// NewS3Storage creates an S3-backed resume store. Returns nil when no bucket
// is configured.
func NewS3Storage(s3Client S3API, bucket string, logger *logging.Logger) *S3Storage {
	if s3Client == nil || bucket == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Storage{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Store uploads the resume and returns its S3 URL.
func (s *S3Storage) Store(ctx context.Context, filename string, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("resumes/%s/%s", uuid.New(), sanitizeFilename(filename))
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("careers: s3 put %s: %w", key, err)
	}
	s.logger.Info("resume stored", "bucket", s.bucket, "key", key)
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// LocalStorage writes resumes to a directory on disk, for development.
type LocalStorage struct {
	dir    string
	logger *logging.Logger
}

// NewLocalStorage creates a disk-backed resume store rooted at dir.
func NewLocalStorage(dir string, logger *logging.Logger) *LocalStorage {
	if logger == nil {
		logger = logging.Default()
	}
	return &LocalStorage{dir: dir, logger: logger}
}

// Store saves the resume under a generated name and returns its serving path.
func (s *LocalStorage) Store(ctx context.Context, filename string, contentType string, body io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("careers: create upload dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s", uuid.New(), sanitizeFilename(filename))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("careers: create resume file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("careers: write resume file: %w", err)
	}
	s.logger.Info("resume stored", "path", path)
	return "/uploads/" + name, nil
}

// sanitizeFilename strips path separators and keeps the base name only.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		name = "resume"
	}
	return name
}

var _ Storage = (*S3Storage)(nil)
var _ Storage = (*LocalStorage)(nil)
