package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"yatube/internal/errs"

	"github.com/google/uuid"
)

// MaxImageSize caps uploaded post images.
const MaxImageSize = 10 * 1024 * 1024

// BlobStore keeps opaque files under slash-separated keys.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Delete(ctx context.Context, key string) error
}

// DiskBlobStore stores blobs as files below Root.
type DiskBlobStore struct {
	Root string
}

func NewDiskBlobStore(root string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &DiskBlobStore{Root: root}, nil
}

func (s *DiskBlobStore) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}

func (s *DiskBlobStore) Put(ctx context.Context, key string, r io.Reader) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return err
	}
	return f.Close()
}

func (s *DiskBlobStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SaveImage validates an uploaded post image and stores it under
// posts/<uuid><ext>, returning the key.
func SaveImage(ctx context.Context, blobs BlobStore, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") || header.Size > MaxImageSize {
		return "", errs.NewValidationError("image", errs.ImageInvalid)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".img"
		}
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	key := "posts/" + uuid.NewString() + ext
	if err := blobs.Put(ctx, key, file); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}
