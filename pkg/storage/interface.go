package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidKey      = errors.New("invalid object key")
	ErrUnknownProvider = errors.New("unknown storage provider")
)

// Provider stores blobs under slash-separated keys and serves them from a
// public URL.
type Provider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
	FileExists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
	Close() error
}

type UploadRequest struct {
	Key          string            `json:"key"`
	Reader       io.Reader         `json:"-"`
	ContentType  string            `json:"content_type"`
	Size         int64             `json:"size"`
	Metadata     map[string]string `json:"metadata"`
	CacheControl string            `json:"cache_control"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	ETag string `json:"etag,omitempty"`
}
