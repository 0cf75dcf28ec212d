package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
	ProviderGCS   = "gcs"
)

type Options struct {
	Provider string

	LocalPath string
	LocalURL  string

	S3Region    string
	S3Bucket    string
	S3CDNDomain string

	GCSBucket          string
	GCSCredentialsFile string
	GCSCDNDomain       string
}

// New builds the provider selected by opts.Provider.
func New(ctx context.Context, opts Options) (Provider, error) {
	var (
		provider Provider
		err      error
	)

	switch opts.Provider {
	case "", ProviderLocal:
		provider, err = NewLocalStorage(opts.LocalPath, opts.LocalURL)
	case ProviderS3:
		provider, err = NewAWSS3Storage(ctx, opts.S3Region, opts.S3Bucket, opts.S3CDNDomain)
	case ProviderGCS:
		provider, err = NewGCPStorage(ctx, opts.GCSBucket, opts.GCSCredentialsFile, opts.GCSCDNDomain)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}

	if err != nil {
		return nil, err
	}
	return provider, nil
}

// cleanKey rejects absolute keys and keys that climb out of the root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}

	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
