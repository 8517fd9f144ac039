package sinks

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Sink stores a signed document and reports where it ended up.
type Sink interface {
	Type() string
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// Supported sink types.
const (
	TypeLocal = "local"
	TypeS3    = "s3"
	TypeMinIO = "minio"
)

// Config selects and configures one sink.
type Config struct {
	Type string

	Dir string

	S3Bucket    string
	S3Region    string
	S3Prefix    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	MinIOPrefix    string
}

// New builds the sink named by cfg.Type.
func New(ctx context.Context, cfg Config) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", TypeLocal:
		return NewLocal(cfg.Dir)
	case TypeS3:
		return newS3Sink(ctx, cfg)
	case TypeMinIO:
		return newMinIOSink(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported sink type %q", cfg.Type)
	}
}

// baseName strips any directory part a server-supplied or local name carries.
func baseName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." || strings.TrimSpace(base) == "" {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return base, nil
}

// objectKey joins an optional prefix and a document name with "/".
func objectKey(prefix, name string) (string, error) {
	base, err := baseName(name)
	if err != nil {
		return "", err
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return base, nil
	}
	return path.Join(prefix, base), nil
}
