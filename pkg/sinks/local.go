package sinks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalSink writes documents into an existing directory.
type LocalSink struct {
	dir string
}

// NewLocal returns a sink for dir. The directory is not created here or later;
// a missing destination is reported when writing.
func NewLocal(dir string) (*LocalSink, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("local sink requires a directory")
	}
	return &LocalSink{dir: dir}, nil
}

func (l *LocalSink) Type() string { return TypeLocal }

// Write stores data as dir/<base name>, replacing an existing file.
func (l *LocalSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	base, err := baseName(name)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(l.dir)
	if err != nil {
		return "", fmt.Errorf("destination directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("destination %s is not a directory", l.dir)
	}

	target := filepath.Join(l.dir, base)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}
