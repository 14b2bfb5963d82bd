// Package asset turns user-selected files into preview data URLs and
// multipart-ready uploads.
package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes matches the 5MB limit the content API enforces on logos.
const DefaultMaxBytes int64 = 5 << 20

var (
	ErrEmpty    = errors.New("asset is empty")
	ErrNotImage = errors.New("asset is not an image")
	ErrTooLarge = errors.New("asset exceeds size limit")
)

// File is a selected asset held in memory until the form is submitted.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// DataURL encodes the file for local preview. It never touches the network.
func (f *File) DataURL() string {
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// Reader returns a fresh reader over the file contents.
func (f *File) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

type Encoder struct {
	maxBytes int64
}

func NewEncoder(maxBytes int64) *Encoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Encoder{maxBytes: maxBytes}
}

// Read loads the selected file, sniffs its content type and checks that it
// is an image within the size limit.
func (e *Encoder) Read(ctx context.Context, name string, r io.Reader) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", name, err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("%w: %s is over %d bytes", ErrTooLarge, name, e.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: %s detected as %s", ErrNotImage, name, mtype.String())
	}

	return &File{
		Name:        filepath.Base(name),
		ContentType: mtype.String(),
		Data:        data,
	}, nil
}

// StoredPreview builds the preview URL of an asset the API already stores,
// by joining the backend origin with the stored relative path.
func StoredPreview(origin, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "/") {
		origin = strings.TrimRight(origin, "/")
	}
	return origin + path
}
