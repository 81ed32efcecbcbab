package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	apperrors "github.com/ironsheep/image-stats/internal/errors"
	"github.com/ironsheep/image-stats/internal/logger"
	"github.com/sirupsen/logrus"
)

// Loader turns a Source into a decoded image.
type Loader struct {
	fetcher  Fetcher
	blobs    BlobStore
	maxBytes int64
}

// NewLoader creates a loader. blobs may be nil, in which case BlobSource
// references are rejected. maxBytes bounds files read from disk; <= 0 means
// no limit.
func NewLoader(fetcher Fetcher, blobs BlobStore, maxBytes int64) *Loader {
	return &Loader{fetcher: fetcher, blobs: blobs, maxBytes: maxBytes}
}

// Load obtains the encoded bytes for src and decodes them.
//
// Failures are *errors.AppError values: validation for unusable references,
// network/timeout/not-found for retrieval, decode for undecodable bytes.
func (l *Loader) Load(ctx context.Context, src Source) (*Decoded, error) {
	data, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}

	d, err := Decode(data)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"source": src.Describe(),
		"format": d.Format,
		"width":  d.Image.Bounds().Dx(),
		"height": d.Image.Bounds().Dy(),
	}).Debug("Decoded image")
	return d, nil
}

func (l *Loader) read(ctx context.Context, src Source) ([]byte, error) {
	switch s := src.(type) {
	case BytesSource:
		if len(s.Data) == 0 {
			return nil, apperrors.NewValidationError("uploaded image is empty", nil)
		}
		return s.Data, nil

	case FileSource:
		return readFile(s.Path, l.maxBytes)

	case URLSource:
		if l.fetcher == nil {
			return nil, apperrors.NewValidationError("URL sources are not enabled", nil)
		}
		data, err := l.fetcher.Fetch(ctx, s.URL)
		if err != nil {
			return nil, retrievalError("failed to fetch image", err)
		}
		return data, nil

	case BlobSource:
		if l.blobs == nil {
			return nil, apperrors.NewValidationError("blob storage is not configured", nil)
		}
		data, err := l.blobs.Download(ctx, s.Container, s.Blob)
		if err != nil {
			return nil, retrievalError("failed to download blob", err)
		}
		return data, nil
	}

	return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported source %T", src), nil)
}

func retrievalError(message string, err error) error {
	var se *StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(message, err)
	case errors.As(err, &se) && se.Code == 404:
		return apperrors.NewNotFoundError(message, err)
	}
	return apperrors.NewNetworkError(message, err)
}

func readFile(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("image file not found", err)
		}
		return nil, apperrors.NewValidationError("failed to open image", err)
	}
	defer f.Close()

	data, err := readLimited(f, maxBytes)
	if err != nil {
		return nil, apperrors.NewValidationError("failed to read image", err)
	}
	return data, nil
}
