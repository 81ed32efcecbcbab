// Package source resolves the places an image can come from into decoded
// pixels plus the original bytes needed for metadata extraction.
package source

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "github.com/ironsheep/image-stats/internal/errors"
)

// Source identifies where an image comes from. It is one of URLSource,
// BytesSource, FileSource or BlobSource.
type Source interface {
	// Describe returns a short identifier suitable for logs.
	Describe() string
	isSource()
}

// URLSource is an image fetched over HTTP(S).
type URLSource struct {
	URL string
}

// BytesSource is an image whose encoded bytes were supplied directly,
// typically as an upload.
type BytesSource struct {
	Name string
	Data []byte
}

// FileSource is an image on the local filesystem.
type FileSource struct {
	Path string
}

// BlobSource is an image stored in an Azure blob container.
type BlobSource struct {
	Container string
	Blob      string
}

func (s URLSource) Describe() string { return s.URL }
func (s BytesSource) Describe() string { return fmt.Sprintf("upload:%s (%d bytes)", s.Name, len(s.Data)) }
func (s FileSource) Describe() string { return s.Path }
func (s BlobSource) Describe() string { return "az://" + s.Container + "/" + s.Blob }

func (URLSource) isSource() {}
func (BytesSource) isSource() {}
func (FileSource) isSource() {}
func (BlobSource) isSource() {}

// BlobScheme is the URL scheme that selects a BlobSource.
const BlobScheme = "az"

// Parse classifies a textual image reference by its URL scheme:
//
//	http://host/path, https://host/path  -> URLSource
//	az://container/path/to/blob          -> BlobSource
//
// Anything else is a validation error.
func Parse(content string) (Source, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("empty image reference", nil)
	}

	u, err := url.Parse(content)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid image reference", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, apperrors.NewValidationError("URL must have a valid host", nil)
		}
		return URLSource{URL: u.String()}, nil
	case BlobScheme:
		blob := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || blob == "" {
			return nil, apperrors.NewValidationError("blob reference must be az://container/blob", nil)
		}
		return BlobSource{Container: u.Host, Blob: blob}, nil
	}
	return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported image reference scheme %q", u.Scheme), nil)
}
