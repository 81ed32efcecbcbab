package exifmeta

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/image-stats/internal/logger"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"github.com/sirupsen/logrus"
)

// Extract decodes the EXIF block of a JPEG or TIFF stream into raw tags.
//
// Only IFD0 and the Exif sub-IFD are collected. GPS and interoperability
// entries live in their own id spaces and would collide with IFD0 ids, so
// they are skipped; the GPSInfo pointer itself is kept. Tags whose value
// cannot be decoded are left out.
func Extract(r io.Reader) (RawTags, error) {
	x, err := exif.Decode(r)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, ErrNoEXIF
		}
		return nil, fmt.Errorf("failed to decode EXIF: %w", err)
	}

	w := &tagWalker{tags: make(RawTags)}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("failed to walk EXIF tags: %w", err)
	}
	return w.tags, nil
}

// ErrNoEXIF is returned by Extract when the stream has no EXIF block at all.
var ErrNoEXIF = errors.New("no EXIF data")

// Field names of the sub-IFD entries that Extract treats specially.
const (
	gpsPointer   exif.FieldName = "GPSInfoIFDPointer"
	interopIndex exif.FieldName = "InteroperabilityIndex"
)

type tagWalker struct {
	tags RawTags
}

func (w *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if subIFDField(name) {
		return nil
	}

	v, err := tagValue(tag)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"tag":   string(name),
			"tagID": tag.Id,
		}).Debug("Skipping undecodable EXIF tag")
		return nil
	}
	w.tags[tag.Id] = v
	return nil
}

func subIFDField(name exif.FieldName) bool {
	if name == gpsPointer {
		return false
	}
	return strings.HasPrefix(string(name), "GPS") || name == interopIndex
}

// tagValue converts a TIFF tag into the RawTags representation. Single
// values are unwrapped; multi-valued tags become slices.
func tagValue(tag *tiff.Tag) (any, error) {
	n := int(tag.Count)

	switch tag.Format() {
	case tiff.IntVal:
		vals := make([]int64, n)
		for i := range vals {
			v, err := tag.Int64(i)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		if n == 1 {
			return vals[0], nil
		}
		return vals, nil

	case tiff.RatVal:
		vals := make([]Rational, n)
		for i := range vals {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return nil, err
			}
			vals[i] = Rational{Num: num, Den: den}
		}
		if n == 1 {
			return vals[0], nil
		}
		return vals, nil

	case tiff.FloatVal:
		vals := make([]float64, n)
		for i := range vals {
			v, err := tag.Float(i)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		if n == 1 {
			return vals[0], nil
		}
		return vals, nil

	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return nil, err
		}
		return strings.TrimRight(s, "\x00"), nil
	}

	return append([]byte(nil), tag.Val...), nil
}
