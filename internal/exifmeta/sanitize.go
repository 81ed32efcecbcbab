// Package exifmeta turns raw EXIF tags into a JSON-safe, name-keyed map.
package exifmeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/image-stats/internal/logger"
	"github.com/sirupsen/logrus"
)

// Placeholder is stored for values that cannot even be turned into a string.
const Placeholder = "Unable to serialize value"

// Rational is a numerator/denominator pair as stored by TIFF/EXIF.
type Rational struct {
	Num int64
	Den int64
}

// Float returns Num/Den, or 0 when the denominator is zero.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// RawTags maps tag ids to decoded values. Values are int64, float64, string,
// Rational, []byte, or slices of those.
type RawTags map[uint16]any

// Map is the sanitized metadata: tag names mapped to JSON-safe scalars.
type Map map[string]any

// Metadata is implemented by anything that can supply an image's raw tags.
type Metadata interface {
	RawTags() (RawTags, error)
}

// Collect extracts and sanitizes the tags of md.
//
// It never fails: an extraction error (or panic) is logged and yields an
// empty map. A nil md also yields an empty map.
func Collect(md Metadata) (out Map) {
	out = Map{}
	if md == nil {
		return out
	}

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Warn("Error extracting EXIF data")
			out = Map{}
		}
	}()

	raw, err := md.RawTags()
	if errors.Is(err, ErrNoEXIF) {
		logger.Debug("Image has no EXIF data")
		return Map{}
	}
	if err != nil {
		logger.WithError(err).Warn("Error extracting EXIF data")
		return Map{}
	}
	return Sanitize(raw)
}

// Sanitize converts raw tags into a Map.
//
// Tags without a known name are skipped. Rationals become floats (0 for a zero
// denominator); a list of rationals becomes the string form of its floats. Values that are not JSON-safe scalars are stored as their
// string form, or as Placeholder when that fails too. A tag whose conversion
// fails outright is omitted without affecting the others.
func Sanitize(raw RawTags) Map {
	out := make(Map, len(raw))
	for id, v := range raw {
		name, ok := TagName(id)
		if !ok {
			continue
		}
		sv, ok := sanitizeEntry(v)
		if !ok {
			logger.WithFields(logrus.Fields{
				"tag":   name,
				"tagID": id,
			}).Debug("Dropping EXIF tag that could not be converted")
			continue
		}
		out[name] = sv
	}
	return out
}

// sanitizeEntry converts a single tag value. The boolean is false when the
// conversion itself failed.
func sanitizeEntry(v any) (out any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = nil, false
		}
	}()

	switch r := v.(type) {
	case Rational:
		v = r.Float()
	case *Rational:
		if r == nil {
			v = nil
		} else {
			v = r.Float()
		}
	case []Rational:
		fs := make([]float64, len(r))
		for i, x := range r {
			fs[i] = x.Float()
		}
		v = fs
	}

	if s, ok := jsonScalar(v); ok {
		return s, true
	}
	if s, ok := stringify(v); ok {
		return strings.ToValidUTF8(s, "�"), true
	}
	return Placeholder, true
}

// jsonScalar reports whether v can be stored as is.
func jsonScalar(v any) (any, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		return strings.ToValidUTF8(x, "�"), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return x, true
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil, false
		}
		return float64(x), true
	case float64:
		if _, err := json.Marshal(x); err != nil {
			return nil, false
		}
		return x, true
	}
	return nil, false
}

// stringify renders v as text, reporting false if that panics.
func stringify(v any) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s, ok = "", false
		}
	}()

	switch x := v.(type) {
	case nil:
		return "", true
	case fmt.Stringer:
		return x.String(), true
	case error:
		return x.Error(), true
	case []byte:
		return fmt.Sprintf("%q", x), true
	}
	return fmt.Sprint(v), true
}
