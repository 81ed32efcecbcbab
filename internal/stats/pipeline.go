// Package stats composes the color and EXIF stages into one result record.
package stats

import (
	"image"

	"github.com/ironsheep/image-stats/internal/exifmeta"
	"github.com/ironsheep/image-stats/internal/imaging"
	"github.com/ironsheep/image-stats/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options configures one pipeline run.
type Options struct {
	// Method is the averaging method; unknown values mean arithmetic.
	Method imaging.Method
	// MaxDimension bounds the longer side before per-pixel work. <= 0 means 512.
	MaxDimension int
	// Filter names the resampling filter used when shrinking.
	Filter string
}

// DefaultOptions returns arithmetic averaging with a 512 pixel bound.
func DefaultOptions() Options {
	return Options{
		Method:       imaging.Arithmetic,
		MaxDimension: imaging.DefaultMaxDimension,
		Filter:       imaging.DefaultFilter,
	}
}

// Result is the record produced for one image.
type Result struct {
	ExifData  exifmeta.Map         `json:"exif_data"`
	ColorData *imaging.ColorResult `json:"color_data"`
}

// Run computes the color statistics of img and the sanitized EXIF data of md.
//
// The color branch works on a shrunk copy of img; the EXIF branch always reads
// the metadata of the original image. The branches share nothing and run
// concurrently. ColorData is nil when img has no pixel with alpha >= 128.
// ExifData is never nil.
func Run(img image.Image, md exifmeta.Metadata, opts Options) Result {
	var res Result

	var g errgroup.Group
	g.Go(func() error {
		res.ColorData = ColorData(img, opts)
		return nil
	})
	g.Go(func() error {
		res.ExifData = exifmeta.Collect(md)
		return nil
	})
	_ = g.Wait()

	return res
}

// ColorData runs the color branch alone: shrink, filter, then average and
// dominant color.
func ColorData(img image.Image, opts Options) *imaging.ColorResult {
	if img == nil {
		return nil
	}

	work := imaging.Shrink(img, opts.MaxDimension, opts.Filter)
	if work.Bounds() != img.Bounds() {
		logger.WithFields(logrus.Fields{
			"resize": imaging.ShrinkDescription(img.Bounds(), work.Bounds()),
			"filter": opts.Filter,
		}).Debug("Resized large image for color processing")
	}

	buf := imaging.FilterValid(work)
	if len(buf) == 0 {
		logger.Debug("No opaque pixels, skipping color statistics")
		return nil
	}
	return imaging.Analyze(buf, opts.Method)
}
