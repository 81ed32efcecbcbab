// Package httpapi exposes the stats pipeline over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ironsheep/image-stats/internal/config"
	apperrors "github.com/ironsheep/image-stats/internal/errors"
	"github.com/ironsheep/image-stats/internal/imaging"
	"github.com/ironsheep/image-stats/internal/logger"
	"github.com/ironsheep/image-stats/internal/source"
	"github.com/ironsheep/image-stats/internal/stats"
	"github.com/ironsheep/image-stats/internal/version"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// maxBatchItems caps the number of images in one batch request.
const maxBatchItems = 64

// StatsRequest is the JSON form of a single-image request.
type StatsRequest struct {
	Content string `json:"content" form:"content"`
}

// BatchRequest asks for the stats of several images.
type BatchRequest struct {
	Contents []string `json:"contents"`
	Method   string   `json:"method,omitempty"`
}

// BatchItem is one entry of a BatchResponse. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Content string         `json:"content"`
	Result  *stats.Result  `json:"result,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse lists results in request order.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

type handler struct {
	loader *source.Loader
	cfg    *config.Config
}

// NewHandler builds the HTTP API around loader.
func NewHandler(loader *source.Loader, cfg *config.Config) http.Handler {
	h := &handler{loader: loader, cfg: cfg}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		corsMiddleware(cfg.AllowOrigins),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/stats", h.computeStats)
	r.POST("/stats/batch", h.computeBatch)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": version.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) computeStats(c *gin.Context) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	src, err := h.requestSource(c)
	if err != nil {
		respondError(c, "invalid request", err)
		return
	}

	opts := h.options(c.Query("method"))
	res, err := h.process(ctx, src, opts)
	if err != nil {
		respondError(c, "failed to load image", err)
		return
	}

	logger.WithFields(logrus.Fields{
		"source":             src.Describe(),
		"method":             opts.Method,
		"request_id":         c.GetString(requestIDKey),
		"processing_time_ms": time.Since(startTime).Milliseconds(),
		"exif_tags":          len(res.ExifData),
		"has_color":          res.ColorData != nil,
	}).Info("Image stats computed")

	render(c, http.StatusOK, res)
}

func (h *handler) computeBatch(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "invalid request", bodyError(err))
		return
	}
	if len(req.Contents) == 0 {
		respondError(c, "invalid request", apperrors.NewValidationError("contents must not be empty", nil))
		return
	}
	if len(req.Contents) > maxBatchItems {
		respondError(c, "invalid request", apperrors.NewValidationError(
			fmt.Sprintf("at most %d contents per batch", maxBatchItems), nil))
		return
	}

	opts := h.options(req.Method)
	results := make([]BatchItem, len(req.Contents))

	var g errgroup.Group
	g.SetLimit(h.cfg.Workers)
	for i, content := range req.Contents {
		i, content := i, content
		g.Go(func() error {
			results[i] = BatchItem{Content: content}

			src, err := source.Parse(content)
			if err == nil {
				var res stats.Result
				if res, err = h.process(ctx, src, opts); err == nil {
					results[i].Result = &res
					return nil
				}
			}

			logger.WithError(err).WithFields(logrus.Fields{
				"content":    content,
				"request_id": c.GetString(requestIDKey),
			}).Warn("Batch item failed")
			results[i].Error = newErrorResponse(apperrors.GetStatusCode(err), "failed to process image", err)
			return nil
		})
	}
	_ = g.Wait()

	render(c, http.StatusOK, BatchResponse{Results: results})
}

// options returns the configured pipeline options, with the averaging method
// replaced when the request names one.
func (h *handler) options(method string) stats.Options {
	opts := h.cfg.StatsOptions()
	if method = strings.TrimSpace(method); method != "" {
		opts.Method = imaging.ParseMethod(strings.ToLower(method))
	}
	return opts
}

func (h *handler) process(ctx context.Context, src source.Source, opts stats.Options) (stats.Result, error) {
	d, err := h.loader.Load(ctx, src)
	if err != nil {
		return stats.Result{}, err
	}
	return stats.Run(d.Image, d, opts), nil
}

// requestSource reads the image reference from the request. A multipart
// upload in field "content" wins; otherwise "content" must hold a URL or blob
// reference, sent as JSON or as a form value.
func (h *handler) requestSource(c *gin.Context) (source.Source, error) {
	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		if fh, err := c.FormFile("content"); err == nil {
			return h.uploadSource(fh)
		} else if !errors.Is(err, http.ErrMissingFile) {
			return nil, bodyError(err)
		}
		return parseContent(c.PostForm("content"))

	case gin.MIMEJSON:
		var req StatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, bodyError(err)
		}
		return parseContent(req.Content)
	}

	return parseContent(c.PostForm("content"))
}

func (h *handler) uploadSource(fh *multipart.FileHeader) (source.Source, error) {
	if fh.Size > h.cfg.MaxImageBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("image exceeds %d bytes", h.cfg.MaxImageBytes), nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, bodyError(err)
	}
	return source.BytesSource{Name: fh.Filename, Data: data}, nil
}

func parseContent(content string) (source.Source, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}
	return source.Parse(content)
}
