package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/sukraa/prescription-ai-backend/internal/prescription/domain"
	"github.com/sukraa/prescription-ai-backend/pkg/config"
	"github.com/sukraa/prescription-ai-backend/pkg/errors"
	"github.com/sukraa/prescription-ai-backend/pkg/logger"
)

// Fetcher downloads prescription images from remote URLs so they can run
// through the same pipeline as direct uploads.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	log      *logger.Logger
}

// New creates a fetcher with the configured timeout and body size cap
func New(cfg *config.FetchConfig, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		maxBytes: cfg.MaxBytes,
		log:      log.WithComponent("fetcher"),
	}
}

// Fetch downloads the image at rawURL. Only http and https URLs are
// accepted. Every failure here is caller-induced, so it maps to 400.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.UploadedImage, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, errors.BadRequest("source must be an HTTP or HTTPS URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.BadRequest("invalid image URL")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn().Err(err).Str("url", rawURL).Msg("image download failed")
		return nil, errors.BadRequest("failed to fetch image from URL")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.BadRequest(fmt.Sprintf("failed to fetch image from URL: status %d", resp.StatusCode))
	}

	// Read one byte past the cap to tell "exactly at the limit" from "over it"
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, errors.BadRequest("failed to read image from URL")
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errors.BadRequest("remote image exceeds the maximum allowed size")
	}

	filename := path.Base(parsed.Path)
	if filename == "." || filename == "/" {
		filename = ""
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}

	f.log.Info().
		Str("url", rawURL).
		Int("bytes", len(data)).
		Str("content_type", contentType).
		Msg("image downloaded")

	return &domain.UploadedImage{
		Data:        data,
		Filename:    filename,
		ContentType: strings.TrimSpace(contentType),
	}, nil
}
