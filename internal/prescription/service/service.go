package service

import (
	"context"

	"github.com/sukraa/prescription-ai-backend/internal/prescription/domain"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/extractor"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/fetcher"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/imaging"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/mapper"
	"github.com/sukraa/prescription-ai-backend/pkg/logger"
)

// Service runs the extraction pipeline: validate, compress, encode,
// extract, map. Each request is one synchronous pass; nothing is stored.
type Service struct {
	compress  imaging.Options
	extractor extractor.Extractor
	fetcher   *fetcher.Fetcher
	log       *logger.Logger
}

// New creates the pipeline service. The fetcher may be nil when URL
// extraction is not wired.
func New(compress imaging.Options, ext extractor.Extractor, f *fetcher.Fetcher, log *logger.Logger) *Service {
	return &Service{
		compress:  compress,
		extractor: ext,
		fetcher:   f,
		log:       log.WithComponent("pipeline"),
	}
}

// EncodeImage base64-encodes the uploaded bytes as-is
func (s *Service) EncodeImage(img domain.UploadedImage) string {
	return imaging.EncodeBase64(img.Data)
}

// ExtractPrescription runs the full pipeline on an uploaded image
func (s *Service) ExtractPrescription(ctx context.Context, img domain.UploadedImage) (*domain.ExtractionResult, error) {
	if err := imaging.ValidateFormat(img.Filename, img.ContentType); err != nil {
		return nil, err
	}

	compressed, err := imaging.Compress(img.Data, s.compress)
	if err != nil {
		return nil, err
	}

	event := s.log.Info().
		Str("filename", img.Filename).
		Int("original_bytes", len(img.Data)).
		Int("compressed_bytes", len(compressed.Data)).
		Bool("passthrough", compressed.Passthrough)
	if compressed.BestEffort {
		event.Bool("best_effort", true)
	}
	event.Msg("image prepared")

	if compressed.BestEffort {
		s.log.Warn().
			Int("bytes", len(compressed.Data)).
			Int("target_bytes", s.compress.TargetBytes).
			Msg("compression target not reached, sending smallest achieved encoding")
	}

	raw, err := s.extractor.Extract(ctx, imaging.DataURL(compressed.Format, compressed.Data))
	if err != nil {
		return nil, err
	}

	result, err := mapper.Map(raw)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("patient", result.Patient.Name).
		Int("prescribed_tests", len(result.PrescribedTests)).
		Msg("prescription extracted")

	return result, nil
}

// ExtractFromURL downloads the image and runs the same pipeline on it
func (s *Service) ExtractFromURL(ctx context.Context, rawURL string) (*domain.ExtractionResult, error) {
	img, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return s.ExtractPrescription(ctx, *img)
}
