package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukraa/prescription-ai-backend/internal/prescription/domain"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/fetcher"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/imaging"
	"github.com/sukraa/prescription-ai-backend/pkg/config"
	"github.com/sukraa/prescription-ai-backend/pkg/errors"
	"github.com/sukraa/prescription-ai-backend/pkg/logger"
)

type stubExtractor struct {
	reply string
	err   error

	calls       int
	lastPayload string
}

func (s *stubExtractor) Extract(ctx context.Context, imageDataURL string) (string, error) {
	s.calls++
	s.lastPayload = imageDataURL
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testOptions() imaging.Options {
	return imaging.Options{
		TargetBytes:        512 * 1024,
		StartQuality:       95,
		QualityStep:        5,
		QualityFloor:       10,
		DownscaleRatio:     0.9,
		MaxDownscaleRounds: 5,
		MinDimension:       50,
	}
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

const extractorReply = `{"patient_name": "Anita Sharma", "prescribed_tests": ["CBC", "TSH"]}`

func TestExtractPrescription(t *testing.T) {
	ext := &stubExtractor{reply: extractorReply}
	svc := New(testOptions(), ext, nil, logger.New("test", "test"))

	result, err := svc.ExtractPrescription(context.Background(), domain.UploadedImage{
		Data:     smallPNG(t),
		Filename: "prescription.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Anita Sharma", result.Patient.Name)
	assert.Equal(t, []string{"CBC", "TSH"}, result.PrescribedTests)
	assert.Equal(t, 1, ext.calls)
	assert.Contains(t, ext.lastPayload, "data:image/png;base64,")
}

func TestExtractPrescription_RejectsFormatBeforeExtractor(t *testing.T) {
	ext := &stubExtractor{reply: extractorReply}
	svc := New(testOptions(), ext, nil, logger.New("test", "test"))

	_, err := svc.ExtractPrescription(context.Background(), domain.UploadedImage{
		Data:     smallPNG(t),
		Filename: "prescription.bmp",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
	assert.Zero(t, ext.calls, "validation must run before any API call")
}

func TestExtractPrescription_UndecodableUpload(t *testing.T) {
	ext := &stubExtractor{reply: extractorReply}
	svc := New(testOptions(), ext, nil, logger.New("test", "test"))

	_, err := svc.ExtractPrescription(context.Background(), domain.UploadedImage{
		Data:     []byte("not an image"),
		Filename: "prescription.png",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDecode))
	assert.Zero(t, ext.calls)
}

func TestExtractPrescription_ExtractorFailure(t *testing.T) {
	ext := &stubExtractor{err: errors.ExtractionFailed(context.DeadlineExceeded)}
	svc := New(testOptions(), ext, nil, logger.New("test", "test"))

	result, err := svc.ExtractPrescription(context.Background(), domain.UploadedImage{
		Data:     smallPNG(t),
		Filename: "prescription.png",
	})
	require.Error(t, err)
	assert.Nil(t, result, "no data may be returned on extraction failure")
	assert.True(t, errors.Is(err, errors.ErrExtractionFailed))
}

func TestExtractPrescription_UnparseableReply(t *testing.T) {
	ext := &stubExtractor{reply: "sorry, I cannot read this image"}
	svc := New(testOptions(), ext, nil, logger.New("test", "test"))

	result, err := svc.ExtractPrescription(context.Background(), domain.UploadedImage{
		Data:     smallPNG(t),
		Filename: "prescription.png",
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errors.ErrMapping))
}

func TestEncodeImage(t *testing.T) {
	svc := New(testOptions(), &stubExtractor{}, nil, logger.New("test", "test"))

	encoded := svc.EncodeImage(domain.UploadedImage{Data: []byte("raw bytes")})
	assert.Equal(t, imaging.EncodeBase64([]byte("raw bytes")), encoded)
}

func TestExtractFromURL(t *testing.T) {
	data := smallPNG(t)
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer imgSrv.Close()

	ext := &stubExtractor{reply: extractorReply}
	fetch := fetcher.New(&config.FetchConfig{Timeout: 5 * time.Second, MaxBytes: 1 << 20}, logger.New("test", "test"))
	svc := New(testOptions(), ext, fetch, logger.New("test", "test"))

	result, err := svc.ExtractFromURL(context.Background(), imgSrv.URL+"/scans/prescription.png")
	require.NoError(t, err)
	assert.Equal(t, "Anita Sharma", result.Patient.Name)
	assert.Equal(t, 1, ext.calls)
}

func TestExtractFromURL_FetchFailure(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer imgSrv.Close()

	ext := &stubExtractor{reply: extractorReply}
	fetch := fetcher.New(&config.FetchConfig{Timeout: 5 * time.Second, MaxBytes: 1 << 20}, logger.New("test", "test"))
	svc := New(testOptions(), ext, fetch, logger.New("test", "test"))

	_, err := svc.ExtractFromURL(context.Background(), imgSrv.URL+"/missing.png")
	require.Error(t, err)
	assert.Zero(t, ext.calls)
}
