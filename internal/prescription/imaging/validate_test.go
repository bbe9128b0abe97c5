package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sukraa/prescription-ai-backend/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		wantErr     bool
	}{
		{"png", "scan.png", "image/png", false},
		{"jpg", "scan.jpg", "", false},
		{"jpeg", "scan.jpeg", "", false},
		{"gif", "scan.gif", "", false},
		{"webp", "scan.webp", "", false},
		{"uppercase extension", "SCAN.PNG", "", false},
		{"mixed case", "Scan.JpEg", "", false},
		{"bmp rejected", "scan.bmp", "", true},
		{"tiff rejected", "scan.tiff", "image/tiff", true},
		{"pdf rejected", "scan.pdf", "application/pdf", true},
		{"no extension with image content type", "upload", "image/jpeg", false},
		{"no extension with charset suffix", "upload", "image/png; charset=binary", false},
		{"no extension and no content type", "upload", "", true},
		{"no extension and text content type", "upload", "text/plain", true},
		{"extension wins over content type", "scan.bmp", "image/png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.filename, tt.contentType)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrUnsupportedFormat))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFormat_CarriesOffendingExtension(t *testing.T) {
	err := ValidateFormat("scan.bmp", "")
	assert.Contains(t, err.Error(), "bmp")
}
