package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image decode error")
	ErrExtractionFailed  = errors.New("extraction failed")
	ErrMapping           = errors.New("mapping error")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
)

// AppError represents an application error with context
type AppError struct {
	Err        error  `json:"-"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"status_code"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common error constructors

// UnsupportedFormat reports an upload whose extension is outside the allow-list.
func UnsupportedFormat(ext string) *AppError {
	return &AppError{
		Err:        ErrUnsupportedFormat,
		Code:       "UNSUPPORTED_FORMAT",
		Message:    fmt.Sprintf("unsupported image format: %s", ext),
		StatusCode: http.StatusBadRequest,
	}
}

// Decode reports input that could not be decoded as an image.
func Decode(err error) *AppError {
	return &AppError{
		Err:        errors.Join(ErrDecode, err),
		Code:       "DECODE_ERROR",
		Message:    "invalid or corrupted image",
		StatusCode: http.StatusBadRequest,
	}
}

// ExtractionFailed reports any failure of the upstream extraction API.
func ExtractionFailed(err error) *AppError {
	return &AppError{
		Err:        errors.Join(ErrExtractionFailed, err),
		Code:       "EXTRACTION_FAILED",
		Message:    "prescription extraction failed",
		StatusCode: http.StatusBadGateway,
	}
}

// Mapping reports a model reply that could not be parsed into the response schema.
func Mapping(err error) *AppError {
	return &AppError{
		Err:        errors.Join(ErrMapping, err),
		Code:       "MAPPING_ERROR",
		Message:    "could not parse extraction response",
		StatusCode: http.StatusBadGateway,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
