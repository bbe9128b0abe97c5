package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sukraa/prescription-ai-backend/internal/prescription/domain"
	"github.com/sukraa/prescription-ai-backend/internal/prescription/service"
	"github.com/sukraa/prescription-ai-backend/pkg/errors"
	"github.com/sukraa/prescription-ai-backend/pkg/httputil"
	"github.com/sukraa/prescription-ai-backend/pkg/logger"
)

// Handler handles the HTTP surface of the extraction pipeline
type Handler struct {
	service        *service.Service
	log            *logger.Logger
	maxUploadBytes int64
}

// NewHandler creates a new prescription handler
func NewHandler(svc *service.Service, maxUploadBytes int64, log *logger.Logger) *Handler {
	return &Handler{
		service:        svc,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes mounts the handler's endpoints on the given router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/encode_image/", h.EncodeImage)
	r.Post("/extract_prescription/", h.ExtractPrescription)
	r.Post("/extract_prescription_url/", h.ExtractPrescriptionURL)
}

// EncodeImage handles POST /encode_image/
// Accepts multipart form field "file" and returns its base64 encoding.
func (h *Handler) EncodeImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.readUpload(w, r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, domain.EncodeResponse{
		EncodedImage: h.service.EncodeImage(*img),
	})
}

// ExtractPrescription handles POST /extract_prescription/
// Accepts multipart form field "file" and returns the extracted patient
// data and prescribed tests.
func (h *Handler) ExtractPrescription(w http.ResponseWriter, r *http.Request) {
	img, err := h.readUpload(w, r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.ExtractPrescription(r.Context(), *img)
	if err != nil {
		h.log.Error().Err(err).Str("filename", img.Filename).Msg("extraction request failed")
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// ExtractPrescriptionURL handles POST /extract_prescription_url/
// Accepts a JSON body with the image URL and returns the same response
// shape as the upload endpoint.
func (h *Handler) ExtractPrescriptionURL(w http.ResponseWriter, r *http.Request) {
	var req domain.ExtractURLRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.ExtractFromURL(r.Context(), req.URL)
	if err != nil {
		h.log.Error().Err(err).Str("url", req.URL).Msg("URL extraction request failed")
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// readUpload pulls the "file" multipart field out of the request
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*domain.UploadedImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, errors.BadRequest("file too large or invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.BadRequest("missing file field")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Internal("failed to read uploaded file")
	}

	return &domain.UploadedImage{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
