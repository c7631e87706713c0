package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/platevision/platevision-go/internal/imagex"
	"github.com/platevision/platevision-go/internal/model"
	"github.com/platevision/platevision-go/internal/service"
)

// DetectHandler handles image upload and detection requests.
type DetectHandler struct {
	service   *service.DetectService
	uploadDir string
}

// NewDetectHandler creates a new DetectHandler storing uploads in uploadDir.
func NewDetectHandler(svc *service.DetectService, uploadDir string) *DetectHandler {
	return &DetectHandler{service: svc, uploadDir: uploadDir}
}

// HandleDetect handles POST /api/detect requests: multipart form with an
// "image" file. The upload is recompressed, stored, and analysed.
func (h *DetectHandler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20) // 10MB

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, model.DetectResponse{Message: "image file not found"})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.DetectResponse{Message: "image file not found"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.DetectResponse{Message: "could not read image"})
		return
	}

	resp, err := h.service.Detect(r.Context(), data)
	if err != nil {
		if errors.Is(err, service.ErrNoImageData) {
			writeJSON(w, http.StatusBadRequest, model.DetectResponse{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, model.DetectResponse{Message: "detection failed, please retry later"})
		return
	}

	// Stored image is best-effort: a save failure does not fail detection.
	if url, err := h.saveUpload(data); err != nil {
		slog.Warn("could not store upload", "error", err)
	} else {
		resp.ImageURL = url
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *DetectHandler) saveUpload(data []byte) (string, error) {
	compressed, err := imagex.Compress(data, imagex.Options{})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(h.uploadDir, name), compressed, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
