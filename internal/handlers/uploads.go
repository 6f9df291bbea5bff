package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/services/storage"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory
const maxUploadMemory = 8 << 20 // 8MB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/avif":      true,
	"application/pdf": true, // floor plans
}

// UploadHandler accepts admin file uploads and forwards them to object storage
type UploadHandler struct {
	storage *storage.Client
	logger  *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(storageClient *storage.Client, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{storage: storageClient, logger: logger}
}

// RegisterAdminRoutes registers the session-gated upload route.
// The router should already have the /uploads prefix.
func (h *UploadHandler) RegisterAdminRoutes(r *mux.Router) {
	r.HandleFunc("", h.Upload).Methods("POST")
}

// UploadResponse carries the public URL of a stored object
type UploadResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Upload stores a multipart file and returns its public URL. Files are stored
// as-is; no resizing or transcoding happens server-side.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[strings.ToLower(contentType)] {
		respondJSONError(w, http.StatusUnsupportedMediaType, "Unsupported Media Type", "File type not allowed")
		return
	}

	// Object names are generated server-side; the client filename only
	// contributes its extension
	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := fmt.Sprintf("%s/%s%s", time.Now().UTC().Format("2006/01"), uuid.NewString(), ext)

	url, err := h.storage.Upload(r.Context(), name, contentType, file)
	if err != nil {
		h.logger.Error("upload_failed", zap.Error(err), zap.String("name", name))
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Failed to store file")
		return
	}

	h.logger.Info("upload_stored",
		zap.String("name", name),
		zap.String("content_type", contentType),
		zap.Int64("size", header.Size),
	)
	respondJSON(w, http.StatusCreated, UploadResponse{URL: url, Name: name})
}
