package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/cache"
	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/models"
	"github.com/greenhill-dev/estates-api/internal/validation"
)

// BannerHandler handles homepage banner requests
type BannerHandler struct {
	bannerRepo database.BannerRepositoryInterface
	cache      cache.Cache
	logger     *zap.Logger
}

// NewBannerHandler creates a new banner handler
func NewBannerHandler(bannerRepo database.BannerRepositoryInterface, responseCache cache.Cache, logger *zap.Logger) *BannerHandler {
	return &BannerHandler{bannerRepo: bannerRepo, cache: responseCache, logger: logger}
}

// RegisterPublicRoutes registers the read-only banner routes.
// The router should already have the /banners prefix.
func (h *BannerHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListPublic).Methods("GET")
}

// RegisterAdminRoutes registers the session-gated CRUD routes.
// The router should already have the /banners prefix.
func (h *BannerHandler) RegisterAdminRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListAdmin).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/reorder", h.Reorder).Methods("POST")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/active", h.SetActive).Methods("PATCH")
}

// ListPublic lists visible banners in display order
func (h *BannerHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if raw, err := h.cache.Get(r.Context(), "banners:list"); err == nil && raw != nil {
			respondRawJSON(w, raw)
			return
		}
	}

	banners, err := h.bannerRepo.List(r.Context(), true)
	if err != nil {
		h.logger.Error("banner_list_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list banners")
		return
	}

	cacheListPayload(r, h.cache, "banners:list", banners)
	respondJSON(w, http.StatusOK, banners)
}

// ListAdmin lists all banners including hidden ones
func (h *BannerHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	banners, err := h.bannerRepo.List(r.Context(), false)
	if err != nil {
		h.logger.Error("banner_list_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list banners")
		return
	}
	respondJSON(w, http.StatusOK, banners)
}

// Create creates a banner from an admin form
func (h *BannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form validation.BannerForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	banner := &models.Banner{
		ImageURL:  form.ImageURL,
		LinkURL:   form.LinkURL,
		TitleKA:   validation.SanitizeText(form.TitleKA),
		TitleEN:   validation.SanitizeText(form.TitleEN),
		IsActive:  true,
		SortOrder: form.SortOrder,
	}

	if err := h.bannerRepo.Create(r.Context(), banner); err != nil {
		h.logger.Error("banner_create_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create banner")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusCreated, banner)
}

// Update replaces a banner's editable fields
func (h *BannerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid banner ID")
		return
	}

	var form validation.BannerForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	banner, err := h.bannerRepo.GetByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Banner not found")
			return
		}
		h.logger.Error("banner_get_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get banner")
		return
	}

	banner.ImageURL = form.ImageURL
	banner.LinkURL = form.LinkURL
	banner.TitleKA = validation.SanitizeText(form.TitleKA)
	banner.TitleEN = validation.SanitizeText(form.TitleEN)
	banner.SortOrder = form.SortOrder

	if err := h.bannerRepo.Update(r.Context(), banner); err != nil {
		h.logger.Error("banner_update_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update banner")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, banner)
}

// SetActive toggles banner visibility
func (h *BannerHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid banner ID")
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := h.bannerRepo.SetActive(r.Context(), id, req.IsActive); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Banner not found")
			return
		}
		h.logger.Error("banner_set_active_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update banner")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

// Reorder rewrites sort_order from the given id order
func (h *BannerHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "ids must not be empty")
		return
	}

	if err := h.bannerRepo.Reorder(r.Context(), req.IDs); err != nil {
		h.logger.Error("banner_reorder_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to reorder banners")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]int{"reordered": len(req.IDs)})
}

// Delete removes a banner
func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid banner ID")
		return
	}

	if err := h.bannerRepo.Delete(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Banner not found")
			return
		}
		h.logger.Error("banner_delete_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete banner")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// invalidate drops cached banner listings after a mutation
func (h *BannerHandler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidatePrefix(r.Context(), "banners:"); err != nil {
		h.logger.Warn("cache_invalidate_failed", zap.Error(err))
	}
}
