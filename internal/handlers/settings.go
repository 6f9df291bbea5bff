package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/cache"
	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/models"
	"github.com/greenhill-dev/estates-api/internal/validation"
)

// SettingHandler handles site setting requests
type SettingHandler struct {
	settingRepo database.SettingRepositoryInterface
	cache       cache.Cache
	logger      *zap.Logger
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(settingRepo database.SettingRepositoryInterface, responseCache cache.Cache, logger *zap.Logger) *SettingHandler {
	return &SettingHandler{settingRepo: settingRepo, cache: responseCache, logger: logger}
}

// RegisterPublicRoutes registers the read-only settings route.
// The router should already have the /settings prefix.
func (h *SettingHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
}

// RegisterAdminRoutes registers the session-gated settings routes.
// The router should already have the /settings prefix.
func (h *SettingHandler) RegisterAdminRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Upsert).Methods("PUT")
	r.HandleFunc("/{key}", h.Get).Methods("GET")
	r.HandleFunc("/{key}", h.Delete).Methods("DELETE")
}

// List returns all site settings. Contact details and social links are public
// content, so both surfaces serve the same listing.
func (h *SettingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if raw, err := h.cache.Get(r.Context(), "settings:list"); err == nil && raw != nil {
			respondRawJSON(w, raw)
			return
		}
	}

	settings, err := h.settingRepo.List(r.Context())
	if err != nil {
		h.logger.Error("setting_list_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list settings")
		return
	}

	cacheListPayload(r, h.cache, "settings:list", settings)
	respondJSON(w, http.StatusOK, settings)
}

// Get returns one setting by key
func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	setting, err := h.settingRepo.GetByKey(r.Context(), key)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Setting not found")
			return
		}
		h.logger.Error("setting_get_failed", zap.Error(err), zap.String("key", key))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get setting")
		return
	}

	respondJSON(w, http.StatusOK, setting)
}

// Upsert creates or updates a setting by key
func (h *SettingHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var form validation.SettingForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	setting := &models.SiteSetting{
		Key:     form.Key,
		Value:   validation.SanitizeText(form.Value),
		LabelKA: validation.SanitizeText(form.LabelKA),
		LabelEN: validation.SanitizeText(form.LabelEN),
	}

	if err := h.settingRepo.Upsert(r.Context(), setting); err != nil {
		h.logger.Error("setting_upsert_failed", zap.Error(err), zap.String("key", form.Key))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save setting")
		return
	}

	h.invalidate(r)
	h.logger.Info("setting_saved", zap.String("key", setting.Key))
	respondJSON(w, http.StatusOK, setting)
}

// Delete removes a setting by key
func (h *SettingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	if err := h.settingRepo.Delete(r.Context(), key); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Setting not found")
			return
		}
		h.logger.Error("setting_delete_failed", zap.Error(err), zap.String("key", key))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete setting")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{"key": key, "deleted": true})
}

// invalidate drops the cached settings listing after a mutation
func (h *SettingHandler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidatePrefix(r.Context(), "settings:"); err != nil {
		h.logger.Warn("cache_invalidate_failed", zap.Error(err))
	}
}
