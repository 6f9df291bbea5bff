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

// ApartmentHandler handles apartment-related admin requests. Public reads go
// through the project handler's nested route.
type ApartmentHandler struct {
	apartmentRepo database.ApartmentRepositoryInterface
	projectRepo   database.ProjectRepositoryInterface
	cache         cache.Cache
	logger        *zap.Logger
}

// NewApartmentHandler creates a new apartment handler
func NewApartmentHandler(
	apartmentRepo database.ApartmentRepositoryInterface,
	projectRepo database.ProjectRepositoryInterface,
	responseCache cache.Cache,
	logger *zap.Logger,
) *ApartmentHandler {
	return &ApartmentHandler{
		apartmentRepo: apartmentRepo,
		projectRepo:   projectRepo,
		cache:         responseCache,
		logger:        logger,
	}
}

// RegisterAdminRoutes registers the session-gated CRUD routes.
// The router should already have the /apartments prefix.
func (h *ApartmentHandler) RegisterAdminRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/reorder", h.Reorder).Methods("POST")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/active", h.SetActive).Methods("PATCH")
}

// List lists all apartments of a project, including hidden ones.
// Requires a project_id query parameter.
func (h *ApartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.URL.Query().Get("project_id"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "project_id query parameter is required")
		return
	}

	apartments, err := h.apartmentRepo.ListByProject(r.Context(), projectID, false)
	if err != nil {
		h.logger.Error("apartment_list_failed", zap.Error(err), zap.String("project_id", projectID.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list apartments")
		return
	}

	respondJSON(w, http.StatusOK, apartments)
}

// Get returns one apartment by ID
func (h *ApartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid apartment ID")
		return
	}

	apartment, err := h.apartmentRepo.GetByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Apartment not found")
			return
		}
		h.logger.Error("apartment_get_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get apartment")
		return
	}

	respondJSON(w, http.StatusOK, apartment)
}

// Create creates an apartment from an admin form. The target project must exist.
func (h *ApartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form validation.ApartmentForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	projectID := uuid.MustParse(form.ProjectID) // validated above
	if _, err := h.projectRepo.GetByID(r.Context(), projectID); err != nil {
		if database.IsNotFound(err) {
			respondValidationError(w, map[string]string{"project_id": "project does not exist"})
			return
		}
		h.logger.Error("project_get_failed", zap.Error(err), zap.String("id", projectID.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to verify project")
		return
	}

	apartment := &models.Apartment{IsActive: true}
	applyApartmentForm(&form, apartment)

	if err := h.apartmentRepo.Create(r.Context(), apartment); err != nil {
		h.logger.Error("apartment_create_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create apartment")
		return
	}

	h.invalidate(r)
	h.logger.Info("apartment_created",
		zap.String("id", apartment.ID.String()),
		zap.String("project_id", apartment.ProjectID.String()),
	)
	respondJSON(w, http.StatusCreated, apartment)
}

// Update replaces an apartment's editable fields
func (h *ApartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid apartment ID")
		return
	}

	var form validation.ApartmentForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	apartment, err := h.apartmentRepo.GetByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Apartment not found")
			return
		}
		h.logger.Error("apartment_get_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get apartment")
		return
	}

	applyApartmentForm(&form, apartment)

	if err := h.apartmentRepo.Update(r.Context(), apartment); err != nil {
		h.logger.Error("apartment_update_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update apartment")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, apartment)
}

// SetActive toggles apartment visibility
func (h *ApartmentHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid apartment ID")
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := h.apartmentRepo.SetActive(r.Context(), id, req.IsActive); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Apartment not found")
			return
		}
		h.logger.Error("apartment_set_active_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update apartment")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

// Reorder rewrites sort_order from the given id order
func (h *ApartmentHandler) Reorder(w http.ResponseWriter, r *http.Request) {
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

	if err := h.apartmentRepo.Reorder(r.Context(), req.IDs); err != nil {
		h.logger.Error("apartment_reorder_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to reorder apartments")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]int{"reordered": len(req.IDs)})
}

// Delete removes an apartment
func (h *ApartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid apartment ID")
		return
	}

	if err := h.apartmentRepo.Delete(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Apartment not found")
			return
		}
		h.logger.Error("apartment_delete_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete apartment")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// invalidate drops cached project listings; apartment lists are cached under
// the projects prefix
func (h *ApartmentHandler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidatePrefix(r.Context(), "projects:"); err != nil {
		h.logger.Warn("cache_invalidate_failed", zap.Error(err))
	}
}

// applyApartmentForm copies validated form fields onto the model
func applyApartmentForm(form *validation.ApartmentForm, apartment *models.Apartment) {
	apartment.ProjectID = uuid.MustParse(form.ProjectID) // validated as uuid
	apartment.TitleKA = validation.SanitizeText(form.TitleKA)
	apartment.TitleEN = validation.SanitizeText(form.TitleEN)
	apartment.Rooms = form.Rooms
	apartment.Bedrooms = form.Bedrooms
	apartment.Bathrooms = form.Bathrooms
	apartment.Floor = form.Floor
	apartment.Area = form.Area
	apartment.LivingArea = form.LivingArea
	apartment.BalconyArea = form.BalconyArea
	apartment.RoomAreas = form.RoomAreas
	apartment.Price = form.Price
	apartment.Status = models.ApartmentStatus(form.Status)
	apartment.ImageURL = form.ImageURL
	apartment.FloorPlanURL = form.FloorPlanURL
	apartment.SortOrder = form.SortOrder
}
