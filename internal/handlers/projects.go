package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/cache"
	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/models"
	"github.com/greenhill-dev/estates-api/internal/validation"
)

// completionDateLayout is the wire format for project completion dates
const completionDateLayout = "2006-01-02"

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectRepo   database.ProjectRepositoryInterface
	apartmentRepo database.ApartmentRepositoryInterface
	cache         cache.Cache
	logger        *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	projectRepo database.ProjectRepositoryInterface,
	apartmentRepo database.ApartmentRepositoryInterface,
	responseCache cache.Cache,
	logger *zap.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectRepo:   projectRepo,
		apartmentRepo: apartmentRepo,
		cache:         responseCache,
		logger:        logger,
	}
}

// RegisterPublicRoutes registers the read-only catalog routes.
// The router should already have the /projects prefix.
func (h *ProjectHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListPublic).Methods("GET")
	r.HandleFunc("/{slug}", h.GetPublic).Methods("GET")
	r.HandleFunc("/{slug}/apartments", h.ListPublicApartments).Methods("GET")
}

// RegisterAdminRoutes registers the session-gated CRUD routes.
// The router should already have the /projects prefix.
func (h *ProjectHandler) RegisterAdminRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListAdmin).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/reorder", h.Reorder).Methods("POST")
	r.HandleFunc("/{id}", h.GetAdmin).Methods("GET")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/active", h.SetActive).Methods("PATCH")
}

// ListPublic lists active projects, served read-through from cache
func (h *ProjectHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, "projects:list", func() (any, error) {
		return h.projectRepo.List(r.Context(), true)
	})
}

// GetPublic returns one active project by slug
func (h *ProjectHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	project, err := h.projectRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
			return
		}
		h.logger.Error("project_get_failed", zap.Error(err), zap.String("slug", slug))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get project")
		return
	}
	if !project.IsActive {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// ListPublicApartments lists active apartments of an active project
func (h *ProjectHandler) ListPublicApartments(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	project, err := h.projectRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
			return
		}
		h.logger.Error("project_get_failed", zap.Error(err), zap.String("slug", slug))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get project")
		return
	}
	if !project.IsActive {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
		return
	}

	h.cachedList(w, r, "projects:apartments:"+slug, func() (any, error) {
		return h.apartmentRepo.ListByProject(r.Context(), project.ID, true)
	})
}

// ListAdmin lists all projects including inactive ones
func (h *ProjectHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectRepo.List(r.Context(), false)
	if err != nil {
		h.logger.Error("project_list_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// GetAdmin returns one project by ID regardless of visibility
func (h *ProjectHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid project ID")
		return
	}

	project, err := h.projectRepo.GetByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
			return
		}
		h.logger.Error("project_get_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// Create creates a project from an admin form
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form validation.ProjectForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	project := &models.Project{IsActive: true}
	if err := applyProjectForm(&form, project); err != nil {
		respondValidationError(w, map[string]string{"completion_date": "must be a YYYY-MM-DD date"})
		return
	}

	if err := h.projectRepo.Create(r.Context(), project); err != nil {
		h.logger.Error("project_create_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create project")
		return
	}

	h.invalidate(r)
	h.logger.Info("project_created",
		zap.String("id", project.ID.String()),
		zap.String("slug", project.Slug),
	)
	respondJSON(w, http.StatusCreated, project)
}

// Update replaces a project's editable fields
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid project ID")
		return
	}

	var form validation.ProjectForm
	if err := decodeJSON(r, &form); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if res := validation.CheckStruct(form); !res.OK {
		respondValidationError(w, res.FieldErrors)
		return
	}

	project, err := h.projectRepo.GetByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
			return
		}
		h.logger.Error("project_get_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get project")
		return
	}

	if err := applyProjectForm(&form, project); err != nil {
		respondValidationError(w, map[string]string{"completion_date": "must be a YYYY-MM-DD date"})
		return
	}

	if err := h.projectRepo.Update(r.Context(), project); err != nil {
		h.logger.Error("project_update_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update project")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, project)
}

// SetActive toggles project visibility
func (h *ProjectHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid project ID")
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := h.projectRepo.SetActive(r.Context(), id, req.IsActive); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
			return
		}
		h.logger.Error("project_set_active_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update project")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

// Reorder rewrites sort_order from the given id order
func (h *ProjectHandler) Reorder(w http.ResponseWriter, r *http.Request) {
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

	if err := h.projectRepo.Reorder(r.Context(), req.IDs); err != nil {
		h.logger.Error("project_reorder_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to reorder projects")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]int{"reordered": len(req.IDs)})
}

// Delete removes a project
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid project ID")
		return
	}

	if err := h.projectRepo.Delete(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
			return
		}
		h.logger.Error("project_delete_failed", zap.Error(err), zap.String("id", id.String()))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete project")
		return
	}

	h.invalidate(r)
	h.logger.Info("project_deleted", zap.String("id", id.String()))
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// cachedList serves a list payload read-through from the response cache.
// Cache failures degrade to a direct repository read.
func (h *ProjectHandler) cachedList(w http.ResponseWriter, r *http.Request, key string, load func() (any, error)) {
	if h.cache != nil {
		if raw, err := h.cache.Get(r.Context(), key); err == nil && raw != nil {
			respondJSON(w, http.StatusOK, json.RawMessage(raw))
			return
		}
	}

	data, err := load()
	if err != nil {
		h.logger.Error("project_list_failed", zap.Error(err), zap.String("cache_key", key))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load listing")
		return
	}

	if h.cache != nil {
		if raw, err := json.Marshal(data); err == nil {
			_ = h.cache.Set(r.Context(), key, raw, cache.DefaultTTL)
		}
	}

	respondJSON(w, http.StatusOK, data)
}

// invalidate drops all cached project listings after a mutation
func (h *ProjectHandler) invalidate(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidatePrefix(r.Context(), "projects:"); err != nil {
		h.logger.Warn("cache_invalidate_failed", zap.Error(err))
	}
}

// applyProjectForm copies validated form fields onto the model, sanitizing
// free-text input
func applyProjectForm(form *validation.ProjectForm, project *models.Project) error {
	project.Slug = form.Slug
	project.NameKA = validation.SanitizeText(form.NameKA)
	project.NameEN = validation.SanitizeText(form.NameEN)
	project.DescriptionKA = validation.SanitizeText(form.DescriptionKA)
	project.DescriptionEN = validation.SanitizeText(form.DescriptionEN)
	project.AddressKA = validation.SanitizeText(form.AddressKA)
	project.AddressEN = validation.SanitizeText(form.AddressEN)
	project.Status = models.ProjectStatus(form.Status)
	project.PriceFrom = form.PriceFrom
	project.TotalUnits = form.TotalUnits
	project.AvailableUnits = form.AvailableUnits
	project.ImageURL = form.ImageURL
	project.SortOrder = form.SortOrder

	project.CompletionDate = nil
	if form.CompletionDate != nil && *form.CompletionDate != "" {
		parsed, err := time.Parse(completionDateLayout, *form.CompletionDate)
		if err != nil {
			return err
		}
		project.CompletionDate = &parsed
	}
	return nil
}
