package document

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careshare/careshare-api/internal/httputil"
	"github.com/careshare/careshare-api/internal/logging"
)

// Handler serves the uniform CRUD surface of one collection.
// No validation, no authorization: payloads are stored as-is.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// List handles GET for a whole collection
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Success      200 {array} map[string]interface{}
// @Failure      500 {object} httputil.ErrorResponse
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	docs, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("failed to list documents", "error", err.Error())
		respondInternalError(w)
		return
	}

	httputil.RespondJSON(w, docs, http.StatusOK)
}

// Get handles GET of a single document by id
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	doc, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "document not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get document", "id", id, "error", err.Error())
		respondInternalError(w)
		return
	}

	httputil.RespondJSON(w, doc, http.StatusOK)
}

// Create handles POST of a new document
// @Summary      Create a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Success      200 {object} CreateResult
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		logger.Warn("invalid document body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	doc, err := h.store.Create(r.Context(), data)
	if err != nil {
		logger.Error("failed to create document", "error", err.Error())
		respondInternalError(w)
		return
	}

	logger.Info("document created", "id", doc.ID)

	httputil.RespondJSON(w, CreateResult{InsertedID: doc.ID}, http.StatusOK)
}

// Update handles PUT of a partial document; fields present in the body
// overwrite, absent fields are preserved
// @Summary      Update a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} UpdateResult
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		logger.Warn("invalid document body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.store.Update(r.Context(), id, partial)
	if err != nil {
		logger.Error("failed to update document", "id", id, "error", err.Error())
		respondInternalError(w)
		return
	}

	httputil.RespondJSON(w, result, http.StatusOK)
}

// Delete handles DELETE of a document by id; idempotent
// @Summary      Delete a document
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} DeleteResult
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	result, err := h.store.Delete(r.Context(), id)
	if err != nil {
		logger.Error("failed to delete document", "id", id, "error", err.Error())
		respondInternalError(w)
		return
	}

	httputil.RespondJSON(w, result, http.StatusOK)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid document id", httputil.CodeInvalidID, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// respondInternalError returns an opaque failure: driver detail stays in
// the logs, never in the response
func respondInternalError(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
}
