// Package rest exposes the catalog handlers over HTTP.
package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/handler"
	"github.com/abgdnv/catalog/internal/product"
	"github.com/abgdnv/catalog/internal/repository"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const apiPrefix = "/api/products"

type Handler struct {
	api      *handler.API[product.Product]
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates the JSON API handler over the given product store.
func NewHandler(store repository.Repository[product.Product], logger *slog.Logger) *Handler {
	return &Handler{
		api:      handler.NewAPI(store, product.Identity),
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product API.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(apiPrefix, func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	outcome, err := h.api.ReadOne(r.Context(), id)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	if outcome.Kind == handler.KindNotFound {
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", outcome.Entity.ID, "Name", outcome.Entity.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, outcome.Entity)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	outcome, err := h.api.ReadAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	products := outcome.Entities
	if products == nil {
		products = []product.Product{}
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(products))
	web.RespondJSON(w, mLogger, http.StatusOK, products)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var payload product.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", payload)

	validationErrs, valid := h.check(payload)
	outcome, err := h.api.Create(r.Context(), payload, valid)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		if catalogerrors.IsDuplicateID(err) {
			web.RespondError(w, mLogger, http.StatusConflict, fmt.Sprintf("Product with ID %d already exists", payload.ID))
			return
		}
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	if outcome.Kind == handler.KindInvalidInput {
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", validationErrs)
		web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{
			"validation_errors": validationErrs,
			"product":           outcome.Entity,
		})
		return
	}

	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", outcome.Entity.ID, "Name", outcome.Entity.Name)
	w.Header().Set("Location", fmt.Sprintf("%s/%d", apiPrefix, outcome.Location))
	web.RespondJSON(w, mLogger, http.StatusCreated, outcome.Entity)
}

// Update replaces the product stored under the path ID.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var payload product.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrs, valid := h.check(payload); !valid {
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", validationErrs)
		web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": validationErrs})
		return
	}

	outcome, err := h.api.Update(r.Context(), id, payload)
	if err != nil {
		if catalogerrors.IsNotFound(err) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %d", id))
		return
	}
	if outcome.Kind == handler.KindIdentityMismatch {
		mLogger.WarnContext(r.Context(), "Product ID in body does not match path", "ID", id, "bodyID", payload.ID)
		web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Product ID %d does not match path ID %d", payload.ID, id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	outcome, err := h.api.Delete(r.Context(), id)
	if err != nil {
		if catalogerrors.IsNotFound(err) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	if outcome.Kind == handler.KindNotFound {
		mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// check runs the struct validator and reports the failed fields.
func (h *Handler) check(p product.Product) (map[string]string, bool) {
	return validate(h.validate, p)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}

func validate(v *validator.Validate, p product.Product) (map[string]string, bool) {
	err := v.Struct(p)
	if err == nil {
		return nil, true
	}
	if fields, ok := web.ValidationErrors(err); ok {
		return fields, false
	}
	return map[string]string{"": err.Error()}, false
}
