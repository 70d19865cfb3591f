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

const viewPrefix = "/products"

// viewModel is what a page-style endpoint renders: the template name and its data.
type viewModel struct {
	View             string            `json:"view"`
	Model            any               `json:"model,omitempty"`
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
}

// ViewHandler serves the page-style product endpoints as JSON view models.
type ViewHandler struct {
	view     *handler.View[product.Product]
	validate *validator.Validate
	logger   *slog.Logger
}

func NewViewHandler(store repository.Repository[product.Product], logger *slog.Logger) *ViewHandler {
	return &ViewHandler{
		view:     handler.NewView(store, product.Identity),
		validate: validator.New(),
		logger:   logger.With("component", "view"),
	}
}

// RegisterRoutes registers the page-style routes. Routes without an id pass a nil id to the view logic.
func (h *ViewHandler) RegisterRoutes(r chi.Router) {
	r.Route(viewPrefix, func(r chi.Router) {
		r.Get("/", h.Index)

		r.Get("/details", h.Details)
		r.Get("/details/{id}", h.Details)

		r.Get("/create", h.NewForm)
		r.Post("/create", h.Create)

		r.Get("/edit", h.Edit)
		r.Get("/edit/{id}", h.Edit)
		r.Post("/edit/{id}", h.EditSubmit)

		r.Get("/delete", h.Delete)
		r.Get("/delete/{id}", h.Delete)
		r.Post("/delete/{id}", h.DeleteConfirmed)
	})
}

func (h *ViewHandler) Index(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	outcome, err := h.view.Index(r.Context())
	h.render(w, r, mLogger, "Index", outcome, err)
}

func (h *ViewHandler) Details(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := h.optionalID(w, r, mLogger)
	if !ok {
		return
	}
	outcome, err := h.view.Details(r.Context(), id)
	h.render(w, r, mLogger, "Details", outcome, err)
}

func (h *ViewHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	h.render(w, r, mLogger, "Create", h.view.NewForm(), nil)
}

func (h *ViewHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	payload, ok := h.decode(w, r, mLogger)
	if !ok {
		return
	}
	validationErrs, valid := validate(h.validate, payload)
	outcome, err := h.view.Create(r.Context(), payload, valid)
	if err == nil && outcome.Kind == handler.KindInvalidInput {
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", validationErrs)
		web.RespondJSON(w, mLogger, http.StatusOK, viewModel{View: "Create", Model: outcome.Entity, ValidationErrors: validationErrs})
		return
	}
	h.render(w, r, mLogger, "Create", outcome, err)
}

func (h *ViewHandler) Edit(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := h.optionalID(w, r, mLogger)
	if !ok {
		return
	}
	outcome, err := h.view.Edit(r.Context(), id)
	h.render(w, r, mLogger, "Edit", outcome, err)
}

func (h *ViewHandler) EditSubmit(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	payload, ok := h.decode(w, r, mLogger)
	if !ok {
		return
	}
	validationErrs, valid := validate(h.validate, payload)
	outcome, err := h.view.EditSubmit(r.Context(), id, payload, valid)
	if err == nil && outcome.Kind == handler.KindInvalidInput {
		mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", validationErrs)
		web.RespondJSON(w, mLogger, http.StatusOK, viewModel{View: "Edit", Model: outcome.Entity, ValidationErrors: validationErrs})
		return
	}
	h.render(w, r, mLogger, "Edit", outcome, err)
}

func (h *ViewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := h.optionalID(w, r, mLogger)
	if !ok {
		return
	}
	outcome, err := h.view.Delete(r.Context(), id)
	h.render(w, r, mLogger, "Delete", outcome, err)
}

func (h *ViewHandler) DeleteConfirmed(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	outcome, err := h.view.DeleteConfirmed(r.Context(), id)
	h.render(w, r, mLogger, "Delete", outcome, err)
}

// render writes an outcome of the view logic. Store errors become 500 and a missing entity 404.
func (h *ViewHandler) render(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, view string, outcome handler.Outcome[product.Product], err error) {
	if catalogerrors.IsNotFound(err) {
		mLogger.WarnContext(r.Context(), "Product vanished before the write", "view", view, "error", err)
		web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error handling view request", "view", view, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to render %s", view))
		return
	}
	switch outcome.Kind {
	case handler.KindFound:
		var model any = outcome.Entity
		if view == "Index" {
			model = outcome.Entities
			if outcome.Entities == nil {
				model = []product.Product{}
			}
		}
		web.RespondJSON(w, mLogger, http.StatusOK, viewModel{View: view, Model: model})
	case handler.KindForm:
		web.RespondJSON(w, mLogger, http.StatusOK, viewModel{View: view})
	case handler.KindRedirectToIndex:
		http.Redirect(w, r, viewPrefix, http.StatusFound)
	case handler.KindNotFound, handler.KindIdentityMismatch:
		mLogger.WarnContext(r.Context(), "Product not found", "view", view, "outcome", outcome.Kind)
		web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
	default:
		mLogger.ErrorContext(r.Context(), "Unexpected view outcome", "view", view, "outcome", outcome.Kind)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to render %s", view))
	}
}

// optionalID returns nil when the route carries no id segment.
func (h *ViewHandler) optionalID(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (*int64, bool) {
	if chi.URLParam(r, "id") == "" {
		return nil, true
	}
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return nil, false
	}
	return &id, true
}

func (h *ViewHandler) decode(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (product.Product, bool) {
	var payload product.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return payload, false
	}
	return payload, true
}

func (h *ViewHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}
