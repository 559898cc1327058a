// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	perrors "github.com/grocerydesk/catalog/internal/errors"
	"github.com/grocerydesk/catalog/internal/service"
	"github.com/grocerydesk/catalog/internal/store"
	"github.com/grocerydesk/catalog/pkg/web"
)

const (
	basePath        = "/api/product"
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new product API handler backed by service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: newValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes mounts the product API on r. middlewares guard every product route, not the health check.
func (h *Handler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.Route(basePath, func(r chi.Router) {
		r.Use(middlewares...)

		r.Post("/", h.Register)
		r.Get("/", h.List)
		r.Get("/list", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Patch("/storage/add/{quantity}", h.AddStorage)
			r.Patch("/storage/remove/{quantity}", h.RemoveStorage)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// Register creates a product from the request body.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	saved, err := h.service.Register(r.Context(), req.toDraft())
	if err != nil {
		h.respondServiceError(w, r, err, "Error registering product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product registered", "ID", saved.ID, "Name", saved.Name)
	w.Header().Set("Location", fmt.Sprintf("%s/%s", basePath, saved.ID))
	web.RespondJSON(w, h.logger, http.StatusCreated, toProductResponse(*saved))
}

// FindByID returns a single product.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, toProductResponse(*product))
}

// List returns one page of products filtered by the optional name query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := web.ParseQueryGte(r, w, h.logger, "page", 0, 0)
	if !ok {
		return
	}
	size, ok := web.ParseQueryGte(r, w, h.logger, "size", defaultPageSize, 1)
	if !ok {
		return
	}
	size = min(size, maxPageSize)
	name := r.URL.Query().Get("name")

	h.logger.DebugContext(r.Context(), "Listing products", "name", name, "page", page, "size", size)
	result, err := h.service.ListAll(r.Context(), name, store.PageRequest{Page: page, Size: size})
	if err != nil {
		h.respondServiceError(w, r, err, "Error listing products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, toPageResponse(*result))
}

// Update applies a partial update to an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	current, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	var req ProductPatchRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), *current, req.toPatch())
	if err != nil {
		h.respondServiceError(w, r, err, "Error updating product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated", "ID", updated.ID)
	web.RespondJSON(w, h.logger, http.StatusOK, toProductResponse(*updated))
}

// Delete removes an existing product.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), product); err != nil {
		h.respondServiceError(w, r, err, "Error deleting product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted", "ID", product.ID)
	w.WriteHeader(http.StatusNoContent)
}

// AddStorage restocks a product by the quantity path parameter.
func (h *Handler) AddStorage(w http.ResponseWriter, r *http.Request) {
	h.adjustStorage(w, r, h.service.AddStorage)
}

// RemoveStorage consumes the quantity path parameter from a product's stock.
func (h *Handler) RemoveStorage(w http.ResponseWriter, r *http.Request) {
	h.adjustStorage(w, r, h.service.RemoveStorage)
}

type adjustFunc func(ctx context.Context, product store.Product, quantity int32) (*store.Product, error)

func (h *Handler) adjustStorage(w http.ResponseWriter, r *http.Request, adjust adjustFunc) {
	quantity, ok := web.ParsePathInt(r, w, h.logger, "quantity")
	if !ok {
		return
	}
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	adjusted, err := adjust(r.Context(), *product, quantity)
	if err != nil {
		h.respondServiceError(w, r, err, "Error adjusting storage")
		return
	}
	h.logger.InfoContext(r.Context(), "Storage adjusted", "ID", adjusted.ID, "quantity", adjusted.Quantity)
	web.RespondJSON(w, h.logger, http.StatusOK, toProductResponse(*adjusted))
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loadProduct resolves the {id} path parameter to a stored product, answering 400/404/500 itself.
func (h *Handler) loadProduct(w http.ResponseWriter, r *http.Request) (*store.Product, bool) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return nil, false
	}
	product, found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Error retrieving product")
		return nil, false
	}
	if !found {
		h.logger.DebugContext(r.Context(), "Product not found", "ID", id)
		web.RespondStatus(w, h.logger, http.StatusNotFound)
		return nil, false
	}
	return product, true
}

// decodeValid decodes the JSON body into dst and validates it.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := validationMessages(validationErrors)
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", messages)
			web.RespondErrors(w, h.logger, http.StatusBadRequest, messages)
			return false
		}
		h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondServiceError maps service errors to HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var ruleErr *perrors.BusinessRuleError
	var preconditionErr *perrors.PreconditionError
	switch {
	case errors.As(err, &ruleErr):
		h.logger.InfoContext(r.Context(), "Business rule violated", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, ruleErr.Message)
	case errors.As(err, &preconditionErr):
		h.logger.WarnContext(r.Context(), "Precondition failed", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, preconditionErr.Message)
	case errors.Is(err, perrors.ErrProductNotFound):
		web.RespondStatus(w, h.logger, http.StatusNotFound)
	default:
		h.logger.ErrorContext(r.Context(), logMsg, "error", err)
		web.RespondStatus(w, h.logger, http.StatusInternalServerError)
	}
}
