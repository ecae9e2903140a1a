package controllers

import (
	"log/slog"
	"net/http"

	h "eventconnect/internal/delivery/http/helpers"
	"eventconnect/internal/domain"
)

// CatalogController serves the read-only reference lists.
type CatalogController struct {
	Logger     *slog.Logger
	Categories domain.CategoryService
	Roles      domain.RoleService
}

func NewCatalogController(logger *slog.Logger, categories domain.CategoryService, roles domain.RoleService) *CatalogController {
	return &CatalogController{
		Logger:     logger,
		Categories: categories,
		Roles:      roles,
	}
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains categories ordered by id"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Categories.List(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, categories)
}

// ListRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains roles ordered by id"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /roles [get]
func (c *CatalogController) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := c.Roles.List(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if roles == nil {
		roles = []*domain.Role{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, roles)
}
