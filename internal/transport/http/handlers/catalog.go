package http_handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/baechuer/nutrition-service/internal/application/catalog"
	"github.com/baechuer/nutrition-service/internal/transport/http/dto"
)

type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Units handles GET /api/units
func (h *CatalogHandler) Units(w http.ResponseWriter, r *http.Request) {
	us, err := h.svc.ListUnits(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, dto.FromUnits(us))
}

// MealTypes handles GET /api/meal-types
func (h *CatalogHandler) MealTypes(w http.ResponseWriter, r *http.Request) {
	ms, err := h.svc.ListMealTypes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, dto.FromMealTypes(ms))
}
