package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tyretrust/internal/config"
	"tyretrust/internal/domain/model"
	"tyretrust/internal/middleware"
	"tyretrust/internal/repository"
	"tyretrust/internal/usecase"
)

// /admin/tyres /admin/rims /admin/variantsのHTTP
type AdminCatalogHandler struct {
	uc *usecase.AdminCatalogUsecase
}

// DI
func NewAdminCatalogHandler(uc *usecase.AdminCatalogUsecase) *AdminCatalogHandler {
	return &AdminCatalogHandler{uc: uc}
}

type SetStockRequest struct {
	Kind      string `json:"kind"`
	VariantID int64  `json:"variant_id"`
	NewStock  int64  `json:"new_stock"`
	Reason    string `json:"reason"`
}

func (h *AdminCatalogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.POST("/tyres", h.createTyreModel)
	g.PUT("/tyres/:id", h.updateTyreModel)
	g.DELETE("/tyres/:id", h.deleteTyreModel)
	g.POST("/tyres/variants", h.createTyreVariant)
	g.PUT("/tyres/variants/:id", h.updateTyreVariant)
	g.DELETE("/tyres/variants/:id", h.deleteTyreVariant)

	g.POST("/rims", h.createRimModel)
	g.PUT("/rims/:id", h.updateRimModel)
	g.DELETE("/rims/:id", h.deleteRimModel)
	g.POST("/rims/variants", h.createRimVariant)
	g.PUT("/rims/variants/:id", h.updateRimVariant)
	g.DELETE("/rims/variants/:id", h.deleteRimVariant)

	g.PUT("/variants/stock", h.setStock)
}

func (h *AdminCatalogHandler) createTyreModel(c echo.Context) error {
	var req usecase.TyreModelInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.CreateTyreModel(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateTyreModel(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req usecase.TyreModelInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.uc.UpdateTyreModel(c.Request().Context(), id, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminCatalogHandler) deleteTyreModel(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.uc.DeleteTyreModel(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminCatalogHandler) createTyreVariant(c echo.Context) error {
	var req usecase.TyreVariantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.CreateTyreVariant(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateTyreVariant(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req usecase.TyreVariantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.uc.UpdateTyreVariant(c.Request().Context(), id, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminCatalogHandler) deleteTyreVariant(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.uc.DeleteTyreVariant(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminCatalogHandler) createRimModel(c echo.Context) error {
	var req usecase.RimModelInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.CreateRimModel(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateRimModel(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req usecase.RimModelInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.uc.UpdateRimModel(c.Request().Context(), id, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminCatalogHandler) deleteRimModel(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.uc.DeleteRimModel(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminCatalogHandler) createRimVariant(c echo.Context) error {
	var req usecase.RimVariantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.CreateRimVariant(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminCatalogHandler) updateRimVariant(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req usecase.RimVariantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.uc.UpdateRimVariant(c.Request().Context(), id, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminCatalogHandler) deleteRimVariant(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.uc.DeleteRimVariant(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

// PUT /admin/variants/stock
func (h *AdminCatalogHandler) setStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.SetStock(c.Request().Context(), adminID, usecase.SetStockInput{
		Kind:      model.ProductKind(req.Kind),
		VariantID: req.VariantID,
		NewStock:  req.NewStock,
		Reason:    req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "stock updated"})
}
