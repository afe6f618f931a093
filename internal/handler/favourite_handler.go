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

// /favouritesのHTTP
type FavouriteHandler struct {
	uc *usecase.FavouriteUsecase
}

// DI
func NewFavouriteHandler(uc *usecase.FavouriteUsecase) *FavouriteHandler {
	return &FavouriteHandler{uc: uc}
}

type AddFavouriteRequest struct {
	Kind      string `json:"kind"`
	VariantID int64  `json:"variant_id"`
}

func (h *FavouriteHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/favourites")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("", h.list)
	g.POST("", h.add)
	g.DELETE("/:kind/:id", h.remove)
}

func (h *FavouriteHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FavouriteHandler) add(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddFavouriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Add(c.Request().Context(), userID, model.ProductKind(req.Kind), req.VariantID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, SuccessResponse{Message: "added"})
}

func (h *FavouriteHandler) remove(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	variantID, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Remove(c.Request().Context(), userID, model.ProductKind(c.Param("kind")), variantID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "removed"})
}
