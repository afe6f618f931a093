package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tyretrust/internal/domain/model"
	"tyretrust/internal/middleware"
	"tyretrust/internal/usecase"
)

// /cartのHTTP。ログイン不要で、cart_session cookieが鍵。
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	Kind      string `json:"kind"`
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	// trueなら数量を上書き
	UpdateQuantity bool `json:"update_quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// /cart, /cart/{kind}/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")
	g.Use(middleware.CartSession())

	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.PATCH("/:kind/:id", h.patchItem)
	g.DELETE("/:kind/:id", h.deleteItem)
	g.DELETE("", h.clearCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	sessionID, ok := getCartSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "session error"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), sessionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	sessionID, ok := getCartSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "session error"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), sessionID, usecase.AddCartInput{
		Kind:           model.ProductKind(req.Kind),
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		UpdateQuantity: req.UpdateQuantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) patchItem(c echo.Context) error {
	sessionID, ok := getCartSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "session error"})
	}

	productID, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), sessionID,
		model.ProductKind(c.Param("kind")), productID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	sessionID, ok := getCartSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "session error"})
	}

	productID, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.RemoveFromCart(c.Request().Context(), sessionID,
		model.ProductKind(c.Param("kind")), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clearCart(c echo.Context) error {
	sessionID, ok := getCartSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "session error"})
	}

	if err := h.uc.ClearCart(c.Request().Context(), sessionID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "cart cleared"})
}
