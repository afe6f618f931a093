package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	repo "tyretrust/internal/repository"
	"tyretrust/internal/usecase"
)

// /tyres /rims の公開API
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/tyres", h.listTyres)
	e.GET("/tyres/:id", h.getTyre)
	e.GET("/rims", h.listRims)
	e.GET("/rims/:id", h.getRim)
}

// GET /tyres
// HX-Request付きならファセットを省いた一覧フラグメントだけ返す。
func (h *CatalogHandler) listTyres(c echo.Context) error {
	page, limit := paginationParams(c)

	q := repo.TyreListQuery{
		Page:   page,
		Limit:  limit,
		Brand:  c.QueryParam("brand"),
		Season: c.QueryParam("season"),
	}
	q.Width = queryInt(c, "width")
	q.Profile = queryInt(c, "profile")
	q.Radius = queryInt(c, "radius")
	q.Studded = queryBool(c, "studded")
	q.MinPrice = queryDecimal(c, "min_price")
	q.MaxPrice = queryDecimal(c, "max_price")

	out, err := h.uc.ListTyres(c.Request().Context(), q, !isFragmentRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) getTyre(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetTyre(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /rims
func (h *CatalogHandler) listRims(c echo.Context) error {
	page, limit := paginationParams(c)

	q := repo.RimListQuery{
		Page:        page,
		Limit:       limit,
		Brand:       c.QueryParam("brand"),
		BoltPattern: c.QueryParam("bolt_pattern"),
	}
	q.Diameter = queryFloat(c, "diameter")
	q.Width = queryFloat(c, "width")
	q.MinPrice = queryDecimal(c, "min_price")
	q.MaxPrice = queryDecimal(c, "max_price")

	out, err := h.uc.ListRims(c.Request().Context(), q, !isFragmentRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) getRim(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetRim(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 不正値はフィルタ無し扱い
func queryInt(c echo.Context, name string) *int {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func queryFloat(c echo.Context, name string) *float64 {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func queryBool(c echo.Context, name string) *bool {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func queryDecimal(c echo.Context, name string) *decimal.Decimal {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}
