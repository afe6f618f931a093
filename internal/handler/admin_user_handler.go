package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"tyretrust/internal/config"
	"tyretrust/internal/middleware"
	"tyretrust/internal/repository"
	"tyretrust/internal/usecase"
)

// /admin/usersと/admin/audit-logsのHTTP
type AdminUserHandler struct {
	uc     *usecase.AdminUserUsecase
	authUC *usecase.AuthUsecase
	audit  *usecase.AuditLogUsecase
}

// DI
func NewAdminUserHandler(uc *usecase.AdminUserUsecase, authUC *usecase.AuthUsecase, audit *usecase.AuditLogUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc, authUC: authUC, audit: audit}
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/users", h.list)
	g.PATCH("/users/:id/active", h.setActive)
	g.POST("/users/:id/force-logout", h.forceLogout)
	g.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	page, limit := paginationParams(c)

	out, err := h.uc.List(c.Request().Context(), usecase.AdminUserListInput{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) setActive(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	targetID, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SetActive(c.Request().Context(), adminID, targetID, req.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 対象ユーザーの全トークンを失効させる
func (h *AdminUserHandler) forceLogout(c echo.Context) error {
	targetID, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.authUC.ForceLogout(c.Request().Context(), targetID)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /admin/audit-logs?actor=&action=&resource_type=&resource_id=&from=&to=
func (h *AdminUserHandler) listAuditLogs(c echo.Context) error {
	in := usecase.AuditLogListInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
	}
	if v := c.QueryParam("actor"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor"})
		}
		in.ActorUserID = &id
	}
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
		}
		in.ResourceID = &id
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		in.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		in.To = &t
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		in.Offset = n
	}

	out, err := h.audit.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
