package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tyretrust/internal/config"
	"tyretrust/internal/handler"
	"tyretrust/internal/repository"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Catalog      *handler.CatalogHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Auth         *handler.AuthHandler
	Favourite    *handler.FavouriteHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminCatalog *handler.AdminCatalogHandler
	AdminUser    *handler.AdminUserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h.Catalog.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Favourite.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.AdminCatalog.RegisterRoutes(e, cfg, userRepo)
	h.AdminUser.RegisterRoutes(e, cfg, userRepo)
}
