package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"tyretrust/internal/config"
	"tyretrust/internal/domain/model"
	"tyretrust/internal/handler"
	"tyretrust/internal/infra/db"
	infraRepo "tyretrust/internal/infra/repository"
	"tyretrust/internal/infra/session"
	"tyretrust/internal/logging"
	"tyretrust/internal/server"
	"tyretrust/internal/usecase"
	"tyretrust/internal/validator"
)

// カートセッションの保持期間
const cartSessionTTL = 14 * 24 * time.Hour

func main() {
	// .envは無くてもよい（本番は環境変数直置き）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.Init("api", cfg.LogPath)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.TyreModel{},
		&model.TyreVariant{},
		&model.RimModel{},
		&model.RimVariant{},
		&model.Order{},
		&model.OrderItem{},
		&model.Favourite{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		logger.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	//Redis（カートセッション置き場）
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	cartStore := session.NewRedisCartStore(rdb, cartSessionTTL)

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	catalogRepo := infraRepo.NewCatalogGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	favRepo := infraRepo.NewFavouriteGormRepository(gormDB)
	txManager := infraRepo.NewGormTransactionManager(gormDB)

	//Validator
	authValidator := validator.NewAuthValidator(userRepo)
	orderValidator := validator.NewOrderValidator()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, authValidator)
	catalogUC := usecase.NewCatalogUsecase(catalogRepo)
	cartUC := usecase.NewCartUsecase(cartStore, catalogRepo)
	orderUC := usecase.NewOrderUsecase(txManager, cartStore, orderRepo, orderItemRepo, orderValidator, logger)
	favUC := usecase.NewFavouriteUsecase(favRepo, catalogRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	adminCatalogUC := usecase.NewAdminCatalogUsecase(catalogRepo, inventoryRepo, auditRepo)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, auditRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	cookieSecure := cfg.GoEnv != "dev"
	handlers := server.Handlers{
		Catalog:      handler.NewCatalogHandler(catalogUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		Auth:         handler.NewAuthHandler(authUC, cookieSecure),
		Favourite:    handler.NewFavouriteHandler(favUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminCatalog: handler.NewAdminCatalogHandler(adminCatalogUC),
		AdminUser:    handler.NewAdminUserHandler(adminUserUC, authUC, auditUC),
	}

	//Server起動
	e := server.New(logger)
	server.RegisterRoutes(e, cfg, userRepo, handlers)

	addr := ":" + cfg.Port
	logger.Info("server starting", "addr", addr)
	if err := e.Start(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
