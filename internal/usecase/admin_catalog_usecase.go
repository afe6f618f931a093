package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// 管理者向けのカタログCRUDと在庫設定。
type AdminCatalogUsecase struct {
	catalog   repo.CatalogRepository
	inventory repo.InventoryRepository
	audit     repo.AuditLogRepository
}

func NewAdminCatalogUsecase(
	catalog repo.CatalogRepository,
	inventory repo.InventoryRepository,
	audit repo.AuditLogRepository,
) *AdminCatalogUsecase {
	return &AdminCatalogUsecase{
		catalog:   catalog,
		inventory: inventory,
		audit:     audit,
	}
}

type TyreModelInput struct {
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type TyreVariantInput struct {
	TyreModelID int64           `json:"tyre_model_id"`
	Width       int             `json:"width"`
	Profile     int             `json:"profile"`
	Radius      int             `json:"radius"`
	Season      string          `json:"season"`
	Studded     bool            `json:"studded"`
	SpeedIndex  string          `json:"speed_index"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
}

type RimModelInput struct {
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type RimVariantInput struct {
	RimModelID  int64           `json:"rim_model_id"`
	Diameter    float64         `json:"diameter"`
	Width       float64         `json:"width"`
	BoltPattern string          `json:"bolt_pattern"`
	Offset      string          `json:"offset"`
	Dia         string          `json:"dia"`
	Color       string          `json:"color"`
	Material    string          `json:"material"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
}

func (in TyreModelInput) validate() error {
	if strings.TrimSpace(in.Brand) == "" || strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "brand and name are required")
	}
	return nil
}

func (in TyreVariantInput) validate() error {
	if in.TyreModelID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid tyre_model_id")
	}
	if in.Width <= 0 || in.Profile <= 0 || in.Radius <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid size")
	}
	if !model.TyreSeason(in.Season).Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid season")
	}
	if in.Price.IsNegative() || in.Price.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}
	return nil
}

func (in RimModelInput) validate() error {
	if strings.TrimSpace(in.Brand) == "" || strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "brand and name are required")
	}
	return nil
}

func (in RimVariantInput) validate() error {
	if in.RimModelID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid rim_model_id")
	}
	if in.Diameter <= 0 || in.Width <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid size")
	}
	if strings.TrimSpace(in.BoltPattern) == "" {
		return NewHTTPError(http.StatusBadRequest, "bolt_pattern is required")
	}
	if in.Price.IsNegative() || in.Price.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}
	return nil
}

func (u *AdminCatalogUsecase) CreateTyreModel(ctx context.Context, in TyreModelInput) (model.TyreModel, error) {
	if err := in.validate(); err != nil {
		return model.TyreModel{}, err
	}
	m := model.TyreModel{
		Brand:       strings.TrimSpace(in.Brand),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	id, err := u.catalog.CreateTyreModel(ctx, m)
	if err != nil {
		return model.TyreModel{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	m.ID = id
	return m, nil
}

func (u *AdminCatalogUsecase) UpdateTyreModel(ctx context.Context, id int64, in TyreModelInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	err := u.catalog.UpdateTyreModel(ctx, model.TyreModel{
		ID:          id,
		Brand:       strings.TrimSpace(in.Brand),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
	return u.mapWriteError(err)
}

func (u *AdminCatalogUsecase) DeleteTyreModel(ctx context.Context, id int64) error {
	return u.mapWriteError(u.catalog.DeleteTyreModel(ctx, id))
}

func (u *AdminCatalogUsecase) CreateTyreVariant(ctx context.Context, in TyreVariantInput) (model.TyreVariant, error) {
	if err := in.validate(); err != nil {
		return model.TyreVariant{}, err
	}
	// 親モデルの存在チェック
	if _, err := u.catalog.FindTyreModelByID(ctx, in.TyreModelID); err != nil {
		return model.TyreVariant{}, u.mapWriteError(err)
	}
	v := model.TyreVariant{
		TyreModelID: in.TyreModelID,
		Width:       in.Width,
		Profile:     in.Profile,
		Radius:      in.Radius,
		Season:      model.TyreSeason(in.Season),
		Studded:     in.Studded,
		SpeedIndex:  strings.TrimSpace(in.SpeedIndex),
		Price:       in.Price,
		Stock:       in.Stock,
	}
	id, err := u.catalog.CreateTyreVariant(ctx, v)
	if err != nil {
		return model.TyreVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	v.ID = id
	return v, nil
}

func (u *AdminCatalogUsecase) UpdateTyreVariant(ctx context.Context, id int64, in TyreVariantInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return u.mapWriteError(u.catalog.UpdateTyreVariant(ctx, model.TyreVariant{
		ID:         id,
		Width:      in.Width,
		Profile:    in.Profile,
		Radius:     in.Radius,
		Season:     model.TyreSeason(in.Season),
		Studded:    in.Studded,
		SpeedIndex: strings.TrimSpace(in.SpeedIndex),
		Price:      in.Price,
		Stock:      in.Stock,
	}))
}

func (u *AdminCatalogUsecase) DeleteTyreVariant(ctx context.Context, id int64) error {
	return u.mapWriteError(u.catalog.DeleteTyreVariant(ctx, id))
}

func (u *AdminCatalogUsecase) CreateRimModel(ctx context.Context, in RimModelInput) (model.RimModel, error) {
	if err := in.validate(); err != nil {
		return model.RimModel{}, err
	}
	m := model.RimModel{
		Brand:       strings.TrimSpace(in.Brand),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	id, err := u.catalog.CreateRimModel(ctx, m)
	if err != nil {
		return model.RimModel{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	m.ID = id
	return m, nil
}

func (u *AdminCatalogUsecase) UpdateRimModel(ctx context.Context, id int64, in RimModelInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	err := u.catalog.UpdateRimModel(ctx, model.RimModel{
		ID:          id,
		Brand:       strings.TrimSpace(in.Brand),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
	return u.mapWriteError(err)
}

func (u *AdminCatalogUsecase) DeleteRimModel(ctx context.Context, id int64) error {
	return u.mapWriteError(u.catalog.DeleteRimModel(ctx, id))
}

func (u *AdminCatalogUsecase) CreateRimVariant(ctx context.Context, in RimVariantInput) (model.RimVariant, error) {
	if err := in.validate(); err != nil {
		return model.RimVariant{}, err
	}
	if _, err := u.catalog.FindRimModelByID(ctx, in.RimModelID); err != nil {
		return model.RimVariant{}, u.mapWriteError(err)
	}
	v := model.RimVariant{
		RimModelID:  in.RimModelID,
		Diameter:    in.Diameter,
		Width:       in.Width,
		BoltPattern: strings.TrimSpace(in.BoltPattern),
		Offset:      strings.TrimSpace(in.Offset),
		Dia:         strings.TrimSpace(in.Dia),
		Color:       in.Color,
		Material:    in.Material,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	id, err := u.catalog.CreateRimVariant(ctx, v)
	if err != nil {
		return model.RimVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	v.ID = id
	return v, nil
}

func (u *AdminCatalogUsecase) UpdateRimVariant(ctx context.Context, id int64, in RimVariantInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return u.mapWriteError(u.catalog.UpdateRimVariant(ctx, model.RimVariant{
		ID:          id,
		Diameter:    in.Diameter,
		Width:       in.Width,
		BoltPattern: strings.TrimSpace(in.BoltPattern),
		Offset:      strings.TrimSpace(in.Offset),
		Dia:         strings.TrimSpace(in.Dia),
		Color:       in.Color,
		Material:    in.Material,
		Price:       in.Price,
		Stock:       in.Stock,
	}))
}

func (u *AdminCatalogUsecase) DeleteRimVariant(ctx context.Context, id int64) error {
	return u.mapWriteError(u.catalog.DeleteRimVariant(ctx, id))
}

type SetStockInput struct {
	Kind      model.ProductKind `json:"kind"`
	VariantID int64             `json:"variant_id"`
	NewStock  int64             `json:"new_stock"`
	Reason    string            `json:"reason"`
}

// SetStock は在庫の絶対値を設定し、差分を調整履歴と監査ログに残す。
func (u *AdminCatalogUsecase) SetStock(ctx context.Context, adminUserID int64, in SetStockInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !in.Kind.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid kind")
	}
	if in.VariantID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}
	if in.NewStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return NewHTTPError(http.StatusBadRequest, "reason is required")
	}

	// 差分計算のため現在値を読む
	v, err := u.catalog.FindVariant(ctx, in.Kind, in.VariantID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventory.SetStock(ctx, in.Kind, in.VariantID, in.NewStock); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//調整履歴
	_ = u.inventory.CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductKind: in.Kind,
		VariantID:   in.VariantID,
		AdminUserID: adminUserID,
		Delta:       in.NewStock - v.Stock,
		Reason:      reason,
	})

	//監査ログ
	beforeJSON, _ := json.Marshal(map[string]int64{"stock": v.Stock})
	afterJSON, _ := json.Marshal(map[string]int64{"stock": in.NewStock})
	_ = u.audit.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceForKind(in.Kind),
		ResourceID:   in.VariantID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
	})

	return nil
}

func (u *AdminCatalogUsecase) mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
