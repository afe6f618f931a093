package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tyretrust/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// タイヤカタログの一覧検索
type TyreListQuery struct {
	Page     int
	Limit    int
	Brand    string
	Width    *int
	Profile  *int
	Radius   *int
	Season   string
	Studded  *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ホイールカタログの一覧検索
type RimListQuery struct {
	Page        int
	Limit       int
	Brand       string
	Diameter    *float64
	Width       *float64
	BoltPattern string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// 絞り込みUI用のファセット値（重複除去済み・昇順）
type TyreFacets struct {
	Brands   []string `json:"brands"`
	Widths   []int    `json:"widths"`
	Profiles []int    `json:"profiles"`
	Radiuses []int    `json:"radiuses"`
	Seasons  []string `json:"seasons"`
}

type RimFacets struct {
	Brands       []string  `json:"brands"`
	Diameters    []float64 `json:"diameters"`
	BoltPatterns []string  `json:"bolt_patterns"`
}

// CatalogRepository はカタログ側の唯一の読み口。
// price / stock はここから読む現在値が正で、1リクエストを越えてキャッシュしない。
type CatalogRepository interface {
	// 種別共通のSKUビュー取得。無ければ ErrNotFound。
	FindVariant(ctx context.Context, kind model.ProductKind, id int64) (model.Variant, error)
	// 種別ごとの一括取得（N+1回避）。見つかったものだけ返す。
	ListVariantsByIDs(ctx context.Context, kind model.ProductKind, ids []int64) ([]model.Variant, error)

	ListTyreModels(ctx context.Context, q TyreListQuery) ([]model.TyreModel, int64, error)
	FindTyreModelByID(ctx context.Context, id int64) (model.TyreModel, error)
	TyreFacets(ctx context.Context) (TyreFacets, error)

	ListRimModels(ctx context.Context, q RimListQuery) ([]model.RimModel, int64, error)
	FindRimModelByID(ctx context.Context, id int64) (model.RimModel, error)
	RimFacets(ctx context.Context) (RimFacets, error)

	// 管理画面用のCRUD
	CreateTyreModel(ctx context.Context, m model.TyreModel) (int64, error)
	UpdateTyreModel(ctx context.Context, m model.TyreModel) error
	DeleteTyreModel(ctx context.Context, id int64) error
	CreateTyreVariant(ctx context.Context, v model.TyreVariant) (int64, error)
	UpdateTyreVariant(ctx context.Context, v model.TyreVariant) error
	DeleteTyreVariant(ctx context.Context, id int64) error

	CreateRimModel(ctx context.Context, m model.RimModel) (int64, error)
	UpdateRimModel(ctx context.Context, m model.RimModel) error
	DeleteRimModel(ctx context.Context, id int64) error
	CreateRimVariant(ctx context.Context, v model.RimVariant) (int64, error)
	UpdateRimVariant(ctx context.Context, v model.RimVariant) error
	DeleteRimVariant(ctx context.Context, id int64) error
}
