package usecase

import (
	"context"
	"errors"
	"net/http"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// お気に入りSKUの管理。
type FavouriteUsecase struct {
	favourites repo.FavouriteRepository
	catalog    repo.CatalogRepository
}

func NewFavouriteUsecase(favourites repo.FavouriteRepository, catalog repo.CatalogRepository) *FavouriteUsecase {
	return &FavouriteUsecase{favourites: favourites, catalog: catalog}
}

type FavouriteOutput struct {
	Kind      model.ProductKind `json:"kind"`
	VariantID int64             `json:"variant_id"`
	// 商品が消えていたらnil
	Variant *model.Variant `json:"variant,omitempty"`
}

// Add は二重登録でもエラーにしない。
func (u *FavouriteUsecase) Add(ctx context.Context, userID int64, kind model.ProductKind, variantID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !kind.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid kind")
	}
	if variantID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid variant_id")
	}

	//存在チェック
	if _, err := u.catalog.FindVariant(ctx, kind, variantID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.favourites.Add(ctx, model.Favourite{
		UserID:      userID,
		ProductKind: kind,
		VariantID:   variantID,
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *FavouriteUsecase) Remove(ctx context.Context, userID int64, kind model.ProductKind, variantID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !kind.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid kind")
	}

	err := u.favourites.Remove(ctx, userID, kind, variantID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// List は登録順（新しい順）。消えた商品の行も返すが、Variantはnilのまま。
func (u *FavouriteUsecase) List(ctx context.Context, userID int64) ([]FavouriteOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	favs, err := u.favourites.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//種別ごとに一括取得
	idsByKind := make(map[model.ProductKind][]int64)
	for _, f := range favs {
		idsByKind[f.ProductKind] = append(idsByKind[f.ProductKind], f.VariantID)
	}
	variants := make(map[model.ProductKind]map[int64]model.Variant)
	for kind, ids := range idsByKind {
		list, err := u.catalog.ListVariantsByIDs(ctx, kind, ids)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		m := make(map[int64]model.Variant, len(list))
		for _, v := range list {
			m[v.ID] = v
		}
		variants[kind] = m
	}

	out := make([]FavouriteOutput, 0, len(favs))
	for _, f := range favs {
		item := FavouriteOutput{Kind: f.ProductKind, VariantID: f.VariantID}
		if v, ok := variants[f.ProductKind][f.VariantID]; ok {
			v := v
			item.Variant = &v
		}
		out = append(out, item)
	}
	return out, nil
}
