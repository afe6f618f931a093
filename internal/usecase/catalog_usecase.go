package usecase

import (
	"context"
	"errors"
	"net/http"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

// 公開カタログの閲覧。
type CatalogUsecase struct {
	catalog repo.CatalogRepository
}

func NewCatalogUsecase(catalog repo.CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog}
}

type TyreListOutput struct {
	Items []model.TyreModel `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	// 絞り込みUI用。フラグメント応答では省略される。
	Facets *repo.TyreFacets `json:"facets,omitempty"`
}

type RimListOutput struct {
	Items  []model.RimModel `json:"items"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Limit  int              `json:"limit"`
	Facets *repo.RimFacets  `json:"facets,omitempty"`
}

// ListTyres は絞り込み付きの一覧。
// withFacets=false はフラグメント応答（一覧部分だけ差し替える）用。
func (u *CatalogUsecase) ListTyres(ctx context.Context, q repo.TyreListQuery, withFacets bool) (TyreListOutput, error) {
	if q.Page < 1 {
		return TyreListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return TyreListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if q.Season != "" && !model.TyreSeason(q.Season).Valid() {
		return TyreListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid season")
	}

	items, total, err := u.catalog.ListTyreModels(ctx, q)
	if err != nil {
		return TyreListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := TyreListOutput{Items: items, Total: total, Page: q.Page, Limit: q.Limit}
	if withFacets {
		f, err := u.catalog.TyreFacets(ctx)
		if err != nil {
			return TyreListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out.Facets = &f
	}
	return out, nil
}

func (u *CatalogUsecase) GetTyre(ctx context.Context, id int64) (model.TyreModel, error) {
	m, err := u.catalog.FindTyreModelByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.TyreModel{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.TyreModel{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}

func (u *CatalogUsecase) ListRims(ctx context.Context, q repo.RimListQuery, withFacets bool) (RimListOutput, error) {
	if q.Page < 1 {
		return RimListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return RimListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.catalog.ListRimModels(ctx, q)
	if err != nil {
		return RimListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := RimListOutput{Items: items, Total: total, Page: q.Page, Limit: q.Limit}
	if withFacets {
		f, err := u.catalog.RimFacets(ctx)
		if err != nil {
			return RimListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out.Facets = &f
	}
	return out, nil
}

func (u *CatalogUsecase) GetRim(ctx context.Context, id int64) (model.RimModel, error) {
	m, err := u.catalog.FindRimModelByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.RimModel{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.RimModel{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}
