package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// 種別共通のSKUビューを1件取得
func (r *CatalogGormRepository) FindVariant(ctx context.Context, kind model.ProductKind, id int64) (model.Variant, error) {
	switch kind {
	case model.ProductKindTyre:
		var v model.TyreVariant
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
			return model.Variant{}, notFoundOr(err)
		}
		var m model.TyreModel
		if err := r.db.WithContext(ctx).Where("id = ?", v.TyreModelID).First(&m).Error; err != nil {
			return model.Variant{}, notFoundOr(err)
		}
		return v.AsVariant(m), nil

	case model.ProductKindRim:
		var v model.RimVariant
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
			return model.Variant{}, notFoundOr(err)
		}
		var m model.RimModel
		if err := r.db.WithContext(ctx).Where("id = ?", v.RimModelID).First(&m).Error; err != nil {
			return model.Variant{}, notFoundOr(err)
		}
		return v.AsVariant(m), nil
	}

	return model.Variant{}, repo.ErrNotFound
}

// 種別ごとの一括取得。存在しないIDは黙って飛ばす。
func (r *CatalogGormRepository) ListVariantsByIDs(ctx context.Context, kind model.ProductKind, ids []int64) ([]model.Variant, error) {
	if len(ids) == 0 {
		return []model.Variant{}, nil
	}

	switch kind {
	case model.ProductKindTyre:
		var variants []model.TyreVariant
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&variants).Error; err != nil {
			return nil, err
		}
		models, err := r.tyreModelsFor(ctx, variants)
		if err != nil {
			return nil, err
		}
		out := make([]model.Variant, 0, len(variants))
		for _, v := range variants {
			out = append(out, v.AsVariant(models[v.TyreModelID]))
		}
		return out, nil

	case model.ProductKindRim:
		var variants []model.RimVariant
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&variants).Error; err != nil {
			return nil, err
		}
		models, err := r.rimModelsFor(ctx, variants)
		if err != nil {
			return nil, err
		}
		out := make([]model.Variant, 0, len(variants))
		for _, v := range variants {
			out = append(out, v.AsVariant(models[v.RimModelID]))
		}
		return out, nil
	}

	return []model.Variant{}, nil
}

func (r *CatalogGormRepository) tyreModelsFor(ctx context.Context, variants []model.TyreVariant) (map[int64]model.TyreModel, error) {
	ids := make([]int64, 0, len(variants))
	seen := make(map[int64]bool)
	for _, v := range variants {
		if !seen[v.TyreModelID] {
			seen[v.TyreModelID] = true
			ids = append(ids, v.TyreModelID)
		}
	}
	out := make(map[int64]model.TyreModel, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []model.TyreModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	for _, m := range models {
		out[m.ID] = m
	}
	return out, nil
}

func (r *CatalogGormRepository) rimModelsFor(ctx context.Context, variants []model.RimVariant) (map[int64]model.RimModel, error) {
	ids := make([]int64, 0, len(variants))
	seen := make(map[int64]bool)
	for _, v := range variants {
		if !seen[v.RimModelID] {
			seen[v.RimModelID] = true
			ids = append(ids, v.RimModelID)
		}
	}
	out := make(map[int64]model.RimModel, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []model.RimModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	for _, m := range models {
		out[m.ID] = m
	}
	return out, nil
}

// ファセット条件に合うタイヤモデルを一覧。
// SKU側の条件はサブクエリでモデルに畳む。
func (r *CatalogGormRepository) ListTyreModels(ctx context.Context, q repo.TyreListQuery) ([]model.TyreModel, int64, error) {
	sub := r.db.WithContext(ctx).Model(&model.TyreVariant{}).Select("tyre_model_id")
	hasVariantFilter := false

	if q.Width != nil {
		sub = sub.Where("width = ?", *q.Width)
		hasVariantFilter = true
	}
	if q.Profile != nil {
		sub = sub.Where("profile = ?", *q.Profile)
		hasVariantFilter = true
	}
	if q.Radius != nil {
		sub = sub.Where("radius = ?", *q.Radius)
		hasVariantFilter = true
	}
	if q.Season != "" {
		sub = sub.Where("season = ?", q.Season)
		hasVariantFilter = true
	}
	if q.Studded != nil {
		sub = sub.Where("studded = ?", *q.Studded)
		hasVariantFilter = true
	}
	if q.MinPrice != nil {
		sub = sub.Where("price >= ?", *q.MinPrice)
		hasVariantFilter = true
	}
	if q.MaxPrice != nil {
		sub = sub.Where("price <= ?", *q.MaxPrice)
		hasVariantFilter = true
	}

	base := r.db.WithContext(ctx).Model(&model.TyreModel{})
	if q.Brand != "" {
		base = base.Where("brand = ?", q.Brand)
	}
	if hasVariantFilter {
		base = base.Where("id IN (?)", sub)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.TyreModel{}, 0, err
	}

	var items []model.TyreModel
	offset := (q.Page - 1) * q.Limit
	err := base.
		Preload("Variants").
		Order("brand asc, name asc").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.TyreModel{}, 0, err
	}

	return items, total, nil
}

func (r *CatalogGormRepository) FindTyreModelByID(ctx context.Context, id int64) (model.TyreModel, error) {
	var m model.TyreModel
	err := r.db.WithContext(ctx).Preload("Variants").Where("id = ?", id).First(&m).Error
	if err != nil {
		return model.TyreModel{}, notFoundOr(err)
	}
	return m, nil
}

func (r *CatalogGormRepository) TyreFacets(ctx context.Context) (repo.TyreFacets, error) {
	var f repo.TyreFacets

	if err := r.db.WithContext(ctx).Model(&model.TyreModel{}).
		Distinct().Order("brand asc").Pluck("brand", &f.Brands).Error; err != nil {
		return repo.TyreFacets{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.TyreVariant{}).
		Distinct().Order("width asc").Pluck("width", &f.Widths).Error; err != nil {
		return repo.TyreFacets{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.TyreVariant{}).
		Distinct().Order("profile asc").Pluck("profile", &f.Profiles).Error; err != nil {
		return repo.TyreFacets{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.TyreVariant{}).
		Distinct().Order("radius asc").Pluck("radius", &f.Radiuses).Error; err != nil {
		return repo.TyreFacets{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.TyreVariant{}).
		Distinct().Order("season asc").Pluck("season", &f.Seasons).Error; err != nil {
		return repo.TyreFacets{}, err
	}

	return f, nil
}

func (r *CatalogGormRepository) ListRimModels(ctx context.Context, q repo.RimListQuery) ([]model.RimModel, int64, error) {
	sub := r.db.WithContext(ctx).Model(&model.RimVariant{}).Select("rim_model_id")
	hasVariantFilter := false

	if q.Diameter != nil {
		sub = sub.Where("diameter = ?", *q.Diameter)
		hasVariantFilter = true
	}
	if q.Width != nil {
		sub = sub.Where("width = ?", *q.Width)
		hasVariantFilter = true
	}
	if q.BoltPattern != "" {
		sub = sub.Where("bolt_pattern = ?", q.BoltPattern)
		hasVariantFilter = true
	}
	if q.MinPrice != nil {
		sub = sub.Where("price >= ?", *q.MinPrice)
		hasVariantFilter = true
	}
	if q.MaxPrice != nil {
		sub = sub.Where("price <= ?", *q.MaxPrice)
		hasVariantFilter = true
	}

	base := r.db.WithContext(ctx).Model(&model.RimModel{})
	if q.Brand != "" {
		base = base.Where("brand = ?", q.Brand)
	}
	if hasVariantFilter {
		base = base.Where("id IN (?)", sub)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.RimModel{}, 0, err
	}

	var items []model.RimModel
	offset := (q.Page - 1) * q.Limit
	err := base.
		Preload("Variants").
		Order("brand asc, name asc").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.RimModel{}, 0, err
	}

	return items, total, nil
}

func (r *CatalogGormRepository) FindRimModelByID(ctx context.Context, id int64) (model.RimModel, error) {
	var m model.RimModel
	err := r.db.WithContext(ctx).Preload("Variants").Where("id = ?", id).First(&m).Error
	if err != nil {
		return model.RimModel{}, notFoundOr(err)
	}
	return m, nil
}

func (r *CatalogGormRepository) RimFacets(ctx context.Context) (repo.RimFacets, error) {
	var f repo.RimFacets

	if err := r.db.WithContext(ctx).Model(&model.RimModel{}).
		Distinct().Order("brand asc").Pluck("brand", &f.Brands).Error; err != nil {
		return repo.RimFacets{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.RimVariant{}).
		Distinct().Order("diameter asc").Pluck("diameter", &f.Diameters).Error; err != nil {
		return repo.RimFacets{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.RimVariant{}).
		Distinct().Order("bolt_pattern asc").Pluck("bolt_pattern", &f.BoltPatterns).Error; err != nil {
		return repo.RimFacets{}, err
	}

	return f, nil
}

func (r *CatalogGormRepository) CreateTyreModel(ctx context.Context, m model.TyreModel) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *CatalogGormRepository) UpdateTyreModel(ctx context.Context, m model.TyreModel) error {
	res := r.db.WithContext(ctx).Model(&model.TyreModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"brand":       m.Brand,
			"name":        m.Name,
			"description": m.Description,
			"image_url":   m.ImageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// モデル削除はSKUごと消す
func (r *CatalogGormRepository) DeleteTyreModel(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tyre_model_id = ?", id).Delete(&model.TyreVariant{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.TyreModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *CatalogGormRepository) CreateTyreVariant(ctx context.Context, v model.TyreVariant) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return 0, err
	}
	return v.ID, nil
}

func (r *CatalogGormRepository) UpdateTyreVariant(ctx context.Context, v model.TyreVariant) error {
	res := r.db.WithContext(ctx).Model(&model.TyreVariant{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"width":       v.Width,
			"profile":     v.Profile,
			"radius":      v.Radius,
			"season":      v.Season,
			"studded":     v.Studded,
			"speed_index": v.SpeedIndex,
			"price":       v.Price,
			"stock":       v.Stock,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CatalogGormRepository) DeleteTyreVariant(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.TyreVariant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CatalogGormRepository) CreateRimModel(ctx context.Context, m model.RimModel) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *CatalogGormRepository) UpdateRimModel(ctx context.Context, m model.RimModel) error {
	res := r.db.WithContext(ctx).Model(&model.RimModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"brand":       m.Brand,
			"name":        m.Name,
			"description": m.Description,
			"image_url":   m.ImageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CatalogGormRepository) DeleteRimModel(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rim_model_id = ?", id).Delete(&model.RimVariant{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.RimModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *CatalogGormRepository) CreateRimVariant(ctx context.Context, v model.RimVariant) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return 0, err
	}
	return v.ID, nil
}

func (r *CatalogGormRepository) UpdateRimVariant(ctx context.Context, v model.RimVariant) error {
	res := r.db.WithContext(ctx).Model(&model.RimVariant{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"diameter":     v.Diameter,
			"width":        v.Width,
			"bolt_pattern": v.BoltPattern,
			"offset":       v.Offset,
			"dia":          v.Dia,
			"color":        v.Color,
			"material":     v.Material,
			"price":        v.Price,
			"stock":        v.Stock,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CatalogGormRepository) DeleteRimVariant(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.RimVariant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	return err
}

var _ repo.CatalogRepository = (*CatalogGormRepository)(nil)
