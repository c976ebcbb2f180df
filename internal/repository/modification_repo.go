package repository

import (
	"context"

	"pollos-admin/internal/model"

	"gorm.io/gorm"
)

type ModificationRepository interface {
	Create(ctx context.Context, mod *model.Modification) error
	FindAll(ctx context.Context) ([]model.Modification, error)
	FindByID(ctx context.Context, id uint) (*model.Modification, error)
	FindByCode(ctx context.Context, code string) (*model.Modification, error)
	Update(ctx context.Context, mod *model.Modification) error
	Count(ctx context.Context) (int64, error)
}

type modificationRepo struct {
	db *gorm.DB
}

func NewModificationRepo(db *gorm.DB) ModificationRepository {
	return &modificationRepo{db}
}

func (r *modificationRepo) Create(ctx context.Context, mod *model.Modification) error {
	return r.db.WithContext(ctx).Create(mod).Error
}

func (r *modificationRepo) FindAll(ctx context.Context) ([]model.Modification, error) {
	var mods []model.Modification
	err := r.db.WithContext(ctx).Order("nombre").Order("codigo_modif").Find(&mods).Error
	return mods, err
}

func (r *modificationRepo) FindByID(ctx context.Context, id uint) (*model.Modification, error) {
	var mod model.Modification
	if err := r.db.WithContext(ctx).First(&mod, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mod, nil
}

func (r *modificationRepo) FindByCode(ctx context.Context, code string) (*model.Modification, error) {
	var mod model.Modification
	if err := r.db.WithContext(ctx).First(&mod, "codigo_modif = ?", code).Error; err != nil {
		return nil, err
	}
	return &mod, nil
}

func (r *modificationRepo) Update(ctx context.Context, mod *model.Modification) error {
	return r.db.WithContext(ctx).
		Model(mod).
		Select("nombre", "descripcion", "activo").
		Updates(mod).Error
}

func (r *modificationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Modification{}).Count(&n).Error
	return n, err
}
