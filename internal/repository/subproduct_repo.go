package repository

import (
	"context"

	"pollos-admin/internal/model"

	"gorm.io/gorm"
)

type SubproductRepository interface {
	Create(ctx context.Context, sub *model.Subproduct) error
	FindByID(ctx context.Context, id uint) (*model.Subproduct, error)
	FindByCode(ctx context.Context, code string) (*model.Subproduct, error)
	FindByProduct(ctx context.Context, productID string) ([]model.Subproduct, error)
	Update(ctx context.Context, sub *model.Subproduct) error
	Count(ctx context.Context) (int64, error)
}

type subproductRepo struct {
	db *gorm.DB
}

func NewSubproductRepo(db *gorm.DB) SubproductRepository {
	return &subproductRepo{db}
}

func (r *subproductRepo) Create(ctx context.Context, sub *model.Subproduct) error {
	return r.db.WithContext(ctx).Omit("Product", "Modifications", "Prices").Create(sub).Error
}

func (r *subproductRepo) FindByID(ctx context.Context, id uint) (*model.Subproduct, error) {
	var sub model.Subproduct
	if err := r.db.WithContext(ctx).Preload("Product").First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subproductRepo) FindByCode(ctx context.Context, code string) (*model.Subproduct, error) {
	var sub model.Subproduct
	if err := r.db.WithContext(ctx).First(&sub, "codigo_subprod = ?", code).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subproductRepo) FindByProduct(ctx context.Context, productID string) ([]model.Subproduct, error) {
	var subs []model.Subproduct
	err := r.db.WithContext(ctx).Where("producto_padre_id = ?", productID).Order("nombre").Find(&subs).Error
	return subs, err
}

// Update writes name, description and active flag. Code and parent are fixed.
func (r *subproductRepo) Update(ctx context.Context, sub *model.Subproduct) error {
	return r.db.WithContext(ctx).
		Model(sub).
		Select("nombre", "descripcion", "activo").
		Updates(sub).Error
}

func (r *subproductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Subproduct{}).Count(&n).Error
	return n, err
}
