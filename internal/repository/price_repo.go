package repository

import (
	"context"

	"pollos-admin/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PriceRepository interface {
	Create(ctx context.Context, price *model.Price) error
	FindByID(ctx context.Context, id uint) (*model.Price, error)
	FindByTarget(ctx context.Context, target model.PriceTarget) ([]model.Price, error)
	FindTier(ctx context.Context, target model.PriceTarget, clientType model.ClientType, minQtyKg decimal.Decimal) (*model.Price, error)
	Update(ctx context.Context, price *model.Price) error
	Count(ctx context.Context) (int64, error)
}

type priceRepo struct {
	db *gorm.DB
}

func NewPriceRepo(db *gorm.DB) PriceRepository {
	return &priceRepo{db}
}

// forTarget restricts a query to the prices of one catalog item.
func forTarget(target model.PriceTarget) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch t := target.(type) {
		case model.ProductTarget:
			return db.Where("producto_id = ? AND subproducto_id IS NULL", t.Code)
		case model.SubproductTarget:
			return db.Where("subproducto_id = ? AND producto_id IS NULL", t.ID)
		default:
			return db.Where("1 = 0")
		}
	}
}

func (r *priceRepo) Create(ctx context.Context, price *model.Price) error {
	return r.db.WithContext(ctx).Omit("Product", "Subproduct").Create(price).Error
}

func (r *priceRepo) FindByID(ctx context.Context, id uint) (*model.Price, error) {
	var price model.Price
	if err := r.db.WithContext(ctx).First(&price, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *priceRepo) FindByTarget(ctx context.Context, target model.PriceTarget) ([]model.Price, error) {
	var prices []model.Price
	err := r.db.WithContext(ctx).
		Scopes(forTarget(target)).
		Order("tipo_cliente").
		Order("cantidad_minima_kg").
		Find(&prices).Error
	return prices, err
}

func (r *priceRepo) FindTier(ctx context.Context, target model.PriceTarget, clientType model.ClientType, minQtyKg decimal.Decimal) (*model.Price, error) {
	var price model.Price
	err := r.db.WithContext(ctx).
		Scopes(forTarget(target)).
		Where("tipo_cliente = ? AND cantidad_minima_kg = ?", clientType, minQtyKg).
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// Update saves every column. The target columns are rewritten from the
// stored struct, so callers must not change them.
func (r *priceRepo) Update(ctx context.Context, price *model.Price) error {
	return r.db.WithContext(ctx).Omit("Product", "Subproduct").Save(price).Error
}

func (r *priceRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Price{}).Count(&n).Error
	return n, err
}
