package repository

import (
	"pollos-admin/internal/model"

	"gorm.io/gorm"
)

// Store groups the repositories bound to one connection or transaction.
type Store struct {
	Users                   UserRepository
	Products                ProductRepository
	Subproducts             SubproductRepository
	Modifications           ModificationRepository
	Prices                  PriceRepository
	ProductModifications    *AssociationSet[string]
	SubproductModifications *AssociationSet[uint]
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:                   NewUserRepo(db),
		Products:                NewProductRepo(db),
		Subproducts:             NewSubproductRepo(db),
		Modifications:           NewModificationRepo(db),
		Prices:                  NewPriceRepo(db),
		ProductModifications:    NewProductModifications(db),
		SubproductModifications: NewSubproductModifications(db),
	}
}

// AutoMigrate creates or updates every table, join tables included.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Modification{},
		&model.Product{},
		&model.Subproduct{},
		&model.Price{},
	)
}
