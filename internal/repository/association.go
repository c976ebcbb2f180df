package repository

import (
	"context"
	"fmt"

	"pollos-admin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssociationSet manages one modification join table. K is the owner key:
// the product code for products, the surrogate id for subproducts.
type AssociationSet[K comparable] struct {
	db          *gorm.DB
	table       string
	ownerColumn string
}

func NewProductModifications(db *gorm.DB) *AssociationSet[string] {
	return &AssociationSet[string]{db: db, table: model.ProductModificationTable, ownerColumn: "producto_id"}
}

func NewSubproductModifications(db *gorm.DB) *AssociationSet[uint] {
	return &AssociationSet[uint]{db: db, table: model.SubproductModificationTable, ownerColumn: "subproducto_id"}
}

// Add links a modification to the owner. Linking an existing pair is a no-op
// and reports added=false.
func (s *AssociationSet[K]) Add(ctx context.Context, owner K, modificationID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Table(s.table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{
			s.ownerColumn:     owner,
			"modificacion_id": modificationID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Remove unlinks the pair. Removing a missing pair is a no-op.
func (s *AssociationSet[K]) Remove(ctx context.Context, owner K, modificationID uint) (bool, error) {
	res := s.db.WithContext(ctx).Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND modificacion_id = ?", s.table, s.ownerColumn),
		owner, modificationID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns the owner's modifications ordered by name.
func (s *AssociationSet[K]) List(ctx context.Context, owner K) ([]model.Modification, error) {
	var mods []model.Modification
	err := s.db.WithContext(ctx).
		Joins(fmt.Sprintf("JOIN %s a ON a.modificacion_id = modificaciones.id", s.table)).
		Where("a."+s.ownerColumn+" = ?", owner).
		Order("modificaciones.nombre").
		Find(&mods).Error
	return mods, err
}

// Count returns the number of rows in the join table, across all owners.
func (s *AssociationSet[K]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(s.table).Count(&n).Error
	return n, err
}
