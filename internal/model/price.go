package model

import (
	"fmt"
	"time"

	apperrors "pollos-admin/pkg/errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Price is one tier for a catalog item: the price per kg a client type pays
// once the order reaches MinQuantityKg. Exactly one of ProductID and
// SubproductID is set; use Target/SetTarget instead of touching them.
type Price struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductID    *string         `gorm:"column:producto_id;size:10;index;uniqueIndex:uq_precio_prod_tipo_cantmin,priority:1;check:chk_precio_target_not_both_or_none,(producto_id IS NOT NULL AND subproducto_id IS NULL) OR (producto_id IS NULL AND subproducto_id IS NOT NULL)" json:"product_id,omitempty"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"-"`
	SubproductID *uint           `gorm:"column:subproducto_id;index;uniqueIndex:uq_precio_subprod_tipo_cantmin,priority:1" json:"subproduct_id,omitempty"`
	Subproduct   *Subproduct     `gorm:"foreignKey:SubproductID" json:"-"`
	ClientType   ClientType      `gorm:"column:tipo_cliente;size:50;not null;index;uniqueIndex:uq_precio_prod_tipo_cantmin,priority:2;uniqueIndex:uq_precio_subprod_tipo_cantmin,priority:2" json:"client_type"`
	PricePerKg   decimal.Decimal `gorm:"column:precio_kg;type:numeric(10,2);not null;check:chk_precio_kg_no_negativo,precio_kg >= 0" json:"price_per_kg"`
	MinQtyKg     decimal.Decimal `gorm:"column:cantidad_minima_kg;type:numeric(10,3);not null;check:chk_precio_cantmin_no_negativa,cantidad_minima_kg >= 0;uniqueIndex:uq_precio_prod_tipo_cantmin,priority:3;uniqueIndex:uq_precio_subprod_tipo_cantmin,priority:3" json:"min_qty_kg"`
	PromoLabel   *string         `gorm:"column:etiqueta_promo;size:100" json:"promo_label,omitempty"`
	ValidFrom    *time.Time      `gorm:"column:fecha_inicio_vigencia;type:date;index" json:"valid_from,omitempty"`
	ValidUntil   *time.Time      `gorm:"column:fecha_fin_vigencia;type:date;index" json:"valid_until,omitempty"`
	Active       bool            `gorm:"column:activo;not null;index" json:"active"`
}

func (Price) TableName() string {
	return "precios"
}

// Target returns the catalog item the price belongs to.
func (p *Price) Target() (PriceTarget, error) {
	return TargetFromColumns(p.ProductID, p.SubproductID)
}

// SetTarget points the price at t, clearing the other column.
func (p *Price) SetTarget(t PriceTarget) {
	p.ProductID, p.SubproductID = nil, nil
	switch target := t.(type) {
	case ProductTarget:
		code := target.Code
		p.ProductID = &code
	case SubproductTarget:
		id := target.ID
		p.SubproductID = &id
	}
}

func (p *Price) HasPromo() bool {
	return p.PromoLabel != nil && *p.PromoLabel != ""
}

// ValidOn reports whether day falls inside the validity window. Both ends are
// inclusive and compared by calendar date.
func (p *Price) ValidOn(day time.Time) bool {
	d := truncateDay(day)
	if p.ValidFrom != nil && d.Before(truncateDay(*p.ValidFrom)) {
		return false
	}
	if p.ValidUntil != nil && d.After(truncateDay(*p.ValidUntil)) {
		return false
	}
	return true
}

// BeforeSave refuses rows that would violate the target or amount invariants
// before the store's check constraints do.
func (p *Price) BeforeSave(tx *gorm.DB) error {
	if _, err := p.Target(); err != nil {
		return err
	}
	if msg := PricePerKgProblem(p.PricePerKg); msg != "" {
		return apperrors.Field(apperrors.CodeValidation, "precio_kg", msg)
	}
	if msg := MinQtyKgProblem(p.MinQtyKg); msg != "" {
		return apperrors.Field(apperrors.CodeValidation, "cantidad_minima_kg", msg)
	}
	return nil
}

// Column sizes: precio_kg is numeric(10,2), cantidad_minima_kg numeric(10,3).
const (
	amountDigits  = 10
	PriceKgScale  = 2
	MinQtyKgScale = 3
)

// PricePerKgProblem returns why v cannot be stored as a price per kg, or ""
// when it can.
func PricePerKgProblem(v decimal.Decimal) string {
	return amountProblem(v, PriceKgScale, "No puede ser negativo.")
}

// MinQtyKgProblem is PricePerKgProblem for a tier's minimum quantity.
func MinQtyKgProblem(v decimal.Decimal) string {
	return amountProblem(v, MinQtyKgScale, "No puede ser negativa.")
}

func amountProblem(v decimal.Decimal, scale int32, negative string) string {
	limit := decimal.New(1, amountDigits-scale)
	switch {
	case v.IsNegative():
		return negative
	case !v.Equal(v.Truncate(scale)):
		return fmt.Sprintf("Usa como máximo %d decimales.", scale)
	case v.GreaterThanOrEqual(limit):
		return "Debe ser menor que " + limit.String() + "."
	}
	return ""
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PriceTarget is either a ProductTarget or a SubproductTarget.
type PriceTarget interface {
	isPriceTarget()
	String() string
}

type ProductTarget struct {
	Code string
}

type SubproductTarget struct {
	ID uint
}

func (ProductTarget) isPriceTarget()    {}
func (SubproductTarget) isPriceTarget() {}

func (t ProductTarget) String() string {
	return "producto " + t.Code
}

func (t SubproductTarget) String() string {
	return fmt.Sprintf("subproducto %d", t.ID)
}

// TargetFromColumns rebuilds the target from the two nullable columns and
// fails when both or neither are set.
func TargetFromColumns(productID *string, subproductID *uint) (PriceTarget, error) {
	hasProduct := productID != nil && *productID != ""
	hasSubproduct := subproductID != nil && *subproductID != 0
	switch {
	case hasProduct && hasSubproduct:
		return nil, apperrors.New(apperrors.CodeValidation, "un precio no puede pertenecer a un producto y a un subproducto a la vez")
	case hasProduct:
		return ProductTarget{Code: *productID}, nil
	case hasSubproduct:
		return SubproductTarget{ID: *subproductID}, nil
	default:
		return nil, apperrors.New(apperrors.CodeValidation, "un precio debe pertenecer a un producto o a un subproducto")
	}
}
