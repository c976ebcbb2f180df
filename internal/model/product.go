package model

import "strings"

// Product is a top-level catalog item keyed by its short code, e.g. "PECH".
type Product struct {
	ID          string `gorm:"primaryKey;size:10" json:"id"`
	Name        string `gorm:"column:nombre;size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"column:descripcion;type:text" json:"description,omitempty"`
	Category    string `gorm:"column:categoria;size:50;not null;index" json:"category"`
	Active      bool   `gorm:"column:activo;not null;index" json:"active"`

	Subproducts   []Subproduct   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"subproducts,omitempty"`
	Modifications []Modification `gorm:"many2many:producto_modificacion_association;joinForeignKey:ProductoID;joinReferences:ModificacionID" json:"modifications,omitempty"`
	Prices        []Price        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"prices,omitempty"`
}

func (Product) TableName() string {
	return "productos"
}

// Code is the product identifier; products have no surrogate key.
func (p *Product) Code() string {
	return p.ID
}

// NormalizeCode trims and upper-cases a catalog code so lookups and
// uniqueness checks are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
