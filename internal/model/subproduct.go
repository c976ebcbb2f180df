package model

// Subproduct is a cut or part derived from a parent product, e.g. "PP"
// (pulpa de pechuga) under "PECH".
type Subproduct struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	ProductID   string   `gorm:"column:producto_padre_id;size:10;not null;index" json:"product_id"`
	Product     *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Code        string   `gorm:"column:codigo_subprod;size:15;uniqueIndex;not null" json:"code"`
	Name        string   `gorm:"column:nombre;size:100;not null;index" json:"name"`
	Description string   `gorm:"column:descripcion;type:text" json:"description,omitempty"`
	Active      bool     `gorm:"column:activo;not null;index" json:"active"`

	Modifications []Modification `gorm:"many2many:subproducto_modificacion_association;joinForeignKey:SubproductoID;joinReferences:ModificacionID" json:"modifications,omitempty"`
	Prices        []Price        `gorm:"foreignKey:SubproductID;constraint:OnDelete:CASCADE" json:"prices,omitempty"`
}

func (Subproduct) TableName() string {
	return "subproductos"
}
