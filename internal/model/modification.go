package model

// Modification is a preparation variant (ground, filleted, roasted...) that can
// be offered on any number of products and subproducts.
type Modification struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"column:codigo_modif;size:20;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"column:nombre;size:100;not null;index" json:"name"`
	Description string `gorm:"column:descripcion;type:text" json:"description,omitempty"`
	Active      bool   `gorm:"column:activo;not null;index" json:"active"`
}

func (Modification) TableName() string {
	return "modificaciones"
}

const (
	ProductModificationTable    = "producto_modificacion_association"
	SubproductModificationTable = "subproducto_modificacion_association"
)
