package service

import "strings"

// Form-bound inputs. Field names in validation details follow the form tags.

type ProductFields struct {
	Name        string `form:"nombre" validate:"notblank,runesmin=3,runesmax=100"`
	Description string `form:"descripcion" validate:"runesmax=500"`
	Category    string `form:"categoria" validate:"notblank,runesmax=50"`
	Active      bool   `form:"activo"`
}

type ProductInput struct {
	Code string `form:"codigo" validate:"notblank,runesmax=10"`
	ProductFields
}

type SubproductFields struct {
	Name        string `form:"nombre" validate:"notblank,runesmax=100"`
	Description string `form:"descripcion" validate:"runesmax=500"`
	Active      bool   `form:"activo"`
}

type SubproductInput struct {
	Code string `form:"codigo" validate:"notblank,runesmax=15"`
	SubproductFields
}

type ModificationFields struct {
	Name        string `form:"nombre" validate:"notblank,runesmax=100"`
	Description string `form:"descripcion" validate:"runesmax=500"`
	Active      bool   `form:"activo"`
}

type ModificationInput struct {
	Code string `form:"codigo" validate:"notblank,runesmax=20"`
	ModificationFields
}

// PriceInput keeps numbers and dates as submitted so parse errors can be
// reported per field.
type PriceInput struct {
	ClientType string `form:"tipo_cliente" validate:"notblank,oneof=PUBLICO COCINA LEAL ALIADO MAYOREO"`
	PricePerKg string `form:"precio_kg" validate:"notblank"`
	MinQtyKg   string `form:"cantidad_minima_kg"`
	PromoLabel string `form:"etiqueta_promo" validate:"runesmax=100"`
	ValidFrom  string `form:"fecha_inicio_vigencia"`
	ValidUntil string `form:"fecha_fin_vigencia"`
	Active     bool   `form:"activo"`
}

type UserInput struct {
	Username string `form:"username" validate:"notblank,runesmin=3,runesmax=80"`
	Password string `form:"password" validate:"required,min=6"`
	Name     string `form:"nombre_completo" validate:"notblank,runesmax=150"`
	Role     string `form:"rol" validate:"notblank,oneof=ADMINISTRADOR CAJERO"`
	Active   bool   `form:"activo"`
}

func (in *ProductFields) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
}

func (in *SubproductFields) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

func (in *ModificationFields) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}
