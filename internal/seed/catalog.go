package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"pollos-admin/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the seed data set.
type Catalog struct {
	Modifications []ModificationEntry `yaml:"modifications"`
	Products      []ProductEntry      `yaml:"products"`
	Prices        []PriceEntry        `yaml:"prices"`
}

type ModificationEntry struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type ProductEntry struct {
	Code          string            `yaml:"code"`
	Name          string            `yaml:"name"`
	Category      string            `yaml:"category"`
	Description   string            `yaml:"description"`
	Active        bool              `yaml:"active"`
	Modifications []string          `yaml:"modifications"`
	Subproducts   []SubproductEntry `yaml:"subproducts"`
}

type SubproductEntry struct {
	Code          string   `yaml:"code"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Active        bool     `yaml:"active"`
	Modifications []string `yaml:"modifications"`
}

// PriceEntry names its target by product code or by subproduct code, never both.
type PriceEntry struct {
	Product    string `yaml:"product"`
	Subproduct string `yaml:"subproduct"`
	ClientType string `yaml:"client_type"`
	PricePerKg string `yaml:"price_per_kg"`
	MinQtyKg   string `yaml:"min_qty_kg"`
	Promo      string `yaml:"promo"`
}

func (p PriceEntry) perKg() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(p.PricePerKg))
}

func (p PriceEntry) minQty() (decimal.Decimal, error) {
	raw := strings.TrimSpace(p.MinQtyKg)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func (p PriceEntry) label() string {
	if p.Product != "" {
		return "producto " + p.Product
	}
	return "subproducto " + p.Subproduct
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing seed catalog: %w", err)
	}
	for i, p := range cat.Prices {
		if (p.Product == "") == (p.Subproduct == "") {
			return nil, fmt.Errorf("seed price #%d must name exactly one of product or subproduct", i+1)
		}
		perKg, err := p.perKg()
		if err != nil {
			return nil, fmt.Errorf("seed price #%d (%s): price_per_kg: %w", i+1, p.label(), err)
		}
		if msg := model.PricePerKgProblem(perKg); msg != "" {
			return nil, fmt.Errorf("seed price #%d (%s): price_per_kg %s: %s", i+1, p.label(), perKg, msg)
		}
		minQty, err := p.minQty()
		if err != nil {
			return nil, fmt.Errorf("seed price #%d (%s): min_qty_kg: %w", i+1, p.label(), err)
		}
		if msg := model.MinQtyKgProblem(minQty); msg != "" {
			return nil, fmt.Errorf("seed price #%d (%s): min_qty_kg %s: %s", i+1, p.label(), minQty, msg)
		}
	}
	return &cat, nil
}
