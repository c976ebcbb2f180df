// Package pricing picks the tier that applies to an order.
package pricing

import (
	"time"

	"pollos-admin/internal/model"
	apperrors "pollos-admin/pkg/errors"

	"github.com/shopspring/decimal"
)

// Query describes what is being priced. Candidates must all belong to the same
// catalog item; Resolve does not check the target.
type Query struct {
	ClientType model.ClientType
	QtyKg      decimal.Decimal
	On         time.Time
}

// Resolve returns the tier with the largest minimum quantity not exceeding
// q.QtyKg among active prices for q.ClientType that are valid on q.On.
// Equal minimums prefer a promotional label, then the lower price.
func Resolve(candidates []model.Price, q Query) (*model.Price, error) {
	if q.QtyKg.IsNegative() {
		return nil, apperrors.Field(apperrors.CodeValidation, "cantidad", "La cantidad no puede ser negativa.")
	}

	var best *model.Price
	for i := range candidates {
		p := &candidates[i]
		if !applies(p, q) {
			continue
		}
		if best == nil || better(p, best) {
			best = p
		}
	}
	if best == nil {
		return nil, apperrors.New(apperrors.CodeNoPriceAvailable, "No hay un precio disponible para esa cantidad.")
	}
	return best, nil
}

func applies(p *model.Price, q Query) bool {
	return p.Active &&
		p.ClientType == q.ClientType &&
		p.ValidOn(q.On) &&
		p.MinQtyKg.LessThanOrEqual(q.QtyKg)
}

func better(p, than *model.Price) bool {
	if c := p.MinQtyKg.Cmp(than.MinQtyKg); c != 0 {
		return c > 0
	}
	if p.HasPromo() != than.HasPromo() {
		return p.HasPromo()
	}
	return p.PricePerKg.LessThan(than.PricePerKg)
}
