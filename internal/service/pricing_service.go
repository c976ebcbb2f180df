package service

import (
	"context"
	"strings"
	"time"

	"pollos-admin/internal/model"
	"pollos-admin/internal/pricing"
	"pollos-admin/internal/repository"
	apperrors "pollos-admin/pkg/errors"
	"pollos-admin/pkg/logger"
	"pollos-admin/pkg/metrics"
	"pollos-admin/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type PricingService interface {
	CreatePrice(ctx context.Context, actor Actor, target model.PriceTarget, in PriceInput) (*model.Price, error)
	UpdatePrice(ctx context.Context, actor Actor, id uint, in PriceInput) (*model.Price, error)
	GetPrice(ctx context.Context, actor Actor, id uint) (*model.Price, error)
	ListPrices(ctx context.Context, actor Actor, target model.PriceTarget) ([]model.Price, error)
	ResolvePrice(ctx context.Context, actor Actor, target model.PriceTarget, clientType model.ClientType, qtyKg decimal.Decimal, on time.Time) (*model.Price, error)
}

type pricingService struct {
	uow     unitOfWork
	log     *logger.Logger
	metrics *metrics.Recorder
}

func NewPricingService(db *gorm.DB, log *logger.Logger, rec *metrics.Recorder) PricingService {
	if log == nil {
		log = logger.Nop()
	}
	return &pricingService{uow: unitOfWork{db: db}, log: log, metrics: rec}
}

// tier is a parsed PriceInput.
type tier struct {
	clientType model.ClientType
	perKg      decimal.Decimal
	minQty     decimal.Decimal
	promo      *string
	from       *time.Time
	until      *time.Time
	active     bool
}

func parsePriceInput(in PriceInput) (*tier, error) {
	in.ClientType = strings.ToUpper(strings.TrimSpace(in.ClientType))
	in.PromoLabel = strings.TrimSpace(in.PromoLabel)
	if err := validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	details := map[string]string{}
	t := &tier{clientType: model.ClientType(in.ClientType), active: in.Active}

	perKg, err := decimal.NewFromString(strings.TrimSpace(in.PricePerKg))
	switch {
	case err != nil:
		details["precio_kg"] = "Debe ser un número."
	case model.PricePerKgProblem(perKg) != "":
		details["precio_kg"] = model.PricePerKgProblem(perKg)
	default:
		t.perKg = perKg
	}

	t.minQty = decimal.Zero
	if raw := strings.TrimSpace(in.MinQtyKg); raw != "" {
		minQty, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			details["cantidad_minima_kg"] = "Debe ser un número."
		case model.MinQtyKgProblem(minQty) != "":
			details["cantidad_minima_kg"] = model.MinQtyKgProblem(minQty)
		default:
			t.minQty = minQty
		}
	}

	if in.PromoLabel != "" {
		label := in.PromoLabel
		t.promo = &label
	}

	t.from = parseDate(in.ValidFrom, "fecha_inicio_vigencia", details)
	t.until = parseDate(in.ValidUntil, "fecha_fin_vigencia", details)
	if t.from != nil && t.until != nil && t.until.Before(*t.from) {
		details["fecha_fin_vigencia"] = "Debe ser igual o posterior a la fecha de inicio."
	}

	if len(details) > 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "Revisa los campos marcados.").WithDetails(details)
	}
	return t, nil
}

func parseDate(raw, field string, details map[string]string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		details[field] = "Usa el formato AAAA-MM-DD."
		return nil
	}
	return &d
}

func (t *tier) apply(p *model.Price) {
	p.ClientType = t.clientType
	p.PricePerKg = t.perKg
	p.MinQtyKg = t.minQty
	p.PromoLabel = t.promo
	p.ValidFrom = t.from
	p.ValidUntil = t.until
	p.Active = t.active
}

// resolveTarget loads the catalog item behind target and returns the target
// with its code normalized. requireActive rejects inactive items.
func resolveTarget(ctx context.Context, store *repository.Store, target model.PriceTarget, requireActive bool) (model.PriceTarget, error) {
	switch t := target.(type) {
	case model.ProductTarget:
		product, err := findProduct(ctx, store, t.Code)
		if err != nil {
			return nil, err
		}
		if requireActive && !product.Active {
			return nil, apperrors.New(apperrors.CodeValidation, "El producto "+product.ID+" está inactivo.")
		}
		return model.ProductTarget{Code: product.ID}, nil
	case model.SubproductTarget:
		sub, err := findSubproduct(ctx, store, t.ID)
		if err != nil {
			return nil, err
		}
		if requireActive && !sub.Active {
			return nil, apperrors.New(apperrors.CodeValidation, "El subproducto "+sub.Code+" está inactivo.")
		}
		return t, nil
	default:
		return nil, apperrors.New(apperrors.CodeValidation, "un precio debe pertenecer a un producto o a un subproducto")
	}
}

func duplicateTier() error {
	return duplicate("cantidad_minima_kg", "Ya existe un precio para ese tipo de cliente y cantidad mínima.")
}

func (s *pricingService) CreatePrice(ctx context.Context, actor Actor, target model.PriceTarget, in PriceInput) (price *model.Price, err error) {
	defer func() { s.record(ctx, "create", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	t, err := parsePriceInput(in)
	if err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		resolved, err := resolveTarget(ctx, store, target, true)
		if err != nil {
			return err
		}
		if existing, err := store.Prices.FindTier(ctx, resolved, t.clientType, t.minQty); err == nil && existing != nil {
			return duplicateTier()
		}
		price = &model.Price{}
		price.SetTarget(resolved)
		t.apply(price)
		return storeError(store.Prices.Create(ctx, price), "cantidad_minima_kg", "Ya existe un precio para ese tipo de cliente y cantidad mínima.")
	})
	if err != nil {
		return nil, err
	}
	return price, nil
}

func (s *pricingService) UpdatePrice(ctx context.Context, actor Actor, id uint, in PriceInput) (price *model.Price, err error) {
	defer func() { s.record(ctx, "update", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	t, err := parsePriceInput(in)
	if err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		var err error
		if price, err = store.Prices.FindByID(ctx, id); err != nil {
			return lookupError(err, "Precio no encontrado.")
		}
		target, err := price.Target()
		if err != nil {
			return err
		}
		keyChanged := price.ClientType != t.clientType || !price.MinQtyKg.Equal(t.minQty)
		if keyChanged {
			if other, err := store.Prices.FindTier(ctx, target, t.clientType, t.minQty); err == nil && other.ID != price.ID {
				return duplicateTier()
			}
		}
		t.apply(price)
		return storeError(store.Prices.Update(ctx, price), "cantidad_minima_kg", "Ya existe un precio para ese tipo de cliente y cantidad mínima.")
	})
	if err != nil {
		return nil, err
	}
	return price, nil
}

func (s *pricingService) GetPrice(ctx context.Context, actor Actor, id uint) (*model.Price, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	price, err := s.uow.read().Prices.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Precio no encontrado.")
	}
	return price, nil
}

func (s *pricingService) ListPrices(ctx context.Context, actor Actor, target model.PriceTarget) ([]model.Price, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	store := s.uow.read()
	resolved, err := resolveTarget(ctx, store, target, false)
	if err != nil {
		return nil, err
	}
	prices, err := store.Prices.FindByTarget(ctx, resolved)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	sortPrices(prices)
	return prices, nil
}

func (s *pricingService) ResolvePrice(ctx context.Context, actor Actor, target model.PriceTarget, clientType model.ClientType, qtyKg decimal.Decimal, on time.Time) (price *model.Price, err error) {
	defer func() {
		result := metrics.ResultOK
		if err != nil {
			result = string(apperrors.CodeOf(err))
		}
		s.metrics.PriceResolution(result)
	}()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	if _, ok := model.ParseClientType(string(clientType)); !ok {
		return nil, apperrors.Field(apperrors.CodeValidation, "tipo_cliente", "Tipo de cliente desconocido.")
	}

	store := s.uow.read()
	resolved, err := resolveTarget(ctx, store, target, false)
	if err != nil {
		return nil, err
	}
	candidates, err := store.Prices.FindByTarget(ctx, resolved)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return pricing.Resolve(candidates, pricing.Query{ClientType: clientType, QtyKg: qtyKg, On: on})
}

func (s *pricingService) record(ctx context.Context, op string, err error) {
	s.metrics.Mutation(entityPrice, op, err)
	if err != nil && apperrors.Is(err, apperrors.CodePersistence) {
		s.log.Error(s.log.WithField(ctx, "op", op), "price mutation failed", err)
	}
}
