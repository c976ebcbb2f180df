package handler

import (
	"strconv"
	"strings"
	"time"

	"pollos-admin/internal/middleware"
	"pollos-admin/internal/model"
	"pollos-admin/internal/service"
	"pollos-admin/internal/views"
	apperrors "pollos-admin/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PriceHandler struct {
	catalog service.CatalogService
	pricing service.PricingService
}

func NewPriceHandler(catalog service.CatalogService, pricing service.PricingService) *PriceHandler {
	return &PriceHandler{catalog: catalog, pricing: pricing}
}

// priceTarget describes the catalog item a price form belongs to.
type priceTarget struct {
	target model.PriceTarget
	name   string
	back   string
}

func (h *PriceHandler) productTarget(c *fiber.Ctx) (*priceTarget, error) {
	product, err := h.catalog.GetProduct(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return nil, err
	}
	return &priceTarget{
		target: model.ProductTarget{Code: product.ID},
		name:   product.Name,
		back:   "/productos/ver/" + product.ID,
	}, nil
}

func (h *PriceHandler) subproductTarget(c *fiber.Ctx, id uint) (*priceTarget, error) {
	sub, err := h.catalog.GetSubproduct(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return nil, err
	}
	return &priceTarget{
		target: model.SubproductTarget{ID: sub.ID},
		name:   sub.Name,
		back:   subproductPath(sub.ID),
	}, nil
}

func (h *PriceHandler) resolveTarget(c *fiber.Ctx, t model.PriceTarget) (*priceTarget, error) {
	switch target := t.(type) {
	case model.ProductTarget:
		product, err := h.catalog.GetProduct(c.UserContext(), middleware.Actor(c), target.Code)
		if err != nil {
			return nil, err
		}
		return &priceTarget{target: target, name: product.Name, back: "/productos/ver/" + product.ID}, nil
	case model.SubproductTarget:
		return h.subproductTarget(c, target.ID)
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "Recurso no encontrado.")
}

func priceForm(t *priceTarget, title, action string, form service.PriceInput) fiber.Map {
	return fiber.Map{
		"Title":       title,
		"Action":      action,
		"TargetName":  t.name,
		"BackURL":     t.back,
		"ClientTypes": model.ClientTypes,
		"Form":        form,
	}
}

func newPriceInput() service.PriceInput {
	return service.PriceInput{ClientType: string(model.ClientPublic), MinQtyKg: "0", Active: true}
}

// GET /productos/:id/precios/crear
func (h *PriceHandler) NewProductPrice(c *fiber.Ctx) error {
	t, err := h.productTarget(c)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "price_form", priceForm(t, "Nuevo precio", c.Path(), newPriceInput()))
}

// POST /productos/:id/precios/crear
func (h *PriceHandler) CreateProductPrice(c *fiber.Ctx) error {
	t, err := h.productTarget(c)
	if err != nil {
		return err
	}
	return h.create(c, t)
}

// GET /subproductos/:sid/precios/crear
func (h *PriceHandler) NewSubproductPrice(c *fiber.Ctx) error {
	id, err := paramID(c, "sid")
	if err != nil {
		return err
	}
	t, err := h.subproductTarget(c, id)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "price_form", priceForm(t, "Nuevo precio", c.Path(), newPriceInput()))
}

// POST /subproductos/:sid/precios/crear
func (h *PriceHandler) CreateSubproductPrice(c *fiber.Ctx) error {
	id, err := paramID(c, "sid")
	if err != nil {
		return err
	}
	t, err := h.subproductTarget(c, id)
	if err != nil {
		return err
	}
	return h.create(c, t)
}

func (h *PriceHandler) create(c *fiber.Ctx, t *priceTarget) error {
	var in service.PriceInput
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}
	if _, err := h.pricing.CreatePrice(c.UserContext(), middleware.Actor(c), t.target, in); err != nil {
		return formError(c, err, "price_form", priceForm(t, "Nuevo precio", c.Path(), in))
	}
	return redirect(c, t.back, "Precio registrado.")
}

// GET /precios/editar/:pid
func (h *PriceHandler) Edit(c *fiber.Ctx) error {
	price, t, err := h.loadPrice(c)
	if err != nil {
		return err
	}
	form := service.PriceInput{
		ClientType: string(price.ClientType),
		PricePerKg: price.PricePerKg.StringFixed(2),
		MinQtyKg:   price.MinQtyKg.String(),
		ValidFrom:  views.Date(price.ValidFrom),
		ValidUntil: views.Date(price.ValidUntil),
		Active:     price.Active,
	}
	if price.PromoLabel != nil {
		form.PromoLabel = *price.PromoLabel
	}
	return render(c, fiber.StatusOK, "price_form", priceForm(t, "Editar precio", c.Path(), form))
}

// POST /precios/editar/:pid
func (h *PriceHandler) Update(c *fiber.Ctx) error {
	price, t, err := h.loadPrice(c)
	if err != nil {
		return err
	}
	var in service.PriceInput
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}
	if _, err := h.pricing.UpdatePrice(c.UserContext(), middleware.Actor(c), price.ID, in); err != nil {
		return formError(c, err, "price_form", priceForm(t, "Editar precio", c.Path(), in))
	}
	return redirect(c, t.back, "Precio actualizado.")
}

func (h *PriceHandler) loadPrice(c *fiber.Ctx) (*model.Price, *priceTarget, error) {
	id, err := paramID(c, "pid")
	if err != nil {
		return nil, nil, err
	}
	price, err := h.pricing.GetPrice(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return nil, nil, err
	}
	target, err := price.Target()
	if err != nil {
		return nil, nil, err
	}
	t, err := h.resolveTarget(c, target)
	if err != nil {
		return nil, nil, err
	}
	return price, t, nil
}

// quoteOption is one entry of the target selector, e.g. "P:PECH" or "S:3".
type quoteOption struct {
	Value string
	Label string
}

// QuoteQuery is the price lookup form, submitted by GET.
type QuoteQuery struct {
	Target     string `query:"objetivo"`
	ClientType string `query:"tipo_cliente"`
	Qty        string `query:"cantidad"`
	Date       string `query:"fecha"`
}

func parseQuoteTarget(value string) (model.PriceTarget, bool) {
	kind, ref, ok := strings.Cut(value, ":")
	if !ok || ref == "" {
		return nil, false
	}
	switch kind {
	case "P":
		return model.ProductTarget{Code: ref}, true
	case "S":
		id, err := strconv.ParseUint(ref, 10, 64)
		if err != nil || id == 0 {
			return nil, false
		}
		return model.SubproductTarget{ID: uint(id)}, true
	}
	return nil, false
}

func (h *PriceHandler) quoteOptions(c *fiber.Ctx) ([]quoteOption, error) {
	ctx, actor := c.UserContext(), middleware.Actor(c)
	products, err := h.catalog.ListProducts(ctx, actor)
	if err != nil {
		return nil, err
	}
	var options []quoteOption
	for _, p := range products {
		options = append(options, quoteOption{Value: "P:" + p.ID, Label: p.Name + " (" + p.ID + ")"})
		subs, err := h.catalog.ListSubproducts(ctx, actor, p.ID)
		if err != nil {
			return nil, err
		}
		for _, s := range subs {
			options = append(options, quoteOption{
				Value: "S:" + strconv.FormatUint(uint64(s.ID), 10),
				Label: "   " + s.Name + " (" + s.Code + ")",
			})
		}
	}
	return options, nil
}

// Quote resolves the applicable price for a target, client type and quantity.
// GET /precios/cotizar
func (h *PriceHandler) Quote(c *fiber.Ctx) error {
	var q QuoteQuery
	if err := c.QueryParser(&q); err != nil {
		return badForm()
	}
	if q.ClientType == "" {
		q.ClientType = string(model.ClientPublic)
	}
	if q.Date == "" {
		q.Date = time.Now().Format("2006-01-02")
	}

	options, err := h.quoteOptions(c)
	if err != nil {
		return err
	}
	data := fiber.Map{
		"Title":       "Cotizar precio",
		"Targets":     options,
		"ClientTypes": model.ClientTypes,
		"Query":       q,
	}
	if q.Target == "" {
		return render(c, fiber.StatusOK, "quote", data)
	}

	errs := map[string]string{}
	target, ok := parseQuoteTarget(q.Target)
	if !ok {
		errs["objetivo"] = "Selecciona un producto o subproducto."
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(q.Qty))
	if err != nil {
		errs["cantidad"] = "Debe ser un número."
	}
	on, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		errs["fecha"] = "Usa el formato AAAA-MM-DD."
	}
	if len(errs) > 0 {
		data["Errors"] = errs
		return render(c, fiber.StatusUnprocessableEntity, "quote", data)
	}

	price, err := h.pricing.ResolvePrice(c.UserContext(), middleware.Actor(c), target, model.ClientType(strings.ToUpper(q.ClientType)), qty, on)
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.CodeNoPriceAvailable, apperrors.CodeNotFound:
			data["Notice"] = apperrors.PublicMessage(err)
			return render(c, fiber.StatusOK, "quote", data)
		case apperrors.CodeValidation:
			data["Errors"] = apperrors.As(err).Details()
			data["Notice"] = apperrors.PublicMessage(err)
			return render(c, fiber.StatusUnprocessableEntity, "quote", data)
		}
		return err
	}

	data["Result"] = price
	data["Total"] = views.Money(price.PricePerKg.Mul(qty))
	return render(c, fiber.StatusOK, "quote", data)
}
