// Package seed loads the initial catalog. Every step checks the record's
// unique key first and only creates what is missing, so running it again is
// harmless and never overwrites edits made through the admin surface.
package seed

import (
	"context"
	"fmt"

	"pollos-admin/internal/model"
	"pollos-admin/internal/repository"
	"pollos-admin/pkg/config"
	"pollos-admin/pkg/database"
	"pollos-admin/pkg/logger"

	"gorm.io/gorm"
)

// Counts tallies one entity kind.
type Counts struct {
	Created int
	Skipped int
}

func (c *Counts) add(created bool) {
	if created {
		c.Created++
		return
	}
	c.Skipped++
}

type Report struct {
	Modifications   Counts
	Products        Counts
	Subproducts     Counts
	ProductLinks    Counts
	SubproductLinks Counts
	Prices          Counts
	Users           Counts
	Warnings        []string
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"modificaciones %d/%d, productos %d/%d, subproductos %d/%d, asociaciones %d/%d, precios %d/%d, usuarios %d/%d (creados/omitidos), %d advertencias",
		r.Modifications.Created, r.Modifications.Skipped,
		r.Products.Created, r.Products.Skipped,
		r.Subproducts.Created, r.Subproducts.Skipped,
		r.ProductLinks.Created+r.SubproductLinks.Created, r.ProductLinks.Skipped+r.SubproductLinks.Skipped,
		r.Prices.Created, r.Prices.Skipped,
		r.Users.Created, r.Users.Skipped,
		len(r.Warnings),
	)
}

type Seeder struct {
	db    *gorm.DB
	admin config.SeedConfig
	log   *logger.Logger
}

// New builds a seeder. When admin carries a username and password, a missing
// administrator account is created as well.
func New(db *gorm.DB, admin config.SeedConfig, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{db: db, admin: admin, log: log}
}

// Run applies cat inside one transaction.
func (s *Seeder) Run(ctx context.Context, cat *Catalog) (*Report, error) {
	report := &Report{}
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		run := &run{ctx: ctx, store: repository.NewStore(tx), report: report, log: s.log}

		// 1. Modifications
		if err := run.modifications(cat.Modifications); err != nil {
			return err
		}
		// 2. Products with their direct modifications and subproducts
		for _, p := range cat.Products {
			if err := run.product(p); err != nil {
				return err
			}
		}
		// 3. Prices
		for _, p := range cat.Prices {
			if err := run.price(p); err != nil {
				return err
			}
		}
		// 4. Administrator
		return run.administrator(s.admin)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(s.log.WithField(ctx, "warnings", len(report.Warnings)), "seed finished: "+report.String())
	return report, nil
}

type run struct {
	ctx    context.Context
	store  *repository.Store
	report *Report
	log    *logger.Logger
	mods   map[string]*model.Modification
}

func (r *run) warn(msg string) {
	r.report.Warnings = append(r.report.Warnings, msg)
	r.log.Warn(r.ctx, msg)
}

func (r *run) modifications(entries []ModificationEntry) error {
	r.mods = make(map[string]*model.Modification, len(entries))
	for _, e := range entries {
		code := model.NormalizeCode(e.Code)
		mod, err := r.store.Modifications.FindByCode(r.ctx, code)
		switch {
		case err == nil:
			r.report.Modifications.add(false)
		case database.IsNotFound(err):
			mod = &model.Modification{Code: code, Name: e.Name, Description: e.Description, Active: true}
			if err := r.store.Modifications.Create(r.ctx, mod); err != nil {
				return fmt.Errorf("creating modification %s: %w", code, err)
			}
			r.report.Modifications.add(true)
		default:
			return fmt.Errorf("looking up modification %s: %w", code, err)
		}
		r.mods[code] = mod
	}
	return nil
}

// modification resolves a code from this run or, failing that, the store.
func (r *run) modification(code string) (*model.Modification, error) {
	code = model.NormalizeCode(code)
	if mod, ok := r.mods[code]; ok {
		return mod, nil
	}
	mod, err := r.store.Modifications.FindByCode(r.ctx, code)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up modification %s: %w", code, err)
	}
	r.mods[code] = mod
	return mod, nil
}

func (r *run) product(e ProductEntry) error {
	code := model.NormalizeCode(e.Code)
	product, err := r.store.Products.FindByID(r.ctx, code)
	switch {
	case err == nil:
		r.report.Products.add(false)
	case database.IsNotFound(err):
		product = &model.Product{ID: code, Name: e.Name, Category: e.Category, Description: e.Description, Active: e.Active}
		if err := r.store.Products.Create(r.ctx, product); err != nil {
			return fmt.Errorf("creating product %s: %w", code, err)
		}
		r.report.Products.add(true)
	default:
		return fmt.Errorf("looking up product %s: %w", code, err)
	}

	for _, modCode := range e.Modifications {
		mod, err := r.modification(modCode)
		if err != nil {
			return err
		}
		if mod == nil {
			r.warn(fmt.Sprintf("modificación %q no encontrada para el producto %s", modCode, code))
			continue
		}
		added, err := r.store.ProductModifications.Add(r.ctx, product.ID, mod.ID)
		if err != nil {
			return fmt.Errorf("linking %s to product %s: %w", mod.Code, code, err)
		}
		r.report.ProductLinks.add(added)
	}

	for _, sub := range e.Subproducts {
		if err := r.subproduct(product, sub); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) subproduct(parent *model.Product, e SubproductEntry) error {
	code := model.NormalizeCode(e.Code)
	sub, err := r.store.Subproducts.FindByCode(r.ctx, code)
	switch {
	case err == nil:
		if sub.ProductID != parent.ID {
			r.warn(fmt.Sprintf("el subproducto %s ya existe bajo el producto %s, no bajo %s", code, sub.ProductID, parent.ID))
		}
		r.report.Subproducts.add(false)
	case database.IsNotFound(err):
		sub = &model.Subproduct{ProductID: parent.ID, Code: code, Name: e.Name, Description: e.Description, Active: e.Active}
		if err := r.store.Subproducts.Create(r.ctx, sub); err != nil {
			return fmt.Errorf("creating subproduct %s: %w", code, err)
		}
		r.report.Subproducts.add(true)
	default:
		return fmt.Errorf("looking up subproduct %s: %w", code, err)
	}

	for _, modCode := range e.Modifications {
		mod, err := r.modification(modCode)
		if err != nil {
			return err
		}
		if mod == nil {
			r.warn(fmt.Sprintf("modificación %q no encontrada para el subproducto %s", modCode, code))
			continue
		}
		added, err := r.store.SubproductModifications.Add(r.ctx, sub.ID, mod.ID)
		if err != nil {
			return fmt.Errorf("linking %s to subproduct %s: %w", mod.Code, code, err)
		}
		r.report.SubproductLinks.add(added)
	}
	return nil
}

func (r *run) target(e PriceEntry) (model.PriceTarget, error) {
	if e.Product != "" {
		product, err := r.store.Products.FindByID(r.ctx, model.NormalizeCode(e.Product))
		if err != nil {
			if database.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return model.ProductTarget{Code: product.ID}, nil
	}
	sub, err := r.store.Subproducts.FindByCode(r.ctx, model.NormalizeCode(e.Subproduct))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return model.SubproductTarget{ID: sub.ID}, nil
}

func (r *run) price(e PriceEntry) error {
	target, err := r.target(e)
	if err != nil {
		return fmt.Errorf("resolving price target %s: %w", e.label(), err)
	}
	if target == nil {
		r.warn(fmt.Sprintf("%s no encontrado, se omite el precio %s", e.label(), e.ClientType))
		return nil
	}
	clientType, ok := model.ParseClientType(e.ClientType)
	if !ok {
		r.warn(fmt.Sprintf("tipo de cliente %q desconocido para %s", e.ClientType, e.label()))
		return nil
	}
	perKg, err := e.perKg()
	if err != nil {
		return fmt.Errorf("price for %s: %w", e.label(), err)
	}
	minQty, err := e.minQty()
	if err != nil {
		return fmt.Errorf("price for %s: %w", e.label(), err)
	}

	_, err = r.store.Prices.FindTier(r.ctx, target, clientType, minQty)
	switch {
	case err == nil:
		r.report.Prices.add(false)
		return nil
	case !database.IsNotFound(err):
		return fmt.Errorf("looking up price for %s: %w", e.label(), err)
	}

	price := &model.Price{ClientType: clientType, PricePerKg: perKg, MinQtyKg: minQty, Active: true}
	price.SetTarget(target)
	if e.Promo != "" {
		promo := e.Promo
		price.PromoLabel = &promo
	}
	if err := r.store.Prices.Create(r.ctx, price); err != nil {
		return fmt.Errorf("creating price for %s: %w", e.label(), err)
	}
	r.report.Prices.add(true)
	return nil
}

func (r *run) administrator(cfg config.SeedConfig) error {
	if cfg.AdminUsername == "" {
		return nil
	}
	_, err := r.store.Users.FindByUsername(r.ctx, cfg.AdminUsername)
	switch {
	case err == nil:
		r.report.Users.add(false)
		return nil
	case !database.IsNotFound(err):
		return fmt.Errorf("looking up user %s: %w", cfg.AdminUsername, err)
	}
	if len(cfg.AdminPassword) < 6 {
		r.warn(fmt.Sprintf("no se crea el administrador %s: la contraseña debe tener al menos 6 caracteres", cfg.AdminUsername))
		return nil
	}

	admin := &model.User{
		Username: cfg.AdminUsername,
		Name:     cfg.AdminName,
		Role:     model.RoleAdministrator,
		Active:   true,
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if err := r.store.Users.Create(r.ctx, admin); err != nil {
		return fmt.Errorf("creating admin %s: %w", cfg.AdminUsername, err)
	}
	r.report.Users.add(true)
	return nil
}
