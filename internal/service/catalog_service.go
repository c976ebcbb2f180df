package service

import (
	"context"
	"sort"

	"pollos-admin/internal/model"
	"pollos-admin/internal/repository"
	"pollos-admin/pkg/database"
	apperrors "pollos-admin/pkg/errors"
	"pollos-admin/pkg/logger"
	"pollos-admin/pkg/metrics"
	"pollos-admin/pkg/validator"

	"gorm.io/gorm"
)

type CatalogService interface {
	ListProducts(ctx context.Context, actor Actor) ([]model.Product, error)
	GetProduct(ctx context.Context, actor Actor, code string) (*model.Product, error)
	ProductDetail(ctx context.Context, actor Actor, code string) (*ProductDetail, error)
	CreateProduct(ctx context.Context, actor Actor, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, code string, in ProductFields) (*model.Product, error)

	ListSubproducts(ctx context.Context, actor Actor, productCode string) ([]model.Subproduct, error)
	GetSubproduct(ctx context.Context, actor Actor, id uint) (*model.Subproduct, error)
	SubproductDetail(ctx context.Context, actor Actor, id uint) (*SubproductDetail, error)
	CreateSubproduct(ctx context.Context, actor Actor, productCode string, in SubproductInput) (*model.Subproduct, error)
	UpdateSubproduct(ctx context.Context, actor Actor, id uint, in SubproductFields) (*model.Subproduct, error)

	ListModifications(ctx context.Context, actor Actor) ([]model.Modification, error)
	GetModification(ctx context.Context, actor Actor, id uint) (*model.Modification, error)
	CreateModification(ctx context.Context, actor Actor, in ModificationInput) (*model.Modification, error)
	UpdateModification(ctx context.Context, actor Actor, id uint, in ModificationFields) (*model.Modification, error)

	AddProductModification(ctx context.Context, actor Actor, productCode, modificationCode string) (bool, error)
	RemoveProductModification(ctx context.Context, actor Actor, productCode string, modificationID uint) error
	ListProductModifications(ctx context.Context, actor Actor, productCode string) ([]model.Modification, error)
	AddSubproductModification(ctx context.Context, actor Actor, subproductID uint, modificationCode string) (bool, error)
	RemoveSubproductModification(ctx context.Context, actor Actor, subproductID uint, modificationID uint) error
	ListSubproductModifications(ctx context.Context, actor Actor, subproductID uint) ([]model.Modification, error)
}

type ProductDetail struct {
	Product       *model.Product
	Modifications []model.Modification
	Subproducts   []model.Subproduct
	Prices        []model.Price
}

type SubproductDetail struct {
	Subproduct    *model.Subproduct
	Modifications []model.Modification
	Prices        []model.Price
}

const (
	entityProduct      = "product"
	entitySubproduct   = "subproduct"
	entityModification = "modification"
	entityPrice        = "price"
)

type catalogService struct {
	uow     unitOfWork
	log     *logger.Logger
	metrics *metrics.Recorder
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, rec *metrics.Recorder) CatalogService {
	if log == nil {
		log = logger.Nop()
	}
	return &catalogService{uow: unitOfWork{db: db}, log: log, metrics: rec}
}

func (s *catalogService) record(ctx context.Context, actor Actor, entity, op string, err error) {
	s.metrics.Mutation(entity, op, err)
	if err == nil {
		return
	}
	ctx = s.log.WithFields(ctx, map[string]any{"entity": entity, "op": op, "actor": actor.Username})
	switch apperrors.CodeOf(err) {
	case apperrors.CodePersistence, apperrors.CodeInternal:
		s.log.Error(ctx, "catalog mutation failed", err)
	default:
		s.log.Debug(ctx, "catalog mutation rejected: "+err.Error())
	}
}

// ---- products ----

func (s *catalogService) ListProducts(ctx context.Context, actor Actor) ([]model.Product, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	products, err := s.uow.read().Products.FindAll(ctx)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, actor Actor, code string) (*model.Product, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	return findProduct(ctx, s.uow.read(), code)
}

func findProduct(ctx context.Context, store *repository.Store, code string) (*model.Product, error) {
	product, err := store.Products.FindByID(ctx, model.NormalizeCode(code))
	if err != nil {
		return nil, lookupError(err, "Producto no encontrado.")
	}
	return product, nil
}

func (s *catalogService) ProductDetail(ctx context.Context, actor Actor, code string) (*ProductDetail, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	store := s.uow.read()
	product, err := findProduct(ctx, store, code)
	if err != nil {
		return nil, err
	}
	mods, err := store.ProductModifications.List(ctx, product.ID)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	subs, err := store.Subproducts.FindByProduct(ctx, product.ID)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	prices, err := store.Prices.FindByTarget(ctx, model.ProductTarget{Code: product.ID})
	if err != nil {
		return nil, storeError(err, "", "")
	}
	sortPrices(prices)
	return &ProductDetail{Product: product, Modifications: mods, Subproducts: subs, Prices: prices}, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, actor Actor, in ProductInput) (product *model.Product, err error) {
	defer func() { s.record(ctx, actor, entityProduct, "create", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}

	in.Code = model.NormalizeCode(in.Code)
	in.ProductFields.normalize()
	if err = validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		if existing, err := store.Products.FindByID(ctx, in.Code); err == nil && existing != nil {
			return duplicate("codigo", "Ya existe un producto con el código "+in.Code+".")
		}
		if existing, err := store.Products.FindByName(ctx, in.Name); err == nil && existing != nil {
			return duplicate("nombre", "Ya existe un producto con ese nombre.")
		}

		product = &model.Product{
			ID:          in.Code,
			Name:        in.Name,
			Description: in.Description,
			Category:    in.Category,
			Active:      in.Active,
		}
		return storeError(store.Products.Create(ctx, product), "codigo", "Ya existe un producto con ese código o nombre.")
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, actor Actor, code string, in ProductFields) (product *model.Product, err error) {
	defer func() { s.record(ctx, actor, entityProduct, "update", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}

	in.normalize()
	if err = validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		var err error
		if product, err = findProduct(ctx, store, code); err != nil {
			return err
		}
		if product.Name != in.Name {
			if other, err := store.Products.FindByName(ctx, in.Name); err == nil && other.ID != product.ID {
				return duplicate("nombre", "Ya existe un producto con ese nombre.")
			}
		}
		product.Name = in.Name
		product.Description = in.Description
		product.Category = in.Category
		product.Active = in.Active
		return storeError(store.Products.Update(ctx, product), "nombre", "Ya existe un producto con ese nombre.")
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ---- subproducts ----

func (s *catalogService) ListSubproducts(ctx context.Context, actor Actor, productCode string) ([]model.Subproduct, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	store := s.uow.read()
	product, err := findProduct(ctx, store, productCode)
	if err != nil {
		return nil, err
	}
	subs, err := store.Subproducts.FindByProduct(ctx, product.ID)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return subs, nil
}

func (s *catalogService) GetSubproduct(ctx context.Context, actor Actor, id uint) (*model.Subproduct, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	return findSubproduct(ctx, s.uow.read(), id)
}

func findSubproduct(ctx context.Context, store *repository.Store, id uint) (*model.Subproduct, error) {
	sub, err := store.Subproducts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Subproducto no encontrado.")
	}
	return sub, nil
}

func (s *catalogService) SubproductDetail(ctx context.Context, actor Actor, id uint) (*SubproductDetail, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	store := s.uow.read()
	sub, err := findSubproduct(ctx, store, id)
	if err != nil {
		return nil, err
	}
	mods, err := store.SubproductModifications.List(ctx, sub.ID)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	prices, err := store.Prices.FindByTarget(ctx, model.SubproductTarget{ID: sub.ID})
	if err != nil {
		return nil, storeError(err, "", "")
	}
	sortPrices(prices)
	return &SubproductDetail{Subproduct: sub, Modifications: mods, Prices: prices}, nil
}

func (s *catalogService) CreateSubproduct(ctx context.Context, actor Actor, productCode string, in SubproductInput) (sub *model.Subproduct, err error) {
	defer func() { s.record(ctx, actor, entitySubproduct, "create", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}

	in.Code = model.NormalizeCode(in.Code)
	in.SubproductFields.normalize()
	if err = validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		parent, err := findProduct(ctx, store, productCode)
		if err != nil {
			return err
		}
		if existing, err := store.Subproducts.FindByCode(ctx, in.Code); err == nil && existing != nil {
			return duplicate("codigo", "Ya existe un subproducto con el código "+in.Code+".")
		}
		sub = &model.Subproduct{
			ProductID:   parent.ID,
			Code:        in.Code,
			Name:        in.Name,
			Description: in.Description,
			Active:      in.Active,
		}
		if err := storeError(store.Subproducts.Create(ctx, sub), "codigo", "Ya existe un subproducto con ese código."); err != nil {
			return err
		}
		sub.Product = parent
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *catalogService) UpdateSubproduct(ctx context.Context, actor Actor, id uint, in SubproductFields) (sub *model.Subproduct, err error) {
	defer func() { s.record(ctx, actor, entitySubproduct, "update", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}

	in.normalize()
	if err = validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		var err error
		if sub, err = findSubproduct(ctx, store, id); err != nil {
			return err
		}
		sub.Name = in.Name
		sub.Description = in.Description
		sub.Active = in.Active
		return storeError(store.Subproducts.Update(ctx, sub), "", "")
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ---- modifications ----

func (s *catalogService) ListModifications(ctx context.Context, actor Actor) ([]model.Modification, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	mods, err := s.uow.read().Modifications.FindAll(ctx)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return mods, nil
}

func (s *catalogService) GetModification(ctx context.Context, actor Actor, id uint) (*model.Modification, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	mod, err := s.uow.read().Modifications.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Modificación no encontrada.")
	}
	return mod, nil
}

func (s *catalogService) CreateModification(ctx context.Context, actor Actor, in ModificationInput) (mod *model.Modification, err error) {
	defer func() { s.record(ctx, actor, entityModification, "create", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}

	in.Code = model.NormalizeCode(in.Code)
	in.ModificationFields.normalize()
	if err = validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		if existing, err := store.Modifications.FindByCode(ctx, in.Code); err == nil && existing != nil {
			return duplicate("codigo", "Ya existe una modificación con el código "+in.Code+".")
		}
		mod = &model.Modification{
			Code:        in.Code,
			Name:        in.Name,
			Description: in.Description,
			Active:      in.Active,
		}
		return storeError(store.Modifications.Create(ctx, mod), "codigo", "Ya existe una modificación con ese código.")
	})
	if err != nil {
		return nil, err
	}
	return mod, nil
}

func (s *catalogService) UpdateModification(ctx context.Context, actor Actor, id uint, in ModificationFields) (mod *model.Modification, err error) {
	defer func() { s.record(ctx, actor, entityModification, "update", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}

	in.normalize()
	if err = validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		var err error
		if mod, err = store.Modifications.FindByID(ctx, id); err != nil {
			return lookupError(err, "Modificación no encontrada.")
		}
		mod.Name = in.Name
		mod.Description = in.Description
		mod.Active = in.Active
		return storeError(store.Modifications.Update(ctx, mod), "", "")
	})
	if err != nil {
		return nil, err
	}
	return mod, nil
}

// ---- associations ----

func findModificationByCode(ctx context.Context, store *repository.Store, code string) (*model.Modification, error) {
	code = model.NormalizeCode(code)
	mod, err := store.Modifications.FindByCode(ctx, code)
	if err == nil {
		return mod, nil
	}
	if database.IsNotFound(err) {
		return nil, apperrors.Field(apperrors.CodeValidation, "modificacion", "La modificación "+code+" no existe.")
	}
	return nil, lookupError(err, "")
}

func (s *catalogService) AddProductModification(ctx context.Context, actor Actor, productCode, modificationCode string) (added bool, err error) {
	defer func() { s.record(ctx, actor, entityProduct, "add_modification", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return false, err
	}
	err = s.uow.run(ctx, func(store *repository.Store) error {
		product, err := findProduct(ctx, store, productCode)
		if err != nil {
			return err
		}
		mod, err := findModificationByCode(ctx, store, modificationCode)
		if err != nil {
			return err
		}
		added, err = store.ProductModifications.Add(ctx, product.ID, mod.ID)
		return storeError(err, "", "")
	})
	return added, err
}

func (s *catalogService) RemoveProductModification(ctx context.Context, actor Actor, productCode string, modificationID uint) (err error) {
	defer func() { s.record(ctx, actor, entityProduct, "remove_modification", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return err
	}
	return s.uow.run(ctx, func(store *repository.Store) error {
		product, err := findProduct(ctx, store, productCode)
		if err != nil {
			return err
		}
		_, err = store.ProductModifications.Remove(ctx, product.ID, modificationID)
		return storeError(err, "", "")
	})
}

func (s *catalogService) ListProductModifications(ctx context.Context, actor Actor, productCode string) ([]model.Modification, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	store := s.uow.read()
	product, err := findProduct(ctx, store, productCode)
	if err != nil {
		return nil, err
	}
	mods, err := store.ProductModifications.List(ctx, product.ID)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return mods, nil
}

func (s *catalogService) AddSubproductModification(ctx context.Context, actor Actor, subproductID uint, modificationCode string) (added bool, err error) {
	defer func() { s.record(ctx, actor, entitySubproduct, "add_modification", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return false, err
	}
	err = s.uow.run(ctx, func(store *repository.Store) error {
		sub, err := findSubproduct(ctx, store, subproductID)
		if err != nil {
			return err
		}
		mod, err := findModificationByCode(ctx, store, modificationCode)
		if err != nil {
			return err
		}
		added, err = store.SubproductModifications.Add(ctx, sub.ID, mod.ID)
		return storeError(err, "", "")
	})
	return added, err
}

func (s *catalogService) RemoveSubproductModification(ctx context.Context, actor Actor, subproductID uint, modificationID uint) (err error) {
	defer func() { s.record(ctx, actor, entitySubproduct, "remove_modification", err) }()
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return err
	}
	return s.uow.run(ctx, func(store *repository.Store) error {
		sub, err := findSubproduct(ctx, store, subproductID)
		if err != nil {
			return err
		}
		_, err = store.SubproductModifications.Remove(ctx, sub.ID, modificationID)
		return storeError(err, "", "")
	})
}

func (s *catalogService) ListSubproductModifications(ctx context.Context, actor Actor, subproductID uint) ([]model.Modification, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	store := s.uow.read()
	sub, err := findSubproduct(ctx, store, subproductID)
	if err != nil {
		return nil, err
	}
	mods, err := store.SubproductModifications.List(ctx, sub.ID)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return mods, nil
}

// sortPrices orders prices by client type rank, then minimum quantity.
func sortPrices(prices []model.Price) {
	sort.SliceStable(prices, func(i, j int) bool {
		ri, rj := prices[i].ClientType.Rank(), prices[j].ClientType.Rank()
		if ri != rj {
			return ri < rj
		}
		return prices[i].MinQtyKg.LessThan(prices[j].MinQtyKg)
	})
}
