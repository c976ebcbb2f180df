package handler

import (
	"strconv"

	"pollos-admin/internal/middleware"
	"pollos-admin/internal/model"
	"pollos-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves products, subproducts and their modification links.
type CatalogHandler struct {
	catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// modificationLink is the add-modification form on detail pages.
type modificationLink struct {
	Code string `form:"codigo_modif"`
}

// GET /productos
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "products", fiber.Map{
		"Title":    "Productos",
		"Products": products,
	})
}

func productForm(title, action string) fiber.Map {
	return fiber.Map{"Title": title, "Action": action}
}

// GET /productos/crear
func (h *CatalogHandler) NewProduct(c *fiber.Ctx) error {
	data := productForm("Nuevo producto", "/productos/crear")
	data["Form"] = service.ProductFields{Active: true}
	return render(c, fiber.StatusOK, "product_form", data)
}

// POST /productos/crear
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), middleware.Actor(c), in)
	if err != nil {
		data := productForm("Nuevo producto", "/productos/crear")
		data["Code"], data["Form"] = in.Code, in.ProductFields
		return formError(c, err, "product_form", data)
	}
	return redirect(c, "/productos/ver/"+product.ID, "Producto "+product.Name+" creado.")
}

// GET /productos/editar/:id
func (h *CatalogHandler) EditProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	data := productForm("Editar producto", "/productos/editar/"+product.ID)
	data["Editing"], data["Code"] = true, product.ID
	data["Form"] = service.ProductFields{
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Active:      product.Active,
	}
	return render(c, fiber.StatusOK, "product_form", data)
}

// POST /productos/editar/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	code := model.NormalizeCode(c.Params("id"))
	var in service.ProductFields
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), middleware.Actor(c), code, in)
	if err != nil {
		data := productForm("Editar producto", "/productos/editar/"+code)
		data["Editing"], data["Code"], data["Form"] = true, code, in
		return formError(c, err, "product_form", data)
	}
	return redirect(c, "/productos/ver/"+product.ID, "Producto "+product.Name+" actualizado.")
}

// GET /productos/ver/:id
func (h *CatalogHandler) ShowProduct(c *fiber.Ctx) error {
	return h.renderProduct(c, fiber.StatusOK, c.Params("id"), nil)
}

func (h *CatalogHandler) renderProduct(c *fiber.Ctx, status int, code string, extra fiber.Map) error {
	detail, err := h.catalog.ProductDetail(c.UserContext(), middleware.Actor(c), code)
	if err != nil {
		return err
	}
	data := fiber.Map{"Title": detail.Product.Name, "Detail": detail}
	for k, v := range extra {
		data[k] = v
	}
	return render(c, status, "product_detail", data)
}

// POST /productos/:id/modificaciones
func (h *CatalogHandler) AddProductModification(c *fiber.Ctx) error {
	code := model.NormalizeCode(c.Params("id"))
	var in modificationLink
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}

	added, err := h.catalog.AddProductModification(c.UserContext(), middleware.Actor(c), code, in.Code)
	if err != nil {
		return formErrorWith(c, err, func(extra fiber.Map) error {
			return h.renderProduct(c, fiber.StatusUnprocessableEntity, code, extra)
		})
	}
	return redirect(c, "/productos/ver/"+code, linkNotice(added))
}

// POST /productos/:id/modificaciones/:mid/quitar
func (h *CatalogHandler) RemoveProductModification(c *fiber.Ctx) error {
	code := model.NormalizeCode(c.Params("id"))
	modID, err := paramID(c, "mid")
	if err != nil {
		return err
	}
	if err := h.catalog.RemoveProductModification(c.UserContext(), middleware.Actor(c), code, modID); err != nil {
		return err
	}
	return redirect(c, "/productos/ver/"+code, "Modificación quitada.")
}

// GET /productos/:id/subproductos/crear
func (h *CatalogHandler) NewSubproduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "subproduct_form", fiber.Map{
		"Title":   "Nuevo subproducto",
		"Action":  "/productos/" + product.ID + "/subproductos/crear",
		"Product": product,
		"Form":    service.SubproductFields{Active: true},
	})
}

// POST /productos/:id/subproductos/crear
func (h *CatalogHandler) CreateSubproduct(c *fiber.Ctx) error {
	ctx, actor := c.UserContext(), middleware.Actor(c)
	product, err := h.catalog.GetProduct(ctx, actor, c.Params("id"))
	if err != nil {
		return err
	}
	var in service.SubproductInput
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}

	sub, err := h.catalog.CreateSubproduct(ctx, actor, product.ID, in)
	if err != nil {
		return formError(c, err, "subproduct_form", fiber.Map{
			"Title":   "Nuevo subproducto",
			"Action":  "/productos/" + product.ID + "/subproductos/crear",
			"Product": product,
			"Code":    in.Code,
			"Form":    in.SubproductFields,
		})
	}
	return redirect(c, "/productos/ver/"+product.ID, "Subproducto "+sub.Name+" creado.")
}

// GET /subproductos/editar/:sid
func (h *CatalogHandler) EditSubproduct(c *fiber.Ctx) error {
	id, err := paramID(c, "sid")
	if err != nil {
		return err
	}
	return h.renderSubproduct(c, fiber.StatusOK, id, nil, nil)
}

// renderSubproduct shows the edit form with the subproduct's links and
// prices. form overrides the stored values when re-rendering a failed post.
func (h *CatalogHandler) renderSubproduct(c *fiber.Ctx, status int, id uint, form *service.SubproductFields, extra fiber.Map) error {
	detail, err := h.catalog.SubproductDetail(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return err
	}
	sub := detail.Subproduct
	if form == nil {
		form = &service.SubproductFields{Name: sub.Name, Description: sub.Description, Active: sub.Active}
	}
	data := fiber.Map{
		"Title":   "Editar subproducto",
		"Action":  "/subproductos/editar/" + strconv.FormatUint(uint64(sub.ID), 10),
		"Editing": true,
		"Code":    sub.Code,
		"Product": sub.Product,
		"Form":    *form,
		"Detail":  detail,
	}
	for k, v := range extra {
		data[k] = v
	}
	return render(c, status, "subproduct_form", data)
}

// POST /subproductos/editar/:sid
func (h *CatalogHandler) UpdateSubproduct(c *fiber.Ctx) error {
	id, err := paramID(c, "sid")
	if err != nil {
		return err
	}
	var in service.SubproductFields
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}

	sub, err := h.catalog.UpdateSubproduct(c.UserContext(), middleware.Actor(c), id, in)
	if err != nil {
		return formErrorWith(c, err, func(extra fiber.Map) error {
			return h.renderSubproduct(c, fiber.StatusUnprocessableEntity, id, &in, extra)
		})
	}
	return redirect(c, "/productos/ver/"+sub.ProductID, "Subproducto "+sub.Name+" actualizado.")
}

// POST /subproductos/:sid/modificaciones
func (h *CatalogHandler) AddSubproductModification(c *fiber.Ctx) error {
	id, err := paramID(c, "sid")
	if err != nil {
		return err
	}
	var in modificationLink
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}

	added, err := h.catalog.AddSubproductModification(c.UserContext(), middleware.Actor(c), id, in.Code)
	if err != nil {
		return formErrorWith(c, err, func(extra fiber.Map) error {
			return h.renderSubproduct(c, fiber.StatusUnprocessableEntity, id, nil, extra)
		})
	}
	return redirect(c, subproductPath(id), linkNotice(added))
}

// POST /subproductos/:sid/modificaciones/:mid/quitar
func (h *CatalogHandler) RemoveSubproductModification(c *fiber.Ctx) error {
	id, err := paramID(c, "sid")
	if err != nil {
		return err
	}
	modID, err := paramID(c, "mid")
	if err != nil {
		return err
	}
	if err := h.catalog.RemoveSubproductModification(c.UserContext(), middleware.Actor(c), id, modID); err != nil {
		return err
	}
	return redirect(c, subproductPath(id), "Modificación quitada.")
}

func subproductPath(id uint) string {
	return "/subproductos/editar/" + strconv.FormatUint(uint64(id), 10)
}

func linkNotice(added bool) string {
	if added {
		return "Modificación agregada."
	}
	return "La modificación ya estaba asociada."
}
