package handler

import (
	"strconv"

	"pollos-admin/internal/middleware"
	"pollos-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ModificationHandler struct {
	catalog service.CatalogService
}

func NewModificationHandler(catalog service.CatalogService) *ModificationHandler {
	return &ModificationHandler{catalog: catalog}
}

// GET /modificaciones
func (h *ModificationHandler) List(c *fiber.Ctx) error {
	mods, err := h.catalog.ListModifications(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "modifications", fiber.Map{
		"Title":         "Modificaciones",
		"Modifications": mods,
	})
}

// GET /modificaciones/crear
func (h *ModificationHandler) New(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "modification_form", fiber.Map{
		"Title":  "Nueva modificación",
		"Action": "/modificaciones/crear",
		"Form":   service.ModificationFields{Active: true},
	})
}

// POST /modificaciones/crear
func (h *ModificationHandler) Create(c *fiber.Ctx) error {
	var in service.ModificationInput
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}

	mod, err := h.catalog.CreateModification(c.UserContext(), middleware.Actor(c), in)
	if err != nil {
		return formError(c, err, "modification_form", fiber.Map{
			"Title":  "Nueva modificación",
			"Action": "/modificaciones/crear",
			"Code":   in.Code,
			"Form":   in.ModificationFields,
		})
	}
	return redirect(c, "/modificaciones", "Modificación "+mod.Code+" creada.")
}

// GET /modificaciones/editar/:mid
func (h *ModificationHandler) Edit(c *fiber.Ctx) error {
	id, err := paramID(c, "mid")
	if err != nil {
		return err
	}
	mod, err := h.catalog.GetModification(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "modification_form", fiber.Map{
		"Title":   "Editar modificación",
		"Action":  "/modificaciones/editar/" + strconv.FormatUint(uint64(mod.ID), 10),
		"Editing": true,
		"Code":    mod.Code,
		"Form":    service.ModificationFields{Name: mod.Name, Description: mod.Description, Active: mod.Active},
	})
}

// POST /modificaciones/editar/:mid
func (h *ModificationHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "mid")
	if err != nil {
		return err
	}
	var in service.ModificationFields
	if err := c.BodyParser(&in); err != nil {
		return badForm()
	}

	ctx, actor := c.UserContext(), middleware.Actor(c)
	mod, err := h.catalog.UpdateModification(ctx, actor, id, in)
	if err != nil {
		return formErrorWith(c, err, func(extra fiber.Map) error {
			current, getErr := h.catalog.GetModification(ctx, actor, id)
			if getErr != nil {
				return getErr
			}
			data := fiber.Map{
				"Title":   "Editar modificación",
				"Action":  c.Path(),
				"Editing": true,
				"Code":    current.Code,
				"Form":    in,
			}
			for k, v := range extra {
				data[k] = v
			}
			return render(c, fiber.StatusUnprocessableEntity, "modification_form", data)
		})
	}
	return redirect(c, "/modificaciones", "Modificación "+mod.Code+" actualizada.")
}
