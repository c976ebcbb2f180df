package handler

import (
	"errors"
	"strconv"

	"pollos-admin/internal/middleware"
	apperrors "pollos-admin/pkg/errors"
	"pollos-admin/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// render executes a page inside the layout. The signed-in user and any
// pending flash notice are added to data.
func render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	data["User"] = middleware.CurrentUser(c)
	if _, ok := data["Flash"]; !ok {
		kind, msg := middleware.PopFlash(c)
		data["Flash"], data["FlashKind"] = msg, kind
	}
	return c.Status(status).Render(name, data)
}

// redirect answers a successful form post with a 303 and a flash notice.
func redirect(c *fiber.Ctx, location, notice string) error {
	if notice != "" {
		middleware.SetFlash(c, middleware.FlashSuccess, notice)
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

// formError re-renders a form with field errors for validation and duplicate
// failures. Anything else is left to the error handler.
func formError(c *fiber.Ctx, err error, name string, data fiber.Map) error {
	return formErrorWith(c, err, func(extra fiber.Map) error {
		for k, v := range extra {
			data[k] = v
		}
		return render(c, fiber.StatusUnprocessableEntity, name, data)
	})
}

// formErrorWith is formError for pages that reload their own data before
// rendering. rerender receives the error bindings.
func formErrorWith(c *fiber.Ctx, err error, rerender func(extra fiber.Map) error) error {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeValidation, apperrors.CodeDuplicateCode:
		return rerender(fiber.Map{
			"Errors":    apperrors.As(err).Details(),
			"Flash":     apperrors.PublicMessage(err),
			"FlashKind": middleware.FlashError,
		})
	}
	return err
}

func badForm() error {
	return fiber.NewError(fiber.StatusBadRequest, "Formulario inválido.")
}

// paramID reads a numeric route parameter. Malformed ids are reported as not
// found, the same as ids that do not exist.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.New(apperrors.CodeNotFound, "Recurso no encontrado.")
	}
	return uint(id), nil
}

// ErrorHandler renders the error page for anything a handler returned.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			status  int
			message string
		)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status, message = fe.Code, fe.Message
		} else {
			status = apperrors.MetadataFor(apperrors.CodeOf(err)).HTTPStatus
			message = apperrors.PublicMessage(err)
		}

		if status >= fiber.StatusInternalServerError {
			log.Error(c.UserContext(), "request failed", err)
		}

		renderErr := c.Status(status).Render("error", fiber.Map{
			"Title":   strconv.Itoa(status),
			"Status":  status,
			"Message": message,
			"User":    middleware.CurrentUser(c),
		})
		if renderErr != nil {
			return c.Status(status).SendString(message)
		}
		return nil
	}
}
