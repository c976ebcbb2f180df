// Package views holds the admin HTML templates, embedded in the binary.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"pollos-admin/internal/model"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

// Layout wraps every page.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// New returns the template engine for fiber.Config.Views.
func New() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(Funcs())
	return engine
}

// Funcs are the helpers available to every template.
func Funcs() map[string]any {
	return map[string]any{
		"money":       Money,
		"kg":          Kg,
		"date":        Date,
		"dateTime":    DateTime,
		"clientLabel": func(c model.ClientType) string { return c.Label() },
		"roleLabel":   func(r model.Role) string { return r.Label() },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// errs may be absent from the binding, so it is taken untyped.
		"fieldError": func(errs any, field string) string {
			m, _ := errs.(map[string]string)
			return m[field]
		},
		"upper": strings.ToUpper,
	}
}

func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func Kg(d decimal.Decimal) string {
	return d.String() + " kg"
}

// Date formats an optional calendar date as used by the date inputs.
func Date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func DateTime(t *time.Time) string {
	if t == nil {
		return "nunca"
	}
	return t.Local().Format("2006-01-02 15:04")
}
